package http

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"gamehaven/app/internal/content"
	"gamehaven/app/internal/http/templates"
	"gamehaven/app/internal/sanitize"
)

const (
	homeGamesCount = 6
	homePostsCount = 3
	homeDealsCount = 6

	dealsPageSize = 100

	summaryLength = 160
)

type slugInput struct {
	Slug string `path:"slug"`
}

func (s *Server) registerPageRoutes() {
	huma.Get(s.api, "/", s.homePageHandler, htmlOperation("GameHaven home", stdhttp.StatusInternalServerError))
	huma.Get(s.api, "/games/{slug}", s.gamePageHandler, htmlOperation(
		"Game detail page",
		stdhttp.StatusNotFound,
		stdhttp.StatusInternalServerError,
	))
	huma.Get(s.api, "/blog/{slug}", s.blogPageHandler, htmlOperation(
		"Blog post page",
		stdhttp.StatusNotFound,
		stdhttp.StatusInternalServerError,
	))
	huma.Get(s.api, "/store/{slug}", s.productPageHandler, htmlOperation(
		"Product detail page",
		stdhttp.StatusNotFound,
		stdhttp.StatusInternalServerError,
	))
	huma.Get(s.api, "/free-games", s.dealsPageHandler, htmlOperation(
		"Free games page",
		stdhttp.StatusInternalServerError,
	))
}

func (s *Server) homePageHandler(ctx context.Context, _ *struct{}) (*htmlResponse, error) {
	games, err := s.repository.RecentGames(ctx, homeGamesCount)
	if err != nil {
		s.recordError(ctx, err, "loading recent games", nil)
		return s.renderErrorResponse(ctx, stdhttp.StatusInternalServerError, "We couldn't load GameHaven right now.")
	}

	posts, err := s.repository.RecentBlogPosts(ctx, homePostsCount)
	if err != nil {
		s.recordError(ctx, err, "loading recent posts", nil)
		return s.renderErrorResponse(ctx, stdhttp.StatusInternalServerError, "We couldn't load GameHaven right now.")
	}

	deals, _, err := s.repository.ListDeals(ctx, content.DealQuery{PerPage: homeDealsCount})
	if err != nil {
		s.recordError(ctx, err, "loading deal strip", nil)
		deals = nil
	}

	data := templates.HomePageData{
		RecentGames: make([]templates.CardView, 0, len(games)),
		RecentPosts: make([]templates.CardView, 0, len(posts)),
		Deals:       dealViews(deals),
		AdCode:      s.adCode(ctx, "home"),
	}

	for _, game := range games {
		data.RecentGames = append(data.RecentGames, templates.CardView{
			Title:    game.Title,
			URL:      "/games/" + game.Slug,
			Category: game.Category,
			CoverURL: game.CoverURL,
			Summary:  summarize(game.Description),
		})
	}
	for _, post := range posts {
		data.RecentPosts = append(data.RecentPosts, templates.CardView{
			Title:    post.Title,
			URL:      "/blog/" + post.Slug,
			Category: post.Category,
			CoverURL: post.CoverURL,
			Summary:  summarize(post.Content),
		})
	}

	body, err := renderComponent(ctx, templates.HomePage(data))
	if err != nil {
		s.recordError(ctx, err, "rendering home page", nil)
		return s.renderErrorResponse(ctx, stdhttp.StatusInternalServerError, "We couldn't render the homepage.")
	}

	return newHTMLResponse(stdhttp.StatusOK, body), nil
}

func (s *Server) gamePageHandler(ctx context.Context, input *slugInput) (*htmlResponse, error) {
	slug := strings.TrimSpace(input.Slug)

	game, err := s.repository.GameBySlug(ctx, slug)
	if err != nil {
		return s.detailError(ctx, err, "loading game page", slug)
	}

	data := templates.DetailPageData{
		Title:     game.Title,
		Category:  game.Category,
		CoverURL:  game.CoverURL,
		Body:      sanitize.Trust(game.DescriptionHTML),
		Tags:      content.SplitList(game.Tags),
		ActionURL: game.PlayURL,
		ActionTag: "Play now",
		Comments:  s.commentViews(ctx, content.TypeGames, slug),
		AdCode:    s.adCode(ctx, "detail"),
	}
	if game.Platform != "" {
		data.Meta = append(data.Meta, templates.MetaRow{Label: "Platform", Value: game.Platform})
	}
	if game.Rating > 0 {
		data.Meta = append(data.Meta, templates.MetaRow{Label: "Rating", Value: fmt.Sprintf("%.1f", game.Rating)})
	}

	return s.renderDetail(ctx, data, slug)
}

func (s *Server) blogPageHandler(ctx context.Context, input *slugInput) (*htmlResponse, error) {
	slug := strings.TrimSpace(input.Slug)

	post, err := s.repository.BlogPostBySlug(ctx, slug)
	if err != nil {
		return s.detailError(ctx, err, "loading blog page", slug)
	}

	data := templates.DetailPageData{
		Title:    post.Title,
		Category: post.Category,
		CoverURL: post.CoverURL,
		Body:     sanitize.Trust(post.ContentHTML),
		Tags:     content.SplitList(post.Tags),
		Comments: s.commentViews(ctx, content.TypeBlogs, slug),
		AdCode:   s.adCode(ctx, "detail"),
	}
	if post.Author != "" {
		data.Meta = append(data.Meta, templates.MetaRow{Label: "Author", Value: post.Author})
	}

	return s.renderDetail(ctx, data, slug)
}

func (s *Server) productPageHandler(ctx context.Context, input *slugInput) (*htmlResponse, error) {
	slug := strings.TrimSpace(input.Slug)

	product, err := s.repository.ProductBySlug(ctx, slug)
	if err != nil {
		return s.detailError(ctx, err, "loading product page", slug)
	}

	data := templates.DetailPageData{
		Title:     product.Name,
		Category:  product.Category,
		CoverURL:  product.ImageURL,
		Body:      sanitize.Trust(product.DescriptionHTML),
		Tags:      content.SplitList(product.Tags),
		ActionURL: product.BuyURL,
		ActionTag: "Buy now",
		Comments:  s.commentViews(ctx, content.TypeProducts, slug),
		AdCode:    s.adCode(ctx, "detail"),
	}
	if product.Price > 0 {
		data.Meta = append(data.Meta, templates.MetaRow{
			Label: "Price",
			Value: fmt.Sprintf("%.2f %s", product.Price, product.Currency),
		})
	}

	return s.renderDetail(ctx, data, slug)
}

func (s *Server) dealsPageHandler(ctx context.Context, _ *struct{}) (*htmlResponse, error) {
	deals, _, err := s.repository.ListDeals(ctx, content.DealQuery{PerPage: dealsPageSize})
	if err != nil {
		s.recordError(ctx, err, "loading deals page", nil)
		return s.renderErrorResponse(ctx, stdhttp.StatusInternalServerError, "We couldn't load the free games list.")
	}

	body, err := renderComponent(ctx, templates.DealsPage(templates.DealsPageData{Deals: dealViews(deals)}))
	if err != nil {
		s.recordError(ctx, err, "rendering deals page", nil)
		return s.renderErrorResponse(ctx, stdhttp.StatusInternalServerError, "We couldn't render the free games list.")
	}

	return newHTMLResponse(stdhttp.StatusOK, body), nil
}

func (s *Server) renderDetail(ctx context.Context, data templates.DetailPageData, slug string) (*htmlResponse, error) {
	body, err := renderComponent(ctx, templates.DetailPage(data))
	if err != nil {
		s.recordError(ctx, err, "rendering detail page", logrus.Fields{"slug": slug})
		return s.renderErrorResponse(ctx, stdhttp.StatusInternalServerError, errorFallbackMessage)
	}

	return newHTMLResponse(stdhttp.StatusOK, body), nil
}

func (s *Server) detailError(ctx context.Context, err error, message, slug string) (*htmlResponse, error) {
	if eris.Is(err, content.ErrNotFound) {
		return s.renderErrorResponse(ctx, stdhttp.StatusNotFound, "We couldn't find that page. It may have been moved or removed.")
	}

	s.recordError(ctx, err, message, logrus.Fields{"slug": slug})
	return s.renderErrorResponse(ctx, stdhttp.StatusInternalServerError, errorFallbackMessage)
}

// commentViews loads approved comments for a detail page. Failures degrade
// to an empty section rather than breaking the page.
func (s *Server) commentViews(ctx context.Context, contentType, slug string) []templates.CommentView {
	comments, err := s.repository.ApprovedComments(ctx, contentType, slug)
	if err != nil {
		s.recordError(ctx, err, "loading comments", logrus.Fields{"slug": slug})
		return nil
	}

	views := make([]templates.CommentView, 0, len(comments))
	for _, comment := range comments {
		views = append(views, templates.CommentView{
			Author: comment.Author,
			Body:   comment.Body,
			Posted: comment.CreatedAt.Format("Jan 2, 2006"),
		})
	}
	return views
}

// adCode returns the enabled snippet for a placement, empty when unset. The
// stored code is admin-provided ad-network markup and is injected raw.
func (s *Server) adCode(ctx context.Context, placement string) sanitize.TrustedHTML {
	ads, err := s.repository.ListAds(ctx)
	if err != nil {
		s.recordError(ctx, err, "loading ad placements", logrus.Fields{"placement": placement})
		return ""
	}

	for _, ad := range ads {
		if ad.Placement == placement && ad.Enabled {
			return sanitize.Trust(ad.Code)
		}
	}
	return ""
}

func dealViews(deals []content.FreeGameDeal) []templates.DealView {
	views := make([]templates.DealView, 0, len(deals))
	for _, deal := range deals {
		price := ""
		if deal.OriginalPrice > 0 {
			price = fmt.Sprintf("$%.2f", deal.OriginalPrice)
		}
		views = append(views, templates.DealView{
			Title:         deal.Title,
			Store:         deal.Store,
			OriginalPrice: price,
			DealURL:       deal.DealURL,
			ImageURL:      deal.ImageURL,
		})
	}
	return views
}

func summarize(text string) string {
	plain := strings.Join(strings.Fields(text), " ")
	if len(plain) <= summaryLength {
		return plain
	}

	cut := plain[:summaryLength]
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return cut + "…"
}
