package content

import (
	"context"
	"strings"

	"github.com/getsentry/sentry-go"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"gamehaven/app/internal/markdown"
	"gamehaven/app/internal/sanitize"
	"gamehaven/app/internal/slug"
)

// Service implements the admin content operations: validation, Markdown
// rendering, slug resolution and persistence.
type Service struct {
	repo      *Repository
	slugs     *slug.Resolver
	logger    *logrus.Logger
	sentryHub *sentry.Hub
}

// NewService wires the content service with its dependencies.
func NewService(repo *Repository, resolver *slug.Resolver, logger *logrus.Logger, hub *sentry.Hub) (*Service, error) {
	if repo == nil {
		return nil, eris.New("content repository is required")
	}
	if resolver == nil {
		return nil, eris.New("slug resolver is required")
	}

	return &Service{
		repo:      repo,
		slugs:     resolver,
		logger:    logger,
		sentryHub: hub,
	}, nil
}

// Repository exposes the underlying repository for read paths that need no
// orchestration.
func (s *Service) Repository() *Repository {
	return s.repo
}

// GameInput is the tagged admin form payload for games. Description carries
// Markdown; DescriptionHTML, when set, carries rich-text-editor HTML and
// takes precedence after sanitization.
type GameInput struct {
	Title           string
	Category        string
	Description     string
	DescriptionHTML string
	CoverURL        string
	Gallery         []string
	Tags            []string
	Platform        string
	PlayURL         string
	Rating          float64
	Theme           string
}

// BlogPostInput is the tagged admin form payload for blog posts.
type BlogPostInput struct {
	Title       string
	Category    string
	Content     string
	ContentHTML string
	CoverURL    string
	Tags        []string
	Author      string
}

// ProductInput is the tagged admin form payload for products.
type ProductInput struct {
	Name            string
	Category        string
	Description     string
	DescriptionHTML string
	Price           float64
	Currency        string
	ImageURL        string
	Gallery         []string
	Tags            []string
	BuyURL          string
}

// renderBody produces the persisted HTML for a free-text field: editor HTML
// is sanitized, Markdown is rendered. Both outputs are safe for raw
// injection downstream.
func renderBody(markdownSource, editorHTML string) (string, error) {
	if strings.TrimSpace(editorHTML) != "" {
		cleaned, err := sanitize.Clean(editorHTML)
		if err != nil {
			return "", eris.Wrap(err, "sanitizing editor html")
		}
		return string(cleaned), nil
	}
	return markdown.Render(markdownSource), nil
}

// --- games ---

func (s *Service) CreateGame(ctx context.Context, input GameInput) (*Game, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, eris.Wrap(ErrValidation, "title is required")
	}

	html, err := renderBody(input.Description, input.DescriptionHTML)
	if err != nil {
		s.recordError(logrus.Fields{"title": title}, err, "rendering game description")
		return nil, err
	}

	resolved, err := s.slugs.Resolve(ctx, TypeGames, title, 0)
	if err != nil {
		s.recordError(logrus.Fields{"title": title}, err, "resolving game slug")
		return nil, eris.Wrap(err, "resolving game slug")
	}

	game := &Game{
		Slug:            resolved,
		Title:           title,
		Category:        defaultString(input.Category, DefaultCategory),
		Description:     input.Description,
		DescriptionHTML: html,
		CoverURL:        input.CoverURL,
		Gallery:         JoinList(input.Gallery),
		Tags:            JoinList(input.Tags),
		Platform:        input.Platform,
		PlayURL:         input.PlayURL,
		Rating:          defaultFloat(input.Rating, DefaultRating),
		Theme:           defaultString(input.Theme, DefaultTheme),
	}

	if err := s.repo.CreateGame(ctx, game); err != nil {
		s.recordError(logrus.Fields{"slug": resolved}, err, "persisting game")
		return nil, err
	}

	return game, nil
}

func (s *Service) UpdateGame(ctx context.Context, id uint, input GameInput) (*Game, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, eris.Wrap(ErrValidation, "title is required")
	}

	game, err := s.repo.GameByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// The slug is only re-derived when the title changed, excluding this
	// row from the uniqueness check.
	if game.Title != title {
		resolved, err := s.slugs.Resolve(ctx, TypeGames, title, game.ID)
		if err != nil {
			s.recordError(logrus.Fields{"title": title}, err, "resolving game slug")
			return nil, eris.Wrap(err, "resolving game slug")
		}
		game.Slug = resolved
	}

	html, err := renderBody(input.Description, input.DescriptionHTML)
	if err != nil {
		s.recordError(logrus.Fields{"title": title}, err, "rendering game description")
		return nil, err
	}

	game.Title = title
	game.Category = defaultString(input.Category, DefaultCategory)
	game.Description = input.Description
	game.DescriptionHTML = html
	game.CoverURL = input.CoverURL
	game.Gallery = JoinList(input.Gallery)
	game.Tags = JoinList(input.Tags)
	game.Platform = input.Platform
	game.PlayURL = input.PlayURL
	game.Rating = defaultFloat(input.Rating, DefaultRating)
	game.Theme = defaultString(input.Theme, DefaultTheme)

	if err := s.repo.SaveGame(ctx, game); err != nil {
		s.recordError(logrus.Fields{"slug": game.Slug}, err, "persisting game update")
		return nil, err
	}

	return game, nil
}

func (s *Service) DeleteGame(ctx context.Context, id uint) error {
	return s.repo.DeleteGame(ctx, id)
}

// --- blog posts ---

func (s *Service) CreateBlogPost(ctx context.Context, input BlogPostInput) (*BlogPost, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, eris.Wrap(ErrValidation, "title is required")
	}

	html, err := renderBody(input.Content, input.ContentHTML)
	if err != nil {
		s.recordError(logrus.Fields{"title": title}, err, "rendering blog content")
		return nil, err
	}

	resolved, err := s.slugs.Resolve(ctx, TypeBlogs, title, 0)
	if err != nil {
		s.recordError(logrus.Fields{"title": title}, err, "resolving blog slug")
		return nil, eris.Wrap(err, "resolving blog slug")
	}

	post := &BlogPost{
		Slug:        resolved,
		Title:       title,
		Category:    defaultString(input.Category, DefaultCategory),
		Content:     input.Content,
		ContentHTML: html,
		CoverURL:    input.CoverURL,
		Tags:        JoinList(input.Tags),
		Author:      defaultString(input.Author, DefaultAuthor),
	}

	if err := s.repo.CreateBlogPost(ctx, post); err != nil {
		s.recordError(logrus.Fields{"slug": resolved}, err, "persisting blog post")
		return nil, err
	}

	return post, nil
}

func (s *Service) UpdateBlogPost(ctx context.Context, id uint, input BlogPostInput) (*BlogPost, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, eris.Wrap(ErrValidation, "title is required")
	}

	post, err := s.repo.BlogPostByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if post.Title != title {
		resolved, err := s.slugs.Resolve(ctx, TypeBlogs, title, post.ID)
		if err != nil {
			s.recordError(logrus.Fields{"title": title}, err, "resolving blog slug")
			return nil, eris.Wrap(err, "resolving blog slug")
		}
		post.Slug = resolved
	}

	html, err := renderBody(input.Content, input.ContentHTML)
	if err != nil {
		s.recordError(logrus.Fields{"title": title}, err, "rendering blog content")
		return nil, err
	}

	post.Title = title
	post.Category = defaultString(input.Category, DefaultCategory)
	post.Content = input.Content
	post.ContentHTML = html
	post.CoverURL = input.CoverURL
	post.Tags = JoinList(input.Tags)
	post.Author = defaultString(input.Author, DefaultAuthor)

	if err := s.repo.SaveBlogPost(ctx, post); err != nil {
		s.recordError(logrus.Fields{"slug": post.Slug}, err, "persisting blog update")
		return nil, err
	}

	return post, nil
}

func (s *Service) DeleteBlogPost(ctx context.Context, id uint) error {
	return s.repo.DeleteBlogPost(ctx, id)
}

// --- products ---

func (s *Service) CreateProduct(ctx context.Context, input ProductInput) (*Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, eris.Wrap(ErrValidation, "name is required")
	}

	html, err := renderBody(input.Description, input.DescriptionHTML)
	if err != nil {
		s.recordError(logrus.Fields{"name": name}, err, "rendering product description")
		return nil, err
	}

	resolved, err := s.slugs.Resolve(ctx, TypeProducts, name, 0)
	if err != nil {
		s.recordError(logrus.Fields{"name": name}, err, "resolving product slug")
		return nil, eris.Wrap(err, "resolving product slug")
	}

	product := &Product{
		Slug:            resolved,
		Name:            name,
		Category:        defaultString(input.Category, DefaultCategory),
		Description:     input.Description,
		DescriptionHTML: html,
		Price:           input.Price,
		Currency:        defaultString(input.Currency, DefaultCurrency),
		ImageURL:        input.ImageURL,
		Gallery:         JoinList(input.Gallery),
		Tags:            JoinList(input.Tags),
		BuyURL:          input.BuyURL,
	}

	if err := s.repo.CreateProduct(ctx, product); err != nil {
		s.recordError(logrus.Fields{"slug": resolved}, err, "persisting product")
		return nil, err
	}

	return product, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id uint, input ProductInput) (*Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, eris.Wrap(ErrValidation, "name is required")
	}

	product, err := s.repo.ProductByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if product.Name != name {
		resolved, err := s.slugs.Resolve(ctx, TypeProducts, name, product.ID)
		if err != nil {
			s.recordError(logrus.Fields{"name": name}, err, "resolving product slug")
			return nil, eris.Wrap(err, "resolving product slug")
		}
		product.Slug = resolved
	}

	html, err := renderBody(input.Description, input.DescriptionHTML)
	if err != nil {
		s.recordError(logrus.Fields{"name": name}, err, "rendering product description")
		return nil, err
	}

	product.Name = name
	product.Category = defaultString(input.Category, DefaultCategory)
	product.Description = input.Description
	product.DescriptionHTML = html
	product.Price = input.Price
	product.Currency = defaultString(input.Currency, DefaultCurrency)
	product.ImageURL = input.ImageURL
	product.Gallery = JoinList(input.Gallery)
	product.Tags = JoinList(input.Tags)
	product.BuyURL = input.BuyURL

	if err := s.repo.SaveProduct(ctx, product); err != nil {
		s.recordError(logrus.Fields{"slug": product.Slug}, err, "persisting product update")
		return nil, err
	}

	return product, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id uint) error {
	return s.repo.DeleteProduct(ctx, id)
}

func defaultString(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return strings.TrimSpace(value)
}

func defaultFloat(value, fallback float64) float64 {
	if value == 0 {
		return fallback
	}
	return value
}

func (s *Service) recordError(fields logrus.Fields, err error, message string) {
	if err == nil {
		return
	}

	if s.logger != nil {
		entry := s.logger.WithField("error", err.Error())
		if len(fields) > 0 {
			entry = entry.WithFields(fields)
		}
		entry.Error(message)
	}

	if s.sentryHub != nil {
		s.sentryHub.CaptureException(err)
	}
}
