package http

import (
	"context"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"gamehaven/app/internal/content"
	"gamehaven/app/internal/importer"
)

const jsonContentType = "application/json; charset=utf-8"

// --- shared list plumbing ---

type listInput struct {
	Page    int    `query:"page" doc:"Page number, starting at 1"`
	PerPage int    `query:"perPage" doc:"Items per page, max 100"`
	Search  string `query:"search" doc:"Substring match on title or name"`
	Sort    string `query:"sort" doc:"Sort column, allow-listed per type"`
	Order   string `query:"order" enum:"asc,desc" doc:"Sort direction" required:"false"`
}

func (in *listInput) query() content.ListQuery {
	return content.ListQuery{
		Page:      in.Page,
		PerPage:   in.PerPage,
		Search:    in.Search,
		Sort:      in.Sort,
		Ascending: strings.EqualFold(in.Order, "asc"),
	}
}

func (in *listInput) echo() (int, int) {
	page := in.Page
	if page < 1 {
		page = 1
	}
	perPage := in.PerPage
	if perPage < 1 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}
	return page, perPage
}

type idInput struct {
	ID uint `path:"id"`
}

type deleteOutput struct {
	Status int
}

// serviceError translates domain errors into transport errors.
func (s *Server) serviceError(ctx context.Context, err error, message string, fields logrus.Fields) error {
	switch {
	case eris.Is(err, content.ErrNotFound):
		return huma.Error404NotFound("not found")
	case eris.Is(err, content.ErrValidation):
		detail := validationDetail(err)
		if detail == "" {
			detail = "validation failed"
		}
		return huma.Error400BadRequest(detail)
	case eris.Is(err, content.ErrUnknownType):
		return huma.Error400BadRequest("unknown content type")
	}

	s.recordError(ctx, err, message, fields)
	return huma.Error500InternalServerError("something went wrong")
}

// validationDetail surfaces the wrap message around ErrValidation without
// leaking the chain.
func validationDetail(err error) string {
	full := err.Error()
	cause := eris.Cause(err).Error()
	detail := strings.TrimSuffix(full, ": "+cause)
	if detail == full {
		return ""
	}
	return detail
}

// --- games ---

type gamePayload struct {
	Title           string   `json:"title,omitempty"`
	Category        string   `json:"category,omitempty"`
	Description     string   `json:"description,omitempty"`
	DescriptionHTML string   `json:"descriptionHtml,omitempty"`
	CoverURL        string   `json:"coverUrl,omitempty"`
	Gallery         []string `json:"gallery,omitempty"`
	Tags            []string `json:"tags,omitempty"`
	Platform        string   `json:"platform,omitempty"`
	PlayURL         string   `json:"playUrl,omitempty"`
	Rating          float64  `json:"rating,omitempty"`
	Theme           string   `json:"theme,omitempty"`
}

func (p gamePayload) input() content.GameInput {
	return content.GameInput{
		Title:           p.Title,
		Category:        p.Category,
		Description:     p.Description,
		DescriptionHTML: p.DescriptionHTML,
		CoverURL:        p.CoverURL,
		Gallery:         p.Gallery,
		Tags:            p.Tags,
		Platform:        p.Platform,
		PlayURL:         p.PlayURL,
		Rating:          p.Rating,
		Theme:           p.Theme,
	}
}

type gameView struct {
	ID              uint     `json:"id"`
	Slug            string   `json:"slug"`
	Title           string   `json:"title"`
	Category        string   `json:"category"`
	Description     string   `json:"description"`
	DescriptionHTML string   `json:"descriptionHtml"`
	CoverURL        string   `json:"coverUrl"`
	Gallery         []string `json:"gallery"`
	Tags            []string `json:"tags"`
	Platform        string   `json:"platform"`
	PlayURL         string   `json:"playUrl"`
	Rating          float64  `json:"rating"`
	Theme           string   `json:"theme"`
	Views           int64    `json:"views"`
	CreatedAt       string   `json:"createdAt"`
	UpdatedAt       string   `json:"updatedAt"`
}

func newGameView(game *content.Game) gameView {
	return gameView{
		ID:              game.ID,
		Slug:            game.Slug,
		Title:           game.Title,
		Category:        game.Category,
		Description:     game.Description,
		DescriptionHTML: game.DescriptionHTML,
		CoverURL:        game.CoverURL,
		Gallery:         content.SplitList(game.Gallery),
		Tags:            content.SplitList(game.Tags),
		Platform:        game.Platform,
		PlayURL:         game.PlayURL,
		Rating:          game.Rating,
		Theme:           game.Theme,
		Views:           game.Views,
		CreatedAt:       game.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       game.UpdatedAt.Format(time.RFC3339),
	}
}

type gameListOutput struct {
	Body struct {
		Items   []gameView `json:"items"`
		Total   int64      `json:"total"`
		Page    int        `json:"page"`
		PerPage int        `json:"perPage"`
	}
}

type gameOutput struct {
	Status int
	Body   gameView
}

type gameWriteInput struct {
	Body gamePayload
}

type gameUpdateInput struct {
	ID   uint `path:"id"`
	Body gamePayload
}

// --- blog posts ---

type blogPayload struct {
	Title       string   `json:"title,omitempty"`
	Category    string   `json:"category,omitempty"`
	Content     string   `json:"content,omitempty"`
	ContentHTML string   `json:"contentHtml,omitempty"`
	CoverURL    string   `json:"coverUrl,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Author      string   `json:"author,omitempty"`
}

func (p blogPayload) input() content.BlogPostInput {
	return content.BlogPostInput{
		Title:       p.Title,
		Category:    p.Category,
		Content:     p.Content,
		ContentHTML: p.ContentHTML,
		CoverURL:    p.CoverURL,
		Tags:        p.Tags,
		Author:      p.Author,
	}
}

type blogView struct {
	ID          uint     `json:"id"`
	Slug        string   `json:"slug"`
	Title       string   `json:"title"`
	Category    string   `json:"category"`
	Content     string   `json:"content"`
	ContentHTML string   `json:"contentHtml"`
	CoverURL    string   `json:"coverUrl"`
	Tags        []string `json:"tags"`
	Author      string   `json:"author"`
	Views       int64    `json:"views"`
	CreatedAt   string   `json:"createdAt"`
	UpdatedAt   string   `json:"updatedAt"`
}

func newBlogView(post *content.BlogPost) blogView {
	return blogView{
		ID:          post.ID,
		Slug:        post.Slug,
		Title:       post.Title,
		Category:    post.Category,
		Content:     post.Content,
		ContentHTML: post.ContentHTML,
		CoverURL:    post.CoverURL,
		Tags:        content.SplitList(post.Tags),
		Author:      post.Author,
		Views:       post.Views,
		CreatedAt:   post.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   post.UpdatedAt.Format(time.RFC3339),
	}
}

type blogListOutput struct {
	Body struct {
		Items   []blogView `json:"items"`
		Total   int64      `json:"total"`
		Page    int        `json:"page"`
		PerPage int        `json:"perPage"`
	}
}

type blogOutput struct {
	Status int
	Body   blogView
}

type blogWriteInput struct {
	Body blogPayload
}

type blogUpdateInput struct {
	ID   uint `path:"id"`
	Body blogPayload
}

// --- products ---

type productPayload struct {
	Name            string   `json:"name,omitempty"`
	Category        string   `json:"category,omitempty"`
	Description     string   `json:"description,omitempty"`
	DescriptionHTML string   `json:"descriptionHtml,omitempty"`
	Price           float64  `json:"price,omitempty"`
	Currency        string   `json:"currency,omitempty"`
	ImageURL        string   `json:"imageUrl,omitempty"`
	Gallery         []string `json:"gallery,omitempty"`
	Tags            []string `json:"tags,omitempty"`
	BuyURL          string   `json:"buyUrl,omitempty"`
}

func (p productPayload) input() content.ProductInput {
	return content.ProductInput{
		Name:            p.Name,
		Category:        p.Category,
		Description:     p.Description,
		DescriptionHTML: p.DescriptionHTML,
		Price:           p.Price,
		Currency:        p.Currency,
		ImageURL:        p.ImageURL,
		Gallery:         p.Gallery,
		Tags:            p.Tags,
		BuyURL:          p.BuyURL,
	}
}

type productView struct {
	ID              uint     `json:"id"`
	Slug            string   `json:"slug"`
	Name            string   `json:"name"`
	Category        string   `json:"category"`
	Description     string   `json:"description"`
	DescriptionHTML string   `json:"descriptionHtml"`
	Price           float64  `json:"price"`
	Currency        string   `json:"currency"`
	ImageURL        string   `json:"imageUrl"`
	Gallery         []string `json:"gallery"`
	Tags            []string `json:"tags"`
	BuyURL          string   `json:"buyUrl"`
	Views           int64    `json:"views"`
	CreatedAt       string   `json:"createdAt"`
	UpdatedAt       string   `json:"updatedAt"`
}

func newProductView(product *content.Product) productView {
	return productView{
		ID:              product.ID,
		Slug:            product.Slug,
		Name:            product.Name,
		Category:        product.Category,
		Description:     product.Description,
		DescriptionHTML: product.DescriptionHTML,
		Price:           product.Price,
		Currency:        product.Currency,
		ImageURL:        product.ImageURL,
		Gallery:         content.SplitList(product.Gallery),
		Tags:            content.SplitList(product.Tags),
		BuyURL:          product.BuyURL,
		Views:           product.Views,
		CreatedAt:       product.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       product.UpdatedAt.Format(time.RFC3339),
	}
}

type productListOutput struct {
	Body struct {
		Items   []productView `json:"items"`
		Total   int64         `json:"total"`
		Page    int           `json:"page"`
		PerPage int           `json:"perPage"`
	}
}

type productOutput struct {
	Status int
	Body   productView
}

type productWriteInput struct {
	Body productPayload
}

type productUpdateInput struct {
	ID   uint `path:"id"`
	Body productPayload
}

// --- route registration ---

func (s *Server) registerAdminRoutes() {
	huma.Get(s.api, "/api/admin/games", s.listGamesHandler)
	huma.Post(s.api, "/api/admin/games", s.createGameHandler)
	huma.Get(s.api, "/api/admin/games/{id}", s.getGameHandler)
	huma.Put(s.api, "/api/admin/games/{id}", s.updateGameHandler)
	huma.Delete(s.api, "/api/admin/games/{id}", s.deleteGameHandler)

	huma.Get(s.api, "/api/admin/blogs", s.listBlogsHandler)
	huma.Post(s.api, "/api/admin/blogs", s.createBlogHandler)
	huma.Get(s.api, "/api/admin/blogs/{id}", s.getBlogHandler)
	huma.Put(s.api, "/api/admin/blogs/{id}", s.updateBlogHandler)
	huma.Delete(s.api, "/api/admin/blogs/{id}", s.deleteBlogHandler)

	huma.Get(s.api, "/api/admin/products", s.listProductsHandler)
	huma.Post(s.api, "/api/admin/products", s.createProductHandler)
	huma.Get(s.api, "/api/admin/products/{id}", s.getProductHandler)
	huma.Put(s.api, "/api/admin/products/{id}", s.updateProductHandler)
	huma.Delete(s.api, "/api/admin/products/{id}", s.deleteProductHandler)

	huma.Post(s.api, "/api/admin/import", s.importHandler)

	huma.Get(s.api, "/api/admin/categories", s.listCategoriesHandler)
	huma.Put(s.api, "/api/admin/categories", s.updateCategoriesHandler)

	huma.Get(s.api, "/api/admin/ads", s.listAdsHandler)
	huma.Post(s.api, "/api/admin/ads", s.updateAdsHandler)

	huma.Get(s.api, "/api/admin/settings", s.listSettingsHandler)
	huma.Post(s.api, "/api/admin/settings", s.updateSettingsHandler)

	huma.Get(s.api, "/api/admin/social-links", s.listSocialLinksHandler)
	huma.Post(s.api, "/api/admin/social-links", s.updateSocialLinksHandler)

	huma.Post(s.api, "/api/admin/generate-description", s.generateDescriptionHandler)
}

// --- game handlers ---

func (s *Server) listGamesHandler(ctx context.Context, input *listInput) (*gameListOutput, error) {
	games, total, err := s.repository.ListGames(ctx, input.query())
	if err != nil {
		return nil, s.serviceError(ctx, err, "listing games", nil)
	}

	resp := &gameListOutput{}
	resp.Body.Items = make([]gameView, 0, len(games))
	for i := range games {
		resp.Body.Items = append(resp.Body.Items, newGameView(&games[i]))
	}
	resp.Body.Total = total
	resp.Body.Page, resp.Body.PerPage = input.echo()

	return resp, nil
}

func (s *Server) createGameHandler(ctx context.Context, input *gameWriteInput) (*gameOutput, error) {
	game, err := s.content.CreateGame(ctx, input.Body.input())
	if err != nil {
		return nil, s.serviceError(ctx, err, "creating game", logrus.Fields{"title": input.Body.Title})
	}

	return &gameOutput{Status: 201, Body: newGameView(game)}, nil
}

func (s *Server) getGameHandler(ctx context.Context, input *idInput) (*gameOutput, error) {
	game, err := s.repository.GameByID(ctx, input.ID)
	if err != nil {
		return nil, s.serviceError(ctx, err, "loading game", logrus.Fields{"id": input.ID})
	}

	return &gameOutput{Status: 200, Body: newGameView(game)}, nil
}

func (s *Server) updateGameHandler(ctx context.Context, input *gameUpdateInput) (*gameOutput, error) {
	game, err := s.content.UpdateGame(ctx, input.ID, input.Body.input())
	if err != nil {
		return nil, s.serviceError(ctx, err, "updating game", logrus.Fields{"id": input.ID})
	}

	return &gameOutput{Status: 200, Body: newGameView(game)}, nil
}

func (s *Server) deleteGameHandler(ctx context.Context, input *idInput) (*deleteOutput, error) {
	if err := s.content.DeleteGame(ctx, input.ID); err != nil {
		return nil, s.serviceError(ctx, err, "deleting game", logrus.Fields{"id": input.ID})
	}

	return &deleteOutput{Status: 204}, nil
}

// --- blog handlers ---

func (s *Server) listBlogsHandler(ctx context.Context, input *listInput) (*blogListOutput, error) {
	posts, total, err := s.repository.ListBlogPosts(ctx, input.query())
	if err != nil {
		return nil, s.serviceError(ctx, err, "listing blog posts", nil)
	}

	resp := &blogListOutput{}
	resp.Body.Items = make([]blogView, 0, len(posts))
	for i := range posts {
		resp.Body.Items = append(resp.Body.Items, newBlogView(&posts[i]))
	}
	resp.Body.Total = total
	resp.Body.Page, resp.Body.PerPage = input.echo()

	return resp, nil
}

func (s *Server) createBlogHandler(ctx context.Context, input *blogWriteInput) (*blogOutput, error) {
	post, err := s.content.CreateBlogPost(ctx, input.Body.input())
	if err != nil {
		return nil, s.serviceError(ctx, err, "creating blog post", logrus.Fields{"title": input.Body.Title})
	}

	return &blogOutput{Status: 201, Body: newBlogView(post)}, nil
}

func (s *Server) getBlogHandler(ctx context.Context, input *idInput) (*blogOutput, error) {
	post, err := s.repository.BlogPostByID(ctx, input.ID)
	if err != nil {
		return nil, s.serviceError(ctx, err, "loading blog post", logrus.Fields{"id": input.ID})
	}

	return &blogOutput{Status: 200, Body: newBlogView(post)}, nil
}

func (s *Server) updateBlogHandler(ctx context.Context, input *blogUpdateInput) (*blogOutput, error) {
	post, err := s.content.UpdateBlogPost(ctx, input.ID, input.Body.input())
	if err != nil {
		return nil, s.serviceError(ctx, err, "updating blog post", logrus.Fields{"id": input.ID})
	}

	return &blogOutput{Status: 200, Body: newBlogView(post)}, nil
}

func (s *Server) deleteBlogHandler(ctx context.Context, input *idInput) (*deleteOutput, error) {
	if err := s.content.DeleteBlogPost(ctx, input.ID); err != nil {
		return nil, s.serviceError(ctx, err, "deleting blog post", logrus.Fields{"id": input.ID})
	}

	return &deleteOutput{Status: 204}, nil
}

// --- product handlers ---

func (s *Server) listProductsHandler(ctx context.Context, input *listInput) (*productListOutput, error) {
	products, total, err := s.repository.ListProducts(ctx, input.query())
	if err != nil {
		return nil, s.serviceError(ctx, err, "listing products", nil)
	}

	resp := &productListOutput{}
	resp.Body.Items = make([]productView, 0, len(products))
	for i := range products {
		resp.Body.Items = append(resp.Body.Items, newProductView(&products[i]))
	}
	resp.Body.Total = total
	resp.Body.Page, resp.Body.PerPage = input.echo()

	return resp, nil
}

func (s *Server) createProductHandler(ctx context.Context, input *productWriteInput) (*productOutput, error) {
	product, err := s.content.CreateProduct(ctx, input.Body.input())
	if err != nil {
		return nil, s.serviceError(ctx, err, "creating product", logrus.Fields{"name": input.Body.Name})
	}

	return &productOutput{Status: 201, Body: newProductView(product)}, nil
}

func (s *Server) getProductHandler(ctx context.Context, input *idInput) (*productOutput, error) {
	product, err := s.repository.ProductByID(ctx, input.ID)
	if err != nil {
		return nil, s.serviceError(ctx, err, "loading product", logrus.Fields{"id": input.ID})
	}

	return &productOutput{Status: 200, Body: newProductView(product)}, nil
}

func (s *Server) updateProductHandler(ctx context.Context, input *productUpdateInput) (*productOutput, error) {
	product, err := s.content.UpdateProduct(ctx, input.ID, input.Body.input())
	if err != nil {
		return nil, s.serviceError(ctx, err, "updating product", logrus.Fields{"id": input.ID})
	}

	return &productOutput{Status: 200, Body: newProductView(product)}, nil
}

func (s *Server) deleteProductHandler(ctx context.Context, input *idInput) (*deleteOutput, error) {
	if err := s.content.DeleteProduct(ctx, input.ID); err != nil {
		return nil, s.serviceError(ctx, err, "deleting product", logrus.Fields{"id": input.ID})
	}

	return &deleteOutput{Status: 204}, nil
}

// --- CSV import ---

type importInput struct {
	Body struct {
		Type    string `json:"type" doc:"Content type the rows belong to"`
		CSVData string `json:"csvData" doc:"Raw CSV text, header row first"`
	}
}

type importOutput struct {
	Body importer.Report
}

func (s *Server) importHandler(ctx context.Context, input *importInput) (*importOutput, error) {
	report, err := s.importer.Import(ctx, input.Body.Type, input.Body.CSVData)
	if err != nil {
		return nil, s.serviceError(ctx, err, "running csv import", logrus.Fields{"type": input.Body.Type})
	}

	return &importOutput{Body: *report}, nil
}

// --- categories ---

type categoryPayload struct {
	ContentType string `json:"contentType"`
	Name        string `json:"name"`
	Label       string `json:"label,omitempty"`
	Theme       string `json:"theme,omitempty"`
	Position    int    `json:"position,omitempty"`
}

type categoriesInput struct {
	Type string `query:"type" required:"false" doc:"Filter by content type"`
}

type categoriesOutput struct {
	Body struct {
		Categories []categoryPayload `json:"categories"`
	}
}

type categoriesUpdateInput struct {
	Body struct {
		Categories []categoryPayload `json:"categories"`
	}
}

func (s *Server) listCategoriesHandler(ctx context.Context, input *categoriesInput) (*categoriesOutput, error) {
	categories, err := s.repository.ListCategories(ctx, input.Type)
	if err != nil {
		return nil, s.serviceError(ctx, err, "listing categories", nil)
	}

	resp := &categoriesOutput{}
	resp.Body.Categories = make([]categoryPayload, 0, len(categories))
	for _, category := range categories {
		resp.Body.Categories = append(resp.Body.Categories, categoryPayload{
			ContentType: category.ContentType,
			Name:        category.Name,
			Label:       category.Label,
			Theme:       category.Theme,
			Position:    category.Position,
		})
	}

	return resp, nil
}

func (s *Server) updateCategoriesHandler(ctx context.Context, input *categoriesUpdateInput) (*categoriesOutput, error) {
	records := make([]content.CategorySetting, 0, len(input.Body.Categories))
	for _, category := range input.Body.Categories {
		if !content.ValidType(category.ContentType) {
			return nil, huma.Error400BadRequest("unknown content type: " + category.ContentType)
		}
		if strings.TrimSpace(category.Name) == "" {
			return nil, huma.Error400BadRequest("category name is required")
		}
		records = append(records, content.CategorySetting{
			ContentType: category.ContentType,
			Name:        category.Name,
			Label:       category.Label,
			Theme:       category.Theme,
			Position:    category.Position,
		})
	}

	if err := s.repository.UpsertCategories(ctx, records); err != nil {
		return nil, s.serviceError(ctx, err, "upserting categories", nil)
	}

	return s.listCategoriesHandler(ctx, &categoriesInput{})
}

// --- ads ---

type adPayload struct {
	Placement string `json:"placement"`
	Code      string `json:"code,omitempty"`
	Enabled   bool   `json:"enabled,omitempty"`
}

type adsOutput struct {
	Body struct {
		Ads []adPayload `json:"ads"`
	}
}

type adsUpdateInput struct {
	Body struct {
		Ads []adPayload `json:"ads"`
	}
}

func (s *Server) listAdsHandler(ctx context.Context, _ *struct{}) (*adsOutput, error) {
	ads, err := s.repository.ListAds(ctx)
	if err != nil {
		return nil, s.serviceError(ctx, err, "listing ads", nil)
	}

	resp := &adsOutput{}
	resp.Body.Ads = make([]adPayload, 0, len(ads))
	for _, ad := range ads {
		resp.Body.Ads = append(resp.Body.Ads, adPayload{Placement: ad.Placement, Code: ad.Code, Enabled: ad.Enabled})
	}

	return resp, nil
}

func (s *Server) updateAdsHandler(ctx context.Context, input *adsUpdateInput) (*adsOutput, error) {
	records := make([]content.Ad, 0, len(input.Body.Ads))
	for _, ad := range input.Body.Ads {
		if strings.TrimSpace(ad.Placement) == "" {
			return nil, huma.Error400BadRequest("ad placement is required")
		}
		records = append(records, content.Ad{Placement: ad.Placement, Code: ad.Code, Enabled: ad.Enabled})
	}

	if err := s.repository.UpsertAds(ctx, records); err != nil {
		return nil, s.serviceError(ctx, err, "upserting ads", nil)
	}

	return s.listAdsHandler(ctx, nil)
}

// --- site settings ---

type settingPayload struct {
	Key   string `json:"key"`
	Value string `json:"value,omitempty"`
}

type settingsOutput struct {
	Body struct {
		Settings []settingPayload `json:"settings"`
	}
}

type settingsUpdateInput struct {
	Body struct {
		Settings []settingPayload `json:"settings"`
	}
}

func (s *Server) listSettingsHandler(ctx context.Context, _ *struct{}) (*settingsOutput, error) {
	settings, err := s.repository.ListSettings(ctx)
	if err != nil {
		return nil, s.serviceError(ctx, err, "listing settings", nil)
	}

	resp := &settingsOutput{}
	resp.Body.Settings = make([]settingPayload, 0, len(settings))
	for _, setting := range settings {
		resp.Body.Settings = append(resp.Body.Settings, settingPayload{Key: setting.Key, Value: setting.Value})
	}

	return resp, nil
}

func (s *Server) updateSettingsHandler(ctx context.Context, input *settingsUpdateInput) (*settingsOutput, error) {
	records := make([]content.SiteSetting, 0, len(input.Body.Settings))
	for _, setting := range input.Body.Settings {
		if strings.TrimSpace(setting.Key) == "" {
			return nil, huma.Error400BadRequest("setting key is required")
		}
		records = append(records, content.SiteSetting{Key: setting.Key, Value: setting.Value})
	}

	if err := s.repository.UpsertSettings(ctx, records); err != nil {
		return nil, s.serviceError(ctx, err, "upserting settings", nil)
	}

	return s.listSettingsHandler(ctx, nil)
}

// --- social links ---

type socialLinkPayload struct {
	Platform string `json:"platform"`
	URL      string `json:"url,omitempty"`
	Enabled  bool   `json:"enabled,omitempty"`
}

type socialLinksOutput struct {
	Body struct {
		Links []socialLinkPayload `json:"links"`
	}
}

type socialLinksUpdateInput struct {
	Body struct {
		Links []socialLinkPayload `json:"links"`
	}
}

func (s *Server) listSocialLinksHandler(ctx context.Context, _ *struct{}) (*socialLinksOutput, error) {
	links, err := s.repository.ListSocialLinks(ctx)
	if err != nil {
		return nil, s.serviceError(ctx, err, "listing social links", nil)
	}

	resp := &socialLinksOutput{}
	resp.Body.Links = make([]socialLinkPayload, 0, len(links))
	for _, link := range links {
		resp.Body.Links = append(resp.Body.Links, socialLinkPayload{Platform: link.Platform, URL: link.URL, Enabled: link.Enabled})
	}

	return resp, nil
}

func (s *Server) updateSocialLinksHandler(ctx context.Context, input *socialLinksUpdateInput) (*socialLinksOutput, error) {
	records := make([]content.SocialLink, 0, len(input.Body.Links))
	for _, link := range input.Body.Links {
		if strings.TrimSpace(link.Platform) == "" {
			return nil, huma.Error400BadRequest("social link platform is required")
		}
		records = append(records, content.SocialLink{Platform: link.Platform, URL: link.URL, Enabled: link.Enabled})
	}

	if err := s.repository.UpsertSocialLinks(ctx, records); err != nil {
		return nil, s.serviceError(ctx, err, "upserting social links", nil)
	}

	return s.listSocialLinksHandler(ctx, nil)
}

// --- description drafting ---

type generateDescriptionInput struct {
	Body struct {
		Type string `json:"type" enum:"games,blogs,products"`
		Name string `json:"name"`
	}
}

type generateDescriptionOutput struct {
	Body struct {
		Description string `json:"description"`
	}
}

func (s *Server) generateDescriptionHandler(ctx context.Context, input *generateDescriptionInput) (*generateDescriptionOutput, error) {
	if s.writer == nil {
		return nil, huma.Error503ServiceUnavailable("description drafting is not configured")
	}

	if strings.TrimSpace(input.Body.Name) == "" {
		return nil, huma.Error400BadRequest("name is required")
	}

	description, err := s.writer.WriteDescription(ctx, input.Body.Type, input.Body.Name)
	if err != nil {
		s.recordError(ctx, err, "drafting description", logrus.Fields{"name": input.Body.Name})
		return nil, huma.Error500InternalServerError("something went wrong")
	}

	resp := &generateDescriptionOutput{}
	resp.Body.Description = description

	return resp, nil
}
