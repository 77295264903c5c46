package http

import (
	"context"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/sirupsen/logrus"

	"gamehaven/app/internal/content"
)

// --- free games ---

type freeGamesInput struct {
	Store   string `query:"store" required:"false" doc:"Filter by store name"`
	Page    int    `query:"page" required:"false"`
	PerPage int    `query:"perPage" required:"false"`
}

type dealJSON struct {
	Title         string  `json:"title"`
	Store         string  `json:"store"`
	OriginalPrice float64 `json:"originalPrice"`
	DealURL       string  `json:"dealUrl"`
	ImageURL      string  `json:"imageUrl"`
	SyncedAt      string  `json:"syncedAt"`
}

type freeGamesOutput struct {
	Body struct {
		Deals []dealJSON `json:"deals"`
		Total int64      `json:"total"`
	}
}

// --- comments ---

type commentInput struct {
	Body struct {
		ContentType    string `json:"contentType"`
		ContentSlug    string `json:"contentSlug"`
		Author         string `json:"author"`
		CommentBody    string `json:"body"`
		RecaptchaToken string `json:"recaptchaToken,omitempty"`
	}
}

type commentOutput struct {
	Status int
	Body   struct {
		Status string `json:"status"`
	}
}

// --- view tracking ---

type trackViewInput struct {
	Body struct {
		Type string `json:"type"`
		Slug string `json:"slug"`
	}
}

type trackViewOutput struct {
	Status int
}

func (s *Server) registerPublicAPIRoutes() {
	huma.Get(s.api, "/api/free-games", s.freeGamesHandler, func(op *huma.Operation) {
		op.Summary = "List free game deals"
	})
	huma.Post(s.api, "/api/comments", s.createCommentHandler, func(op *huma.Operation) {
		op.Summary = "Submit a comment"
	})
	huma.Post(s.api, "/api/views/track", s.trackViewHandler, func(op *huma.Operation) {
		op.Summary = "Record a content view"
	})
}

func (s *Server) freeGamesHandler(ctx context.Context, input *freeGamesInput) (*freeGamesOutput, error) {
	deals, total, err := s.repository.ListDeals(ctx, content.DealQuery{
		Store:   input.Store,
		Page:    input.Page,
		PerPage: input.PerPage,
	})
	if err != nil {
		return nil, s.serviceError(ctx, err, "listing free deals", nil)
	}

	resp := &freeGamesOutput{}
	resp.Body.Deals = make([]dealJSON, 0, len(deals))
	for _, deal := range deals {
		resp.Body.Deals = append(resp.Body.Deals, dealJSON{
			Title:         deal.Title,
			Store:         deal.Store,
			OriginalPrice: deal.OriginalPrice,
			DealURL:       deal.DealURL,
			ImageURL:      deal.ImageURL,
			SyncedAt:      deal.SyncedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	resp.Body.Total = total

	return resp, nil
}

func (s *Server) createCommentHandler(ctx context.Context, input *commentInput) (*commentOutput, error) {
	body := input.Body

	if !content.ValidType(body.ContentType) {
		return nil, huma.Error400BadRequest("unknown content type")
	}
	if strings.TrimSpace(body.ContentSlug) == "" {
		return nil, huma.Error400BadRequest("content slug is required")
	}
	if strings.TrimSpace(body.Author) == "" {
		return nil, huma.Error400BadRequest("author is required")
	}
	if strings.TrimSpace(body.CommentBody) == "" {
		return nil, huma.Error400BadRequest("comment body is required")
	}

	if s.verifier != nil {
		ok, err := s.verifier.Verify(ctx, body.RecaptchaToken, ClientIPFromContext(ctx))
		if err != nil {
			s.recordError(ctx, err, "verifying comment token", logrus.Fields{"slug": body.ContentSlug})
			return nil, huma.Error500InternalServerError("something went wrong")
		}
		if !ok {
			return nil, huma.Error400BadRequest("captcha verification failed")
		}
	}

	comment := &content.Comment{
		ContentType: body.ContentType,
		ContentSlug: strings.TrimSpace(body.ContentSlug),
		Author:      strings.TrimSpace(body.Author),
		Body:        strings.TrimSpace(body.CommentBody),
	}

	if err := s.repository.CreateComment(ctx, comment); err != nil {
		return nil, s.serviceError(ctx, err, "creating comment", logrus.Fields{"slug": body.ContentSlug})
	}

	resp := &commentOutput{Status: 201}
	resp.Body.Status = comment.Status

	return resp, nil
}

func (s *Server) trackViewHandler(ctx context.Context, input *trackViewInput) (*trackViewOutput, error) {
	if !content.ValidType(input.Body.Type) {
		return nil, huma.Error400BadRequest("unknown content type")
	}
	if strings.TrimSpace(input.Body.Slug) == "" {
		return nil, huma.Error400BadRequest("slug is required")
	}

	// Fire and forget: a failed increment must not surface to the visitor.
	if err := s.repository.IncrementViews(ctx, input.Body.Type, input.Body.Slug); err != nil {
		s.recordError(ctx, err, "incrementing views", logrus.Fields{
			"type": input.Body.Type,
			"slug": input.Body.Slug,
		})
	}

	return &trackViewOutput{Status: 204}, nil
}
