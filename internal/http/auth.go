package http

import (
	"context"
	stdhttp "net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
)

type loginInput struct {
	Body struct {
		Password string `json:"password" doc:"Admin password"`
	}
}

type loginOutput struct {
	SetCookie []stdhttp.Cookie `header:"Set-Cookie"`
	Body      struct {
		Authenticated bool `json:"authenticated"`
	}
}

type authCheckInput struct {
	Session string `cookie:"portal_session"`
}

type authCheckOutput struct {
	Body struct {
		Authenticated bool `json:"authenticated"`
	}
}

func (s *Server) registerAuthRoutes() {
	huma.Post(s.api, "/api/auth/login", s.loginHandler, func(op *huma.Operation) {
		op.Summary = "Admin login"
	})
	huma.Get(s.api, "/api/auth/logout", s.logoutHandler, func(op *huma.Operation) {
		op.Summary = "Admin logout"
	})
	huma.Get(s.api, "/api/auth/check", s.authCheckHandler, func(op *huma.Operation) {
		op.Summary = "Check admin session"
	})
}

func (s *Server) loginHandler(_ context.Context, input *loginInput) (*loginOutput, error) {
	if input.Body.Password != s.auth.AdminPassword {
		return nil, huma.Error401Unauthorized("authentication required")
	}

	resp := &loginOutput{}
	resp.Body.Authenticated = true
	resp.SetCookie = []stdhttp.Cookie{
		{
			Name:     sessionCookieName,
			Value:    s.auth.SessionToken,
			Path:     "/",
			HttpOnly: true,
			SameSite: stdhttp.SameSiteLaxMode,
		},
		{
			// Readable by the admin frontend so it can echo the value in
			// the X-CSRF-Token header.
			Name:     csrfCookieName,
			Value:    uuid.NewString(),
			Path:     "/",
			SameSite: stdhttp.SameSiteLaxMode,
		},
	}

	return resp, nil
}

func (s *Server) logoutHandler(_ context.Context, _ *struct{}) (*loginOutput, error) {
	resp := &loginOutput{}
	resp.Body.Authenticated = false
	resp.SetCookie = []stdhttp.Cookie{
		{Name: sessionCookieName, Value: "", Path: "/", HttpOnly: true, MaxAge: -1},
		{Name: csrfCookieName, Value: "", Path: "/", MaxAge: -1},
	}

	return resp, nil
}

func (s *Server) authCheckHandler(_ context.Context, input *authCheckInput) (*authCheckOutput, error) {
	resp := &authCheckOutput{}
	resp.Body.Authenticated = input.Session != "" && input.Session == s.auth.SessionToken
	return resp, nil
}
