// Package http wires the transport layer: the admin and public JSON API via
// Huma, the server-rendered public pages, and the session/CSRF guard.
package http

import (
	stdhttp "net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/getsentry/sentry-go"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"gamehaven/app/internal/content"
	"gamehaven/app/internal/importer"
	"gamehaven/app/internal/llm"
	"gamehaven/app/internal/recaptcha"
)

// Options configures the HTTP server wiring.
type Options struct {
	Content     *content.Service
	Repository  *content.Repository
	Importer    *importer.Importer
	Writer      llm.Writer
	Verifier    recaptcha.Verifier
	Database    *gorm.DB
	Logger      *logrus.Logger
	SentryHub   *sentry.Hub
	Auth        AuthSettings
	RateLimiter RateLimiterSettings
}

// AuthSettings carries the credentials the login and guard checks compare
// against.
type AuthSettings struct {
	AdminPassword string
	SessionToken  string
}

// RateLimiterSettings configures the HTTP rate limiter behaviour.
type RateLimiterSettings struct {
	RequestsPerSecond float64
	Burst             int
	ClientTTL         time.Duration
}

// Server wires the HTTP transport layer via Huma and templ components.
type Server struct {
	api         huma.API
	mux         *stdhttp.ServeMux
	content     *content.Service
	repository  *content.Repository
	importer    *importer.Importer
	writer      llm.Writer
	verifier    recaptcha.Verifier
	logger      *logrus.Logger
	sentry      *sentry.Hub
	db          *gorm.DB
	auth        AuthSettings
	rateLimiter *RateLimiter
}

// NewServer constructs the HTTP server.
func NewServer(opts Options) (*Server, error) {
	if opts.Content == nil {
		return nil, eris.New("content service is required")
	}
	if opts.Repository == nil {
		return nil, eris.New("content repository is required")
	}
	if opts.Importer == nil {
		return nil, eris.New("importer is required")
	}
	if opts.Database == nil {
		return nil, eris.New("database is required")
	}
	if strings.TrimSpace(opts.Auth.AdminPassword) == "" {
		return nil, eris.New("admin password is required")
	}
	if strings.TrimSpace(opts.Auth.SessionToken) == "" {
		return nil, eris.New("session token is required")
	}

	mux := stdhttp.NewServeMux()
	config := huma.DefaultConfig("GameHaven", "1.0.0")

	api := humago.New(mux, config)

	srv := &Server{
		api:        api,
		mux:        mux,
		content:    opts.Content,
		repository: opts.Repository,
		importer:   opts.Importer,
		writer:     opts.Writer,
		verifier:   opts.Verifier,
		logger:     opts.Logger,
		sentry:     opts.SentryHub,
		db:         opts.Database,
		auth:       opts.Auth,
	}

	settings := opts.RateLimiter
	if settings.Burst <= 0 {
		return nil, eris.New("rate limiter burst must be greater than zero")
	}
	if settings.RequestsPerSecond <= 0 {
		return nil, eris.New("rate limiter requests per second must be greater than zero")
	}
	if settings.ClientTTL <= 0 {
		return nil, eris.New("rate limiter client TTL must be greater than zero")
	}

	srv.rateLimiter = NewRateLimiter(settings.Burst, settings.RequestsPerSecond, settings.ClientTTL)

	srv.registerMiddlewares()
	srv.registerRoutes()

	return srv, nil
}

// Handler exposes the underlying HTTP handler for wiring into the application.
func (s *Server) Handler() stdhttp.Handler {
	return s.mux
}

// API exposes the underlying Huma API instance.
func (s *Server) API() huma.API {
	return s.api
}

func (s *Server) registerMiddlewares() {
	s.api.UseMiddleware(
		s.sentryMiddleware(),
		s.recoveryMiddleware(),
		s.requestIDMiddleware(),
		s.rateLimitMiddleware(),
		s.adminGuardMiddleware(),
		s.loggingMiddleware(),
	)
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /favicon.ico", faviconHandler)
	s.mux.HandleFunc("HEAD /favicon.ico", faviconHandler)

	s.registerAuthRoutes()
	s.registerAdminRoutes()
	s.registerPublicAPIRoutes()
	s.registerPageRoutes()
	s.registerHealthRoute()
}

func (s *Server) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	s.mux.ServeHTTP(w, r)
}
