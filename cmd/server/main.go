package main

import (
	"context"
	"errors"
	"fmt"
	stdhttp "net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"gamehaven/app/internal/config"
	"gamehaven/app/internal/content"
	appdb "gamehaven/app/internal/db"
	"gamehaven/app/internal/deals"
	apphttp "gamehaven/app/internal/http"
	"gamehaven/app/internal/importer"
	"gamehaven/app/internal/llm"
	applog "gamehaven/app/internal/log"
	"gamehaven/app/internal/recaptcha"
	"gamehaven/app/internal/slug"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return eris.Wrap(err, "failure loading configuration")
	}

	logger, err := applog.NewLogger(cfg.LogLevel)
	if err != nil {
		return eris.Wrap(err, "failure initialising logger")
	}

	sentryHub, flush, err := applog.InitSentry(logger, applog.SentrySettings{
		DSN:         cfg.SentryDSN,
		Environment: cfg.Environment,
	})
	if err != nil {
		return eris.Wrap(err, "failure initialising sentry")
	}
	defer flush()

	dbConn, err := appdb.Open(appdb.Options{
		Path:         cfg.DBPath,
		MaxOpenConns: cfg.MaxOpenConns,
		MaxIdleConns: cfg.MaxIdleConns,
	})
	if err != nil {
		return eris.Wrap(err, "opening database")
	}
	defer func() {
		if closeErr := appdb.Close(dbConn); closeErr != nil {
			logger.WithError(closeErr).Error("closing database")
		}
	}()

	if err := content.Migrate(ctx, dbConn, logger); err != nil {
		return eris.Wrap(err, "running migrations")
	}

	repository, err := content.NewRepository(dbConn, logger)
	if err != nil {
		return eris.Wrap(err, "building content repository")
	}

	resolver, err := slug.NewResolver(repository)
	if err != nil {
		return eris.Wrap(err, "building slug resolver")
	}

	contentService, err := content.NewService(repository, resolver, logger, sentryHub)
	if err != nil {
		return eris.Wrap(err, "creating content service")
	}

	csvImporter, err := importer.New(repository, logger)
	if err != nil {
		return eris.Wrap(err, "creating csv importer")
	}

	// Description drafting is optional: without an API key the endpoint
	// reports 503 and everything else works.
	var writer llm.Writer
	if strings.TrimSpace(cfg.LLMAPIKey) != "" {
		client, err := llm.NewClient(llm.ClientOptions{
			APIKey:  cfg.LLMAPIKey,
			BaseURL: cfg.LLMEndpoint,
			Logger:  logger,
		})
		if err != nil {
			return eris.Wrap(err, "creating llm client")
		}

		writer, err = llm.NewWriter(llm.WriterOptions{
			Client: client,
			Model:  cfg.LLMModel,
		})
		if err != nil {
			return eris.Wrap(err, "initialising description writer")
		}
	} else {
		logger.Info("LLM_API_KEY not set, description drafting disabled")
	}

	// Likewise for the captcha check on public comments.
	var verifier recaptcha.Verifier
	if strings.TrimSpace(cfg.RecaptchaKey) != "" {
		verifier, err = recaptcha.NewClient(recaptcha.ClientOptions{
			Secret: cfg.RecaptchaKey,
			Logger: logger,
		})
		if err != nil {
			return eris.Wrap(err, "creating recaptcha client")
		}
	} else {
		logger.Info("RECAPTCHA_SECRET not set, comment captcha disabled")
	}

	dealClient, err := deals.NewClient(deals.ClientOptions{
		Endpoint: cfg.DealsEndpoint,
		Logger:   logger,
	})
	if err != nil {
		return eris.Wrap(err, "creating deals client")
	}

	syncer, err := deals.NewSyncer(deals.SyncerOptions{
		Fetcher:   dealClient,
		Store:     repository,
		Logger:    logger,
		SentryHub: sentryHub,
	})
	if err != nil {
		return eris.Wrap(err, "creating deal syncer")
	}

	go syncer.Run(ctx, cfg.DealsInterval)

	transport, err := apphttp.NewServer(apphttp.Options{
		Content:    contentService,
		Repository: repository,
		Importer:   csvImporter,
		Writer:     writer,
		Verifier:   verifier,
		Database:   dbConn,
		Logger:     logger,
		SentryHub:  sentryHub,
		Auth: apphttp.AuthSettings{
			AdminPassword: cfg.AdminPassword,
			SessionToken:  cfg.SessionToken,
		},
		RateLimiter: apphttp.RateLimiterSettings{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
			ClientTTL:         cfg.RateLimit.ClientTTL,
		},
	})
	if err != nil {
		return eris.Wrap(err, "initialising http transport")
	}

	httpServer := &stdhttp.Server{
		Addr:    fmt.Sprintf("0.0.0.0:%d", cfg.ServerPort),
		Handler: transport.Handler(),
	}

	logger.WithFields(logrus.Fields{
		"addr": httpServer.Addr,
	}).Info("starting http server")

	serverErrCh := make(chan error, 1)
	go func() {
		err := httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			serverErrCh <- err
		} else {
			serverErrCh <- nil
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serverErrCh:
		if err != nil {
			return eris.Wrap(err, "http server error")
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return eris.Wrap(err, "shutting down http server")
	}

	logger.Info("http server shut down cleanly")
	return nil
}
