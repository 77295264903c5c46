package deals

import (
	"context"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"gamehaven/app/internal/content"
)

// Fetcher retrieves the current free-deal listing from the provider.
type Fetcher interface {
	FetchFreeDeals(ctx context.Context) ([]content.FreeGameDeal, error)
}

// Store persists a fetched batch, replacing deals absent from it.
type Store interface {
	ReplaceDeals(ctx context.Context, deals []content.FreeGameDeal, syncedAt time.Time) error
}

// SyncerOptions wires the periodic deal syncer.
type SyncerOptions struct {
	Fetcher   Fetcher
	Store     Store
	Logger    *logrus.Logger
	SentryHub *sentry.Hub
}

// Syncer keeps the local deal table aligned with the provider.
type Syncer struct {
	fetcher   Fetcher
	store     Store
	logger    *logrus.Logger
	sentryHub *sentry.Hub
	now       func() time.Time
}

// NewSyncer constructs a Syncer.
func NewSyncer(opts SyncerOptions) (*Syncer, error) {
	if opts.Fetcher == nil {
		return nil, eris.New("deal fetcher is required")
	}
	if opts.Store == nil {
		return nil, eris.New("deal store is required")
	}

	return &Syncer{
		fetcher:   opts.Fetcher,
		store:     opts.Store,
		logger:    opts.Logger,
		sentryHub: opts.SentryHub,
		now:       time.Now,
	}, nil
}

// Sync fetches the provider listing once and replaces the stored batch.
func (s *Syncer) Sync(ctx context.Context) error {
	deals, err := s.fetcher.FetchFreeDeals(ctx)
	if err != nil {
		s.recordError(err, "fetching free deals")
		return eris.Wrap(err, "fetching free deals")
	}

	syncedAt := s.now().UTC()
	if err := s.store.ReplaceDeals(ctx, deals, syncedAt); err != nil {
		s.recordError(err, "storing free deals")
		return eris.Wrap(err, "storing free deals")
	}

	if s.logger != nil {
		s.logger.WithFields(logrus.Fields{
			"count":     len(deals),
			"synced_at": syncedAt,
		}).Info("free deals synced")
	}

	return nil
}

// Run performs an initial sync and then re-syncs every interval until the
// context is cancelled. Sync failures are reported and retried on the next
// tick, never fatal.
func (s *Syncer) Run(ctx context.Context, interval time.Duration) {
	if err := s.Sync(ctx); err != nil && s.logger != nil {
		s.logger.WithField("error", err.Error()).Warn("initial deal sync failed")
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Sync(ctx); err != nil && s.logger != nil {
				s.logger.WithField("error", err.Error()).Warn("scheduled deal sync failed")
			}
		}
	}
}

func (s *Syncer) recordError(err error, message string) {
	if err == nil {
		return
	}

	if s.logger != nil {
		s.logger.WithField("error", err.Error()).Error(message)
	}

	if s.sentryHub != nil {
		s.sentryHub.CaptureException(err)
	}
}
