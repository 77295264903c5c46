package deals

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"gamehaven/app/internal/content"
)

func silentLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestNewClientRequiresEndpoint(t *testing.T) {
	t.Parallel()

	if _, err := NewClient(ClientOptions{}); err == nil {
		t.Fatalf("expected error for missing endpoint")
	}
}

func TestFetchFreeDealsMapsPayload(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("upperPrice") != "0" {
			t.Errorf("expected upperPrice=0 query, got %q", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"dealID":"abc","title":"Free Game","storeID":"1","normalPrice":"19.99","salePrice":"0.00","thumb":"https://img.example/abc.jpg"},
			{"dealID":"","title":"Broken Row"},
			{"dealID":"xyz","title":"Indie Gem","storeID":"99","normalPrice":"bad"}
		]`))
	}))
	defer server.Close()

	client, err := NewClient(ClientOptions{Endpoint: server.URL, HTTPClient: server.Client(), Logger: silentLogger()})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	deals, err := client.FetchFreeDeals(context.Background())
	if err != nil {
		t.Fatalf("FetchFreeDeals returned error: %v", err)
	}

	if len(deals) != 2 {
		t.Fatalf("expected rows without a deal id skipped, got %d deals", len(deals))
	}

	first := deals[0]
	if first.ExternalID != "abc" || first.Title != "Free Game" {
		t.Fatalf("unexpected first deal: %+v", first)
	}
	if first.Store != "Steam" {
		t.Fatalf("expected store id 1 mapped to Steam, got %q", first.Store)
	}
	if first.OriginalPrice != 19.99 {
		t.Fatalf("expected parsed original price, got %v", first.OriginalPrice)
	}
	if first.DealURL == "" || first.ImageURL != "https://img.example/abc.jpg" {
		t.Fatalf("expected deal and image URLs populated, got %+v", first)
	}

	second := deals[1]
	if second.Store != "99" {
		t.Fatalf("expected unknown store id passed through, got %q", second.Store)
	}
	if second.OriginalPrice != 0 {
		t.Fatalf("expected unparsable price to default to 0, got %v", second.OriginalPrice)
	}
}

func TestFetchFreeDealsNonOKStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client, err := NewClient(ClientOptions{Endpoint: server.URL, HTTPClient: server.Client(), Logger: silentLogger()})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	if _, err := client.FetchFreeDeals(context.Background()); err == nil {
		t.Fatalf("expected error for non-200 response")
	}
}

type fakeFetcher struct {
	deals []content.FreeGameDeal
	err   error
	calls int
}

func (f *fakeFetcher) FetchFreeDeals(context.Context) ([]content.FreeGameDeal, error) {
	f.calls++
	return f.deals, f.err
}

type fakeStore struct {
	batches  [][]content.FreeGameDeal
	syncedAt []time.Time
	err      error
}

func (f *fakeStore) ReplaceDeals(_ context.Context, deals []content.FreeGameDeal, syncedAt time.Time) error {
	if f.err != nil {
		return f.err
	}
	f.batches = append(f.batches, deals)
	f.syncedAt = append(f.syncedAt, syncedAt)
	return nil
}

func TestSyncerRequiresDependencies(t *testing.T) {
	t.Parallel()

	if _, err := NewSyncer(SyncerOptions{Store: &fakeStore{}}); err == nil {
		t.Fatalf("expected error for missing fetcher")
	}
	if _, err := NewSyncer(SyncerOptions{Fetcher: &fakeFetcher{}}); err == nil {
		t.Fatalf("expected error for missing store")
	}
}

func TestSyncStoresFetchedBatch(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{deals: []content.FreeGameDeal{{ExternalID: "d1", Title: "Deal"}}}
	store := &fakeStore{}

	syncer, err := NewSyncer(SyncerOptions{Fetcher: fetcher, Store: store, Logger: silentLogger()})
	if err != nil {
		t.Fatalf("NewSyncer returned error: %v", err)
	}

	if err := syncer.Sync(context.Background()); err != nil {
		t.Fatalf("Sync returned error: %v", err)
	}

	if len(store.batches) != 1 || len(store.batches[0]) != 1 {
		t.Fatalf("expected one stored batch, got %+v", store.batches)
	}
	if store.syncedAt[0].IsZero() {
		t.Fatalf("expected synced_at stamp to be set")
	}
}

func TestSyncPropagatesFetchError(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{err: eris.New("provider down")}
	store := &fakeStore{}

	syncer, err := NewSyncer(SyncerOptions{Fetcher: fetcher, Store: store, Logger: silentLogger()})
	if err != nil {
		t.Fatalf("NewSyncer returned error: %v", err)
	}

	if err := syncer.Sync(context.Background()); err == nil {
		t.Fatalf("expected fetch error to propagate")
	}
	if len(store.batches) != 0 {
		t.Fatalf("store must not be written when the fetch fails")
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{}
	store := &fakeStore{}

	syncer, err := NewSyncer(SyncerOptions{Fetcher: fetcher, Store: store, Logger: silentLogger()})
	if err != nil {
		t.Fatalf("NewSyncer returned error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		syncer.Run(ctx, time.Hour)
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not stop after context cancellation")
	}

	if fetcher.calls < 1 {
		t.Fatalf("expected the initial sync to run, got %d calls", fetcher.calls)
	}
}
