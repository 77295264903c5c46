package http

import (
	"context"
	"encoding/json"
	"io"
	stdhttp "net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"gamehaven/app/internal/content"
	appdb "gamehaven/app/internal/db"
	"gamehaven/app/internal/importer"
	"gamehaven/app/internal/slug"
)

const (
	testPassword     = "correct-horse"
	testSessionToken = "session-token-123"
)

type fakeVerifier struct {
	ok  bool
	err error
}

func (f *fakeVerifier) Verify(context.Context, string, string) (bool, error) {
	return f.ok, f.err
}

func newTestServer(t *testing.T, opts ...func(*Options)) (*Server, *content.Repository) {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	dbConn, err := appdb.Open(appdb.Options{Path: filepath.Join(t.TempDir(), "portal.db")})
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() {
		_ = appdb.Close(dbConn)
	})

	if err := content.Migrate(context.Background(), dbConn, logger); err != nil {
		t.Fatalf("running migrations: %v", err)
	}

	repo, err := content.NewRepository(dbConn, logger)
	if err != nil {
		t.Fatalf("building repository: %v", err)
	}

	resolver, err := slug.NewResolver(repo)
	if err != nil {
		t.Fatalf("building resolver: %v", err)
	}

	service, err := content.NewService(repo, resolver, logger, nil)
	if err != nil {
		t.Fatalf("building service: %v", err)
	}

	csvImporter, err := importer.New(repo, logger)
	if err != nil {
		t.Fatalf("building importer: %v", err)
	}

	options := Options{
		Content:    service,
		Repository: repo,
		Importer:   csvImporter,
		Database:   dbConn,
		Logger:     logger,
		Auth: AuthSettings{
			AdminPassword: testPassword,
			SessionToken:  testSessionToken,
		},
		RateLimiter: RateLimiterSettings{
			RequestsPerSecond: 1000,
			Burst:             1000,
			ClientTTL:         time.Minute,
		},
	}
	for _, opt := range opts {
		opt(&options)
	}

	srv, err := NewServer(options)
	if err != nil {
		t.Fatalf("building server: %v", err)
	}

	return srv, repo
}

func doJSON(srv *Server, method, path, body string, authed bool, csrf string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.AddCookie(&stdhttp.Cookie{Name: sessionCookieName, Value: testSessionToken})
	}
	if csrf != "" {
		req.AddCookie(&stdhttp.Cookie{Name: csrfCookieName, Value: csrf})
		req.Header.Set(csrfHeaderName, csrf)
	}

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

// --- auth ---

func TestLoginRejectsWrongPassword(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	rec := doJSON(srv, "POST", "/api/auth/login", `{"password":"wrong"}`, false, "")

	if rec.Code != 401 {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestLoginSetsSessionAndCSRFCookies(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	rec := doJSON(srv, "POST", "/api/auth/login", `{"password":"`+testPassword+`"}`, false, "")

	if rec.Code != 200 {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var session, csrf *stdhttp.Cookie
	for _, cookie := range rec.Result().Cookies() {
		switch cookie.Name {
		case sessionCookieName:
			session = cookie
		case csrfCookieName:
			csrf = cookie
		}
	}

	if session == nil || session.Value != testSessionToken {
		t.Fatalf("expected session cookie with configured token, got %+v", session)
	}
	if !session.HttpOnly {
		t.Fatalf("session cookie must be HttpOnly")
	}
	if csrf == nil || csrf.Value == "" {
		t.Fatalf("expected non-empty csrf cookie, got %+v", csrf)
	}
	if csrf.HttpOnly {
		t.Fatalf("csrf cookie must stay readable by the frontend")
	}
}

func TestAuthCheckReflectsSession(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	rec := doJSON(srv, "GET", "/api/auth/check", "", true, "")
	if rec.Code != 200 || !strings.Contains(rec.Body.String(), `"authenticated":true`) {
		t.Fatalf("expected authenticated true, got %d %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(srv, "GET", "/api/auth/check", "", false, "")
	if rec.Code != 200 || !strings.Contains(rec.Body.String(), `"authenticated":false`) {
		t.Fatalf("expected authenticated false, got %d %s", rec.Code, rec.Body.String())
	}
}

// --- guard ---

func TestAdminRoutesRequireSession(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	rec := doJSON(srv, "GET", "/api/admin/games", "", false, "")

	if rec.Code != 401 {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "authentication required") {
		t.Fatalf("expected generic message, got %q", rec.Body.String())
	}
}

func TestMutatingAdminRequestsRequireMatchingCSRF(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)
	payload := `{"title":"Starfall"}`

	// Session alone is enough for reads.
	if rec := doJSON(srv, "GET", "/api/admin/games", "", true, ""); rec.Code != 200 {
		t.Fatalf("expected status 200 for guarded read, got %d", rec.Code)
	}

	// No CSRF pair.
	if rec := doJSON(srv, "POST", "/api/admin/games", payload, true, ""); rec.Code != 401 {
		t.Fatalf("expected status 401 without csrf pair, got %d", rec.Code)
	}

	// Header does not match the cookie.
	req := httptest.NewRequest("POST", "/api/admin/games", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&stdhttp.Cookie{Name: sessionCookieName, Value: testSessionToken})
	req.AddCookie(&stdhttp.Cookie{Name: csrfCookieName, Value: "cookie-value"})
	req.Header.Set(csrfHeaderName, "different-value")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	if rec.Code != 401 {
		t.Fatalf("expected status 401 for mismatched csrf, got %d", rec.Code)
	}

	// Matching pair passes.
	if rec := doJSON(srv, "POST", "/api/admin/games", payload, true, "csrf-token"); rec.Code != 201 {
		t.Fatalf("expected status 201 with matching csrf, got %d: %s", rec.Code, rec.Body.String())
	}
}

// --- admin CRUD ---

func TestGameCRUDRoundTrip(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	rec := doJSON(srv, "POST", "/api/admin/games", `{"title":"Neon Drift","category":"racing","description":"Fast **arcade** fun","tags":["racing","arcade"]}`, true, "tok")
	if rec.Code != 201 {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var created struct {
		ID              uint   `json:"id"`
		Slug            string `json:"slug"`
		DescriptionHTML string `json:"descriptionHtml"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decoding create response: %v", err)
	}
	if created.Slug != "neon-drift" {
		t.Fatalf("expected slug neon-drift, got %q", created.Slug)
	}
	if !strings.Contains(created.DescriptionHTML, "<strong>arcade</strong>") {
		t.Fatalf("expected rendered markdown, got %q", created.DescriptionHTML)
	}

	rec = doJSON(srv, "GET", "/api/admin/games?search=Neon", "", true, "")
	if rec.Code != 200 || !strings.Contains(rec.Body.String(), `"total":1`) {
		t.Fatalf("expected one search hit, got %d %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(srv, "PUT", "/api/admin/games/1", `{"title":"Neon Drift 2"}`, true, "tok")
	if rec.Code != 200 || !strings.Contains(rec.Body.String(), `"slug":"neon-drift-2"`) {
		t.Fatalf("expected re-resolved slug after rename, got %d %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(srv, "GET", "/api/admin/games/1", "", true, "")
	if rec.Code != 200 || !strings.Contains(rec.Body.String(), `"slug":"neon-drift-2"`) {
		t.Fatalf("expected stored game by id, got %d %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(srv, "DELETE", "/api/admin/games/1", "", true, "tok")
	if rec.Code != 204 {
		t.Fatalf("expected status 204, got %d", rec.Code)
	}

	rec = doJSON(srv, "GET", "/api/admin/games/1", "", true, "")
	if rec.Code != 404 {
		t.Fatalf("expected status 404 after delete, got %d", rec.Code)
	}
}

func TestCreateGameRequiresTitle(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	rec := doJSON(srv, "POST", "/api/admin/games", `{"category":"racing"}`, true, "tok")

	if rec.Code != 400 {
		t.Fatalf("expected status 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCreateProductRequiresName(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	rec := doJSON(srv, "POST", "/api/admin/products", `{"price":19.5}`, true, "tok")

	if rec.Code != 400 {
		t.Fatalf("expected status 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestBlogAndProductFetchAndUpdate(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	if rec := doJSON(srv, "POST", "/api/admin/blogs", `{"title":"Patch Notes","content":"Welcome"}`, true, "tok"); rec.Code != 201 {
		t.Fatalf("expected status 201 for blog create, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec := doJSON(srv, "GET", "/api/admin/blogs/1", "", true, ""); rec.Code != 200 || !strings.Contains(rec.Body.String(), `"slug":"patch-notes"`) {
		t.Fatalf("expected stored blog post by id, got %d %s", rec.Code, rec.Body.String())
	}
	if rec := doJSON(srv, "PUT", "/api/admin/blogs/1", `{"title":"Release Notes"}`, true, "tok"); rec.Code != 200 || !strings.Contains(rec.Body.String(), `"slug":"release-notes"`) {
		t.Fatalf("expected renamed blog post, got %d %s", rec.Code, rec.Body.String())
	}

	if rec := doJSON(srv, "POST", "/api/admin/products", `{"name":"Haven Pad","price":49.9}`, true, "tok"); rec.Code != 201 {
		t.Fatalf("expected status 201 for product create, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec := doJSON(srv, "GET", "/api/admin/products/1", "", true, ""); rec.Code != 200 || !strings.Contains(rec.Body.String(), `"slug":"haven-pad"`) {
		t.Fatalf("expected stored product by id, got %d %s", rec.Code, rec.Body.String())
	}
	if rec := doJSON(srv, "PUT", "/api/admin/products/1", `{"name":"Haven Pad Pro"}`, true, "tok"); rec.Code != 200 || !strings.Contains(rec.Body.String(), `"slug":"haven-pad-pro"`) {
		t.Fatalf("expected renamed product, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestImportEndpointReportsPerRowResults(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	csv := "title,category\nAlpha,action\n,puzzle\nBeta,indie"
	payload, err := json.Marshal(map[string]string{"type": "games", "csvData": csv})
	if err != nil {
		t.Fatalf("marshalling payload: %v", err)
	}

	rec := doJSON(srv, "POST", "/api/admin/import", string(payload), true, "tok")
	if rec.Code != 200 {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var report struct {
		SuccessCount int      `json:"successCount"`
		FailCount    int      `json:"failCount"`
		Errors       []string `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decoding report: %v", err)
	}

	if report.SuccessCount != 2 || report.FailCount != 1 {
		t.Fatalf("expected 2 successes and 1 failure, got %+v", report)
	}
	if len(report.Errors) != 1 || !strings.Contains(report.Errors[0], "row 3") {
		t.Fatalf("expected row 3 error, got %+v", report.Errors)
	}
}

func TestImportRejectsUnknownType(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	rec := doJSON(srv, "POST", "/api/admin/import", `{"type":"movies","csvData":"title\nAlpha"}`, true, "tok")

	if rec.Code != 400 {
		t.Fatalf("expected status 400 for unknown import type, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAdsSettingsAndCategoriesRoundTrip(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	rec := doJSON(srv, "POST", "/api/admin/ads", `{"ads":[{"placement":"home","code":"<ins>ad</ins>","enabled":true}]}`, true, "tok")
	if rec.Code != 200 || !strings.Contains(rec.Body.String(), `"placement":"home"`) {
		t.Fatalf("expected upserted ad echoed back, got %d %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(srv, "POST", "/api/admin/settings", `{"settings":[{"key":"site_title","value":"GameHaven"}]}`, true, "tok")
	if rec.Code != 200 || !strings.Contains(rec.Body.String(), `"key":"site_title"`) {
		t.Fatalf("expected upserted setting echoed back, got %d %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(srv, "PUT", "/api/admin/categories", `{"categories":[{"contentType":"games","name":"racing","label":"Racing","position":1}]}`, true, "tok")
	if rec.Code != 200 || !strings.Contains(rec.Body.String(), `"name":"racing"`) {
		t.Fatalf("expected upserted category echoed back, got %d %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(srv, "PUT", "/api/admin/categories", `{"categories":[{"contentType":"movies","name":"x"}]}`, true, "tok")
	if rec.Code != 400 {
		t.Fatalf("expected status 400 for unknown content type, got %d", rec.Code)
	}

	rec = doJSON(srv, "POST", "/api/admin/social-links", `{"links":[{"platform":"discord","url":"https://discord.gg/gamehaven","enabled":true}]}`, true, "tok")
	if rec.Code != 200 || !strings.Contains(rec.Body.String(), `"platform":"discord"`) {
		t.Fatalf("expected upserted social link echoed back, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestGenerateDescriptionUnconfiguredReturns503(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	rec := doJSON(srv, "POST", "/api/admin/generate-description", `{"type":"games","name":"Starfall"}`, true, "tok")

	if rec.Code != 503 {
		t.Fatalf("expected status 503 without a writer, got %d", rec.Code)
	}
}

// --- public API ---

func TestTrackViewValidatesTypeAndIncrements(t *testing.T) {
	t.Parallel()

	srv, repo := newTestServer(t)

	if err := repo.CreateGame(context.Background(), &content.Game{Slug: "alpha", Title: "Alpha"}); err != nil {
		t.Fatalf("seeding game: %v", err)
	}

	rec := doJSON(srv, "POST", "/api/views/track", `{"type":"movies","slug":"alpha"}`, false, "")
	if rec.Code != 400 {
		t.Fatalf("expected status 400 for unknown type, got %d", rec.Code)
	}

	rec = doJSON(srv, "POST", "/api/views/track", `{"type":"games","slug":"alpha"}`, false, "")
	if rec.Code != 204 {
		t.Fatalf("expected status 204, got %d: %s", rec.Code, rec.Body.String())
	}

	// Unknown slug is still 204: the increment is fire and forget.
	rec = doJSON(srv, "POST", "/api/views/track", `{"type":"games","slug":"missing"}`, false, "")
	if rec.Code != 204 {
		t.Fatalf("expected status 204 for unknown slug, got %d", rec.Code)
	}

	game, err := repo.GameBySlug(context.Background(), "alpha")
	if err != nil {
		t.Fatalf("reloading game: %v", err)
	}
	if game.Views != 1 {
		t.Fatalf("expected 1 view, got %d", game.Views)
	}
}

func TestCommentRejectedWhenCaptchaFails(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, func(opts *Options) {
		opts.Verifier = &fakeVerifier{ok: false}
	})

	rec := doJSON(srv, "POST", "/api/comments", `{"contentType":"games","contentSlug":"alpha","author":"Sam","body":"Nice","recaptchaToken":"bad"}`, false, "")

	if rec.Code != 400 {
		t.Fatalf("expected status 400 for failed captcha, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCommentRejectsUnknownContentType(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	rec := doJSON(srv, "POST", "/api/comments", `{"contentType":"movies","contentSlug":"alpha","author":"Sam","body":"Nice","recaptchaToken":"tok"}`, false, "")

	if rec.Code != 400 || !strings.Contains(rec.Body.String(), "unknown content type") {
		t.Fatalf("expected status 400 for unknown content type, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCommentStoredPendingWhenCaptchaPasses(t *testing.T) {
	t.Parallel()

	srv, repo := newTestServer(t, func(opts *Options) {
		opts.Verifier = &fakeVerifier{ok: true}
	})

	rec := doJSON(srv, "POST", "/api/comments", `{"contentType":"games","contentSlug":"alpha","author":"Sam","body":"Nice game","recaptchaToken":"good"}`, false, "")

	if rec.Code != 201 || !strings.Contains(rec.Body.String(), `"status":"pending"`) {
		t.Fatalf("expected pending comment, got %d %s", rec.Code, rec.Body.String())
	}

	approved, err := repo.ApprovedComments(context.Background(), "games", "alpha")
	if err != nil {
		t.Fatalf("listing approved comments: %v", err)
	}
	if len(approved) != 0 {
		t.Fatalf("pending comment must not be approved yet, got %d", len(approved))
	}
}

func TestFreeGamesEndpointListsSyncedDeals(t *testing.T) {
	t.Parallel()

	srv, repo := newTestServer(t)

	syncedAt := time.Now().UTC()
	deals := []content.FreeGameDeal{
		{ExternalID: "d1", Title: "Free Racer", Store: "Steam", OriginalPrice: 9.99, DealURL: "https://deals.example/d1"},
		{ExternalID: "d2", Title: "Puzzle Days", Store: "GOG", DealURL: "https://deals.example/d2"},
	}
	if err := repo.ReplaceDeals(context.Background(), deals, syncedAt); err != nil {
		t.Fatalf("seeding deals: %v", err)
	}

	rec := doJSON(srv, "GET", "/api/free-games", "", false, "")
	if rec.Code != 200 || !strings.Contains(rec.Body.String(), `"total":2`) {
		t.Fatalf("expected both deals, got %d %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(srv, "GET", "/api/free-games?store=Steam", "", false, "")
	if rec.Code != 200 || !strings.Contains(rec.Body.String(), `"total":1`) || !strings.Contains(rec.Body.String(), "Free Racer") {
		t.Fatalf("expected store filter to match one deal, got %d %s", rec.Code, rec.Body.String())
	}
}

// --- pages ---

func TestHomePageRenders(t *testing.T) {
	t.Parallel()

	srv, repo := newTestServer(t)

	if err := repo.CreateGame(context.Background(), &content.Game{Slug: "alpha", Title: "Alpha Quest", Category: "rpg"}); err != nil {
		t.Fatalf("seeding game: %v", err)
	}

	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != htmlContentType {
		t.Fatalf("expected content type %q, got %q", htmlContentType, ct)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "GameHaven") || !strings.Contains(body, "Alpha Quest") {
		t.Fatalf("expected site title and seeded game, got %q", body)
	}
}

func TestDetailPageRendersStoredHTML(t *testing.T) {
	t.Parallel()

	srv, repo := newTestServer(t)

	game := &content.Game{
		Slug:            "alpha",
		Title:           "Alpha Quest",
		DescriptionHTML: "<p>An <strong>epic</strong> journey</p>",
	}
	if err := repo.CreateGame(context.Background(), game); err != nil {
		t.Fatalf("seeding game: %v", err)
	}

	req := httptest.NewRequest("GET", "/games/alpha", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "<strong>epic</strong>") {
		t.Fatalf("expected stored HTML injected raw, got %q", rec.Body.String())
	}
}

func TestDetailPageUnknownSlugRenders404(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	req := httptest.NewRequest("GET", "/games/missing", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != 404 {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != htmlContentType {
		t.Fatalf("expected content type %q, got %q", htmlContentType, ct)
	}
}

func TestHealthzReportsDatabase(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t)

	req := httptest.NewRequest("GET", "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"database":"ok"`) {
		t.Fatalf("expected database ok, got %q", rec.Body.String())
	}
}

func TestRateLimiterRejectsBurstOverflow(t *testing.T) {
	t.Parallel()

	srv, _ := newTestServer(t, func(opts *Options) {
		opts.RateLimiter = RateLimiterSettings{RequestsPerSecond: 0.001, Burst: 2, ClientTTL: time.Minute}
	})

	var last int
	for i := 0; i < 3; i++ {
		rec := doJSON(srv, "GET", "/healthz", "", false, "")
		last = rec.Code
	}

	if last != 429 {
		t.Fatalf("expected status 429 after burst, got %d", last)
	}
}
