package slug

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
)

func TestMakeStripsAccents(t *testing.T) {
	t.Parallel()

	if got := Make("Café Münchën!"); got != "cafe-munchen" {
		t.Fatalf("expected 'cafe-munchen', got %q", got)
	}
}

func TestMakeCollapsesWhitespace(t *testing.T) {
	t.Parallel()

	if got := Make("  multiple   spaces  "); got != "multiple-spaces" {
		t.Fatalf("expected 'multiple-spaces', got %q", got)
	}
}

func TestMakeEmptyInput(t *testing.T) {
	t.Parallel()

	if got := Make(""); got != "" {
		t.Fatalf("expected empty slug, got %q", got)
	}
}

func TestMakeCollapsesHyphenRuns(t *testing.T) {
	t.Parallel()

	if got := Make("rogue -- like"); got != "rogue-like" {
		t.Fatalf("expected 'rogue-like', got %q", got)
	}
}

func TestMakePreservesEdgeHyphens(t *testing.T) {
	t.Parallel()

	// Punctuation-heavy input may leave hyphens at the edges; that
	// behaviour is kept rather than corrected.
	if got := Make("- hello -"); got != "-hello-" {
		t.Fatalf("expected '-hello-', got %q", got)
	}
}

func TestMakeIdempotentOnSlugForm(t *testing.T) {
	t.Parallel()

	inputs := []string{"cafe-munchen", "multiple-spaces", "a-2", "snake_case_slug"}
	for _, input := range inputs {
		if got := Make(input); got != input {
			t.Fatalf("expected Make(%q) to be idempotent, got %q", input, got)
		}
	}
}

type fakeChecker struct {
	taken     map[string]bool
	excludeID uint
	calls     int
	err       error
}

func (f *fakeChecker) SlugTaken(_ context.Context, _, slug string, excludeID uint) (bool, error) {
	f.calls++
	f.excludeID = excludeID
	if f.err != nil {
		return false, f.err
	}
	return f.taken[slug], nil
}

func TestResolverRequiresChecker(t *testing.T) {
	t.Parallel()

	if _, err := NewResolver(nil); err == nil {
		t.Fatalf("expected error for nil checker")
	}
}

func TestResolveReturnsBaseWhenFree(t *testing.T) {
	t.Parallel()

	checker := &fakeChecker{taken: map[string]bool{}}
	resolver, err := NewResolver(checker)
	if err != nil {
		t.Fatalf("NewResolver returned error: %v", err)
	}

	got, err := resolver.Resolve(context.Background(), "games", "Foo", 0)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if got != "foo" {
		t.Fatalf("expected 'foo', got %q", got)
	}
	if checker.calls != 1 {
		t.Fatalf("expected a single existence check, got %d", checker.calls)
	}
}

func TestResolveSuffixesOnCollision(t *testing.T) {
	t.Parallel()

	checker := &fakeChecker{taken: map[string]bool{"foo": true, "foo-2": true}}
	resolver, err := NewResolver(checker)
	if err != nil {
		t.Fatalf("NewResolver returned error: %v", err)
	}

	got, err := resolver.Resolve(context.Background(), "games", "Foo", 0)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if got != "foo-3" {
		t.Fatalf("expected 'foo-3', got %q", got)
	}
}

func TestResolvePassesExcludeID(t *testing.T) {
	t.Parallel()

	checker := &fakeChecker{taken: map[string]bool{}}
	resolver, err := NewResolver(checker)
	if err != nil {
		t.Fatalf("NewResolver returned error: %v", err)
	}

	got, err := resolver.Resolve(context.Background(), "games", "Foo", 7)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if got != "foo" {
		t.Fatalf("expected 'foo' when owning row is excluded, got %q", got)
	}
	if checker.excludeID != 7 {
		t.Fatalf("expected exclude id 7 to reach the checker, got %d", checker.excludeID)
	}
}

func TestResolvePropagatesCheckerError(t *testing.T) {
	t.Parallel()

	checker := &fakeChecker{err: eris.New("connection refused")}
	resolver, err := NewResolver(checker)
	if err != nil {
		t.Fatalf("NewResolver returned error: %v", err)
	}

	if _, err := resolver.Resolve(context.Background(), "games", "Foo", 0); err == nil {
		t.Fatalf("expected checker error to propagate")
	}
}
