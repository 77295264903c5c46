package sanitize

import (
	"strings"
	"testing"
)

func TestTrustPreservesFragment(t *testing.T) {
	t.Parallel()

	fragment := "<p>Rendered <strong>body</strong></p>"
	if got := Trust(fragment); string(got) != fragment {
		t.Fatalf("expected fragment unchanged, got %q", got)
	}
}

func TestCleanEmptyFragment(t *testing.T) {
	t.Parallel()

	got, err := Clean("   ")
	if err != nil {
		t.Fatalf("Clean returned error: %v", err)
	}
	if got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}

func TestCleanRemovesScriptElements(t *testing.T) {
	t.Parallel()

	got, err := Clean(`<p>hello</p><script>alert(1)</script>`)
	if err != nil {
		t.Fatalf("Clean returned error: %v", err)
	}
	if strings.Contains(string(got), "script") {
		t.Fatalf("script element survived sanitization: %q", got)
	}
	if !strings.Contains(string(got), "<p>hello</p>") {
		t.Fatalf("benign markup was lost: %q", got)
	}
}

func TestCleanRemovesEventHandlers(t *testing.T) {
	t.Parallel()

	got, err := Clean(`<img src="/cover.png" onerror="alert(1)">`)
	if err != nil {
		t.Fatalf("Clean returned error: %v", err)
	}
	if strings.Contains(string(got), "onerror") {
		t.Fatalf("event handler attribute survived: %q", got)
	}
	if !strings.Contains(string(got), `src="/cover.png"`) {
		t.Fatalf("benign attribute was lost: %q", got)
	}
}

func TestCleanRemovesJavascriptURLs(t *testing.T) {
	t.Parallel()

	got, err := Clean(`<a href="JavaScript:alert(1)">x</a>`)
	if err != nil {
		t.Fatalf("Clean returned error: %v", err)
	}
	if strings.Contains(strings.ToLower(string(got)), "javascript:") {
		t.Fatalf("javascript URL survived: %q", got)
	}
}

func TestCleanRemovesIframes(t *testing.T) {
	t.Parallel()

	got, err := Clean(`<div><iframe src="https://evil.example"></iframe>ok</div>`)
	if err != nil {
		t.Fatalf("Clean returned error: %v", err)
	}
	if strings.Contains(string(got), "iframe") {
		t.Fatalf("iframe survived: %q", got)
	}
	if !strings.Contains(string(got), "ok") {
		t.Fatalf("text content was lost: %q", got)
	}
}
