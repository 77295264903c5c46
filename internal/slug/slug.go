package slug

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/rotisserie/eris"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// NFD decomposition followed by removal of combining marks reduces
	// accented characters to their base letters.
	stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))

	whitespaceRuns = regexp.MustCompile(`\s+`)
	invalidChars   = regexp.MustCompile(`[^\w-]`)
	hyphenRuns     = regexp.MustCompile(`-{2,}`)
)

// Make derives a lowercase URL-safe identifier from human-readable text.
// Leading or trailing hyphens from punctuation-heavy input are preserved.
func Make(text string) string {
	if text == "" {
		return ""
	}

	plain, _, err := transform.String(stripMarks, text)
	if err != nil {
		plain = text
	}

	lowered := strings.ToLower(plain)
	trimmed := strings.TrimSpace(lowered)
	hyphenated := whitespaceRuns.ReplaceAllString(trimmed, "-")
	cleaned := invalidChars.ReplaceAllString(hyphenated, "")

	return hyphenRuns.ReplaceAllString(cleaned, "-")
}

// Checker reports whether a slug is already taken within one content table.
// A non-zero excludeID skips that row, for update-in-place checks.
type Checker interface {
	SlugTaken(ctx context.Context, contentType, slug string, excludeID uint) (bool, error)
}

// Resolver produces slugs guaranteed unique among live rows of a content table.
type Resolver struct {
	checker Checker
}

// NewResolver constructs a Resolver backed by the provided checker.
func NewResolver(checker Checker) (*Resolver, error) {
	if checker == nil {
		return nil, eris.New("slug checker is required")
	}
	return &Resolver{checker: checker}, nil
}

// Resolve returns a unique slug for the title within the content table.
// On collision a numeric suffix is appended, recomputed from the original
// title with a counter starting at 2. There is no retry bound: admin-driven
// write volumes keep the loop short in practice.
func (r *Resolver) Resolve(ctx context.Context, contentType, title string, excludeID uint) (string, error) {
	candidate := Make(title)

	for attempt := 2; ; attempt++ {
		taken, err := r.checker.SlugTaken(ctx, contentType, candidate, excludeID)
		if err != nil {
			return "", eris.Wrapf(err, "checking slug availability: %s", candidate)
		}
		if !taken {
			return candidate, nil
		}
		candidate = Make(title) + "-" + strconv.Itoa(attempt)
	}
}
