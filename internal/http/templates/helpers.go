package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"gamehaven/app/internal/sanitize"
)

// RawHTML returns a templ component that writes the provided HTML without
// escaping. Only sanitized or renderer-produced HTML carries the
// TrustedHTML type, so this is the single raw-injection point.
func RawHTML(html sanitize.TrustedHTML) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		_, err := io.WriteString(w, string(html))
		return err
	})
}
