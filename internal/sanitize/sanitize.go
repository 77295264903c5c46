// Package sanitize strips executable markup from admin-authored HTML. The
// rich-text editor submits HTML directly rather than Markdown; that HTML is
// still run through Clean before persistence so the rendering boundary only
// ever receives TrustedHTML values.
package sanitize

import (
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/net/html"
)

// TrustedHTML marks a fragment as safe for raw injection. Values are only
// produced by Clean or by Trust at boundaries that receive renderer output.
type TrustedHTML string

// Trust wraps HTML that already passed through the Markdown renderer or
// Clean. Never call it on third-party input.
func Trust(fragment string) TrustedHTML {
	return TrustedHTML(fragment)
}

var blockedElements = map[string]bool{
	"script": true,
	"iframe": true,
	"object": true,
	"embed":  true,
	"base":   true,
}

var urlAttributes = map[string]bool{
	"href":       true,
	"src":        true,
	"formaction": true,
}

// Clean parses the fragment, drops script-bearing elements, event-handler
// attributes and javascript: URLs, and renders the remainder back to HTML.
func Clean(fragment string) (TrustedHTML, error) {
	if strings.TrimSpace(fragment) == "" {
		return "", nil
	}

	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return "", eris.Wrap(err, "parsing html fragment")
	}

	body := findBody(doc)
	if body == nil {
		return "", eris.New("parsed fragment has no body")
	}

	scrub(body)

	var builder strings.Builder
	for child := body.FirstChild; child != nil; child = child.NextSibling {
		if err := html.Render(&builder, child); err != nil {
			return "", eris.Wrap(err, "rendering sanitized fragment")
		}
	}

	return TrustedHTML(builder.String()), nil
}

func findBody(node *html.Node) *html.Node {
	if node.Type == html.ElementNode && node.Data == "body" {
		return node
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if body := findBody(child); body != nil {
			return body
		}
	}
	return nil
}

func scrub(node *html.Node) {
	child := node.FirstChild
	for child != nil {
		next := child.NextSibling
		if child.Type == html.ElementNode && blockedElements[child.Data] {
			node.RemoveChild(child)
		} else {
			scrubAttributes(child)
			scrub(child)
		}
		child = next
	}
}

func scrubAttributes(node *html.Node) {
	if node.Type != html.ElementNode {
		return
	}

	kept := node.Attr[:0]
	for _, attr := range node.Attr {
		name := strings.ToLower(attr.Key)
		if strings.HasPrefix(name, "on") {
			continue
		}
		if urlAttributes[name] && hasScriptScheme(attr.Val) {
			continue
		}
		kept = append(kept, attr)
	}
	node.Attr = kept
}

func hasScriptScheme(value string) bool {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	return strings.HasPrefix(trimmed, "javascript:") || strings.HasPrefix(trimmed, "data:text/html")
}
