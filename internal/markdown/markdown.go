// Package markdown converts a constrained Markdown subset into HTML that is
// safe to render without further sanitization. Author input is untrusted:
// everything is HTML-escaped before any markup is reintroduced, and fenced
// code blocks are isolated behind placeholder tokens so block logic never
// touches code content.
package markdown

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	fencePattern  = regexp.MustCompile("(?s)```(.*?)```")
	boldPattern   = regexp.MustCompile(`\*\*(.+?)\*\*`)
	italicPattern = regexp.MustCompile(`\*(.+?)\*`)
	blockSplit    = regexp.MustCompile(`\n{2,}`)
)

const placeholderFormat = "@@CODEBLOCK%d@@"

// Render converts author-supplied Markdown into sanitized HTML. Any input
// produces deterministic output; empty input returns an empty string. An
// unterminated fence marker is left as literal (escaped) text.
func Render(src string) string {
	if src == "" {
		return ""
	}

	// Fenced code blocks are pulled out first, escaped once, and replaced
	// by indexed tokens so the escaping and block passes cannot corrupt
	// or double-process code content.
	var codeBlocks []string
	text := fencePattern.ReplaceAllStringFunc(src, func(match string) string {
		inner := strings.TrimSuffix(strings.TrimPrefix(match[3:len(match)-3], "\n"), "\n")
		codeBlocks = append(codeBlocks, "<pre><code>"+escapeHTML(inner)+"</code></pre>")
		return fmt.Sprintf(placeholderFormat, len(codeBlocks)-1)
	})

	text = escapeHTML(text)

	// Bold before italic, so a single-asterisk match cannot consume half
	// of a bold marker.
	text = boldPattern.ReplaceAllString(text, "<strong>$1</strong>")
	text = italicPattern.ReplaceAllString(text, "<em>$1</em>")

	var rendered strings.Builder
	for _, block := range blockSplit.Split(text, -1) {
		rendered.WriteString(renderBlock(block))
	}

	out := rendered.String()

	for index, code := range codeBlocks {
		token := fmt.Sprintf(placeholderFormat, index)
		// A token that landed inside a paragraph loses the wrapping tag:
		// code blocks are never nested inside a paragraph element.
		out = strings.ReplaceAll(out, "<p>"+token+"</p>", code)
		out = strings.ReplaceAll(out, token, code)
	}

	// Same rule for lists that block splitting left inside a paragraph.
	out = strings.ReplaceAll(out, "<p><ul>", "<ul>")
	out = strings.ReplaceAll(out, "</ul></p>", "</ul>")

	return out
}

func renderBlock(block string) string {
	trimmed := strings.TrimSpace(block)
	if trimmed == "" {
		return ""
	}

	lines := strings.Split(trimmed, "\n")

	isList := true
	for _, line := range lines {
		if !strings.HasPrefix(line, "- ") {
			isList = false
			break
		}
	}

	if isList {
		var list strings.Builder
		list.WriteString("<ul>")
		for _, line := range lines {
			list.WriteString("<li>")
			list.WriteString(strings.TrimPrefix(line, "- "))
			list.WriteString("</li>")
		}
		list.WriteString("</ul>")
		return list.String()
	}

	return "<p>" + strings.Join(lines, "<br>") + "</p>"
}

// escapeHTML escapes the ampersand first so already-produced entities are
// never escaped twice.
func escapeHTML(text string) string {
	text = strings.ReplaceAll(text, "&", "&amp;")
	text = strings.ReplaceAll(text, "<", "&lt;")
	text = strings.ReplaceAll(text, ">", "&gt;")
	text = strings.ReplaceAll(text, `"`, "&quot;")
	text = strings.ReplaceAll(text, "'", "&#39;")
	return text
}
