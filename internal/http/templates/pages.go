// Package templates renders the public pages as templ components.
package templates

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

func page(title string, body func(b *strings.Builder)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		var b strings.Builder
		b.WriteString("<!DOCTYPE html><html lang=\"en\"><head><meta charset=\"utf-8\">")
		b.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">")
		b.WriteString("<title>")
		b.WriteString(templ.EscapeString(title))
		b.WriteString("</title><link rel=\"icon\" href=\"/favicon.ico\"></head><body>")
		b.WriteString("<header class=\"site-header\"><a class=\"brand\" href=\"/\">GameHaven</a>")
		b.WriteString("<nav><a href=\"/\">Home</a><a href=\"/free-games\">Free Games</a></nav></header>")
		b.WriteString("<main>")
		body(&b)
		b.WriteString("</main><footer class=\"site-footer\"><p>")
		b.WriteString(templ.EscapeString(DefaultFooterNote))
		b.WriteString("</p></footer></body></html>")

		_, err := io.WriteString(w, b.String())
		return err
	})
}

func writeCards(b *strings.Builder, heading string, cards []CardView) {
	if len(cards) == 0 {
		return
	}

	b.WriteString("<section class=\"cards\"><h2>")
	b.WriteString(templ.EscapeString(heading))
	b.WriteString("</h2><ul>")
	for _, card := range cards {
		b.WriteString("<li class=\"card\"><a href=\"")
		b.WriteString(templ.EscapeString(card.URL))
		b.WriteString("\">")
		if card.CoverURL != "" {
			b.WriteString("<img src=\"")
			b.WriteString(templ.EscapeString(card.CoverURL))
			b.WriteString("\" alt=\"\">")
		}
		b.WriteString("<h3>")
		b.WriteString(templ.EscapeString(card.Title))
		b.WriteString("</h3></a>")
		if card.Category != "" {
			b.WriteString("<span class=\"category\">")
			b.WriteString(templ.EscapeString(card.Category))
			b.WriteString("</span>")
		}
		if card.Summary != "" {
			b.WriteString("<p>")
			b.WriteString(templ.EscapeString(card.Summary))
			b.WriteString("</p>")
		}
		b.WriteString("</li>")
	}
	b.WriteString("</ul></section>")
}

func writeDeals(b *strings.Builder, deals []DealView) {
	if len(deals) == 0 {
		b.WriteString("<p class=\"empty\">No free deals right now. Check back soon.</p>")
		return
	}

	b.WriteString("<ul class=\"deals\">")
	for _, deal := range deals {
		b.WriteString("<li class=\"deal\"><a href=\"")
		b.WriteString(templ.EscapeString(deal.DealURL))
		b.WriteString("\" rel=\"nofollow\">")
		if deal.ImageURL != "" {
			b.WriteString("<img src=\"")
			b.WriteString(templ.EscapeString(deal.ImageURL))
			b.WriteString("\" alt=\"\">")
		}
		b.WriteString("<h3>")
		b.WriteString(templ.EscapeString(deal.Title))
		b.WriteString("</h3></a><span class=\"store\">")
		b.WriteString(templ.EscapeString(deal.Store))
		b.WriteString("</span>")
		if deal.OriginalPrice != "" {
			b.WriteString("<span class=\"was\">was ")
			b.WriteString(templ.EscapeString(deal.OriginalPrice))
			b.WriteString("</span>")
		}
		b.WriteString("</li>")
	}
	b.WriteString("</ul>")
}

// HomePage renders the landing page with recent catalog entries and the
// free-deal strip.
func HomePage(data HomePageData) templ.Component {
	return page("GameHaven", func(b *strings.Builder) {
		b.WriteString("<section class=\"hero\"><h1>GameHaven</h1>")
		b.WriteString("<p>Games worth playing, stories worth reading, deals worth grabbing.</p></section>")
		if data.AdCode != "" {
			b.WriteString("<aside class=\"ad\">")
			b.WriteString(string(data.AdCode))
			b.WriteString("</aside>")
		}
		writeCards(b, "Latest Games", data.RecentGames)
		writeCards(b, "From the Blog", data.RecentPosts)
		if len(data.Deals) > 0 {
			b.WriteString("<section class=\"deal-strip\"><h2>Free Right Now</h2>")
			writeDeals(b, data.Deals)
			b.WriteString("<a class=\"more\" href=\"/free-games\">All free games</a></section>")
		}
	})
}

// DetailPage renders a single game, blog post or product.
func DetailPage(data DetailPageData) templ.Component {
	return page(data.Title+" • GameHaven", func(b *strings.Builder) {
		b.WriteString("<article class=\"detail\"><h1>")
		b.WriteString(templ.EscapeString(data.Title))
		b.WriteString("</h1>")
		if data.Category != "" {
			b.WriteString("<span class=\"category\">")
			b.WriteString(templ.EscapeString(data.Category))
			b.WriteString("</span>")
		}
		if data.CoverURL != "" {
			b.WriteString("<img class=\"cover\" src=\"")
			b.WriteString(templ.EscapeString(data.CoverURL))
			b.WriteString("\" alt=\"\">")
		}
		if len(data.Meta) > 0 {
			b.WriteString("<dl class=\"meta\">")
			for _, row := range data.Meta {
				b.WriteString("<dt>")
				b.WriteString(templ.EscapeString(row.Label))
				b.WriteString("</dt><dd>")
				b.WriteString(templ.EscapeString(row.Value))
				b.WriteString("</dd>")
			}
			b.WriteString("</dl>")
		}
		b.WriteString("<div class=\"body\">")
		b.WriteString(string(data.Body))
		b.WriteString("</div>")
		if len(data.Tags) > 0 {
			b.WriteString("<ul class=\"tags\">")
			for _, tag := range data.Tags {
				b.WriteString("<li>")
				b.WriteString(templ.EscapeString(tag))
				b.WriteString("</li>")
			}
			b.WriteString("</ul>")
		}
		if data.ActionURL != "" {
			b.WriteString("<a class=\"action\" href=\"")
			b.WriteString(templ.EscapeString(data.ActionURL))
			b.WriteString("\">")
			b.WriteString(templ.EscapeString(data.ActionTag))
			b.WriteString("</a>")
		}
		if data.AdCode != "" {
			b.WriteString("<aside class=\"ad\">")
			b.WriteString(string(data.AdCode))
			b.WriteString("</aside>")
		}
		b.WriteString("</article>")
		if len(data.Comments) > 0 {
			b.WriteString("<section class=\"comments\"><h2>Comments</h2><ul>")
			for _, comment := range data.Comments {
				b.WriteString("<li><strong>")
				b.WriteString(templ.EscapeString(comment.Author))
				b.WriteString("</strong> <time>")
				b.WriteString(templ.EscapeString(comment.Posted))
				b.WriteString("</time><p>")
				b.WriteString(templ.EscapeString(comment.Body))
				b.WriteString("</p></li>")
			}
			b.WriteString("</ul></section>")
		}
	})
}

// DealsPage renders the full free-games listing.
func DealsPage(data DealsPageData) templ.Component {
	return page("Free Games • GameHaven", func(b *strings.Builder) {
		b.WriteString("<section class=\"deals-page\"><h1>Free Games</h1>")
		writeDeals(b, data.Deals)
		b.WriteString("</section>")
	})
}

// ErrorPage renders a status label and message in the shared layout.
func ErrorPage(data ErrorPageData) templ.Component {
	return page(data.StatusLabel+" • GameHaven", func(b *strings.Builder) {
		b.WriteString("<section class=\"error\"><h1>")
		b.WriteString(templ.EscapeString(data.StatusLabel))
		b.WriteString("</h1><p>")
		b.WriteString(templ.EscapeString(data.Message))
		b.WriteString("</p><a href=\"/\">Back to GameHaven</a></section>")
	})
}
