package templates

import "gamehaven/app/internal/sanitize"

// DefaultFooterNote is shown in the shared layout when a page does not supply custom text.
const DefaultFooterNote = "GameHaven curates games, stories and deals for players everywhere."

// CardView is a catalog teaser on listing pages.
type CardView struct {
	Title    string
	URL      string
	Category string
	CoverURL string
	Summary  string
}

// DealView is one free-game offer on the deals page.
type DealView struct {
	Title         string
	Store         string
	OriginalPrice string
	DealURL       string
	ImageURL      string
}

// HomePageData bundles the landing page sections.
type HomePageData struct {
	RecentGames []CardView
	RecentPosts []CardView
	Deals       []DealView
	AdCode      sanitize.TrustedHTML
}

// MetaRow is a label/value pair in a detail page sidebar.
type MetaRow struct {
	Label string
	Value string
}

// CommentView is an approved visitor comment on a detail page.
type CommentView struct {
	Author string
	Body   string
	Posted string
}

// DetailPageData holds a game, blog post or product detail view. Body is the
// stored pre-rendered HTML and is injected raw.
type DetailPageData struct {
	Title     string
	Category  string
	CoverURL  string
	Body      sanitize.TrustedHTML
	Tags      []string
	Meta      []MetaRow
	ActionURL string
	ActionTag string
	Comments  []CommentView
	AdCode    sanitize.TrustedHTML
}

// DealsPageData holds the free-games listing.
type DealsPageData struct {
	Deals []DealView
}

// ErrorPageData holds information for rendering an error view.
type ErrorPageData struct {
	StatusLabel string
	Message     string
}
