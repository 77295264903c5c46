package content

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Content type tags used across the API, the importer and the view tracker.
const (
	TypeGames    = "games"
	TypeBlogs    = "blogs"
	TypeProducts = "products"
)

// Defaults applied to omitted optional fields on create and import.
const (
	DefaultCategory = "general"
	DefaultTheme    = "default"
	DefaultRating   = 4.5
	DefaultCurrency = "USD"
	DefaultAuthor   = "Admin"
)

// ListSeparator joins multi-valued fields (tags, gallery URLs) into the
// single string column they are persisted as.
const ListSeparator = "|"

// Game is a catalog entry. Description holds the raw author Markdown;
// DescriptionHTML is the rendered, sanitized output and is the only field
// the public pages inject raw.
type Game struct {
	gorm.Model
	Slug            string `gorm:"size:255;uniqueIndex:idx_games_slug;not null"`
	Title           string `gorm:"size:255;not null"`
	Category        string `gorm:"size:100"`
	Description     string `gorm:"type:text"`
	DescriptionHTML string `gorm:"type:text"`
	CoverURL        string `gorm:"size:512"`
	Gallery         string `gorm:"type:text"`
	Tags            string `gorm:"size:512"`
	Platform        string `gorm:"size:100"`
	PlayURL         string `gorm:"size:512"`
	Rating          float64
	Theme           string `gorm:"size:100"`
	Views           int64
}

func (Game) TableName() string {
	return "games"
}

// BlogPost is an editorial entry.
type BlogPost struct {
	gorm.Model
	Slug        string `gorm:"size:255;uniqueIndex:idx_blog_posts_slug;not null"`
	Title       string `gorm:"size:255;not null"`
	Category    string `gorm:"size:100"`
	Content     string `gorm:"type:text"`
	ContentHTML string `gorm:"type:text"`
	CoverURL    string `gorm:"size:512"`
	Tags        string `gorm:"size:512"`
	Author      string `gorm:"size:100"`
	Views       int64
}

func (BlogPost) TableName() string {
	return "blog_posts"
}

// Product is a shop entry.
type Product struct {
	gorm.Model
	Slug            string `gorm:"size:255;uniqueIndex:idx_products_slug;not null"`
	Name            string `gorm:"size:255;not null"`
	Category        string `gorm:"size:100"`
	Description     string `gorm:"type:text"`
	DescriptionHTML string `gorm:"type:text"`
	Price           float64
	Currency        string `gorm:"size:10"`
	ImageURL        string `gorm:"size:512"`
	Gallery         string `gorm:"type:text"`
	Tags            string `gorm:"size:512"`
	BuyURL          string `gorm:"size:512"`
	Views           int64
}

func (Product) TableName() string {
	return "products"
}

// Comment statuses. New comments always start pending.
const (
	CommentPending  = "pending"
	CommentApproved = "approved"
	CommentRejected = "rejected"
)

// Comment is a visitor comment awaiting moderation.
type Comment struct {
	gorm.Model
	ContentType string `gorm:"size:20;not null"`
	ContentSlug string `gorm:"size:255;not null;index:idx_comments_target"`
	Author      string `gorm:"size:100;not null"`
	Body        string `gorm:"type:text;not null"`
	Status      string `gorm:"size:20;not null;default:pending"`
}

func (Comment) TableName() string {
	return "comments"
}

// Ad holds an ad-network placement snippet keyed by its slot name.
type Ad struct {
	gorm.Model
	Placement string `gorm:"size:100;uniqueIndex:idx_ads_placement;not null"`
	Code      string `gorm:"type:text"`
	Enabled   bool
}

func (Ad) TableName() string {
	return "ads"
}

// SocialLink is a footer/profile link.
type SocialLink struct {
	gorm.Model
	Platform string `gorm:"size:100;uniqueIndex:idx_social_links_platform;not null"`
	URL      string `gorm:"size:512"`
	Enabled  bool
}

func (SocialLink) TableName() string {
	return "social_links"
}

// SiteSetting is a free-form key/value pair.
type SiteSetting struct {
	gorm.Model
	Key   string `gorm:"size:100;uniqueIndex:idx_site_settings_key;not null"`
	Value string `gorm:"type:text"`
}

func (SiteSetting) TableName() string {
	return "site_settings"
}

// CategorySetting customizes one category of one content type.
type CategorySetting struct {
	gorm.Model
	ContentType string `gorm:"size:20;uniqueIndex:idx_category_settings_type_name;not null"`
	Name        string `gorm:"size:100;uniqueIndex:idx_category_settings_type_name;not null"`
	Label       string `gorm:"size:255"`
	Theme       string `gorm:"size:100"`
	Position    int
}

func (CategorySetting) TableName() string {
	return "category_settings"
}

// FreeGameDeal mirrors one deal row from the third-party price API.
type FreeGameDeal struct {
	gorm.Model
	ExternalID    string `gorm:"size:100;uniqueIndex:idx_free_game_deals_external;not null"`
	Title         string `gorm:"size:255;not null"`
	Store         string `gorm:"size:100"`
	OriginalPrice float64
	DealURL       string `gorm:"size:512"`
	ImageURL      string `gorm:"size:512"`
	ExpiresAt     *time.Time
	SyncedAt      time.Time
}

func (FreeGameDeal) TableName() string {
	return "free_game_deals"
}

// JoinList encodes a multi-valued field as a single pipe-separated string.
func JoinList(values []string) string {
	kept := make([]string, 0, len(values))
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed != "" {
			kept = append(kept, trimmed)
		}
	}
	return strings.Join(kept, ListSeparator)
}

// SplitList decodes a pipe-separated field, trimming each segment. An empty
// stored value yields an empty list.
func SplitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return []string{}
	}

	parts := strings.Split(value, ListSeparator)
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// ValidType reports whether the tag names a known content type.
func ValidType(contentType string) bool {
	switch contentType {
	case TypeGames, TypeBlogs, TypeProducts:
		return true
	}
	return false
}
