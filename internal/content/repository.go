package content

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository persists portal records using a Gorm database connection.
type Repository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewRepository constructs a Gorm-backed repository.
func NewRepository(db *gorm.DB, logger *logrus.Logger) (*Repository, error) {
	if db == nil {
		return nil, eris.New("gorm DB is required")
	}

	return &Repository{db: db, logger: logger}, nil
}

// Transaction runs fn against a repository bound to a single transaction.
// The transaction commits when fn returns nil and rolls back otherwise; the
// connection is released back to the pool on both paths.
func (r *Repository) Transaction(ctx context.Context, fn func(txRepo *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx, logger: r.logger})
	})
}

// ListQuery describes pagination, search and sorting for admin list views.
type ListQuery struct {
	Page      int
	PerPage   int
	Search    string
	Sort      string
	Ascending bool
}

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

func (q ListQuery) normalize() ListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = defaultPerPage
	}
	if q.PerPage > maxPerPage {
		q.PerPage = maxPerPage
	}
	return q
}

// Sortable columns per content table. Anything outside the map falls back to
// created_at so a client-supplied sort key can never reach the SQL string.
var (
	gameSortColumns    = map[string]bool{"title": true, "category": true, "rating": true, "views": true, "created_at": true}
	blogSortColumns    = map[string]bool{"title": true, "category": true, "views": true, "created_at": true}
	productSortColumns = map[string]bool{"name": true, "category": true, "price": true, "views": true, "created_at": true}
)

func listRecords[T any](ctx context.Context, r *Repository, query ListQuery, searchColumns []string, sortColumns map[string]bool) ([]T, int64, error) {
	query = query.normalize()

	base := r.db.WithContext(ctx).Model(new(T))

	if search := strings.TrimSpace(query.Search); search != "" {
		pattern := "%" + search + "%"
		conditions := make([]string, 0, len(searchColumns))
		args := make([]any, 0, len(searchColumns))
		for _, column := range searchColumns {
			conditions = append(conditions, column+" LIKE ?")
			args = append(args, pattern)
		}
		base = base.Where(strings.Join(conditions, " OR "), args...)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, eris.Wrap(err, "counting records")
	}

	sortColumn := "created_at"
	if sortColumns[query.Sort] {
		sortColumn = query.Sort
	}
	direction := "DESC"
	if query.Ascending {
		direction = "ASC"
	}

	var records []T
	err := base.
		Order(sortColumn + " " + direction).
		Offset((query.Page - 1) * query.PerPage).
		Limit(query.PerPage).
		Find(&records).Error
	if err != nil {
		return nil, 0, eris.Wrap(err, "listing records")
	}

	return records, total, nil
}

func getByID[T any](ctx context.Context, r *Repository, id uint) (*T, error) {
	var record T
	err := r.db.WithContext(ctx).First(&record, id).Error
	if err != nil {
		if eris.Is(err, gorm.ErrRecordNotFound) {
			return nil, eris.Wrapf(ErrNotFound, "id %d", id)
		}
		return nil, eris.Wrapf(err, "fetching record by id: %d", id)
	}
	return &record, nil
}

func getBySlug[T any](ctx context.Context, r *Repository, slug string) (*T, error) {
	trimmed := strings.TrimSpace(slug)
	if trimmed == "" {
		return nil, eris.New("slug is required")
	}

	var record T
	err := r.db.WithContext(ctx).First(&record, "slug = ?", trimmed).Error
	if err != nil {
		if eris.Is(err, gorm.ErrRecordNotFound) {
			return nil, eris.Wrapf(ErrNotFound, "slug %s", trimmed)
		}
		return nil, eris.Wrapf(err, "fetching record by slug: %s", trimmed)
	}
	return &record, nil
}

// Deletes are hard deletes: a soft-deleted row would keep occupying its
// slot in the unique slug index and block reuse by future records.
func deleteByID[T any](ctx context.Context, r *Repository, id uint) error {
	result := r.db.WithContext(ctx).Unscoped().Delete(new(T), id)
	if result.Error != nil {
		return eris.Wrapf(result.Error, "deleting record: %d", id)
	}
	if result.RowsAffected == 0 {
		return eris.Wrapf(ErrNotFound, "id %d", id)
	}
	return nil
}

// --- games ---

func (r *Repository) CreateGame(ctx context.Context, game *Game) error {
	if game == nil {
		return eris.New("game is nil")
	}
	if err := r.db.WithContext(ctx).Create(game).Error; err != nil {
		r.logError(logrus.Fields{"slug": game.Slug}, err, "creating game")
		return eris.Wrapf(err, "creating game: %s", game.Slug)
	}
	return nil
}

func (r *Repository) SaveGame(ctx context.Context, game *Game) error {
	if game == nil {
		return eris.New("game is nil")
	}
	if err := r.db.WithContext(ctx).Save(game).Error; err != nil {
		r.logError(logrus.Fields{"slug": game.Slug}, err, "saving game")
		return eris.Wrapf(err, "saving game: %s", game.Slug)
	}
	return nil
}

func (r *Repository) GameByID(ctx context.Context, id uint) (*Game, error) {
	return getByID[Game](ctx, r, id)
}

func (r *Repository) GameBySlug(ctx context.Context, slug string) (*Game, error) {
	return getBySlug[Game](ctx, r, slug)
}

func (r *Repository) DeleteGame(ctx context.Context, id uint) error {
	return deleteByID[Game](ctx, r, id)
}

func (r *Repository) ListGames(ctx context.Context, query ListQuery) ([]Game, int64, error) {
	return listRecords[Game](ctx, r, query, []string{"title", "category"}, gameSortColumns)
}

func (r *Repository) RecentGames(ctx context.Context, limit int) ([]Game, error) {
	var games []Game
	if err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&games).Error; err != nil {
		r.logError(nil, err, "listing recent games")
		return nil, eris.Wrap(err, "listing recent games")
	}
	return games, nil
}

// --- blog posts ---

func (r *Repository) CreateBlogPost(ctx context.Context, post *BlogPost) error {
	if post == nil {
		return eris.New("blog post is nil")
	}
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		r.logError(logrus.Fields{"slug": post.Slug}, err, "creating blog post")
		return eris.Wrapf(err, "creating blog post: %s", post.Slug)
	}
	return nil
}

func (r *Repository) SaveBlogPost(ctx context.Context, post *BlogPost) error {
	if post == nil {
		return eris.New("blog post is nil")
	}
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		r.logError(logrus.Fields{"slug": post.Slug}, err, "saving blog post")
		return eris.Wrapf(err, "saving blog post: %s", post.Slug)
	}
	return nil
}

func (r *Repository) BlogPostByID(ctx context.Context, id uint) (*BlogPost, error) {
	return getByID[BlogPost](ctx, r, id)
}

func (r *Repository) BlogPostBySlug(ctx context.Context, slug string) (*BlogPost, error) {
	return getBySlug[BlogPost](ctx, r, slug)
}

func (r *Repository) DeleteBlogPost(ctx context.Context, id uint) error {
	return deleteByID[BlogPost](ctx, r, id)
}

func (r *Repository) ListBlogPosts(ctx context.Context, query ListQuery) ([]BlogPost, int64, error) {
	return listRecords[BlogPost](ctx, r, query, []string{"title", "category"}, blogSortColumns)
}

func (r *Repository) RecentBlogPosts(ctx context.Context, limit int) ([]BlogPost, error) {
	var posts []BlogPost
	if err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&posts).Error; err != nil {
		r.logError(nil, err, "listing recent blog posts")
		return nil, eris.Wrap(err, "listing recent blog posts")
	}
	return posts, nil
}

// --- products ---

func (r *Repository) CreateProduct(ctx context.Context, product *Product) error {
	if product == nil {
		return eris.New("product is nil")
	}
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		r.logError(logrus.Fields{"slug": product.Slug}, err, "creating product")
		return eris.Wrapf(err, "creating product: %s", product.Slug)
	}
	return nil
}

func (r *Repository) SaveProduct(ctx context.Context, product *Product) error {
	if product == nil {
		return eris.New("product is nil")
	}
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		r.logError(logrus.Fields{"slug": product.Slug}, err, "saving product")
		return eris.Wrapf(err, "saving product: %s", product.Slug)
	}
	return nil
}

func (r *Repository) ProductByID(ctx context.Context, id uint) (*Product, error) {
	return getByID[Product](ctx, r, id)
}

func (r *Repository) ProductBySlug(ctx context.Context, slug string) (*Product, error) {
	return getBySlug[Product](ctx, r, slug)
}

func (r *Repository) DeleteProduct(ctx context.Context, id uint) error {
	return deleteByID[Product](ctx, r, id)
}

func (r *Repository) ListProducts(ctx context.Context, query ListQuery) ([]Product, int64, error) {
	return listRecords[Product](ctx, r, query, []string{"name", "category"}, productSortColumns)
}

// --- slug uniqueness ---

var slugModels = map[string]func() any{
	TypeGames:    func() any { return &Game{} },
	TypeBlogs:    func() any { return &BlogPost{} },
	TypeProducts: func() any { return &Product{} },
}

// SlugTaken reports whether a live row of the content table already uses the
// slug. It implements slug.Checker.
func (r *Repository) SlugTaken(ctx context.Context, contentType, slug string, excludeID uint) (bool, error) {
	model, ok := slugModels[contentType]
	if !ok {
		return false, eris.Wrapf(ErrUnknownType, "%s", contentType)
	}

	tx := r.db.WithContext(ctx).Model(model()).Where("slug = ?", slug)
	if excludeID != 0 {
		tx = tx.Where("id <> ?", excludeID)
	}

	var count int64
	if err := tx.Count(&count).Error; err != nil {
		r.logError(logrus.Fields{"slug": slug, "content_type": contentType}, err, "checking slug existence")
		return false, eris.Wrapf(err, "checking slug existence: %s", slug)
	}

	return count > 0, nil
}

// --- view tracking ---

// viewTables is the explicit allow-list that keeps the client-supplied type
// tag out of the SQL string.
var viewTables = map[string]string{
	TypeGames:    "games",
	TypeBlogs:    "blog_posts",
	TypeProducts: "products",
}

// IncrementViews bumps the view counter for one record. Unknown content
// types are rejected before any SQL is built.
func (r *Repository) IncrementViews(ctx context.Context, contentType, slug string) error {
	table, ok := viewTables[contentType]
	if !ok {
		return eris.Wrapf(ErrUnknownType, "%s", contentType)
	}

	statement := fmt.Sprintf("UPDATE %s SET views = views + 1 WHERE slug = ? AND deleted_at IS NULL", table)
	if err := r.db.WithContext(ctx).Exec(statement, slug).Error; err != nil {
		r.logError(logrus.Fields{"slug": slug, "content_type": contentType}, err, "incrementing views")
		return eris.Wrapf(err, "incrementing views: %s/%s", contentType, slug)
	}

	return nil
}

// --- comments ---

func (r *Repository) CreateComment(ctx context.Context, comment *Comment) error {
	if comment == nil {
		return eris.New("comment is nil")
	}
	if comment.Status == "" {
		comment.Status = CommentPending
	}
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		r.logError(logrus.Fields{"content_slug": comment.ContentSlug}, err, "creating comment")
		return eris.Wrap(err, "creating comment")
	}
	return nil
}

func (r *Repository) ApprovedComments(ctx context.Context, contentType, contentSlug string) ([]Comment, error) {
	var comments []Comment
	err := r.db.WithContext(ctx).
		Where("content_type = ? AND content_slug = ? AND status = ?", contentType, contentSlug, CommentApproved).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		r.logError(logrus.Fields{"content_slug": contentSlug}, err, "listing approved comments")
		return nil, eris.Wrap(err, "listing approved comments")
	}
	return comments, nil
}

// --- ads ---

func (r *Repository) ListAds(ctx context.Context) ([]Ad, error) {
	var ads []Ad
	if err := r.db.WithContext(ctx).Order("placement ASC").Find(&ads).Error; err != nil {
		r.logError(nil, err, "listing ads")
		return nil, eris.Wrap(err, "listing ads")
	}
	return ads, nil
}

// UpsertAds replaces placement codes in bulk inside one transaction.
func (r *Repository) UpsertAds(ctx context.Context, ads []Ad) error {
	return r.Transaction(ctx, func(txRepo *Repository) error {
		for i := range ads {
			err := txRepo.db.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "placement"}},
				DoUpdates: clause.AssignmentColumns([]string{"code", "enabled", "updated_at"}),
			}).Create(&ads[i]).Error
			if err != nil {
				return eris.Wrapf(err, "upserting ad placement: %s", ads[i].Placement)
			}
		}
		return nil
	})
}

// --- social links ---

func (r *Repository) ListSocialLinks(ctx context.Context) ([]SocialLink, error) {
	var links []SocialLink
	if err := r.db.WithContext(ctx).Order("platform ASC").Find(&links).Error; err != nil {
		r.logError(nil, err, "listing social links")
		return nil, eris.Wrap(err, "listing social links")
	}
	return links, nil
}

func (r *Repository) UpsertSocialLinks(ctx context.Context, links []SocialLink) error {
	return r.Transaction(ctx, func(txRepo *Repository) error {
		for i := range links {
			err := txRepo.db.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "platform"}},
				DoUpdates: clause.AssignmentColumns([]string{"url", "enabled", "updated_at"}),
			}).Create(&links[i]).Error
			if err != nil {
				return eris.Wrapf(err, "upserting social link: %s", links[i].Platform)
			}
		}
		return nil
	})
}

// --- site settings ---

func (r *Repository) ListSettings(ctx context.Context) ([]SiteSetting, error) {
	var settings []SiteSetting
	if err := r.db.WithContext(ctx).Order("key ASC").Find(&settings).Error; err != nil {
		r.logError(nil, err, "listing settings")
		return nil, eris.Wrap(err, "listing settings")
	}
	return settings, nil
}

func (r *Repository) UpsertSettings(ctx context.Context, settings []SiteSetting) error {
	return r.Transaction(ctx, func(txRepo *Repository) error {
		for i := range settings {
			err := txRepo.db.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "key"}},
				DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
			}).Create(&settings[i]).Error
			if err != nil {
				return eris.Wrapf(err, "upserting setting: %s", settings[i].Key)
			}
		}
		return nil
	})
}

// --- category settings ---

func (r *Repository) ListCategories(ctx context.Context, contentType string) ([]CategorySetting, error) {
	tx := r.db.WithContext(ctx).Order("position ASC, name ASC")
	if contentType != "" {
		tx = tx.Where("content_type = ?", contentType)
	}

	var categories []CategorySetting
	if err := tx.Find(&categories).Error; err != nil {
		r.logError(logrus.Fields{"content_type": contentType}, err, "listing categories")
		return nil, eris.Wrap(err, "listing categories")
	}
	return categories, nil
}

func (r *Repository) UpsertCategories(ctx context.Context, categories []CategorySetting) error {
	return r.Transaction(ctx, func(txRepo *Repository) error {
		for i := range categories {
			err := txRepo.db.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "content_type"}, {Name: "name"}},
				DoUpdates: clause.AssignmentColumns([]string{"label", "theme", "position", "updated_at"}),
			}).Create(&categories[i]).Error
			if err != nil {
				return eris.Wrapf(err, "upserting category: %s/%s", categories[i].ContentType, categories[i].Name)
			}
		}
		return nil
	})
}

// --- free game deals ---

// DealQuery filters the public deal listing.
type DealQuery struct {
	Store   string
	Page    int
	PerPage int
}

func (r *Repository) ListDeals(ctx context.Context, query DealQuery) ([]FreeGameDeal, int64, error) {
	if query.Page < 1 {
		query.Page = 1
	}
	if query.PerPage < 1 {
		query.PerPage = defaultPerPage
	}
	if query.PerPage > maxPerPage {
		query.PerPage = maxPerPage
	}

	base := r.db.WithContext(ctx).Model(&FreeGameDeal{})
	if store := strings.TrimSpace(query.Store); store != "" {
		base = base.Where("store = ?", store)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		r.logError(nil, err, "counting deals")
		return nil, 0, eris.Wrap(err, "counting deals")
	}

	var deals []FreeGameDeal
	err := base.
		Order("synced_at DESC, title ASC").
		Offset((query.Page - 1) * query.PerPage).
		Limit(query.PerPage).
		Find(&deals).Error
	if err != nil {
		r.logError(nil, err, "listing deals")
		return nil, 0, eris.Wrap(err, "listing deals")
	}

	return deals, total, nil
}

// ReplaceDeals upserts the fetched batch and prunes rows absent from it, all
// inside one transaction. Every row in the batch carries the same SyncedAt
// stamp; anything older was not returned by the provider this round.
func (r *Repository) ReplaceDeals(ctx context.Context, deals []FreeGameDeal, syncedAt time.Time) error {
	return r.Transaction(ctx, func(txRepo *Repository) error {
		for i := range deals {
			deals[i].SyncedAt = syncedAt
			err := txRepo.db.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "external_id"}},
				DoUpdates: clause.AssignmentColumns([]string{"title", "store", "original_price", "deal_url", "image_url", "expires_at", "synced_at", "updated_at"}),
			}).Create(&deals[i]).Error
			if err != nil {
				return eris.Wrapf(err, "upserting deal: %s", deals[i].ExternalID)
			}
		}

		if err := txRepo.db.Unscoped().Where("synced_at < ?", syncedAt).Delete(&FreeGameDeal{}).Error; err != nil {
			return eris.Wrap(err, "pruning stale deals")
		}

		return nil
	})
}

func (r *Repository) logError(fields logrus.Fields, err error, message string) {
	if r.logger == nil {
		return
	}

	entry := r.logger.WithField("error", err.Error())
	if len(fields) > 0 {
		entry = entry.WithFields(fields)
	}
	entry.Error(message)
}
