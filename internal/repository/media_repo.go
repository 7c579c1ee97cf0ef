package repository

import (
	"context"
	"errors"
	"time"

	"mediavault/internal/domain"

	"gorm.io/gorm"
)

type MediaRepository struct {
	db *gorm.DB
}

func NewMediaRepository(db *gorm.DB) *MediaRepository {
	return &MediaRepository{db: db}
}

// MediaFilter scopes a listing query. OwnerID scopes to one user's items;
// SharedOnly lifts the owner scope and matches shared items from everyone.
type MediaFilter struct {
	OwnerID    int64
	SharedOnly bool
	Query      string
	Tags       []string
	Category   domain.MediaCategory
	DateFrom   *time.Time
	DateTo     *time.Time
	SortBy     string
	SortOrder  string
	Page       int
	Limit      int
}

var sortColumns = map[string]string{
	"createdAt":     "created_at",
	"title":         "title",
	"size":          "size",
	"viewCount":     "view_count",
	"downloadCount": "download_count",
	"rating":        "rating",
}

func (r *MediaRepository) DB() *gorm.DB { return r.db }

func (r *MediaRepository) Create(ctx context.Context, item *domain.MediaItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// Get returns an item in any lifecycle state.
func (r *MediaRepository) Get(ctx context.Context, id int64) (*domain.MediaItem, error) {
	var item domain.MediaItem
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *MediaRepository) Save(ctx context.Context, item *domain.MediaItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *MediaRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&domain.MediaItem{}, id).Error
}

func (r *MediaRepository) List(ctx context.Context, f MediaFilter) ([]domain.MediaItem, int64, error) {
	q := r.applyFilter(r.db.WithContext(ctx).Model(&domain.MediaItem{}), f)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := sortColumns[f.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if f.SortOrder == "asc" {
		direction = "ASC"
	}

	page := f.Page
	if page <= 0 {
		page = 1
	}
	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var items []domain.MediaItem
	err := q.Order(column + " " + direction).
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *MediaRepository) applyFilter(q *gorm.DB, f MediaFilter) *gorm.DB {
	q = q.Where("is_active = ?", true)

	if f.SharedOnly {
		q = q.Where("is_shared = ?", true)
	} else {
		q = q.Where("user_id = ?", f.OwnerID)
	}

	if f.Query != "" {
		pattern := "%" + f.Query + "%"
		q = q.Where(
			"LOWER(title) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?) OR LOWER(original_name) LIKE LOWER(?)",
			pattern, pattern, pattern,
		)
	}

	if len(f.Tags) > 0 {
		// Tags are stored as a JSON array in a text column; matching the
		// quoted element gives exact any-of semantics on both drivers.
		tagQuery := r.db.Session(&gorm.Session{NewDB: true})
		for i, tag := range f.Tags {
			cond := `tags LIKE ?`
			pattern := `%"` + tag + `"%`
			if i == 0 {
				tagQuery = tagQuery.Where(cond, pattern)
			} else {
				tagQuery = tagQuery.Or(cond, pattern)
			}
		}
		q = q.Where(tagQuery)
	}

	if f.Category != "" {
		q = q.Where("category = ?", string(f.Category))
	}
	if f.DateFrom != nil {
		q = q.Where("created_at >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		q = q.Where("created_at <= ?", *f.DateTo)
	}

	return q
}

// ListOwnedActive returns the owner's Active items among ids. Used by the
// all-or-nothing bulk checks and by archive building.
func (r *MediaRepository) ListOwnedActive(ctx context.Context, ownerID int64, ids []int64) ([]domain.MediaItem, error) {
	var items []domain.MediaItem
	err := r.db.WithContext(ctx).
		Where("id IN ? AND user_id = ? AND is_active = ?", ids, ownerID, true).
		Find(&items).Error
	return items, err
}

// UpdateAll applies the same column values to every id in one statement.
func (r *MediaRepository) UpdateAll(ctx context.Context, ids []int64, values map[string]any) (int64, error) {
	tx := r.db.WithContext(ctx).
		Model(&domain.MediaItem{}).
		Where("id IN ?", ids).
		Updates(values)
	return tx.RowsAffected, tx.Error
}

func (r *MediaRepository) ListTrashed(ctx context.Context, ownerID int64) ([]domain.MediaItem, error) {
	var items []domain.MediaItem
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", ownerID, false).
		Order("deleted_at DESC").
		Find(&items).Error
	return items, err
}

func (r *MediaRepository) IncrementView(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&domain.MediaItem{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

func (r *MediaRepository) IncrementDownload(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&domain.MediaItem{}).
		Where("id = ?", id).
		UpdateColumn("download_count", gorm.Expr("download_count + 1")).Error
}

// MediaStats aggregates an owner's Active items.
type MediaStats struct {
	TotalItems int64   `json:"total_items"`
	TotalSize  int64   `json:"total_size"`
	AvgSize    float64 `json:"avg_size"`
}

type CategoryStats struct {
	Category  string `json:"category"`
	Count     int64  `json:"count"`
	TotalSize int64  `json:"total_size"`
}

func (r *MediaRepository) Stats(ctx context.Context, ownerID int64) (*MediaStats, []CategoryStats, error) {
	var overview MediaStats
	err := r.db.WithContext(ctx).
		Model(&domain.MediaItem{}).
		Select("COUNT(*) AS total_items, COALESCE(SUM(size), 0) AS total_size, COALESCE(AVG(size), 0) AS avg_size").
		Where("user_id = ? AND is_active = ?", ownerID, true).
		Scan(&overview).Error
	if err != nil {
		return nil, nil, err
	}

	var categories []CategoryStats
	err = r.db.WithContext(ctx).
		Model(&domain.MediaItem{}).
		Select("category, COUNT(*) AS count, COALESCE(SUM(size), 0) AS total_size").
		Where("user_id = ? AND is_active = ?", ownerID, true).
		Group("category").
		Order("count DESC").
		Scan(&categories).Error
	if err != nil {
		return nil, nil, err
	}

	return &overview, categories, nil
}

// ToggleFavorite flips the requester's favorite mark on an item and reports
// the resulting state.
func (r *MediaRepository) ToggleFavorite(ctx context.Context, userID, mediaID int64) (bool, error) {
	var fav domain.MediaFavorite
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND media_item_id = ?", userID, mediaID).
		First(&fav).Error
	switch {
	case err == nil:
		if err := r.db.WithContext(ctx).Delete(&fav).Error; err != nil {
			return false, err
		}
		return false, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		fav = domain.MediaFavorite{UserID: userID, MediaItemID: mediaID}
		if err := r.db.WithContext(ctx).Create(&fav).Error; err != nil {
			return false, err
		}
		return true, nil
	default:
		return false, err
	}
}

func (r *MediaRepository) CountFavorites(ctx context.Context, mediaID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.MediaFavorite{}).
		Where("media_item_id = ?", mediaID).
		Count(&count).Error
	return count, err
}

func (r *MediaRepository) DeleteFavorites(ctx context.Context, mediaID int64) error {
	return r.db.WithContext(ctx).
		Where("media_item_id = ?", mediaID).
		Delete(&domain.MediaFavorite{}).Error
}
