package media

import (
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"mediavault/internal/domain"
	"mediavault/internal/repository"

	"gorm.io/gorm"
)

// Service implements the media item lifecycle: Active -> Trashed -> Active
// via soft delete and restore, with hard delete purging record and file.
type Service struct {
	media MediaRepositoryInterface
	files FileStore
}

func NewService(media MediaRepositoryInterface, files FileStore) *Service {
	return &Service{media: media, files: files}
}

func (s *Service) List(ctx context.Context, requesterID int64, q ListQuery) (*ListResponse, error) {
	filter := repository.MediaFilter{
		OwnerID:    requesterID,
		SharedOnly: q.Shared == "true",
		Query:      q.Q,
		Category:   domain.MediaCategory(q.Category),
		SortBy:     q.SortBy,
		SortOrder:  q.SortOrder,
		Page:       q.Page,
		Limit:      q.Limit,
	}

	if q.Category != "" && !domain.ValidCategory(filter.Category) {
		return nil, ErrInvalidCategory
	}

	if q.Tags != "" {
		filter.Tags = normalizeTags(strings.Split(q.Tags, ","))
	}
	if t, err := parseDate(q.DateFrom); err == nil && t != nil {
		filter.DateFrom = t
	}
	if t, err := parseDate(q.DateTo); err == nil && t != nil {
		filter.DateTo = t
	}

	items, total, err := s.media.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}

	return &ListResponse{
		Items: items,
		Pagination: Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: pages,
		},
	}, nil
}

// GetOne returns an Active item the requester may see and counts the view.
// Shared items are readable by anyone authenticated; everything else is
// owner-only.
func (s *Service) GetOne(ctx context.Context, requesterID, id int64) (*domain.MediaItem, error) {
	item, err := s.visibleItem(ctx, requesterID, id)
	if err != nil {
		return nil, err
	}

	if err := s.media.IncrementView(ctx, id); err == nil {
		item.ViewCount++
	}
	return item, nil
}

func (s *Service) Create(ctx context.Context, ownerID int64, fileHeader *multipart.FileHeader, maxSize int64, req CreateRequest) (*domain.MediaItem, error) {
	if fileHeader == nil {
		return nil, ErrNoFile
	}
	if fileHeader.Size > maxSize {
		return nil, ErrFileTooLarge
	}

	category := domain.CategoryGeneral
	if req.Category != "" {
		category = domain.MediaCategory(req.Category)
		if !domain.ValidCategory(category) {
			return nil, ErrInvalidCategory
		}
	}

	stored, err := s.files.Save(fileHeader)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = strings.TrimSuffix(stored.OriginalName, filepath.Ext(stored.OriginalName))
	}

	dateTaken, _ := parseDate(req.DateTaken)

	item := &domain.MediaItem{
		UserID:       ownerID,
		Title:        title,
		Description:  req.Description,
		Tags:         normalizeTags(strings.Split(req.Tags, ",")),
		Category:     category,
		Location:     req.Location,
		DateTaken:    dateTaken,
		OriginalName: stored.OriginalName,
		StoredName:   stored.StoredName,
		ThumbName:    stored.ThumbName,
		MimeType:     stored.MimeType,
		Size:         stored.Size,
		Width:        stored.Width,
		Height:       stored.Height,
		IsShared:     req.IsShared == "true",
		IsActive:     true,
	}

	if err := s.media.Create(ctx, item); err != nil {
		// rollback files on DB error
		_ = s.files.Remove(stored.StoredName)
		_ = s.files.Remove(stored.ThumbName)
		return nil, err
	}

	return item, nil
}

// CreateMany applies the same metadata to every file. Items that were
// created before a failure stay created; there is no batch transaction.
func (s *Service) CreateMany(ctx context.Context, ownerID int64, fileHeaders []*multipart.FileHeader, maxSize int64, req CreateRequest) ([]domain.MediaItem, error) {
	if len(fileHeaders) == 0 {
		return nil, ErrNoFile
	}

	items := make([]domain.MediaItem, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		item, err := s.Create(ctx, ownerID, fh, maxSize, req)
		if err != nil {
			if len(items) > 0 {
				return items, nil
			}
			return nil, err
		}
		items = append(items, *item)
	}
	return items, nil
}

func (s *Service) Update(ctx context.Context, ownerID, id int64, req UpdateRequest) (*domain.MediaItem, error) {
	item, err := s.ownedActiveItem(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	values, err := updateValues(req)
	if err != nil {
		return nil, err
	}
	applyUpdate(item, req)

	if len(values) > 0 {
		if _, err := s.media.UpdateAll(ctx, []int64{id}, values); err != nil {
			return nil, err
		}
	}
	return item, nil
}

// BulkUpdate is all-or-nothing: when any id is missing, trashed or not owned
// by the requester, the entire batch is rejected and nothing is applied.
func (s *Service) BulkUpdate(ctx context.Context, ownerID int64, req BulkUpdateRequest) (int64, error) {
	if len(req.IDs) == 0 {
		return 0, ErrNoIDs
	}
	if req.Updates.empty() {
		return 0, ErrNoUpdates
	}

	if err := s.requireOwnedActive(ctx, ownerID, req.IDs); err != nil {
		return 0, err
	}

	values, err := updateValues(req.Updates)
	if err != nil {
		return 0, err
	}
	return s.media.UpdateAll(ctx, req.IDs, values)
}

func (s *Service) SoftDelete(ctx context.Context, ownerID, id int64) error {
	if _, err := s.ownedActiveItem(ctx, ownerID, id); err != nil {
		return err
	}

	_, err := s.media.UpdateAll(ctx, []int64{id}, map[string]any{
		"is_active":  false,
		"deleted_at": time.Now(),
	})
	return err
}

func (s *Service) BulkSoftDelete(ctx context.Context, ownerID int64, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, ErrNoIDs
	}
	if err := s.requireOwnedActive(ctx, ownerID, ids); err != nil {
		return 0, err
	}

	return s.media.UpdateAll(ctx, ids, map[string]any{
		"is_active":  false,
		"deleted_at": time.Now(),
	})
}

// Restore is only valid from Trashed.
func (s *Service) Restore(ctx context.Context, ownerID, id int64) (*domain.MediaItem, error) {
	item, err := s.media.Get(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if item.UserID != ownerID || item.IsActive {
		return nil, ErrNotFound
	}

	_, err = s.media.UpdateAll(ctx, []int64{id}, map[string]any{
		"is_active":  true,
		"deleted_at": nil,
	})
	if err != nil {
		return nil, err
	}

	item.IsActive = true
	item.DeletedAt = nil
	return item, nil
}

// HardDelete purges record and file. Valid from Active or Trashed; a file
// already missing from disk is tolerated.
func (s *Service) HardDelete(ctx context.Context, ownerID, id int64) error {
	item, err := s.media.Get(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if item.UserID != ownerID {
		return ErrNotFound
	}

	if err := s.files.Remove(item.StoredName); err != nil {
		return err
	}
	_ = s.files.Remove(item.ThumbName)
	_ = s.media.DeleteFavorites(ctx, id)

	return s.media.Delete(ctx, id)
}

func (s *Service) ListTrashed(ctx context.Context, ownerID int64) ([]domain.MediaItem, error) {
	return s.media.ListTrashed(ctx, ownerID)
}

func (s *Service) Stats(ctx context.Context, ownerID int64) (*repository.MediaStats, []repository.CategoryStats, error) {
	return s.media.Stats(ctx, ownerID)
}

// Download resolves a visible item's disk path and counts the download.
func (s *Service) Download(ctx context.Context, requesterID, id int64) (*domain.MediaItem, string, error) {
	item, err := s.visibleItem(ctx, requesterID, id)
	if err != nil {
		return nil, "", err
	}
	if !s.files.Exists(item.StoredName) {
		return nil, "", ErrNotFound
	}

	if err := s.media.IncrementDownload(ctx, id); err == nil {
		item.DownloadCount++
	}
	return item, s.files.Path(item.StoredName), nil
}

func (s *Service) ToggleFavorite(ctx context.Context, requesterID, id int64) (bool, int64, error) {
	if _, err := s.visibleItem(ctx, requesterID, id); err != nil {
		return false, 0, err
	}

	favorited, err := s.media.ToggleFavorite(ctx, requesterID, id)
	if err != nil {
		return false, 0, err
	}
	count, err := s.media.CountFavorites(ctx, id)
	if err != nil {
		return false, 0, err
	}
	return favorited, count, nil
}

// visibleItem returns an Active item the requester owns or that is shared.
func (s *Service) visibleItem(ctx context.Context, requesterID, id int64) (*domain.MediaItem, error) {
	item, err := s.media.Get(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !item.IsActive {
		return nil, ErrNotFound
	}
	if !item.IsShared && item.UserID != requesterID {
		return nil, ErrForbidden
	}
	return item, nil
}

func (s *Service) ownedActiveItem(ctx context.Context, ownerID, id int64) (*domain.MediaItem, error) {
	item, err := s.media.Get(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if item.UserID != ownerID || !item.IsActive {
		return nil, ErrNotFound
	}
	return item, nil
}

func (s *Service) requireOwnedActive(ctx context.Context, ownerID int64, ids []int64) error {
	owned, err := s.media.ListOwnedActive(ctx, ownerID, ids)
	if err != nil {
		return err
	}
	if len(owned) != len(dedupeIDs(ids)) {
		return ErrBatchRejected
	}
	return nil
}

// updateValues translates supplied fields into column values for a uniform
// UPDATE, so bulk and single updates share one code path.
func updateValues(req UpdateRequest) (map[string]any, error) {
	values := map[string]any{}
	if req.Title != nil {
		values["title"] = *req.Title
	}
	if req.Description != nil {
		values["description"] = *req.Description
	}
	if req.Tags != nil {
		values["tags"] = encodeTags(normalizeTags(*req.Tags))
	}
	if req.Category != nil {
		category := domain.MediaCategory(*req.Category)
		if !domain.ValidCategory(category) {
			return nil, ErrInvalidCategory
		}
		values["category"] = string(category)
	}
	if req.Location != nil {
		values["location"] = *req.Location
	}
	if req.DateTaken != nil {
		t, err := parseDate(*req.DateTaken)
		if err != nil {
			return nil, err
		}
		values["date_taken"] = t
	}
	if req.IsShared != nil {
		values["is_shared"] = *req.IsShared
	}
	if req.Rating != nil {
		if *req.Rating < 0 || *req.Rating > 5 {
			return nil, errors.New("rating must be between 1 and 5")
		}
		values["rating"] = *req.Rating
	}
	return values, nil
}

func applyUpdate(item *domain.MediaItem, req UpdateRequest) {
	if req.Title != nil {
		item.Title = *req.Title
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Tags != nil {
		item.Tags = normalizeTags(*req.Tags)
	}
	if req.Category != nil {
		item.Category = domain.MediaCategory(*req.Category)
	}
	if req.Location != nil {
		item.Location = *req.Location
	}
	if req.DateTaken != nil {
		item.DateTaken, _ = parseDate(*req.DateTaken)
	}
	if req.IsShared != nil {
		item.IsShared = *req.IsShared
	}
	if req.Rating != nil {
		item.Rating = *req.Rating
	}
}

// normalizeTags trims, drops empties and collapses duplicates while keeping
// first-seen order.
func normalizeTags(raw []string) []string {
	seen := make(map[string]bool, len(raw))
	tags := make([]string, 0, len(raw))
	for _, tag := range raw {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}

// encodeTags serializes tags the same way the gorm JSON serializer does, so
// map-based column updates stay compatible with struct reads.
func encodeTags(tags []string) string {
	b, _ := json.Marshal(tags)
	return string(b)
}

func dedupeIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func parseDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, errors.New("invalid date: " + raw)
}
