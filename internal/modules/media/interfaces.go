package media

import (
	"context"
	"mime/multipart"

	"mediavault/internal/domain"
	"mediavault/internal/repository"
	"mediavault/internal/storage"
)

// MediaRepositoryInterface — only the methods the media service uses
type MediaRepositoryInterface interface {
	Create(ctx context.Context, item *domain.MediaItem) error
	Get(ctx context.Context, id int64) (*domain.MediaItem, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f repository.MediaFilter) ([]domain.MediaItem, int64, error)
	ListOwnedActive(ctx context.Context, ownerID int64, ids []int64) ([]domain.MediaItem, error)
	UpdateAll(ctx context.Context, ids []int64, values map[string]any) (int64, error)
	ListTrashed(ctx context.Context, ownerID int64) ([]domain.MediaItem, error)
	IncrementView(ctx context.Context, id int64) error
	IncrementDownload(ctx context.Context, id int64) error
	Stats(ctx context.Context, ownerID int64) (*repository.MediaStats, []repository.CategoryStats, error)
	ToggleFavorite(ctx context.Context, userID, mediaID int64) (bool, error)
	CountFavorites(ctx context.Context, mediaID int64) (int64, error)
	DeleteFavorites(ctx context.Context, mediaID int64) error
}

// FileStore abstracts the disk store so services can be tested without it.
type FileStore interface {
	Save(fileHeader *multipart.FileHeader) (*storage.StoredFile, error)
	Remove(storedName string) error
	Path(storedName string) string
	Exists(storedName string) bool
}
