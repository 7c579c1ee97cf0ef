package domain

import (
	"path/filepath"
	"strings"
	"time"
)

type MediaCategory string

const (
	CategoryGeneral   MediaCategory = "general"
	CategoryPhotos    MediaCategory = "photos"
	CategoryVideos    MediaCategory = "videos"
	CategoryDocuments MediaCategory = "documents"
	CategoryMusic     MediaCategory = "music"
	CategoryOther     MediaCategory = "other"
)

func ValidCategory(c MediaCategory) bool {
	switch c {
	case CategoryGeneral, CategoryPhotos, CategoryVideos, CategoryDocuments, CategoryMusic, CategoryOther:
		return true
	}
	return false
}

// MediaItem represents an uploaded file and its gallery metadata.
// StoredName is the sole key used to locate the bytes on disk.
type MediaItem struct {
	ID            int64         `json:"id" gorm:"primaryKey"`
	UserID        int64         `json:"user_id" gorm:"not null;index:idx_media_user_active"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	Tags          []string      `json:"tags" gorm:"serializer:json;type:text"`
	Category      MediaCategory `json:"category" gorm:"default:general;index"`
	Location      string        `json:"location"`
	DateTaken     *time.Time    `json:"date_taken,omitempty"`
	OriginalName  string        `json:"original_name" gorm:"not null"`
	StoredName    string        `json:"stored_name" gorm:"not null;uniqueIndex"`
	MimeType      string        `json:"mime_type" gorm:"not null"`
	Size          int64         `json:"size" gorm:"not null"`
	Width         *int          `json:"width,omitempty"`
	Height        *int          `json:"height,omitempty"`
	ThumbName     string        `json:"thumb_name,omitempty"`
	IsShared      bool          `json:"is_shared" gorm:"default:false;index"`
	IsActive      bool          `json:"is_active" gorm:"default:true;index:idx_media_user_active"`
	DeletedAt     *time.Time    `json:"deleted_at,omitempty"`
	DownloadCount int64         `json:"download_count" gorm:"default:0"`
	ViewCount     int64         `json:"view_count" gorm:"default:0"`
	Rating        int           `json:"rating" gorm:"default:0"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

func (MediaItem) TableName() string { return "media_items" }

func (m *MediaItem) Extension() string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(m.OriginalName), "."))
}

func (m *MediaItem) IsImage() bool { return strings.HasPrefix(m.MimeType, "image/") }
func (m *MediaItem) IsVideo() bool { return strings.HasPrefix(m.MimeType, "video/") }
func (m *MediaItem) IsAudio() bool { return strings.HasPrefix(m.MimeType, "audio/") }

// MediaFavorite links a user to a media item they favorited.
type MediaFavorite struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	UserID      int64     `json:"user_id" gorm:"not null;index;uniqueIndex:idx_user_media"`
	MediaItemID int64     `json:"media_item_id" gorm:"not null;index;uniqueIndex:idx_user_media"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (MediaFavorite) TableName() string { return "media_favorites" }
