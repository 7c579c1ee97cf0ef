package export

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"mediavault/internal/domain"
)

// ItemSource yields the requester's active media items for a set of IDs.
// IDs that do not resolve to an owned active item are simply absent from
// the result.
type ItemSource interface {
	ListOwnedActive(ctx context.Context, ownerID int64, ids []int64) ([]domain.MediaItem, error)
}

// FileStore opens stored files for reading.
type FileStore interface {
	Open(storedName string) (*os.File, error)
}

type Service struct {
	media ItemSource
	files FileStore
}

func NewService(media ItemSource, files FileStore) *Service {
	return &Service{media: media, files: files}
}

// BuildArchive streams a ZIP of the requested items into w and returns the
// number of entries written. Items the requester does not own and files
// missing from disk are skipped. Returns ErrNoItems when nothing could be
// bundled.
func (s *Service) BuildArchive(ctx context.Context, requesterID int64, ids []int64, w io.Writer) (int, error) {
	ids = dedupeIDs(ids)
	if len(ids) == 0 {
		return 0, ErrNoIDs
	}

	items, err := s.media.ListOwnedActive(ctx, requesterID, ids)
	if err != nil {
		return 0, fmt.Errorf("load items: %w", err)
	}

	// Open everything before touching w so an empty result never leaks
	// archive bytes into the response.
	type bundled struct {
		name string
		src  *os.File
	}
	var sources []bundled
	defer func() {
		for _, b := range sources {
			b.src.Close()
		}
	}()

	used := make(map[string]int)
	for _, item := range items {
		src, err := s.files.Open(item.StoredName)
		if err != nil {
			continue
		}
		sources = append(sources, bundled{name: entryName(used, item.OriginalName), src: src})
	}
	if len(sources) == 0 {
		return 0, ErrNoItems
	}

	zw := zip.NewWriter(w)
	written := 0
	for _, b := range sources {
		entry, err := zw.Create(b.name)
		if err != nil {
			zw.Close()
			return written, fmt.Errorf("create archive entry: %w", err)
		}
		if _, err := io.Copy(entry, b.src); err != nil {
			zw.Close()
			return written, fmt.Errorf("write archive entry: %w", err)
		}
		written++
	}

	if err := zw.Close(); err != nil {
		return written, fmt.Errorf("finalize archive: %w", err)
	}
	return written, nil
}

// entryName keeps archive entries unique when several items share an
// original file name.
func entryName(used map[string]int, name string) string {
	name = filepath.Base(name)
	if name == "" || name == "." {
		name = "file"
	}

	n := used[name]
	used[name] = n + 1
	if n == 0 {
		return name
	}

	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	return fmt.Sprintf("%s (%d)%s", base, n, ext)
}

func dedupeIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
