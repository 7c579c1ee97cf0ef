package export

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mediavault/internal/database"
	"mediavault/internal/domain"
	"mediavault/internal/repository"
	"mediavault/internal/storage"
)

type fixture struct {
	svc   *Service
	repo  *repository.MediaRepository
	store *storage.DiskStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := database.Connect(filepath.Join(t.TempDir(), "export_test.db"))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	store, err := storage.NewDiskStore(t.TempDir())
	require.NoError(t, err)

	repo := repository.NewMediaRepository(db)
	return &fixture{svc: NewService(repo, store), repo: repo, store: store}
}

func (f *fixture) addItem(t *testing.T, ownerID int64, originalName string, active bool) *domain.MediaItem {
	t.Helper()

	storedName := uuid.NewString() + filepath.Ext(originalName)
	content := []byte("content of " + originalName)
	require.NoError(t, os.WriteFile(f.store.Path(storedName), content, 0o644))

	item := &domain.MediaItem{
		UserID:       ownerID,
		Title:        originalName,
		OriginalName: originalName,
		StoredName:   storedName,
		MimeType:     "text/plain",
		Size:         int64(len(content)),
		Category:     domain.CategoryGeneral,
		IsActive:     active,
	}
	require.NoError(t, f.repo.Create(context.Background(), item))
	if !active {
		// IsActive carries gorm:"default:true", so struct-based Create
		// drops the zero value; flip the row the way the soft-delete
		// path does.
		_, err := f.repo.UpdateAll(context.Background(), []int64{item.ID}, map[string]any{
			"is_active":  false,
			"deleted_at": time.Now(),
		})
		require.NoError(t, err)
	}
	return item
}

func readArchive(t *testing.T, data []byte) map[string]string {
	t.Helper()

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	entries := make(map[string]string, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		var buf bytes.Buffer
		_, err = buf.ReadFrom(rc)
		rc.Close()
		require.NoError(t, err)
		entries[f.Name] = buf.String()
	}
	return entries
}

func TestService_BuildArchive_BundlesOwnedItems(t *testing.T) {
	f := newFixture(t)

	a := f.addItem(t, 1, "first.txt", true)
	b := f.addItem(t, 1, "second.txt", true)

	var buf bytes.Buffer
	count, err := f.svc.BuildArchive(context.Background(), 1, []int64{a.ID, b.ID}, &buf)

	require.NoError(t, err)
	assert.Equal(t, 2, count)

	entries := readArchive(t, buf.Bytes())
	assert.Equal(t, "content of first.txt", entries["first.txt"])
	assert.Equal(t, "content of second.txt", entries["second.txt"])
}

func TestService_BuildArchive_SilentlyDropsForeignAndTrashed(t *testing.T) {
	f := newFixture(t)

	mine := f.addItem(t, 1, "mine.txt", true)
	foreign := f.addItem(t, 2, "foreign.txt", true)
	trashed := f.addItem(t, 1, "trashed.txt", false)

	var buf bytes.Buffer
	count, err := f.svc.BuildArchive(context.Background(), 1, []int64{mine.ID, foreign.ID, trashed.ID, 9999}, &buf)

	require.NoError(t, err)
	assert.Equal(t, 1, count)

	entries := readArchive(t, buf.Bytes())
	assert.Contains(t, entries, "mine.txt")
	assert.NotContains(t, entries, "foreign.txt")
	assert.NotContains(t, entries, "trashed.txt")
}

func TestService_BuildArchive_SkipsMissingFiles(t *testing.T) {
	f := newFixture(t)

	kept := f.addItem(t, 1, "kept.txt", true)
	gone := f.addItem(t, 1, "gone.txt", true)
	require.NoError(t, os.Remove(f.store.Path(gone.StoredName)))

	var buf bytes.Buffer
	count, err := f.svc.BuildArchive(context.Background(), 1, []int64{kept.ID, gone.ID}, &buf)

	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestService_BuildArchive_DeduplicatesEntryNames(t *testing.T) {
	f := newFixture(t)

	a := f.addItem(t, 1, "photo.txt", true)
	b := f.addItem(t, 1, "photo.txt", true)
	c := f.addItem(t, 1, "photo.txt", true)

	var buf bytes.Buffer
	count, err := f.svc.BuildArchive(context.Background(), 1, []int64{a.ID, b.ID, c.ID}, &buf)

	require.NoError(t, err)
	assert.Equal(t, 3, count)

	entries := readArchive(t, buf.Bytes())
	assert.Contains(t, entries, "photo.txt")
	assert.Contains(t, entries, "photo (1).txt")
	assert.Contains(t, entries, "photo (2).txt")
}

func TestService_BuildArchive_NoIDs(t *testing.T) {
	f := newFixture(t)

	var buf bytes.Buffer
	_, err := f.svc.BuildArchive(context.Background(), 1, nil, &buf)

	assert.ErrorIs(t, err, ErrNoIDs)
	assert.Zero(t, buf.Len())
}

func TestService_BuildArchive_NothingAccessible(t *testing.T) {
	f := newFixture(t)

	foreign := f.addItem(t, 2, "foreign.txt", true)

	var buf bytes.Buffer
	_, err := f.svc.BuildArchive(context.Background(), 1, []int64{foreign.ID}, &buf)

	assert.ErrorIs(t, err, ErrNoItems)
	assert.Zero(t, buf.Len())
}
