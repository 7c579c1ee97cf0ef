package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// AllowedMimeTypes defines which file types are accepted: images, videos,
// documents and audio.
var AllowedMimeTypes = map[string]bool{
	"image/jpeg": true, "image/jpg": true, "image/png": true, "image/gif": true,
	"image/webp": true, "image/svg+xml": true,
	"video/mp4": true, "video/avi": true, "video/mov": true, "video/wmv": true,
	"video/flv": true, "video/webm": true, "video/quicktime": true,
	"application/pdf": true, "application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
	"application/vnd.ms-powerpoint":                                     true,
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": true,
	"text/plain": true, "text/html": true, "text/css": true, "text/javascript": true,
	"audio/mpeg": true, "audio/wav": true, "audio/ogg": true, "audio/mp3": true,
	"audio/aac": true,
}

// StoredFile describes a file written to disk. StoredName is the opaque,
// collision-resistant key items use to locate their bytes.
type StoredFile struct {
	OriginalName string
	StoredName   string
	ThumbName    string
	MimeType     string
	Size         int64
	Width        *int
	Height       *int
}

// DiskStore keeps uploads in a single flat directory keyed by stored name,
// so the directory can be served statically.
type DiskStore struct {
	baseDir string
}

func NewDiskStore(baseDir string) (*DiskStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	return &DiskStore{baseDir: baseDir}, nil
}

func (s *DiskStore) Dir() string { return s.baseDir }

func (s *DiskStore) Path(storedName string) string {
	return filepath.Join(s.baseDir, filepath.Base(storedName))
}

// Save writes the multipart file to disk under a fresh uuid name. Images get
// their dimensions probed and a 320px JPEG thumbnail written alongside.
func (s *DiskStore) Save(fileHeader *multipart.FileHeader) (*StoredFile, error) {
	if fileHeader.Size == 0 {
		return nil, ErrEmptyFile
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer file.Close()

	// The declared type is trusted; sniffing only fills the gap when the
	// client sent none.
	mimeType := strings.Split(fileHeader.Header.Get("Content-Type"), ";")[0]
	if mimeType == "" || mimeType == "application/octet-stream" {
		buf := make([]byte, 512)
		n, _ := file.Read(buf)
		mimeType = strings.Split(http.DetectContentType(buf[:n]), ";")[0]
		if seeker, ok := file.(io.Seeker); ok {
			_, _ = seeker.Seek(0, io.SeekStart)
		}
	}

	if !AllowedMimeTypes[mimeType] {
		return nil, ErrInvalidMimeType
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	storedName := uuid.New().String() + ext

	absPath := s.Path(storedName)
	dst, err := os.Create(absPath)
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}

	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		_ = os.Remove(absPath)
		return nil, fmt.Errorf("write file: %w", err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(absPath)
		return nil, fmt.Errorf("close file: %w", err)
	}

	stored := &StoredFile{
		OriginalName: fileHeader.Filename,
		StoredName:   storedName,
		MimeType:     mimeType,
		Size:         fileHeader.Size,
	}

	if strings.HasPrefix(mimeType, "image/") {
		s.probeImage(stored)
	}

	return stored, nil
}

// probeImage records dimensions and writes a thumbnail. Failures are
// tolerated: the upload stands without them.
func (s *DiskStore) probeImage(stored *StoredFile) {
	img, err := imaging.Open(s.Path(stored.StoredName))
	if err != nil {
		return
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	stored.Width = &w
	stored.Height = &h

	thumbName := strings.TrimSuffix(stored.StoredName, filepath.Ext(stored.StoredName)) + "_thumb.jpg"
	thumb := imaging.Resize(img, 320, 0, imaging.Lanczos)
	if err := imaging.Save(thumb, s.Path(thumbName)); err != nil {
		return
	}
	stored.ThumbName = thumbName
}

// Remove deletes a stored file; a missing file is not an error.
func (s *DiskStore) Remove(storedName string) error {
	if storedName == "" {
		return nil
	}
	err := os.Remove(s.Path(storedName))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *DiskStore) Open(storedName string) (*os.File, error) {
	return os.Open(s.Path(storedName))
}

func (s *DiskStore) Exists(storedName string) bool {
	_, err := os.Stat(s.Path(storedName))
	return err == nil
}
