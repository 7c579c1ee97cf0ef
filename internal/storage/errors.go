package storage

import "errors"

var (
	ErrEmptyFile       = errors.New("uploaded file is empty")
	ErrInvalidMimeType = errors.New("file type not allowed")
)
