package media

import "errors"

var (
	ErrNotFound        = errors.New("media item not found")
	ErrForbidden       = errors.New("access denied")
	ErrBatchRejected   = errors.New("some items not found or access denied")
	ErrNoFile          = errors.New("no file uploaded")
	ErrFileTooLarge    = errors.New("file exceeds the size limit")
	ErrNoIDs           = errors.New("no ids provided")
	ErrNoUpdates       = errors.New("no updates provided")
	ErrInvalidCategory = errors.New("invalid category")
)
