package contact

import "errors"

var (
	ErrNotFound   = errors.New("contact message not found")
	ErrValidation = errors.New("contact message validation failed")
)
