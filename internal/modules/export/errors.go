package export

import "errors"

var (
	ErrNoIDs   = errors.New("no item IDs provided")
	ErrNoItems = errors.New("no accessible items to archive")
)
