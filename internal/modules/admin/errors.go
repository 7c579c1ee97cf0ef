package admin

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrAlreadyAdmin       = errors.New("user is already an admin")
	ErrNotAnAdmin         = errors.New("user is not an admin")
	ErrSelfDemotion       = errors.New("cannot demote yourself")
	ErrLastAdminProtected = errors.New("cannot demote the last admin")
	ErrEmailAlreadyExists = errors.New("email already exists")
)
