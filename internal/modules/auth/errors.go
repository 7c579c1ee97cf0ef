package auth

import "errors"

var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDeactivated = errors.New("account is deactivated")
	ErrEmailNotVerified   = errors.New("email is not verified")
	ErrInvalidOTP         = errors.New("invalid or expired code")
	ErrInvalidAdminCode   = errors.New("invalid admin code")
	ErrUserNotFound       = errors.New("user not found")
)
