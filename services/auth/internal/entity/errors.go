package entity

import "errors"

var (
	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDeactivated = errors.New("account is deactivated")
	ErrUserNotFound       = errors.New("user not found")
	ErrApplicationPending = errors.New("application already pending")
	ErrAlreadyCreator     = errors.New("already a creator")
	ErrInvalidImage       = errors.New("invalid image format. Only jpg, png, webp are allowed")
)
