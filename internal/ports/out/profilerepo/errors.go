package profilerepo

import "errors"

var (
	ErrNotFound      = errors.New("profile record not found")
	ErrAlreadyExists = errors.New("profile record already exists")
	// ErrUnknownUser indicates the owning identity does not exist.
	ErrUnknownUser = errors.New("profile owner does not exist")
)
