package communityrepo

import "errors"

var (
	ErrAlreadyExists = errors.New("community record already exists")
	// ErrUnknownUser indicates the owning identity does not exist.
	ErrUnknownUser = errors.New("community record owner does not exist")
)
