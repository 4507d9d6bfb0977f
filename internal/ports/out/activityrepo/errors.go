package activityrepo

import "errors"

var (
	ErrAlreadyExists = errors.New("activity record already exists")
	// ErrUnknownUser indicates the owning identity does not exist.
	ErrUnknownUser = errors.New("activity owner does not exist")
)
