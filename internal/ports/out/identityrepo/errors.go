package identityrepo

import "errors"

var (
	// ErrNotFound indicates the requested identity does not exist.
	ErrNotFound = errors.New("identity not found")

	// ErrEmailTaken indicates another identity already holds the (normalized) email.
	ErrEmailTaken = errors.New("identity email already taken")

	// ErrAlreadyExists indicates an identity already exists with the provided subject ID.
	ErrAlreadyExists = errors.New("identity already exists")

	// ErrInvalidSubject indicates the subject ID is empty or malformed.
	ErrInvalidSubject = errors.New("invalid subject id")
)
