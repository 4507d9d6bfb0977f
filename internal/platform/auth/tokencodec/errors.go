package tokencodec

import "errors"

var (
	// ErrMalformed covers tokens that cannot be parsed, carry unusable claims
	// (missing sub or exp, issuer mismatch) or use an algorithm other than HS256.
	ErrMalformed = errors.New("token malformed")
	// ErrBadSignature is an HS256 signature that does not match the secret.
	ErrBadSignature = errors.New("token signature invalid")
	// ErrExpired means exp is at or before the codec's current time.
	ErrExpired = errors.New("token expired")

	ErrEmptySecret  = errors.New("token secret must not be empty")
	ErrInvalidTTL   = errors.New("token ttl must be positive")
	ErrEmptySubject = errors.New("token subject must not be empty")
)
