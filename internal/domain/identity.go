package domain

import "time"

// Identity is the public view of a registered account.
// It never carries the stored credential secret.
type Identity struct {
	SubjectID     SubjectID
	Email         string
	DisplayName   *string
	Authenticated bool
	CreatedAt     time.Time
}
