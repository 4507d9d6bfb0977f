package httpapi

import (
	"context"
	"time"

	"github.com/eco7/eco7-api/internal/domain"
)

// RequestIdentity is the caller admitted by the access guard.
// It is resolved from the credential store, not from token claims, and never carries the secret.
type RequestIdentity struct {
	SubjectID   domain.SubjectID
	Email       string
	DisplayName *string
	CreatedAt   time.Time
}

type requestIdentityKey struct{}

func WithRequestIdentity(ctx context.Context, id RequestIdentity) context.Context {
	return context.WithValue(ctx, requestIdentityKey{}, id)
}

func RequestIdentityFromContext(ctx context.Context) (RequestIdentity, bool) {
	v, ok := ctx.Value(requestIdentityKey{}).(RequestIdentity)
	return v, ok && v.SubjectID != ""
}
