package httpapi

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/eco7/eco7-api/internal/domain"
	"github.com/eco7/eco7-api/internal/platform/auth/tokencodec"
	"github.com/eco7/eco7-api/internal/ports/out/identityrepo"
)

// TokenVerifier decodes bearer tokens. *tokencodec.Codec implements it.
type TokenVerifier interface {
	Verify(token string) (tokencodec.Claims, error)
}

// IdentityLookup re-resolves a verified subject against the credential store.
type IdentityLookup interface {
	GetByID(ctx context.Context, subject domain.SubjectID) (identityrepo.Identity, error)
}

// NewAccessGuard admits a request only when its bearer token verifies and its
// subject still exists in the credential store. Rejections:
//   - missing or non-Bearer Authorization header: 401 TOKEN_MISSING
//   - malformed, badly signed or expired token: 403 TOKEN_INVALID
//   - subject no longer in the store: 401 USER_NOT_FOUND
//
// The admitted identity is available via RequestIdentityFromContext.
func NewAccessGuard(verifier TokenVerifier, identities IdentityLookup, logger *log.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = log.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				writeError(w, r, http.StatusUnauthorized, "TOKEN_MISSING", "Access token required", nil)
				return
			}

			claims, err := verifier.Verify(raw)
			if err != nil {
				logger.Printf("request_id=%s access denied: %s", middleware.GetReqID(r.Context()), tokenFailure(err))
				writeError(w, r, http.StatusForbidden, "TOKEN_INVALID", "Invalid or expired token", nil)
				return
			}

			id, err := identities.GetByID(r.Context(), claims.SubjectID)
			if err != nil {
				if errors.Is(err, identityrepo.ErrNotFound) {
					logger.Printf("request_id=%s access denied: subject %s not found", middleware.GetReqID(r.Context()), claims.SubjectID)
					writeError(w, r, http.StatusUnauthorized, "USER_NOT_FOUND", "Invalid token - user not found", nil)
					return
				}
				logger.Printf("request_id=%s identity lookup failed: %v", middleware.GetReqID(r.Context()), err)
				writeError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
				return
			}

			ctx := WithRequestIdentity(r.Context(), RequestIdentity{
				SubjectID:   id.SubjectID,
				Email:       id.Email,
				DisplayName: id.DisplayName,
				CreatedAt:   id.CreatedAt,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	authz := strings.TrimSpace(r.Header.Get("Authorization"))
	const prefix = "bearer "
	if len(authz) < len(prefix) || !strings.EqualFold(authz[:len(prefix)], prefix) {
		return "", false
	}
	raw := strings.TrimSpace(authz[len(prefix):])
	return raw, raw != ""
}

func tokenFailure(err error) string {
	switch {
	case errors.Is(err, tokencodec.ErrExpired):
		return "token expired"
	case errors.Is(err, tokencodec.ErrBadSignature):
		return "bad token signature"
	default:
		return "malformed token"
	}
}
