package httpapi

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/eco7/eco7-api/internal/domain"
	"github.com/eco7/eco7-api/internal/ports/out/idempotency"
)

const idempotencyKeyHeader = "Idempotency-Key"

// idempotentCall tracks one request carrying an Idempotency-Key.
// A zero value (no header or no store) is inert.
type idempotentCall struct {
	store idempotency.Store
	meta  idempotency.Fingerprint
	hash  string
}

func (c idempotentCall) active() bool {
	return c.store != nil && c.meta.Key != ""
}

func (c idempotentCall) responseFingerprint() idempotency.Fingerprint {
	fp := c.meta
	fp.BodyHash = c.hash
	return fp
}

// beginIdempotent records the body hash for the key on first use and replays a
// stored response for a repeat. It returns false once it has written a response.
//
// - Replay if same actor+key+route+bodyHash
// - Reject if same actor+key+route with different bodyHash (409)
func (s *Server) beginIdempotent(w http.ResponseWriter, r *http.Request, subject domain.SubjectID, route string, bodyHash string) (idempotentCall, bool) {
	key := strings.TrimSpace(r.Header.Get(idempotencyKeyHeader))
	if key == "" || s.Idem == nil {
		return idempotentCall{}, true
	}
	call := idempotentCall{
		store: s.Idem,
		meta: idempotency.Fingerprint{
			Key:     idempotency.Key(key),
			Subject: subject,
			Method:  r.Method,
			Route:   route,
		},
		hash: bodyHash,
	}
	ctx := r.Context()

	meta, ok, err := s.Idem.Get(ctx, call.meta)
	if err != nil {
		s.writeServiceError(w, r, err)
		return idempotentCall{}, false
	}
	if ok {
		if string(meta.Body) != bodyHash {
			writeError(w, r, http.StatusConflict, "IDEMPOTENCY_KEY_REUSE", "idempotency key reuse with different payload", nil)
			return idempotentCall{}, false
		}
	} else {
		_ = s.Idem.Put(ctx, call.meta, idempotency.Record{
			ContentType: "text/plain",
			Body:        []byte(bodyHash),
			CreatedAt:   s.now(),
		})
	}

	rec, ok, err := s.Idem.Get(ctx, call.responseFingerprint())
	if err != nil {
		s.writeServiceError(w, r, err)
		return idempotentCall{}, false
	}
	if ok && rec.StatusCode == http.StatusOK && strings.HasPrefix(rec.ContentType, "application/json") {
		w.Header().Set("Content-Type", rec.ContentType)
		w.Header().Set("Idempotent-Replayed", "true")
		w.WriteHeader(rec.StatusCode)
		_, _ = w.Write(rec.Body)
		return idempotentCall{}, false
	}
	return call, true
}

// finishIdempotent stores a successful response for replay.
func (s *Server) finishIdempotent(r *http.Request, call idempotentCall, resp any) {
	if !call.active() {
		return
	}
	b, err := json.Marshal(resp)
	if err != nil {
		return
	}
	// Match the trailing newline written by writeJSON so replays are byte-identical.
	b = append(b, '\n')
	_ = call.store.Put(r.Context(), call.responseFingerprint(), idempotency.Record{
		StatusCode:  http.StatusOK,
		ContentType: "application/json",
		Body:        b,
		CreatedAt:   s.now(),
	})
}

func hashPatchProfileBody(profileID string, b patchProfileRequest) (string, error) {
	raw, err := json.Marshal(struct {
		ProfileID string              `json:"profileId"`
		Body      patchProfileRequest `json:"body"`
	}{
		ProfileID: profileID,
		Body:      b,
	})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}
