package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/eco7/eco7-api/internal/domain"
	"github.com/eco7/eco7-api/internal/platform/auth/tokencodec"
	"github.com/eco7/eco7-api/internal/platform/config"
)

// Dev-only token minter.
//
// It signs tokens with the same secret, issuer and TTL as the API, so a token
// for the subject_id of a registered account passes the access guard. The
// guard still re-resolves the subject, so tokens for unknown subjects are
// rejected with USER_NOT_FOUND.

func main() {
	port := getenv("DEVTOKEN_PORT", "5556")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	if !cfg.IsDevelopment() {
		log.Fatalf("devtoken refuses to run unless APP_ENV=development (got %q)", cfg.Env)
	}

	var opts []tokencodec.Option
	if cfg.Auth.Issuer != "" {
		opts = append(opts, tokencodec.WithIssuer(cfg.Auth.Issuer))
	}
	codec, err := tokencodec.New([]byte(cfg.Auth.Secret), opts...)
	if err != nil {
		log.Fatalf("invalid auth config: %v", err)
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Mint a token:
	//   GET /token?sub=<subject_id>&email=alice@example.com
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		sub := strings.TrimSpace(r.URL.Query().Get("sub"))
		if sub == "" {
			http.Error(w, "missing sub", http.StatusBadRequest)
			return
		}
		email := strings.TrimSpace(r.URL.Query().Get("email"))

		token, exp, err := codec.Issue(domain.SubjectID(sub), email, cfg.Auth.TokenTTL)
		if err != nil {
			http.Error(w, "failed to mint token", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"token":      token,
			"sub":        sub,
			"iss":        cfg.Auth.Issuer,
			"expires_at": exp.Format(time.RFC3339),
		})
	})

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Printf("devtoken listening on :%s (iss=%q ttl=%s)", port, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	log.Fatal(srv.ListenAndServe())
}

func getenv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}
