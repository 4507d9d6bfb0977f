package httpapi

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type RouterOptions struct {
	// Guard protects the per-user routes. Nil leaves them unguarded, which
	// makes every one of them answer 401 TOKEN_MISSING.
	Guard func(http.Handler) http.Handler
	// Logger receives request access lines. Defaults to log.Default().
	Logger *log.Logger
	// AllowedOrigins feeds the CORS handler. Empty allows any origin.
	AllowedOrigins []string
}

// NewRouter constructs the API HTTP router.
func NewRouter(api *Server, opts RouterOptions) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: logger, NoColor: true}))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", idempotencyKeyHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "NOT_FOUND", "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	// Infra probe outside the /api surface.
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", api.Health)

		r.Post("/auth/register", api.Register)
		r.Post("/auth/login", api.Login)

		r.Get("/forums", api.ListThreads)
		r.Get("/events", api.ListEvents)
		r.Get("/challenges", api.ListChallenges)
		r.Get("/resources", api.ListResources)
		r.Get("/partnerships", api.ListPartnerships)

		r.Group(func(r chi.Router) {
			if opts.Guard != nil {
				r.Use(opts.Guard)
			}

			r.Get("/users/me", api.GetMe)

			r.Post("/profiles", api.UpsertMyProfile)
			r.Get("/profiles/{profile_id}", api.GetProfile)
			r.Patch("/profiles/{profile_id}", api.PatchProfile)
			r.Get("/dashboards", api.GetMyDashboard)

			r.Post("/carbon-footprints", api.RecordFootprint)
			r.Get("/carbon-footprints", api.ListFootprints)
			r.Post("/weekly-reports", api.CreateWeeklyReport)
			r.Get("/weekly-reports", api.ListWeeklyReports)
			r.Get("/notifications", api.ListNotifications)

			r.Post("/forums", api.CreateThread)
			r.Post("/events", api.CreateEvent)
			r.Post("/challenges", api.CreateChallenge)
			r.Post("/partnerships", api.CreatePartnership)
		})

		r.Get("/users/{user_id}", api.GetUser)
	})

	return r
}
