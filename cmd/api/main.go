package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eco7/eco7-api/internal/adapters/httpapi"
	memactivityrepo "github.com/eco7/eco7-api/internal/adapters/memory/activityrepo"
	memcommunityrepo "github.com/eco7/eco7-api/internal/adapters/memory/communityrepo"
	memidempotency "github.com/eco7/eco7-api/internal/adapters/memory/idempotency"
	memidentityrepo "github.com/eco7/eco7-api/internal/adapters/memory/identityrepo"
	memprofilerepo "github.com/eco7/eco7-api/internal/adapters/memory/profilerepo"
	postgres "github.com/eco7/eco7-api/internal/adapters/postgres"
	pgactivityrepo "github.com/eco7/eco7-api/internal/adapters/postgres/activityrepo"
	pgcommunityrepo "github.com/eco7/eco7-api/internal/adapters/postgres/communityrepo"
	pgidempotency "github.com/eco7/eco7-api/internal/adapters/postgres/idempotency"
	pgidentityrepo "github.com/eco7/eco7-api/internal/adapters/postgres/identityrepo"
	pgprofilerepo "github.com/eco7/eco7-api/internal/adapters/postgres/profilerepo"
	redisidempotency "github.com/eco7/eco7-api/internal/adapters/redis/idempotency"
	"github.com/eco7/eco7-api/internal/app/activity"
	"github.com/eco7/eco7-api/internal/app/authn"
	"github.com/eco7/eco7-api/internal/app/community"
	"github.com/eco7/eco7-api/internal/app/profiles"
	"github.com/eco7/eco7-api/internal/platform/auth/tokencodec"
	platformclock "github.com/eco7/eco7-api/internal/platform/clock"
	"github.com/eco7/eco7-api/internal/platform/config"
	"github.com/eco7/eco7-api/internal/platform/credentials"
	"github.com/eco7/eco7-api/internal/platform/logging"
	activityrepoport "github.com/eco7/eco7-api/internal/ports/out/activityrepo"
	communityrepoport "github.com/eco7/eco7-api/internal/ports/out/communityrepo"
	idempotencyport "github.com/eco7/eco7-api/internal/ports/out/idempotency"
	identityrepoport "github.com/eco7/eco7-api/internal/ports/out/identityrepo"
	profilerepoport "github.com/eco7/eco7-api/internal/ports/out/profilerepo"
)

type backends struct {
	identities  identityrepoport.Repository
	profiles    profilerepoport.Repository
	activity    activityrepoport.Repository
	community   communityrepoport.Repository
	idempotency idempotencyport.Store

	closers []io.Closer
}

func (b *backends) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		_ = b.closers[i].Close()
	}
}

type closeFunc func()

func (f closeFunc) Close() error {
	f()
	return nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger, logCloser := logging.New(cfg.Log)
	defer logCloser.Close()

	if cfg.Auth.UsingInsecureSecret {
		logger.Printf("WARNING: JWT_SECRET not set; using the built-in development secret. Do not run like this in production.")
	}

	clk := platformclock.NewSystemClock()

	matcher, err := credentials.New(cfg.Auth.PasswordHasher, cfg.Auth.BcryptCost)
	if err != nil {
		logger.Fatalf("invalid password hasher config: %v", err)
	}
	if cfg.Auth.PasswordHasher == credentials.KindPlain {
		logger.Printf("WARNING: PASSWORD_HASHER=plain stores secrets unhashed. Development only.")
	}

	var codecOpts []tokencodec.Option
	if cfg.Auth.Issuer != "" {
		codecOpts = append(codecOpts, tokencodec.WithIssuer(cfg.Auth.Issuer))
	}
	codec, err := tokencodec.New([]byte(cfg.Auth.Secret), codecOpts...)
	if err != nil {
		logger.Fatalf("invalid auth config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	b, err := openBackends(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("storage: %v", err)
	}
	defer b.Close()

	authSvc := authn.NewService(b.identities, matcher, codec, clk, cfg.Auth.TokenTTL)
	profilesSvc := profiles.NewService(b.profiles, clk)
	activitySvc := activity.NewService(b.activity, clk)
	communitySvc := community.NewService(b.community, clk)

	seeded, err := communitySvc.SeedResources(ctx, community.DefaultResources())
	if err != nil {
		logger.Printf("seed resources: %v", err)
	} else if seeded > 0 {
		logger.Printf("seeded %d eco resources", seeded)
	}

	api := httpapi.NewServer(authSvc, profilesSvc, activitySvc, communitySvc, b.idempotency,
		httpapi.WithClock(clk),
		httpapi.WithLogger(logger),
		httpapi.WithErrorDetails(cfg.IsDevelopment()),
	)

	handler := httpapi.NewRouter(api, httpapi.RouterOptions{
		Guard:          httpapi.NewAccessGuard(codec, b.identities, logger),
		Logger:         logger,
		AllowedOrigins: []string{cfg.HTTP.FrontendURL},
	})

	addr := ":" + strconv.Itoa(cfg.HTTP.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ErrorLog:          logger,
	}

	go func() {
		logger.Printf("api listening on %s (env=%s storage=%s idempotency=%s)", addr, cfg.Env, cfg.Storage.Backend, cfg.Idempotency.Backend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Printf("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func openBackends(ctx context.Context, cfg config.Config, logger *log.Logger) (*backends, error) {
	b := &backends{}

	var pool *pgxpool.Pool
	if cfg.Storage.Backend == config.BackendPostgres || cfg.Idempotency.Backend == config.BackendPostgres {
		p, err := postgres.NewPool(ctx, cfg.Storage.DatabaseURL, postgres.PoolOptions{MaxConns: cfg.Storage.MaxConns})
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, closeFunc(p.Close))
		if err := postgres.Migrate(ctx, p); err != nil {
			b.Close()
			return nil, err
		}
		pool = p
	}

	switch cfg.Storage.Backend {
	case config.BackendPostgres:
		b.identities = pgidentityrepo.NewRepo(pool)
		b.profiles = pgprofilerepo.NewRepo(pool)
		b.activity = pgactivityrepo.NewRepo(pool)
		b.community = pgcommunityrepo.NewRepo(pool)
	default:
		logger.Printf("using in-memory storage; data is lost on restart")
		b.identities = memidentityrepo.NewRepo()
		b.profiles = memprofilerepo.NewRepo()
		b.activity = memactivityrepo.NewRepo()
		b.community = memcommunityrepo.NewRepo()
	}

	switch cfg.Idempotency.Backend {
	case config.BackendPostgres:
		b.idempotency = pgidempotency.NewStoreWithTTL(pool, cfg.Idempotency.TTL)
	case config.BackendRedis:
		client, err := redisidempotency.Connect(ctx, cfg.Idempotency.RedisAddr, cfg.Idempotency.RedisPassword)
		if err != nil {
			b.Close()
			return nil, err
		}
		b.closers = append(b.closers, client)
		b.idempotency = redisidempotency.NewStore(client, cfg.Idempotency.TTL)
	default:
		b.idempotency = memidempotency.NewStoreWithTTL(cfg.Idempotency.TTL, platformclock.NewSystemClock())
	}
	return b, nil
}
