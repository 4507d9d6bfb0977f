// Package config loads process configuration in layers: built-in defaults, an
// optional YAML file named by ECO7_CONFIG, then environment overrides.
// The result is validated once and passed to components by injection.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"

	// DefaultInsecureSecret is only used when explicitly allowed.
	DefaultInsecureSecret = "eco7-jwt-secret-key"
)

type Config struct {
	Env         string            `yaml:"env"`
	HTTP        HTTPConfig        `yaml:"http"`
	Auth        AuthConfig        `yaml:"auth"`
	Storage     StorageConfig     `yaml:"storage"`
	Idempotency IdempotencyConfig `yaml:"idempotency"`
	Log         LogConfig         `yaml:"log"`
}

type HTTPConfig struct {
	Port        int    `yaml:"port"`
	FrontendURL string `yaml:"frontendUrl"`
}

type AuthConfig struct {
	Secret                     string        `yaml:"secret"`
	AllowInsecureDefaultSecret bool          `yaml:"allowInsecureDefaultSecret"`
	TokenTTL                   time.Duration `yaml:"tokenTtl"`
	Issuer                     string        `yaml:"issuer"`
	PasswordHasher             string        `yaml:"passwordHasher"`
	BcryptCost                 int           `yaml:"bcryptCost"`

	// UsingInsecureSecret is set by Load when the built-in secret was applied.
	UsingInsecureSecret bool `yaml:"-"`
}

type StorageConfig struct {
	Backend     string `yaml:"backend"`
	DatabaseURL string `yaml:"databaseUrl"`
	MaxConns    int32  `yaml:"maxConns"`
}

type IdempotencyConfig struct {
	// Backend defaults to the storage backend when empty.
	Backend       string        `yaml:"backend"`
	RedisAddr     string        `yaml:"redisAddr"`
	RedisPassword string        `yaml:"redisPassword"`
	TTL           time.Duration `yaml:"ttl"`
}

type LogConfig struct {
	// File enables rotation to this path; empty logs to stdout.
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"maxSizeMb"`
	MaxBackups int    `yaml:"maxBackups"`
	MaxAgeDays int    `yaml:"maxAgeDays"`
}

func (c Config) IsDevelopment() bool { return c.Env == EnvDevelopment }

// Default returns the built-in configuration. It does not validate: the
// secret is intentionally unset.
func Default() Config {
	return Config{
		Env: EnvProduction,
		HTTP: HTTPConfig{
			Port:        3000,
			FrontendURL: "http://localhost:5173",
		},
		Auth: AuthConfig{
			TokenTTL:       7 * 24 * time.Hour,
			PasswordHasher: "bcrypt",
		},
		Storage: StorageConfig{
			Backend:  BackendMemory,
			MaxConns: 10,
		},
		Idempotency: IdempotencyConfig{
			TTL: 24 * time.Hour,
		},
		Log: LogConfig{
			MaxSizeMB:  100,
			MaxBackups: 5,
			MaxAgeDays: 28,
		},
	}
}

// Load reads configuration from the process environment.
func Load() (Config, error) {
	return LoadWith(os.Getenv)
}

// LoadWith is Load with an injectable environment lookup.
func LoadWith(getenv func(string) string) (Config, error) {
	cfg := Default()

	if path := strings.TrimSpace(getenv("ECO7_CONFIG")); path != "" {
		if err := loadFromFile(&cfg, path); err != nil {
			return Config{}, fmt.Errorf("failed to load config from %s: %w", path, err)
		}
	}

	if err := applyEnvOverrides(&cfg, getenv); err != nil {
		return Config{}, err
	}

	if err := finalize(&cfg); err != nil {
		return Config{}, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.UnmarshalStrict(data, cfg)
}

func applyEnvOverrides(cfg *Config, getenv func(string) string) error {
	str := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	str("APP_ENV", &cfg.Env)
	str("FRONTEND_URL", &cfg.HTTP.FrontendURL)
	str("JWT_SECRET", &cfg.Auth.Secret)
	str("JWT_ISSUER", &cfg.Auth.Issuer)
	str("PASSWORD_HASHER", &cfg.Auth.PasswordHasher)
	str("STORAGE_BACKEND", &cfg.Storage.Backend)
	str("DATABASE_URL", &cfg.Storage.DatabaseURL)
	str("IDEMPOTENCY_BACKEND", &cfg.Idempotency.Backend)
	str("REDIS_ADDR", &cfg.Idempotency.RedisAddr)
	str("REDIS_PASSWORD", &cfg.Idempotency.RedisPassword)
	str("LOG_FILE", &cfg.Log.File)

	if v := strings.TrimSpace(getenv("PORT")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PORT must be an integer: %w", err)
		}
		cfg.HTTP.Port = n
	}
	if v := strings.TrimSpace(getenv("AUTH_ALLOW_INSECURE_DEFAULT_SECRET")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("AUTH_ALLOW_INSECURE_DEFAULT_SECRET must be a boolean: %w", err)
		}
		cfg.Auth.AllowInsecureDefaultSecret = b
	}
	if v := strings.TrimSpace(getenv("JWT_TTL")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("JWT_TTL must be a duration (e.g. 168h): %w", err)
		}
		cfg.Auth.TokenTTL = d
	}
	if v := strings.TrimSpace(getenv("BCRYPT_COST")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("BCRYPT_COST must be an integer: %w", err)
		}
		cfg.Auth.BcryptCost = n
	}
	if v := strings.TrimSpace(getenv("DB_MAX_CONNS")); v != "" {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return fmt.Errorf("DB_MAX_CONNS must be an integer: %w", err)
		}
		cfg.Storage.MaxConns = int32(n)
	}
	if v := strings.TrimSpace(getenv("IDEMPOTENCY_TTL")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("IDEMPOTENCY_TTL must be a duration (e.g. 24h): %w", err)
		}
		cfg.Idempotency.TTL = d
	}
	return nil
}

func finalize(cfg *Config) error {
	cfg.Env = strings.ToLower(cfg.Env)
	cfg.Storage.Backend = strings.ToLower(cfg.Storage.Backend)
	cfg.Idempotency.Backend = strings.ToLower(cfg.Idempotency.Backend)
	cfg.Auth.PasswordHasher = strings.ToLower(cfg.Auth.PasswordHasher)

	if cfg.Env != EnvDevelopment && cfg.Env != EnvProduction && cfg.Env != "test" {
		return fmt.Errorf("APP_ENV must be one of development|production|test, got %q", cfg.Env)
	}
	if cfg.HTTP.Port < 1 || cfg.HTTP.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", cfg.HTTP.Port)
	}

	if cfg.Auth.Secret == "" {
		if !cfg.Auth.AllowInsecureDefaultSecret {
			return fmt.Errorf("JWT_SECRET is required (set AUTH_ALLOW_INSECURE_DEFAULT_SECRET=true to use the built-in development secret)")
		}
		cfg.Auth.Secret = DefaultInsecureSecret
		cfg.Auth.UsingInsecureSecret = true
	}
	if cfg.Auth.TokenTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive, got %s", cfg.Auth.TokenTTL)
	}
	switch cfg.Auth.PasswordHasher {
	case "bcrypt", "plain":
	default:
		return fmt.Errorf("PASSWORD_HASHER must be bcrypt|plain, got %q", cfg.Auth.PasswordHasher)
	}

	switch cfg.Storage.Backend {
	case BackendMemory:
	case BackendPostgres:
		if cfg.Storage.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORAGE_BACKEND=postgres")
		}
	default:
		return fmt.Errorf("STORAGE_BACKEND must be memory|postgres, got %q", cfg.Storage.Backend)
	}
	if cfg.Storage.MaxConns <= 0 {
		return fmt.Errorf("DB_MAX_CONNS must be positive, got %d", cfg.Storage.MaxConns)
	}

	if cfg.Idempotency.Backend == "" {
		cfg.Idempotency.Backend = cfg.Storage.Backend
	}
	switch cfg.Idempotency.Backend {
	case BackendMemory:
	case BackendPostgres:
		if cfg.Storage.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when IDEMPOTENCY_BACKEND=postgres")
		}
	case BackendRedis:
		if cfg.Idempotency.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required when IDEMPOTENCY_BACKEND=redis")
		}
	default:
		return fmt.Errorf("IDEMPOTENCY_BACKEND must be memory|postgres|redis, got %q", cfg.Idempotency.Backend)
	}
	if cfg.Idempotency.TTL <= 0 {
		return fmt.Errorf("IDEMPOTENCY_TTL must be positive, got %s", cfg.Idempotency.TTL)
	}
	return nil
}
