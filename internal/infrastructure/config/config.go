package config

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// CORSOrigins lists allowed browser origins; empty allows any.
	CORSOrigins []string `env:"CORS_ORIGINS"`
	SentryDSN   string   `env:"SENTRY_DSN"`

	Auth  AuthConfig
	Mongo MongoConfig
	Redis RedisConfig
	Media MediaConfig
}

type AuthConfig struct {
	SessionSecret    string        `env:"SESSION_SECRET, required"`
	SessionTTL       time.Duration `env:"SESSION_TTL,        default=168h"`
	BcryptCost       int           `env:"BCRYPT_COST,        default=12"`
	LoginMaxAttempts int           `env:"LOGIN_MAX_ATTEMPTS, default=5"`
	LoginWindow      time.Duration `env:"LOGIN_WINDOW,       default=15m"`
	// EmployeePrivateEditors lets editors read restricted employee fields.
	EmployeePrivateEditors bool `env:"EMPLOYEE_PRIVATE_EDITORS, default=false"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=construction_cms"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type MediaConfig struct {
	Backend       string `env:"MEDIA_BACKEND,   default=local"`
	UploadDir     string `env:"UPLOAD_DIR,      default=uploads"`
	PublicBaseURL string `env:"PUBLIC_BASE_URL, default=http://localhost:8080"`
	MaxBytes      int64  `env:"MEDIA_MAX_BYTES, default=5242880"`

	MinioEndpoint  string `env:"MINIO_ENDPOINT,   default=localhost:9000"`
	MinioAccessKey string `env:"MINIO_ACCESS_KEY"`
	MinioSecretKey string `env:"MINIO_SECRET_KEY"`
	MinioBucket    string `env:"MINIO_BUCKET,     default=cms-media"`
	MinioUseSSL    bool   `env:"MINIO_USE_SSL,    default=false"`
}

const (
	MediaLocal = "local"
	MediaMinio = "minio"
)

// Development reports whether the service runs with developer defaults.
func (c *Config) Development() bool {
	return c.Env == "development"
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func Load(ctx context.Context) (*Config, error) {
	_ = godotenv.Load()
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if len(c.Auth.SessionSecret) < 32 && !c.Development() {
		return fmt.Errorf("load config: SESSION_SECRET must be at least 32 characters outside development")
	}
	if c.Auth.SessionTTL <= 0 {
		return fmt.Errorf("load config: SESSION_TTL must be positive")
	}
	switch c.Media.Backend {
	case MediaLocal:
	case MediaMinio:
		if c.Media.MinioAccessKey == "" || c.Media.MinioSecretKey == "" {
			return fmt.Errorf("load config: MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required for the minio backend")
		}
	default:
		return fmt.Errorf("load config: unknown MEDIA_BACKEND %q", c.Media.Backend)
	}
	return nil
}
