package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/buildco/cms-api/internal/api"
	"github.com/buildco/cms-api/internal/api/handler"
	"github.com/buildco/cms-api/internal/core/domain"
	"github.com/buildco/cms-api/internal/core/policy"
	"github.com/buildco/cms-api/internal/core/ports"
	"github.com/buildco/cms-api/internal/core/service"
	"github.com/buildco/cms-api/internal/infrastructure/config"
	"github.com/buildco/cms-api/internal/infrastructure/db/mongo"
	"github.com/buildco/cms-api/internal/infrastructure/db/redis"
	"github.com/buildco/cms-api/internal/infrastructure/sentry"
	"github.com/buildco/cms-api/internal/infrastructure/storage"
	"github.com/buildco/cms-api/pkg/logger"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Init(logger.Options{})
		l := logger.Get()
		l.Fatal().Err(err).Msg("invalid configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Development(),
		Service: "cms-api",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	reporter, err := sentry.New(cfg.SentryDSN, cfg.Env, version)
	if err != nil {
		log.Warn().Err(err).Msg("sentry disabled")
	}
	defer reporter.Flush(2 * time.Second)

	// --- MongoDB ---
	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			log.Error().Err(err).Msg("mongo disconnect")
		}
	}()

	// --- Redis ---
	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer rdb.Close()

	// --- Repositories ---
	users := mongo.NewUserRepository(db)
	sessions := mongo.NewSessionRepository(db)
	employees := mongo.NewEmployeeRepository(db)
	projects := mongo.NewProjectRepository(db)
	services := mongo.NewServiceRepository(db)
	partners := mongo.NewPartnerRepository(db)
	departments := mongo.NewDepartmentRepository(db)
	categories := mongo.NewCategoryRepository(db)
	media := mongo.NewMediaRepository(db)
	contact := mongo.NewContactRepository(db)

	if err := mongo.EnsureIndexes(ctx,
		users, sessions, employees,
		projects, services, partners, departments, categories,
		media, contact,
	); err != nil {
		return err
	}

	// --- Media storage ---
	checks := map[string]handler.Check{
		"mongodb": handler.MongoCheck(db),
		"redis":   handler.RedisCheck(rdb),
	}
	var (
		store     ports.ObjectStore
		uploadDir string
	)
	switch cfg.Media.Backend {
	case config.MediaMinio:
		ms, err := storage.NewMinioStore(storage.MinioConfig{
			Endpoint:  cfg.Media.MinioEndpoint,
			AccessKey: cfg.Media.MinioAccessKey,
			SecretKey: cfg.Media.MinioSecretKey,
			Bucket:    cfg.Media.MinioBucket,
			UseSSL:    cfg.Media.MinioUseSSL,
		})
		if err != nil {
			return err
		}
		if err := ms.EnsureBucket(ctx); err != nil {
			return err
		}
		store = ms
		checks["minio"] = ms.Ping
	default:
		ls, err := storage.NewLocalStore(cfg.Media.UploadDir, cfg.Media.PublicBaseURL+"/uploads")
		if err != nil {
			return err
		}
		store = ls
		uploadDir = cfg.Media.UploadDir
	}

	// --- Services ---
	pol := policy.New(cfg.Auth.EmployeePrivateEditors)
	hasher := service.NewBcryptHasher(cfg.Auth.BcryptCost)
	throttle := redis.NewLoginThrottle(rdb, cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginWindow)

	svc := api.Services{
		Auth: service.NewAuthService(users, sessions, hasher, throttle,
			cfg.Auth.SessionSecret, cfg.Auth.SessionTTL, logger.Component("auth")),
		Users:       service.NewUserService(users, sessions, employees, hasher, logger.Component("users")),
		Employees:   service.NewEmployeeService(employees, users, sessions, hasher, pol, logger.Component("employees")),
		Projects:    service.NewContentService[domain.Project, domain.ProjectPatch]("projects", projects, logger.Component("content")),
		Services:    service.NewContentService[domain.Service, domain.ServicePatch]("services", services, logger.Component("content")),
		Partners:    service.NewContentService[domain.Partner, domain.PartnerPatch]("partners", partners, logger.Component("content")),
		Departments: service.NewContentService[domain.Department, domain.DepartmentPatch]("departments", departments, logger.Component("content")),
		Categories:  service.NewContentService[domain.Category, domain.CategoryPatch]("categories", categories, logger.Component("content")),
		Settings:    service.NewSettingsService(mongo.NewSiteSettingsRepository(db), mongo.NewCompanySettingsRepository(db)),
		Media: service.NewMediaService(media, store,
			storage.NewImageThumbnailer(storage.DefaultThumbnailSize), cfg.Media.MaxBytes, logger.Component("media")),
		Contact: service.NewContactService(contact, logger.Component("contact")),
	}

	e := api.NewRouter(api.RouterConfig{
		Log:         logger.Component("http"),
		Reporter:    reporter,
		Policy:      pol,
		Checks:      checks,
		CORSOrigins: cfg.CORSOrigins,
		BodyLimit:   bodyLimit(cfg.Media.MaxBytes),
		UploadDir:   uploadDir,
	}, svc)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Str("media", cfg.Media.Backend).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

// bodyLimit leaves room for a full multi-file upload plus multipart framing.
func bodyLimit(maxBytes int64) string {
	mb := (maxBytes*handler.MaxFilesPerUpload)>>20 + 1
	return strconv.FormatInt(mb, 10) + "M"
}
