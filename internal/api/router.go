package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/buildco/cms-api/internal/api/handler"
	"github.com/buildco/cms-api/internal/api/middleware"
	"github.com/buildco/cms-api/internal/core/domain"
	"github.com/buildco/cms-api/internal/core/policy"
	"github.com/buildco/cms-api/internal/core/ports"
)

// Services bundles the core services the routes are served by.
type Services struct {
	Auth        ports.AuthService
	Users       ports.UserService
	Employees   ports.EmployeeService
	Projects    ports.ContentService[domain.Project, domain.ProjectPatch]
	Services    ports.ContentService[domain.Service, domain.ServicePatch]
	Partners    ports.ContentService[domain.Partner, domain.PartnerPatch]
	Departments ports.ContentService[domain.Department, domain.DepartmentPatch]
	Categories  ports.ContentService[domain.Category, domain.CategoryPatch]
	Settings    ports.SettingsService
	Media       ports.MediaService
	Contact     ports.ContactService
}

// RouterConfig carries everything NewRouter needs besides the services.
type RouterConfig struct {
	Log      zerolog.Logger
	Reporter ErrorReporter
	Policy   policy.Policy
	// Checks are the readiness probes, keyed by dependency name.
	Checks map[string]handler.Check
	// CORSOrigins lists allowed browser origins; empty allows any.
	CORSOrigins []string
	// BodyLimit caps request bodies, e.g. "12M".
	BodyLimit string
	// UploadDir is served under /uploads when set.
	UploadDir string
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg RouterConfig, svc Services) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(cfg.Log, cfg.Reporter)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLogger(cfg.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: allowOrigins(cfg.CORSOrigins),
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	if cfg.BodyLimit != "" {
		e.Use(echomiddleware.BodyLimit(cfg.BodyLimit))
	}
	e.Use(echoprometheus.NewMiddleware("cms"))

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(cfg.Checks)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	if cfg.UploadDir != "" {
		e.Static("/uploads", cfg.UploadDir)
	}

	registerRoutes(e.Group("/api"), cfg.Policy, svc)
	return e
}

func registerRoutes(api *echo.Group, pol policy.Policy, svc Services) {
	authn := middleware.Authenticate(svc.Auth)
	optional := middleware.OptionalAuthenticate(svc.Auth)
	admin := middleware.Authorize(policy.Admins...)
	writers := middleware.Authorize(policy.ContentWriters...)

	// --- Auth ---
	authHandler := handler.NewAuthHandler(svc.Auth, svc.Users)
	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/register", authHandler.Register, authn, admin)
	auth.GET("/me", authHandler.Me, authn)
	auth.PUT("/me", authHandler.UpdateMe, authn)
	auth.PUT("/change-password", authHandler.ChangePassword, authn)
	auth.POST("/logout", authHandler.Logout, authn)

	// --- Users ---
	userHandler := handler.NewUserHandler(svc.Users)
	users := api.Group("/users", authn, admin)
	users.GET("", userHandler.List)
	users.GET("/:id", userHandler.Get)
	users.POST("", userHandler.Create)
	users.PUT("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete)

	// --- Employees ---
	employeeHandler := handler.NewEmployeeHandler(svc.Employees)
	employees := api.Group("/employees")
	employees.GET("/directory", employeeHandler.Directory, optional)
	employees.GET("/me", employeeHandler.Me, authn)
	employees.GET("/admin/all", employeeHandler.AdminList, authn, admin)
	employees.GET("/admin/:id", employeeHandler.AdminGet, authn, admin)
	employees.GET("/:id", employeeHandler.Get, optional)
	employees.POST("", employeeHandler.Create, authn, admin)
	employees.PUT("/:id", employeeHandler.Update, authn, admin)
	employees.PUT("/:id/projects", employeeHandler.SetProjects, authn, admin)
	employees.DELETE("/:id", employeeHandler.Delete, authn, admin)

	// --- Public content ---
	gate := contentGate{authn: authn, optional: optional, writers: writers, admin: admin}
	mountContent(api.Group("/projects"), handler.NewProjectHandler(svc.Projects, pol), false, gate)
	mountContent(api.Group("/services"), handler.NewServiceHandler(svc.Services, pol), true, gate)
	mountContent(api.Group("/partners"), handler.NewPartnerHandler(svc.Partners, pol), false, gate)
	mountContent(api.Group("/departments"), handler.NewDepartmentHandler(svc.Departments, pol), false, gate)
	categoryHandler := handler.NewCategoryHandler(svc.Categories, pol)
	mountContent(api.Group("/categories"), categoryHandler, true, gate)
	mountContent(api.Group("/project-categories"), categoryHandler, true, gate)

	// --- Settings ---
	settingsHandler := handler.NewSettingsHandler(svc.Settings)
	settings := api.Group("/settings")
	settings.GET("", settingsHandler.Site)
	settings.GET("/hero", settingsHandler.Hero)
	settings.GET("/contact", settingsHandler.Contact)
	settings.GET("/about", settingsHandler.About)
	settings.PUT("", settingsHandler.UpdateSite, authn, admin)

	company := api.Group("/company-settings")
	company.GET("", settingsHandler.Company)
	company.POST("", settingsHandler.CreateCompany, authn, admin)
	company.PUT("", settingsHandler.UpsertCompany, authn, admin)

	// --- Media ---
	mediaHandler := handler.NewMediaHandler(svc.Media)
	media := api.Group("/media", authn, admin)
	media.GET("", mediaHandler.List)
	media.POST("/upload", mediaHandler.Upload)
	media.POST("/upload-multiple", mediaHandler.UploadMultiple)
	media.DELETE("/:id", mediaHandler.Delete)

	// --- Contact ---
	contactHandler := handler.NewContactHandler(svc.Contact)
	contact := api.Group("/contact")
	contact.POST("", contactHandler.Submit)
	contact.GET("", contactHandler.List, authn, admin)
	contact.GET("/stats/overview", contactHandler.Stats, authn, admin)
	contact.GET("/:id", contactHandler.Get, authn, admin)
	contact.PATCH("/:id/status", contactHandler.SetStatus, authn, admin)
	contact.DELETE("/:id", contactHandler.Delete, authn, admin)
}

type contentGate struct {
	authn, optional, writers, admin echo.MiddlewareFunc
}

// mountContent registers the routes every content family shares. Families
// addressed by slug publicly are still written by id.
func mountContent[T any, P any](g *echo.Group, h *handler.ContentHandler[T, P], bySlug bool, gate contentGate) {
	g.GET("", h.List, gate.optional)
	g.GET("/admin/all", h.AdminList, gate.authn, gate.writers)
	if bySlug {
		g.GET("/:slug", h.GetBySlug, gate.optional)
	} else {
		g.GET("/:id", h.Get, gate.optional)
	}
	g.POST("", h.Create, gate.authn, gate.writers)
	g.PUT("/:id", h.Update, gate.authn, gate.writers)
	g.PATCH("/:id/visibility", h.SetVisibility, gate.authn, gate.writers)
	g.PATCH("/:id/order", h.SetOrder, gate.authn, gate.writers)
	g.DELETE("/:id", h.Delete, gate.authn, gate.admin)
}

func allowOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
