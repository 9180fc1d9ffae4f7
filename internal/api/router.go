package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/bookline/booking-gateway/internal/api/handler"
	"github.com/bookline/booking-gateway/internal/api/middleware"
	"github.com/bookline/booking-gateway/internal/core/ports"
	"github.com/bookline/booking-gateway/internal/core/service"
	redisdb "github.com/bookline/booking-gateway/internal/infrastructure/db/redis"
)

// Deps carries everything the router wires into handlers. The storefront
// factory is derived here so every guest-facing handler scopes its reads to
// the tenant id in the request path.
type Deps struct {
	Sessions   *service.SessionManager
	Schedule   *service.ScheduleService
	Blocks     *service.BlockCreator
	Registry   *service.WizardRegistry
	Auth       ports.AuthAPI
	Storefront ports.StorefrontAPI
	Cache      *redisdb.Cache

	CacheTTL      time.Duration
	RatePerMinute int
	RateBurst     int

	Log zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("booking"))

	// --- Dependencies ---
	storefront := func(tenantID string) *service.StorefrontService {
		return service.NewStorefrontService(deps.Storefront, deps.Cache, tenantID, deps.CacheTTL, deps.Log)
	}

	authHandler := handler.NewAuthHandler(deps.Auth, deps.Sessions)
	calendarHandler := handler.NewCalendarHandler(deps.Schedule)
	blockHandler := handler.NewBlockHandler(deps.Blocks, deps.Log)
	wizardHandler := handler.NewWizardHandler(deps.Registry, deps.Schedule, storefront, deps.Log)
	storefrontHandler := handler.NewStorefrontHandler(deps.Storefront, storefront, deps.Log)
	healthHandler := handler.NewHealthHandler(deps.Cache)

	rateLimiter := middleware.NewRateLimiter(deps.RatePerMinute, deps.RateBurst)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout)
	e.GET("/auth/session", authHandler.Session)

	// --- Admin surface (session required) ---
	admin := e.Group("/admin", middleware.RequireSession(deps.Sessions))
	admin.GET("/calendar", calendarHandler.Grid)
	admin.POST("/blocks", blockHandler.Create)
	admin.POST("/wizard", wizardHandler.StartStaff)
	admin.GET("/wizard/:id", wizardHandler.Get)
	admin.POST("/wizard/:id/select", wizardHandler.SelectStaff)
	admin.POST("/wizard/:id/advance", wizardHandler.Advance)
	admin.POST("/wizard/:id/retreat", wizardHandler.Retreat)
	admin.GET("/wizard/:id/slots", wizardHandler.Slots)
	admin.POST("/wizard/:id/submit", wizardHandler.Submit)
	admin.DELETE("/wizard/:id", wizardHandler.Cancel)

	// --- Public storefront (rate limited, no session) ---
	public := e.Group("/public", rateLimiter.Middleware())
	public.GET("/company/:slug", storefrontHandler.Company)
	public.GET("/:tenantId/services", storefrontHandler.Services)
	public.GET("/:tenantId/professionals", storefrontHandler.Professionals)
	public.GET("/:tenantId/slots", storefrontHandler.Slots)
	public.POST("/:tenantId/wizard", wizardHandler.StartGuest)
	public.GET("/:tenantId/wizard/:id", wizardHandler.Get)
	public.POST("/:tenantId/wizard/:id/select", wizardHandler.SelectGuest)
	public.POST("/:tenantId/wizard/:id/advance", wizardHandler.Advance)
	public.POST("/:tenantId/wizard/:id/retreat", wizardHandler.Retreat)
	public.GET("/:tenantId/wizard/:id/slots", wizardHandler.Slots)
	public.POST("/:tenantId/wizard/:id/submit", wizardHandler.Submit)
	public.POST("/:tenantId/wizard/:id/account", wizardHandler.Account)

	// --- Ops surface ---
	e.GET("/health", healthHandler.Live)
	e.GET("/health/ready", healthHandler.Ready)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
