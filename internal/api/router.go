package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/blooddb/donation-api/docs"
	"github.com/blooddb/donation-api/internal/api/handler"
	"github.com/blooddb/donation-api/internal/api/middleware"
	"github.com/blooddb/donation-api/internal/core/ports"
	"github.com/blooddb/donation-api/internal/infrastructure/http/handlers"
)

// Dependencies are the collaborators NewRouter wires into routes.
type Dependencies struct {
	Log      zerolog.Logger
	Auth     ports.AuthService
	Sessions ports.SessionResolver
	Donors   ports.DonorService
	Requests ports.BloodRequestService
	Profile  ports.ProfileService

	Cookie         handler.CookieConfig
	AllowedOrigins []string
	HealthChecks   map[string]handlers.Check

	// Registerer and Gatherer back the HTTP metrics and /metrics. Both
	// default to the prometheus default registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	if deps.Registerer == nil {
		deps.Registerer = prometheus.DefaultRegisterer
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Log))
	e.Use(middleware.RequestMeta())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     deps.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAccept, echo.HeaderXRequestID},
		AllowCredentials: true,
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "blooddb",
		Subsystem:  "http",
		Registerer: deps.Registerer,
		Skipper:    func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth, deps.Cookie)
	profileHandler := handler.NewProfileHandler(deps.Profile)
	donorHandler := handler.NewDonorHandler(deps.Donors)
	requestHandler := handler.NewBloodRequestHandler(deps.Requests)
	requireSession := middleware.RequireSession(deps.Sessions, deps.Cookie.Name, deps.Log)

	// --- Auth routes ---
	auth := e.Group("/api/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/check", authHandler.Check)

	// --- Protected routes ---
	profile := e.Group("/api/profile", requireSession)
	profile.GET("", profileHandler.Get)
	profile.PUT("", profileHandler.Update)

	donors := e.Group("/api/donors", requireSession)
	donors.POST("", donorHandler.Create)
	donors.GET("/my", donorHandler.ListMine)
	donors.GET("/:id", donorHandler.Get)
	donors.PUT("/:id", donorHandler.Update)
	donors.DELETE("/:id", donorHandler.Delete)

	requests := e.Group("/api/requests", requireSession)
	requests.POST("", requestHandler.Create)
	requests.GET("/my", requestHandler.ListMine)
	requests.GET("/:id", requestHandler.Get)
	requests.PUT("/:id", requestHandler.Update)
	requests.DELETE("/:id", requestHandler.Delete)

	// --- Public routes ---
	e.GET("/search-donors", donorHandler.Search)
	e.GET("/get-requests", requestHandler.ListAll)

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.HealthChecks)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	// --- Operational ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: deps.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
