package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/serverapp/account-api/internal/api/handler"
	"github.com/serverapp/account-api/internal/api/middleware"
	"github.com/serverapp/account-api/internal/core/ports"
)

// RouterConfig carries the collaborators the HTTP layer is composed from.
// Everything is injected by the caller; the router wires, it does not build.
type RouterConfig struct {
	AuthService ports.AuthService
	TokenParser middleware.TokenParser
	Limiter     middleware.Limiter
	Mongo       *mongo.Database
	Redis       *redis.Client
	Log         zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(cfg.Log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("account"))

	// --- Account routes ---
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	throttle := middleware.RateLimit(cfg.Limiter, cfg.Log)

	e.POST("/account/register", authHandler.Register, throttle)
	e.POST("/account/login", authHandler.Login, throttle)
	e.POST("/account/refresh-token", authHandler.RefreshToken, middleware.Auth(cfg.TokenParser))

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(cfg.Mongo, cfg.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	return e
}
