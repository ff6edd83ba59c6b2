package api

import (
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/eventhub/registration-system/internal/api/handler"
	"github.com/eventhub/registration-system/internal/api/middleware"
	"github.com/eventhub/registration-system/internal/core/domain"
	"github.com/eventhub/registration-system/internal/core/ports"
	"github.com/eventhub/registration-system/internal/core/service"
	mongodb "github.com/eventhub/registration-system/internal/infrastructure/db/mongo"
	"github.com/eventhub/registration-system/internal/pkg/token"
)

// Deps carries everything the router needs to assemble the service graph.
type Deps struct {
	DB         *mongo.Database
	Redis      *redis.Client
	Dispatcher ports.NotificationDispatcher
	Codec      *token.Codec
	JWTSecret  string
	Log        zerolog.Logger
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

	// --- Repositories ---
	accountRepo := mongodb.NewAccountRepository(deps.DB)
	eventRepo := mongodb.NewEventRepository(deps.DB)
	ticketRepo := mongodb.NewTicketRepository(deps.DB)

	// --- Services ---
	authService := service.NewAuthService(accountRepo, deps.JWTSecret, 7*24*time.Hour)
	eventService := service.NewEventService(eventRepo, deps.Log)
	ticketService := service.NewTicketService(accountRepo, eventRepo, ticketRepo, deps.Codec, deps.Dispatcher, deps.Log)
	validationService := service.NewValidationService(ticketRepo, deps.Codec, deps.Log)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService)
	eventHandler := handler.NewEventHandler(eventService)
	ticketHandler := handler.NewTicketHandler(ticketService, validationService)

	authed := middleware.Auth(deps.JWTSecret)
	organizerOnly := middleware.RequireRole(domain.RoleOrganizer)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.GET("/auth/me", authHandler.Me, authed)

	// --- Event routes (reads are public, creation is organizer-only) ---
	e.GET("/v1/events", eventHandler.List)
	e.GET("/v1/events/:id", eventHandler.Get)
	e.POST("/v1/events", eventHandler.Create, authed, organizerOnly)

	// --- Ticket routes ---
	tickets := e.Group("/v1/tickets", authed)
	tickets.POST("", ticketHandler.Issue)
	tickets.GET("", ticketHandler.List, organizerOnly)
	tickets.POST("/validate", ticketHandler.Validate, organizerOnly)
	tickets.GET("/:id", ticketHandler.Get)
	tickets.GET("/:id/qr", ticketHandler.QR)
	tickets.GET("/:id/pdf", ticketHandler.PDF)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.DB, deps.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e
}
