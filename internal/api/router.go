package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nekogravitycat/car-rental-bff/internal/address"
	addressHttp "github.com/nekogravitycat/car-rental-bff/internal/address/http"
	"github.com/nekogravitycat/car-rental-bff/internal/admin"
	adminHttp "github.com/nekogravitycat/car-rental-bff/internal/admin/http"
	"github.com/nekogravitycat/car-rental-bff/internal/auth"
	"github.com/nekogravitycat/car-rental-bff/internal/booking"
	bookingHttp "github.com/nekogravitycat/car-rental-bff/internal/booking/http"
	"github.com/nekogravitycat/car-rental-bff/internal/car"
	carHttp "github.com/nekogravitycat/car-rental-bff/internal/car/http"
	"github.com/nekogravitycat/car-rental-bff/internal/notification"
	notificationHttp "github.com/nekogravitycat/car-rental-bff/internal/notification/http"
	"github.com/nekogravitycat/car-rental-bff/internal/pkg/logger"
	"github.com/nekogravitycat/car-rental-bff/internal/pkg/metrics"
	"github.com/nekogravitycat/car-rental-bff/internal/search"
	searchHttp "github.com/nekogravitycat/car-rental-bff/internal/search/http"
)

// Config holds the services the router exposes.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	Logger       *zap.Logger
	Metrics      *metrics.Metrics
	ClaimsReader *auth.ClaimsReader
	Limits       search.Limits

	SearchService       search.Service
	CarService          car.Service
	BookingService      booking.Service
	AdminService        admin.Service
	NotificationService notification.Service
	AddressService      address.Service
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Session) and registering routes for various modules.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global Middleware:
	// - Logger: Logs request information with zap.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	// - Metrics: Request count and latency per route.
	r.Use(logger.GinLogger(cfg.Logger), logger.GinRecovery(cfg.Logger), cfg.Metrics.GinMiddleware())
	r.Use(corsMiddleware(cfg.IsProduction, cfg.ProdOrigins))

	r.GET("/health", health)
	r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))

	// authMiddleware: Requires a bearer token.
	authMiddleware := auth.AuthRequired()
	// adminMiddleware: Further checks the role claim of the token.
	adminMiddleware := auth.RequireAdmin()

	// Initialize HTTP Handlers for each module (injecting Service dependencies).
	searchHandler := searchHttp.NewHandler(cfg.SearchService, cfg.CarService)
	carHandler := carHttp.NewHandler(cfg.CarService, cfg.Limits)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService)
	adminHandler := adminHttp.NewHandler(cfg.AdminService)
	notificationHandler := notificationHttp.NewHandler(cfg.NotificationService)
	addressHandler := addressHttp.NewHandler(cfg.AddressService)

	// Register API routes under /v1. Every route knows its session.
	v1 := r.Group("/v1")
	v1.Use(auth.Session(cfg.ClaimsReader))
	{
		searchHttp.RegisterRoutes(v1, searchHandler)
		carHttp.RegisterRoutes(v1, carHandler, authMiddleware)
		bookingHttp.RegisterRoutes(v1, bookingHandler, authMiddleware)
		adminHttp.RegisterRoutes(v1, adminHandler, authMiddleware, adminMiddleware)
		notificationHttp.RegisterRoutes(v1, notificationHandler)
		addressHttp.RegisterRoutes(v1, addressHandler)
	}

	return r
}
