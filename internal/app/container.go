package app

import (
	"context"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/nekogravitycat/car-rental-bff/internal/account"
	"github.com/nekogravitycat/car-rental-bff/internal/address"
	"github.com/nekogravitycat/car-rental-bff/internal/admin"
	"github.com/nekogravitycat/car-rental-bff/internal/api"
	"github.com/nekogravitycat/car-rental-bff/internal/auth"
	"github.com/nekogravitycat/car-rental-bff/internal/backend"
	"github.com/nekogravitycat/car-rental-bff/internal/booking"
	"github.com/nekogravitycat/car-rental-bff/internal/car"
	"github.com/nekogravitycat/car-rental-bff/internal/config"
	"github.com/nekogravitycat/car-rental-bff/internal/job"
	"github.com/nekogravitycat/car-rental-bff/internal/notification"
	"github.com/nekogravitycat/car-rental-bff/internal/pkg/inflight"
	"github.com/nekogravitycat/car-rental-bff/internal/pkg/metrics"
	"github.com/nekogravitycat/car-rental-bff/internal/search"
	"github.com/nekogravitycat/car-rental-bff/internal/session"
)

// Deps are the connections opened by main.
type Deps struct {
	Logger    *zap.Logger
	SessionDB *badger.DB
	Redis     *redis.Client // nil when REDIS_ADDR is unset
	Backend   *backend.Client
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router    *gin.Engine
	Scheduler *job.Scheduler
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg *config.Config, deps Deps) (*Container, error) {
	limits := search.Limits{
		MaxPrice: cfg.SearchMaxPrice,
		MinYear:  cfg.SearchMinYear,
		MaxYear:  cfg.SearchMaxYear,
	}
	store := session.NewStore(deps.SessionDB)
	m := metrics.New()

	// Car Module
	carRepo := car.NewRemoteRepository(deps.Backend)
	catalog := car.NewCatalog(carRepo, cfg.CatalogPageSize)
	busy := inflight.NewSet()
	carService := car.NewService(carRepo, catalog, limits, busy, cfg.BackendTimeout)

	// Search Module
	searchService := search.NewService(session.NewBucket[search.State](store, "search", cfg.SessionTTL), limits)

	// Booking Module
	bookingRepo := booking.NewRemoteRepository(deps.Backend)
	bookingService := booking.NewService(bookingRepo, carService, booking.NewBucket(store, cfg.SessionTTL), busy, cfg.BookingServiceFee, cfg.BackendTimeout)

	// Account Module
	directory := account.NewDirectory(account.NewRemoteRepository(deps.Backend), cfg.CatalogPageSize)

	// Notification Module
	notificationService := notification.NewService(store, cfg.NotificationTTL)

	// Admin Module
	dialogs := admin.NewDialogs(cfg.DialogTTL)
	adminService := admin.NewService(carService, directory, notificationService, dialogs, busy, m, cfg.BackendTimeout)

	// Address Module
	var addressCache address.Cache
	if deps.Redis != nil {
		addressCache = address.NewRedisCache(deps.Redis, cfg.AddressCacheTTL)
	} else {
		addressCache = address.NewMemoryCache(cfg.AddressCacheTTL)
	}
	addressService := address.NewService(address.NewRemoteRepository(deps.Backend), addressCache)

	// Background refresh
	scheduler := job.NewScheduler(deps.Logger, cfg.RefreshTimeout)
	jobs := []struct {
		name string
		fn   job.Func
	}{
		{"car catalog", carService.Refresh},
		{"account directory", directory.Refresh},
	}
	for _, j := range jobs {
		if err := scheduler.Add(cfg.CatalogRefreshSpec, j.name, j.fn); err != nil {
			return nil, fmt.Errorf("invalid CATALOG_REFRESH_SPEC: %w", err)
		}
	}
	if err := scheduler.Add("@every 1m", "dialog sweep", sweepDialogs(dialogs, deps.Logger)); err != nil {
		return nil, err
	}

	// Router
	router := api.NewRouter(api.Config{
		IsProduction:        cfg.IsProduction,
		ProdOrigins:         cfg.ProdOrigins,
		Logger:              deps.Logger,
		Metrics:             m,
		ClaimsReader:        auth.NewClaimsReader(),
		Limits:              limits,
		SearchService:       searchService,
		CarService:          carService,
		BookingService:      bookingService,
		AdminService:        adminService,
		NotificationService: notificationService,
		AddressService:      addressService,
	})

	return &Container{
		Router:    router,
		Scheduler: scheduler,
	}, nil
}

func sweepDialogs(d *admin.Dialogs, log *zap.Logger) job.Func {
	return func(context.Context) error {
		if n := d.Sweep(); n > 0 {
			log.Debug("expired dialogs removed", zap.Int("count", n))
		}
		return nil
	}
}
