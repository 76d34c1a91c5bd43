package app

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/pinehollow/lodge-booking-backend/internal/api"
	"github.com/pinehollow/lodge-booking-backend/internal/auth"
	"github.com/pinehollow/lodge-booking-backend/internal/booking"
	"github.com/pinehollow/lodge-booking-backend/internal/cabin"
	"github.com/pinehollow/lodge-booking-backend/internal/guest"
	"github.com/pinehollow/lodge-booking-backend/internal/identity"
	"github.com/pinehollow/lodge-booking-backend/internal/pkg/storage"
	"github.com/pinehollow/lodge-booking-backend/internal/settings"
	"github.com/pinehollow/lodge-booking-backend/internal/staff"
)

// statsWorkerBuffer sizes the recompute queue; overflow parks IDs for the
// retry tick instead of blocking booking mutations.
const (
	statsWorkerBuffer = 256
	statsRetryEvery   = 30 * time.Second
	memoryCacheSize   = 1024
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  []string
	DBPool       *pgxpool.Pool
	JWTSecret    string
	JWTTTL       time.Duration
	BcryptCost   int
	StoreTimeout time.Duration

	DirectoryBaseURL string
	DirectoryToken   string
	DirectoryRPS     int
	ProfileCacheTTL  time.Duration

	RedisAddr     string
	RedisPassword string

	PhotoDir string
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router      *gin.Engine
	JWTManager  *auth.JWTManager
	StatsWorker *guest.Worker
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) (*Container, error) {
	// Init Components
	passwordHasher := auth.NewBcryptPasswordHasherWithCost(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	photoStore, err := storage.NewLocalStorage(cfg.PhotoDir)
	if err != nil {
		return nil, fmt.Errorf("failed to init photo storage: %w", err)
	}

	// Staff Module
	staffRepo := staff.NewPgxRepository(cfg.DBPool)
	staffService := staff.NewService(staffRepo, passwordHasher)

	// Settings Module
	settingsRepo := settings.NewPgxRepository(cfg.DBPool, cfg.StoreTimeout)
	settingsService := settings.NewService(settingsRepo)

	// Cabin Module
	cabinRepo := cabin.NewPgxRepository(cfg.DBPool, cfg.StoreTimeout)
	cabinService := cabin.NewService(cabinRepo, photoStore)

	// Guest Stats Module
	guestRepo := guest.NewPgxRepository(cfg.DBPool, cfg.StoreTimeout)
	guestService := guest.NewService(guestRepo)
	statsWorker := guest.NewWorker(guestService, statsWorkerBuffer, statsRetryEvery)

	// Booking Module
	bookingRepo := booking.NewPgxRepository(cfg.DBPool, cfg.StoreTimeout)
	bookingService := booking.NewService(bookingRepo, cabinService, settingsService, statsWorker)

	// Identity Module
	resolver := newResolver(cfg)

	// API Router Config
	routerParams := api.RouterConfig{
		IsProduction:    cfg.IsProduction,
		ProdOrigins:     cfg.ProdOrigins,
		StaffService:    staffService,
		CabinService:    cabinService,
		BookingService:  bookingService,
		GuestService:    guestService,
		SettingsService: settingsService,
		Resolver:        resolver,
		JWTManager:      jwtManager,
	}

	// Router
	router := api.NewRouter(routerParams)

	return &Container{
		Router:      router,
		JWTManager:  jwtManager,
		StatsWorker: statsWorker,
	}, nil
}

// newResolver picks the identity stack from config: no directory means
// placeholder identities only, and Redis is preferred over the in-memory
// cache when configured.
func newResolver(cfg Config) identity.Resolver {
	if cfg.DirectoryBaseURL == "" {
		return identity.NewNoopResolver()
	}

	var cache identity.Cache
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		cache = identity.NewRedisCache(client)
	} else {
		cache = identity.NewMemoryCache(memoryCacheSize)
	}

	client := identity.NewDirectoryClient(cfg.DirectoryBaseURL, cfg.DirectoryToken, cfg.DirectoryRPS)
	return identity.NewCachedResolver(client, cache, cfg.ProfileCacheTTL)
}
