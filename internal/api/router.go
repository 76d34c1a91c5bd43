package api

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/pinehollow/lodge-booking-backend/internal/auth"
	"github.com/pinehollow/lodge-booking-backend/internal/booking"
	bookingHttp "github.com/pinehollow/lodge-booking-backend/internal/booking/http"
	"github.com/pinehollow/lodge-booking-backend/internal/cabin"
	cabinHttp "github.com/pinehollow/lodge-booking-backend/internal/cabin/http"
	"github.com/pinehollow/lodge-booking-backend/internal/guest"
	guestHttp "github.com/pinehollow/lodge-booking-backend/internal/guest/http"
	"github.com/pinehollow/lodge-booking-backend/internal/identity"
	"github.com/pinehollow/lodge-booking-backend/internal/settings"
	settingsHttp "github.com/pinehollow/lodge-booking-backend/internal/settings/http"
	"github.com/pinehollow/lodge-booking-backend/internal/staff"
	staffHttp "github.com/pinehollow/lodge-booking-backend/internal/staff/http"
)

// RouterConfig bundles what the router needs to assemble middleware and
// register routes for the dashboard modules.
type RouterConfig struct {
	StaffService    staff.Service
	CabinService    cabin.Service
	BookingService  booking.Service
	GuestService    guest.Service
	SettingsService settings.Service
	Resolver        identity.Resolver
	JWTManager      *auth.JWTManager

	IsProduction bool
	ProdOrigins  []string
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Auth) and registering routes for various modules.
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()

	// Global Middleware:
	// - Logger: Logs request information to the console.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(gin.Logger(), gin.Recovery())

	// Configure CORS (Cross-Origin Resource Sharing).
	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction {
		corsConfig.AllowOrigins = cfg.ProdOrigins
	} else {
		corsConfig.AllowOrigins = []string{
			"http://localhost:3000", // Dashboard dev server
		}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "Idempotency-Key"}
	r.Use(cors.New(corsConfig))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// authMiddleware: Validates if the request contains a valid JWT.
	authMiddleware := auth.AuthRequired(cfg.JWTManager)
	// adminMiddleware: Further checks if the authenticated staff member is an admin.
	adminMiddleware := RequireAdmin(cfg.StaffService)

	// Initialize HTTP Handlers for each module (injecting Service dependencies).
	staffHandler := staffHttp.NewHandler(cfg.StaffService, cfg.JWTManager)
	cabinHandler := cabinHttp.NewHandler(cfg.CabinService)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService, cfg.Resolver)
	guestHandler := guestHttp.NewHandler(cfg.GuestService, cfg.Resolver)
	settingsHandler := settingsHttp.NewHandler(cfg.SettingsService)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		staffHttp.RegisterRoutes(v1, staffHandler, authMiddleware, adminMiddleware)
		cabinHttp.RegisterRoutes(v1, cabinHandler, authMiddleware, adminMiddleware)
		bookingHttp.RegisterRoutes(v1, bookingHandler, authMiddleware, adminMiddleware)
		guestHttp.RegisterRoutes(v1, guestHandler, authMiddleware)
		settingsHttp.RegisterRoutes(v1, settingsHandler, authMiddleware, adminMiddleware)
	}

	return r
}
