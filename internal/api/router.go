package api

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/nexcharge/nexcharge-backend/internal/auth"
	"github.com/nexcharge/nexcharge-backend/internal/booking"
	bookingHttp "github.com/nexcharge/nexcharge-backend/internal/booking/http"
	"github.com/nexcharge/nexcharge-backend/internal/station"
	stationHttp "github.com/nexcharge/nexcharge-backend/internal/station/http"
	"github.com/nexcharge/nexcharge-backend/internal/user"
	userHttp "github.com/nexcharge/nexcharge-backend/internal/user/http"
)

// Config holds the services and settings the router needs.
type Config struct {
	IsProduction bool
	ProdOrigins  string

	UserService    user.Service
	StationService station.Service
	BookingService booking.Service
	JWTManager     *auth.JWTManager
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Auth) and
// registering routes for the modules.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Logger logs request information to the console; Recovery captures
	// panics so the server returns a 500 instead of crashing.
	r.Use(gin.Logger(), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction && cfg.ProdOrigins != "" {
		corsConfig.AllowOrigins = strings.Split(cfg.ProdOrigins, ",")
	} else {
		corsConfig.AllowOrigins = []string{"http://localhost:3000"}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	authMiddleware := auth.AuthRequired(cfg.JWTManager)
	backofficeMiddleware := RequireRole(cfg.UserService, user.RoleBackoffice)
	staffMiddleware := RequireRole(cfg.UserService, user.RoleBackoffice, user.RoleOperator)

	authHandler := NewAuthHandler(cfg.UserService, cfg.JWTManager)
	userHandler := userHttp.NewHandler(cfg.UserService)
	stationHandler := stationHttp.NewHandler(cfg.StationService)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService)

	v1 := r.Group("/v1")
	{
		v1.POST("/auth/register", authHandler.Register)
		v1.POST("/auth/login", authHandler.Login)
		v1.GET("/me", authMiddleware, authHandler.Me)

		userHttp.RegisterRoutes(v1, userHandler, authMiddleware, backofficeMiddleware)
		stationHttp.RegisterRoutes(v1, stationHandler, authMiddleware, backofficeMiddleware)
		bookingHttp.RegisterRoutes(v1, bookingHandler, authMiddleware, staffMiddleware)
	}

	return r
}
