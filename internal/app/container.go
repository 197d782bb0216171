package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/nexcharge/nexcharge-backend/internal/api"
	"github.com/nexcharge/nexcharge-backend/internal/auth"
	"github.com/nexcharge/nexcharge-backend/internal/booking"
	"github.com/nexcharge/nexcharge-backend/internal/qr"
	"github.com/nexcharge/nexcharge-backend/internal/station"
	"github.com/nexcharge/nexcharge-backend/internal/user"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	DBPool       *pgxpool.Pool
	Logger       *zap.Logger
	JWTSecret    string
	JWTTTL       time.Duration
	BcryptCost   int
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) *Container {
	passwordHasher := auth.NewBcryptPasswordHasherWithCost(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	// User module
	userRepo := user.NewPgxRepository(cfg.DBPool)
	userService := user.NewService(userRepo, passwordHasher)

	// Station module. The deactivation guard reads upcoming bookings
	// straight off the booking repository to avoid a service cycle.
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)
	stationRepo := station.NewPgxRepository(cfg.DBPool)
	stationService := station.NewService(stationRepo, booking.NewUpcomingChecker(bookingRepo))

	// Booking module
	bookingService := booking.NewService(bookingRepo, stationService, userService, qr.PNGBase64, cfg.Logger)

	router := api.NewRouter(api.Config{
		IsProduction:   cfg.IsProduction,
		ProdOrigins:    cfg.ProdOrigins,
		UserService:    userService,
		StationService: stationService,
		BookingService: bookingService,
		JWTManager:     jwtManager,
	})

	return &Container{
		Router:     router,
		JWTManager: jwtManager,
	}
}
