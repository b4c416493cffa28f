package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/microstore/auth-platform/internal/api/handler"
	"github.com/microstore/auth-platform/internal/api/middleware"
	"github.com/microstore/auth-platform/internal/core/ports"
	"github.com/microstore/auth-platform/internal/core/service"
	"github.com/microstore/auth-platform/internal/core/token"
	mongodb "github.com/microstore/auth-platform/internal/infrastructure/db/mongo"
	redisdb "github.com/microstore/auth-platform/internal/infrastructure/db/redis"
	"github.com/microstore/auth-platform/internal/pkg/hash"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// The codec is shared between the issuing side (login) and the verifying
// side (the auth middleware): same secret, no session state.
func NewRouter(db *mongo.Database, rdb *redis.Client, codec *token.Codec, audit ports.AuditRecorder, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("auth"))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	productRepo := mongodb.NewProductRepository(db)
	hasher := hash.NewBcrypt()
	throttle := redisdb.NewLoginThrottle(rdb)

	authService := service.NewAuthService(userRepo, hasher, codec, throttle, audit, log)
	userService := service.NewUserService(userRepo, hasher, audit, log)
	productService := service.NewProductService(productRepo, log)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	productHandler := handler.NewProductHandler(productService)
	authMiddleware := middleware.Auth(codec)

	// --- Auth routes (public) ---
	e.POST("/api-users/registration", userHandler.Register)
	e.POST("/api-auth/login", authHandler.Login)
	e.PATCH("/api-auth/change-password/:username", authHandler.ChangePassword)

	// --- Catalog routes (behind the gateway filter) ---
	products := e.Group("/v1/products", authMiddleware)
	products.POST("", productHandler.Create)
	products.GET("", productHandler.List)
	products.GET("/:id", productHandler.Get)
	products.PUT("/:id", productHandler.Update)
	products.DELETE("/:id", productHandler.Delete)

	// --- Observability (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
