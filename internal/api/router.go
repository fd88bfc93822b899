package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/pinglayer/pinglayer-api/internal/api/handler"
	"github.com/pinglayer/pinglayer-api/internal/api/middleware"
	"github.com/pinglayer/pinglayer-api/internal/auth"
	"github.com/pinglayer/pinglayer-api/internal/core/service"
	"github.com/pinglayer/pinglayer-api/internal/infrastructure/config"
	mongodb "github.com/pinglayer/pinglayer-api/internal/infrastructure/db/mongo"
	redisdb "github.com/pinglayer/pinglayer-api/internal/infrastructure/db/redis"
	"github.com/pinglayer/pinglayer-api/internal/infrastructure/queue"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// The click dispatcher is constructed in main because its worker lifecycle
// outlives individual requests.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, dispatcher *queue.Dispatcher, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.CORS())
	e.Use(echoprometheus.NewMiddleware("pinglayer"))

	// --- Dependencies ---
	authRepo := mongodb.NewAuthRepository(db)
	campaignRepo := mongodb.NewCampaignRepository(db)
	recipientRepo := mongodb.NewRecipientRepository(db)
	linkRepo := mongodb.NewSmartLinkRepository(db)
	messageRepo := mongodb.NewMessageLogRepository(db)

	codec := auth.NewCodec(cfg.Auth.JWTSecret, cfg.TokenTTL())
	limiter := redisdb.NewRateLimiter(rdb)

	authService := service.NewAuthService(authRepo, codec, log)
	campaignService := service.NewCampaignService(campaignRepo, messageRepo, log)
	recipientService := service.NewRecipientService(campaignRepo, recipientRepo, log)
	linkService := service.NewSmartLinkService(campaignRepo, linkRepo, cfg.SmartLinkBaseURL, log)

	authHandler := handler.NewAuthHandler(authService)
	campaignHandler := handler.NewCampaignHandler(campaignService)
	recipientHandler := handler.NewRecipientHandler(recipientService)
	linkHandler := handler.NewSmartLinkHandler(linkService, dispatcher)
	healthHandler := handler.NewHealthHandler(cfg.Env)
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	authMW := middleware.Auth(codec, authRepo)
	optionalAuthMW := middleware.OptionalAuth(codec, authRepo)
	adminMW := middleware.RequireAdmin(authRepo)
	rateMW := middleware.RateLimit(limiter, cfg.RateLimitPerMinute, log)

	// --- Public surface ---
	e.GET("/", healthHandler.Root)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	// Redirects need no credential; a valid one is resolved but unused.
	e.GET("/s/:code", linkHandler.Redirect, optionalAuthMW)

	// --- Auth (anonymous, rate limited by IP) ---
	authGroup := e.Group("/api/auth", rateMW)
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)

	// --- Authenticated API ---
	apiGroup := e.Group("/api", authMW, rateMW)
	apiGroup.GET("/auth/me", authHandler.Me)

	users := apiGroup.Group("/users", adminMW)
	users.GET("", authHandler.ListUsers)
	users.PATCH("/:userID/active", authHandler.SetUserActive)

	campaigns := apiGroup.Group("/campaigns")
	campaigns.POST("", campaignHandler.Create)
	campaigns.GET("", campaignHandler.List)
	campaigns.GET("/:id", campaignHandler.Get)
	campaigns.PATCH("/:id", campaignHandler.Update)
	campaigns.DELETE("/:id", campaignHandler.Delete)
	campaigns.POST("/:id/send", campaignHandler.Send)
	campaigns.POST("/:id/cancel", campaignHandler.Cancel)
	campaigns.GET("/:id/messages", campaignHandler.ListMessages)

	campaigns.POST("/:id/recipients", recipientHandler.Add)
	campaigns.GET("/:id/recipients", recipientHandler.List)
	campaigns.DELETE("/:id/recipients", recipientHandler.DeleteAll)
	campaigns.POST("/:id/recipients/bulk", recipientHandler.AddBulk)
	campaigns.POST("/:id/recipients/upload", recipientHandler.Upload)
	campaigns.GET("/:id/recipients/:recipientID", recipientHandler.Get)
	campaigns.DELETE("/:id/recipients/:recipientID", recipientHandler.Delete)

	campaigns.GET("/:id/links", linkHandler.ListByCampaign)

	links := apiGroup.Group("/links")
	links.POST("", linkHandler.Create)
	links.GET("/:id/stats", linkHandler.Stats)
	links.PATCH("/:id", linkHandler.Update)

	return e
}
