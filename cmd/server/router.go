package main

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "telewall/docs"
	"telewall/internal/common/config"
	"telewall/internal/common/middleware"
	giftHTTP "telewall/internal/features/gift/delivery/http"
	giftService "telewall/internal/features/gift/service"
	paymentHTTP "telewall/internal/features/payment/delivery/http"
	paymentService "telewall/internal/features/payment/service"
	postHTTP "telewall/internal/features/post/delivery/http"
	postService "telewall/internal/features/post/service"
	storeHTTP "telewall/internal/features/store/delivery/http"
	storeService "telewall/internal/features/store/service"
	userHTTP "telewall/internal/features/user/delivery/http"
	userService "telewall/internal/features/user/service"
)

type services struct {
	users    userService.UserService
	posts    postService.PostService
	gifts    giftService.GiftService
	store    storeService.StoreService
	payments paymentService.PaymentService
}

type healthChecker interface {
	HealthCheck(ctx context.Context) error
}

func setupRouter(cfg *config.Config, svc services, redisClient healthChecker, logger zerolog.Logger) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.ErrorHandler(logger))
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Metrics())

	corsConfig := cors.DefaultConfig()
	if cfg.Server.Origin == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = strings.Split(cfg.Server.Origin, ",")
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "OPTIONS"}
	corsConfig.AllowHeaders = []string{
		"Content-Type",
		"Accept",
		middleware.InitDataHeader,
		middleware.RequestIDHeader,
		paymentHTTP.IdempotencyKeyHeader,
	}
	corsConfig.ExposeHeaders = []string{middleware.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	router.Use(middleware.ErrorResponder(logger))

	auth := middleware.InitData(cfg.Telegram.BotToken, cfg.Telegram.InitDataTTL, logger)
	invoiceLimiter := middleware.NewRateLimiter("invoices", cfg.Payments.InvoicesPerMin, logger)

	api := router.Group("/api")
	api.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "TeleWall API is running"})
	})

	userHTTP.NewUserHandler(svc.users).RegisterRoutes(api, auth)
	postHTTP.NewPostHandler(svc.posts).RegisterRoutes(api)
	giftHTTP.NewGiftHandler(svc.gifts).RegisterRoutes(api)
	storeHTTP.NewStoreHandler(svc.store).RegisterRoutes(api)
	paymentHTTP.NewPaymentHandler(svc.payments).RegisterRoutes(api, auth, invoiceLimiter.Handler())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", middleware.MetricsHandler())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
			"service":   "telewall-api",
		})
	})

	router.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := redisClient.HealthCheck(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unready",
				"error":   "redis unavailable",
				"details": err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "ready",
			"timestamp": time.Now().UTC(),
			"service":   "telewall-api",
		})
	})

	return router
}
