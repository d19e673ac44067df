package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"telewall/internal/common/cache"
	"telewall/internal/common/config"
	"telewall/internal/common/logger"
	giftRepo "telewall/internal/features/gift/repository/redis"
	giftService "telewall/internal/features/gift/service"
	paymentRepo "telewall/internal/features/payment/repository/redis"
	paymentService "telewall/internal/features/payment/service"
	postRepo "telewall/internal/features/post/repository/redis"
	postService "telewall/internal/features/post/service"
	storeRepo "telewall/internal/features/store/repository/redis"
	storeService "telewall/internal/features/store/service"
	userRepo "telewall/internal/features/user/repository/redis"
	userService "telewall/internal/features/user/service"
	"telewall/internal/platform/redis"
	"telewall/internal/platform/telegram"
	"telewall/internal/workers"
)

// @title           TeleWall API
// @version         1.0
// @description     Backend of the TeleWall Telegram Mini App: profiles, wall posts, gifts and a Telegram Stars store.

// @BasePath  /api

// @securityDefinitions.apikey TelegramInitData
// @in header
// @name X-Telegram-Init-Data
// @description Telegram Mini App init data string

// @tag.name auth
// @tag.description Login with Telegram init data

// @tag.name users
// @tag.description Profiles and search

// @tag.name posts
// @tag.description Wall posts

// @tag.name gifts
// @tag.description Gifts between users

// @tag.name store
// @tag.description Store catalog

// @tag.name payments
// @tag.description Telegram Stars invoices and inventory

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger.Init("telewall-api", cfg.Debug)
	log := logger.Get()

	log.Info().Bool("debug", cfg.Debug).Msg("Starting TeleWall backend")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Инициализируем Redis
	openCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	redisClient, err := redis.Open(openCtx, redis.Options{
		Addr:        cfg.Redis.Addr,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		PoolSize:    cfg.Redis.PoolSize,
		DialTimeout: 5 * time.Second,
	})
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()
	redisClient.RegisterPoolMetrics()

	cacheService := cache.NewCacheService(redisClient.Client, "cache:")
	telegramClient := telegram.NewClient(cfg.Telegram.APIURL, cfg.Telegram.BotToken, log)

	// Репозитории и сервисы
	userSvc := userService.NewUserService(userRepo.NewUserRepository(redisClient.Client), cfg.Telegram.BotToken, cfg.Telegram.InitDataTTL, log)
	postSvc := postService.NewPostService(postRepo.NewPostRepository(redisClient.Client), userSvc, log)
	giftSvc := giftService.NewGiftService(giftRepo.NewGiftRepository(redisClient.Client), userSvc, log)
	storeSvc := storeService.NewStoreService(storeRepo.NewStoreRepository(redisClient.Client), cacheService, log)
	paymentSvc := paymentService.NewPaymentService(
		paymentRepo.NewPaymentRepository(redisClient.Client),
		userSvc,
		storeSvc,
		telegramClient,
		cfg.Payments.InvoiceTTL,
		log,
	)

	if _, err := storeSvc.Seed(ctx, storeService.DefaultCatalog()); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed store catalog")
	}

	worker := workers.NewPaymentStreamWorker(
		redisClient.Client,
		paymentSvc,
		cfg.Payments.Stream,
		cfg.Payments.ConsumerGroup,
		cfg.Payments.ConsumerName,
		log,
	)
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		worker.Start(ctx)
	}()

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := setupRouter(cfg, services{
		users:    userSvc,
		posts:    postSvc,
		gifts:    giftSvc,
		store:    storeSvc,
		payments: paymentSvc,
	}, redisClient, log)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	<-workerDone

	log.Info().Msg("Server exited")
}
