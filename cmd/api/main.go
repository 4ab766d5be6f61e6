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

	"storefront-api/internal/auth"
	"storefront-api/internal/client"
	"storefront-api/internal/config"
	"storefront-api/internal/event"
	"storefront-api/internal/logger"
	"storefront-api/internal/repository"
	"storefront-api/internal/server"
	"storefront-api/internal/service"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Environment, cfg.Log)
	if err != nil {
		fmt.Printf("Failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	zap.ReplaceGlobals(log)

	if cfg.Auth.JWTSecret == "" {
		log.Warn("JWT_SECRET is not set; authenticated routes will fail")
	}
	if cfg.Razorpay.KeySecret == "" {
		log.Warn("RAZORPAY_KEY_SECRET is not set; gateway orders and verification will fail")
	}

	db, err := client.InitDatabase(cfg.Database)
	if err != nil {
		log.Fatal("init database", zap.Error(err))
	}

	var publisher event.Publisher = event.NopPublisher{}
	if cfg.Rabbit.URL != "" {
		rp, err := event.DialRabbit(cfg.Rabbit.URL, cfg.Rabbit.Exchange)
		if err != nil {
			log.Fatal("connect rabbitmq", zap.Error(err))
		}
		publisher = rp
	}
	defer publisher.Close()

	userRepo := repository.NewUserRepository(db)
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	productRepo := repository.NewProductRepository(db)

	if cfg.Redis.Addr != "" {
		cache := client.NewRedisCache(cfg.Redis.Addr)
		defer cache.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := cache.Ping(pingCtx); err != nil {
			log.Warn("redis unreachable, product cache will fall through to the database", zap.Error(err))
		}
		cancel()
		productRepo = repository.NewCachedProductRepository(productRepo, cache, cfg.Redis.ProductTTL, log)
	}

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	razorpayClient := client.NewRazorpayClient(&cfg.Razorpay)
	cloudinaryClient := client.NewCloudinaryClient(&cfg.Cloudinary)

	services := server.Services{
		User:    service.NewUserService(userRepo, tokens, cfg.Auth, log),
		Cart:    service.NewCartService(db, cartRepo, userRepo),
		Order:   service.NewOrderService(db, orderRepo, cartRepo, razorpayClient, cfg.Razorpay.KeySecret, publisher),
		Product: service.NewProductService(productRepo, cloudinaryClient),
	}

	// Init HTTP server
	srv := server.NewServer(cfg, log, tokens, services)

	serverAddr := cfg.HTTP.Address()
	log.Info("starting HTTP server", zap.String("addr", serverAddr))
	go func() {
		if err := srv.Start(serverAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Info("signal received, starting graceful shutdown")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	}
}
