package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"laundry-service-api/internal/cache"
	"laundry-service-api/internal/client"
	"laundry-service-api/internal/config"
	"laundry-service-api/internal/notify"
	"laundry-service-api/internal/repository"
	"laundry-service-api/internal/seed"
	"laundry-service-api/internal/server"
	"laundry-service-api/internal/service"
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

	db := client.InitMysqlClient(cfg.DatabaseURL)

	if err := seed.Run(context.Background(), db); err != nil {
		log.Fatal("seed:", err)
	}

	var notifier notify.Notifier = notify.LogNotifier{}
	if cfg.Notify.GatewayURL != "" {
		notifier = notify.NewGatewayNotifier(cfg.Notify.GatewayURL, cfg.Notify.Token)
	}

	forecastCache := cache.NewTTL(cfg.Cache.ForecastTTL, nil)

	userRepo := repository.NewUserRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)

	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.TTL)
	orderService := service.NewOrderService(db, orderRepo, membershipRepo)
	paymentService := service.NewPaymentService(db, paymentRepo, orderRepo, membershipRepo, userRepo, notifier)
	membershipService := service.NewMembershipService(db, membershipRepo, paymentRepo)
	analyticsService := service.NewAnalyticsService(db, forecastCache)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	// Init HTTP server
	srv := server.NewServer(authService, orderService, paymentService, membershipService, analyticsService, userRepo)

	log.Println("Starting HTTP server on", serverAddr)
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Println("Signal received, starting graceful shutdown...")

	_, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(); err != nil {
		log.Fatal("HTTP server shutdown error")
	}
}
