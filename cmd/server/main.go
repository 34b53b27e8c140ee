package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/event-vendor-marketplace/internal/config"
	"github.com/iliyamo/event-vendor-marketplace/internal/database"
	"github.com/iliyamo/event-vendor-marketplace/internal/handler"
	"github.com/iliyamo/event-vendor-marketplace/internal/notify"
	"github.com/iliyamo/event-vendor-marketplace/internal/queue"
	"github.com/iliyamo/event-vendor-marketplace/internal/repository"
	"github.com/iliyamo/event-vendor-marketplace/internal/router"
	"github.com/iliyamo/event-vendor-marketplace/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional; nil disables caching and rate limiting.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable, running without cache and rate limiting")
	}

	bookings := repository.NewBookingRepo(db)
	payments := repository.NewPaymentRepo(db)
	reviews := repository.NewReviewRepo(db)
	users := repository.NewUserRepo(db)

	svc := service.NewBookingService(bookings, payments, reviews, users, notify.NewPublisher())

	// The notification consumer stands in for the external dispatcher;
	// it reconnects on its own and never takes the server down.
	go func() {
		if err := queue.StartNotificationConsumer(); err != nil {
			log.Printf("notification consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e)
	router.RegisterBookings(e, handler.NewBookingHandler(svc), cfg.JWTSecret, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
