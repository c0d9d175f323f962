package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/minhtri-dev/coffeeshop/internal/config"
	"github.com/minhtri-dev/coffeeshop/internal/es"
	"github.com/minhtri-dev/coffeeshop/internal/httpserver"
	"github.com/minhtri-dev/coffeeshop/internal/logging"
	loggingmw "github.com/minhtri-dev/coffeeshop/internal/middleware/logging"
	"github.com/minhtri-dev/coffeeshop/internal/mykafka"
	"github.com/minhtri-dev/coffeeshop/internal/repo"
	"github.com/minhtri-dev/coffeeshop/internal/service"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	e := echo.New()
	e.HideBanner = true

	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(loggingmw.RequestLogger(logger))

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := config.InitDB(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	gormRepo := &repo.GormRepo{DB: db}

	voucherService := &service.VoucherService{Repo: gormRepo}
	cartService := &service.CartService{Repo: gormRepo, Vouchers: voucherService}
	loyaltyService := &service.LoyaltyService{Repo: gormRepo}
	orderService := &service.OrderService{Repo: gormRepo, Vouchers: voucherService, Cart: cartService}

	var producer *mykafka.Producer
	if cfg.KafkaAddress != "" {
		producer = mykafka.NewProducer(cfg.KafkaAddress)
		defer producer.Close()
	}

	var searchHandler *httpserver.SearchHTTP
	if cfg.ESURL != "" {
		esClient, err := es.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
		searchHandler = &httpserver.SearchHTTP{ES: esClient, Index: cfg.ProductsIndex}
	}

	httpserver.Register(e, &httpserver.Deps{
		CartHandler:    &httpserver.CartHTTP{Svc: cartService, Producer: producer},
		OrderHandler:   &httpserver.OrderHTTP{Svc: orderService, Producer: producer},
		LoyaltyHandler: &httpserver.LoyaltyHTTP{Svc: loyaltyService},
		SearchHandler:  searchHandler,
		JWTSecret:      cfg.JWTSecret,
	})

	go func() {
		log.Printf("Starting order service on port %s...", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && err != http.ErrServerClosed {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("echo shutdown: %v", err)
	}

	sqlDB, err := db.DB()
	if err == nil {
		sqlDB.Close()
	}

	log.Println("Server stopped")
}
