package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/kmoroz/storefront/internal/config"
	"github.com/kmoroz/storefront/internal/events"
	"github.com/kmoroz/storefront/internal/httpserver"
	mw "github.com/kmoroz/storefront/internal/middleware"
	"github.com/kmoroz/storefront/internal/repo"
	"github.com/kmoroz/storefront/internal/search"
	"github.com/kmoroz/storefront/internal/service"
	"github.com/kmoroz/storefront/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel)

	e := echo.New()
	e.HideBanner = true

	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	e.Use(mw.RequestLogger(logger))
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := config.InitDB(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	var index *search.Index
	if cfg.ESURL != "" {
		es, err := search.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
		index = &search.Index{ES: es, Name: cfg.ESIndex}
	}

	producer := events.NewProducer(cfg.KafkaBrokers)
	defer producer.Close()

	r := &repo.GormRepo{DB: db}

	authSvc := &service.AuthService{Repo: r, JWTSecret: cfg.JWTSecret, RefreshSecret: cfg.RefreshSecret}
	cartSvc := &service.CartService{Repo: r, Producer: producer}
	orderSvc := &service.OrderService{Repo: r, Cart: cartSvc, Producer: producer}
	catalogSvc := &service.CatalogService{Repo: r, Index: index}

	httpserver.Register(e, &httpserver.Deps{
		Auth:    &httpserver.AuthHTTP{Svc: authSvc},
		Cart:    &httpserver.CartHTTP{Svc: cartSvc},
		Order:   &httpserver.OrderHTTP{Svc: orderSvc},
		Product: &httpserver.ProductHTTP{Svc: catalogSvc},
		Admin:   &httpserver.AdminHTTP{Catalog: catalogSvc, Orders: orderSvc, Auth: authSvc},
		AuthMW:  mw.NewAuthMiddleware(cfg.JWTSecret, authSvc),
	})

	go func() {
		addr := ":" + strconv.Itoa(cfg.ServerPort)
		logger.Info("starting storefront", "addr", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("echo shutdown", "error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
