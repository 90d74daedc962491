package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/webmarket/webmarket/pkg/authclient"
	"github.com/webmarket/webmarket/pkg/catalogclient"
	"github.com/webmarket/webmarket/pkg/db"
	"github.com/webmarket/webmarket/pkg/events"
	"github.com/webmarket/webmarket/pkg/logging"
	loggingmw "github.com/webmarket/webmarket/pkg/middleware/logging"
	"github.com/webmarket/webmarket/services/order/internal/cartclient"
	"github.com/webmarket/webmarket/services/order/internal/config"
	"github.com/webmarket/webmarket/services/order/internal/httpserver"
	"github.com/webmarket/webmarket/services/order/internal/models"
	"github.com/webmarket/webmarket/services/order/internal/repo"
	"github.com/webmarket/webmarket/services/order/internal/service"
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
	gormDB, err := db.Open(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	if err := gormDB.AutoMigrate(&models.Order{}, &models.OrderItem{}); err != nil {
		log.Fatalf("db migrate error: %v", err)
	}

	authClient := authclient.NewClient(cfg.AuthURL)
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		authClient = authClient.WithCache(authclient.NewRedisCache(rdb, 30*time.Second))
	}

	producer := events.NewProducer(cfg.KafkaBrokers, "orders")
	defer producer.Close()

	orderService := service.NewOrderService(
		&repo.GormRepo{DB: gormDB},
		cartclient.NewClient(cfg.CartURL),
		catalogclient.NewClient(cfg.CatalogURL),
		producer,
	)

	httpserver.Register(e, &httpserver.Deps{
		OrderHandler: &httpserver.OrderHTTP{Svc: orderService},
		AuthClient:   authClient,
	})

	go func() {
		addr := fmt.Sprintf(":%d", cfg.ServerPort)
		log.Printf("starting order service on %s", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("echo shutdown: %v", err)
	}

	if sqlDB, err := gormDB.DB(); err == nil {
		sqlDB.Close()
	}
}
