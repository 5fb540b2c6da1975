package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/pedidos/orders-api/internal/config"
	"github.com/pedidos/orders-api/internal/database"
	"github.com/pedidos/orders-api/internal/handlers"
	"github.com/pedidos/orders-api/internal/repository"
	"github.com/pedidos/orders-api/internal/router"
	"github.com/pedidos/orders-api/internal/service"
	"github.com/pedidos/orders-api/pkg/logger"
)

func main() {
	envFileFlag := &cli.StringFlag{
		Name:  "env-file",
		Value: ".env",
		Usage: "dotenv file applied before reading the environment",
	}

	app := &cli.App{
		Name:   "orders-api",
		Usage:  "HTTP API for creating, reading, updating and deleting orders",
		Flags:  []cli.Flag{envFileFlag},
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "create the schema if needed and start the HTTP server",
				Flags:  []cli.Flag{envFileFlag},
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "create the orders and items tables and exit",
				Flags:  []cli.Flag{envFileFlag},
				Action: migrate,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func bootstrap(c *cli.Context) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(c.String("env-file"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.New(cfg.LogLevel, cfg.IsDevelopment())
	return cfg, log, nil
}

func migrate(c *cli.Context) error {
	cfg, log, err := bootstrap(c)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	db, err := database.Open(cfg.DB, log)
	if err != nil {
		return err
	}
	defer database.Close(db, log)

	if err := database.Migrate(c.Context, db, log); err != nil {
		return err
	}

	log.Info("schema is up to date")
	return nil
}

func serve(c *cli.Context) error {
	cfg, log, err := bootstrap(c)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting orders api server",
		zap.String("host", cfg.Server.Host),
		zap.String("port", cfg.Server.Port),
		zap.String("env", cfg.Env),
		zap.String("log_level", cfg.LogLevel),
	)

	db, err := database.Open(cfg.DB, log)
	if err != nil {
		return err
	}
	defer database.Close(db, log)

	if err := database.Migrate(c.Context, db, log); err != nil {
		return err
	}

	// Initialize repositories
	orderRepo := repository.NewOrderRepository(db)

	// Initialize services
	orderService := service.NewOrderService(orderRepo)

	// Initialize handlers
	orderHandler := handlers.NewOrderHandler(orderService, log, cfg.IsDevelopment())
	healthHandler := handlers.NewHealthHandler(orderService, cfg.DB.Driver, log)

	r := router.New(router.Deps{
		Orders:         orderHandler,
		Health:         healthHandler,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Logger:         log,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("server listening",
			zap.String("address", srv.Addr),
			zap.String("database", cfg.DB.Driver),
			zap.String("dsn", cfg.DB.DSN),
			zap.Strings("endpoints", handlers.Endpoints),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Error("server failed to start", zap.Error(err))
		return err
	case sig := <-quit:
		log.Info("shutting down server...", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}
