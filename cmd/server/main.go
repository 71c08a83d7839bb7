package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	gormLogger "gorm.io/gorm/logger"

	"github.com/dom/user-directory/internal/api"
	"github.com/dom/user-directory/internal/config"
	"github.com/dom/user-directory/internal/logger"
	"github.com/dom/user-directory/internal/repository"
	"github.com/dom/user-directory/internal/repository/memory"
	"github.com/dom/user-directory/internal/repository/mysql"
	"github.com/dom/user-directory/internal/service"
	"github.com/dom/user-directory/internal/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New(0).Fatal("failed to load config", "error", err)
	}

	log := logger.New(cfg.LogLevel)

	// Initialize repositories
	repos, closeRepos, err := openRepositories(cfg, log)
	if err != nil {
		log.Fatal("failed to initialize storage", "storage", cfg.Storage, "error", err)
	}
	defer closeRepos()

	// Initialize WebSocket hub
	hub := websocket.NewHub(log)
	go hub.Run()

	// Initialize services
	services := service.NewServices(repos, cfg, hub, log)

	// Initialize router
	router := api.NewRouter(services, hub, cfg, log)

	srv := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.Port, "storage", cfg.Storage, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}
	hub.Stop()

	log.Info("server stopped")
}

func openRepositories(cfg *config.Config, log *logger.Logger) (*repository.Repositories, func(), error) {
	if cfg.Storage == config.StorageMemory {
		log.Warn("using in-memory storage, data is lost on restart")
		return memory.NewRepositories(), func() {}, nil
	}

	level := gormLogger.Warn
	if cfg.IsDevelopment() {
		level = gormLogger.Info
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := mysql.NewConnection(ctx, cfg.Database.DSN(), mysql.Options{
		MaxOpenConns: cfg.Database.MaxOpenConns,
		LogLevel:     level,
	})
	if err != nil {
		return nil, nil, err
	}

	closeDB := func() {
		if err := mysql.Close(db); err != nil {
			log.Error("failed to close database", "error", err)
		}
	}
	return mysql.NewRepositories(db), closeDB, nil
}
