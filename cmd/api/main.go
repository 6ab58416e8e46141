package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/Tomlord1122/todo-otp-backend/internal/cache"
	"github.com/Tomlord1122/todo-otp-backend/internal/config"
	"github.com/Tomlord1122/todo-otp-backend/internal/database"
	"github.com/Tomlord1122/todo-otp-backend/internal/logger"
	"github.com/Tomlord1122/todo-otp-backend/internal/metrics"
	"github.com/Tomlord1122/todo-otp-backend/internal/repository"
	"github.com/Tomlord1122/todo-otp-backend/internal/server"
	"github.com/Tomlord1122/todo-otp-backend/internal/service"

	_ "github.com/joho/godotenv/autoload"
)

func gracefulShutdown(apiServer *http.Server, dbService database.Service, cacheService cache.Service, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	slog.Info("shutting down gracefully, press Ctrl+C again to force")
	stop() // Allow Ctrl+C to force shutdown

	// The server has 5 seconds to finish the requests it is currently handling.
	ctxTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctxTimeout); err != nil {
		slog.Error("server forced to shutdown", slog.Any("error", err))
	}

	if err := dbService.Close(); err != nil {
		slog.Error("closing database connection pool", slog.Any("error", err))
	}
	if err := cacheService.Close(); err != nil {
		slog.Error("closing cache client", slog.Any("error", err))
	}

	slog.Info("server exiting")

	done <- true
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	log := logger.SetupDefault(os.Stdout, cfg.LogLevel)

	// 1. Database
	dbService, err := database.New(database.Options{
		DSN:      cfg.DSN(),
		Name:     cfg.DBName,
		LogLevel: cfg.DBLogLevel,
	})
	if err != nil {
		log.Error("connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	if cfg.DBAutoMigrate {
		log.Info("running database auto-migration")
		if err := dbService.Migrate(); err != nil {
			log.Error("auto-migrate database", slog.Any("error", err))
			os.Exit(1)
		}
	}

	// 2. Cache
	cacheService := cache.New(cache.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if health := cacheService.Health(context.Background()); health["status"] != "up" {
		// Not fatal: OTP endpoints fail until the cache comes back, everything else works.
		log.Warn("cache unavailable at startup", slog.String("addr", cfg.RedisAddr))
	}

	// 3. Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(registry)

	// 4. Repositories and services
	gormDB := dbService.GetDB()
	todoRepo := repository.NewGormTodoRepository(gormDB)
	userRepo := repository.NewGormUserRepository(gormDB)

	tokens := service.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	todoService := service.NewTodoService(todoRepo, userRepo)
	userService := service.NewUserService(userRepo, cache.NewRedisOTPStore(cacheService.Client()), tokens, cfg.OTPTTL, collector)

	// 5. HTTP server
	apiServer := server.NewServer(cfg.Port, server.Dependencies{
		TodoService:    todoService,
		UserService:    userService,
		DB:             dbService,
		Cache:          cacheService,
		Metrics:        collector,
		Gatherer:       registry,
		Logger:         log,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})

	done := make(chan bool, 1)
	go gracefulShutdown(apiServer, dbService, cacheService, done)

	log.Info("starting server", slog.String("addr", apiServer.Addr))
	err = apiServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("http server error", slog.Any("error", err))
		os.Exit(1)
	}

	<-done
	log.Info("graceful shutdown complete")
}
