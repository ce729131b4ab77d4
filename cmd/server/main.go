package main

import (
	"context"
	"ctchen222/booklist/internal/api/repository"
	"ctchen222/booklist/internal/api/service"
	"ctchen222/booklist/internal/config"
	"ctchen222/booklist/internal/credential"
	"ctchen222/booklist/internal/db"
	"ctchen222/booklist/internal/events"
	"ctchen222/booklist/internal/feed"
	"ctchen222/booklist/internal/graph"
	"ctchen222/booklist/internal/identity"
	"ctchen222/booklist/internal/logger"
	"ctchen222/booklist/internal/server"
	"ctchen222/booklist/internal/telemetry"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
)

var version = "v0.1.0"

func main() {
	if err := run(); err != nil {
		log.Fatalf("booklist: %v", err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(cfg.LogLevel, cfg.LogFormat); err != nil {
		return err
	}

	// Initialize telemetry
	if cfg.OtelEnabled {
		shutdown, err := telemetry.InitOtel(ctx, cfg.OtelEndpoint, version)
		if err != nil {
			return fmt.Errorf("failed to initialize telemetry: %w", err)
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				slog.Error("error shutting down telemetry", "error", err)
			}
		}()
	}

	// Initialize SQLite DB
	pool, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer pool.Close()

	creds, err := credential.NewService(cfg.JWTSecret, cfg.JWTExpiry, cfg.BcryptCost)
	if err != nil {
		return err
	}

	// Create repositories
	readerRepo := repository.NewReaderRepository(pool)
	bookRepo := repository.NewBookRepository(pool)
	checks := map[string]server.HealthCheck{
		"database": pool.PingContext,
	}

	// Redis backs the book cache and the event bus when configured.
	var bus events.Bus = events.NewLocalBus()
	if cfg.RedisURL != "" {
		rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to initialize redis: %w", err)
		}
		defer rdb.Close()

		bookRepo = repository.NewCachedBookRepository(bookRepo, rdb, cfg.BookCacheTTL)
		bus = events.NewRedisBus(rdb)
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		slog.Info("redis enabled for book cache and events")
	}

	// Create services
	readerService := service.NewReaderService(readerRepo, creds)
	bookService := service.NewBookService(bookRepo, repository.NewTransactor(pool), bus)

	schema, err := graph.NewSchema(readerService, bookService)
	if err != nil {
		return fmt.Errorf("failed to build graphql schema: %w", err)
	}

	// Create hub
	hub := feed.NewHub(bus)
	go func() {
		if err := hub.Run(ctx); err != nil {
			slog.Error("feed hub stopped", "error", err)
		}
	}()

	gin.SetMode(gin.ReleaseMode)
	srv := server.NewServer(
		identity.NewBuilder(creds, cfg.RejectInvalidTokens),
		graph.NewHandler(schema),
		feed.NewHandler(hub, originChecker(cfg.CORSOrigins)),
		checks,
	)

	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           corsHandler(srv.Engine()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server started", "addr", httpServer.Addr, "version", version)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
	case <-ctx.Done():
	}

	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("server exiting")
	return nil
}

// originChecker applies the CORS allow-list to websocket upgrades.
func originChecker(origins []string) func(r *http.Request) bool {
	if slices.Contains(origins, "*") {
		return nil
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(origins, origin)
	}
}
