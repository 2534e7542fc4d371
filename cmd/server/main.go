package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"
	_ "time/tzdata"

	httpserver "quarters/internal/http"
	"quarters/internal/quarter"
	"quarters/internal/service"
	"quarters/internal/store"
	"quarters/internal/zones"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var migrationsDir string
	var liveInterval time.Duration
	flag.StringVar(&migrationsDir, "migrations", "", "migrations directory (default ./migrations)")
	flag.DurationVar(&liveInterval, "live-interval", time.Second, "websocket push interval")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	port := envOrDefault("PORT", "8080")
	defaultZone := envOrDefault("DEFAULT_TZ", zones.Default)
	if _, err := quarter.LoadZone(defaultZone); err != nil {
		logger.Error("invalid timezone", slog.String("tz", defaultZone))
		os.Exit(1)
	}
	ratePerSecond, err := strconv.ParseFloat(envOrDefault("API_RATE_PER_SECOND", "10"), 64)
	if err != nil {
		logger.Error("invalid API_RATE_PER_SECOND", slog.String("error", err.Error()))
		os.Exit(1)
	}
	rateBurst, err := strconv.Atoi(envOrDefault("API_RATE_BURST", "20"))
	if err != nil {
		logger.Error("invalid API_RATE_BURST", slog.String("error", err.Error()))
		os.Exit(1)
	}

	trustProxy, err := strconv.ParseBool(envOrDefault("TRUST_PROXY", "false"))
	if err != nil {
		logger.Error("invalid TRUST_PROXY", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var prefs service.Store
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		logger.Info("DATABASE_URL not set, keeping preferences in memory")
		prefs = store.NewMemory()
	} else {
		pool, err := pgxpool.New(ctx, databaseURL)
		if err != nil {
			logger.Error("failed to connect db", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer pool.Close()

		if err := runMigrations(databaseURL, migrationsDir); err != nil {
			logger.Error("failed to migrate", slog.String("error", err.Error()))
			os.Exit(1)
		}
		prefs = store.New(pool)
	}

	svc := service.New(prefs, defaultZone, time.Now)
	server, err := httpserver.NewServer(svc, logger, httpserver.Config{
		RatePerSecond: ratePerSecond,
		RateBurst:     rateBurst,
		LiveInterval:  liveInterval,
		Zones:         zones.Names,
		TrustProxy:    trustProxy,
	})
	if err != nil {
		logger.Error("failed to start", slog.String("error", err.Error()))
		os.Exit(1)
	}

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%s", port),
		Handler:           server.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", slog.String("addr", httpServer.Addr), slog.String("default_tz", defaultZone))
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", slog.String("error", err.Error()))
		}
	}
}

func envOrDefault(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		return def
	}
	return value
}

func runMigrations(databaseURL, dir string) error {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return err
	}
	migrationsPath, err := resolveMigrationsPath(dir)
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsPath, "postgres", driver)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}

func resolveMigrationsPath(dir string) (string, error) {
	if dir == "" {
		baseDir, err := os.Getwd()
		if err != nil {
			executable, execErr := os.Executable()
			if execErr != nil {
				return "", err
			}
			baseDir = filepath.Dir(executable)
		}
		dir = filepath.Join(baseDir, "migrations")
	}
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(absPath), nil
}
