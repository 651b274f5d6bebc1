// Package main is the entry point for the library server binary.
// It opens the SQLite database, runs migrations, optionally seeds demo
// data, starts the overdue sweeper, and serves the REST API and the
// server-rendered UI over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"shelf-demo/internal/api"
	"shelf-demo/internal/config"
	internaldb "shelf-demo/internal/db"
	"shelf-demo/internal/db/repository"
	"shelf-demo/internal/middleware"
	"shelf-demo/internal/querystats"
	"shelf-demo/internal/service"
	"shelf-demo/internal/ui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file (if present)
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not load .env: %v\n", err)
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)
	for _, warning := range cfg.Warnings {
		logger.Warn(warning)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	// Open SQLite with hardened connection settings.
	// writeDB: single-connection pool for serialized writes (WAL + txlock=immediate).
	// readDB:  concurrent read pool.
	driver := internaldb.DriverName(cfg.Instrumentation.Enabled)
	writeDB, readDB, err := internaldb.OpenSQLitePair(driver, cfg.DBPath, cfg.ReadMaxConns)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer writeDB.Close()
	defer readDB.Close()

	if err := internaldb.RunMigrations(writeDB); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	// Repositories: write-pool for repos that INSERT/UPDATE/DELETE,
	// read-pool for the audit listing, which only SELECTs.
	authorRepo := repository.NewAuthorRepo(writeDB)
	bookRepo := repository.NewBookRepo(writeDB)
	copyRepo := repository.NewCopyRepo(writeDB)
	memberRepo := repository.NewMemberRepo(writeDB)
	auditRepo := repository.NewAuditRepo(writeDB)
	auditReadRepo := repository.NewAuditRepo(readDB)

	authors := service.NewAuthorService(authorRepo, auditRepo)
	books := service.NewBookService(bookRepo, authorRepo, copyRepo, auditRepo)
	members := service.NewMemberService(memberRepo, auditRepo)
	loans := service.NewLoanService(copyRepo, bookRepo, memberRepo, auditRepo, cfg.LoanPeriodDays)
	audit := service.NewAuditService(auditReadRepo)

	if cfg.SeedDemoData {
		if err := service.SeedDemoData(ctx, authors, books, members, loans); err != nil {
			return fmt.Errorf("seed demo data: %w", err)
		}
		logger.Info("demo data ready")
	}

	sweeper := service.NewOverdueSweeper(loans, auditRepo, logger, cfg.OverdueSweepSchedule)
	if err := sweeper.Start(); err != nil {
		return err
	}
	defer sweeper.Stop()

	handler := api.NewHandler(authors, books, members, loans, audit, logger)
	uiHandler := ui.NewHandler(books, loans, logger)

	router := api.NewRouter(handler, uiHandler, api.RouterConfig{
		QueryStats: querystats.Options{
			Enabled:             cfg.Instrumentation.Enabled,
			DetailedDiagnostics: cfg.Instrumentation.DetailedDiagnostics,
			DetailThreshold:     cfg.Instrumentation.DetailThreshold,
			SummaryLevel:        cfg.Instrumentation.SlogSummaryLevel(),
		},
		RequestLogging:     cfg.Instrumentation.LoggingActive,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimit: middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimitRPS,
			Burst:             cfg.RateLimitBurst,
		},
		JWTSecret: []byte(cfg.JWTSecret),
	}, logger)

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		host := curlHostForListenAddr(cfg.ListenAddr)
		logger.Info("library server listening", "addr", cfg.ListenAddr, "env", cfg.Env)
		logger.Info("endpoints ready",
			"api", fmt.Sprintf("http://%s/v1/books", host),
			"ui", fmt.Sprintf("http://%s/ui", host))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// curlHostForListenAddr turns a listen address into something a browser or
// curl can dial. Wildcard and empty hosts become localhost.
func curlHostForListenAddr(addr string) string {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return "localhost:8080"
	}
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	switch host {
	case "", "0.0.0.0", "::":
		host = "localhost"
	}
	return net.JoinHostPort(host, port)
}
