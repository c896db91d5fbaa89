package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/nurpe/service-cart/internal/auth"
	"github.com/nurpe/service-cart/internal/catalog"
	"github.com/nurpe/service-cart/internal/config"
	"github.com/nurpe/service-cart/internal/db"
	"github.com/nurpe/service-cart/internal/excel"
	httphandler "github.com/nurpe/service-cart/internal/http"
	"github.com/nurpe/service-cart/internal/http/middleware"
	"github.com/nurpe/service-cart/internal/logger"
	"github.com/nurpe/service-cart/internal/pdf"
	"github.com/nurpe/service-cart/internal/repository"
	"github.com/nurpe/service-cart/internal/service"
	"github.com/nurpe/service-cart/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cat, err := catalog.NewLoader(log).LoadDir(cfg.Catalog.Dir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load catalog")
	}

	store, closeStore, err := newSessionStore(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init session store")
	}
	defer closeStore()

	catalogService := service.NewCatalogService(cat)
	cartService := service.NewCartService(catalogService, store, log)
	exportService := service.NewExportService(catalogService, cartService, excel.NewGenerator(), pdf.NewGenerator())

	cleanup := worker.NewCleanup(store, cfg.Session.Retention, log)
	if err := cleanup.Start(ctx, cfg.Session.CleanupSchedule); err != nil {
		log.Fatal().Err(err).Msg("failed to start session cleanup")
	}
	defer cleanup.Stop()

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(catalogService, cartService, exportService, log)
	sessionMiddleware := middleware.Session(tokenParser)
	router := httphandler.NewRouter(handler, sessionMiddleware, cfg.HTTP.AllowedOrigins, cfg.Environment, log)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
		defer stop()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server shutdown failed")
		}
	}()

	log.Info().
		Str("addr", addr).
		Str("store", cfg.Session.Store).
		Int("categories", len(cat.Categories)).
		Int("services", len(cat.Services)).
		Msg("starting catalog service")

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
	log.Info().Msg("server stopped gracefully")
}

type sessionStore interface {
	service.SessionStore
	worker.StalePurger
}

func newSessionStore(cfg *config.Config, log zerolog.Logger) (sessionStore, func(), error) {
	switch cfg.Session.Store {
	case config.StorePostgres:
		database, err := db.New(cfg, log)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if sqlDB, err := database.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return repository.NewSessionRepository(database), closeFn, nil

	case config.StoreRedis:
		client := repository.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		store := repository.NewRedisSessionRepository(client, cfg.Redis.TTL)
		return store, store.Close, nil

	default:
		return repository.NewMemorySessionRepository(), func() {}, nil
	}
}
