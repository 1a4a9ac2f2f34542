package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"ShopCatalog/internal/auth"
	"ShopCatalog/internal/catalog"
	"ShopCatalog/internal/config"
	"ShopCatalog/pkg/kit"
)

const (
	service     = "catalog"
	openTimeout = 10 * time.Second
	writeWindow = time.Minute
)

func main() {
	log := kit.NewLogger(service)
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("invalid config", zap.Error(err))
	}

	store, err := openStore(cfg)
	if err != nil {
		log.Fatal("open store failed", zap.Error(err), zap.String("store", cfg.Store))
	}
	log.Info("store ready", zap.String("store", cfg.Store), zap.Bool("seed", cfg.Seed))

	s := catalog.NewServer(store, catalog.NewCategories(cfg.Categories), log)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	deps := catalog.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       reg,
		MetricsEnabled: cfg.MetricsEnabled,
		MetricsToken:   cfg.MetricsToken,
		BasePath:       cfg.BasePath,
		CORSOrigins:    cfg.CORSOrigins,
		TrustProxy:     cfg.TrustProxy,
	}

	if cfg.WriteLimitPerMin > 0 {
		limiter := kit.NewIPRateLimiter(cfg.WriteLimitPerMin, writeWindow)
		deps.WriteGuards = append(deps.WriteGuards, limiter.Middleware)
	}

	if cfg.AuthEnabled() {
		mount, guard, err := setupAuth(cfg, log)
		if err != nil {
			log.Fatal("init auth failed", zap.Error(err))
		}
		deps.Mount = mount
		deps.WriteGuards = append(deps.WriteGuards, guard)
		log.Info("write endpoints require admin token")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := kit.RunHTTPServer(ctx, cfg.Addr(), catalog.NewHandler(s, deps), log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

func openStore(cfg config.Config) (catalog.Store, error) {
	var seed []catalog.Fields
	if cfg.Seed {
		seed = catalog.DemoProducts()
	}

	if cfg.Store == config.StoreMemory {
		return catalog.NewMemStore(seed...), nil
	}

	db, err := catalog.OpenDB(cfg.Store, cfg.DSN)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), openTimeout)
	defer cancel()
	return catalog.NewGormStore(ctx, db, seed...)
}

func setupAuth(cfg config.Config, log *zap.Logger) (func(chi.Router), func(http.Handler) http.Handler, error) {
	users := auth.NewMemStore()
	if _, err := users.Create(context.Background(), cfg.AdminEmail, cfg.AdminPassword, auth.RoleAdmin); err != nil {
		return nil, nil, err
	}

	jwt := auth.NewTokenMaker(cfg.JWTSecret)
	a := &auth.Server{
		Log:      log,
		Store:    users,
		JWT:      jwt,
		TokenTTL: cfg.TokenTTL,
	}
	return a.Mount, auth.RequireRole(jwt, auth.RoleAdmin), nil
}
