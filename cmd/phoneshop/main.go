package main

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"PhoneShop/internal/shop"
	"PhoneShop/pkg/config"
	"PhoneShop/pkg/kit"
)

func main() {
	service := "phoneshop"

	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		boot := kit.NewLogger(service, config.AppEnvProd, "info")
		boot.Error("failed to load config", zap.Error(err))
		_ = boot.Sync()
		os.Exit(1)
	}

	log := kit.NewLogger(service, cfg.App.Env, cfg.App.LogLevel)
	defer func() { _ = log.Sync() }()

	if envErr != nil {
		log.Debug(".env file not loaded, relying on environment", zap.Error(envErr))
	}

	store := shop.NewMemStore()
	if cfg.App.SeedCatalog {
		store = shop.NewStore()
	}

	s := &shop.Server{
		Store:        store,
		Log:          log,
		MaxBodyBytes: cfg.HTTP.MaxBodyBytes,
	}
	if cfg.RateLimit.Enabled() {
		s.WriteLimiter = kit.NewIPRateLimiter(cfg.RateLimit.WritesPerMinute, time.Minute).Middleware
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	h := shop.NewHandler(s, shop.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       reg,
		MetricsEnabled: cfg.Metrics.Enabled,
		MetricsToken:   cfg.Metrics.Token,
	})

	timeouts := kit.ServerTimeouts{
		ReadHeader: cfg.HTTP.ReadHeaderTimeout,
		Shutdown:   cfg.HTTP.ShutdownTimeout,
	}
	if err := kit.RunHTTPServer(cfg.HTTP.Addr(), h, log, timeouts); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}
