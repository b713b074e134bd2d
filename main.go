package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"ratoneando/config"
	"ratoneando/logger"
	"ratoneando/metrics"
	"ratoneando/querylog"
	"ratoneando/scrapers"
	"ratoneando/server"
)

func main() {
	cfg := config.Load()
	log := logger.New(logger.ForEnvironment(cfg.AppEnv, cfg.LogLevel))

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	retailers, err := scrapers.NewAll(scrapers.DefaultRetailers(), scrapers.Options{
		Timeout:   cfg.AdapterTimeout,
		UserAgent: cfg.UserAgent,
		RateLimit: cfg.RetailerRPS,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("build retailer adapters")
	}
	agg := scrapers.NewAggregator(retailers,
		scrapers.WithAdapterTimeout(cfg.AdapterTimeout),
		scrapers.WithDeadline(cfg.SearchTimeout),
		scrapers.WithLogger(log.With().Str("component", "aggregator").Logger()),
		scrapers.WithObserver(metrics.AdapterObserver{}),
	)

	var queries querylog.Store = querylog.Nop{}
	if cfg.RedisAddr != "" {
		store, err := querylog.NewRedisStore(querylog.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			log.Warn().Err(err).Msg("query log disabled")
		} else {
			defer store.Close()
			queries = store
		}
	}

	handler := server.NewHandler(agg, queries, log)
	router := server.NewRouter(handler, log, cfg.CORSOrigins)

	httpSrv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", httpSrv.Addr).Strs("retailers", retailerNames(agg)).Msg("HTTP API server listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		log.Error().Err(err).Msg("server error")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown error")
	}
	handler.Wait()
	log.Info().Msg("server stopped")
}

func retailerNames(agg *scrapers.Aggregator) []string {
	ids := agg.Retailers()
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}
