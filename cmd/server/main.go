package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dash-packager/internal/packager"
	"dash-packager/internal/platform/config"
	"dash-packager/internal/platform/logger"
	"dash-packager/internal/platform/metrics"

	"github.com/go-chi/chi/v5"
)

const shutdownTimeout = 10 * time.Second

func main() {
	_ = config.Load()

	port := config.GetEnv("PORT", "8080")
	cacheSize := config.GetEnvInt("MANIFEST_CACHE_SIZE", packager.DefaultCacheSize)
	logLevel := config.GetEnv("LOG_LEVEL", "info")
	logFormat := config.GetEnv("LOG_FORMAT", "json")

	log := logger.New(logLevel, logFormat)

	gen := packager.NewGenerator(log)
	cache := packager.NewCache(cacheSize)
	svc := packager.NewService(gen, cache, log)
	met := metrics.New()
	h := packager.NewHandler(svc, log, met)

	r := chi.NewRouter()
	r.Use(logger.RequestLogger(log))
	r.Use(metrics.RequestMiddleware(met))
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		met.Handler(func() { met.SetCacheEntries(svc.CacheEntries()) }).ServeHTTP(w, r)
	})
	r.Post("/manifest", h.BuildManifest)
	r.Route("/select", func(r chi.Router) {
		r.Post("/video", h.SelectVideo)
		r.Post("/audio", h.SelectAudio)
	})

	addr := ":" + port
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	log.Info("server starting",
		"port", port,
		"manifest_cache_size", cacheSize,
		"log_level", logLevel,
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received, draining connections")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
