package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/dcode-github/property_listing_web/client"
	"github.com/dcode-github/property_listing_web/config"
	"github.com/dcode-github/property_listing_web/fallback"
	"github.com/dcode-github/property_listing_web/metrics"
	"github.com/dcode-github/property_listing_web/middleware"
	"github.com/dcode-github/property_listing_web/routes"
	"github.com/dcode-github/property_listing_web/session"
	"github.com/dcode-github/property_listing_web/utils"
)

const (
	sessionIdle   = 24 * time.Hour
	sweepInterval = 10 * time.Minute
)

func setupTokenStore(cfg *config.Config) (session.TokenStore, func()) {
	if cfg.RedisAddr == "" {
		log.Println("REDIS_ADDR not set, keeping session tokens in memory")
		return session.NewMemoryStore(), func() {}
	}
	rdb, err := config.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	return session.NewRedisStore(rdb, cfg.TokenTTL), func() { config.CloseRedis(rdb) }
}

func setupFetcher(cfg *config.Config, api *client.Client, m *metrics.Metrics) *fallback.Fetcher {
	opts := []fallback.Option{fallback.WithTimeout(cfg.FetchTimeout), fallback.WithObserver(m)}
	if cfg.SampleDataFile != "" {
		sample, err := fallback.LoadSample(cfg.SampleDataFile)
		if err != nil {
			log.Fatalf("Failed to load sample data: %v", err)
		}
		log.Printf("Loaded %d sample properties from %s", len(sample), cfg.SampleDataFile)
		opts = append(opts, fallback.WithSample(sample))
	}
	return fallback.New(api, opts...)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore := setupTokenStore(cfg)
	defer closeStore()

	m := metrics.New()
	api := client.New(cfg.APIURL,
		client.WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout}),
		client.WithObserver(m),
	)
	log.Printf("Using backend API at %s", api.BaseURL())

	manager := session.NewManager(store, api)
	go manager.RunSweeper(ctx, sweepInterval, sessionIdle)

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.TrustProxy)
	go limiter.RunCleanup(ctx, sweepInterval, 3*sweepInterval)

	router := mux.NewRouter()
	routes.Routes(router, routes.Deps{
		Client:      api,
		Fetcher:     setupFetcher(cfg, api, m),
		Manager:     manager,
		Signer:      utils.NewSessionSigner(cfg.SessionSecret, cfg.TokenTTL),
		CookieName:  cfg.SessionCookie,
		RateLimiter: limiter,
		Metrics:     m.Handler(),
	})

	corsOptions := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	})
	handler := corsOptions.Handler(router)

	server := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        handler,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   cfg.RequestTimeout + 10*time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		log.Printf("Server running on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Error starting server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}
