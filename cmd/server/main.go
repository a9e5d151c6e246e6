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

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/patungan/internal/api/apiconnect"
	"github.com/mmynk/patungan/internal/auth"
	"github.com/mmynk/patungan/internal/config"
	"github.com/mmynk/patungan/internal/middleware"
	"github.com/mmynk/patungan/internal/service"
	"github.com/mmynk/patungan/internal/storage"
	"github.com/mmynk/patungan/internal/storage/sqlite"
	"github.com/mmynk/patungan/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	logging.SetupWithLevel(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)
	if cfg.UsesDevSecret() {
		slog.Warn("JWT_SECRET not set, using development secret")
	}

	// Initialize SQLite storage
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := middleware.NewMetrics(registry)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	router := newRouter(store, jwtManager, metrics, registry)

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h2c.NewHandler(router, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("Connect server starting", "address", cfg.Addr())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("Shutting down server", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}
	slog.Info("Server stopped")
}

func newRouter(store storage.Store, jwtManager *auth.JWTManager, metrics *middleware.Metrics, registry *prometheus.Registry) http.Handler {
	logger := slog.Default()
	authenticator := auth.NewPasswordAuthenticator(store)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimw.Recoverer)
	r.Use(corsMiddleware)

	// Interceptors run in order: auth first, so the logger sees the user ID
	authPath, authHandler := apiconnect.NewAuthServiceHandler(
		service.NewAuthService(authenticator, jwtManager, store, logger),
		connect.WithInterceptors(middleware.OptionalAuth(jwtManager), middleware.LoggingInterceptor(), metrics.Interceptor()),
	)
	billPath, billHandler := apiconnect.NewBillServiceHandler(
		service.NewBillService(store, metrics, logger),
		connect.WithInterceptors(middleware.RequireAuth(jwtManager), middleware.LoggingInterceptor(), metrics.Interceptor()),
	)
	splitPath, splitHandler := apiconnect.NewSplitServiceHandler(
		service.NewSplitService(store, metrics, logger),
		connect.WithInterceptors(middleware.LoggingInterceptor(), metrics.Interceptor()),
	)
	r.Handle(authPath+"*", authHandler)
	r.Handle(billPath+"*", billHandler)
	r.Handle(splitPath+"*", splitHandler)

	r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(30 * time.Second))
		r.Use(middleware.BearerAuth(jwtManager))
		r.Get("/bills/{billID}/receipt.pdf", service.NewReceiptHandler(store, metrics, logger).ServeHTTP)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := store.Ping(r.Context()); err != nil {
			slog.Error("Health check failed", "error", err)
			http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	return r
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms, Content-Disposition")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
