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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/yatube/yatube/internal/auth"
	"github.com/yatube/yatube/internal/config"
	"github.com/yatube/yatube/internal/monitoring"
	"github.com/yatube/yatube/internal/paginator"
	"github.com/yatube/yatube/internal/service"
	"github.com/yatube/yatube/internal/storage"
	"github.com/yatube/yatube/internal/storage/cache"
	"github.com/yatube/yatube/internal/storage/sqlstore"
	"github.com/yatube/yatube/internal/web"
	"github.com/yatube/yatube/pkg/logging"
)

func main() {
	logging.Setup()

	if err := run(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.UsesDevSecret() {
		slog.Warn("JWT_SECRET not set, using the development secret")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store storage.Store
	store, err = sqlstore.New(ctx, cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		return err
	}
	slog.Info("Storage initialized", "driver", cfg.DBDriver)

	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		store = cache.New(store, client, cfg.CacheTTL, slog.Default())
		slog.Info("Redis cache enabled", "address", cfg.RedisAddr, "ttl", cfg.CacheTTL)
	}
	defer store.Close()

	if err := monitoring.Register(prometheus.DefaultRegisterer); err != nil {
		return err
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.SessionTTL)
	authenticator := auth.NewPasswordAuthenticator(store)

	srv, err := web.New(web.Options{
		Posts:         service.NewPostService(store, paginator.New(cfg.PageSize), slog.Default()),
		Auth:          service.NewAuthService(authenticator, jwtManager, slog.Default()),
		JWT:           jwtManager,
		Health:        store,
		Users:         store,
		Logger:        slog.Default(),
		SessionCookie: cfg.SessionCookie,
		LoginURL:      cfg.LoginURL,
	})
	if err != nil {
		return err
	}

	// h2c serves HTTP/2 without TLS behind a terminating proxy
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      h2c.NewHandler(srv.Handler(), &http2.Server{}),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server starting", "address", cfg.Addr, "page_size", cfg.PageSize)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
