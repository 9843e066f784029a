package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/GoArmGo/InviteLink/internal/config"
	"github.com/GoArmGo/InviteLink/internal/handler"
	"github.com/GoArmGo/InviteLink/internal/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const shutdownTimeout = 30 * time.Second

// NewRouter собирает маршруты: страницы, health и JSON API (в корне и под /api)
func NewRouter(cfg *config.Config, deps Deps, logger *slog.Logger) http.Handler {
	userHandler := handler.NewUserHandler(deps.Identity, deps.Profiles, deps.Sessions, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(handler.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	r.Get("/", web.LoginPage)
	r.Get(handler.LoginPath, web.LoginPage)
	r.Get("/profile", web.ProfilePage)
	r.Get("/healthz", userHandler.Health)

	userHandler.RegisterRoutes(r)
	r.Route("/api", userHandler.RegisterRoutes)

	return r
}

// runServer запускает HTTP сервер и останавливает его по отмене ctx
func runServer(ctx context.Context, cfg *config.Config, deps Deps, logger *slog.Logger) error {
	serverAddr := fmt.Sprintf(":%s", cfg.ServerPort)
	server := &http.Server{
		Addr:              serverAddr,
		Handler:           NewRouter(cfg, deps, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("http server started", "addr", serverAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("ошибка при запуске сервера: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutdown signal received, stopping http server")

	ctxServer, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctxServer); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	logger.Info("http server stopped")
	return nil
}
