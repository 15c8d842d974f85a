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

	"github.com/Mugen-bitt/ai-finance-miniapp/internal/config"
	"github.com/Mugen-bitt/ai-finance-miniapp/internal/database"
	"github.com/Mugen-bitt/ai-finance-miniapp/internal/initdata"
	"github.com/Mugen-bitt/ai-finance-miniapp/internal/logger"
	"github.com/Mugen-bitt/ai-finance-miniapp/internal/middleware"
	"github.com/Mugen-bitt/ai-finance-miniapp/internal/router"
	"github.com/Mugen-bitt/ai-finance-miniapp/internal/validator"
)

// @title           AI Finance Mini-App API
// @version         1.0
// @description     Backend of a Telegram mini-app for tracking income, expenses, budgets and savings goals.

// @BasePath  /api

// @securityDefinitions.apikey TelegramInitData
// @in header
// @name X-Telegram-Init-Data
// @description Raw signed launch payload of the mini-app.

const shutdownTimeout = 10 * time.Second

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	verifier, err := newVerifier(cfg)
	if err != nil {
		return err
	}

	dbManager, err := database.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnf("failed to close database: %v", err)
		}
	}()

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	err = dbManager.Ping(pingCtx)
	cancel()
	if err != nil {
		return fmt.Errorf("database is not reachable: %w", err)
	}

	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	validator.Register()

	handler := router.New(router.Deps{
		Config:   cfg,
		DB:       dbManager.DB(),
		Verifier: verifier,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting AI Finance backend on port %s (api prefix %q, dev mode %v)", cfg.Port, cfg.APIPrefix, cfg.DevMode)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newVerifier builds the launch payload verifier. A missing bot token is fatal
// unless the development bypass is on; the returned interface is then nil so
// signed requests fail with a configuration error.
func newVerifier(cfg *config.Config) (middleware.IdentityVerifier, error) {
	var opts []initdata.Option
	if cfg.InitDataMaxAge > 0 {
		opts = append(opts, initdata.WithMaxAge(cfg.InitDataMaxAge))
	}

	v, err := initdata.NewVerifier(cfg.TelegramBotToken, opts...)
	if err != nil {
		if cfg.DevMode {
			logger.Get().Warn("TELEGRAM_BOT_TOKEN is not set; only unsigned development requests will be served")
			return nil, nil
		}
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required outside DEV_MODE: %w", err)
	}
	if cfg.DevMode {
		logger.Get().Warn("DEV_MODE is on: requests without init data are served as the test user")
	}
	return v, nil
}
