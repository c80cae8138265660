package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/shoplift/engage/internal/adapter/mailer"
	"github.com/shoplift/engage/internal/config"
	store "github.com/shoplift/engage/internal/repository"
	"github.com/shoplift/engage/internal/service"
	"github.com/shoplift/engage/internal/session"
	transport "github.com/shoplift/engage/internal/transport/http"
	"github.com/shoplift/engage/policy"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting engagement engine",
		zap.Int("http_port", cfg.HTTPPort),
		zap.Int("internal_port", cfg.InternalPort),
		zap.String("database", cfg.DatabaseURL))

	// Initialize store
	db, err := store.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to initialize store", zap.Error(err))
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.SeedDemoCatalog(ctx); err != nil {
		logger.Warn("failed to seed demo catalog", zap.Error(err))
	}

	// Session store: Redis when configured, in-process otherwise.
	var sessions session.Store
	if cfg.RedisURL != "" {
		redisStore, err := session.NewRedisStore(ctx, cfg.RedisURL, cfg.Tunables.SessionTTL())
		if err != nil {
			logger.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer redisStore.Close()
		sessions = redisStore
	} else {
		sessions = session.NewMemoryStore(cfg.Tunables.SessionTTL())
	}

	// Initialize mailer client
	mailClient := mailer.NewClient(cfg.MailerURL, cfg.MailerTimeout)

	// Initialize offer policy engine
	policyEngine, err := policy.NewEngine(ctx, policy.DefaultPolicy)
	if err != nil {
		logger.Fatal("failed to initialize policy engine", zap.Error(err))
	}

	// Initialize service
	svc := service.New(db, mailClient, sessions, policyEngine, cfg, logger)

	externalServer := transport.NewExternalServer(svc)
	internalServer := transport.NewInternalServer(svc)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := externalServer.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start external server", zap.Error(err))
		}
	}()

	go func() {
		addr := fmt.Sprintf(":%d", cfg.InternalPort)
		if err := internalServer.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start internal server", zap.Error(err))
		}
	}()

	logger.Info("servers started",
		zap.Int("external_port", cfg.HTTPPort),
		zap.Int("internal_port", cfg.InternalPort))

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := externalServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("failed to shutdown external server gracefully", zap.Error(err))
	}
	if err := internalServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("failed to shutdown internal server gracefully", zap.Error(err))
	}

	logger.Info("stopped")
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if lvl, err := zap.ParseAtomicLevel(level); err == nil {
		cfg.Level = lvl
	}
	return cfg.Build()
}
