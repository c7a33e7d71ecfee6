package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/quickbite/pkg/api"
	"github.com/example/quickbite/pkg/config"
	"github.com/example/quickbite/pkg/push"
	"github.com/example/quickbite/pkg/session"
	"github.com/example/quickbite/pkg/store"
	"github.com/example/quickbite/pkg/sync"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "config/quickbite.yaml", "path to config file")
	flag.Parse()

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Setup logger
	logger, err := zap.NewProduction()
	if err != nil {
		panic(fmt.Sprintf("Failed to create logger: %v", err))
	}
	defer logger.Sync()

	logger.Info("Starting quickbite client daemon",
		zap.String("backend", cfg.Supabase.ProjectURL),
		zap.Duration("sync_interval", cfg.Sync.Interval))

	ctx := context.Background()

	// Key-value store for session token and preferences
	kv := store.NewKV(&cfg.Redis)
	defer kv.Close()
	if err := kv.Ping(ctx); err != nil {
		logger.Warn("Key-value store connection failed", zap.Error(err))
	} else {
		logger.Info("Key-value store connected")
	}

	// Local cache
	cache, err := store.OpenCache(&cfg.Cache)
	if err != nil {
		logger.Fatal("Failed to open local cache", zap.Error(err))
	}
	defer cache.Close()

	// Session, restored from the persisted token if present
	sess := session.NewManager(kv, logger)
	sess.Restore(ctx)
	if sess.IsLoggedIn() {
		logger.Info("Session restored", zap.String("user_id", sess.UserID()))
	}

	// Remote facade
	apiClient, err := api.NewClient(&cfg.Supabase, sess, logger)
	if err != nil {
		logger.Fatal("Failed to create backend client", zap.Error(err))
	}

	// Sync engine and periodic worker
	checker := sync.NewNetChecker(cfg.Supabase.ProjectURL, cfg.Sync.ProbeTimeout)
	engine := sync.NewEngine(apiClient, cache, sess, checker, logger)
	worker := sync.NewWorker(engine, cfg.Sync.Interval, logger)
	if err := worker.Start(); err != nil {
		logger.Fatal("Failed to start sync worker", zap.Error(err))
	}

	// Run one pass at startup rather than waiting a full interval
	go worker.RunOnce()

	// Push inbox
	notifier := push.NewLogNotifier(logger)
	inbox := push.NewInbox(&cfg.Push, notifier, logger)

	serverErr := make(chan error, 1)
	go func() {
		if err := inbox.Start(); err != nil {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		logger.Info("Received shutdown signal")
	case err := <-serverErr:
		logger.Fatal("Push inbox error", zap.Error(err))
	}

	worker.Stop()
	logger.Info("Daemon stopped")
}
