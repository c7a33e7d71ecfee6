package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Worker runs the periodic background schedule: restaurants first,
// then pending orders, nominally every 15 minutes. The owner holds the
// handle and stops it on shutdown; a failed pass is simply retried on
// the next tick.
type Worker struct {
	engine   *Engine
	interval time.Duration
	logger   *zap.Logger
	cron     *cron.Cron
}

func NewWorker(engine *Engine, interval time.Duration, logger *zap.Logger) *Worker {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &Worker{
		engine:   engine,
		interval: interval,
		logger:   logger,
		cron:     cron.New(),
	}
}

func (w *Worker) Start() error {
	spec := fmt.Sprintf("@every %s", w.interval)
	if _, err := w.cron.AddFunc(spec, w.RunOnce); err != nil {
		return fmt.Errorf("failed to schedule sync: %w", err)
	}
	w.cron.Start()
	w.logger.Info("Sync worker started", zap.Duration("interval", w.interval))
	return nil
}

// Stop halts the schedule and waits for a running pass to finish.
func (w *Worker) Stop() {
	ctx := w.cron.Stop()
	<-ctx.Done()
	w.logger.Info("Sync worker stopped")
}

// RunOnce executes a full pass. Exposed for on-demand sync.
func (w *Worker) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), w.interval)
	defer cancel()

	if ok := w.engine.SyncRestaurants(ctx); !ok {
		w.logger.Warn("Restaurant sync pass failed, will retry next tick")
	}
	if ok := w.engine.SyncPendingOrders(ctx); !ok {
		w.logger.Warn("Pending order sync pass failed, will retry next tick")
	}
}
