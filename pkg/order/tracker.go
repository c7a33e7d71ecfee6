package order

import (
	"context"
	"sync"
	"time"

	"github.com/example/quickbite/pkg/api"
	"github.com/example/quickbite/pkg/models"
	"go.uber.org/zap"
)

const defaultPollInterval = 4 * time.Second

// Tracker polls an order until it reaches the terminal status. Fetch
// errors are recorded and the loop keeps going; only the terminal
// status or context cancellation ends it.
type Tracker struct {
	api      *api.Client
	interval time.Duration
	logger   *zap.Logger

	mu      sync.Mutex
	lastErr error
}

func NewTracker(apiClient *api.Client, logger *zap.Logger) *Tracker {
	return &Tracker{
		api:      apiClient,
		interval: defaultPollInterval,
		logger:   logger,
	}
}

// SetInterval overrides the poll interval; zero or negative keeps the
// default.
func (t *Tracker) SetInterval(d time.Duration) {
	if d > 0 {
		t.interval = d
	}
}

// Track blocks, polling every interval, invoking onUpdate for each
// successfully fetched status and onDone exactly once when the order
// is delivered. Cancelling ctx stops the loop without onDone. The
// caller owns the goroutine and the cancellation.
func (t *Tracker) Track(ctx context.Context, orderID string, onUpdate func(models.OrderResponse), onDone func()) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		order, err := t.api.GetOrder(ctx, orderID)
		if err != nil {
			t.setLastError(err)
			t.logger.Warn("Order poll failed",
				zap.String("order_id", orderID), zap.Error(err))
		} else {
			t.setLastError(nil)
			if onUpdate != nil {
				onUpdate(*order)
			}
			if models.IsTerminalStatus(order.Status) {
				t.logger.Info("Order delivered", zap.String("order_id", orderID))
				if onDone != nil {
					onDone()
				}
				return
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// LastError reports the most recent poll failure, nil after a
// successful poll.
func (t *Tracker) LastError() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastErr
}

func (t *Tracker) setLastError(err error) {
	t.mu.Lock()
	t.lastErr = err
	t.mu.Unlock()
}
