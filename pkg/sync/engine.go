// Package sync keeps the local cache and the backend in step: it pulls
// restaurant and menu data down wholesale, and pushes locally created
// orders up best-effort. Every pass reduces to a boolean; callers only
// decide whether to retry the whole pass later.
package sync

import (
	"context"

	"github.com/example/quickbite/pkg/api"
	"github.com/example/quickbite/pkg/models"
	"github.com/example/quickbite/pkg/session"
	"github.com/example/quickbite/pkg/store"
	"go.uber.org/zap"
)

type Engine struct {
	api     *api.Client
	cache   *store.Cache
	session *session.Manager
	checker Checker
	logger  *zap.Logger
}

func NewEngine(apiClient *api.Client, cache *store.Cache, sess *session.Manager, checker Checker, logger *zap.Logger) *Engine {
	return &Engine{
		api:     apiClient,
		cache:   cache,
		session: sess,
		checker: checker,
		logger:  logger,
	}
}

// SyncRestaurants pulls the full restaurant list and overwrites the
// cached rows. Last full fetch wins; a transport error aborts the pass
// and leaves the prior rows untouched.
func (e *Engine) SyncRestaurants(ctx context.Context) bool {
	if !e.checker.Online() {
		e.logger.Warn("Cannot sync restaurants, offline")
		return false
	}

	restaurants, err := e.api.ListRestaurants(ctx)
	if err != nil {
		e.logger.Error("Failed to sync restaurants", zap.Error(err))
		return false
	}

	now := models.NowMillis()
	records := make([]models.RestaurantRecord, len(restaurants))
	for i, r := range restaurants {
		records[i] = models.RestaurantRecord{
			ID:          r.ID,
			Name:        r.Name,
			Cuisine:     r.Cuisine,
			DeliveryFee: r.DeliveryFee,
			AvgMinutes:  r.AvgMinutes,
			Rating:      r.Rating,
			ImageURL:    r.ImageURL,
			Synced:      true,
			LastUpdated: now,
		}
	}

	if err := e.cache.ReplaceRestaurants(ctx, records); err != nil {
		e.logger.Error("Failed to store restaurants", zap.Error(err))
		return false
	}

	e.logger.Info("Restaurant sync completed", zap.Int("count", len(records)))
	return true
}

// SyncMenu pulls the menu of one restaurant, same shape as the
// restaurant pass scoped by an equality filter.
func (e *Engine) SyncMenu(ctx context.Context, restaurantID string) bool {
	if !e.checker.Online() {
		e.logger.Warn("Cannot sync menu, offline", zap.String("restaurant_id", restaurantID))
		return false
	}

	items, err := e.api.ListMenu(ctx, restaurantID)
	if err != nil {
		e.logger.Error("Failed to sync menu",
			zap.String("restaurant_id", restaurantID), zap.Error(err))
		return false
	}

	now := models.NowMillis()
	records := make([]models.MenuItemRecord, len(items))
	for i, item := range items {
		records[i] = models.MenuItemRecord{
			ID:           item.ID,
			RestaurantID: item.RestaurantID,
			Name:         item.Name,
			Description:  item.Description,
			Price:        item.Price,
			ImageURL:     item.ImageURL,
			Category:     item.Category,
			Synced:       true,
			LastUpdated:  now,
		}
	}

	if err := e.cache.ReplaceMenuItems(ctx, records); err != nil {
		e.logger.Error("Failed to store menu items", zap.Error(err))
		return false
	}

	e.logger.Info("Menu sync completed",
		zap.String("restaurant_id", restaurantID), zap.Int("count", len(records)))
	return true
}

// SyncPendingOrders uploads queued orders one at a time. A failure on
// one order is logged and the loop continues; the pass reports success
// as long as the pending set could be listed.
func (e *Engine) SyncPendingOrders(ctx context.Context) bool {
	if !e.checker.Online() {
		e.logger.Warn("Cannot sync pending orders, offline")
		return false
	}
	if !e.session.IsLoggedIn() {
		e.logger.Warn("Cannot sync pending orders, not logged in")
		return false
	}

	pending, err := e.cache.PendingOrders(ctx)
	if err != nil {
		e.logger.Error("Failed to list pending orders", zap.Error(err))
		return false
	}
	if len(pending) == 0 {
		e.logger.Debug("No pending orders to sync")
		return true
	}

	var uploaded, failed int
	for _, record := range pending {
		if err := e.uploadOrder(ctx, &record); err != nil {
			failed++
			e.logger.Error("Failed to sync order",
				zap.String("order_id", record.ID), zap.Error(err))
			continue
		}
		uploaded++
	}

	e.logger.Info("Pending orders sync completed",
		zap.Int("uploaded", uploaded), zap.Int("failed", failed))
	return true
}

func (e *Engine) uploadOrder(ctx context.Context, record *models.OrderRecord) error {
	items, err := record.DecodeItems()
	if err != nil {
		return err
	}

	_, err = e.api.CreateOrder(ctx, models.OrderCreate{
		UID:     record.UID,
		Items:   items,
		Total:   record.Total,
		Address: record.Address,
		Status:  record.Status,
	})
	if err != nil {
		return err
	}

	return e.cache.MarkOrderSynced(ctx, record.ID)
}

// SaveOrderOffline queues a locally created order for the next
// pending-order pass.
func (e *Engine) SaveOrderOffline(ctx context.Context, record *models.OrderRecord) error {
	record.Synced = false
	record.PendingSync = true
	record.LastUpdated = models.NowMillis()
	return e.cache.SaveOrder(ctx, record)
}
