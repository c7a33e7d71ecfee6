// Package order implements the client view of the order lifecycle:
// creating an order from the cart (online, or queued locally when
// offline) and tracking it until delivery.
package order

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/example/quickbite/pkg/api"
	"github.com/example/quickbite/pkg/cart"
	"github.com/example/quickbite/pkg/models"
	"github.com/example/quickbite/pkg/push"
	"github.com/example/quickbite/pkg/session"
	"github.com/example/quickbite/pkg/sync"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Validation failures raised before any network call.
var (
	ErrNotLoggedIn  = errors.New("not logged in")
	ErrEmptyAddress = errors.New("delivery address is required")
	ErrEmptyCart    = errors.New("cart is empty")
)

type Checkout struct {
	api      *api.Client
	cart     *cart.Cart
	session  *session.Manager
	engine   *sync.Engine
	checker  sync.Checker
	notifier push.Notifier
	logger   *zap.Logger
}

func NewCheckout(apiClient *api.Client, c *cart.Cart, sess *session.Manager, engine *sync.Engine, checker sync.Checker, notifier push.Notifier, logger *zap.Logger) *Checkout {
	return &Checkout{
		api:      apiClient,
		cart:     c,
		session:  sess,
		engine:   engine,
		checker:  checker,
		notifier: notifier,
		logger:   logger,
	}
}

// PlaceOrder freezes the cart into an order and submits it. Online,
// the order goes straight to the backend; offline, it is queued
// locally with a pending flag for the next sync pass. The cart is
// cleared only after the order is safely submitted or queued.
func (c *Checkout) PlaceOrder(ctx context.Context, address, promo string) (*models.OrderResponse, error) {
	uid := c.session.UserID()
	if uid == "" {
		return nil, ErrNotLoggedIn
	}
	if strings.TrimSpace(address) == "" {
		return nil, ErrEmptyAddress
	}
	if c.cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	items := c.cart.Snapshot()
	subtotal := c.cart.Total()
	discount := cart.Discount(promo, subtotal)
	total := cart.FinalTotal(subtotal, discount, c.cart.Fee())

	create := models.OrderCreate{
		UID:     uid,
		Items:   items,
		Total:   total,
		Address: address,
		Status:  models.StatusConfirmed,
	}

	if !c.checker.Online() {
		return c.placeOffline(ctx, create)
	}

	inserted, err := c.api.CreateOrder(ctx, create)
	if err != nil {
		return nil, friendlyOrderError(err)
	}

	c.logger.Info("Order created",
		zap.String("order_id", inserted.ID),
		zap.Float64("total", inserted.Total))
	c.notifier.Notify("Order confirmed",
		fmt.Sprintf("Your order is confirmed. Total %.2f", inserted.Total),
		inserted.ID)
	c.cart.Clear()
	return inserted, nil
}

// placeOffline stores the order locally with a pending flag; the sync
// engine uploads it once connectivity returns.
func (c *Checkout) placeOffline(ctx context.Context, create models.OrderCreate) (*models.OrderResponse, error) {
	itemsJSON, err := models.EncodeItems(create.Items)
	if err != nil {
		return nil, fmt.Errorf("failed to encode order items: %w", err)
	}

	record := &models.OrderRecord{
		ID:        uuid.NewString(),
		UID:       create.UID,
		Items:     itemsJSON,
		Total:     create.Total,
		Address:   create.Address,
		Status:    create.Status,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := c.engine.SaveOrderOffline(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to queue order locally: %w", err)
	}

	c.logger.Info("Order queued offline", zap.String("order_id", record.ID))
	c.notifier.Notify("Order queued",
		"You are offline. Your order will be placed when connection returns.",
		record.ID)
	c.cart.Clear()

	return &models.OrderResponse{
		ID:        record.ID,
		UID:       record.UID,
		Items:     create.Items,
		Total:     record.Total,
		Address:   record.Address,
		Status:    record.Status,
		CreatedAt: record.CreatedAt,
	}, nil
}

// friendlyOrderError surfaces the raw backend body, with a friendlier
// lead-in for a conflict status.
func friendlyOrderError(err error) error {
	apiErr, ok := api.AsError(err)
	if !ok {
		return err
	}
	if apiErr.Status == http.StatusConflict {
		msg := "Order conflict (409). Please review items/address and try again."
		if apiErr.Body != "" {
			msg += "\n" + apiErr.Body
		}
		return errors.New(msg)
	}
	if apiErr.Body != "" {
		return errors.New(apiErr.Body)
	}
	return apiErr
}
