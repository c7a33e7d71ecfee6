package store

import (
	"context"
	"sync"

	"github.com/example/quickbite/pkg/models"
)

// Live reads: every Watch* stream emits a fresh snapshot immediately
// and again after each relevant write, until its context is cancelled.
// Implemented as notify-and-requery; a slow consumer coalesces signals
// instead of blocking writers.

const (
	topicRestaurants = "restaurants"
	topicMenu        = "menu"
	topicOrders      = "orders"
)

type notifier struct {
	mu   sync.Mutex
	subs map[string]map[chan struct{}]struct{}
}

func newNotifier() *notifier {
	return &notifier{subs: make(map[string]map[chan struct{}]struct{})}
}

func (n *notifier) subscribe(topic string) chan struct{} {
	ch := make(chan struct{}, 1)
	n.mu.Lock()
	if n.subs[topic] == nil {
		n.subs[topic] = make(map[chan struct{}]struct{})
	}
	n.subs[topic][ch] = struct{}{}
	n.mu.Unlock()
	return ch
}

func (n *notifier) unsubscribe(topic string, ch chan struct{}) {
	n.mu.Lock()
	delete(n.subs[topic], ch)
	n.mu.Unlock()
}

func (n *notifier) signal(topic string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for ch := range n.subs[topic] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func watch[T any](ctx context.Context, n *notifier, topic string, query func(context.Context) ([]T, error)) <-chan []T {
	out := make(chan []T, 1)
	signal := n.subscribe(topic)

	go func() {
		defer close(out)
		defer n.unsubscribe(topic, signal)
		for {
			rows, err := query(ctx)
			if err == nil {
				select {
				case out <- rows:
				case <-ctx.Done():
					return
				}
			}
			select {
			case <-signal:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

func (c *Cache) WatchRestaurants(ctx context.Context) <-chan []models.RestaurantRecord {
	return watch(ctx, c.notify, topicRestaurants, c.Restaurants)
}

func (c *Cache) WatchMenuItems(ctx context.Context, restaurantID string) <-chan []models.MenuItemRecord {
	return watch(ctx, c.notify, topicMenu, func(ctx context.Context) ([]models.MenuItemRecord, error) {
		return c.MenuItemsByRestaurant(ctx, restaurantID)
	})
}

func (c *Cache) WatchOrders(ctx context.Context, uid string) <-chan []models.OrderRecord {
	return watch(ctx, c.notify, topicOrders, func(ctx context.Context) ([]models.OrderRecord, error) {
		return c.OrdersByUser(ctx, uid)
	})
}
