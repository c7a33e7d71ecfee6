// Package cart is the in-memory cart and pricing model. A Cart is a
// plain instance, constructed once and injected wherever it is needed.
package cart

import (
	"sync"

	"github.com/example/quickbite/pkg/models"
)

// DeliveryFee is the flat fee charged on any non-empty cart.
const DeliveryFee = 20.0

// Line is one cart entry. Two lines never share the same
// (item id, note) pair; adding the same pair merges quantities.
type Line struct {
	Item     models.MenuItem
	Quantity int
	Note     string
}

type Cart struct {
	mu    sync.Mutex
	lines []Line
}

func New() *Cart {
	return &Cart{}
}

// Add appends a line or, when a line with the same (item id, note)
// already exists, increments its quantity. Quantities below 1 count
// as 1.
func (c *Cart) Add(item models.MenuItem, qty int, note string) {
	if qty < 1 {
		qty = 1
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.find(item.ID, note); i >= 0 {
		c.lines[i].Quantity += qty
		return
	}
	c.lines = append(c.lines, Line{Item: item, Quantity: qty, Note: note})
}

// Increment raises the quantity of the line identified by the full
// (item id, note) key. Missing line is a no-op.
func (c *Cart) Increment(itemID, note string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.find(itemID, note); i >= 0 {
		c.lines[i].Quantity++
	}
}

// Decrement lowers the quantity, removing the line when it reaches
// zero. Missing line is a no-op.
func (c *Cart) Decrement(itemID, note string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.find(itemID, note)
	if i < 0 {
		return
	}
	c.lines[i].Quantity--
	if c.lines[i].Quantity <= 0 {
		c.removeAt(i)
	}
}

// Remove deletes the line outright regardless of quantity.
func (c *Cart) Remove(itemID, note string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.find(itemID, note); i >= 0 {
		c.removeAt(i)
	}
}

func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}

// Lines returns a copy, in insertion order.
func (c *Cart) Lines() []Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) IsEmpty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines) == 0
}

// Total is the subtotal: sum of unit price times quantity.
func (c *Cart) Total() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	var total float64
	for _, l := range c.lines {
		total += l.Item.Price * float64(l.Quantity)
	}
	return total
}

// Fee returns the delivery fee: the flat constant when the cart is
// non-empty, zero otherwise.
func (c *Cart) Fee() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.lines) == 0 {
		return 0
	}
	return DeliveryFee
}

func (c *Cart) GrandTotal() float64 {
	return c.Total() + c.Fee()
}

// Snapshot freezes the current lines into order items for checkout.
func (c *Cart) Snapshot() []models.OrderItem {
	lines := c.Lines()
	items := make([]models.OrderItem, len(lines))
	for i, l := range lines {
		items[i] = models.OrderItem{
			ID:       l.Item.ID,
			Name:     l.Item.Name,
			Price:    l.Item.Price,
			Quantity: l.Quantity,
			Note:     l.Note,
		}
	}
	return items
}

// find and removeAt require c.mu held.

func (c *Cart) find(itemID, note string) int {
	for i, l := range c.lines {
		if l.Item.ID == itemID && l.Note == note {
			return i
		}
	}
	return -1
}

func (c *Cart) removeAt(i int) {
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
}
