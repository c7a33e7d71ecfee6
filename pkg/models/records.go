package models

import (
	"encoding/json"
	"time"
)

// Local cache records. Each remote-backed record carries a synced flag
// and a last-update timestamp (unix millis, matching the backend's
// ordering granularity). There are no foreign keys between the four
// tables; cross-table consistency is the sync engine's job.

type RestaurantRecord struct {
	ID          string   `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name        string   `gorm:"not null" json:"name"`
	Cuisine     string   `json:"cuisine"`
	DeliveryFee *float64 `json:"delivery_fee"`
	AvgMinutes  *int     `json:"avg_minutes"`
	Rating      *float64 `json:"rating"`
	ImageURL    *string  `json:"image_url"`
	Synced      bool     `json:"synced"`
	LastUpdated int64    `json:"last_updated"`
}

func (RestaurantRecord) TableName() string {
	return "restaurants"
}

type MenuItemRecord struct {
	ID           string  `gorm:"primaryKey;type:varchar(36)" json:"id"`
	RestaurantID string  `gorm:"type:varchar(36);index" json:"restaurant_id"`
	Name         string  `gorm:"not null" json:"name"`
	Description  string  `json:"description"`
	Price        float64 `json:"price"`
	ImageURL     *string `json:"image_url"`
	Category     *string `json:"category"`
	Synced       bool    `json:"synced"`
	LastUpdated  int64   `json:"last_updated"`
}

func (MenuItemRecord) TableName() string {
	return "menu_items"
}

// OrderRecord stores the order items as a JSON string so the cached
// row round-trips through the backend without a schema for items.
// Invariant: PendingSync implies !Synced.
type OrderRecord struct {
	ID          string  `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UID         string  `gorm:"type:varchar(36);index" json:"uid"`
	Items       string  `gorm:"type:text" json:"items"`
	Total       float64 `json:"total"`
	Address     string  `json:"address"`
	Status      string  `gorm:"type:varchar(32)" json:"status"`
	CreatedAt   string  `json:"created_at"`
	Synced      bool    `json:"synced"`
	PendingSync bool    `gorm:"index" json:"pending_sync"`
	LastUpdated int64   `json:"last_updated"`
}

func (OrderRecord) TableName() string {
	return "orders"
}

// DecodeItems parses the serialized item blob. A malformed blob is an
// error for the caller to skip, not a reason to drop the row.
func (o *OrderRecord) DecodeItems() ([]OrderItem, error) {
	var items []OrderItem
	if err := json.Unmarshal([]byte(o.Items), &items); err != nil {
		return nil, err
	}
	return items, nil
}

// EncodeItems serializes order items for the Items column.
func EncodeItems(items []OrderItem) (string, error) {
	data, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// CartLineRecord persists a cart line across restarts. The surrogate
// key is auto-assigned; (ItemID, Note) is the logical identity.
type CartLineRecord struct {
	ID           uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	ItemID       string  `gorm:"type:varchar(36)" json:"item_id"`
	RestaurantID string  `gorm:"type:varchar(36)" json:"restaurant_id"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	Quantity     int     `json:"quantity"`
	Note         string  `json:"note"`
	ImageURL     *string `json:"image_url"`
	Category     *string `json:"category"`
}

func (CartLineRecord) TableName() string {
	return "cart_items"
}

// NowMillis is the timestamp written on every cache upsert.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}
