package store

import (
	"context"
	"fmt"

	"github.com/example/quickbite/pkg/config"
	"github.com/example/quickbite/pkg/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// Cache is the local relational store for the four offline
// collections. Writes are insert-or-replace keyed by primary id;
// concurrent writers rely on sqlite's own write serialization. There
// are no foreign keys between collections.
type Cache struct {
	db     *gorm.DB
	notify *notifier
}

func OpenCache(cfg *config.CacheConfig) (*Cache, error) {
	db, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open cache at %s: %w", cfg.Path, err)
	}

	if err := db.AutoMigrate(
		&models.RestaurantRecord{},
		&models.MenuItemRecord{},
		&models.OrderRecord{},
		&models.CartLineRecord{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate cache schema: %w", err)
	}

	return &Cache{
		db:     db,
		notify: newNotifier(),
	}, nil
}

func (c *Cache) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Restaurants

// ReplaceRestaurants bulk-upserts the full remote list. Last full
// fetch wins per row; there is no diffing.
func (c *Cache) ReplaceRestaurants(ctx context.Context, rows []models.RestaurantRecord) error {
	if len(rows) == 0 {
		return nil
	}
	err := c.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&rows).Error
	if err != nil {
		return fmt.Errorf("failed to store restaurants: %w", err)
	}
	c.notify.signal(topicRestaurants)
	return nil
}

func (c *Cache) Restaurants(ctx context.Context) ([]models.RestaurantRecord, error) {
	var rows []models.RestaurantRecord
	if err := c.db.WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Cache) RestaurantByID(ctx context.Context, id string) (*models.RestaurantRecord, error) {
	var row models.RestaurantRecord
	if err := c.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (c *Cache) DeleteAllRestaurants(ctx context.Context) error {
	if err := c.db.WithContext(ctx).Where("1 = 1").Delete(&models.RestaurantRecord{}).Error; err != nil {
		return err
	}
	c.notify.signal(topicRestaurants)
	return nil
}

// Menu items

func (c *Cache) ReplaceMenuItems(ctx context.Context, rows []models.MenuItemRecord) error {
	if len(rows) == 0 {
		return nil
	}
	err := c.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&rows).Error
	if err != nil {
		return fmt.Errorf("failed to store menu items: %w", err)
	}
	c.notify.signal(topicMenu)
	return nil
}

func (c *Cache) MenuItemsByRestaurant(ctx context.Context, restaurantID string) ([]models.MenuItemRecord, error) {
	var rows []models.MenuItemRecord
	err := c.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Order("name").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Cache) MenuItemByID(ctx context.Context, id string) (*models.MenuItemRecord, error) {
	var row models.MenuItemRecord
	if err := c.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (c *Cache) DeleteAllMenuItems(ctx context.Context) error {
	if err := c.db.WithContext(ctx).Where("1 = 1").Delete(&models.MenuItemRecord{}).Error; err != nil {
		return err
	}
	c.notify.signal(topicMenu)
	return nil
}

// Orders

func (c *Cache) SaveOrder(ctx context.Context, row *models.OrderRecord) error {
	err := c.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(row).Error
	if err != nil {
		return fmt.Errorf("failed to store order %s: %w", row.ID, err)
	}
	c.notify.signal(topicOrders)
	return nil
}

func (c *Cache) OrderByID(ctx context.Context, id string) (*models.OrderRecord, error) {
	var row models.OrderRecord
	if err := c.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (c *Cache) OrdersByUser(ctx context.Context, uid string) ([]models.OrderRecord, error) {
	var rows []models.OrderRecord
	err := c.db.WithContext(ctx).
		Where("uid = ?", uid).
		Order("created_at desc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// PendingOrders lists rows still waiting to be uploaded.
func (c *Cache) PendingOrders(ctx context.Context) ([]models.OrderRecord, error) {
	var rows []models.OrderRecord
	if err := c.db.WithContext(ctx).Where("pending_sync = ?", true).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// MarkOrderSynced flips a pending order to synced in a single UPDATE,
// so the row is never observable as both synced and pending.
func (c *Cache) MarkOrderSynced(ctx context.Context, id string) error {
	err := c.db.WithContext(ctx).
		Model(&models.OrderRecord{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"synced":       true,
			"pending_sync": false,
			"last_updated": models.NowMillis(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to mark order %s synced: %w", id, err)
	}
	c.notify.signal(topicOrders)
	return nil
}

// Cart lines

func (c *Cache) SaveCartLine(ctx context.Context, row *models.CartLineRecord) error {
	if err := c.db.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("failed to store cart line: %w", err)
	}
	return nil
}

func (c *Cache) CartLines(ctx context.Context) ([]models.CartLineRecord, error) {
	var rows []models.CartLineRecord
	if err := c.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Cache) ClearCart(ctx context.Context) error {
	return c.db.WithContext(ctx).Where("1 = 1").Delete(&models.CartLineRecord{}).Error
}
