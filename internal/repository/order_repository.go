package repository

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pedidos/orders-api/internal/models"
)

var (
	ErrOrderNotFound  = errors.New("order not found")
	ErrDuplicateOrder = errors.New("order already exists")
)

// OrderRepository defines the interface for order data access.
// Orders and their items are always read and written together.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByOrderID(ctx context.Context, orderID string) (*models.Order, error)
	List(ctx context.Context) ([]models.Order, error)
	Replace(ctx context.Context, order *models.Order) error
	Delete(ctx context.Context, orderID string) error
	Count(ctx context.Context) (int64, error)
}

// GormOrderRepository implements OrderRepository on top of gorm.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a repository bound to the given database session
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Create inserts the order and its items in one transaction.
// On success order.ID holds the surrogate key assigned by the database.
func (r *GormOrderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.withTx(ctx, func(tx *gorm.DB) error {
		exists, err := orderExists(tx, order.OrderID)
		if err != nil {
			return err
		}
		if exists {
			return ErrDuplicateOrder
		}

		if err := tx.Omit(clause.Associations).Create(order).Error; err != nil {
			if isDuplicateKey(err) {
				return ErrDuplicateOrder
			}
			return errors.Wrap(err, "insert order")
		}

		return insertItems(tx, order.OrderID, order.Items)
	})
}

// GetByOrderID returns the order with its items.
func (r *GormOrderRepository) GetByOrderID(ctx context.Context, orderID string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Preload("Items").First(&order, "order_id = ?", orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "select order %s", orderID)
	}
	normalizeItems(&order)
	return &order, nil
}

// List returns every order, most recently inserted first.
// Items are loaded with a second query and matched by order id.
func (r *GormOrderRepository) List(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Order("created_at DESC").
		Order("id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, errors.Wrap(err, "select orders")
	}

	for i := range orders {
		normalizeItems(&orders[i])
	}
	return orders, nil
}

// Replace overwrites value, creation date and the complete item set of an existing order.
func (r *GormOrderRepository) Replace(ctx context.Context, order *models.Order) error {
	return r.withTx(ctx, func(tx *gorm.DB) error {
		var current models.Order
		err := tx.Select("id", "order_id", "created_at").First(&current, "order_id = ?", order.OrderID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		if err != nil {
			return errors.Wrap(err, "select order")
		}

		err = tx.Model(&models.Order{}).
			Where("order_id = ?", order.OrderID).
			Updates(map[string]any{
				"value":         order.Value,
				"creation_date": order.CreationDate,
			}).Error
		if err != nil {
			return errors.Wrap(err, "update order")
		}

		if err := tx.Where("order_id = ?", order.OrderID).Delete(&models.Item{}).Error; err != nil {
			return errors.Wrap(err, "delete items")
		}

		if err := insertItems(tx, order.OrderID, order.Items); err != nil {
			return err
		}

		order.ID = current.ID
		order.CreatedAt = current.CreatedAt
		return nil
	})
}

// Delete removes the order; its items go with it through the cascading foreign key.
func (r *GormOrderRepository) Delete(ctx context.Context, orderID string) error {
	res := r.db.WithContext(ctx).Where("order_id = ?", orderID).Delete(&models.Order{})
	if res.Error != nil {
		return errors.Wrapf(res.Error, "delete order %s", orderID)
	}
	if res.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// Count returns the number of stored orders.
func (r *GormOrderRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Order{}).Count(&total).Error; err != nil {
		return 0, errors.Wrap(err, "count orders")
	}
	return total, nil
}

// CountItems returns the number of item rows stored for an order.
// It is not part of OrderRepository; tests use it to check that items
// were cascaded or replaced rather than left behind.
func (r *GormOrderRepository) CountItems(ctx context.Context, orderID string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Item{}).Where("order_id = ?", orderID).Count(&total).Error
	if err != nil {
		return 0, errors.Wrap(err, "count items")
	}
	return total, nil
}

func (r *GormOrderRepository) withTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func orderExists(tx *gorm.DB, orderID string) (bool, error) {
	var n int64
	if err := tx.Model(&models.Order{}).Where("order_id = ?", orderID).Count(&n).Error; err != nil {
		return false, errors.Wrap(err, "check order")
	}
	return n > 0, nil
}

func insertItems(tx *gorm.DB, orderID string, items []models.Item) error {
	if len(items) == 0 {
		return nil
	}

	rows := make([]models.Item, len(items))
	for i, item := range items {
		item.ID = 0
		item.OrderID = orderID
		rows[i] = item
	}

	if err := tx.Create(&rows).Error; err != nil {
		return errors.Wrap(err, "insert items")
	}
	return nil
}

func normalizeItems(order *models.Order) {
	if order.Items == nil {
		order.Items = []models.Item{}
	}
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
