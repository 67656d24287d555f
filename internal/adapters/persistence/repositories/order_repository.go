package repositories

import (
	"context"

	"tefa-hub/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// orderRepository implements OrderRepository interface
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

// Put creates or fully replaces an order by id. Re-putting an unchanged
// record is a no-op as far as invariants are concerned.
func (r *orderRepository) Put(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Save(order).Error
}

// GetByID gets an order by ID
func (r *orderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Delete removes an order by ID
func (r *orderRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Order{}).Error
}

// List lists all orders, newest first
func (r *orderRepository) List(ctx context.Context) ([]*models.Order, error) {
	var orders []*models.Order
	err := r.db.WithContext(ctx).Order("created_at desc").Find(&orders).Error
	return orders, err
}

// ListByClient lists orders owned by a requester
func (r *orderRepository) ListByClient(ctx context.Context, clientID string) ([]*models.Order, error) {
	var orders []*models.Order
	err := r.db.WithContext(ctx).Where("client_id = ?", clientID).Order("created_at desc").Find(&orders).Error
	return orders, err
}

// ListByStatus lists orders in a given status
func (r *orderRepository) ListByStatus(ctx context.Context, status string) ([]*models.Order, error) {
	var orders []*models.Order
	err := r.db.WithContext(ctx).Where("status = ?", status).Order("created_at desc").Find(&orders).Error
	return orders, err
}

// Count returns the total number of orders
func (r *orderRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).Count(&count).Error
	return count, err
}
