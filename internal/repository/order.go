package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"laundry-service-api/internal/apperror"
	"laundry-service-api/internal/model"
)

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, order *model.Order) error
	CreateItems(ctx context.Context, tx *gorm.DB, items []*model.OrderItem) error
	FindByID(ctx context.Context, tx *gorm.DB, orderID string) (*model.Order, error)
	FindByIDFull(ctx context.Context, orderID string) (*model.Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]*model.Order, error)
	ListByOutlet(ctx context.Context, outletID string) ([]*model.Order, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, orderID string, updates map[string]interface{}) error
	AppendStatusLog(ctx context.Context, tx *gorm.DB, entry *model.OrderStatusLog) error
	StatusHistory(ctx context.Context, orderID string) ([]*model.OrderStatusLog, error)
	CountForDay(ctx context.Context, tx *gorm.DB, dayPrefix string) (int64, error)
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{
		db: db,
	}
}

func (r *orderRepoImpl) Create(ctx context.Context, tx *gorm.DB, order *model.Order) error {
	return tx.WithContext(ctx).Create(order).Error
}

func (r *orderRepoImpl) CreateItems(ctx context.Context, tx *gorm.DB, items []*model.OrderItem) error {
	return tx.WithContext(ctx).Create(&items).Error
}

func (r *orderRepoImpl) FindByID(ctx context.Context, tx *gorm.DB, orderID string) (*model.Order, error) {
	var order model.Order
	err := tx.WithContext(ctx).
		Where("id = ?", orderID).
		First(&order).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	return &order, nil
}

// FindByIDFull loads an order with items, outlet, payments and the
// ordered status history for API responses.
func (r *orderRepoImpl) FindByIDFull(ctx context.Context, orderID string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Outlet").
		Preload("Payments").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Where("id = ?", orderID).
		First(&order).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) ListByCustomer(ctx context.Context, customerID string) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&orders).Error

	if err != nil {
		return nil, err
	}

	return orders, nil
}

// ListByOutlet lists orders for one outlet; an empty outletID lists
// across all outlets.
func (r *orderRepoImpl) ListByOutlet(ctx context.Context, outletID string) ([]*model.Order, error) {
	query := r.db.WithContext(ctx).
		Preload("Items").
		Order("created_at DESC")
	if outletID != "" {
		query = query.Where("outlet_id = ?", outletID)
	}

	var orders []*model.Order
	err := query.Find(&orders).Error

	if err != nil {
		return nil, err
	}

	return orders, nil
}

func (r *orderRepoImpl) UpdateStatus(ctx context.Context, tx *gorm.DB, orderID string, updates map[string]interface{}) error {
	result := tx.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Updates(updates)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperror.ErrNotFound
	}

	return nil
}

func (r *orderRepoImpl) AppendStatusLog(ctx context.Context, tx *gorm.DB, entry *model.OrderStatusLog) error {
	return tx.WithContext(ctx).Create(entry).Error
}

func (r *orderRepoImpl) StatusHistory(ctx context.Context, orderID string) ([]*model.OrderStatusLog, error) {
	var entries []*model.OrderStatusLog
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("id ASC").
		Find(&entries).Error

	if err != nil {
		return nil, err
	}

	return entries, nil
}

// CountForDay counts orders whose number carries the given day prefix,
// used to derive the next sequence in the order number.
func (r *orderRepoImpl) CountForDay(ctx context.Context, tx *gorm.DB, dayPrefix string) (int64, error) {
	var count int64
	err := tx.WithContext(ctx).Model(&model.Order{}).
		Where("order_number LIKE ?", dayPrefix+"%").
		Count(&count).Error

	return count, err
}
