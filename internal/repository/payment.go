package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"laundry-service-api/internal/apperror"
	"laundry-service-api/internal/model"
)

type PaymentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, payment *model.Payment) error
	AddProof(ctx context.Context, tx *gorm.DB, proof *model.PaymentProof) error
	FindByID(ctx context.Context, tx *gorm.DB, paymentID string) (*model.Payment, error)
	ListPending(ctx context.Context) ([]*model.Payment, error)
	// MarkProcessed moves a payment out of pending with a single guarded
	// update. It reports how many rows changed: zero means the payment
	// was already processed (or never existed).
	MarkProcessed(ctx context.Context, tx *gorm.DB, paymentID string, status model.PaymentStatus, verifiedBy string, notes string, at time.Time) (int64, error)
}

type paymentRepoImpl struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepoImpl{
		db: db,
	}
}

func (r *paymentRepoImpl) Create(ctx context.Context, tx *gorm.DB, payment *model.Payment) error {
	return tx.WithContext(ctx).Create(payment).Error
}

func (r *paymentRepoImpl) AddProof(ctx context.Context, tx *gorm.DB, proof *model.PaymentProof) error {
	return tx.WithContext(ctx).Create(proof).Error
}

func (r *paymentRepoImpl) FindByID(ctx context.Context, tx *gorm.DB, paymentID string) (*model.Payment, error) {
	var payment model.Payment
	err := tx.WithContext(ctx).
		Where("id = ?", paymentID).
		First(&payment).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	return &payment, nil
}

func (r *paymentRepoImpl) ListPending(ctx context.Context) ([]*model.Payment, error) {
	var payments []*model.Payment
	err := r.db.WithContext(ctx).
		Preload("Customer.User").
		Preload("Order").
		Preload("Proofs").
		Where("status = ?", model.PaymentPending).
		Order("created_at ASC").
		Find(&payments).Error

	if err != nil {
		return nil, err
	}

	return payments, nil
}

func (r *paymentRepoImpl) MarkProcessed(ctx context.Context, tx *gorm.DB, paymentID string, status model.PaymentStatus, verifiedBy string, notes string, at time.Time) (int64, error) {
	updates := map[string]interface{}{
		"status":      status,
		"verified_at": at,
		"verified_by": verifiedBy,
		"updated_at":  at,
	}
	if notes != "" {
		updates["notes"] = notes
	}

	result := tx.WithContext(ctx).Model(&model.Payment{}).
		Where("id = ? AND status = ?", paymentID, model.PaymentPending).
		Updates(updates)

	return result.RowsAffected, result.Error
}
