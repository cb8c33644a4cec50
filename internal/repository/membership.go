package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"laundry-service-api/internal/apperror"
	"laundry-service-api/internal/model"
)

type MembershipRepository interface {
	FindByID(ctx context.Context, tx *gorm.DB, membershipID string) (*model.CustomerMembership, error)
	FindByCustomerAndPlan(ctx context.Context, tx *gorm.DB, customerID, planID string) (*model.CustomerMembership, error)
	ListByCustomer(ctx context.Context, customerID string) ([]*model.CustomerMembership, error)
	FindActiveByCustomer(ctx context.Context, customerID string, at time.Time) (*model.CustomerMembership, error)
	Create(ctx context.Context, tx *gorm.DB, membership *model.CustomerMembership) error
	Save(ctx context.Context, tx *gorm.DB, membership *model.CustomerMembership) error
	Activate(ctx context.Context, tx *gorm.DB, membershipID string, start, expiry time.Time) error
	CreateTransaction(ctx context.Context, tx *gorm.DB, mt *model.MembershipTransaction) error
	ListTransactions(ctx context.Context, membershipID string) ([]*model.MembershipTransaction, error)
	// ClosePendingTransactions flips every pending transaction of the
	// membership to the given status. All of them close, not just the
	// most recent.
	ClosePendingTransactions(ctx context.Context, tx *gorm.DB, membershipID string, status model.PaymentStatus) error
}

type membershipRepoImpl struct {
	db *gorm.DB
}

func NewMembershipRepository(db *gorm.DB) MembershipRepository {
	return &membershipRepoImpl{
		db: db,
	}
}

func (r *membershipRepoImpl) FindByID(ctx context.Context, tx *gorm.DB, membershipID string) (*model.CustomerMembership, error) {
	var membership model.CustomerMembership
	err := tx.WithContext(ctx).
		Where("id = ?", membershipID).
		First(&membership).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	return &membership, nil
}

func (r *membershipRepoImpl) FindByCustomerAndPlan(ctx context.Context, tx *gorm.DB, customerID, planID string) (*model.CustomerMembership, error) {
	var membership model.CustomerMembership
	err := tx.WithContext(ctx).
		Where("customer_id = ? AND plan_id = ?", customerID, planID).
		First(&membership).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	return &membership, nil
}

func (r *membershipRepoImpl) ListByCustomer(ctx context.Context, customerID string) ([]*model.CustomerMembership, error) {
	var memberships []*model.CustomerMembership
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&memberships).Error

	if err != nil {
		return nil, err
	}

	return memberships, nil
}

func (r *membershipRepoImpl) FindActiveByCustomer(ctx context.Context, customerID string, at time.Time) (*model.CustomerMembership, error) {
	var membership model.CustomerMembership
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND status = ? AND expiry_date > ?", customerID, model.MembershipActive, at).
		First(&membership).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	return &membership, nil
}

func (r *membershipRepoImpl) Create(ctx context.Context, tx *gorm.DB, membership *model.CustomerMembership) error {
	return tx.WithContext(ctx).Create(membership).Error
}

func (r *membershipRepoImpl) Save(ctx context.Context, tx *gorm.DB, membership *model.CustomerMembership) error {
	return tx.WithContext(ctx).Save(membership).Error
}

func (r *membershipRepoImpl) Activate(ctx context.Context, tx *gorm.DB, membershipID string, start, expiry time.Time) error {
	result := tx.WithContext(ctx).
		Model(&model.CustomerMembership{}).
		Where("id = ?", membershipID).
		Updates(map[string]interface{}{
			"status":      model.MembershipActive,
			"start_date":  start,
			"expiry_date": expiry,
			"updated_at":  start,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperror.ErrNotFound
	}

	return nil
}

func (r *membershipRepoImpl) CreateTransaction(ctx context.Context, tx *gorm.DB, mt *model.MembershipTransaction) error {
	return tx.WithContext(ctx).Create(mt).Error
}

func (r *membershipRepoImpl) ListTransactions(ctx context.Context, membershipID string) ([]*model.MembershipTransaction, error) {
	var transactions []*model.MembershipTransaction
	err := r.db.WithContext(ctx).
		Where("membership_id = ?", membershipID).
		Order("id ASC").
		Find(&transactions).Error

	if err != nil {
		return nil, err
	}

	return transactions, nil
}

func (r *membershipRepoImpl) ClosePendingTransactions(ctx context.Context, tx *gorm.DB, membershipID string, status model.PaymentStatus) error {
	return tx.WithContext(ctx).
		Model(&model.MembershipTransaction{}).
		Where("membership_id = ? AND status = ?", membershipID, model.PaymentPending).
		Update("status", status).Error
}
