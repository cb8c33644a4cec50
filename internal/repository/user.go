package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"laundry-service-api/internal/apperror"
	"laundry-service-api/internal/model"
)

type UserRepository interface {
	CreateUser(ctx context.Context, tx *gorm.DB, user *model.User) error
	CreateCustomer(ctx context.Context, tx *gorm.DB, customer *model.Customer) error
	FindUserByEmail(ctx context.Context, email string) (*model.User, error)
	FindUserByID(ctx context.Context, userID string) (*model.User, error)
	FindCustomerByUserID(ctx context.Context, userID string) (*model.Customer, error)
	FindCustomerByID(ctx context.Context, customerID string) (*model.Customer, error)
}

type userRepoImpl struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepoImpl{
		db: db,
	}
}

func (r *userRepoImpl) CreateUser(ctx context.Context, tx *gorm.DB, user *model.User) error {
	return tx.WithContext(ctx).Create(user).Error
}

func (r *userRepoImpl) CreateCustomer(ctx context.Context, tx *gorm.DB, customer *model.Customer) error {
	return tx.WithContext(ctx).Create(customer).Error
}

func (r *userRepoImpl) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	return &user, nil
}

func (r *userRepoImpl) FindUserByID(ctx context.Context, userID string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("id = ?", userID).
		First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	return &user, nil
}

func (r *userRepoImpl) FindCustomerByUserID(ctx context.Context, userID string) (*model.Customer, error) {
	var customer model.Customer
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		First(&customer).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	return &customer, nil
}

func (r *userRepoImpl) FindCustomerByID(ctx context.Context, customerID string) (*model.Customer, error) {
	var customer model.Customer
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("id = ?", customerID).
		First(&customer).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrNotFound
		}
		return nil, err
	}

	return &customer, nil
}
