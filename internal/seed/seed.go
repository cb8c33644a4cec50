// Package seed inserts baseline reference rows on first boot: one
// outlet, a super admin and a demo customer. Existing data is left
// alone.
package seed

import (
	"context"
	"log"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"laundry-service-api/internal/model"
	"laundry-service-api/internal/repository"
)

func Run(ctx context.Context, db *gorm.DB) error {
	var count int64
	if err := db.WithContext(ctx).Model(&model.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	userRepo := repository.NewUserRepository(db)

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		outlet := &model.Outlet{
			ID:          uuid.NewString(),
			Name:        "Central Outlet",
			Code:        "CEN",
			AddressLine: "12 Main Street",
			Phone:       "+911100220033",
		}
		if err := tx.Create(outlet).Error; err != nil {
			return err
		}

		adminHash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		admin := &model.User{
			ID:           uuid.NewString(),
			Name:         "Super Admin",
			Email:        "admin@laundry.local",
			PasswordHash: string(adminHash),
			Role:         model.RoleSuperAdmin,
		}
		if err := userRepo.CreateUser(ctx, tx, admin); err != nil {
			return err
		}

		customerHash, err := bcrypt.GenerateFromPassword([]byte("customer123"), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		customerUser := &model.User{
			ID:           uuid.NewString(),
			Name:         "Demo Customer",
			Email:        "customer@laundry.local",
			PasswordHash: string(customerHash),
			Phone:        "+911234567890",
			Role:         model.RoleCustomer,
		}
		if err := userRepo.CreateUser(ctx, tx, customerUser); err != nil {
			return err
		}

		customer := &model.Customer{
			ID:          uuid.NewString(),
			UserID:      customerUser.ID,
			AddressLine: "44 Lake Road",
			City:        "Pune",
			PostalCode:  "411001",
		}
		if err := userRepo.CreateCustomer(ctx, tx, customer); err != nil {
			return err
		}

		log.Println("seeded baseline outlet and users")
		return nil
	})
}
