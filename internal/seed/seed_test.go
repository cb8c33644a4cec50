package seed_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laundry-service-api/internal/client"
	"laundry-service-api/internal/model"
	"laundry-service-api/internal/repository"
	"laundry-service-api/internal/seed"
)

func TestRun_SeedsBaselineRows(t *testing.T) {
	db, err := client.InitSqliteClient(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	require.NoError(t, seed.Run(context.Background(), db))

	userRepo := repository.NewUserRepository(db)

	admin, err := userRepo.FindUserByEmail(context.Background(), "admin@laundry.local")
	require.NoError(t, err)
	assert.Equal(t, model.RoleSuperAdmin, admin.Role)

	customerUser, err := userRepo.FindUserByEmail(context.Background(), "customer@laundry.local")
	require.NoError(t, err)
	assert.Equal(t, model.RoleCustomer, customerUser.Role)

	customer, err := userRepo.FindCustomerByUserID(context.Background(), customerUser.ID)
	require.NoError(t, err)
	assert.Equal(t, customerUser.ID, customer.UserID)

	var outlets int64
	require.NoError(t, db.Model(&model.Outlet{}).Count(&outlets).Error)
	assert.EqualValues(t, 1, outlets)
}

func TestRun_LeavesExistingDataAlone(t *testing.T) {
	db, err := client.InitSqliteClient(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	require.NoError(t, seed.Run(context.Background(), db))
	require.NoError(t, seed.Run(context.Background(), db))

	var users int64
	require.NoError(t, db.Model(&model.User{}).Count(&users).Error)
	assert.EqualValues(t, 2, users)
}
