package service_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"laundry-service-api/internal/client"
	"laundry-service-api/internal/model"
	"laundry-service-api/internal/notify"
	"laundry-service-api/internal/repository"
	"laundry-service-api/internal/service"
)

// newTestDB opens an in-memory database. The client pins the pool to a
// single connection, which both keeps :memory: alive and serializes
// concurrent transactions the way row locks would in MySQL.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := client.InitSqliteClient(":memory:")
	require.NoError(t, err)

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	return db
}

type fixture struct {
	db             *gorm.DB
	orderRepo      repository.OrderRepository
	paymentRepo    repository.PaymentRepository
	membershipRepo repository.MembershipRepository
	userRepo       repository.UserRepository

	orders      service.OrderService
	payments    service.PaymentService
	memberships service.MembershipService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := newTestDB(t)
	orderRepo := repository.NewOrderRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)
	userRepo := repository.NewUserRepository(db)

	return &fixture{
		db:             db,
		orderRepo:      orderRepo,
		paymentRepo:    paymentRepo,
		membershipRepo: membershipRepo,
		userRepo:       userRepo,
		orders:         service.NewOrderService(db, orderRepo, membershipRepo),
		payments:       service.NewPaymentService(db, paymentRepo, orderRepo, membershipRepo, userRepo, notify.LogNotifier{}),
		memberships:    service.NewMembershipService(db, membershipRepo, paymentRepo),
	}
}

func (f *fixture) seedCustomer(t *testing.T) *model.Customer {
	t.Helper()

	user := &model.User{
		ID:           uuid.NewString(),
		Name:         "Test Customer",
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "x",
		Phone:        "+911234567890",
		Role:         model.RoleCustomer,
	}
	require.NoError(t, f.db.Create(user).Error)

	customer := &model.Customer{
		ID:     uuid.NewString(),
		UserID: user.ID,
	}
	require.NoError(t, f.db.Create(customer).Error)

	return customer
}

func (f *fixture) seedOutlet(t *testing.T) *model.Outlet {
	t.Helper()

	outlet := &model.Outlet{
		ID:   uuid.NewString(),
		Name: "Test Outlet",
		Code: uuid.NewString()[:8],
	}
	require.NoError(t, f.db.Create(outlet).Error)

	return outlet
}

func (f *fixture) seedOrder(t *testing.T, customerID string, status model.OrderStatus) *model.Order {
	t.Helper()

	outlet := f.seedOutlet(t)
	order := &model.Order{
		ID:          uuid.NewString(),
		OrderNumber: "LND-TEST-" + uuid.NewString()[:8],
		CustomerID:  customerID,
		OutletID:    outlet.ID,
		Status:      status,
		TotalAmount: decimal.NewFromInt(100),
	}
	require.NoError(t, f.db.Create(order).Error)
	require.NoError(t, f.db.Create(&model.OrderStatusLog{
		OrderID: order.ID,
		Status:  status,
	}).Error)

	return order
}

func (f *fixture) seedMembership(t *testing.T, customerID string, cycle model.BillingCycle) *model.CustomerMembership {
	t.Helper()

	membership := &model.CustomerMembership{
		ID:           uuid.NewString(),
		CustomerID:   customerID,
		PlanID:       "plan-plus",
		Status:       model.MembershipPending,
		BillingCycle: cycle,
	}
	require.NoError(t, f.db.Create(membership).Error)

	return membership
}

func (f *fixture) seedOrderPayment(t *testing.T, customerID, orderID string, status model.PaymentStatus) *model.Payment {
	t.Helper()

	payment := &model.Payment{
		ID:         uuid.NewString(),
		OrderID:    &orderID,
		CustomerID: customerID,
		Amount:     decimal.NewFromInt(100),
		Method:     "upi",
		Status:     status,
	}
	require.NoError(t, f.db.Create(payment).Error)

	return payment
}

func (f *fixture) seedMembershipPayment(t *testing.T, customerID, membershipID string) *model.Payment {
	t.Helper()

	payment := &model.Payment{
		ID:           uuid.NewString(),
		MembershipID: &membershipID,
		CustomerID:   customerID,
		Amount:       decimal.NewFromInt(3999),
		Method:       "bank_transfer",
		Status:       model.PaymentPending,
	}
	require.NoError(t, f.db.Create(payment).Error)

	return payment
}

func (f *fixture) seedMembershipTransaction(t *testing.T, membershipID, paymentID string) {
	t.Helper()

	require.NoError(t, f.db.Create(&model.MembershipTransaction{
		MembershipID: membershipID,
		PaymentID:    paymentID,
		PlanID:       "plan-plus",
		BillingCycle: model.BillingYearly,
		Amount:       decimal.NewFromInt(3999),
		Status:       model.PaymentPending,
	}).Error)
}

var adminActor = service.Actor{UserID: uuid.NewString(), Role: model.RoleAdmin}

func staffActor() service.Actor {
	return service.Actor{UserID: uuid.NewString(), Role: model.RoleStaff}
}
