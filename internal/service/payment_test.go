package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laundry-service-api/internal/apperror"
	"laundry-service-api/internal/dto"
	"laundry-service-api/internal/model"
	"laundry-service-api/internal/service"
)

func TestVerifyPayment_RequiresAdminRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	customer := f.seedCustomer(t)
	order := f.seedOrder(t, customer.ID, model.OrderPending)
	payment := f.seedOrderPayment(t, customer.ID, order.ID, model.PaymentPending)

	_, err := f.payments.VerifyPayment(ctx, payment.ID, service.DecisionVerified, "", staffActor())
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	// No mutation happened.
	var got model.Payment
	require.NoError(t, f.db.First(&got, "id = ?", payment.ID).Error)
	assert.Equal(t, model.PaymentPending, got.Status)
}

func TestVerifyPayment_UnknownPayment(t *testing.T) {
	f := newFixture(t)

	_, err := f.payments.VerifyPayment(context.Background(), "missing", service.DecisionVerified, "", adminActor)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestVerifyPayment_InvalidDecision(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	customer := f.seedCustomer(t)
	order := f.seedOrder(t, customer.ID, model.OrderPending)
	payment := f.seedOrderPayment(t, customer.ID, order.ID, model.PaymentPending)

	_, err := f.payments.VerifyPayment(ctx, payment.ID, "approved", "", adminActor)

	var ve *apperror.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestVerifyPayment_AlreadyProcessed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	customer := f.seedCustomer(t)
	order := f.seedOrder(t, customer.ID, model.OrderPending)

	for _, status := range []model.PaymentStatus{model.PaymentCompleted, model.PaymentFailed, model.PaymentRefunded} {
		payment := f.seedOrderPayment(t, customer.ID, order.ID, status)

		_, err := f.payments.VerifyPayment(ctx, payment.ID, service.DecisionVerified, "", adminActor)
		assert.ErrorIs(t, err, apperror.ErrAlreadyProcessed, "status %s", status)

		var got model.Payment
		require.NoError(t, f.db.First(&got, "id = ?", payment.ID).Error)
		assert.Equal(t, status, got.Status, "payment must not be mutated")
		assert.Nil(t, got.VerifiedAt)
	}

	// Order untouched throughout.
	var gotOrder model.Order
	require.NoError(t, f.db.First(&gotOrder, "id = ?", order.ID).Error)
	assert.Equal(t, model.OrderPending, gotOrder.Status)
}

func TestVerifyPayment_OrderTarget_ConfirmsAndAppendsHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	customer := f.seedCustomer(t)
	order := f.seedOrder(t, customer.ID, model.OrderPending)
	payment := f.seedOrderPayment(t, customer.ID, order.ID, model.PaymentPending)

	before, err := f.orderRepo.StatusHistory(ctx, order.ID)
	require.NoError(t, err)

	got, err := f.payments.VerifyPayment(ctx, payment.ID, service.DecisionVerified, "looks good", adminActor)
	require.NoError(t, err)

	assert.Equal(t, model.PaymentCompleted, got.Status)
	require.NotNil(t, got.VerifiedAt)
	require.NotNil(t, got.VerifiedBy)
	assert.Equal(t, adminActor.UserID, *got.VerifiedBy)
	assert.Equal(t, "looks good", got.Notes)

	var gotOrder model.Order
	require.NoError(t, f.db.First(&gotOrder, "id = ?", order.ID).Error)
	assert.Equal(t, model.OrderConfirmed, gotOrder.Status)

	after, err := f.orderRepo.StatusHistory(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, after, len(before)+1, "exactly one new history entry")

	// Prior entries unchanged and in order.
	for i, entry := range before {
		assert.Equal(t, entry.ID, after[i].ID)
		assert.Equal(t, entry.Status, after[i].Status)
	}

	last := after[len(after)-1]
	assert.Equal(t, model.OrderConfirmed, last.Status)
	assert.Equal(t, "Payment verified by admin", last.Note)
	assert.Equal(t, adminActor.UserID, last.UpdatedBy)
}

func TestVerifyPayment_MembershipTarget_Yearly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	customer := f.seedCustomer(t)
	membership := f.seedMembership(t, customer.ID, model.BillingYearly)
	payment := f.seedMembershipPayment(t, customer.ID, membership.ID)
	f.seedMembershipTransaction(t, membership.ID, payment.ID)
	// A second stale pending transaction must close too.
	f.seedMembershipTransaction(t, membership.ID, payment.ID)

	got, err := f.payments.VerifyPayment(ctx, payment.ID, service.DecisionVerified, "", adminActor)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentCompleted, got.Status)

	var gotMembership model.CustomerMembership
	require.NoError(t, f.db.First(&gotMembership, "id = ?", membership.ID).Error)
	assert.Equal(t, model.MembershipActive, gotMembership.Status)
	require.NotNil(t, gotMembership.StartDate)
	require.NotNil(t, gotMembership.ExpiryDate)
	require.WithinDuration(t, time.Now(), *gotMembership.StartDate, time.Minute)
	require.WithinDuration(t, gotMembership.StartDate.AddDate(1, 0, 0), *gotMembership.ExpiryDate, 24*time.Hour)

	transactions, err := f.membershipRepo.ListTransactions(ctx, membership.ID)
	require.NoError(t, err)
	require.Len(t, transactions, 2)
	for _, mt := range transactions {
		assert.Equal(t, model.PaymentCompleted, mt.Status, "all pending transactions close")
	}
}

func TestVerifyPayment_MembershipTarget_Monthly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	customer := f.seedCustomer(t)
	membership := f.seedMembership(t, customer.ID, model.BillingMonthly)
	payment := f.seedMembershipPayment(t, customer.ID, membership.ID)
	f.seedMembershipTransaction(t, membership.ID, payment.ID)

	_, err := f.payments.VerifyPayment(ctx, payment.ID, service.DecisionVerified, "", adminActor)
	require.NoError(t, err)

	var gotMembership model.CustomerMembership
	require.NoError(t, f.db.First(&gotMembership, "id = ?", membership.ID).Error)
	require.NotNil(t, gotMembership.StartDate)
	require.NotNil(t, gotMembership.ExpiryDate)
	require.WithinDuration(t, gotMembership.StartDate.AddDate(0, 1, 0), *gotMembership.ExpiryDate, 24*time.Hour)
}

func TestVerifyPayment_Rejected_LeavesTargetUntouched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	customer := f.seedCustomer(t)
	membership := f.seedMembership(t, customer.ID, model.BillingYearly)
	payment := f.seedMembershipPayment(t, customer.ID, membership.ID)
	f.seedMembershipTransaction(t, membership.ID, payment.ID)

	got, err := f.payments.VerifyPayment(ctx, payment.ID, service.DecisionRejected, "proof unreadable", adminActor)
	require.NoError(t, err)

	assert.Equal(t, model.PaymentFailed, got.Status)
	require.NotNil(t, got.VerifiedAt)
	assert.Equal(t, "proof unreadable", got.Notes)

	// Membership and its transactions keep their prior state so the
	// customer can retry with a fresh payment.
	var gotMembership model.CustomerMembership
	require.NoError(t, f.db.First(&gotMembership, "id = ?", membership.ID).Error)
	assert.Equal(t, model.MembershipPending, gotMembership.Status)
	assert.Nil(t, gotMembership.StartDate)
	assert.Nil(t, gotMembership.ExpiryDate)

	transactions, err := f.membershipRepo.ListTransactions(ctx, membership.ID)
	require.NoError(t, err)
	require.Len(t, transactions, 1)
	assert.Equal(t, model.PaymentPending, transactions[0].Status)
}

func TestVerifyPayment_Rejected_OrderUntouched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	customer := f.seedCustomer(t)
	order := f.seedOrder(t, customer.ID, model.OrderPending)
	payment := f.seedOrderPayment(t, customer.ID, order.ID, model.PaymentPending)

	_, err := f.payments.VerifyPayment(ctx, payment.ID, service.DecisionRejected, "", adminActor)
	require.NoError(t, err)

	var gotOrder model.Order
	require.NoError(t, f.db.First(&gotOrder, "id = ?", order.ID).Error)
	assert.Equal(t, model.OrderPending, gotOrder.Status)

	history, err := f.orderRepo.StatusHistory(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1, "no new history entry on rejection")
}

func TestVerifyPayment_SecondCallFailsFast(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	customer := f.seedCustomer(t)
	order := f.seedOrder(t, customer.ID, model.OrderPending)
	payment := f.seedOrderPayment(t, customer.ID, order.ID, model.PaymentPending)

	_, err := f.payments.VerifyPayment(ctx, payment.ID, service.DecisionVerified, "", adminActor)
	require.NoError(t, err)

	_, err = f.payments.VerifyPayment(ctx, payment.ID, service.DecisionVerified, "", adminActor)
	assert.ErrorIs(t, err, apperror.ErrAlreadyProcessed)

	history, err := f.orderRepo.StatusHistory(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, history, 2, "no double confirmation")
}

func TestVerifyPayment_ConcurrentCalls_ExactlyOneWins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	customer := f.seedCustomer(t)
	order := f.seedOrder(t, customer.ID, model.OrderPending)
	payment := f.seedOrderPayment(t, customer.ID, order.ID, model.PaymentPending)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.payments.VerifyPayment(ctx, payment.ID, service.DecisionVerified, "", adminActor)
		}(i)
	}
	wg.Wait()

	var successes, alreadyProcessed int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, apperror.ErrAlreadyProcessed):
			alreadyProcessed++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes, "exactly one verification succeeds")
	assert.Equal(t, 1, alreadyProcessed, "the loser observes AlreadyProcessed")

	history, err := f.orderRepo.StatusHistory(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, history, 2, "single confirmation entry despite the race")
}

func TestListPendingPayments_QueryOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	customer := f.seedCustomer(t)
	order := f.seedOrder(t, customer.ID, model.OrderPending)
	pending := f.seedOrderPayment(t, customer.ID, order.ID, model.PaymentPending)
	f.seedOrderPayment(t, customer.ID, order.ID, model.PaymentCompleted)
	require.NoError(t, f.db.Create(&model.PaymentProof{
		PaymentID:  pending.ID,
		FileURL:    "https://files.local/proof.png",
		UploadedAt: time.Now(),
	}).Error)

	payments, err := f.payments.ListPendingPayments(ctx, adminActor)
	require.NoError(t, err)
	require.Len(t, payments, 1)

	got := payments[0]
	assert.Equal(t, pending.ID, got.ID)
	require.NotNil(t, got.Customer, "customer joined")
	require.NotNil(t, got.Customer.User, "customer user joined")
	require.NotNil(t, got.Order, "order joined")
	require.Len(t, got.Proofs, 1, "proofs joined")

	_, err = f.payments.ListPendingPayments(ctx, staffActor())
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestSubmitPayment_RequiresSingleTarget(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	customer := f.seedCustomer(t)
	order := f.seedOrder(t, customer.ID, model.OrderPending)
	membership := f.seedMembership(t, customer.ID, model.BillingMonthly)

	_, err := f.payments.SubmitPayment(ctx, customer, &dto.CreatePaymentRequest{
		OrderID:      order.ID,
		MembershipID: membership.ID,
		Amount:       order.TotalAmount,
		Method:       "upi",
	})
	var ve *apperror.ValidationError
	assert.ErrorAs(t, err, &ve)

	_, err = f.payments.SubmitPayment(ctx, customer, &dto.CreatePaymentRequest{
		Amount: order.TotalAmount,
		Method: "upi",
	})
	assert.ErrorAs(t, err, &ve)
}

func TestSubmitPayment_OrderOwnershipEnforced(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	owner := f.seedCustomer(t)
	other := f.seedCustomer(t)
	order := f.seedOrder(t, owner.ID, model.OrderPending)

	_, err := f.payments.SubmitPayment(ctx, other, &dto.CreatePaymentRequest{
		OrderID: order.ID,
		Amount:  order.TotalAmount,
		Method:  "upi",
	})
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestSubmitPayment_MembershipRenewalLogsTransaction(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	customer := f.seedCustomer(t)
	membership := f.seedMembership(t, customer.ID, model.BillingYearly)

	plan, ok := model.PlanByID(membership.PlanID)
	require.True(t, ok)

	payment, err := f.payments.SubmitPayment(ctx, customer, &dto.CreatePaymentRequest{
		MembershipID: membership.ID,
		Amount:       plan.Price(membership.BillingCycle),
		Method:       "bank_transfer",
		ProofURL:     "https://files.local/renewal.png",
	})
	require.NoError(t, err)
	assert.Equal(t, model.PaymentPending, payment.Status)

	transactions, err := f.membershipRepo.ListTransactions(ctx, membership.ID)
	require.NoError(t, err)
	require.Len(t, transactions, 1)
	assert.Equal(t, payment.ID, transactions[0].PaymentID)
	assert.Equal(t, model.PaymentPending, transactions[0].Status)
}
