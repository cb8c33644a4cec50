package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"laundry-service-api/internal/apperror"
	"laundry-service-api/internal/dto"
	"laundry-service-api/internal/model"
	"laundry-service-api/internal/notify"
	"laundry-service-api/internal/repository"
)

// Verification decisions accepted from the admin review screen.
const (
	DecisionVerified = "verified"
	DecisionRejected = "rejected"
)

type PaymentService interface {
	// VerifyPayment applies an admin decision to a pending payment and,
	// on approval, activates the paid-for entitlement in the same
	// transaction: membership activation or order confirmation.
	VerifyPayment(ctx context.Context, paymentID, decision, notes string, actor Actor) (*model.Payment, error)
	ListPendingPayments(ctx context.Context, actor Actor) ([]*model.Payment, error)
	SubmitPayment(ctx context.Context, customer *model.Customer, req *dto.CreatePaymentRequest) (*model.Payment, error)
}

type paymentServiceImpl struct {
	db             *gorm.DB
	paymentRepo    repository.PaymentRepository
	orderRepo      repository.OrderRepository
	membershipRepo repository.MembershipRepository
	userRepo       repository.UserRepository
	notifier       notify.Notifier
}

func NewPaymentService(
	db *gorm.DB,
	paymentRepo repository.PaymentRepository,
	orderRepo repository.OrderRepository,
	membershipRepo repository.MembershipRepository,
	userRepo repository.UserRepository,
	notifier notify.Notifier,
) PaymentService {
	return &paymentServiceImpl{
		db:             db,
		paymentRepo:    paymentRepo,
		orderRepo:      orderRepo,
		membershipRepo: membershipRepo,
		userRepo:       userRepo,
		notifier:       notifier,
	}
}

func (s *paymentServiceImpl) VerifyPayment(ctx context.Context, paymentID, decision, notes string, actor Actor) (*model.Payment, error) {
	if !actor.Role.Can(model.CapVerifyPayments) {
		return nil, apperror.ErrForbidden
	}

	var newStatus model.PaymentStatus
	switch decision {
	case DecisionVerified:
		newStatus = model.PaymentCompleted
	case DecisionRejected:
		newStatus = model.PaymentFailed
	default:
		return nil, apperror.NewValidation(apperror.FieldError{
			Field:  "status",
			Reason: "must be verified or rejected",
		})
	}

	var payment *model.Payment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		payment, err = s.paymentRepo.FindByID(ctx, tx, paymentID)
		if err != nil {
			return err
		}
		if payment.Status != model.PaymentPending {
			return apperror.ErrAlreadyProcessed
		}

		now := time.Now()

		// Guarded single-statement update: the status check and the
		// write are one atomic unit, so of two concurrent verifiers
		// exactly one sees a row change and the loser backs off here.
		rows, err := s.paymentRepo.MarkProcessed(ctx, tx, paymentID, newStatus, actor.UserID, notes, now)
		if err != nil {
			return fmt.Errorf("mark payment processed: %w", err)
		}
		if rows == 0 {
			return apperror.ErrAlreadyProcessed
		}

		// A rejection never touches the order or membership: the
		// customer may retry with a fresh payment.
		if newStatus == model.PaymentCompleted {
			switch {
			case payment.MembershipID != nil:
				if err := s.activateMembership(ctx, tx, *payment.MembershipID, now); err != nil {
					return err
				}
			case payment.OrderID != nil:
				if err := s.confirmOrder(ctx, tx, *payment.OrderID, actor.UserID, now); err != nil {
					return err
				}
			}
		}

		payment, err = s.paymentRepo.FindByID(ctx, tx, paymentID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.notifyOutcome(ctx, payment, decision)

	return payment, nil
}

func (s *paymentServiceImpl) activateMembership(ctx context.Context, tx *gorm.DB, membershipID string, now time.Time) error {
	membership, err := s.membershipRepo.FindByID(ctx, tx, membershipID)
	if err != nil {
		return fmt.Errorf("load membership: %w", err)
	}

	expiry := now.AddDate(0, 1, 0)
	if membership.BillingCycle == model.BillingYearly {
		expiry = now.AddDate(1, 0, 0)
	}

	if err := s.membershipRepo.Activate(ctx, tx, membershipID, now, expiry); err != nil {
		return fmt.Errorf("activate membership: %w", err)
	}

	// Every pending transaction for this membership closes, not just
	// the latest one.
	if err := s.membershipRepo.ClosePendingTransactions(ctx, tx, membershipID, model.PaymentCompleted); err != nil {
		return fmt.Errorf("close membership transactions: %w", err)
	}

	return nil
}

func (s *paymentServiceImpl) confirmOrder(ctx context.Context, tx *gorm.DB, orderID, adminID string, now time.Time) error {
	if _, err := s.orderRepo.FindByID(ctx, tx, orderID); err != nil {
		return fmt.Errorf("load order: %w", err)
	}

	err := s.orderRepo.UpdateStatus(ctx, tx, orderID, map[string]interface{}{
		"status":     model.OrderConfirmed,
		"updated_at": now,
	})
	if err != nil {
		return fmt.Errorf("confirm order: %w", err)
	}

	err = s.orderRepo.AppendStatusLog(ctx, tx, &model.OrderStatusLog{
		OrderID:   orderID,
		Status:    model.OrderConfirmed,
		Note:      "Payment verified by admin",
		UpdatedBy: adminID,
		CreatedAt: now,
	})
	if err != nil {
		return fmt.Errorf("append order history: %w", err)
	}

	return nil
}

// notifyOutcome fires a best-effort notification after commit. Lookup
// or delivery failures are logged inside the dispatcher and never
// affect the verification result.
func (s *paymentServiceImpl) notifyOutcome(ctx context.Context, payment *model.Payment, decision string) {
	customer, err := s.userRepo.FindCustomerByID(ctx, payment.CustomerID)
	if err != nil || customer.User == nil {
		return
	}

	message := fmt.Sprintf("Your payment of %s was %s.", payment.Amount.StringFixed(2), decision)
	notify.Dispatch(s.notifier, notify.Notification{
		Target:  customer.User.Phone,
		Message: message,
	})
}

func (s *paymentServiceImpl) ListPendingPayments(ctx context.Context, actor Actor) ([]*model.Payment, error) {
	if !actor.Role.Can(model.CapVerifyPayments) {
		return nil, apperror.ErrForbidden
	}

	return s.paymentRepo.ListPending(ctx)
}

func (s *paymentServiceImpl) SubmitPayment(ctx context.Context, customer *model.Customer, req *dto.CreatePaymentRequest) (*model.Payment, error) {
	if (req.OrderID == "") == (req.MembershipID == "") {
		return nil, apperror.NewValidation(apperror.FieldError{
			Field:  "order_id",
			Reason: "exactly one of order_id or membership_id is required",
		})
	}
	if !req.Amount.IsPositive() {
		return nil, apperror.NewValidation(apperror.FieldError{
			Field:  "amount",
			Reason: "must be positive",
		})
	}

	payment := &model.Payment{
		ID:         uuid.NewString(),
		CustomerID: customer.ID,
		Amount:     req.Amount,
		Method:     req.Method,
		Status:     model.PaymentPending,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var membership *model.CustomerMembership

		if req.OrderID != "" {
			order, err := s.orderRepo.FindByID(ctx, tx, req.OrderID)
			if err != nil {
				return err
			}
			if order.CustomerID != customer.ID {
				return apperror.ErrForbidden
			}
			payment.OrderID = &order.ID
		} else {
			var err error
			membership, err = s.membershipRepo.FindByID(ctx, tx, req.MembershipID)
			if err != nil {
				return err
			}
			if membership.CustomerID != customer.ID {
				return apperror.ErrForbidden
			}
			payment.MembershipID = &membership.ID
		}

		if err := s.paymentRepo.Create(ctx, tx, payment); err != nil {
			return fmt.Errorf("store payment: %w", err)
		}

		if membership != nil {
			// A direct membership payment is a renewal: log it so
			// verification has a transaction to close.
			if err := s.membershipRepo.CreateTransaction(ctx, tx, &model.MembershipTransaction{
				MembershipID: membership.ID,
				PaymentID:    payment.ID,
				PlanID:       membership.PlanID,
				BillingCycle: membership.BillingCycle,
				Amount:       req.Amount,
				Status:       model.PaymentPending,
			}); err != nil {
				return fmt.Errorf("log membership transaction: %w", err)
			}
		}

		if req.ProofURL != "" {
			if err := s.paymentRepo.AddProof(ctx, tx, &model.PaymentProof{
				PaymentID:  payment.ID,
				FileURL:    req.ProofURL,
				UploadedAt: time.Now(),
			}); err != nil {
				return fmt.Errorf("store payment proof: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return payment, nil
}
