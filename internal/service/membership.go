package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"laundry-service-api/internal/apperror"
	"laundry-service-api/internal/dto"
	"laundry-service-api/internal/model"
	"laundry-service-api/internal/repository"
)

type MembershipService interface {
	// Purchase records a membership purchase or renewal awaiting manual
	// payment verification. One row exists per (customer, plan): buying
	// the same plan again reuses the row instead of inserting.
	Purchase(ctx context.Context, customer *model.Customer, req *dto.PurchaseMembershipRequest) (*model.CustomerMembership, *model.Payment, error)
	ListMine(ctx context.Context, customerID string) ([]*model.CustomerMembership, error)
}

type membershipServiceImpl struct {
	db             *gorm.DB
	membershipRepo repository.MembershipRepository
	paymentRepo    repository.PaymentRepository
}

func NewMembershipService(
	db *gorm.DB,
	membershipRepo repository.MembershipRepository,
	paymentRepo repository.PaymentRepository,
) MembershipService {
	return &membershipServiceImpl{
		db:             db,
		membershipRepo: membershipRepo,
		paymentRepo:    paymentRepo,
	}
}

func (s *membershipServiceImpl) Purchase(ctx context.Context, customer *model.Customer, req *dto.PurchaseMembershipRequest) (*model.CustomerMembership, *model.Payment, error) {
	plan, ok := model.PlanByID(req.PlanID)
	if !ok {
		return nil, nil, apperror.NewValidation(apperror.FieldError{
			Field:  "plan_id",
			Reason: "unknown plan",
		})
	}
	cycle := model.BillingCycle(req.BillingCycle)
	if !cycle.Valid() {
		return nil, nil, apperror.NewValidation(apperror.FieldError{
			Field:  "billing_cycle",
			Reason: "must be monthly or yearly",
		})
	}

	var membership *model.CustomerMembership
	var payment *model.Payment

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		existing, err := s.membershipRepo.FindByCustomerAndPlan(ctx, tx, customer.ID, plan.ID)
		switch {
		case err == nil:
			membership = existing
			membership.BillingCycle = cycle
			// Re-purchase of a lapsed plan goes back to pending until
			// the new payment is verified; an active membership keeps
			// its status and simply gains a pending renewal.
			if membership.Status != model.MembershipActive {
				membership.Status = model.MembershipPending
			}
			if err := s.membershipRepo.Save(ctx, tx, membership); err != nil {
				return fmt.Errorf("update membership: %w", err)
			}
		case errors.Is(err, apperror.ErrNotFound):
			membership = &model.CustomerMembership{
				ID:           uuid.NewString(),
				CustomerID:   customer.ID,
				PlanID:       plan.ID,
				Status:       model.MembershipPending,
				BillingCycle: cycle,
			}
			if err := s.membershipRepo.Create(ctx, tx, membership); err != nil {
				return fmt.Errorf("store membership: %w", err)
			}
		default:
			return err
		}

		payment = &model.Payment{
			ID:           uuid.NewString(),
			MembershipID: &membership.ID,
			CustomerID:   customer.ID,
			Amount:       plan.Price(cycle),
			Method:       req.Method,
			Status:       model.PaymentPending,
		}
		if err := s.paymentRepo.Create(ctx, tx, payment); err != nil {
			return fmt.Errorf("store payment: %w", err)
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

		return s.membershipRepo.CreateTransaction(ctx, tx, &model.MembershipTransaction{
			MembershipID: membership.ID,
			PaymentID:    payment.ID,
			PlanID:       plan.ID,
			BillingCycle: cycle,
			Amount:       payment.Amount,
			Status:       model.PaymentPending,
		})
	})
	if err != nil {
		return nil, nil, err
	}

	return membership, payment, nil
}

func (s *membershipServiceImpl) ListMine(ctx context.Context, customerID string) ([]*model.CustomerMembership, error) {
	return s.membershipRepo.ListByCustomer(ctx, customerID)
}
