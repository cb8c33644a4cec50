package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"laundry-service-api/internal/apperror"
	"laundry-service-api/internal/dto"
	"laundry-service-api/internal/model"
	"laundry-service-api/internal/repository"
)

// servicePrices is the per-item price list.
var servicePrices = map[string]decimal.Decimal{
	"wash_fold": decimal.NewFromInt(40),
	"dry_clean": decimal.NewFromInt(120),
	"iron_only": decimal.NewFromInt(20),
	"wash_iron": decimal.NewFromInt(55),
}

type OrderService interface {
	CreateOrder(ctx context.Context, customer *model.Customer, req *dto.CreateOrderRequest) (*model.Order, error)
	GetOrder(ctx context.Context, orderID string, actor Actor, customerID string) (*model.Order, error)
	ListOrders(ctx context.Context, customerID string) ([]*model.Order, error)
	// ListOutletOrders is the staff listing: orders of one outlet, or of
	// all outlets when outletID is empty.
	ListOutletOrders(ctx context.Context, outletID string, actor Actor) ([]*model.Order, error)
	// UpdateOrderStatus moves an order through its lifecycle on behalf
	// of staff. A same-status update is a no-op and leaves the history
	// untouched; terminal states accept no further transitions.
	UpdateOrderStatus(ctx context.Context, orderID string, newStatus model.OrderStatus, internalNotes string, actor Actor) (*model.Order, error)
	// CancelOrder is the customer self-service path. It only runs for
	// the owning customer and only from pending or confirmed.
	CancelOrder(ctx context.Context, orderID string, customer *model.Customer) (*model.Order, error)
}

type orderServiceImpl struct {
	db             *gorm.DB
	orderRepo      repository.OrderRepository
	membershipRepo repository.MembershipRepository
}

func NewOrderService(
	db *gorm.DB,
	orderRepo repository.OrderRepository,
	membershipRepo repository.MembershipRepository,
) OrderService {
	return &orderServiceImpl{
		db:             db,
		orderRepo:      orderRepo,
		membershipRepo: membershipRepo,
	}
}

func (s *orderServiceImpl) CreateOrder(ctx context.Context, customer *model.Customer, req *dto.CreateOrderRequest) (*model.Order, error) {
	now := time.Now()

	discount := decimal.Zero
	membership, err := s.membershipRepo.FindActiveByCustomer(ctx, customer.ID, now)
	if err == nil {
		if plan, ok := model.PlanByID(membership.PlanID); ok {
			discount = decimal.NewFromInt(int64(plan.DiscountPercent))
		}
	}

	items := make([]*model.OrderItem, 0, len(req.Items))
	total := decimal.Zero
	for _, it := range req.Items {
		price, ok := servicePrices[it.ServiceType]
		if !ok {
			return nil, apperror.NewValidation(apperror.FieldError{
				Field:  "items",
				Reason: fmt.Sprintf("unknown service type %q", it.ServiceType),
			})
		}
		subtotal := price.Mul(decimal.NewFromInt(int64(it.Quantity)))
		total = total.Add(subtotal)
		items = append(items, &model.OrderItem{
			ServiceType: it.ServiceType,
			Quantity:    it.Quantity,
			UnitPrice:   price,
			Subtotal:    subtotal,
		})
	}

	if discount.IsPositive() {
		total = total.Sub(total.Mul(discount).Div(decimal.NewFromInt(100))).Round(2)
	}

	order := &model.Order{
		ID:          uuid.NewString(),
		CustomerID:  customer.ID,
		OutletID:    req.OutletID,
		Status:      model.OrderPending,
		TotalAmount: total,
	}

	if req.PickupScheduledAt != "" {
		at, err := time.Parse(time.RFC3339, req.PickupScheduledAt)
		if err != nil {
			return nil, apperror.NewValidation(apperror.FieldError{
				Field:  "pickup_scheduled_at",
				Reason: "must be RFC3339",
			})
		}
		order.PickupScheduledAt = &at
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dayPrefix := "LND-" + now.Format("20060102") + "-"
		seq, err := s.orderRepo.CountForDay(ctx, tx, dayPrefix)
		if err != nil {
			return fmt.Errorf("derive order number: %w", err)
		}
		order.OrderNumber = fmt.Sprintf("%s%04d", dayPrefix, seq+1)

		if err := s.orderRepo.Create(ctx, tx, order); err != nil {
			return fmt.Errorf("store order: %w", err)
		}

		for _, item := range items {
			item.OrderID = order.ID
		}
		if err := s.orderRepo.CreateItems(ctx, tx, items); err != nil {
			return fmt.Errorf("store order items: %w", err)
		}

		return s.orderRepo.AppendStatusLog(ctx, tx, &model.OrderStatusLog{
			OrderID:   order.ID,
			Status:    model.OrderPending,
			Note:      "Order created",
			UpdatedBy: customer.UserID,
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}

	return s.orderRepo.FindByIDFull(ctx, order.ID)
}

// GetOrder returns an order to staff, or to the owning customer.
func (s *orderServiceImpl) GetOrder(ctx context.Context, orderID string, actor Actor, customerID string) (*model.Order, error) {
	order, err := s.orderRepo.FindByIDFull(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !actor.Role.Can(model.CapManageOrders) && order.CustomerID != customerID {
		return nil, apperror.ErrForbidden
	}

	return order, nil
}

func (s *orderServiceImpl) ListOrders(ctx context.Context, customerID string) ([]*model.Order, error) {
	return s.orderRepo.ListByCustomer(ctx, customerID)
}

func (s *orderServiceImpl) ListOutletOrders(ctx context.Context, outletID string, actor Actor) ([]*model.Order, error) {
	if !actor.Role.Can(model.CapManageOrders) {
		return nil, apperror.ErrForbidden
	}
	return s.orderRepo.ListByOutlet(ctx, outletID)
}

func (s *orderServiceImpl) UpdateOrderStatus(ctx context.Context, orderID string, newStatus model.OrderStatus, internalNotes string, actor Actor) (*model.Order, error) {
	if !actor.Role.Can(model.CapManageOrders) {
		return nil, apperror.ErrForbidden
	}
	if newStatus != "" && !newStatus.Valid() {
		return nil, apperror.NewValidation(apperror.FieldError{
			Field:  "status",
			Reason: "unknown order status",
		})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.FindByID(ctx, tx, orderID)
		if err != nil {
			return err
		}

		now := time.Now()
		updates := map[string]interface{}{
			"updated_at": now,
		}
		if internalNotes != "" {
			updates["internal_notes"] = internalNotes
		}

		// Same-status updates are not transitions: no history entry,
		// no timestamp restamping.
		statusChanged := newStatus != "" && newStatus != order.Status
		if statusChanged {
			if order.Status.Terminal() {
				return apperror.ErrInvalidTransition
			}

			updates["status"] = newStatus
			if newStatus == model.OrderPickedUp && order.PickupCompletedAt == nil {
				updates["pickup_completed_at"] = now
			}
			if newStatus == model.OrderDelivered && order.DeliveryCompletedAt == nil {
				updates["delivery_completed_at"] = now
			}
		}

		if err := s.orderRepo.UpdateStatus(ctx, tx, orderID, updates); err != nil {
			return err
		}

		if statusChanged {
			return s.orderRepo.AppendStatusLog(ctx, tx, &model.OrderStatusLog{
				OrderID:   orderID,
				Status:    newStatus,
				UpdatedBy: actor.UserID,
				CreatedAt: now,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.orderRepo.FindByIDFull(ctx, orderID)
}

func (s *orderServiceImpl) CancelOrder(ctx context.Context, orderID string, customer *model.Customer) (*model.Order, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order, err := s.orderRepo.FindByID(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if order.CustomerID != customer.ID {
			return apperror.ErrForbidden
		}
		if !order.Status.CustomerCancellable() {
			return apperror.ErrInvalidTransition
		}

		now := time.Now()
		err = s.orderRepo.UpdateStatus(ctx, tx, orderID, map[string]interface{}{
			"status":     model.OrderCancelled,
			"updated_at": now,
		})
		if err != nil {
			return err
		}

		return s.orderRepo.AppendStatusLog(ctx, tx, &model.OrderStatusLog{
			OrderID:   orderID,
			Status:    model.OrderCancelled,
			Note:      "Cancelled by customer",
			UpdatedBy: customer.UserID,
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}

	return s.orderRepo.FindByIDFull(ctx, orderID)
}
