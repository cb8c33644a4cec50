package dto

import "github.com/shopspring/decimal"

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

type OrderItemRequest struct {
	ServiceType string `json:"service_type" validate:"required,oneof=wash_fold dry_clean iron_only wash_iron"`
	Quantity    int    `json:"quantity" validate:"required,gt=0"`
}

type CreateOrderRequest struct {
	OutletID          string             `json:"outlet_id" validate:"required"`
	Items             []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	PickupScheduledAt string             `json:"pickup_scheduled_at,omitempty"` // RFC3339
}

type UpdateOrderRequest struct {
	Status        string `json:"status,omitempty" validate:"omitempty,oneof=pending confirmed picked_up in_progress quality_check ready out_for_delivery delivered cancelled"`
	InternalNotes string `json:"internal_notes,omitempty"`
}

type CreatePaymentRequest struct {
	OrderID      string          `json:"order_id,omitempty"`
	MembershipID string          `json:"membership_id,omitempty"`
	Amount       decimal.Decimal `json:"amount" validate:"required"`
	Method       string          `json:"method" validate:"required,oneof=upi cash bank_transfer"`
	ProofURL     string          `json:"proof_url,omitempty"`
}

type VerifyPaymentRequest struct {
	PaymentID string `json:"paymentId" validate:"required"`
	Status    string `json:"status" validate:"required,oneof=verified rejected"`
	Notes     string `json:"notes,omitempty"`
}

type PurchaseMembershipRequest struct {
	PlanID       string `json:"plan_id" validate:"required"`
	BillingCycle string `json:"billing_cycle" validate:"required,oneof=monthly yearly"`
	Method       string `json:"method" validate:"required,oneof=upi cash bank_transfer"`
	ProofURL     string `json:"proof_url,omitempty"`
}
