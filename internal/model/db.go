package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID           string    `gorm:"primaryKey;size:36;not null" json:"id"`
	Name         string    `gorm:"size:128;not null" json:"name"`
	Email        string    `gorm:"size:128;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:128;not null" json:"-"`
	Phone        string    `gorm:"size:32" json:"phone"`
	Role         Role      `gorm:"size:32;index;not null" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Customer struct {
	ID          string    `gorm:"primaryKey;size:36;not null" json:"id"`
	UserID      string    `gorm:"size:36;uniqueIndex;not null" json:"user_id"`
	User        *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	AddressLine string    `gorm:"size:256" json:"address_line"`
	City        string    `gorm:"size:64" json:"city"`
	PostalCode  string    `gorm:"size:16" json:"postal_code"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Outlet struct {
	ID          string    `gorm:"primaryKey;size:36;not null" json:"id"`
	Name        string    `gorm:"size:128;not null" json:"name"`
	Code        string    `gorm:"size:16;uniqueIndex;not null" json:"code"`
	AddressLine string    `gorm:"size:256" json:"address_line"`
	Phone       string    `gorm:"size:32" json:"phone"`
	CreatedAt   time.Time `json:"created_at"`
}

type Order struct {
	ID                  string           `gorm:"primaryKey;size:36;not null" json:"id"`
	OrderNumber         string           `gorm:"size:32;uniqueIndex;not null" json:"order_number"`
	CustomerID          string           `gorm:"size:36;index;not null" json:"customer_id"`
	Customer            *Customer        `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	OutletID            string           `gorm:"size:36;index;not null" json:"outlet_id"`
	Outlet              *Outlet          `gorm:"foreignKey:OutletID" json:"outlet,omitempty"`
	Status              OrderStatus      `gorm:"size:32;index;not null" json:"status"`
	TotalAmount         decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	InternalNotes       string           `gorm:"size:1024" json:"internal_notes,omitempty"`
	Items               []OrderItem      `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	StatusHistory       []OrderStatusLog `gorm:"foreignKey:OrderID" json:"status_history,omitempty"`
	Payments            []Payment        `gorm:"foreignKey:OrderID" json:"payments,omitempty"`
	PickupScheduledAt   *time.Time       `json:"pickup_scheduled_at,omitempty"`
	PickupCompletedAt   *time.Time       `json:"pickup_completed_at,omitempty"`
	DeliveryCompletedAt *time.Time       `json:"delivery_completed_at,omitempty"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
}

type OrderItem struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	OrderID     string          `gorm:"size:36;index;not null" json:"order_id"`
	ServiceType string          `gorm:"size:32;not null" json:"service_type"` // wash_fold, dry_clean, iron_only, wash_iron
	Quantity    int             `gorm:"not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	CreatedAt   time.Time       `json:"created_at"`
}

// OrderStatusLog is the append-only audit trail of an order's lifecycle.
// Rows are only ever inserted; the latest row always mirrors Order.Status.
type OrderStatusLog struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	OrderID   string      `gorm:"size:36;index;not null" json:"order_id"`
	Status    OrderStatus `gorm:"size:32;not null" json:"status"`
	Note      string      `gorm:"size:256" json:"note,omitempty"`
	UpdatedBy string      `gorm:"size:36" json:"updated_by"`
	CreatedAt time.Time   `json:"created_at"`
}

// Payment targets exactly one of OrderID or MembershipID.
type Payment struct {
	ID           string          `gorm:"primaryKey;size:36;not null" json:"id"`
	OrderID      *string         `gorm:"size:36;index" json:"order_id,omitempty"`
	Order        *Order          `gorm:"foreignKey:OrderID" json:"order,omitempty"`
	MembershipID *string         `gorm:"size:36;index" json:"membership_id,omitempty"`
	CustomerID   string          `gorm:"size:36;index;not null" json:"customer_id"`
	Customer     *Customer       `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Amount       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Method       string          `gorm:"size:32;not null" json:"method"` // upi, cash, bank_transfer
	Status       PaymentStatus   `gorm:"size:32;index;not null" json:"status"`
	Notes        string          `gorm:"size:512" json:"notes,omitempty"`
	Proofs       []PaymentProof  `gorm:"foreignKey:PaymentID" json:"proofs,omitempty"`
	VerifiedAt   *time.Time      `json:"verified_at,omitempty"`
	VerifiedBy   *string         `gorm:"size:36" json:"verified_by,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// PaymentProof references an uploaded proof artifact (UPI screenshot,
// transfer receipt). Storage itself is external; only the URL is kept.
type PaymentProof struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PaymentID  string    `gorm:"size:36;index;not null" json:"payment_id"`
	FileURL    string    `gorm:"size:512;not null" json:"file_url"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// CustomerMembership holds one row per (customer, plan) pair. A
// re-purchase of the same plan updates the row rather than inserting.
type CustomerMembership struct {
	ID           string           `gorm:"primaryKey;size:36;not null" json:"id"`
	CustomerID   string           `gorm:"size:36;index:idx_customer_plan,unique;not null" json:"customer_id"`
	PlanID       string           `gorm:"size:36;index:idx_customer_plan,unique;not null" json:"plan_id"`
	Status       MembershipStatus `gorm:"size:32;index;not null" json:"status"`
	BillingCycle BillingCycle     `gorm:"size:16;not null" json:"billing_cycle"`
	StartDate    *time.Time       `json:"start_date,omitempty"`
	ExpiryDate   *time.Time       `json:"expiry_date,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// ActiveAt reports whether the membership grants benefits at t.
func (m *CustomerMembership) ActiveAt(t time.Time) bool {
	return m.Status == MembershipActive && m.ExpiryDate != nil && m.ExpiryDate.After(t)
}

// MembershipTransaction is an immutable log entry per purchase or
// renewal. Its status mirrors the owning payment's outcome.
type MembershipTransaction struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	MembershipID string          `gorm:"size:36;index;not null" json:"membership_id"`
	PaymentID    string          `gorm:"size:36;index;not null" json:"payment_id"`
	PlanID       string          `gorm:"size:36;not null" json:"plan_id"`
	BillingCycle BillingCycle    `gorm:"size:16;not null" json:"billing_cycle"`
	Amount       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Status       PaymentStatus   `gorm:"size:32;index;not null" json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
}
