package model

// OrderStatus is the order lifecycle state. Declaration order matters:
// it is the canonical forward progression of an order.
type OrderStatus string

const (
	OrderPending        OrderStatus = "pending"
	OrderConfirmed      OrderStatus = "confirmed"
	OrderPickedUp       OrderStatus = "picked_up"
	OrderInProgress     OrderStatus = "in_progress"
	OrderQualityCheck   OrderStatus = "quality_check"
	OrderReady          OrderStatus = "ready"
	OrderOutForDelivery OrderStatus = "out_for_delivery"
	OrderDelivered      OrderStatus = "delivered"
	OrderCancelled      OrderStatus = "cancelled"
)

// OrderStatuses lists every status in progression order, cancelled last.
var OrderStatuses = []OrderStatus{
	OrderPending,
	OrderConfirmed,
	OrderPickedUp,
	OrderInProgress,
	OrderQualityCheck,
	OrderReady,
	OrderOutForDelivery,
	OrderDelivered,
	OrderCancelled,
}

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	for _, v := range OrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition may leave s.
func (s OrderStatus) Terminal() bool {
	return s == OrderDelivered || s == OrderCancelled
}

// CustomerCancellable reports whether a customer may still cancel an
// order in this state. Once pickup happens the order is committed.
func (s OrderStatus) CustomerCancellable() bool {
	return s == OrderPending || s == OrderConfirmed
}

// PaymentStatus is the manual-payment review state. A payment is
// terminal once it leaves pending.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// MembershipStatus is the subscription state of a customer membership.
type MembershipStatus string

const (
	MembershipPending   MembershipStatus = "pending"
	MembershipActive    MembershipStatus = "active"
	MembershipExpired   MembershipStatus = "expired"
	MembershipCancelled MembershipStatus = "cancelled"
)

// BillingCycle selects the membership renewal interval.
type BillingCycle string

const (
	BillingMonthly BillingCycle = "monthly"
	BillingYearly  BillingCycle = "yearly"
)

// Valid reports whether c is a known billing cycle.
func (c BillingCycle) Valid() bool {
	return c == BillingMonthly || c == BillingYearly
}
