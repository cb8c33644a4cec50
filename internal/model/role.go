package model

// Role is the session-derived role carried in the auth token.
type Role string

const (
	RoleCustomer       Role = "customer"
	RoleBusinessClient Role = "business_client"
	RoleStaff          Role = "staff"
	RoleOutletManager  Role = "outlet_manager"
	RoleAdmin          Role = "admin"
	RoleOwner          Role = "owner"
	RoleSuperAdmin     Role = "super_admin"
)

// Capability names a guarded action. Endpoints check capabilities, never
// raw role lists, so the role set lives in exactly one place.
type Capability string

const (
	CapPlaceOrder     Capability = "place_order"     // create orders, submit payments, buy memberships
	CapManageOrders   Capability = "manage_orders"   // staff PATCH on order status
	CapVerifyPayments Capability = "verify_payments" // admin review of manual payments
	CapViewAnalytics  Capability = "view_analytics"
)

var roleCapabilities = map[Role]map[Capability]bool{
	RoleCustomer:       {CapPlaceOrder: true},
	RoleBusinessClient: {CapPlaceOrder: true},
	RoleStaff:          {CapManageOrders: true},
	RoleOutletManager:  {CapManageOrders: true},
	RoleAdmin:          {CapManageOrders: true, CapVerifyPayments: true, CapViewAnalytics: true},
	RoleOwner:          {CapManageOrders: true, CapVerifyPayments: true, CapViewAnalytics: true},
	RoleSuperAdmin:     {CapManageOrders: true, CapVerifyPayments: true, CapViewAnalytics: true},
}

// Can reports whether the role grants the capability. Unknown roles
// grant nothing.
func (r Role) Can(cap Capability) bool {
	return roleCapabilities[r][cap]
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, ok := roleCapabilities[r]
	return ok
}
