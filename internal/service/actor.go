package service

import "laundry-service-api/internal/model"

// Actor identifies the authenticated caller of a service operation,
// derived from the session token by the auth middleware.
type Actor struct {
	UserID string
	Role   model.Role
}
