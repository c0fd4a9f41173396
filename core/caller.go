package core

import "github.com/pkg/errors"

// Caller is the pre-authorized identity every core operation runs for.
// It replaces any ambient "current user" or "current tenant" lookup.
type Caller struct {
	TenantID string
	UserID   string
}

var errNoTenant = NewValidationError(errors.New("caller has no tenant"), FieldError{Field: "tenant_id", Error: "this field is required"})

// Check fails when the caller is not scoped to a tenant.
func (c Caller) Check() error {
	if CleanString(c.TenantID) == "" {
		return errNoTenant
	}
	return nil
}
