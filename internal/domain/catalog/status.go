package catalog

import "github.com/erp/distribution/internal/domain/shared"

// Status is shared by categories, brands and products
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

func (s Status) validate() error {
	if s != StatusActive && s != StatusInactive {
		return shared.NewValidationError("invalid status %q", s)
	}
	return nil
}
