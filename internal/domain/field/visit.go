package field

import (
	"time"

	"github.com/erp/distribution/internal/domain/shared"
	"github.com/google/uuid"
)

// VisitStatus represents the progress of a customer visit
type VisitStatus string

const (
	VisitStatusPlanned    VisitStatus = "planned"
	VisitStatusInProgress VisitStatus = "in_progress"
	VisitStatusCompleted  VisitStatus = "completed"
	VisitStatusCancelled  VisitStatus = "cancelled"
)

// IsValid checks if the visit status is known
func (s VisitStatus) IsValid() bool {
	switch s {
	case VisitStatusPlanned, VisitStatusInProgress, VisitStatusCompleted, VisitStatusCancelled:
		return true
	}
	return false
}

// MaxPhotosPerVisit caps the photo keys stored on one visit
const MaxPhotosPerVisit = 20

// Visit is a scheduled or performed customer call by an agent
type Visit struct {
	shared.TenantAggregateRoot
	AgentID          uuid.UUID             `gorm:"type:uuid;not null;index"`
	CustomerID       uuid.UUID             `gorm:"type:uuid;not null;index"`
	RouteID          *uuid.UUID            `gorm:"type:uuid;index"`
	VisitDate        time.Time             `gorm:"type:date;not null;index"`
	VisitType        string                `gorm:"type:varchar(30)"`
	Status           VisitStatus           `gorm:"type:varchar(20);not null;default:'planned';index"`
	CheckInTime      *time.Time            `gorm:""`
	CheckOutTime     *time.Time            `gorm:""`
	CheckInLatitude  *float64              `gorm:"type:decimal(10,7)"`
	CheckInLongitude *float64              `gorm:"type:decimal(10,7)"`
	Outcome          string                `gorm:"type:varchar(50)"`
	Notes            string                `gorm:"type:text"`
	Photos           shared.JSON[[]string] `gorm:"type:jsonb"`
}

// TableName returns the table name for GORM
func (Visit) TableName() string {
	return "visits"
}

// NewVisit schedules a planned visit
func NewVisit(tenantID, agentID, customerID uuid.UUID, routeID *uuid.UUID, visitDate time.Time, visitType string) (*Visit, error) {
	if agentID == uuid.Nil {
		return nil, shared.NewValidationError("agent_id is required")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewValidationError("customer_id is required")
	}
	if visitDate.IsZero() {
		visitDate = time.Now()
	}
	if visitType == "" {
		visitType = "routine"
	}
	return &Visit{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		AgentID:             agentID,
		CustomerID:          customerID,
		RouteID:             routeID,
		VisitDate:           shared.DateOf(visitDate),
		VisitType:           visitType,
		Status:              VisitStatusPlanned,
		Photos:              shared.NewJSON([]string{}),
	}, nil
}

// CheckIn starts the visit at the current time
func (v *Visit) CheckIn(at time.Time, lat, lng *float64) error {
	if v.CheckInTime != nil {
		return shared.NewInvalidStateError("visit already checked in")
	}
	if v.Status != VisitStatusPlanned {
		return shared.NewInvalidStateError("cannot check in a %s visit", v.Status)
	}
	if lat != nil && (*lat < -90 || *lat > 90) {
		return shared.NewValidationError("latitude must be between -90 and 90")
	}
	if lng != nil && (*lng < -180 || *lng > 180) {
		return shared.NewValidationError("longitude must be between -180 and 180")
	}
	v.CheckInTime = &at
	v.CheckInLatitude = lat
	v.CheckInLongitude = lng
	v.Status = VisitStatusInProgress
	v.IncrementVersion()
	return nil
}

// CheckOut completes the visit
func (v *Visit) CheckOut(at time.Time, outcome, notes string, photos []string) error {
	if v.CheckInTime == nil {
		return shared.NewInvalidStateError("visit has not been checked in")
	}
	if v.CheckOutTime != nil {
		return shared.NewInvalidStateError("visit already checked out")
	}
	if at.Before(*v.CheckInTime) {
		at = *v.CheckInTime
	}
	v.CheckOutTime = &at
	v.Status = VisitStatusCompleted
	v.Outcome = outcome
	if notes != "" {
		v.Notes = notes
	}
	for _, p := range photos {
		if err := v.AddPhoto(p); err != nil {
			return err
		}
	}
	v.IncrementVersion()
	return nil
}

// Cancel cancels a visit that has not started
func (v *Visit) Cancel() error {
	if v.Status != VisitStatusPlanned {
		return shared.NewInvalidStateError("cannot cancel a %s visit", v.Status)
	}
	v.Status = VisitStatusCancelled
	v.IncrementVersion()
	return nil
}

// AddPhoto appends an object key to the photo list
func (v *Visit) AddPhoto(key string) error {
	if key == "" {
		return shared.NewValidationError("photo key is required")
	}
	if v.Status == VisitStatusCancelled {
		return shared.NewInvalidStateError("visit is cancelled")
	}
	if len(v.Photos.Data) >= MaxPhotosPerVisit {
		return shared.NewValidationError("a visit holds at most %d photos", MaxPhotosPerVisit)
	}
	v.Photos.Data = append(v.Photos.Data, key)
	return nil
}

// Duration is the time between check-in and check-out
func (v *Visit) Duration() time.Duration {
	if v.CheckInTime == nil || v.CheckOutTime == nil {
		return 0
	}
	return v.CheckOutTime.Sub(*v.CheckInTime)
}
