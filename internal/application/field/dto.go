package field

import (
	"time"

	appshared "github.com/erp/distribution/internal/application/shared"
	"github.com/erp/distribution/internal/domain/field"
	"github.com/google/uuid"
)

// CreateAgentRequest represents a request to create an agent
type CreateAgentRequest struct {
	Code  string `json:"code" binding:"required,min=1,max=50"`
	Name  string `json:"name" binding:"required,min=1,max=200"`
	Phone string `json:"phone" binding:"max=50"`
	Email string `json:"email" binding:"omitempty,email,max=200"`
	Type  string `json:"type" binding:"omitempty,oneof=van_sales merchandiser promoter field_agent"`
}

// UpdateAgentRequest represents a request to update an agent
type UpdateAgentRequest struct {
	Name   string  `json:"name" binding:"omitempty,min=1,max=200"`
	Phone  *string `json:"phone" binding:"omitempty,max=50"`
	Email  *string `json:"email" binding:"omitempty,email,max=200"`
	Type   string  `json:"type" binding:"omitempty,oneof=van_sales merchandiser promoter field_agent"`
	Status string  `json:"status" binding:"omitempty,oneof=active inactive"`
}

// AgentListFilter is the query of GET /agents
type AgentListFilter struct {
	appshared.PageQuery
	Type   string `form:"type" binding:"omitempty,oneof=van_sales merchandiser promoter field_agent"`
	Status string `form:"status" binding:"omitempty,oneof=active inactive"`
}

// AgentResponse is the API representation of an agent
type AgentResponse struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Type      string    `json:"type"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToAgentResponse converts a domain Agent to AgentResponse
func ToAgentResponse(a *field.Agent) AgentResponse {
	return AgentResponse{
		ID:        a.ID,
		Code:      a.Code,
		Name:      a.Name,
		Phone:     a.Phone,
		Email:     a.Email,
		Type:      string(a.Type),
		Status:    string(a.Status),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// CreateRouteRequest represents a request to create a route
type CreateRouteRequest struct {
	Code       string     `json:"code" binding:"required,min=1,max=50"`
	Name       string     `json:"name" binding:"required,min=1,max=200"`
	Area       string     `json:"area" binding:"max=200"`
	SalesmanID *uuid.UUID `json:"salesman_id"`
}

// UpdateRouteRequest represents a request to update a route
type UpdateRouteRequest struct {
	Name       string     `json:"name" binding:"omitempty,min=1,max=200"`
	Area       *string    `json:"area" binding:"omitempty,max=200"`
	SalesmanID *uuid.UUID `json:"salesman_id"`
	Status     string     `json:"status" binding:"omitempty,oneof=active inactive"`
}

// AssignCustomersRequest puts customers on a route
type AssignCustomersRequest struct {
	CustomerIDs []uuid.UUID `json:"customer_ids" binding:"required,min=1,dive,required"`
}

// AssignCustomersResponse reports how many customers moved onto the route
type AssignCustomersResponse struct {
	RouteID  uuid.UUID `json:"route_id"`
	Assigned int64     `json:"assigned"`
}

// RouteListFilter is the query of GET /routes
type RouteListFilter struct {
	appshared.PageQuery
	SalesmanID *uuid.UUID `form:"salesman_id"`
	Status     string     `form:"status" binding:"omitempty,oneof=active inactive"`
}

// RouteResponse is the API representation of a route
type RouteResponse struct {
	ID         uuid.UUID  `json:"id"`
	Code       string     `json:"code"`
	Name       string     `json:"name"`
	Area       string     `json:"area,omitempty"`
	SalesmanID *uuid.UUID `json:"salesman_id,omitempty"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// ToRouteResponse converts a domain Route to RouteResponse
func ToRouteResponse(r *field.Route) RouteResponse {
	return RouteResponse{
		ID:         r.ID,
		Code:       r.Code,
		Name:       r.Name,
		Area:       r.Area,
		SalesmanID: r.SalesmanID,
		Status:     string(r.Status),
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

// RouteCustomerResponse is a customer listed under a route
type RouteCustomerResponse struct {
	ID      uuid.UUID `json:"id"`
	Code    string    `json:"code"`
	Name    string    `json:"name"`
	Phone   string    `json:"phone,omitempty"`
	Address string    `json:"address,omitempty"`
	Status  string    `json:"status"`
}

// CreateVisitRequest schedules a visit
type CreateVisitRequest struct {
	AgentID    uuid.UUID  `json:"agent_id" binding:"required"`
	CustomerID uuid.UUID  `json:"customer_id" binding:"required"`
	RouteID    *uuid.UUID `json:"route_id"`
	VisitDate  time.Time  `json:"visit_date"`
	VisitType  string     `json:"visit_type" binding:"max=30"`
	Notes      string     `json:"notes"`
}

// CheckInRequest starts a visit
type CheckInRequest struct {
	Latitude  *float64 `json:"latitude" binding:"omitempty,min=-90,max=90"`
	Longitude *float64 `json:"longitude" binding:"omitempty,min=-180,max=180"`
}

// CheckOutRequest completes a visit
type CheckOutRequest struct {
	Outcome string   `json:"outcome" binding:"max=50"`
	Notes   string   `json:"notes"`
	Photos  []string `json:"photos" binding:"max=20"`
}

// VisitListFilter is the query of GET /visits
type VisitListFilter struct {
	appshared.PageQuery
	AgentID    *uuid.UUID `form:"agent_id"`
	CustomerID *uuid.UUID `form:"customer_id"`
	RouteID    *uuid.UUID `form:"route_id"`
	Status     string     `form:"status" binding:"omitempty,oneof=planned in_progress completed cancelled"`
	VisitDate  *time.Time `form:"visit_date" time_format:"2006-01-02"`
}

// VisitResponse is the API representation of a visit
type VisitResponse struct {
	ID               uuid.UUID  `json:"id"`
	AgentID          uuid.UUID  `json:"agent_id"`
	CustomerID       uuid.UUID  `json:"customer_id"`
	RouteID          *uuid.UUID `json:"route_id,omitempty"`
	VisitDate        time.Time  `json:"visit_date"`
	VisitType        string     `json:"visit_type"`
	Status           string     `json:"status"`
	CheckInTime      *time.Time `json:"check_in_time,omitempty"`
	CheckOutTime     *time.Time `json:"check_out_time,omitempty"`
	CheckInLatitude  *float64   `json:"check_in_latitude,omitempty"`
	CheckInLongitude *float64   `json:"check_in_longitude,omitempty"`
	DurationMinutes  float64    `json:"duration_minutes,omitempty"`
	Outcome          string     `json:"outcome,omitempty"`
	Notes            string     `json:"notes,omitempty"`
	Photos           []string   `json:"photos"`
	PhotoURLs        []string   `json:"photo_urls,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// ToVisitResponse converts a domain Visit to VisitResponse
func ToVisitResponse(v *field.Visit) VisitResponse {
	photos := v.Photos.Data
	if photos == nil {
		photos = []string{}
	}
	return VisitResponse{
		ID:               v.ID,
		AgentID:          v.AgentID,
		CustomerID:       v.CustomerID,
		RouteID:          v.RouteID,
		VisitDate:        v.VisitDate,
		VisitType:        v.VisitType,
		Status:           string(v.Status),
		CheckInTime:      v.CheckInTime,
		CheckOutTime:     v.CheckOutTime,
		CheckInLatitude:  v.CheckInLatitude,
		CheckInLongitude: v.CheckInLongitude,
		DurationMinutes:  v.Duration().Minutes(),
		Outcome:          v.Outcome,
		Notes:            v.Notes,
		Photos:           photos,
		CreatedAt:        v.CreatedAt,
		UpdatedAt:        v.UpdatedAt,
	}
}

// PhotoUpload is a visit photo received from a multipart form
type PhotoUpload struct {
	FileName    string
	ContentType string
	Size        int64
}

// PhotoResponse describes a stored visit photo
type PhotoResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}
