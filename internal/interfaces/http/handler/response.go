package handler

import "github.com/erp/distribution/internal/interfaces/http/dto"

// APIResponse is the documented shape of a successful envelope.
// List endpoints also fill Meta.
// @Description Success envelope; data holds the resource or page of resources
type APIResponse[T any] struct {
	Success bool      `json:"success" example:"true"`
	Data    T         `json:"data,omitempty"`
	Meta    *dto.Meta `json:"meta,omitempty"`
}

// ErrorResponse is the documented shape of a failed envelope
// @Description Error envelope with a machine readable code and per-field details
type ErrorResponse struct {
	Success bool           `json:"success" example:"false"`
	Error   *dto.ErrorInfo `json:"error"`
}
