package survey

import (
	"context"

	"github.com/erp/distribution/internal/domain/shared"
	"github.com/google/uuid"
)

// SurveyRepository defines the interface for survey persistence
type SurveyRepository interface {
	shared.TenantRepository[Survey]
}

// ResponseRepository defines the interface for survey response persistence
type ResponseRepository interface {
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Response, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	FindBySurvey(ctx context.Context, tenantID, surveyID uuid.UUID) ([]Response, error)
	CountBySurvey(ctx context.Context, tenantID, surveyID uuid.UUID) (int64, error)
	Create(ctx context.Context, response *Response) error
}
