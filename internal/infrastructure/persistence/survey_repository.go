package persistence

import (
	"context"

	"github.com/erp/distribution/internal/domain/survey"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSurveyRepository implements survey.SurveyRepository
type GormSurveyRepository struct {
	TenantStore[survey.Survey]
}

// NewGormSurveyRepository creates a new GormSurveyRepository
func NewGormSurveyRepository(db *gorm.DB) *GormSurveyRepository {
	return &GormSurveyRepository{NewTenantStore[survey.Survey](db, QuerySpec{
		Filters: map[string]string{"status": "status", "survey_type": "survey_type"},
		Search:  []string{"title"},
		Sort:    SurveySortFields,
	})}
}

// GormResponseRepository implements survey.ResponseRepository
type GormResponseRepository struct {
	TenantStore[survey.Response]
}

// NewGormResponseRepository creates a new GormResponseRepository
func NewGormResponseRepository(db *gorm.DB) *GormResponseRepository {
	return &GormResponseRepository{NewTenantStore[survey.Response](db, QuerySpec{
		Filters: map[string]string{
			"survey_id":   "survey_id",
			"customer_id": "customer_id",
			"agent_id":    "agent_id",
		},
		Sort: ResponseSortFields,
	})}
}

// FindBySurvey returns every response to a survey
func (r *GormResponseRepository) FindBySurvey(ctx context.Context, tenantID, surveyID uuid.UUID) ([]survey.Response, error) {
	return r.FindWhere(ctx, tenantID, "survey_id = ?", surveyID)
}

// CountBySurvey counts responses to a survey
func (r *GormResponseRepository) CountBySurvey(ctx context.Context, tenantID, surveyID uuid.UUID) (int64, error) {
	var n int64
	err := r.scoped(ctx, tenantID).Where("survey_id = ?", surveyID).Count(&n).Error
	return n, err
}

var (
	_ survey.SurveyRepository   = (*GormSurveyRepository)(nil)
	_ survey.ResponseRepository = (*GormResponseRepository)(nil)
)
