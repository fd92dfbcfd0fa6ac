// Package survey contains the questionnaire use cases.
package survey

import (
	"context"
	"errors"

	appshared "github.com/erp/distribution/internal/application/shared"
	"github.com/erp/distribution/internal/domain/field"
	"github.com/erp/distribution/internal/domain/partner"
	"github.com/erp/distribution/internal/domain/shared"
	"github.com/erp/distribution/internal/domain/survey"
	"github.com/google/uuid"
)

// SurveyService manages surveys, their responses and analytics
type SurveyService struct {
	surveyRepo   survey.SurveyRepository
	responseRepo survey.ResponseRepository
	customerRepo partner.CustomerRepository
	agentRepo    field.AgentRepository
}

// NewSurveyService creates a new SurveyService
func NewSurveyService(
	surveyRepo survey.SurveyRepository,
	responseRepo survey.ResponseRepository,
	customerRepo partner.CustomerRepository,
	agentRepo field.AgentRepository,
) *SurveyService {
	return &SurveyService{
		surveyRepo:   surveyRepo,
		responseRepo: responseRepo,
		customerRepo: customerRepo,
		agentRepo:    agentRepo,
	}
}

// Create creates a survey, draft unless another status is requested
func (s *SurveyService) Create(ctx context.Context, tenantID uuid.UUID, req CreateSurveyRequest) (*SurveyResponse, error) {
	sv, err := survey.NewSurvey(tenantID, req.Title, req.Description, req.SurveyType, toQuestions(req.Questions))
	if err != nil {
		return nil, err
	}
	if req.Status != "" {
		sv.Status = survey.Status(req.Status)
	}
	sv.Version = 1
	if err := s.surveyRepo.Create(ctx, sv); err != nil {
		return nil, err
	}
	response := ToSurveyResponse(sv)
	return &response, nil
}

// GetByID retrieves a survey
func (s *SurveyService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*SurveyResponse, error) {
	sv, err := s.surveyRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	response := ToSurveyResponse(sv)
	return &response, nil
}

// List returns a page of surveys
func (s *SurveyService) List(ctx context.Context, tenantID uuid.UUID, filter SurveyListFilter) ([]SurveyResponse, int64, error) {
	f := filter.Filter().With("status", filter.Status).With("survey_type", filter.SurveyType)
	surveys, err := s.surveyRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.surveyRepo.CountForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	return appshared.MapSlice(surveys, ToSurveyResponse), total, nil
}

// Update replaces survey content
func (s *SurveyService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateSurveyRequest) (*SurveyResponse, error) {
	sv, err := s.surveyRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if req.Questions != nil {
		n, err := s.responseRepo.CountBySurvey(ctx, tenantID, id)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			return nil, shared.NewDomainError("CONFLICT", "Questions cannot change once responses exist")
		}
	}
	if err := sv.Update(req.Title, req.Description, survey.Status(req.Status), toQuestions(req.Questions)); err != nil {
		return nil, err
	}
	if err := s.surveyRepo.Save(ctx, sv); err != nil {
		return nil, err
	}
	response := ToSurveyResponse(sv)
	return &response, nil
}

// Delete removes a survey without responses
func (s *SurveyService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.surveyRepo.FindByIDForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	n, err := s.responseRepo.CountBySurvey(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return shared.NewDomainError("CONFLICT", "Survey has responses")
	}
	return s.surveyRepo.DeleteForTenant(ctx, tenantID, id)
}

// Submit records a response to an active survey
func (s *SurveyService) Submit(ctx context.Context, tenantID, surveyID uuid.UUID, req SubmitResponseRequest) (*AnswerResponse, error) {
	sv, err := s.surveyRepo.FindByIDForTenant(ctx, tenantID, surveyID)
	if err != nil {
		return nil, err
	}
	if _, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, req.CustomerID); err != nil {
		return nil, missingReference(err, "customer")
	}
	if _, err := s.agentRepo.FindByIDForTenant(ctx, tenantID, req.AgentID); err != nil {
		return nil, missingReference(err, "agent")
	}
	r, err := survey.NewResponse(sv, req.CustomerID, req.AgentID, req.VisitID, req.Responses)
	if err != nil {
		return nil, err
	}
	if err := s.responseRepo.Create(ctx, r); err != nil {
		return nil, err
	}
	response := ToAnswerResponse(r)
	return &response, nil
}

// Responses lists the responses to a survey
func (s *SurveyService) Responses(ctx context.Context, tenantID, surveyID uuid.UUID, filter ResponseListFilter) ([]AnswerResponse, int64, error) {
	if _, err := s.surveyRepo.FindByIDForTenant(ctx, tenantID, surveyID); err != nil {
		return nil, 0, err
	}
	f := filter.Filter().
		With("survey_id", surveyID).
		With("customer_id", filter.CustomerID).
		With("agent_id", filter.AgentID)
	list, err := s.responseRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.responseRepo.CountForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	return appshared.MapSlice(list, ToAnswerResponse), total, nil
}

// Analytics computes response statistics for a survey
func (s *SurveyService) Analytics(ctx context.Context, tenantID, surveyID uuid.UUID) (*AnalyticsResponse, error) {
	sv, err := s.surveyRepo.FindByIDForTenant(ctx, tenantID, surveyID)
	if err != nil {
		return nil, err
	}
	responses, err := s.responseRepo.FindBySurvey(ctx, tenantID, surveyID)
	if err != nil {
		return nil, err
	}
	return &AnalyticsResponse{
		SurveyID:  sv.ID,
		Title:     sv.Title,
		Analytics: survey.Analyze(sv, responses),
	}, nil
}

func missingReference(err error, what string) error {
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewValidationError("%s does not exist", what)
	}
	return err
}
