package survey

import (
	"time"

	appshared "github.com/erp/distribution/internal/application/shared"
	"github.com/erp/distribution/internal/domain/survey"
	"github.com/google/uuid"
)

// QuestionInput is one question of a survey request
type QuestionInput struct {
	ID       string   `json:"id" binding:"required,max=50"`
	Text     string   `json:"text" binding:"required"`
	Type     string   `json:"type" binding:"required,oneof=text single_choice multiple_choice rating yes_no"`
	Options  []string `json:"options"`
	Required bool     `json:"required"`
}

// CreateSurveyRequest is the body of POST /surveys
type CreateSurveyRequest struct {
	Title       string          `json:"title" binding:"required,max=200"`
	Description string          `json:"description"`
	SurveyType  string          `json:"survey_type" binding:"max=50"`
	Status      string          `json:"status" binding:"omitempty,oneof=draft active closed"`
	Questions   []QuestionInput `json:"questions" binding:"required,min=1,dive"`
}

// UpdateSurveyRequest is the body of PUT /surveys/:id. Omitted questions
// keep the current set.
type UpdateSurveyRequest struct {
	Title       string          `json:"title" binding:"max=200"`
	Description string          `json:"description"`
	Status      string          `json:"status" binding:"omitempty,oneof=draft active closed"`
	Questions   []QuestionInput `json:"questions" binding:"omitempty,dive"`
}

// SurveyListFilter is the query of GET /surveys
type SurveyListFilter struct {
	appshared.PageQuery
	Status     string `form:"status" binding:"omitempty,oneof=draft active closed"`
	SurveyType string `form:"survey_type"`
}

// SurveyResponse is the API representation of a survey
type SurveyResponse struct {
	ID          uuid.UUID         `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	SurveyType  string            `json:"survey_type"`
	Status      string            `json:"status"`
	Questions   []survey.Question `json:"questions"`
	Version     int               `json:"version"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// ToSurveyResponse converts a domain Survey to SurveyResponse
func ToSurveyResponse(s *survey.Survey) SurveyResponse {
	return SurveyResponse{
		ID:          s.ID,
		Title:       s.Title,
		Description: s.Description,
		SurveyType:  s.SurveyType,
		Status:      string(s.Status),
		Questions:   s.Questions.Data,
		Version:     s.Version,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// SubmitResponseRequest is the body of POST /surveys/:id/responses
type SubmitResponseRequest struct {
	CustomerID uuid.UUID      `json:"customer_id" binding:"required"`
	AgentID    uuid.UUID      `json:"agent_id" binding:"required"`
	VisitID    *uuid.UUID     `json:"visit_id"`
	Responses  map[string]any `json:"responses" binding:"required"`
}

// ResponseListFilter is the query of GET /surveys/:id/responses
type ResponseListFilter struct {
	appshared.PageQuery
	CustomerID *uuid.UUID `form:"customer_id"`
	AgentID    *uuid.UUID `form:"agent_id"`
}

// AnswerResponse is the API representation of a submitted response
type AnswerResponse struct {
	ID          uuid.UUID      `json:"id"`
	SurveyID    uuid.UUID      `json:"survey_id"`
	CustomerID  uuid.UUID      `json:"customer_id"`
	AgentID     uuid.UUID      `json:"agent_id"`
	VisitID     *uuid.UUID     `json:"visit_id,omitempty"`
	Responses   map[string]any `json:"responses"`
	SubmittedAt time.Time      `json:"submitted_at"`
}

// ToAnswerResponse converts a domain Response to AnswerResponse
func ToAnswerResponse(r *survey.Response) AnswerResponse {
	return AnswerResponse{
		ID:          r.ID,
		SurveyID:    r.SurveyID,
		CustomerID:  r.CustomerID,
		AgentID:     r.AgentID,
		VisitID:     r.VisitID,
		Responses:   r.Responses.Data,
		SubmittedAt: r.SubmittedAt,
	}
}

// AnalyticsResponse is the body of GET /surveys/:id/analytics
type AnalyticsResponse struct {
	SurveyID uuid.UUID `json:"survey_id"`
	Title    string    `json:"title"`
	survey.Analytics
}

func toQuestions(in []QuestionInput) []survey.Question {
	if in == nil {
		return nil
	}
	out := make([]survey.Question, len(in))
	for i, q := range in {
		out[i] = survey.Question{
			ID:       q.ID,
			Text:     q.Text,
			Type:     survey.QuestionType(q.Type),
			Options:  q.Options,
			Required: q.Required,
		}
	}
	return out
}
