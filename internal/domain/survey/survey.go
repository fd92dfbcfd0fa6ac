package survey

import (
	"fmt"
	"strings"
	"time"

	"github.com/erp/distribution/internal/domain/shared"
	"github.com/google/uuid"
)

// Status represents the lifecycle of a survey
type Status string

const (
	StatusDraft  Status = "draft"
	StatusActive Status = "active"
	StatusClosed Status = "closed"
)

// IsValid checks if the status is known
func (s Status) IsValid() bool {
	return s == StatusDraft || s == StatusActive || s == StatusClosed
}

// QuestionType is the answer shape of a question
type QuestionType string

const (
	QuestionText           QuestionType = "text"
	QuestionSingleChoice   QuestionType = "single_choice"
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionRating         QuestionType = "rating"
	QuestionYesNo          QuestionType = "yes_no"
)

// IsValid checks if the question type is known
func (t QuestionType) IsValid() bool {
	switch t {
	case QuestionText, QuestionSingleChoice, QuestionMultipleChoice, QuestionRating, QuestionYesNo:
		return true
	}
	return false
}

// Question is one item of a survey
type Question struct {
	ID       string       `json:"id"`
	Text     string       `json:"text"`
	Type     QuestionType `json:"type"`
	Options  []string     `json:"options,omitempty"`
	Required bool         `json:"required"`
}

// Survey is a questionnaire answered during visits
type Survey struct {
	shared.TenantAggregateRoot
	Title       string                  `gorm:"type:varchar(200);not null"`
	Description string                  `gorm:"type:text"`
	SurveyType  string                  `gorm:"type:varchar(50)"`
	Status      Status                  `gorm:"type:varchar(20);not null;default:'draft';index"`
	Questions   shared.JSON[[]Question] `gorm:"type:jsonb;not null"`
}

// TableName returns the table name for GORM
func (Survey) TableName() string {
	return "surveys"
}

// NewSurvey creates a draft survey
func NewSurvey(tenantID uuid.UUID, title, description, surveyType string, questions []Question) (*Survey, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, shared.NewValidationError("title is required")
	}
	if err := validateQuestions(questions); err != nil {
		return nil, err
	}
	if surveyType == "" {
		surveyType = "general"
	}
	return &Survey{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Title:               title,
		Description:         description,
		SurveyType:          surveyType,
		Status:              StatusDraft,
		Questions:           shared.NewJSON(questions),
	}, nil
}

func validateQuestions(questions []Question) error {
	if len(questions) == 0 {
		return shared.NewValidationError("at least one question is required")
	}
	seen := make(map[string]struct{}, len(questions))
	for i, q := range questions {
		if q.ID == "" {
			return shared.NewValidationError("question %d has no id", i+1)
		}
		if _, dup := seen[q.ID]; dup {
			return shared.NewValidationError("duplicate question id %q", q.ID)
		}
		seen[q.ID] = struct{}{}
		if strings.TrimSpace(q.Text) == "" {
			return shared.NewValidationError("question %q has no text", q.ID)
		}
		if !q.Type.IsValid() {
			return shared.NewValidationError("question %q has invalid type %q", q.ID, q.Type)
		}
		if (q.Type == QuestionSingleChoice || q.Type == QuestionMultipleChoice) && len(q.Options) == 0 {
			return shared.NewValidationError("question %q needs options", q.ID)
		}
	}
	return nil
}

// Update replaces survey content; nil questions keep the current set
func (s *Survey) Update(title, description string, status Status, questions []Question) error {
	if title != "" {
		s.Title = strings.TrimSpace(title)
	}
	s.Description = description
	if questions != nil {
		if err := validateQuestions(questions); err != nil {
			return err
		}
		s.Questions = shared.NewJSON(questions)
	}
	if status != "" {
		if !status.IsValid() {
			return shared.NewValidationError("invalid survey status %q", status)
		}
		s.Status = status
	}
	s.IncrementVersion()
	return nil
}

// Question returns a question by id
func (s *Survey) Question(id string) (Question, bool) {
	for _, q := range s.Questions.Data {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}

// ValidateAnswers checks a response map against the survey
func (s *Survey) ValidateAnswers(answers map[string]any) error {
	if s.Status != StatusActive {
		return shared.NewInvalidStateError("survey is %s", s.Status)
	}
	if len(answers) == 0 {
		return shared.NewValidationError("responses are required")
	}
	for _, q := range s.Questions.Data {
		v, ok := answers[q.ID]
		if q.Required && (!ok || isBlank(v)) {
			return shared.NewValidationError("question %q is required", q.ID)
		}
	}
	for id := range answers {
		if _, ok := s.Question(id); !ok {
			return shared.NewValidationError("unknown question %q", id)
		}
	}
	return nil
}

func isBlank(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(x) == ""
	case []any:
		return len(x) == 0
	}
	return false
}

// Response is one completed questionnaire
type Response struct {
	shared.TenantAggregateRoot
	SurveyID    uuid.UUID                   `gorm:"type:uuid;not null;index"`
	CustomerID  uuid.UUID                   `gorm:"type:uuid;not null;index"`
	AgentID     uuid.UUID                   `gorm:"type:uuid;not null;index"`
	VisitID     *uuid.UUID                  `gorm:"type:uuid;index"`
	Responses   shared.JSON[map[string]any] `gorm:"type:jsonb;not null"`
	SubmittedAt time.Time                   `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Response) TableName() string {
	return "survey_responses"
}

// NewResponse records answers after validating them against the survey
func NewResponse(s *Survey, customerID, agentID uuid.UUID, visitID *uuid.UUID, answers map[string]any) (*Response, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewValidationError("customer_id is required")
	}
	if agentID == uuid.Nil {
		return nil, shared.NewValidationError("agent_id is required")
	}
	if err := s.ValidateAnswers(answers); err != nil {
		return nil, err
	}
	return &Response{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(s.TenantID),
		SurveyID:            s.ID,
		CustomerID:          customerID,
		AgentID:             agentID,
		VisitID:             visitID,
		Responses:           shared.NewJSON(answers),
		SubmittedAt:         time.Now(),
	}, nil
}

// answerKey renders an answer as an option-count key
func answerKey(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case bool:
		if x {
			return "yes"
		}
		return "no"
	case float64:
		return fmt.Sprintf("%g", x)
	}
	return fmt.Sprint(v)
}
