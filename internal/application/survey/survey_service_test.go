package survey

import (
	"context"
	"testing"

	"github.com/erp/distribution/internal/domain/field"
	"github.com/erp/distribution/internal/domain/partner"
	"github.com/erp/distribution/internal/domain/shared"
	"github.com/erp/distribution/internal/domain/survey"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockSurveyRepository struct {
	mock.Mock
}

func (m *MockSurveyRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*survey.Survey, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*survey.Survey), args.Error(1)
}

func (m *MockSurveyRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]survey.Survey, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]survey.Survey), args.Error(1)
}

func (m *MockSurveyRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSurveyRepository) Create(ctx context.Context, s *survey.Survey) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockSurveyRepository) Save(ctx context.Context, s *survey.Survey) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockSurveyRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

// memoryResponses keeps submitted responses in a slice
type memoryResponses struct {
	rows []survey.Response
}

func (m *memoryResponses) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]survey.Response, error) {
	var out []survey.Response
	for _, r := range m.rows {
		if r.TenantID == tenantID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memoryResponses) CountForTenant(ctx context.Context, tenantID uuid.UUID, f shared.Filter) (int64, error) {
	rows, _ := m.FindAllForTenant(ctx, tenantID, f)
	return int64(len(rows)), nil
}

func (m *memoryResponses) FindBySurvey(_ context.Context, tenantID, surveyID uuid.UUID) ([]survey.Response, error) {
	var out []survey.Response
	for _, r := range m.rows {
		if r.TenantID == tenantID && r.SurveyID == surveyID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memoryResponses) CountBySurvey(ctx context.Context, tenantID, surveyID uuid.UUID) (int64, error) {
	rows, _ := m.FindBySurvey(ctx, tenantID, surveyID)
	return int64(len(rows)), nil
}

func (m *memoryResponses) Create(_ context.Context, r *survey.Response) error {
	m.rows = append(m.rows, *r)
	return nil
}

// customers resolves any id except the ones in missing
type customers struct {
	partner.CustomerRepository
	missing map[uuid.UUID]bool
}

func (c customers) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*partner.Customer, error) {
	if c.missing[id] {
		return nil, shared.ErrNotFound
	}
	return &partner.Customer{}, nil
}

type agents struct {
	field.AgentRepository
	missing map[uuid.UUID]bool
}

func (a agents) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*field.Agent, error) {
	if a.missing[id] {
		return nil, shared.ErrNotFound
	}
	return &field.Agent{}, nil
}

func questions() []QuestionInput {
	return []QuestionInput{
		{ID: "q1", Text: "Stock displayed?", Type: "yes_no", Required: true},
		{ID: "q2", Text: "Brand seen", Type: "multiple_choice", Options: []string{"A", "B", "C"}},
		{ID: "q3", Text: "Service rating", Type: "rating", Required: true},
		{ID: "q4", Text: "Comments", Type: "text"},
	}
}

type surveyFixture struct {
	tenantID  uuid.UUID
	surveys   *MockSurveyRepository
	responses *memoryResponses
	missing   map[uuid.UUID]bool
	svc       *SurveyService
}

func newSurveyFixture() *surveyFixture {
	f := &surveyFixture{
		tenantID:  uuid.New(),
		surveys:   new(MockSurveyRepository),
		responses: &memoryResponses{},
		missing:   map[uuid.UUID]bool{},
	}
	f.svc = NewSurveyService(f.surveys, f.responses, customers{missing: f.missing}, agents{missing: f.missing})
	return f
}

func (f *surveyFixture) active(t *testing.T) *survey.Survey {
	t.Helper()
	sv, err := survey.NewSurvey(f.tenantID, "Outlet audit", "", "", toQuestions(questions()))
	require.NoError(t, err)
	sv.Status = survey.StatusActive
	f.surveys.On("FindByIDForTenant", mock.Anything, f.tenantID, sv.ID).Return(sv, nil)
	return sv
}

func TestSurveyService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("draft by default", func(t *testing.T) {
		f := newSurveyFixture()
		f.surveys.On("Create", ctx, mock.AnythingOfType("*survey.Survey")).Return(nil)

		resp, err := f.svc.Create(ctx, f.tenantID, CreateSurveyRequest{Title: "Outlet audit", Questions: questions()})
		require.NoError(t, err)
		assert.Equal(t, "draft", resp.Status)
		assert.Equal(t, "general", resp.SurveyType)
		assert.Len(t, resp.Questions, 4)
	})

	t.Run("choice question without options", func(t *testing.T) {
		f := newSurveyFixture()
		_, err := f.svc.Create(ctx, f.tenantID, CreateSurveyRequest{
			Title:     "Broken",
			Questions: []QuestionInput{{ID: "q1", Text: "Pick", Type: "single_choice"}},
		})
		assert.ErrorIs(t, err, shared.ErrValidation)
		f.surveys.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestSurveyService_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("records a complete response", func(t *testing.T) {
		f := newSurveyFixture()
		sv := f.active(t)

		resp, err := f.svc.Submit(ctx, f.tenantID, sv.ID, SubmitResponseRequest{
			CustomerID: uuid.New(),
			AgentID:    uuid.New(),
			Responses:  map[string]any{"q1": true, "q3": float64(4)},
		})
		require.NoError(t, err)
		assert.Equal(t, sv.ID, resp.SurveyID)
		assert.Len(t, f.responses.rows, 1)
	})

	t.Run("missing required answer", func(t *testing.T) {
		f := newSurveyFixture()
		sv := f.active(t)

		_, err := f.svc.Submit(ctx, f.tenantID, sv.ID, SubmitResponseRequest{
			CustomerID: uuid.New(),
			AgentID:    uuid.New(),
			Responses:  map[string]any{"q1": "yes"},
		})
		assert.ErrorIs(t, err, shared.ErrValidation)
		assert.Empty(t, f.responses.rows)
	})

	t.Run("draft survey", func(t *testing.T) {
		f := newSurveyFixture()
		sv := f.active(t)
		sv.Status = survey.StatusDraft

		_, err := f.svc.Submit(ctx, f.tenantID, sv.ID, SubmitResponseRequest{
			CustomerID: uuid.New(),
			AgentID:    uuid.New(),
			Responses:  map[string]any{"q1": "yes", "q3": 5},
		})
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("unknown customer", func(t *testing.T) {
		f := newSurveyFixture()
		sv := f.active(t)
		customerID := uuid.New()
		f.missing[customerID] = true

		_, err := f.svc.Submit(ctx, f.tenantID, sv.ID, SubmitResponseRequest{
			CustomerID: customerID,
			AgentID:    uuid.New(),
			Responses:  map[string]any{"q1": "yes", "q3": 5},
		})
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestSurveyService_Analytics(t *testing.T) {
	ctx := context.Background()
	f := newSurveyFixture()
	sv := f.active(t)
	customer, agent := uuid.New(), uuid.New()

	answers := []map[string]any{
		{"q1": "yes", "q2": []any{"A", "B"}, "q3": float64(5), "q4": "clean shelf"},
		{"q1": "no", "q2": []any{"A"}, "q3": float64(4)},
		{"q1": "yes", "q3": float64(4)},
	}
	for i, a := range answers {
		c := customer
		if i == 2 {
			c = uuid.New()
		}
		_, err := f.svc.Submit(ctx, f.tenantID, sv.ID, SubmitResponseRequest{CustomerID: c, AgentID: agent, Responses: a})
		require.NoError(t, err)
	}

	got, err := f.svc.Analytics(ctx, f.tenantID, sv.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Stats.TotalResponses)
	assert.Equal(t, 2, got.Stats.UniqueCustomers)
	assert.Equal(t, 1, got.Stats.UniqueAgents)

	require.Len(t, got.Questions, 4)
	assert.Equal(t, map[string]int{"yes": 2, "no": 1}, got.Questions[0].OptionCounts)
	assert.Equal(t, map[string]int{"A": 2, "B": 1}, got.Questions[1].OptionCounts)
	require.NotNil(t, got.Questions[2].AverageRating)
	assert.True(t, decimal.RequireFromString("4.33").Equal(*got.Questions[2].AverageRating))
	assert.Equal(t, map[int]int{4: 2, 5: 1}, got.Questions[2].RatingDistribution)
	assert.Equal(t, []any{"clean shelf"}, got.Questions[3].SampleResponses)
}

func TestSurveyService_Delete_RefusesAnswered(t *testing.T) {
	ctx := context.Background()
	f := newSurveyFixture()
	sv := f.active(t)
	_, err := f.svc.Submit(ctx, f.tenantID, sv.ID, SubmitResponseRequest{
		CustomerID: uuid.New(), AgentID: uuid.New(),
		Responses: map[string]any{"q1": "yes", "q3": 3},
	})
	require.NoError(t, err)

	err = f.svc.Delete(ctx, f.tenantID, sv.ID)
	require.Error(t, err)
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "CONFLICT", de.Code)
	f.surveys.AssertNotCalled(t, "DeleteForTenant", mock.Anything, mock.Anything, mock.Anything)
}
