package survey

import (
	"errors"
	"testing"

	"github.com/erp/distribution/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleQuestions() []Question {
	return []Question{
		{ID: "q1", Text: "Is the shelf stocked?", Type: QuestionYesNo, Required: true},
		{ID: "q2", Text: "Which brands are displayed?", Type: QuestionMultipleChoice, Options: []string{"A", "B", "C"}},
		{ID: "q3", Text: "Rate the display", Type: QuestionRating, Required: true},
		{ID: "q4", Text: "Comments", Type: QuestionText},
	}
}

func activeSurvey(t *testing.T) *Survey {
	t.Helper()
	s, err := NewSurvey(uuid.New(), "Shelf audit", "", "", sampleQuestions())
	require.NoError(t, err)
	require.NoError(t, s.Update("", "", StatusActive, nil))
	return s
}

func TestNewSurvey_Validation(t *testing.T) {
	_, err := NewSurvey(uuid.New(), "", "", "", sampleQuestions())
	assert.Error(t, err)
	_, err = NewSurvey(uuid.New(), "T", "", "", nil)
	assert.Error(t, err)
	_, err = NewSurvey(uuid.New(), "T", "", "", []Question{{ID: "a", Text: "x", Type: QuestionSingleChoice}})
	assert.Error(t, err)
	_, err = NewSurvey(uuid.New(), "T", "", "", []Question{{ID: "a", Text: "x", Type: QuestionText}, {ID: "a", Text: "y", Type: QuestionText}})
	assert.Error(t, err)
}

func TestNewResponse(t *testing.T) {
	draft, err := NewSurvey(uuid.New(), "T", "", "", sampleQuestions())
	require.NoError(t, err)
	_, err = NewResponse(draft, uuid.New(), uuid.New(), nil, map[string]any{"q1": true, "q3": 4.0})
	assert.True(t, errors.Is(err, shared.ErrInvalidState))

	s := activeSurvey(t)
	_, err = NewResponse(s, uuid.New(), uuid.New(), nil, map[string]any{"q1": true})
	assert.Error(t, err, "missing required rating")

	_, err = NewResponse(s, uuid.New(), uuid.New(), nil, map[string]any{})
	assert.Error(t, err)

	_, err = NewResponse(s, uuid.New(), uuid.New(), nil, map[string]any{"q1": true, "q3": 4.0, "zz": 1.0})
	assert.Error(t, err)

	r, err := NewResponse(s, uuid.New(), uuid.New(), nil, map[string]any{"q1": true, "q3": 4.0})
	require.NoError(t, err)
	assert.Equal(t, s.ID, r.SurveyID)
}

func TestAnalyze(t *testing.T) {
	s := activeSurvey(t)
	agent := uuid.New()
	c1, c2 := uuid.New(), uuid.New()

	answers := []struct {
		customer uuid.UUID
		data     map[string]any
	}{
		{c1, map[string]any{"q1": true, "q2": []any{"A", "B"}, "q3": 5.0, "q4": "clean"}},
		{c2, map[string]any{"q1": false, "q2": []any{"A"}, "q3": "4"}},
		{c1, map[string]any{"q1": true, "q3": 4.0}},
	}
	var responses []Response
	for _, a := range answers {
		r, err := NewResponse(s, a.customer, agent, nil, a.data)
		require.NoError(t, err)
		responses = append(responses, *r)
	}

	got := Analyze(s, responses)
	assert.Equal(t, Stats{TotalResponses: 3, UniqueCustomers: 2, UniqueAgents: 1}, got.Stats)
	require.Len(t, got.Questions, 4)

	q1 := got.Questions[0]
	assert.Equal(t, map[string]int{"yes": 2, "no": 1}, q1.OptionCounts)

	q2 := got.Questions[1]
	assert.Equal(t, 2, q2.TotalResponses)
	assert.Equal(t, map[string]int{"A": 2, "B": 1}, q2.OptionCounts)

	q3 := got.Questions[2]
	assert.Equal(t, 3, q3.TotalResponses)
	require.NotNil(t, q3.AverageRating)
	assert.Equal(t, "4.33", q3.AverageRating.StringFixed(2))
	assert.Equal(t, map[int]int{5: 1, 4: 2}, q3.RatingDistribution)

	q4 := got.Questions[3]
	assert.Equal(t, 1, q4.TotalResponses)
	assert.Equal(t, []any{"clean"}, q4.SampleResponses)
}

func TestAnalyze_NoResponses(t *testing.T) {
	s := activeSurvey(t)
	got := Analyze(s, nil)
	assert.Equal(t, 0, got.Stats.TotalResponses)
	assert.Equal(t, "0.00", got.Questions[2].AverageRating.StringFixed(2))
}
