package survey

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const sampleSize = 5

// Stats summarises who answered a survey
type Stats struct {
	TotalResponses  int `json:"total_responses"`
	UniqueCustomers int `json:"unique_customers"`
	UniqueAgents    int `json:"unique_agents"`
}

// QuestionAnalytics is the per-question breakdown
type QuestionAnalytics struct {
	QuestionID         string           `json:"question_id"`
	QuestionText       string           `json:"question_text"`
	Type               QuestionType     `json:"type"`
	TotalResponses     int              `json:"total_responses"`
	OptionCounts       map[string]int   `json:"option_counts,omitempty"`
	AverageRating      *decimal.Decimal `json:"average_rating,omitempty"`
	RatingDistribution map[int]int      `json:"rating_distribution,omitempty"`
	SampleResponses    []any            `json:"sample_responses,omitempty"`
}

// Analytics is the computed result for one survey
type Analytics struct {
	Stats     Stats               `json:"stats"`
	Questions []QuestionAnalytics `json:"analytics"`
}

// Analyze computes response statistics in memory
func Analyze(s *Survey, responses []Response) Analytics {
	customers := make(map[uuid.UUID]struct{})
	agents := make(map[uuid.UUID]struct{})
	for _, r := range responses {
		customers[r.CustomerID] = struct{}{}
		agents[r.AgentID] = struct{}{}
	}

	out := Analytics{
		Stats: Stats{
			TotalResponses:  len(responses),
			UniqueCustomers: len(customers),
			UniqueAgents:    len(agents),
		},
		Questions: make([]QuestionAnalytics, 0, len(s.Questions.Data)),
	}

	for _, q := range s.Questions.Data {
		var answers []any
		for _, r := range responses {
			if v, ok := r.Responses.Data[q.ID]; ok && v != nil {
				answers = append(answers, v)
			}
		}
		qa := QuestionAnalytics{QuestionID: q.ID, QuestionText: q.Text, Type: q.Type}

		switch q.Type {
		case QuestionSingleChoice, QuestionMultipleChoice, QuestionYesNo:
			qa.TotalResponses = len(answers)
			qa.OptionCounts = make(map[string]int)
			for _, a := range answers {
				if list, ok := a.([]any); ok {
					for _, opt := range list {
						qa.OptionCounts[answerKey(opt)]++
					}
					continue
				}
				qa.OptionCounts[answerKey(a)]++
			}
		case QuestionRating:
			qa.RatingDistribution = make(map[int]int)
			sum := 0
			for _, a := range answers {
				n, ok := rating(a)
				if !ok {
					continue
				}
				sum += n
				qa.TotalResponses++
				qa.RatingDistribution[n]++
			}
			avg := decimal.Zero
			if qa.TotalResponses > 0 {
				avg = decimal.NewFromInt(int64(sum)).Div(decimal.NewFromInt(int64(qa.TotalResponses))).Round(2)
			}
			qa.AverageRating = &avg
		default:
			qa.TotalResponses = len(answers)
			qa.SampleResponses = answers[:min(len(answers), sampleSize)]
		}
		out.Questions = append(out.Questions, qa)
	}
	return out
}

// rating reads an integer rating from a JSON-decoded value
func rating(v any) (int, bool) {
	switch x := v.(type) {
	case float64:
		return int(x), true
	case int:
		return x, true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(x))
		return n, err == nil
	}
	return 0, false
}
