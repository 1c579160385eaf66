package testutil

import (
	"context"
	"sync"

	"voice-recap/internal/app/model"
)

// SummarizeStep scripts one summarizer invocation: a result or an error.
type SummarizeStep struct {
	Result *model.SummaryResult
	Err    error
}

// MockSummarizer is a scriptable mock implementation of the
// summarize.Summarizer interface. Steps are consumed in order; once the
// script is exhausted the last step repeats.
type MockSummarizer struct {
	mu        sync.Mutex
	Steps     []SummarizeStep
	CallCount int
}

// NewMockSummarizer creates a summarizer that replays the given steps
func NewMockSummarizer(steps ...SummarizeStep) *MockSummarizer {
	return &MockSummarizer{Steps: steps}
}

// Summarize implements the summarize.Summarizer interface
func (m *MockSummarizer) Summarize(ctx context.Context, transcript model.Transcript) (*model.SummaryResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.CallCount
	m.CallCount++
	if i >= len(m.Steps) {
		i = len(m.Steps) - 1
	}
	step := m.Steps[i]
	return step.Result, step.Err
}

// FixedSummary is a convenience constructor for a well-formed result
func FixedSummary(summary string) *model.SummaryResult {
	return &model.SummaryResult{
		Summary: summary,
		Titles:  []string{"First Title", "Second Title", "Third Title"},
	}
}

// MockRecapDAO is an in-memory implementation of repository.RecapDAO
type MockRecapDAO struct {
	mu     sync.Mutex
	nextID int64
	Recaps []model.Recap

	SaveErr error
}

// NewMockRecapDAO creates an empty in-memory DAO
func NewMockRecapDAO() *MockRecapDAO {
	return &MockRecapDAO{nextID: 1}
}

func (m *MockRecapDAO) Close() error { return nil }

func (m *MockRecapDAO) Save(recap *model.Recap) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return 0, m.SaveErr
	}
	recap.ID = m.nextID
	m.nextID++
	m.Recaps = append(m.Recaps, *recap)
	return recap.ID, nil
}

func (m *MockRecapDAO) GetByID(id int64) (*model.Recap, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.Recaps {
		if m.Recaps[i].ID == id {
			r := m.Recaps[i]
			return &r, nil
		}
	}
	return nil, errNotFound
}

func (m *MockRecapDAO) List(limit, offset int) ([]model.Recap, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Recap, 0, limit)
	for i := len(m.Recaps) - 1 - offset; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.Recaps[i])
	}
	return out, nil
}

type notFoundError struct{}

func (notFoundError) Error() string { return "recap not found" }

var errNotFound = notFoundError{}
