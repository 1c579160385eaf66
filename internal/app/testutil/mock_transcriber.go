package testutil

import (
	"context"
	"sync"
	"time"

	"voice-recap/internal/app/api"
)

// MockTranscriber is a configurable mock implementation of the
// api.Transcriber interface. Responses and errors are keyed by clip name,
// which the pipeline derives from the segment index, so tests can script
// per-segment behavior.
type MockTranscriber struct {
	mu sync.Mutex

	// Configuration options
	DefaultResponse string
	DefaultError    error
	Latency         time.Duration
	ResponseMap     map[string]string
	ErrorMap        map[string]error

	// State tracking
	CallCount int
	CallNames []string
}

// NewMockTranscriber creates a MockTranscriber with sensible defaults
func NewMockTranscriber() *MockTranscriber {
	return &MockTranscriber{
		DefaultResponse: "mock transcription",
		ResponseMap:     make(map[string]string),
		ErrorMap:        make(map[string]error),
	}
}

// Transcribe implements the api.Transcriber interface
func (m *MockTranscriber) Transcribe(ctx context.Context, clip api.Clip) (string, error) {
	m.mu.Lock()
	m.CallCount++
	m.CallNames = append(m.CallNames, clip.Name)
	m.mu.Unlock()

	if m.Latency > 0 {
		select {
		case <-time.After(m.Latency):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.ErrorMap[clip.Name]; ok {
		return "", err
	}
	if m.DefaultError != nil {
		return "", m.DefaultError
	}
	if text, ok := m.ResponseMap[clip.Name]; ok {
		return text, nil
	}
	return m.DefaultResponse, nil
}

// Calls returns a copy of the clip names seen so far
func (m *MockTranscriber) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.CallNames))
	copy(out, m.CallNames)
	return out
}
