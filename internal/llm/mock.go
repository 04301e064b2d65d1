package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// MockResponse is one scripted reply. Err, when set, is returned as is.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockProvider replays scripted replies in order. Like the real providers
// it checks content against the request schema, so a malformed batch
// comes back as *ErrInvalidResponse rather than reaching the caller.
type MockProvider struct {
	mu       sync.Mutex
	queue    []MockResponse
	fallback func(Request) MockResponse

	// Calls and Purposes record every Generate call in order.
	Calls    []Request
	Purposes []Purpose
}

// NewMockProvider creates a MockProvider that replies with responses.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{queue: responses}
}

// Then queues more replies and returns m.
func (m *MockProvider) Then(responses ...MockResponse) *MockProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, responses...)
	return m
}

// Otherwise sets the reply used once the queue is drained and returns m.
// Without it a drained mock reports the provider as unavailable.
func (m *MockProvider) Otherwise(fn func(Request) MockResponse) *MockProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fallback = fn
	return m
}

func (m *MockProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, req)
	m.Purposes = append(m.Purposes, PurposeFrom(ctx))

	var next MockResponse
	switch {
	case len(m.queue) > 0:
		next = m.queue[0]
		m.queue = m.queue[1:]
	case m.fallback != nil:
		next = m.fallback(req)
	default:
		m.mu.Unlock()
		return nil, &ErrProviderUnavailable{}
	}
	m.mu.Unlock()

	if next.Err != nil {
		return nil, next.Err
	}
	if err := ValidateJSON(req.Schema, next.Content); err != nil {
		return nil, err
	}
	return &Response{
		Content: next.Content,
		Usage:   next.Usage,
		Model:   "mock",
	}, nil
}

func (m *MockProvider) ModelID() string {
	return "mock"
}

// CallCount returns the number of Generate calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
