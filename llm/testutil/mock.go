// Package testutil provides test utilities for the llm package.
// It includes mock implementations for testing LLM client interactions.
package testutil

import (
	"context"
	"sync"

	"github.com/robin-app/ideation/llm"
)

// MockClient is a thread-safe mock LLM completer for testing.
// It captures the requests passed to Complete() and returns configured
// responses in sequence.
//
// Usage:
//
//	// Single response mock
//	mock := &MockClient{
//	    Responses: []*llm.Response{
//	        {Content: `{"result": "success"}`, Model: "test-model"},
//	    },
//	}
//
//	// Multiple responses (for retry testing)
//	mock := &MockClient{
//	    Responses: []*llm.Response{
//	        {Content: "not json at all", Model: "test-model"},
//	        {Content: `{"result": "success"}`, Model: "test-model"},
//	    },
//	}
//
//	// Error response
//	mock := &MockClient{
//	    Err: llm.NewFatalError(errors.New("connection failed")),
//	}
type MockClient struct {
	mu            sync.Mutex
	requests      []llm.Request
	Responses     []*llm.Response // Responses to return in sequence
	Errs          []error         // Per-call errors; nil entries fall through to Responses
	Err           error           // Error to return on every call (takes precedence)
	ReadyErr      error           // Error returned by Ready()
	callCount     int
	responseIndex int
}

// Complete implements llm.Completer.
// Returns the next response from Responses, or the configured error.
func (m *MockClient) Complete(_ context.Context, req llm.Request) (*llm.Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)
	m.callCount++

	if m.Err != nil {
		return nil, m.Err
	}

	if m.callCount <= len(m.Errs) && m.Errs[m.callCount-1] != nil {
		return nil, m.Errs[m.callCount-1]
	}

	if m.responseIndex < len(m.Responses) {
		resp := m.Responses[m.responseIndex]
		m.responseIndex++
		return resp, nil
	}

	// Default response if no responses configured
	return &llm.Response{Content: "", Model: "test-model"}, nil
}

// Ready implements llm.Completer.
func (m *MockClient) Ready() error {
	return m.ReadyErr
}

// Requests returns a copy of every request passed to Complete().
func (m *MockClient) Requests() []llm.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]llm.Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// CallCount returns the number of times Complete() was called.
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Reset resets the mock's captured state.
// Useful for reusing the same mock instance across multiple test cases.
func (m *MockClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.responseIndex = 0
	m.requests = nil
}
