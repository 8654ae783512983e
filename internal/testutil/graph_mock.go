package testutil

import (
	"context"

	"github.com/meridiancap/Fee-Letter-Backend/internal/graph"
)

// MockGraphClient is a mock implementation of graph.Client for testing.
// It records delivered messages instead of calling the Graph API.
type MockGraphClient struct {
	// MockMessageID is the message ID returned for drafts
	MockMessageID string
	// MockError is the error to return from delivery methods
	MockError error
	// CallCount tracks how many times a delivery method was called
	CallCount int
	// LastMessage holds the most recently delivered message
	LastMessage graph.Message
}

// NewMockGraphClient creates a new mock Graph client with default test data.
func NewMockGraphClient() *MockGraphClient {
	return &MockGraphClient{
		MockMessageID: "AAMkTestDraft1",
	}
}

// CreateDraft mocks draft creation. It records the message and returns the
// configured MockMessageID and MockError.
func (m *MockGraphClient) CreateDraft(_ context.Context, msg graph.Message) (graph.Delivery, error) {
	m.CallCount++
	m.LastMessage = msg
	if m.MockError != nil {
		return graph.Delivery{}, m.MockError
	}
	return graph.Delivery{MessageID: m.MockMessageID, Mode: graph.ModeDraft}, nil
}

// Send mocks immediate delivery. It records the message and returns the
// configured MockError. Like the Graph sendMail endpoint, a successful send
// reports no message ID.
func (m *MockGraphClient) Send(_ context.Context, msg graph.Message) (graph.Delivery, error) {
	m.CallCount++
	m.LastMessage = msg
	if m.MockError != nil {
		return graph.Delivery{}, m.MockError
	}
	return graph.Delivery{Mode: graph.ModeSent}, nil
}

// WithError configures the mock to fail delivery with err.
func (m *MockGraphClient) WithError(err error) *MockGraphClient {
	m.MockError = err
	return m
}
