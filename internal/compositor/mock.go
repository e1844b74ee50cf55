package compositor

import "sync"

// MockClient records issued actions for testing.
type MockClient struct {
	mu      sync.Mutex
	actions []Action
	err     error
}

// NewMockClient creates a MockClient that accepts every action.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Do records the action and returns the configured error, if any.
func (m *MockClient) Do(action Action) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.actions = append(m.actions, action)
	return nil
}

// Actions returns a copy of every recorded action in issue order.
func (m *MockClient) Actions() []Action {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Action, len(m.actions))
	copy(out, m.actions)
	return out
}

// Fail makes subsequent Do calls return err.
func (m *MockClient) Fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}
