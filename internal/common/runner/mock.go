package runner

import (
	"context"
	"sync"
)

// MockRunner implements Executor for testing.
// It records every command it is asked to run. RunFunc and AvailableFunc
// control behavior; by default every command succeeds and is available.
type MockRunner struct {
	RunFunc       func(cmd Command) Outcome
	AvailableFunc func(name string) bool

	mu    sync.Mutex
	calls []Command
}

// NewMockRunner creates a MockRunner where everything succeeds
func NewMockRunner() *MockRunner {
	return &MockRunner{}
}

// Run records the command and returns the configured outcome
func (m *MockRunner) Run(_ context.Context, cmd Command) Outcome {
	m.mu.Lock()
	m.calls = append(m.calls, cmd)
	m.mu.Unlock()

	if m.RunFunc != nil {
		return m.RunFunc(cmd)
	}
	return Outcome{Success: true}
}

// Available returns the configured availability
func (m *MockRunner) Available(name string) bool {
	if m.AvailableFunc != nil {
		return m.AvailableFunc(name)
	}
	return true
}

// Calls returns a copy of the commands run so far
func (m *MockRunner) Calls() []Command {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Command, len(m.calls))
	copy(out, m.calls)
	return out
}

// CommandLines returns the recorded commands rendered as strings
func (m *MockRunner) CommandLines() []string {
	calls := m.Calls()
	lines := make([]string, len(calls))
	for i, c := range calls {
		lines[i] = c.String()
	}
	return lines
}

// Reset forgets recorded calls
func (m *MockRunner) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

// Ensure MockRunner implements Executor interface
var _ Executor = (*MockRunner)(nil)
