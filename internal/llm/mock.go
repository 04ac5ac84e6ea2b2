package llm

import "context"

// MockClient is a test double for the LLM Client interface.
type MockClient struct {
	Response *Response
	Err      error
	Calls    []string // records prompts sent
	Systems  []string // records system instructions sent

	// Queue, when non-empty, is consumed one response per call before
	// falling back to Response.
	Queue []*Response
}

// Complete records the call and returns the next mock response.
func (m *MockClient) Complete(ctx context.Context, prompt, system string) (*Response, error) {
	m.Calls = append(m.Calls, prompt)
	m.Systems = append(m.Systems, system)
	if m.Err != nil {
		return nil, m.Err
	}
	if len(m.Queue) > 0 {
		next := m.Queue[0]
		m.Queue = m.Queue[1:]
		return next, nil
	}
	return m.Response, nil
}
