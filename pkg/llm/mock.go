package llm

import "context"

// mockClient returns canned completions for tests: a fixed response per
// message, a default otherwise, and an optional scripted error sequence.
type mockClient struct {
	responses       map[string]string
	defaultResponse string
	usage           CacheMetrics

	// errs are returned, in order, before any successful completion.
	errs  []error
	calls int
}

func newMockClient(defaultResponse string) *mockClient {
	return &mockClient{
		responses:       make(map[string]string),
		defaultResponse: defaultResponse,
	}
}

func (m *mockClient) complete(_ context.Context, req request) (*completion, error) {
	m.calls++
	if len(m.errs) > 0 {
		err := m.errs[0]
		m.errs = m.errs[1:]
		return nil, err
	}
	text := m.defaultResponse
	if r, ok := m.responses[req.message]; ok {
		text = r
	}
	return &completion{text: text, usage: m.usage}, nil
}
