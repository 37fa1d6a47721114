package llm

import "context"

// MockClient permite tests sin llamar a un LLM real.
type MockClient struct {
	Response string
	Err      error
	// Delay simula latencia; respeta la cancelación del contexto.
	Delay    func(ctx context.Context) error
	Calls    int
	Requests []CompletionRequest
}

func (m *MockClient) Generate(ctx context.Context, req CompletionRequest) (string, error) {
	m.Calls++
	m.Requests = append(m.Requests, req)
	if m.Delay != nil {
		if err := m.Delay(ctx); err != nil {
			return "", err
		}
	}
	return m.Response, m.Err
}
