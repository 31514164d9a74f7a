package gateway

import (
	"context"
	"sync"
)

// ProcessorMock records initiations in memory for tests.
type ProcessorMock struct {
	mu sync.Mutex

	// InitiateErr, when set, is returned by every Initiate call.
	InitiateErr error
	// RedirectURL returned on success; defaults to a fixed test URL.
	RedirectURL string

	Initiated map[string]int64 // ref -> amount
}

func (m *ProcessorMock) Initiate(_ context.Context, amountCents int64, ref string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InitiateErr != nil {
		return "", m.InitiateErr
	}
	if m.Initiated == nil {
		m.Initiated = make(map[string]int64)
	}
	m.Initiated[ref] = amountCents
	if m.RedirectURL == "" {
		return "https://pay.example.com/checkout/" + ref, nil
	}
	return m.RedirectURL, nil
}
