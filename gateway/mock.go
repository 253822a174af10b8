package gateway

import (
	"context"
	"fmt"
	"sync"

	"visareq/domain/core"
)

// MockCompleter is a test double returning a fixed response or error.
type MockCompleter struct {
	Response string
	Err      error
}

func (m *MockCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}

// ScriptedCompleter replays responses in call order, one per stage. A nil
// entry yields the paired error instead. Safe for concurrent use.
type ScriptedCompleter struct {
	mu      sync.Mutex
	Calls   []ScriptedCall
	next    int
	Prompts []string
}

// ScriptedCall is one scripted response or failure.
type ScriptedCall struct {
	Response string
	Err      error
}

func (s *ScriptedCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Prompts = append(s.Prompts, prompt)
	if s.next >= len(s.Calls) {
		return "", core.NewProviderError(fmt.Errorf("scripted completer exhausted after %d calls", s.next))
	}
	call := s.Calls[s.next]
	s.next++
	if call.Err != nil {
		return "", call.Err
	}
	return call.Response, nil
}
