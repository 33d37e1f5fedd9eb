package testutils

import (
	"context"
	"sync"

	"taskhub/pkg/mailer"
)

// FakeMailer records sent messages. When FailOn is n > 0 the n-th send
// (1-based) returns Err.
type FakeMailer struct {
	mu     sync.Mutex
	Sent   []mailer.Message
	FailOn int
	Err    error
	calls  int
}

func (m *FakeMailer) Send(ctx context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.FailOn > 0 && m.calls == m.FailOn {
		return m.Err
	}
	m.Sent = append(m.Sent, msg)
	return nil
}

func (m *FakeMailer) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
