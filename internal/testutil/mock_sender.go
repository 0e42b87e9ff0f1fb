package testutil

import (
	"context"
	"sync"

	"github.com/roberto3101/LibroReclamacionesCodePlex/internal/core/notification"
)

// MockSender records outbound emails for assertions. Safe for concurrent use
// since the dispatcher delivers from multiple workers.
type MockSender struct {
	SendFunc func(ctx context.Context, email notification.Email) error

	mu   sync.Mutex
	sent []notification.Email
}

func (m *MockSender) Send(ctx context.Context, email notification.Email) error {
	m.mu.Lock()
	m.sent = append(m.sent, email)
	m.mu.Unlock()

	if m.SendFunc != nil {
		return m.SendFunc(ctx, email)
	}
	return nil
}

// Sent returns a copy of every email delivered so far.
func (m *MockSender) Sent() []notification.Email {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]notification.Email, len(m.sent))
	copy(out, m.sent)
	return out
}

// Ensure MockSender implements notification.Sender interface.
var _ notification.Sender = (*MockSender)(nil)
