package notification

import (
	"context"
	"sync"
)

// MemoryNotifier records every message instead of delivering it. Test double.
type MemoryNotifier struct {
	mu   sync.RWMutex
	sent []Message
	fail error
}

// NewMemoryNotifier constructs an empty recorder.
func NewMemoryNotifier() *MemoryNotifier {
	return &MemoryNotifier{}
}

// FailWith makes every subsequent Send return err.
func (n *MemoryNotifier) FailWith(err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.fail = err
}

// Send records the message.
func (n *MemoryNotifier) Send(_ context.Context, message Message) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail != nil {
		return n.fail
	}
	n.sent = append(n.sent, message)
	return nil
}

// Sent returns every recorded message in send order.
func (n *MemoryNotifier) Sent() []Message {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make([]Message, len(n.sent))
	copy(out, n.sent)
	return out
}
