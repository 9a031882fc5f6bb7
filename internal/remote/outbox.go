package remote

import (
	"sync/atomic"

	"github.com/xvierd/flow-touch/internal/ports"
)

// DefaultQueueSize is the outbound queue capacity.
const DefaultQueueSize = 3

// Outbox is a bounded notification queue. Offer never blocks: when the
// queue is full the new message is dropped and the queued ones are kept.
type Outbox struct {
	ch      chan ports.Notification
	dropped atomic.Uint64
}

// NewOutbox creates a queue of the given capacity.
func NewOutbox(size int) *Outbox {
	if size < 1 {
		size = DefaultQueueSize
	}
	return &Outbox{ch: make(chan ports.Notification, size)}
}

// Offer enqueues n and reports whether it was accepted.
func (o *Outbox) Offer(n ports.Notification) bool {
	select {
	case o.ch <- n:
		return true
	default:
		o.dropped.Add(1)
		return false
	}
}

// C is the receive side for the dispatcher.
func (o *Outbox) C() <-chan ports.Notification {
	return o.ch
}

// Len returns the number of queued messages.
func (o *Outbox) Len() int {
	return len(o.ch)
}

// Dropped returns how many messages were rejected because the queue was
// full.
func (o *Outbox) Dropped() uint64 {
	return o.dropped.Load()
}
