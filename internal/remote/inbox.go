package remote

import "sync/atomic"

// Inbox holds at most one pending request per command. Repeated requests
// before the next drain collapse into one.
type Inbox struct {
	pending [commandCount]atomic.Bool
}

// NewInbox creates an empty inbox.
func NewInbox() *Inbox {
	return &Inbox{}
}

// Fire marks c as pending. Safe for concurrent use.
func (in *Inbox) Fire(c Command) {
	if c < 0 || c >= commandCount {
		return
	}
	in.pending[c].Store(true)
}

// Drain clears and returns the pending commands in the fixed order start,
// pause, resume, stop, mode.
func (in *Inbox) Drain() []Command {
	var out []Command
	for c := Command(0); c < commandCount; c++ {
		if in.pending[c].Swap(false) {
			out = append(out, c)
		}
	}
	return out
}
