package desktop

import "sync/atomic"

// ClosePolicy decides what the window close control does: exit the process (true)
// or hide the window (false). It is the only state shared outside the UI dispatcher.
type ClosePolicy struct {
	exitOnClose atomic.Bool
}

// NewClosePolicy returns a policy that exits on close.
func NewClosePolicy() *ClosePolicy {
	p := &ClosePolicy{}
	p.exitOnClose.Store(true)
	return p
}

// Set overwrites the policy. Last write wins.
func (p *ClosePolicy) Set(exitOnClose bool) {
	p.exitOnClose.Store(exitOnClose)
}

// ExitOnClose reports the most recent value.
func (p *ClosePolicy) ExitOnClose() bool {
	return p.exitOnClose.Load()
}
