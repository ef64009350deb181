package ui

import (
	"context"
	"sync"

	"github.com/jason-riddle/gallery-go/internal/metrics"
)

// inflight tracks the latest operation of one class. Updates from a
// superseded operation are dropped. Operations started with begin also
// cancel their predecessor; those started with next run to completion.
type inflight struct {
	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

// begin starts a new operation and returns its context, its token and a
// release func that must be called when the operation ends.
func (f *inflight) begin(parent context.Context) (context.Context, uint64, func()) {
	ctx, cancel := context.WithCancel(parent)

	f.mu.Lock()
	if f.cancel != nil {
		f.cancel()
	}
	f.gen++
	token := f.gen
	f.cancel = cancel
	f.mu.Unlock()

	release := func() {
		f.mu.Lock()
		if f.gen == token {
			f.cancel = nil
		}
		f.mu.Unlock()
		cancel()
	}
	return ctx, token, release
}

// next starts a new operation without cancelling earlier ones and returns
// its token.
func (f *inflight) next() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gen++
	return f.gen
}

// apply runs fn only if token still names the latest operation. It reports
// whether fn ran.
func (f *inflight) apply(token uint64, fn func()) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if token != f.gen {
		metrics.StaleUpdatesDropped.Add(1)
		return false
	}
	fn()
	return true
}
