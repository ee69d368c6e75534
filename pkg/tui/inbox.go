package tui

import (
	"sync"

	"github.com/devicelab-dev/exploration-panel/pkg/view"
)

// inbox buffers controller notifications until the next Update drains them.
// It is filled from the controller's notify sink, so it never blocks.
type inbox struct {
	mu    sync.Mutex
	notes []view.Notification
}

func (b *inbox) push(n view.Notification) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.notes = append(b.notes, n)
}

func (b *inbox) drain() []view.Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.notes
	b.notes = nil
	return out
}
