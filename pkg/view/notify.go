package view

import "sync"

// maxHistory bounds the notifications kept by a Toaster.
const maxHistory = 200

// Level is the severity of a notification.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarning
	LevelError
)

// String returns the string representation of Level
func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Notification is a transient toast.
type Notification struct {
	Level   Level
	Message string
}

// Toaster collects notifications and forwards them to an optional sink.
type Toaster struct {
	mu      sync.Mutex
	history []Notification
	sink    func(Notification)
}

// SetSink registers a function called for every notification.
func (t *Toaster) SetSink(fn func(Notification)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sink = fn
}

// Notify records a notification and forwards it to the sink.
func (t *Toaster) Notify(level Level, msg string) {
	n := Notification{Level: level, Message: msg}
	t.mu.Lock()
	t.history = append(t.history, n)
	if len(t.history) > maxHistory {
		t.history = t.history[len(t.history)-maxHistory:]
	}
	sink := t.sink
	t.mu.Unlock()

	if sink != nil {
		sink(n)
	}
}

// All returns every notification recorded so far.
func (t *Toaster) All() []Notification {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Notification(nil), t.history...)
}

// Last returns the most recent notification.
func (t *Toaster) Last() (Notification, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.history) == 0 {
		return Notification{}, false
	}
	return t.history[len(t.history)-1], true
}

// Count returns the number of notifications at the given level.
func (t *Toaster) Count(level Level) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, h := range t.history {
		if h.Level == level {
			n++
		}
	}
	return n
}
