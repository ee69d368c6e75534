// Package panel implements the exploration panel controller: it drives the
// exploration service and renders every outcome into a view document.
package panel

import (
	"errors"
	"fmt"
	"sync"

	"github.com/devicelab-dev/exploration-panel/pkg/core"
	"github.com/devicelab-dev/exploration-panel/pkg/logger"
	"github.com/devicelab-dev/exploration-panel/pkg/view"
)

// Config configures a Controller.
type Config struct {
	Service           Service   // Required
	Confirmer         Confirmer // Nil means deletes are not confirmed
	Clipboard         Clipboard // Nil disables CopyCode
	Recorder          Recorder  // Nil disables the execution journal
	DefaultDriverPath string    // Seeded into the ChromeDriver widget on first injection
}

// Session is the state scoped to the selected exploration.
type Session struct {
	Exploration *core.Exploration
	TestCases   []core.TestCase
	Code        map[int]string
	States      map[int]core.ExecutionState
}

func newSession(e *core.Exploration) Session {
	return Session{
		Exploration: e,
		Code:        make(map[int]string),
		States:      make(map[int]core.ExecutionState),
	}
}

// Controller is the exploration panel. Operations may be called from
// several goroutines; network calls run without the lock held and their
// results are dropped if the selection changed in the meantime.
type Controller struct {
	mu sync.Mutex

	svc      Service
	confirm  Confirmer
	clip     Clipboard
	recorder Recorder

	view    *view.Bindings
	session Session
	list    []core.Exploration

	epoch             uint64 // bumped whenever the selection changes
	listSeq           uint64
	pending           int // in-flight operations holding the overlay
	defaultDriverPath string
}

// New creates a controller over a fresh document.
func New(cfg Config) (*Controller, error) {
	if cfg.Service == nil {
		return nil, errors.New("panel: service is required")
	}
	b, err := view.Bind(view.NewDocument())
	if err != nil {
		return nil, fmt.Errorf("panel: %w", err)
	}

	confirm := cfg.Confirmer
	if confirm == nil {
		confirm = AlwaysConfirm
	}

	return &Controller{
		svc:               cfg.Service,
		confirm:           confirm,
		clip:              cfg.Clipboard,
		recorder:          cfg.Recorder,
		view:              b,
		session:           newSession(nil),
		defaultDriverPath: cfg.DefaultDriverPath,
	}, nil
}

// OnNotify registers a sink for notifications. The sink runs with the
// controller locked and must not call back into it.
func (c *Controller) OnNotify(fn func(view.Notification)) {
	c.view.Toasts.SetSink(fn)
}

// View runs fn with the document locked.
func (c *Controller) View(fn func(b *view.Bindings)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c.view)
}

// Notifications returns every notification shown so far.
func (c *Controller) Notifications() []view.Notification {
	return c.view.Toasts.All()
}

// Selected returns a copy of the selected exploration, nil if none.
func (c *Controller) Selected() *core.Exploration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session.Exploration == nil {
		return nil
	}
	e := *c.session.Exploration
	return &e
}

// TestCases returns a copy of the session's test cases.
func (c *Controller) TestCases() []core.TestCase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]core.TestCase(nil), c.session.TestCases...)
}

// Explorations returns the last loaded exploration list.
func (c *Controller) Explorations() []core.Exploration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]core.Exploration(nil), c.list...)
}

// ExecutionState returns the last execution state of a test case.
func (c *Controller) ExecutionState(testID int) core.ExecutionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.States[testID]
}

// Loading reports whether the overlay is shown and its message.
func (c *Controller) Loading() (bool, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view.Overlay.Active(), c.view.Overlay.Message.Text
}

func (c *Controller) beginLoading(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending++
	c.view.Overlay.Show(msg)
}

func (c *Controller) endLoading() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending > 0 {
		c.pending--
	}
	if c.pending == 0 {
		c.view.Overlay.Hide()
	}
}

// notify must be called with c.mu held.
func (c *Controller) notify(level view.Level, msg string) {
	switch level {
	case view.LevelError:
		logger.Error("%s", msg)
	case view.LevelWarning:
		logger.Warn("%s", msg)
	default:
		logger.Info("%s", msg)
	}
	c.view.Toasts.Notify(level, msg)
}

// selection returns a copy of the selected exploration and the current epoch.
func (c *Controller) selection() (core.Exploration, uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session.Exploration == nil {
		return core.Exploration{}, c.epoch, false
	}
	return *c.session.Exploration, c.epoch, true
}

// stale must be called with c.mu held.
func (c *Controller) stale(epoch uint64, op string) bool {
	if epoch == c.epoch {
		return false
	}
	logger.Debug("%s: selection changed, discarding response", op)
	return true
}

// setTestCases replaces the session's test cases. Must be called with c.mu held.
func (c *Controller) setTestCases(cases []core.TestCase) {
	c.session.TestCases = append([]core.TestCase(nil), cases...)
	c.session.Code = make(map[int]string, len(cases))
	c.session.States = make(map[int]core.ExecutionState, len(cases))
	for _, tc := range c.session.TestCases {
		if code := tc.Code(); code != "" {
			c.session.Code[tc.ID] = code
		}
	}
}
