package panel

import (
	"context"
	"errors"
	"time"

	"github.com/devicelab-dev/exploration-panel/pkg/api"
	"github.com/devicelab-dev/exploration-panel/pkg/core"
	"github.com/devicelab-dev/exploration-panel/pkg/fallback"
	"github.com/devicelab-dev/exploration-panel/pkg/history"
	"github.com/devicelab-dev/exploration-panel/pkg/logger"
	"github.com/devicelab-dev/exploration-panel/pkg/view"
)

// Execution is the outcome of one execution request.
type Execution struct {
	TestCaseID int
	State      core.ExecutionState
	Source     fallback.Source
	Result     *core.ExecutionResult // Nil on transport errors
	Err        error                 // Set on transport errors
	Duration   time.Duration
}

// Message returns the text shown for the outcome.
func (e *Execution) Message() string {
	if e.Result != nil {
		return e.Result.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return ""
}

// Execute runs the generated code of a test case remotely. The simple
// endpoint is tried first; on a transport or HTTP failure the legacy
// endpoint is tried once. A reported failure or timeout is a result, not
// an error: only an exhausted fallback returns a non-nil error.
func (c *Controller) Execute(ctx context.Context, testID int) (*Execution, error) {
	c.mu.Lock()
	code := c.codeFor(testID)
	if code == "" {
		c.notify(view.LevelError, msgCodeNotFound)
		c.mu.Unlock()
		return nil, core.ErrNoCode
	}
	driverPath := c.view.Driver.PathValue()
	epoch := c.epoch
	var expID, siteURL string
	if e := c.session.Exploration; e != nil {
		expID, siteURL = e.ID, e.URL
	}
	state, err := c.session.States[testID].Transition(core.StateSubmitted)
	if err != nil {
		// A previous run finished; each request starts from idle.
		state, _ = core.StateIdle.Transition(core.StateSubmitted)
	}
	c.session.States[testID] = state
	c.mu.Unlock()

	c.beginLoading(msgExecuting)
	start := time.Now()
	result, src, err := fallback.Run(ctx,
		fallback.Attempt[*core.ExecutionResult]{
			Name: "execute-simple-test",
			Do: func(ctx context.Context) (*core.ExecutionResult, error) {
				return c.svc.ExecuteSimpleTest(ctx, api.SimpleTestRequest{
					TestCode:         code,
					ChromeDriverPath: driverPath,
				})
			},
		},
		fallback.Attempt[*core.ExecutionResult]{
			Name: "execute-test",
			Do: func(ctx context.Context) (*core.ExecutionResult, error) {
				return c.svc.ExecuteTest(ctx, api.TestRequest{
					Code:             code,
					TestCaseID:       testID,
					ChromeDriverPath: driverPath,
				})
			},
		},
	)
	elapsed := time.Since(start)
	c.endLoading()

	exec := &Execution{
		TestCaseID: testID,
		Source:     src,
		Result:     result,
		Duration:   elapsed,
	}
	if err != nil {
		exec.State = core.StateTransportError
		exec.Err = err
	} else {
		exec.State = result.Status.State()
	}

	c.mu.Lock()
	stale := c.stale(epoch, "execute")
	if !stale {
		c.applyExecution(state, exec)
	}
	c.mu.Unlock()

	c.record(ctx, expID, siteURL, exec)

	if stale {
		return exec, core.ErrStaleResponse
	}
	return exec, exec.Err
}

// applyExecution renders an execution outcome. Must be called with c.mu held.
func (c *Controller) applyExecution(from core.ExecutionState, exec *Execution) {
	if next, err := from.Transition(exec.State); err != nil {
		logger.Warn("execution %d: %v", exec.TestCaseID, err)
	} else {
		c.session.States[exec.TestCaseID] = next
	}

	switch exec.State {
	case core.StateCompleted:
		c.view.Cases.SetResult(exec.TestCaseID, view.NewResultCard(exec.Result))
		if exec.Source == fallback.SourceSecondary {
			c.notify(view.LevelSuccess, msgLegacyRunOK)
		} else {
			c.notify(view.LevelSuccess, msgSimpleRunOK)
		}
	case core.StateFailed:
		c.view.Cases.SetResult(exec.TestCaseID, view.NewResultCard(exec.Result))
		c.notify(view.LevelError, msgRunFailed+exec.Result.Message)
	case core.StateTimeout:
		c.notify(view.LevelWarning, msgRunTimeout)
	case core.StateTransportError:
		c.notify(view.LevelError, msgRunError+exhaustedMessage(exec.Err))
	}
}

// exhaustedMessage reports the last failure of an exhausted fallback, the
// one the user can act on.
func exhaustedMessage(err error) string {
	var ex *fallback.Exhausted
	if errors.As(err, &ex) && ex.Secondary != nil {
		return ex.Secondary.Error()
	}
	return err.Error()
}

func (c *Controller) record(ctx context.Context, expID, siteURL string, exec *Execution) {
	if c.recorder == nil {
		return
	}
	entry := history.Entry{
		ExplorationID: expID,
		URL:           siteURL,
		TestCaseID:    exec.TestCaseID,
		State:         exec.State.String(),
		Source:        exec.Source.String(),
		Message:       exec.Message(),
		Duration:      exec.Duration,
	}
	if exec.Result != nil {
		entry.Status = string(exec.Result.Status)
	}
	if _, err := c.recorder.Record(context.WithoutCancel(ctx), entry); err != nil {
		logger.Warn("record execution %d: %v", exec.TestCaseID, err)
	}
}
