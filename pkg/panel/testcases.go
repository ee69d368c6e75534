package panel

import (
	"context"
	"errors"

	"github.com/devicelab-dev/exploration-panel/pkg/api"
	"github.com/devicelab-dev/exploration-panel/pkg/core"
	"github.com/devicelab-dev/exploration-panel/pkg/fallback"
	"github.com/devicelab-dev/exploration-panel/pkg/logger"
	"github.com/devicelab-dev/exploration-panel/pkg/view"
)

// GenerateTestCases asks the service for new test cases for the selection.
func (c *Controller) GenerateTestCases(ctx context.Context) ([]core.TestCase, error) {
	exp, epoch, ok := c.selection()
	if !ok {
		return nil, core.ErrNoSelection
	}

	c.beginLoading(msgGeneratingTests)
	cases, err := c.svc.GenerateTests(ctx, exp.URL)
	c.endLoading()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stale(epoch, "generate tests") {
		return nil, core.ErrStaleResponse
	}
	if err != nil {
		c.notify(view.LevelError, msgGenerateTestsErr+err.Error())
		return nil, err
	}

	c.setTestCases(cases)
	c.view.Cases.Render(c.session.TestCases)
	c.view.Detail.SetShowMode(true)
	if s := c.session.Exploration; s != nil {
		if s.Summary == nil {
			s.Summary = &core.Summary{}
		}
		s.Summary.HasTestCases = true
		s.Summary.TestCaseCount = len(cases)
	}
	c.notify(view.LevelSuccess, generatedTestsMsg(len(cases)))
	return append([]core.TestCase(nil), cases...), nil
}

// ShowTestCases fetches the stored test cases of the selection with their
// code. The first successful fetch also injects the ChromeDriver widget.
func (c *Controller) ShowTestCases(ctx context.Context) ([]core.TestCase, error) {
	exp, epoch, ok := c.selection()
	if !ok {
		return nil, core.ErrNoSelection
	}

	c.beginLoading(msgLoadingTests)
	resp, err := c.svc.TestCasesWithCode(ctx, exp.ID)
	c.endLoading()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stale(epoch, "show test cases") {
		return nil, core.ErrStaleResponse
	}
	if err != nil {
		c.notify(view.LevelError, msgLoadTestsError+err.Error())
		return nil, err
	}
	if resp.Status != "success" || len(resp.TestCases) == 0 {
		c.notify(view.LevelInfo, msgNoTestCases)
		return nil, nil
	}

	c.setTestCases(resp.TestCases)
	if c.view.Driver.Inject(c.defaultDriverPath) {
		logger.Debug("chromedriver widget injected with %q", c.defaultDriverPath)
	}
	c.view.Cases.Render(c.session.TestCases)
	return append([]core.TestCase(nil), resp.TestCases...), nil
}

// RenderTestCases rebuilds the test-case cards from cases. It performs no
// network call and does not change the session.
func (c *Controller) RenderTestCases(cases []core.TestCase) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view.Cases.Render(cases)
}

// ToggleCode flips the code panel of a card and returns its new visibility.
func (c *Controller) ToggleCode(testID int) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	visible, ok := c.view.Cases.ToggleCode(testID)
	if !ok {
		return false, core.ErrNoCode
	}
	return visible, nil
}

// CopyCode writes the code of a test case to the clipboard.
func (c *Controller) CopyCode(testID int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	code := c.codeFor(testID)
	if code == "" {
		c.notify(view.LevelError, msgCodeNotFound)
		return core.ErrNoCode
	}
	if c.clip == nil {
		err := errors.New("no clipboard available")
		c.notify(view.LevelError, msgClipboardError+err.Error())
		return err
	}
	if err := c.clip.WriteText(code); err != nil {
		c.notify(view.LevelError, msgClipboardError+err.Error())
		return err
	}
	c.notify(view.LevelSuccess, msgCopied)
	return nil
}

// Code returns the generated code of a test case, empty if none.
func (c *Controller) Code(testID int) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.codeFor(testID)
}

// codeFor must be called with c.mu held.
func (c *Controller) codeFor(testID int) string {
	if code, ok := c.session.Code[testID]; ok && code != "" {
		return code
	}
	if tc := core.FindTestCase(c.session.TestCases, testID); tc != nil {
		return tc.Code()
	}
	return ""
}

// GenerateCode generates code for one test case, trying the simple
// endpoint first and the legacy one once if it fails. Only the matching
// card is updated.
func (c *Controller) GenerateCode(ctx context.Context, testID int) (string, error) {
	c.mu.Lock()
	if c.session.Exploration == nil {
		c.mu.Unlock()
		return "", core.ErrNoSelection
	}
	if core.FindTestCase(c.session.TestCases, testID) == nil {
		c.notify(view.LevelError, msgTestNotFound)
		c.mu.Unlock()
		return "", core.ErrTestCaseNotFound
	}
	siteURL := c.session.Exploration.URL
	epoch := c.epoch
	c.mu.Unlock()

	c.beginLoading(msgGeneratingCode)
	resp, src, err := fallback.Run(ctx,
		fallback.Attempt[*api.CodeResponse]{
			Name: "generate-simple-code",
			Do: func(ctx context.Context) (*api.CodeResponse, error) {
				return c.svc.GenerateSimpleCode(ctx, testID, siteURL)
			},
		},
		fallback.Attempt[*api.CodeResponse]{
			Name: "generate-code",
			Do: func(ctx context.Context) (*api.CodeResponse, error) {
				return c.svc.GenerateCode(ctx, testID, siteURL)
			},
		},
	)
	c.endLoading()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stale(epoch, "generate code") {
		return "", core.ErrStaleResponse
	}
	if err != nil {
		c.notify(view.LevelError, msgCodeError+err.Error())
		return "", err
	}

	tc := core.FindTestCase(c.session.TestCases, testID)
	if tc == nil {
		return "", core.ErrTestCaseNotFound
	}
	tc.SetCode(resp.Code)
	c.session.Code[testID] = resp.Code
	c.view.Cases.AttachCode(testID, resp.Code)

	if src == fallback.SourcePrimary {
		c.notify(view.LevelSuccess, msgSimpleCodeOK)
	} else {
		c.notify(view.LevelSuccess, msgLegacyCodeOK)
	}
	return resp.Code, nil
}
