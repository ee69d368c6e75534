package view

import (
	"fmt"

	"github.com/devicelab-dev/exploration-panel/pkg/core"
)

// Card labels.
const (
	LabelViewCode = "Ver Código"
	LabelHideCode = "Ocultar Código"
)

// CasesHeading returns the heading of the test-case container.
func CasesHeading(n int) string {
	return fmt.Sprintf("Casos de Prueba (%d)", n)
}

// CardActions selects the action set of a card.
type CardActions int

const (
	ActionsGenerate CardActions = iota // single "generate code" action
	ActionsViewRun                     // "view code" and "run" actions
)

// String returns the string representation of CardActions
func (a CardActions) String() string {
	if a == ActionsViewRun {
		return "view-run"
	}
	return "generate"
}

// CodePanel is the collapsible code block of a card.
type CodePanel struct {
	Element *Element
	Code    string
}

// ResultCard is the outcome of the last execution of a card.
type ResultCard struct {
	Success bool
	Status  string
	Message string
	Logs    []string
	Errors  []string
}

// NewResultCard builds a result card from a completed or failed execution.
func NewResultCard(r *core.ExecutionResult) *ResultCard {
	return &ResultCard{
		Success: r.Status.IsSuccess(),
		Status:  string(r.Status),
		Message: r.Message,
		Logs:    r.LogLines(),
		Errors:  r.ErrorLines(),
	}
}

// Card renders one test case.
type Card struct {
	TestID      int
	Title       string
	Description string
	Steps       []string
	Expected    []string
	Badge       string
	Actions     CardActions
	ViewLabel   string
	Code        *CodePanel
	Result      *ResultCard
}

// HasViewRun reports whether the card offers the view and run actions.
func (c *Card) HasViewRun() bool {
	return c.Actions == ActionsViewRun
}

// CodeVisible reports whether the code panel is shown.
func (c *Card) CodeVisible() bool {
	return c.Code != nil && c.Code.Element.Visible()
}

// CaseContainer holds the rendered test-case cards.
type CaseContainer struct {
	Container *Element
	Heading   string
	Cards     []*Card

	doc *Document
}

// Render rebuilds every card from cases. Card handles and code panels of a
// previous render are dropped, so rendering the same list twice yields the
// same tree.
func (c *CaseContainer) Render(cases []core.TestCase) {
	c.Clear()
	c.Heading = CasesHeading(len(cases))
	c.Cards = make([]*Card, 0, len(cases))
	for i := range cases {
		c.Cards = append(c.Cards, c.newCard(&cases[i]))
	}
	c.Container.Show()
}

func (c *CaseContainer) newCard(tc *core.TestCase) *Card {
	card := &Card{
		TestID:      tc.ID,
		Title:       tc.Title,
		Description: tc.Description,
		Steps:       append([]string(nil), tc.Steps...),
		Expected:    append([]string(nil), tc.ExpectedResults...),
		Actions:     ActionsGenerate,
	}
	if tc.HasCode() {
		card.Actions = ActionsViewRun
		card.ViewLabel = LabelViewCode
		card.Code = c.newCodePanel(tc.ID, tc.Code())
	}
	return card
}

func (c *CaseContainer) newCodePanel(testID int, code string) *CodePanel {
	el := c.doc.Register(CodeContainerID(testID))
	el.Hidden = true
	el.Text = code
	return &CodePanel{Element: el, Code: code}
}

// Clear empties and hides the container.
func (c *CaseContainer) Clear() {
	for _, card := range c.Cards {
		if card.Code != nil {
			c.doc.Remove(card.Code.Element.ID)
		}
	}
	c.Cards = nil
	c.Heading = ""
	c.Container.Hide()
}

// Card returns the card of a test case, nil if not rendered.
func (c *CaseContainer) Card(testID int) *Card {
	for _, card := range c.Cards {
		if card.TestID == testID {
			return card
		}
	}
	return nil
}

// AttachCode updates one card in place after code generation: actions
// become view/run, the code panel is appended unless present, and the
// code-available badge is set.
func (c *CaseContainer) AttachCode(testID int, code string) (*Card, bool) {
	card := c.Card(testID)
	if card == nil {
		return nil, false
	}
	card.Actions = ActionsViewRun
	if card.ViewLabel == "" {
		card.ViewLabel = LabelViewCode
	}
	if card.Code == nil {
		card.Code = c.newCodePanel(testID, code)
	} else {
		card.Code.Code = code
		card.Code.Element.Text = code
	}
	card.Badge = BadgeCodeAvailable
	return card, true
}

// ToggleCode flips the code panel of a card and its label. It returns the
// new visibility.
func (c *CaseContainer) ToggleCode(testID int) (bool, bool) {
	card := c.Card(testID)
	if card == nil || card.Code == nil {
		return false, false
	}
	el := card.Code.Element
	el.SetVisible(el.Hidden)
	if el.Visible() {
		card.ViewLabel = LabelHideCode
	} else {
		card.ViewLabel = LabelViewCode
	}
	return el.Visible(), true
}

// SetResult replaces the result card of a test case.
func (c *CaseContainer) SetResult(testID int, r *ResultCard) bool {
	card := c.Card(testID)
	if card == nil {
		return false
	}
	card.Result = r
	return true
}
