package view

import (
	"fmt"

	"github.com/devicelab-dev/exploration-panel/pkg/core"
)

// Badge labels.
const (
	BadgeNoTests       = "No hay tests"
	BadgeCodeGenerated = "Código Generado"
	BadgeCodeAvailable = "Código disponible"

	NameFallbackList   = "Sin nombre"
	NameFallbackDetail = "Exploración sin nombre"
)

// TestCasesBadge returns the test-count badge of a list row.
func TestCasesBadge(n int) string {
	return fmt.Sprintf("%d Test Cases", n)
}

// Badge is a status label attached to a row or card.
type Badge struct {
	Text string
	Kind BadgeKind
}

// BadgeKind selects the badge styling.
type BadgeKind int

const (
	BadgeInfo BadgeKind = iota
	BadgeSuccess
	BadgeMuted
)

// String returns the string representation of BadgeKind
func (k BadgeKind) String() string {
	switch k {
	case BadgeSuccess:
		return "success"
	case BadgeMuted:
		return "muted"
	default:
		return "info"
	}
}

// Row is one exploration in the saved-explorations table.
type Row struct {
	Index         int
	ExplorationID string
	Name          string
	URL           string
	Date          string
	Badges        []Badge
}

// ListPanel is the saved-explorations table.
type ListPanel struct {
	Container *Element
	Table     *Element
	Rows      []Row
}

// NewRow builds the table row for an exploration at a 1-based index.
func NewRow(index int, e core.Exploration) Row {
	row := Row{
		Index:         index,
		ExplorationID: e.ID,
		Name:          e.DisplayName(NameFallbackList),
		URL:           e.URL,
		Date:          e.CreatedAt.Display(),
	}
	if e.HasTestCases() {
		row.Badges = append(row.Badges, Badge{Text: TestCasesBadge(e.TestCaseCount()), Kind: BadgeInfo})
	} else {
		row.Badges = append(row.Badges, Badge{Text: BadgeNoTests, Kind: BadgeMuted})
	}
	if e.HasGeneratedCode() {
		row.Badges = append(row.Badges, Badge{Text: BadgeCodeGenerated, Kind: BadgeSuccess})
	}
	return row
}

// SetRows replaces the table rows, numbering them from 1.
func (l *ListPanel) SetRows(explorations []core.Exploration) {
	rows := make([]Row, 0, len(explorations))
	for i, e := range explorations {
		rows = append(rows, NewRow(i+1, e))
	}
	l.Rows = rows
}

// RemoveRow removes the row of the given exploration and reports whether one was found.
func (l *ListPanel) RemoveRow(explorationID string) bool {
	for i, r := range l.Rows {
		if r.ExplorationID == explorationID {
			l.Rows = append(l.Rows[:i], l.Rows[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of rows.
func (l *ListPanel) Len() int {
	return len(l.Rows)
}

// DetailPanel shows one exploration.
type DetailPanel struct {
	Container   *Element
	Title       *Element
	URL         *Element
	Date        *Element
	PageCount   *Element
	ShowBtn     *Element
	GenerateBtn *Element
}

// Fill writes the exploration fields into the panel and picks the action.
func (d *DetailPanel) Fill(e *core.Exploration) {
	d.Title.Text = e.DisplayName(NameFallbackDetail)
	d.URL.Text = e.URL
	d.Date.Text = e.CreatedAt.Display()
	d.PageCount.Text = fmt.Sprint(e.PageCount())
	d.SetShowMode(e.HasTestCases())
}

// SetShowMode shows exactly one of the show and generate actions.
func (d *DetailPanel) SetShowMode(show bool) {
	d.ShowBtn.SetVisible(show)
	d.GenerateBtn.SetVisible(!show)
}

// Clear empties the detail fields.
func (d *DetailPanel) Clear() {
	d.Title.Text = ""
	d.URL.Text = ""
	d.Date.Text = ""
	d.PageCount.Text = ""
	d.ShowBtn.Hide()
	d.GenerateBtn.Hide()
}
