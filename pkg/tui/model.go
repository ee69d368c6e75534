// Package tui is the terminal front end of the exploration panel.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/devicelab-dev/exploration-panel/pkg/core"
	"github.com/devicelab-dev/exploration-panel/pkg/filter"
	"github.com/devicelab-dev/exploration-panel/pkg/panel"
	"github.com/devicelab-dev/exploration-panel/pkg/view"
)

const maxVisibleNotes = 5

type promptMode int

const (
	promptNone promptMode = iota
	promptConfirmDelete
	promptDriverPath
	promptFilter
)

// Options configures a Model.
type Options struct {
	Context context.Context // Defaults to context.Background()
	Filter  *filter.Engine  // Nil disables the "/" filter prompt
}

// Model is the bubbletea model of the panel. The controller must be built
// without a Confirmer: deletions are confirmed by the model's own prompt.
type Model struct {
	ctrl   *panel.Controller
	ctx    context.Context
	engine *filter.Engine
	notes  *inbox

	spinner  spinner.Model
	input    textinput.Model
	codeView viewport.Model

	prompt        promptMode
	pendingDelete string
	where         *filter.Filter

	listCursor int
	caseCursor int
	shown      []view.Notification
	status     string
	width      int
	height     int
}

// NewModel creates a model driving ctrl.
func NewModel(ctrl *panel.Controller, opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(accentPrimary)

	ti := textinput.New()
	ti.CharLimit = 512
	ti.Width = 60

	notes := &inbox{}
	ctrl.OnNotify(notes.push)

	return Model{
		ctrl:     ctrl,
		ctx:      ctx,
		engine:   opts.Filter,
		notes:    notes,
		spinner:  s,
		input:    ti,
		codeView: viewport.New(80, 12),
	}
}

// Init loads the exploration list.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, loadListCmd(m.ctx, m.ctrl, nil))
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.drainNotes()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.codeView.Width = maxInt(20, msg.Width-6)
		m.codeView.Height = maxInt(4, msg.Height/3)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case listLoadedMsg:
		if msg.err != nil && !errors.Is(msg.err, core.ErrStaleResponse) {
			m.status = "No se pudo cargar la lista"
		}
		m.clampCursors()
		return m, nil

	case explorationOpenedMsg:
		m.caseCursor = 0
		m.refreshCode()
		return m, nil

	case explorationDeletedMsg:
		if errors.Is(msg.err, core.ErrCancelled) {
			m.status = "Eliminación cancelada"
		}
		m.clampCursors()
		return m, nil

	case testCasesMsg:
		m.caseCursor = 0
		m.clampCursors()
		m.refreshCode()
		return m, nil

	case codeGeneratedMsg, executedMsg:
		m.refreshCode()
		return m, nil

	case driverVerifiedMsg:
		return m, nil

	case tea.KeyMsg:
		if m.prompt != promptNone {
			return m.updatePrompt(msg)
		}
		return m.updateKeys(msg)
	}

	return m, nil
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.prompt == promptConfirmDelete {
		switch msg.String() {
		case "y", "Y", "s", "S":
			id := m.pendingDelete
			m.prompt = promptNone
			m.pendingDelete = ""
			return m, deleteExplorationCmd(m.ctx, m.ctrl, id)
		case "n", "N", "esc":
			m.prompt = promptNone
			m.pendingDelete = ""
			m.status = "Eliminación cancelada"
		}
		return m, nil
	}

	switch msg.Type {
	case tea.KeyEsc:
		m.closePrompt()
		return m, nil
	case tea.KeyEnter:
		value := m.input.Value()
		mode := m.prompt
		m.closePrompt()
		if mode == promptDriverPath {
			m.ctrl.SetDriverPath(value)
			m.status = "Ruta de ChromeDriver actualizada"
			return m, nil
		}
		return m.applyFilter(value)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) applyFilter(expr string) (tea.Model, tea.Cmd) {
	if strings.TrimSpace(expr) == "" {
		m.where = nil
		m.status = ""
		return m, loadListCmd(m.ctx, m.ctrl, nil)
	}
	if m.engine == nil {
		m.status = "Filtro no disponible"
		return m, nil
	}
	f, err := filter.Compile(expr)
	if err != nil {
		m.status = err.Error()
		return m, nil
	}
	m.where = f
	m.status = "Filtro: " + f.String()
	return m, loadListCmd(m.ctx, m.ctrl, m.engine.Matcher(f))
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "r":
		var match panel.MatchFunc
		if m.where != nil && m.engine != nil {
			match = m.engine.Matcher(m.where)
		}
		return m, loadListCmd(m.ctx, m.ctrl, match)
	}

	if m.activePanel() == view.PanelDetail {
		return m.updateDetailKeys(msg)
	}
	return m.updateListKeys(msg)
}

func (m Model) updateListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := m.rowCount()
	switch msg.String() {
	case "up", "k":
		if m.listCursor > 0 {
			m.listCursor--
		}
	case "down", "j":
		if m.listCursor < rows-1 {
			m.listCursor++
		}
	case "enter":
		if id := m.rowID(m.listCursor); id != "" {
			return m, openExplorationCmd(m.ctx, m.ctrl, id)
		}
	case "d", "delete":
		if id := m.rowID(m.listCursor); id != "" {
			m.prompt = promptConfirmDelete
			m.pendingDelete = id
		}
	case "/":
		m.openPrompt(promptFilter, "exploration.pages > 3", m.whereString())
		return m, textinput.Blink
	}
	return m, nil
}

func (m Model) updateDetailKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	testID, hasCase := m.selectedCase()

	switch msg.String() {
	case "esc", "backspace":
		m.ctrl.CloseDetails()
		m.caseCursor = 0
		return m, nil
	case "g":
		return m, generateTestCasesCmd(m.ctx, m.ctrl)
	case "t":
		return m, showTestCasesCmd(m.ctx, m.ctrl)
	case "d", "delete":
		if e := m.ctrl.Selected(); e != nil {
			m.prompt = promptConfirmDelete
			m.pendingDelete = e.ID
		}
	case "up", "k":
		if m.caseCursor > 0 {
			m.caseCursor--
			m.refreshCode()
		}
	case "down", "j":
		if m.caseCursor < m.caseCount()-1 {
			m.caseCursor++
			m.refreshCode()
		}
	case "c":
		if hasCase {
			return m, generateCodeCmd(m.ctx, m.ctrl, testID)
		}
	case "v", "enter":
		if hasCase {
			if _, err := m.ctrl.ToggleCode(testID); err != nil {
				m.status = "Genere el código primero"
			}
			m.refreshCode()
		}
	case "x":
		if hasCase {
			return m, executeCmd(m.ctx, m.ctrl, testID)
		}
	case "y":
		if hasCase {
			_ = m.ctrl.CopyCode(testID)
			m.drainNotes()
		}
	case "p":
		m.openPrompt(promptDriverPath, view.DriverPathPlaceholder, m.ctrl.DriverPath())
		return m, textinput.Blink
	case "D":
		return m, verifyDriverCmd(m.ctx, m.ctrl)
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.codeView, cmd = m.codeView.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) openPrompt(mode promptMode, placeholder, value string) {
	m.prompt = mode
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Focus()
}

func (m *Model) closePrompt() {
	m.prompt = promptNone
	m.input.Blur()
	m.input.SetValue("")
}

func (m *Model) drainNotes() {
	notes := m.notes.drain()
	if len(notes) == 0 {
		return
	}
	m.shown = append(m.shown, notes...)
	if len(m.shown) > maxVisibleNotes {
		m.shown = m.shown[len(m.shown)-maxVisibleNotes:]
	}
}

func (m Model) whereString() string {
	if m.where == nil {
		return ""
	}
	return m.where.String()
}

func (m Model) activePanel() view.Panel {
	var p view.Panel
	m.ctrl.View(func(b *view.Bindings) { p = b.ActivePanel() })
	return p
}

func (m Model) rowCount() int {
	var n int
	m.ctrl.View(func(b *view.Bindings) { n = b.List.Len() })
	return n
}

func (m Model) rowID(i int) string {
	var id string
	m.ctrl.View(func(b *view.Bindings) {
		if i >= 0 && i < len(b.List.Rows) {
			id = b.List.Rows[i].ExplorationID
		}
	})
	return id
}

func (m Model) caseCount() int {
	var n int
	m.ctrl.View(func(b *view.Bindings) { n = len(b.Cases.Cards) })
	return n
}

func (m Model) selectedCase() (int, bool) {
	var id int
	var ok bool
	m.ctrl.View(func(b *view.Bindings) {
		if m.caseCursor >= 0 && m.caseCursor < len(b.Cases.Cards) {
			id, ok = b.Cases.Cards[m.caseCursor].TestID, true
		}
	})
	return id, ok
}

func (m *Model) clampCursors() {
	m.listCursor = clampInt(m.listCursor, 0, m.rowCount()-1)
	m.caseCursor = clampInt(m.caseCursor, 0, m.caseCount()-1)
}

// refreshCode loads the selected card's code into the viewport when its
// panel is visible.
func (m *Model) refreshCode() {
	content := ""
	m.ctrl.View(func(b *view.Bindings) {
		if m.caseCursor < 0 || m.caseCursor >= len(b.Cases.Cards) {
			return
		}
		if card := b.Cases.Cards[m.caseCursor]; card.CodeVisible() {
			content = card.Code.Code
		}
	})
	m.codeView.SetContent(content)
	m.codeView.GotoTop()
}

// View implements tea.Model.
func (m Model) View() string {
	var body string
	m.ctrl.View(func(b *view.Bindings) {
		var sections []string
		switch b.ActivePanel() {
		case view.PanelDetail:
			sections = append(sections, m.renderDetail(b))
		case view.PanelList:
			sections = append(sections, m.renderList(b))
		default:
			sections = append(sections, panelStyle.Render(mutedStyle.Render("No hay exploraciones guardadas. Pulse r para recargar.")))
		}
		if b.Overlay.Active() {
			sections = append(sections, overlayStyle.Render(m.spinner.View()+" "+b.Overlay.Message.Text))
		}
		body = lipgloss.JoinVertical(lipgloss.Left, sections...)
	})

	parts := []string{headerStyle.Render("Panel de exploraciones"), body}
	if p := m.renderPrompt(); p != "" {
		parts = append(parts, p)
	}
	if notes := m.renderNotes(); notes != "" {
		parts = append(parts, notes)
	}
	if m.status != "" {
		parts = append(parts, mutedStyle.Render(m.status))
	}
	parts = append(parts, helpStyle.Render(m.helpLine()))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderList(b *view.Bindings) string {
	var sb strings.Builder
	sb.WriteString(headerStyle.Render("Exploraciones guardadas"))
	sb.WriteString("\n")
	for i, row := range b.List.Rows {
		line := fmt.Sprintf("%d. %s  %s  %s  %s", row.Index, row.Name, row.URL, row.Date, renderBadges(row.Badges))
		if i == m.listCursor {
			sb.WriteString(selectedStyle.Render("> " + line))
		} else {
			sb.WriteString("  " + line)
		}
		sb.WriteString("\n")
	}
	return focusedPanelStyle.Render(strings.TrimRight(sb.String(), "\n"))
}

func renderBadges(badges []view.Badge) string {
	out := make([]string, 0, len(badges))
	for _, badge := range badges {
		text := "[" + badge.Text + "]"
		switch badge.Kind {
		case view.BadgeSuccess:
			out = append(out, successStyle.Render(text))
		case view.BadgeMuted:
			out = append(out, mutedStyle.Render(text))
		default:
			out = append(out, selectedStyle.Render(text))
		}
	}
	return strings.Join(out, " ")
}

func (m Model) renderDetail(b *view.Bindings) string {
	d := b.Detail
	var sb strings.Builder
	sb.WriteString(headerStyle.Render(d.Title.Text))
	fmt.Fprintf(&sb, "\nURL: %s\nFecha: %s\nPáginas: %s\n", d.URL.Text, d.Date.Text, d.PageCount.Text)
	if d.ShowBtn.Visible() {
		sb.WriteString(mutedStyle.Render("t: Ver Casos de Prueba"))
	} else if d.GenerateBtn.Visible() {
		sb.WriteString(mutedStyle.Render("g: Generar Casos de Prueba"))
	}

	sections := []string{focusedPanelStyle.Render(sb.String())}
	if b.Cases.Container.Visible() {
		sections = append(sections, m.renderCases(b.Cases))
	}
	if b.Driver.Injected() {
		sections = append(sections, renderDriver(b.Driver))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderCases(c *view.CaseContainer) string {
	var sb strings.Builder
	sb.WriteString(headerStyle.Render(c.Heading))
	for i, card := range c.Cards {
		sb.WriteString("\n")
		title := fmt.Sprintf("%d. %s", card.TestID, card.Title)
		if card.Badge != "" {
			title += " " + successStyle.Render("["+card.Badge+"]")
		}
		if i != m.caseCursor {
			sb.WriteString("  " + title)
			continue
		}
		sb.WriteString(selectedStyle.Render("> " + title))
		if card.Description != "" {
			sb.WriteString("\n    " + card.Description)
		}
		for n, step := range card.Steps {
			fmt.Fprintf(&sb, "\n    %d. %s", n+1, step)
		}
		for _, exp := range card.Expected {
			sb.WriteString("\n    • " + exp)
		}
		if card.HasViewRun() {
			sb.WriteString("\n    " + mutedStyle.Render("v: "+card.ViewLabel+"  x: Ejecutar  y: Copiar"))
		} else {
			sb.WriteString("\n    " + mutedStyle.Render("c: Generar Código"))
		}
		if card.CodeVisible() {
			sb.WriteString("\n" + codeStyle.Render(m.codeView.View()))
		}
		if card.Result != nil {
			sb.WriteString("\n" + renderResult(card.Result))
		}
	}
	return panelStyle.Render(sb.String())
}

func renderResult(r *view.ResultCard) string {
	style := errorStyle
	if r.Success {
		style = successStyle
	}
	lines := []string{
		style.Render("Estado: " + r.Status),
		"Mensaje: " + r.Message,
	}
	lines = append(lines, r.Logs...)
	for _, e := range r.Errors {
		lines = append(lines, errorStyle.Render(e))
	}
	return strings.Join(lines, "\n")
}

func renderDriver(w *view.DriverWidget) string {
	path := w.Path.Value
	if path == "" {
		path = mutedStyle.Render("(sin ruta) " + w.Path.Placeholder)
	}
	lines := []string{"ChromeDriver: " + path}
	if w.Logs != nil {
		title := successStyle.Render(w.Logs.Title)
		if !w.Logs.Success {
			title = errorStyle.Render(w.Logs.Title)
		}
		lines = append(lines, title)
		for _, l := range w.Logs.Lines {
			switch l.Kind {
			case view.LineSuccess:
				lines = append(lines, successStyle.Render(l.Text))
			case view.LineFailure:
				lines = append(lines, errorStyle.Render(l.Text))
			default:
				lines = append(lines, l.Text)
			}
		}
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) renderPrompt() string {
	switch m.prompt {
	case promptConfirmDelete:
		return warningStyle.Render("¿Está seguro de que desea eliminar esta exploración? (s/n)")
	case promptDriverPath:
		return "Ruta de ChromeDriver: " + m.input.View()
	case promptFilter:
		return "Filtro: " + m.input.View()
	}
	return ""
}

func (m Model) renderNotes() string {
	lines := make([]string, 0, len(m.shown))
	for _, n := range m.shown {
		switch n.Level {
		case view.LevelSuccess:
			lines = append(lines, successStyle.Render(n.Message))
		case view.LevelWarning:
			lines = append(lines, warningStyle.Render(n.Message))
		case view.LevelError:
			lines = append(lines, errorStyle.Render(n.Message))
		default:
			lines = append(lines, n.Message)
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) helpLine() string {
	if m.prompt != promptNone {
		return "enter: aceptar • esc: cancelar"
	}
	if m.activePanel() == view.PanelDetail {
		return "↑/↓: caso • g/t: casos • c: código • v: ver • x: ejecutar • y: copiar • p/D: chromedriver • esc: volver • q: salir"
	}
	return "↑/↓: mover • enter: abrir • d: eliminar • /: filtrar • r: recargar • q: salir"
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func clampInt(v, low, high int) int {
	if high < low {
		return low
	}
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}
