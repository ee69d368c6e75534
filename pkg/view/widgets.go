package view

import "strings"

// Overlay is the loading indicator.
type Overlay struct {
	Container *Element
	Message   *Element
}

// Show displays the overlay with a message.
func (o *Overlay) Show(msg string) {
	o.Message.Text = msg
	o.Container.Show()
}

// Hide hides the overlay.
func (o *Overlay) Hide() {
	o.Container.Hide()
}

// Active reports whether the overlay is visible.
func (o *Overlay) Active() bool {
	return o.Container.Visible()
}

// Line markers in verification output.
const (
	MarkerSuccess = "✅"
	MarkerFailure = "❌"
)

// LineKind classifies a log line.
type LineKind int

const (
	LinePlain LineKind = iota
	LineSuccess
	LineFailure
)

// LogLine is one classified line of a log block.
type LogLine struct {
	Text string
	Kind LineKind
}

// ClassifyLine tags a line by its success or failure marker.
func ClassifyLine(s string) LineKind {
	switch {
	case strings.Contains(s, MarkerSuccess):
		return LineSuccess
	case strings.Contains(s, MarkerFailure):
		return LineFailure
	default:
		return LinePlain
	}
}

// LogBlock is a success or failure block of classified lines.
type LogBlock struct {
	Success bool
	Title   string
	Lines   []LogLine
}

// NewLogBlock classifies lines, skipping blank ones.
func NewLogBlock(success bool, title string, lines []string) *LogBlock {
	b := &LogBlock{Success: success, Title: title}
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		b.Lines = append(b.Lines, LogLine{Text: l, Kind: ClassifyLine(l)})
	}
	return b
}

// DriverWidget is the ChromeDriver path input with its verification log.
type DriverWidget struct {
	Container *Element
	Path      *Element
	LogArea   *Element
	Logs      *LogBlock

	injected bool
}

// Inject shows the widget the first time it is called and seeds the path.
// Later calls are no-ops and report false.
func (w *DriverWidget) Inject(defaultPath string) bool {
	if w.injected {
		return false
	}
	w.injected = true
	if w.Path.Value == "" {
		w.Path.Value = defaultPath
	}
	w.Container.Show()
	return true
}

// Injected reports whether the widget has been injected.
func (w *DriverWidget) Injected() bool {
	return w.injected
}

// PathValue returns the trimmed path input.
func (w *DriverWidget) PathValue() string {
	return strings.TrimSpace(w.Path.Value)
}

// SetLogs replaces the verification log block.
func (w *DriverWidget) SetLogs(b *LogBlock) {
	w.Logs = b
	w.LogArea.Show()
}
