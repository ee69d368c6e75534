// Package report exports the test cases of an exploration, with their code
// and last execution, as JSON, HTML or XLSX.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/devicelab-dev/exploration-panel/pkg/core"
	"github.com/devicelab-dev/exploration-panel/pkg/history"
)

// Format is an export format.
type Format string

const (
	FormatJSON Format = "json"
	FormatHTML Format = "html"
	FormatXLSX Format = "xlsx"
)

// ParseFormat parses a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatHTML, FormatXLSX:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (expected json, html or xlsx)", s)
	}
}

// Report is the exported state of one exploration.
type Report struct {
	Title       string      `json:"title"`
	GeneratedAt time.Time   `json:"generated_at"`
	Exploration Exploration `json:"exploration"`
	Summary     Summary     `json:"summary"`
	TestCases   []Case      `json:"test_cases"`
}

// Exploration is the exported header of the exploration.
type Exploration struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	URL       string `json:"url"`
	CreatedAt string `json:"created_at,omitempty"`
	Pages     int    `json:"pages"`
}

// Summary counts test cases by code and last outcome.
type Summary struct {
	Total     int `json:"total"`
	WithCode  int `json:"with_code"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
	Timeout   int `json:"timeout"`
	Errored   int `json:"errored"`
	NotRun    int `json:"not_run"`
}

// Case is one exported test case.
type Case struct {
	ID              int      `json:"id"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Steps           []string `json:"steps"`
	ExpectedResults []string `json:"expected_results"`
	Code            string   `json:"code,omitempty"`
	LastRun         *Run     `json:"last_run,omitempty"`
}

// Run is the last recorded execution of a case.
type Run struct {
	State    string    `json:"state"`
	Source   string    `json:"source"`
	Message  string    `json:"message"`
	Duration string    `json:"duration"`
	At       time.Time `json:"at"`
}

// Build assembles a report. runs may hold several entries per test case,
// newest first; only the first one per case is kept.
func Build(e core.Exploration, cases []core.TestCase, runs []history.Entry) *Report {
	latest := make(map[int]history.Entry)
	for _, r := range runs {
		if r.ExplorationID != "" && r.ExplorationID != e.ID {
			continue
		}
		if _, seen := latest[r.TestCaseID]; !seen {
			latest[r.TestCaseID] = r
		}
	}

	rep := &Report{
		Title:       "Casos de Prueba - " + e.DisplayName(e.URL),
		GeneratedAt: time.Now(),
		Exploration: Exploration{
			ID:        e.ID,
			Name:      e.DisplayName(""),
			URL:       e.URL,
			CreatedAt: e.CreatedAt.Display(),
			Pages:     e.PageCount(),
		},
		TestCases: make([]Case, 0, len(cases)),
	}

	for i := range cases {
		tc := &cases[i]
		c := Case{
			ID:              tc.ID,
			Title:           tc.Title,
			Description:     tc.Description,
			Steps:           tc.Steps,
			ExpectedResults: tc.ExpectedResults,
			Code:            tc.Code(),
		}
		if c.Code != "" {
			rep.Summary.WithCode++
		}
		if r, ok := latest[tc.ID]; ok {
			c.LastRun = &Run{
				State:    r.State,
				Source:   r.Source,
				Message:  r.Message,
				Duration: formatDuration(r.Duration),
				At:       r.CreatedAt,
			}
		}
		rep.Summary.count(c.LastRun)
		rep.TestCases = append(rep.TestCases, c)
	}
	rep.Summary.Total = len(rep.TestCases)
	return rep
}

func (s *Summary) count(r *Run) {
	if r == nil {
		s.NotRun++
		return
	}
	switch r.State {
	case core.StateCompleted.String():
		s.Completed++
	case core.StateFailed.String():
		s.Failed++
	case core.StateTimeout.String():
		s.Timeout++
	default:
		s.Errored++
	}
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
}

// WriteJSON writes the report as indented JSON.
func WriteJSON(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteFile writes the report to path in the given format, creating
// parent directories as needed.
func WriteFile(path string, format Format, r *Report) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	if format == FormatXLSX {
		return WriteXLSX(path, r)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	switch format {
	case FormatJSON:
		err = WriteJSON(f, r)
	case FormatHTML:
		err = WriteHTML(f, r)
	default:
		err = fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", format, err)
	}
	return f.Close()
}
