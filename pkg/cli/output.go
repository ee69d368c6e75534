package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/devicelab-dev/exploration-panel/pkg/core"
	"github.com/devicelab-dev/exploration-panel/pkg/history"
	"github.com/devicelab-dev/exploration-panel/pkg/panel"
	"github.com/devicelab-dev/exploration-panel/pkg/view"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorGreen  = "\033[32m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
)

// colorsEnabled determines if ANSI colors should be used
var colorsEnabled = true

func init() {
	// Respect NO_COLOR environment variable
	if os.Getenv("NO_COLOR") != "" {
		colorsEnabled = false
		return
	}
	// Check if stdout is a terminal
	if fileInfo, err := os.Stdout.Stat(); err == nil {
		if (fileInfo.Mode() & os.ModeCharDevice) == 0 {
			colorsEnabled = false
		}
	}
}

// color returns the color code if colors are enabled, empty string otherwise
func color(c string) string {
	if colorsEnabled {
		return c
	}
	return ""
}

func printNotification(w io.Writer, n view.Notification) {
	switch n.Level {
	case view.LevelSuccess:
		fmt.Fprintf(w, "  %s✓%s %s\n", color(colorGreen), color(colorReset), n.Message)
	case view.LevelWarning:
		fmt.Fprintf(w, "  %s!%s %s\n", color(colorYellow), color(colorReset), n.Message)
	case view.LevelError:
		fmt.Fprintf(w, "  %s✗%s %s\n", color(colorRed), color(colorReset), n.Message)
	default:
		fmt.Fprintf(w, "  %si%s %s\n", color(colorCyan), color(colorReset), n.Message)
	}
}

func printRows(w io.Writer, rows []view.Row) {
	for _, r := range rows {
		fmt.Fprintf(w, "  %s%2d.%s %s%s%s  %s\n",
			color(colorCyan), r.Index, color(colorReset),
			color(colorBold), r.Name, color(colorReset), r.ExplorationID)
		fmt.Fprintf(w, "      %s%s  %s%s  %s\n",
			color(colorGray), r.URL, r.Date, color(colorReset), formatBadges(r.Badges))
	}
}

func formatBadges(badges []view.Badge) string {
	parts := make([]string, 0, len(badges))
	for _, b := range badges {
		c := colorCyan
		switch b.Kind {
		case view.BadgeSuccess:
			c = colorGreen
		case view.BadgeMuted:
			c = colorGray
		}
		parts = append(parts, color(c)+"["+b.Text+"]"+color(colorReset))
	}
	return strings.Join(parts, " ")
}

func printDetail(w io.Writer, d *view.DetailPanel) {
	fmt.Fprintf(w, "\n  %s%s%s\n", color(colorBold), d.Title.Text, color(colorReset))
	fmt.Fprintln(w, strings.Repeat("─", 60))
	fmt.Fprintf(w, "  URL:     %s\n", d.URL.Text)
	fmt.Fprintf(w, "  Fecha:   %s\n", d.Date.Text)
	fmt.Fprintf(w, "  Páginas: %s\n", d.PageCount.Text)
	if d.ShowBtn.Visible() {
		fmt.Fprintf(w, "  %sTiene casos de prueba guardados%s\n", color(colorGray), color(colorReset))
	}
}

func printCards(w io.Writer, c *view.CaseContainer, withCode bool) {
	if !c.Container.Visible() {
		return
	}
	fmt.Fprintf(w, "\n  %s%s%s\n", color(colorBold), c.Heading, color(colorReset))
	fmt.Fprintln(w, strings.Repeat("─", 60))
	for _, card := range c.Cards {
		marker := color(colorGray) + "○" + color(colorReset)
		if card.HasViewRun() {
			marker = color(colorGreen) + "●" + color(colorReset)
		}
		fmt.Fprintf(w, "  %s %s%d. %s%s", marker, color(colorBold), card.TestID, card.Title, color(colorReset))
		if card.Badge != "" {
			fmt.Fprintf(w, " %s[%s]%s", color(colorGreen), card.Badge, color(colorReset))
		}
		fmt.Fprintln(w)
		if card.Description != "" {
			fmt.Fprintf(w, "      %s\n", card.Description)
		}
		for i, step := range card.Steps {
			fmt.Fprintf(w, "      %d. %s\n", i+1, step)
		}
		for _, exp := range card.Expected {
			fmt.Fprintf(w, "      %s→%s %s\n", color(colorGray), color(colorReset), exp)
		}
		if withCode && card.Code != nil {
			printCode(w, card.Code.Code)
		}
		if card.Result != nil {
			printResultCard(w, card.Result)
		}
	}
}

func printCode(w io.Writer, code string) {
	for _, line := range strings.Split(strings.TrimRight(code, "\n"), "\n") {
		fmt.Fprintf(w, "      %s│%s %s\n", color(colorGray), color(colorReset), line)
	}
}

func printResultCard(w io.Writer, r *view.ResultCard) {
	c := colorRed
	if r.Success {
		c = colorGreen
	}
	fmt.Fprintf(w, "      %sEstado: %s%s\n", color(c), r.Status, color(colorReset))
	if r.Message != "" {
		fmt.Fprintf(w, "      Mensaje: %s\n", r.Message)
	}
	for _, l := range r.Logs {
		fmt.Fprintf(w, "      %s\n", l)
	}
	for _, e := range r.Errors {
		fmt.Fprintf(w, "      %s%s%s\n", color(colorRed), e, color(colorReset))
	}
}

func printExecution(w io.Writer, exec *panel.Execution) {
	c := colorRed
	switch exec.State {
	case core.StateCompleted:
		c = colorGreen
	case core.StateTimeout:
		c = colorYellow
	}
	fmt.Fprintf(w, "\n  %s%s%s  test %d via %s (%s)\n",
		color(c), exec.State, color(colorReset),
		exec.TestCaseID, exec.Source, formatDuration(exec.Duration))
}

func printLogBlock(w io.Writer, b *view.LogBlock) {
	c := colorRed
	if b.Success {
		c = colorGreen
	}
	fmt.Fprintf(w, "\n  %s%s%s\n", color(c), b.Title, color(colorReset))
	for _, l := range b.Lines {
		switch l.Kind {
		case view.LineSuccess:
			fmt.Fprintf(w, "  %s%s%s\n", color(colorGreen), l.Text, color(colorReset))
		case view.LineFailure:
			fmt.Fprintf(w, "  %s%s%s\n", color(colorRed), l.Text, color(colorReset))
		default:
			fmt.Fprintf(w, "  %s\n", l.Text)
		}
	}
}

func printHistory(w io.Writer, entries []history.Entry) {
	for _, e := range entries {
		c := colorRed
		switch e.State {
		case core.StateCompleted.String():
			c = colorGreen
		case core.StateTimeout.String():
			c = colorYellow
		}
		fmt.Fprintf(w, "  %s  %s%-15s%s %s #%d  %s%s%s\n",
			e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			color(c), e.State, color(colorReset),
			e.ExplorationID, e.TestCaseID,
			color(colorGray), formatDuration(e.Duration), color(colorReset))
		if e.Message != "" {
			fmt.Fprintf(w, "      %s\n", e.Message)
		}
	}
}

// formatDuration formats a duration to a human-readable string.
// Shows milliseconds for values < 1s, seconds otherwise.
func formatDuration(d time.Duration) string {
	ms := d.Milliseconds()
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}
	if ms < 60000 {
		return fmt.Sprintf("%.1fs", float64(ms)/1000)
	}
	mins := ms / 60000
	secs := (ms % 60000) / 1000
	return fmt.Sprintf("%dm %ds", mins, secs)
}
