package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/exploration-panel/pkg/core"
	"github.com/devicelab-dev/exploration-panel/pkg/filter"
	"github.com/devicelab-dev/exploration-panel/pkg/history"
	"github.com/devicelab-dev/exploration-panel/pkg/logger"
	"github.com/devicelab-dev/exploration-panel/pkg/panel"
	"github.com/devicelab-dev/exploration-panel/pkg/report"
	"github.com/devicelab-dev/exploration-panel/pkg/tui"
	"github.com/devicelab-dev/exploration-panel/pkg/view"
)

var listCommand = &cli.Command{
	Name:  "list",
	Usage: "List saved explorations",
	Description: `Fetch every saved exploration and print the table.

--where filters the list client-side with a JavaScript expression. The
exploration is bound as "exploration" and each field as a global:
id, name, domain, url, created, pages, hasTests, hasCode, testCount.

Examples:
  explorer list
  explorer list --where 'hasTests && testCount > 5'
  explorer list --html saved.html`,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "where",
			Usage: "JavaScript filter expression",
		},
		&cli.StringFlag{
			Name:  "html",
			Usage: "Also render the panel as HTML to this file",
		},
	},
	Action: runList,
}

func runList(c *cli.Context) error {
	var match panel.MatchFunc
	if expr := c.String("where"); expr != "" {
		f, err := filter.Compile(expr)
		if err != nil {
			return err
		}
		match = filter.New().Matcher(f)
	}

	s, err := openSession(c, sessionOptions{})
	if err != nil {
		return err
	}
	defer s.Close()

	if _, err := s.ctrl.LoadListWhere(c.Context, match); err != nil {
		return err
	}
	s.ctrl.View(func(b *view.Bindings) { printRows(s.out, b.List.Rows) })
	return writeHTML(s, c.String("html"), "Exploraciones guardadas")
}

var showCommand = &cli.Command{
	Name:      "show",
	Usage:     "Show one exploration",
	ArgsUsage: "<exploration-id>",
	Action: func(c *cli.Context) error {
		id, err := explorationArg(c)
		if err != nil {
			return err
		}
		s, err := openSession(c, sessionOptions{})
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.open(c.Context, id); err != nil {
			return err
		}
		s.ctrl.View(func(b *view.Bindings) { printDetail(s.out, b.Detail) })
		return nil
	},
}

var deleteCommand = &cli.Command{
	Name:      "delete",
	Usage:     "Delete an exploration",
	ArgsUsage: "<exploration-id>",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    "yes",
			Aliases: []string{"y"},
			Usage:   "Do not ask for confirmation",
		},
	},
	Action: func(c *cli.Context) error {
		id, err := explorationArg(c)
		if err != nil {
			return err
		}
		opts := sessionOptions{}
		if !c.Bool("yes") {
			opts.confirmer = promptConfirmer(c.App.Writer, c.App.Reader)
		}
		s, err := openSession(c, opts)
		if err != nil {
			return err
		}
		defer s.Close()

		// The list is loaded first so the "no more explorations" notice
		// reflects what is actually left.
		if _, err := s.ctrl.LoadList(c.Context); err != nil {
			return err
		}
		err = s.ctrl.DeleteExploration(c.Context, id)
		if errors.Is(err, core.ErrCancelled) {
			return nil
		}
		return err
	},
}

var generateTestsCommand = &cli.Command{
	Name:      "generate-tests",
	Usage:     "Generate test cases for an exploration",
	ArgsUsage: "<exploration-id>",
	Action: func(c *cli.Context) error {
		id, err := explorationArg(c)
		if err != nil {
			return err
		}
		s, err := openSession(c, sessionOptions{})
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.open(c.Context, id); err != nil {
			return err
		}
		if _, err := s.ctrl.GenerateTestCases(c.Context); err != nil {
			return err
		}
		s.ctrl.View(func(b *view.Bindings) { printCards(s.out, b.Cases, false) })
		return nil
	},
}

var testCasesCommand = &cli.Command{
	Name:      "test-cases",
	Usage:     "Show the stored test cases of an exploration with their code",
	ArgsUsage: "<exploration-id>",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "code",
			Usage: "Print generated code under each test case",
		},
		&cli.StringFlag{
			Name:  "html",
			Usage: "Also render the panel as HTML to this file",
		},
	},
	Action: func(c *cli.Context) error {
		id, err := explorationArg(c)
		if err != nil {
			return err
		}
		s, err := openSession(c, sessionOptions{})
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.openWithCases(c.Context, id); err != nil {
			return err
		}
		s.ctrl.View(func(b *view.Bindings) {
			printDetail(s.out, b.Detail)
			printCards(s.out, b.Cases, c.Bool("code"))
		})
		return writeHTML(s, c.String("html"), "")
	},
}

var generateCodeCommand = &cli.Command{
	Name:      "generate-code",
	Usage:     "Generate automation code for one test case",
	ArgsUsage: "<exploration-id> <test-case-id>",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "save",
			Usage: "Directory to save the code as test_case_<id>_<timestamp>.py",
		},
	},
	Action: func(c *cli.Context) error {
		id, testID, err := testCaseArgs(c)
		if err != nil {
			return err
		}
		s, err := openSession(c, sessionOptions{})
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.openWithCases(c.Context, id); err != nil {
			return err
		}
		code, err := s.ctrl.GenerateCode(c.Context, testID)
		if err != nil {
			return err
		}
		printCode(s.out, code)

		if dir := c.String("save"); dir != "" {
			path, err := saveCode(dir, testID, code, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(s.out, "  Saved to %s\n", path)
		}
		return nil
	},
}

// saveCode writes code under dir with the download file name the panel uses.
func saveCode(dir string, testID int, code string, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	name := fmt.Sprintf("test_case_%d_%d.py", testID, now.UnixMilli())
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(code), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

var runCommand = &cli.Command{
	Name:      "run",
	Usage:     "Execute the generated code of a test case",
	ArgsUsage: "<exploration-id> <test-case-id>",
	Description: `Run the generated code of a test case through the service. The
visual-mode endpoint is tried first, then the standard one.

The ChromeDriver path comes from --chrome-driver, then chromeDriverPath
in explorer.yaml. An empty path is omitted from the request.`,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "chrome-driver",
			Usage:   "ChromeDriver executable path",
			EnvVars: []string{"EXPLORER_CHROME_DRIVER"},
		},
	},
	Action: func(c *cli.Context) error {
		id, testID, err := testCaseArgs(c)
		if err != nil {
			return err
		}
		s, err := openSession(c, sessionOptions{withHistory: true})
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.openWithCases(c.Context, id); err != nil {
			return err
		}
		if c.IsSet("chrome-driver") {
			s.ctrl.SetDriverPath(c.String("chrome-driver"))
		}

		exec, err := s.ctrl.Execute(c.Context, testID)
		if exec != nil {
			printExecution(s.out, exec)
			s.ctrl.View(func(b *view.Bindings) {
				if card := b.Cases.Card(testID); card != nil && card.Result != nil {
					printResultCard(s.out, card.Result)
				}
			})
		}
		if err != nil {
			return err
		}
		if exec.State != core.StateCompleted {
			return fmt.Errorf("test %d: %s", testID, exec.State)
		}
		return nil
	},
}

var verifyDriverCommand = &cli.Command{
	Name:  "verify-driver",
	Usage: "Check that ChromeDriver can start Chrome on the service host",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "chrome-driver",
			Usage:   "ChromeDriver executable path",
			EnvVars: []string{"EXPLORER_CHROME_DRIVER"},
		},
		&cli.BoolFlag{
			Name:  "script",
			Usage: "Print the verification script instead of running it",
		},
	},
	Action: func(c *cli.Context) error {
		s, err := openSession(c, sessionOptions{})
		if err != nil {
			return err
		}
		defer s.Close()

		path := s.cfg.ChromeDriverPath
		if c.IsSet("chrome-driver") {
			path = c.String("chrome-driver")
		}
		if c.Bool("script") {
			fmt.Fprint(s.out, panel.VerificationScript(strings.TrimSpace(path)))
			return nil
		}
		s.ctrl.SetDriverPath(path)

		block, err := s.ctrl.VerifyDriver(c.Context)
		if block != nil {
			printLogBlock(s.out, block)
		}
		if err != nil {
			return err
		}
		if !block.Success {
			return errors.New("chromedriver verification failed")
		}
		return nil
	},
}

var exportCommand = &cli.Command{
	Name:      "export",
	Usage:     "Export the test cases of an exploration with their last runs",
	ArgsUsage: "<exploration-id>",
	Description: `Write a report of the stored test cases, their code and the last
recorded execution of each.

The output path may reference the exploration with ${...} expressions:
  explorer export 6630f1 --output 'reports/${exploration.domain}.xlsx'`,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "format",
			Usage: "json, html or xlsx (default: from the output extension, then json)",
		},
		&cli.StringFlag{
			Name:     "output",
			Aliases:  []string{"o"},
			Usage:    "Output file",
			Required: true,
		},
	},
	Action: runExport,
}

func runExport(c *cli.Context) error {
	id, err := explorationArg(c)
	if err != nil {
		return err
	}
	format, err := exportFormat(c.String("format"), c.String("output"))
	if err != nil {
		return err
	}

	s, err := openSession(c, sessionOptions{withHistory: true})
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.openWithCases(c.Context, id); err != nil {
		return err
	}
	e := s.ctrl.Selected()
	if e == nil {
		return core.ErrNoSelection
	}
	runs, err := s.history.List(c.Context, history.Filter{ExplorationID: e.ID})
	if err != nil {
		return err
	}

	r := report.Build(*e, s.ctrl.TestCases(), runs)
	path := filter.New().ExpandPath(c.String("output"), *e)
	if err := report.WriteFile(path, format, r); err != nil {
		return err
	}
	logger.Info("exported %s (%s) to %s", e.ID, format, path)
	fmt.Fprintf(s.out, "  %s✓%s Report written to %s (%d test cases)\n",
		color(colorGreen), color(colorReset), path, r.Summary.Total)
	return nil
}

func exportFormat(flag, output string) (report.Format, error) {
	if flag != "" {
		return report.ParseFormat(flag)
	}
	if ext := strings.TrimPrefix(filepath.Ext(output), "."); ext != "" {
		if f, err := report.ParseFormat(ext); err == nil {
			return f, nil
		}
	}
	return report.FormatJSON, nil
}

var historyCommand = &cli.Command{
	Name:  "history",
	Usage: "Show the local execution journal",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "exploration",
			Usage: "Only show runs of this exploration",
		},
		&cli.IntFlag{
			Name:  "limit",
			Usage: "Maximum number of entries",
			Value: 20,
		},
		&cli.BoolFlag{
			Name:  "clear",
			Usage: "Delete every entry",
		},
	},
	Action: func(c *cli.Context) error {
		s, err := openSession(c, sessionOptions{withHistory: true, quiet: true})
		if err != nil {
			return err
		}
		defer s.Close()

		if c.Bool("clear") {
			n, err := s.history.Clear(c.Context)
			if err != nil {
				return err
			}
			fmt.Fprintf(s.out, "  Removed %d entries\n", n)
			return nil
		}

		entries, err := s.history.List(c.Context, history.Filter{
			ExplorationID: c.String("exploration"),
			Limit:         c.Int("limit"),
		})
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Fprintln(s.out, "  No executions recorded")
			return nil
		}
		printHistory(s.out, entries)
		return nil
	},
}

var tuiCommand = &cli.Command{
	Name:  "tui",
	Usage: "Open the interactive panel",
	Action: func(c *cli.Context) error {
		s, err := openSession(c, sessionOptions{
			withHistory: true,
			quiet:       true,
			clipboard:   tui.NewOSC52Clipboard(c.App.ErrWriter),
		})
		if err != nil {
			return err
		}
		defer s.Close()

		model := tui.NewModel(s.ctrl, tui.Options{Context: c.Context, Filter: filter.New()})
		program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(c.Context))
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("tui exited with error: %w", err)
		}
		return nil
	},
}

func writeHTML(s *session, path, title string) error {
	if path == "" {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	s.ctrl.View(func(b *view.Bindings) {
		err = view.RenderHTML(f, b, view.HTMLOptions{Title: title})
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "  HTML written to %s\n", path)
	return nil
}

func explorationArg(c *cli.Context) (string, error) {
	id := strings.TrimSpace(c.Args().First())
	if id == "" {
		return "", fmt.Errorf("exploration id is required")
	}
	return id, nil
}

func testCaseArgs(c *cli.Context) (string, int, error) {
	id, err := explorationArg(c)
	if err != nil {
		return "", 0, err
	}
	raw := c.Args().Get(1)
	if raw == "" {
		return "", 0, fmt.Errorf("test case id is required")
	}
	testID, err := strconv.Atoi(raw)
	if err != nil {
		return "", 0, fmt.Errorf("invalid test case id %q", raw)
	}
	return id, testID, nil
}
