package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/devicelab-dev/exploration-panel/pkg/api"
	"github.com/devicelab-dev/exploration-panel/pkg/config"
	"github.com/devicelab-dev/exploration-panel/pkg/history"
	"github.com/devicelab-dev/exploration-panel/pkg/logger"
	"github.com/devicelab-dev/exploration-panel/pkg/panel"
	"github.com/devicelab-dev/exploration-panel/pkg/view"
)

// session is the per-command wiring: resolved config, API client,
// controller and, when requested, the execution journal.
type session struct {
	cfg     *config.Config
	client  *api.Client
	ctrl    *panel.Controller
	history *history.Repository
	out     io.Writer
}

type sessionOptions struct {
	withHistory bool            // open the execution journal
	quiet       bool            // do not print notifications
	confirmer   panel.Confirmer // nil answers yes
	clipboard   panel.Clipboard
}

// Helpers to get flag values from the current or a parent context.
// Global flags live on the root context when run as a subcommand.
func getString(c *cli.Context, name string) string {
	for _, ctx := range c.Lineage() {
		if ctx != nil && ctx.IsSet(name) {
			return ctx.String(name)
		}
	}
	return c.String(name)
}

func getBool(c *cli.Context, name string) bool {
	for _, ctx := range c.Lineage() {
		if ctx != nil && ctx.IsSet(name) {
			return ctx.Bool(name)
		}
	}
	return c.Bool(name)
}

func openSession(c *cli.Context, opts sessionOptions) (*session, error) {
	cfg, err := config.Resolve(getString(c, "config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if server := getString(c, "server"); server != "" {
		cfg.Server = server
	}
	for _, ctx := range c.Lineage() {
		if ctx != nil && ctx.IsSet("timeout") {
			cfg.Timeout = config.Duration{Duration: ctx.Duration("timeout")}
			break
		}
	}
	if logFile := getString(c, "log-file"); logFile != "" {
		cfg.LogFile = logFile
	}
	if getBool(c, "no-ansi") {
		colorsEnabled = false
	}

	if err := initLogger(c, cfg); err != nil {
		return nil, err
	}
	logger.Info("explorer %s: server=%s timeout=%s", Version, cfg.Server, cfg.Timeout.Duration)

	s := &session{
		cfg:    cfg,
		client: api.NewClient(cfg.Server, cfg.Timeout.Duration),
		out:    c.App.Writer,
	}

	pcfg := panel.Config{
		Service:           s.client,
		Confirmer:         opts.confirmer,
		Clipboard:         opts.clipboard,
		DefaultDriverPath: cfg.ChromeDriverPath,
	}
	if opts.withHistory {
		repo, err := history.Open(cfg.HistoryDB)
		if err != nil {
			logger.Close()
			return nil, fmt.Errorf("failed to open history: %w", err)
		}
		s.history = repo
		pcfg.Recorder = repo
	}

	ctrl, err := panel.New(pcfg)
	if err != nil {
		s.Close()
		return nil, err
	}
	if !opts.quiet {
		ctrl.OnNotify(func(n view.Notification) { printNotification(s.out, n) })
	}
	s.ctrl = ctrl
	return s, nil
}

func initLogger(c *cli.Context, cfg *config.Config) error {
	if cfg.LogFile == "-" {
		logger.InitWriter(c.App.ErrWriter)
	} else if err := logger.Init(cfg.LogFile); err != nil {
		return err
	}
	level := logger.ParseLevel(cfg.LogLevel)
	if getBool(c, "verbose") {
		level = logger.LevelDebug
	}
	logger.SetLevel(level)
	return nil
}

// Close releases the journal and the log file.
func (s *session) Close() {
	if s.history != nil {
		if err := s.history.Close(); err != nil {
			logger.Warn("close history: %v", err)
		}
	}
	logger.Close()
}

// open loads an exploration and makes it the selection.
func (s *session) open(ctx context.Context, id string) error {
	_, err := s.ctrl.OpenExploration(ctx, id)
	return err
}

// openWithCases loads an exploration and its stored test cases.
func (s *session) openWithCases(ctx context.Context, id string) error {
	if err := s.open(ctx, id); err != nil {
		return err
	}
	_, err := s.ctrl.ShowTestCases(ctx)
	return err
}

// promptConfirmer asks on the app's writer and reads the answer from r.
func promptConfirmer(w io.Writer, r io.Reader) panel.Confirmer {
	reader := bufio.NewReader(r)
	return panel.ConfirmFunc(func(_ context.Context, question string) bool {
		fmt.Fprintf(w, "%s [s/N]: ", question)
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "s", "si", "sí", "y", "yes":
			return true
		default:
			return false
		}
	})
}
