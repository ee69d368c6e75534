// Package cli provides the command-line interface for the exploration panel.
package cli

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

// Version is set at build time.
var Version = "dev"

// GlobalFlags are available to all commands.
var GlobalFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "server",
		Aliases: []string{"s"},
		Usage:   "Exploration service base URL (default from explorer.yaml, then http://127.0.0.1:8000)",
		EnvVars: []string{"EXPLORER_SERVER"},
	},
	&cli.StringFlag{
		Name:    "config",
		Usage:   "Path to explorer.yaml",
		EnvVars: []string{"EXPLORER_CONFIG"},
	},
	&cli.DurationFlag{
		Name:    "timeout",
		Usage:   "HTTP timeout per request",
		EnvVars: []string{"EXPLORER_TIMEOUT"},
	},
	&cli.StringFlag{
		Name:    "log-file",
		Usage:   "Log file path (- for stderr)",
		EnvVars: []string{"EXPLORER_LOG_FILE"},
	},
	&cli.BoolFlag{
		Name:    "verbose",
		Usage:   "Enable verbose logging",
		EnvVars: []string{"EXPLORER_VERBOSE"},
	},
	&cli.BoolFlag{
		Name:  "no-ansi",
		Usage: "Disable ANSI colors",
	},
}

// Commands are the panel operations exposed on the command line.
var Commands = []*cli.Command{
	listCommand,
	showCommand,
	deleteCommand,
	generateTestsCommand,
	testCasesCommand,
	generateCodeCommand,
	runCommand,
	verifyDriverCommand,
	exportCommand,
	historyCommand,
	tuiCommand,
}

// NewApp builds the application without running it.
func NewApp() *cli.App {
	return &cli.App{
		Name:    "explorer",
		Usage:   "Browse saved website explorations, generate test cases and run them",
		Version: Version,
		Description: `explorer talks to an exploration service: it lists saved crawls,
generates test cases and automation code for them, and runs that code
remotely through ChromeDriver.

Examples:
  explorer list
  explorer list --where 'exploration.pages > 10'
  explorer --server http://10.0.0.5:8000 test-cases 6630f1
  explorer run 6630f1 3 --chrome-driver /usr/local/bin/chromedriver
  explorer export 6630f1 --format xlsx --output 'reports/${exploration.domain}.xlsx'
  explorer tui`,
		Flags:    GlobalFlags,
		Commands: Commands,
	}
}

// Execute runs the CLI.
func Execute() {
	if err := NewApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
