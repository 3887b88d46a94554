// Package main is the entry point for the lazyfeatures application.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	appiCli "github.com/urfave/cli/v3"

	"github.com/chmouel/lazyfeatures/internal/api"
	"github.com/chmouel/lazyfeatures/internal/app"
	"github.com/chmouel/lazyfeatures/internal/buildinfo"
	"github.com/chmouel/lazyfeatures/internal/cli"
	"github.com/chmouel/lazyfeatures/internal/config"
	"github.com/chmouel/lazyfeatures/internal/log"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	buildinfo.Set(version, commit, date, builtBy)
	buildinfo.Enrich()

	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", cli.ErrorMessage(err))
		os.Exit(1)
	}
}

// newApp builds the root command. Without a subcommand it starts the TUI.
func newApp() *appiCli.Command {
	appiCli.VersionPrinter = func(cmd *appiCli.Command) {
		fmt.Fprint(cmd.Root().Writer, buildinfo.Summary())
	}
	return &appiCli.Command{
		Name:                  "lazyfeatures",
		Usage:                 "Review and apply generated Gherkin feature files",
		Version:               buildinfo.Version(),
		EnableShellCompletion: true,
		Reader:                os.Stdin,
		Writer:                os.Stdout,
		ErrWriter:             os.Stderr,
		Flags:                 globalFlags(),
		Commands: []*appiCli.Command{
			statusCommand(),
			treeCommand(),
			generateCommand(),
			analyzeCommand(),
			setAPIKeyCommand(),
			setDirCommand(),
		},
		Action:        runTUI,
		ShellComplete: completeGlobalFlags,
	}
}

// runTUI is the default action that launches the TUI when no subcommand is given.
func runTUI(_ context.Context, cmd *appiCli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		_ = log.Close()
		return err
	}
	cfg.ResolveTheme()

	model := app.NewModel(cfg, newClient(cfg))
	p := tea.NewProgram(model, tea.WithAltScreen())

	_, err = p.Run()
	model.Close()
	if err != nil {
		_ = log.Close()
		return fmt.Errorf("running app: %w", err)
	}

	if err := log.Close(); err != nil {
		fmt.Fprintf(cmd.Root().ErrWriter, "Error closing debug log: %v\n", err)
	}
	return nil
}

// loadConfig sets up debug logging and resolves the configuration from the
// config file, the environment, then the flags. --config overrides win.
func loadConfig(cmd *appiCli.Command) (*config.AppConfig, error) {
	stderr := cmd.Root().ErrWriter
	debugLog := cmd.String("debug-log")
	if debugLog != "" {
		openDebugLog(stderr, debugLog)
	}

	cfg, err := config.LoadConfig(cmd.String("config-file"))
	if err != nil {
		fmt.Fprintf(stderr, "Error loading config: %v\n", err)
		cfg = config.DefaultConfig()
	}

	if debugLog == "" {
		if cfg.DebugLog != "" {
			openDebugLog(stderr, cfg.DebugLog)
		} else {
			// No debug log configured, discard any buffered logs
			_ = log.SetFile("")
		}
	}

	if err := applyThemeConfig(cfg, cmd.String("theme")); err != nil {
		return nil, err
	}
	if url := cmd.String("backend-url"); url != "" {
		cfg.BackendURL = url
	}
	if overrides := cmd.StringSlice("config"); len(overrides) > 0 {
		if err := cfg.ApplyCLIOverrides(overrides); err != nil {
			return nil, fmt.Errorf("error applying config overrides: %w", err)
		}
	}
	return cfg, nil
}

func openDebugLog(stderr io.Writer, path string) {
	if expanded, err := config.ExpandPath(path); err == nil {
		path = expanded
	}
	if err := log.SetFile(path); err != nil {
		fmt.Fprintf(stderr, "Error opening debug log file %q: %v\n", path, err)
	}
}

// applyThemeConfig applies theme configuration from command line flag.
func applyThemeConfig(cfg *config.AppConfig, themeName string) error {
	if themeName == "" {
		return nil
	}
	normalized := config.NormalizeThemeName(themeName)
	if normalized == "" {
		return fmt.Errorf("unknown theme %q", themeName)
	}
	cfg.Theme = normalized
	return nil
}

func newClient(cfg *config.AppConfig) *api.Client {
	return api.NewClient(cfg.BackendURL,
		api.WithTimeout(cfg.RequestTimeout),
		api.WithLogger(log.Logger{}),
		api.WithUserAgent(buildinfo.UserAgent()),
	)
}
