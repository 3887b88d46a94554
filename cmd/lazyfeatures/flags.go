// Package main provides CLI flag definitions for lazyfeatures.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	appiCli "github.com/urfave/cli/v3"

	"github.com/chmouel/lazyfeatures/internal/config"
)

// globalFlags returns all global flags for the application.
// Note: --version is provided automatically by urfave/cli via Command.Version
func globalFlags() []appiCli.Flag {
	return []appiCli.Flag{
		&appiCli.StringFlag{
			Name:  "backend-url",
			Usage: "Override the backend URL (default " + config.DefaultBackendURL + ")",
		},
		&appiCli.StringFlag{
			Name:  "debug-log",
			Usage: "Path to debug log file",
		},
		&appiCli.StringFlag{
			Name:    "theme",
			Aliases: []string{"t"},
			Usage:   "Override the UI theme",
		},
		&appiCli.StringFlag{
			Name:  "config-file",
			Usage: "Path to configuration file",
		},
		&appiCli.StringSliceFlag{
			Name:    "config",
			Aliases: []string{"C"},
			Usage:   "Override config values (repeatable): --config=" + config.OverridePrefix + "key=value",
		},
	}
}

// completeGlobalFlags completes config keys after --config and subcommand
// names otherwise.
func completeGlobalFlags(_ context.Context, cmd *appiCli.Command) {
	w := cmd.Root().Writer
	args := os.Args
	// The last argument is --generate-shell-completion.
	if len(args) >= 3 {
		prev, current := args[len(args)-3], args[len(args)-2]
		if prev == "--config" || prev == "-C" {
			for _, s := range config.SuggestConfigKeys(strings.TrimPrefix(current, config.OverridePrefix)) {
				fmt.Fprintln(w, s)
			}
			return
		}
	}
	if len(args) >= 2 {
		if last := args[len(args)-2]; last == "--config" || last == "-C" {
			for _, s := range config.SuggestConfigKeys("") {
				fmt.Fprintln(w, s)
			}
			return
		}
	}
	for _, c := range cmd.Commands {
		fmt.Fprintln(w, c.Name)
	}
}
