// Package main provides CLI command definitions for lazyfeatures.
package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	appiCli "github.com/urfave/cli/v3"

	"github.com/chmouel/lazyfeatures/internal/app/services"
	"github.com/chmouel/lazyfeatures/internal/cli"
	"github.com/chmouel/lazyfeatures/internal/log"
	"github.com/chmouel/lazyfeatures/internal/models"
)

// outputSubcommandFlags prints all visible flags for a subcommand in completion format.
func outputSubcommandFlags(_ context.Context, cmd *appiCli.Command) {
	w := cmd.Root().Writer
	for _, flag := range cmd.Flags {
		name := flag.Names()[0]
		usage := ""
		if df, ok := flag.(appiCli.DocGenerationFlag); ok {
			usage = df.GetUsage()
		}
		prefix := "--"
		if len(name) == 1 {
			prefix = "-"
		}
		if usage != "" {
			fmt.Fprintf(w, "%s%s:%s\n", prefix, name, usage)
		} else {
			fmt.Fprintf(w, "%s%s\n", prefix, name)
		}
	}
}

func statusCommand() *appiCli.Command {
	return &appiCli.Command{
		Name:  "status",
		Usage: "Show the backend status and configured features directory",
		Action: func(ctx context.Context, cmd *appiCli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			defer log.Close() //nolint:errcheck
			return cli.Status(ctx, newClient(cfg), cfg.BackendURL, cmd.Root().Writer)
		},
	}
}

func treeCommand() *appiCli.Command {
	return &appiCli.Command{
		Name:  "tree",
		Usage: "List the feature files known to the backend",
		Action: func(ctx context.Context, cmd *appiCli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			defer log.Close() //nolint:errcheck
			return cli.Tree(ctx, newClient(cfg), cmd.Root().Writer)
		},
	}
}

func generateCommand() *appiCli.Command {
	return &appiCli.Command{
		Name:      "generate",
		Aliases:   []string{"gen"},
		Usage:     "Propose feature file changes for a requirements document",
		ArgsUsage: "[document]",
		Action:    handleGenerateAction,
		Flags: []appiCli.Flag{
			&appiCli.StringFlag{
				Name:  "html",
				Usage: "Write the proposed diff as an HTML page to this path",
			},
			&appiCli.StringFlag{
				Name:  "download",
				Usage: "Save the proposal archive (" + models.ProposedArchiveName + ") in this directory",
			},
			&appiCli.BoolFlag{
				Name:  "apply",
				Usage: "Apply the proposal after showing it",
			},
		},
		ShellComplete: outputSubcommandFlags,
	}
}

func handleGenerateAction(ctx context.Context, cmd *appiCli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer log.Close() //nolint:errcheck

	root := cmd.Root()
	stateDir := services.StateDir()
	history, err := services.LoadDocumentHistory(stateDir)
	if err != nil {
		log.Printf("load document history: %v", err)
	}

	document := cmd.Args().First()
	if document == "" {
		document, err = cli.SelectDocument(history, root.Reader, root.ErrWriter)
		if err != nil {
			return err
		}
	}

	opts := cli.GenerateOptions{
		Document:    document,
		HTMLPath:    cmd.String("html"),
		DownloadDir: cmd.String("download"),
		Apply:       cmd.Bool("apply"),
		Color:       cli.IsTerminal(root.Writer),
		Algorithm:   cfg.DiffAlgorithm,
	}
	if err := cli.Generate(ctx, newClient(cfg), opts, root.Writer); err != nil {
		return err
	}

	if abs, err := filepath.Abs(strings.TrimSpace(document)); err == nil && stateDir != "" {
		if err := services.SaveDocumentHistory(stateDir, services.AddDocument(history, abs)); err != nil {
			log.Printf("save document history: %v", err)
		}
	}
	return nil
}

func analyzeCommand() *appiCli.Command {
	return &appiCli.Command{
		Name:  "analyze",
		Usage: "Analyze a user story for gaps, edge cases and risk",
		Flags: []appiCli.Flag{
			&appiCli.StringFlag{
				Name:  "title",
				Usage: "Story title (prompted when missing)",
			},
			&appiCli.StringFlag{
				Name:  "description",
				Usage: "Story description (prompted when missing)",
			},
		},
		Action: func(ctx context.Context, cmd *appiCli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			defer log.Close() //nolint:errcheck

			root := cmd.Root()
			story := models.Story{Title: cmd.String("title"), Description: cmd.String("description")}
			if strings.TrimSpace(story.Title) == "" {
				if story.Title, err = cli.Prompt("Story title", root.Reader, root.ErrWriter); err != nil {
					return err
				}
			}
			if strings.TrimSpace(story.Description) == "" {
				if story.Description, err = cli.Prompt("Story description", root.Reader, root.ErrWriter); err != nil {
					return err
				}
			}
			return cli.Analyze(ctx, newClient(cfg), story, cli.IsTerminal(root.Writer), root.Writer)
		},
		ShellComplete: outputSubcommandFlags,
	}
}

func setAPIKeyCommand() *appiCli.Command {
	return &appiCli.Command{
		Name:  "set-api-key",
		Usage: "Store the LLM API key on the backend",
		Flags: []appiCli.Flag{
			&appiCli.StringFlag{
				Name:  "key",
				Usage: "API key (read from stdin when missing)",
			},
		},
		Action: func(ctx context.Context, cmd *appiCli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			defer log.Close() //nolint:errcheck

			root := cmd.Root()
			key := cmd.String("key")
			if key == "" {
				if key, err = cli.ReadAPIKey(root.Reader, root.ErrWriter); err != nil {
					return err
				}
			}
			return cli.SetAPIKey(ctx, newClient(cfg), key, root.Writer)
		},
		ShellComplete: outputSubcommandFlags,
	}
}

func setDirCommand() *appiCli.Command {
	return &appiCli.Command{
		Name:      "set-dir",
		Usage:     "Point the backend at a features directory",
		ArgsUsage: "<directory>",
		Action: func(ctx context.Context, cmd *appiCli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			defer log.Close() //nolint:errcheck
			return cli.SetDir(ctx, newClient(cfg), cmd.Args().First(), cmd.Root().Writer)
		},
	}
}
