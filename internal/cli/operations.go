// Package cli implements the non-interactive subcommands.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/chmouel/lazyfeatures/internal/api"
	"github.com/chmouel/lazyfeatures/internal/config"
	"github.com/chmouel/lazyfeatures/internal/diff"
	"github.com/chmouel/lazyfeatures/internal/log"
	"github.com/chmouel/lazyfeatures/internal/models"
	"github.com/chmouel/lazyfeatures/internal/proposal"
	"github.com/chmouel/lazyfeatures/internal/render"
)

// User-input errors. They are reported before any request is sent.
var (
	ErrNoDocument  = errors.New("no document given")
	ErrEmptyStory  = errors.New("a story needs a title and a description")
	ErrEmptyAPIKey = errors.New("API key cannot be empty")
	ErrEmptyDir    = errors.New("features directory cannot be empty")
)

const (
	defaultDirPerms  = 0o750
	defaultFilePerms = 0o600
)

// backend is the api surface the subcommands use.
type backend interface {
	SystemStatus(ctx context.Context) (models.SystemStatus, error)
	CheckAPIKey(ctx context.Context) (bool, error)
	SetAPIKey(ctx context.Context, key string) error
	TestStructure(ctx context.Context) (models.FileTree, error)
	SyncTests(ctx context.Context, path string, dryRun bool) (models.SyncResponse, error)
	ApplyProposed(ctx context.Context, p json.Marshaler) error
	DownloadProposed(ctx context.Context, p json.Marshaler) ([]byte, error)
	SetFeaturesDirectory(ctx context.Context, dir string) error
	Analyze(ctx context.Context, story models.Story) (models.Analysis, error)
}

var _ backend = (*api.Client)(nil)

func newTable(w io.Writer) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.Style().Format.Header = text.FormatDefault
	tw.Style().Format.Footer = text.FormatDefault
	return tw
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// Status prints the backend status and whether an API key is stored.
func Status(ctx context.Context, svc backend, backendURL string, w io.Writer) error {
	status, err := svc.SystemStatus(ctx)
	if err != nil {
		return fmt.Errorf("system status: %w", err)
	}
	keySet, err := svc.CheckAPIKey(ctx)
	if err != nil {
		log.Printf("check api key: %v", err)
		keySet = status.APIConfigured
	}

	dir := status.FeaturesDirectory
	if dir == "" {
		dir = "(not set)"
	}
	tw := newTable(w)
	tw.AppendRows([]table.Row{
		{"Backend", backendURL},
		{"API key", yesNo(keySet)},
		{"Features directory", dir},
	})
	tw.Render()
	return nil
}

// Tree prints every feature file with its scenario count.
func Tree(ctx context.Context, svc backend, w io.Writer) error {
	tree, err := svc.TestStructure(ctx)
	if err != nil {
		return fmt.Errorf("load feature tree: %w", err)
	}
	session := proposal.NewSession()
	session.SetTree(tree)
	rows := render.Rows(session, diff.Paired)
	if len(rows) == 0 {
		fmt.Fprintln(w, "No feature files.")
		return nil
	}

	tw := newTable(w)
	tw.AppendHeader(table.Row{"Screen", "File", "Scenarios"})
	total := 0
	for _, r := range rows {
		tw.AppendRow(table.Row{r.Screen, r.File, r.Scenarios})
		total += r.Scenarios
	}
	tw.AppendFooter(table.Row{"", fmt.Sprintf("%d files", len(rows)), total})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, Align: text.AlignRight, AlignFooter: text.AlignRight},
	})
	tw.Render()
	return nil
}

// GenerateOptions controls the generate subcommand.
type GenerateOptions struct {
	Document    string
	HTMLPath    string
	DownloadDir string
	Apply       bool
	Color       bool
	Algorithm   diff.Algorithm
}

// Generate runs a dry-run sync for a document and prints the proposal. It
// optionally writes the HTML rendering, saves the archive and applies.
func Generate(ctx context.Context, svc backend, opts GenerateOptions, w io.Writer) error {
	path, err := ValidateDocument(opts.Document)
	if err != nil {
		return err
	}

	tree, err := svc.TestStructure(ctx)
	if err != nil {
		return fmt.Errorf("load feature tree: %w", err)
	}
	session := proposal.NewSession()
	session.SetTree(tree)

	seq := session.BeginRequest()
	p, err := syncDryRun(ctx, svc, path)
	outcome := session.OnGenerate(seq, p, err)
	log.Requestf(uint64(seq), "generate %s: %s", path, outcome)
	switch outcome {
	case proposal.OutcomeFailed:
		return fmt.Errorf("generate: %w", err)
	case proposal.OutcomeNoChanges:
		fmt.Fprintln(w, "No changes proposed.")
		return nil
	}

	current := session.CurrentProposal()
	printEntries(w, render.Entries(current))
	changed := render.Changed(render.Rows(session, opts.Algorithm))
	for _, f := range changed {
		printFile(w, f, opts.Color)
	}

	if opts.HTMLPath != "" {
		if err := writeHTML(opts.HTMLPath, changed); err != nil {
			return err
		}
		fmt.Fprintf(w, "Wrote %s\n", opts.HTMLPath)
	}

	if opts.DownloadDir != "" {
		data, err := svc.DownloadProposed(ctx, current)
		if err != nil {
			return fmt.Errorf("download: %w", err)
		}
		saved, err := SaveArchive(opts.DownloadDir, data)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Saved %s\n", saved)
	}

	if opts.Apply {
		seq := session.BeginRequest()
		err := svc.ApplyProposed(ctx, current)
		outcome := session.OnApply(seq, err)
		log.Requestf(uint64(seq), "apply: %s", outcome)
		if outcome == proposal.OutcomeFailed {
			return fmt.Errorf("apply: %w", err)
		}
		fmt.Fprintf(w, "Applied %d change(s)\n", current.Len())
	}
	return nil
}

func syncDryRun(ctx context.Context, svc backend, path string) (*proposal.Proposal, error) {
	resp, err := svc.SyncTests(ctx, path, true)
	if err != nil {
		return nil, err
	}
	return proposal.FromSyncResponse(resp)
}

// ValidateDocument checks a document path before anything is uploaded and
// returns it expanded. Every failure wraps ErrNoDocument unless the path
// cannot be inspected at all.
func ValidateDocument(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", ErrNoDocument
	}
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return "", fmt.Errorf("document %s: %w", path, err)
	}
	info, err := os.Stat(expanded)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("document %s does not exist: %w", path, ErrNoDocument)
		}
		return "", fmt.Errorf("document %s: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("document %s is a directory: %w", path, ErrNoDocument)
	}
	return expanded, nil
}

func printEntries(w io.Writer, entries []render.Entry) {
	tw := newTable(w)
	tw.AppendHeader(table.Row{"Action", "Target", "Detail"})
	for _, e := range entries {
		tw.AppendRow(table.Row{e.Action, e.Target, e.Scenario})
	}
	tw.Render()
}

func printFile(w io.Writer, f render.FileLines, color bool) {
	added, removed := diff.Stats(f.Lines)
	header := fmt.Sprintf("── %s  +%d -%d", f.Path, added, removed)
	if color {
		header = text.Colors{text.Bold, text.FgCyan}.Sprint(header)
	}
	fmt.Fprintf(w, "\n%s\n", header)
	for _, l := range f.Lines {
		line := l.Kind.Marker() + l.Text
		if color {
			switch l.Kind {
			case diff.Added:
				line = text.FgGreen.Sprint(line)
			case diff.Removed:
				line = text.FgRed.Sprint(line)
			}
		}
		fmt.Fprintln(w, line)
	}
}

func writeHTML(path string, files []render.FileLines) error {
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(expanded), defaultDirPerms); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(expanded), err)
	}
	page := render.Page("Proposed changes", files)
	if err := os.WriteFile(expanded, []byte(page), defaultFilePerms); err != nil {
		return fmt.Errorf("write %s: %w", expanded, err)
	}
	return nil
}

// SaveArchive writes a downloaded proposal as proposed_tests.zip in dir,
// the working directory when dir is blank, and returns the file path.
func SaveArchive(dir string, data []byte) (string, error) {
	if strings.TrimSpace(dir) == "" {
		dir = "."
	}
	expanded, err := config.ExpandPath(dir)
	if err != nil {
		return "", fmt.Errorf("download dir %s: %w", dir, err)
	}
	if err := os.MkdirAll(expanded, defaultDirPerms); err != nil {
		return "", fmt.Errorf("create %s: %w", expanded, err)
	}
	path := filepath.Join(expanded, models.ProposedArchiveName)
	if err := os.WriteFile(path, data, defaultFilePerms); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

// ValidateStory rejects a story with a blank title or description.
func ValidateStory(story models.Story) error {
	if strings.TrimSpace(story.Title) == "" || strings.TrimSpace(story.Description) == "" {
		return ErrEmptyStory
	}
	return nil
}

// Analyze sends a story for analysis and prints the report as markdown,
// rendered with glamour when color is set.
func Analyze(ctx context.Context, svc backend, story models.Story, color bool, w io.Writer) error {
	if err := ValidateStory(story); err != nil {
		return err
	}
	story.Title = strings.TrimSpace(story.Title)
	story.Description = strings.TrimSpace(story.Description)
	analysis, err := svc.Analyze(ctx, story)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}
	source := render.AnalysisMarkdown(story, analysis)
	if color {
		fmt.Fprintln(w, render.Markdown(source, "", 80))
		return nil
	}
	fmt.Fprint(w, source)
	return nil
}

// SetAPIKey stores the LLM API key on the backend.
func SetAPIKey(ctx context.Context, svc backend, key string, w io.Writer) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrEmptyAPIKey
	}
	if err := svc.SetAPIKey(ctx, key); err != nil {
		return fmt.Errorf("set api key: %w", err)
	}
	fmt.Fprintln(w, "API key updated")
	return nil
}

// SetDir points the backend at a features directory.
func SetDir(ctx context.Context, svc backend, dir string, w io.Writer) error {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return ErrEmptyDir
	}
	if err := svc.SetFeaturesDirectory(ctx, dir); err != nil {
		return fmt.Errorf("set features directory: %w", err)
	}
	fmt.Fprintf(w, "Features directory set to %s\n", dir)
	return nil
}

// ErrorMessage returns the text shown for err. Backend failures show the
// backend's own message.
func ErrorMessage(err error) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	return err.Error()
}
