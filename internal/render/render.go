// Package render maps a session onto rows and per-file line views.
package render

import (
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/chmouel/lazyfeatures/internal/diff"
	"github.com/chmouel/lazyfeatures/internal/gherkin"
	"github.com/chmouel/lazyfeatures/internal/models"
	"github.com/chmouel/lazyfeatures/internal/proposal"
)

// Status describes how a file relates to the pending proposal.
type Status int

// File statuses.
const (
	StatusCurrent Status = iota
	StatusChanged
	StatusNew
	StatusDeleted
)

// String returns a short label for the status.
func (s Status) String() string {
	switch s {
	case StatusChanged:
		return "changed"
	case StatusNew:
		return "new"
	case StatusDeleted:
		return "deleted"
	default:
		return "current"
	}
}

// Row is one file in the tree pane. Diff produces its line view on demand.
type Row struct {
	Screen    string
	File      string
	Path      string
	Scenarios int
	Status    Status
	Diff      func() []diff.Line
}

// Rows lists the current tree sorted by screen then file, followed by the
// files the proposal would create.
func Rows(s *proposal.Session, alg diff.Algorithm) []Row {
	tree := s.Tree()
	p := s.CurrentProposal()
	sim := simulated(tree, p)

	var rows []Row
	seen := map[string]bool{}
	for _, screen := range sortedScreens(tree) {
		for _, file := range sortedFiles(tree[screen]) {
			row := newRow(s, alg, sim, screen, file)
			seen[row.Path] = true
			rows = append(rows, row)
		}
	}

	var extra []string
	for _, key := range proposedPaths(p, sim) {
		if !seen[key] {
			seen[key] = true
			extra = append(extra, key)
		}
	}
	for _, key := range extra {
		screen, file := gherkin.SplitPath(key)
		rows = append(rows, newRow(s, alg, sim, screen, file))
	}
	return rows
}

func newRow(s *proposal.Session, alg diff.Algorithm, sim map[string]proposal.SimulatedFile, screen, file string) Row {
	tree := s.Tree()
	path := gherkin.JoinPath(screen, file)
	content, exists := tree.Content(screen, file)
	row := Row{
		Screen: screen,
		File:   file,
		Path:   path,
		Diff: func() []diff.Line {
			return FileView(s, alg, screen, file)
		},
	}
	if parsed, ok := gherkin.Parse(content); ok {
		row.Scenarios = len(parsed.Scenarios)
	}

	if !s.HasActionableContent() {
		return row
	}
	if f, ok := sim[path]; ok && f.Deleted {
		row.Status = StatusDeleted
		return row
	}
	if !exists {
		row.Status = StatusNew
		if f, ok := featureFor(s.CurrentProposal(), path); ok {
			row.Scenarios = len(f.Scenarios)
		}
		return row
	}
	if diff.HasChanges(row.Diff()) {
		row.Status = StatusChanged
	}
	return row
}

// FileView returns the lines shown for one file: the plain file when there
// is nothing to act on, otherwise the best diff the proposal supports.
func FileView(s *proposal.Session, alg diff.Algorithm, screen, file string) []diff.Line {
	content, _ := s.Tree().Content(screen, file)
	p := s.CurrentProposal()
	if !p.Actionable() {
		return diff.Plain(content)
	}

	path := gherkin.JoinPath(screen, file)
	if lines, ok := p.FileDiff(path); ok {
		return lines
	}

	switch p.Kind() {
	case proposal.KindFeatures:
		if f, ok := featureFor(p, path); ok {
			return diff.Compute(alg, content, gherkin.Render(f))
		}
	case proposal.KindChanges:
		if f, ok := simulated(s.Tree(), p)[path]; ok {
			return diff.Compute(alg, f.Old, f.New)
		}
	}
	return diff.Plain(content)
}

func featureFor(p *proposal.Proposal, path string) (models.Feature, bool) {
	for _, f := range p.Features() {
		if gherkin.Path(f) == path {
			return f, true
		}
	}
	return models.Feature{}, false
}

// simulated returns nothing for invalid plans; the file then shows as is.
func simulated(tree models.FileTree, p *proposal.Proposal) map[string]proposal.SimulatedFile {
	if p.Kind() != proposal.KindChanges || !p.Actionable() {
		return nil
	}
	files, err := proposal.Simulate(tree, p.Changes())
	if err != nil {
		return nil
	}
	out := make(map[string]proposal.SimulatedFile, len(files))
	for _, f := range files {
		out[f.Path] = f
	}
	return out
}

func proposedPaths(p *proposal.Proposal, sim map[string]proposal.SimulatedFile) []string {
	if !p.Actionable() {
		return nil
	}
	keys := p.DiffKeys()
	for _, f := range p.Features() {
		keys = append(keys, gherkin.Path(f))
	}
	var simKeys []string
	for k, f := range sim {
		if !f.Deleted {
			simKeys = append(simKeys, k)
		}
	}
	sort.Strings(simKeys)
	return append(keys, simKeys...)
}

func sortedScreens(tree models.FileTree) []string {
	screens := make([]string, 0, len(tree))
	for s := range tree {
		screens = append(screens, s)
	}
	sort.Strings(screens)
	return screens
}

func sortedFiles(files map[string]string) []string {
	names := make([]string, 0, len(files))
	for f := range files {
		names = append(names, f)
	}
	sort.Strings(names)
	return names
}

// Entry is one item of the proposed changes list. Path is the file key the
// entry touches.
type Entry struct {
	Action   string
	Target   string
	Scenario string
	Path     string
}

// Entries lists the proposal's changes for display.
func Entries(p *proposal.Proposal) []Entry {
	var out []Entry
	switch p.Kind() {
	case proposal.KindChanges:
		for _, c := range p.Changes() {
			out = append(out, Entry{
				Action:   c.Action,
				Target:   c.Screen + " → " + c.Feature,
				Scenario: c.ScenarioName(),
				Path:     gherkin.JoinPath(c.Screen, c.Feature+models.FeatureExt),
			})
		}
	case proposal.KindFeatures:
		for _, f := range p.Features() {
			out = append(out, Entry{
				Action:   "feature",
				Target:   f.ScreenName + " → " + f.FeatureName,
				Scenario: scenarioCount(len(f.Scenarios)),
				Path:     gherkin.Path(f),
			})
		}
	case proposal.KindDiff:
		set := p.Diff()
		for _, key := range set.Keys() {
			lines, _ := set.Get(key)
			added, removed := diff.Stats(lines)
			out = append(out, Entry{
				Action:   "diff",
				Target:   key,
				Scenario: fmt.Sprintf("+%d -%d", added, removed),
				Path:     key,
			})
		}
	}
	return out
}

func scenarioCount(n int) string {
	if n == 1 {
		return "1 scenario"
	}
	return fmt.Sprintf("%d scenarios", n)
}

// HTML renders lines as dashboard rows. Only &, < and > are escaped.
func HTML(lines []diff.Line) string {
	var b strings.Builder
	for _, l := range lines {
		fmt.Fprintf(&b, `<div class="diff-line %s">%s</div>`, l.Kind.Class(), escape(l.Text))
		b.WriteByte('\n')
	}
	return b.String()
}

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escape(text string) string {
	return escaper.Replace(text)
}

// Page wraps rendered files into a standalone HTML document.
func Page(title string, files []FileLines) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(title))
	b.WriteString(pageStyle)
	b.WriteString("</head>\n<body>\n")
	for _, f := range files {
		fmt.Fprintf(&b, "<h2>%s</h2>\n<div class=\"diff-file\">\n", html.EscapeString(f.Path))
		b.WriteString(HTML(f.Lines))
		b.WriteString("</div>\n")
	}
	b.WriteString("</body>\n</html>\n")
	return b.String()
}

// FileLines pairs a file key with its line view.
type FileLines struct {
	Path  string
	Lines []diff.Line
}

// Changed returns the line views of every row the proposal touches.
func Changed(rows []Row) []FileLines {
	var out []FileLines
	for _, r := range rows {
		if r.Status == StatusCurrent {
			continue
		}
		out = append(out, FileLines{Path: r.Path, Lines: r.Diff()})
	}
	return out
}

const pageStyle = `<style>
.diff-line { font-family: monospace; white-space: pre; }
.diff-added { background: #e6ffed; }
.diff-removed { background: #ffeef0; }
</style>
`
