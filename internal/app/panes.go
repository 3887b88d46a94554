package app

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/chmouel/lazyfeatures/internal/diff"
	"github.com/chmouel/lazyfeatures/internal/render"
)

func fileColumns(width int) []table.Column {
	statusWidth := 10
	countWidth := 4
	nameWidth := max(12, width-statusWidth-countWidth-6)
	return []table.Column{
		{Title: "File", Width: nameWidth},
		{Title: "Sc", Width: countWidth},
		{Title: "Status", Width: statusWidth},
	}
}

func entryColumns(width int) []table.Column {
	actionWidth := 16
	scenarioWidth := max(10, width/3)
	targetWidth := max(12, width-actionWidth-scenarioWidth-6)
	return []table.Column{
		{Title: "Action", Width: actionWidth},
		{Title: "Target", Width: targetWidth},
		{Title: "Scenario", Width: scenarioWidth},
	}
}

// refreshRows rebuilds both tables from the session, keeping the selected
// file when it still exists.
func (m *Model) refreshRows() {
	selected := ""
	if row, ok := m.selectedRow(); ok {
		selected = row.Path
	}

	m.data.rows = render.Rows(m.session, m.config.DiffAlgorithm)
	m.data.entries = render.Entries(m.session.CurrentProposal())

	rows := make([]table.Row, 0, len(m.data.rows))
	cursor := 0
	for i, r := range m.data.rows {
		if r.Path == selected {
			cursor = i
		}
		scenarios := ""
		if r.Scenarios > 0 {
			scenarios = strconv.Itoa(r.Scenarios)
		}
		rows = append(rows, table.Row{m.fileLabel(r), scenarios, statusLabel(r.Status)})
	}
	m.ui.fileTable.SetRows(rows)
	if len(rows) > 0 {
		m.ui.fileTable.SetCursor(cursor)
	}

	entries := make([]table.Row, 0, len(m.data.entries))
	for _, e := range m.data.entries {
		entries = append(entries, table.Row{e.Action, e.Target, e.Scenario})
	}
	m.ui.entryTable.SetRows(entries)
	if m.ui.entryTable.Cursor() >= len(entries) {
		m.ui.entryTable.SetCursor(0)
	}

	m.updateDiffView()
}

func (m *Model) fileLabel(r render.Row) string {
	label := r.Path
	if m.config.ShowIcons {
		label = fileIcon(r.File) + label
	}
	return label
}

func statusLabel(s render.Status) string {
	switch s {
	case render.StatusNew:
		return "+ new"
	case render.StatusChanged:
		return "~ changed"
	case render.StatusDeleted:
		return "- deleted"
	default:
		return ""
	}
}

func (m *Model) selectedRow() (render.Row, bool) {
	idx := m.ui.fileTable.Cursor()
	if idx < 0 || idx >= len(m.data.rows) {
		return render.Row{}, false
	}
	return m.data.rows[idx], true
}

func (m *Model) selectedEntry() (render.Entry, bool) {
	idx := m.ui.entryTable.Cursor()
	if idx < 0 || idx >= len(m.data.entries) {
		return render.Entry{}, false
	}
	return m.data.entries[idx], true
}

// selectPath moves the file cursor to path and reports whether it exists.
func (m *Model) selectPath(path string) bool {
	for i, r := range m.data.rows {
		if r.Path == path {
			m.ui.fileTable.SetCursor(i)
			m.updateDiffView()
			return true
		}
	}
	return false
}

// updateDiffView renders the selected file into the diff viewport.
func (m *Model) updateDiffView() {
	row, ok := m.selectedRow()
	if !ok {
		m.data.diffPath = ""
		m.data.diffLines = nil
		m.ui.diffViewport.SetContent(lipgloss.NewStyle().Foreground(m.theme.MutedFg).Render("No feature files."))
		return
	}
	lines := row.Diff()
	changed := row.Path != m.data.diffPath
	m.data.diffPath = row.Path
	m.data.diffLines = lines
	m.ui.diffViewport.SetContent(m.renderLines(row.File, lines))
	if changed {
		m.ui.diffViewport.GotoTop()
	}
}

// renderLines styles a line view. Unchanged-only views are syntax
// highlighted when enabled.
func (m *Model) renderLines(file string, lines []diff.Line) string {
	if len(lines) == 0 {
		return lipgloss.NewStyle().Foreground(m.theme.MutedFg).Render("(empty file)")
	}
	if m.config.SyntaxHighlight && !diff.HasChanges(lines) {
		if out, ok := highlightFeature(file, joinText(lines), m.theme.SyntaxStyle); ok {
			return out
		}
	}

	added := lipgloss.NewStyle().Foreground(m.theme.AddedFg)
	removed := lipgloss.NewStyle().Foreground(m.theme.RemovedFg)
	plain := lipgloss.NewStyle().Foreground(m.theme.TextFg)

	out := make([]string, 0, len(lines))
	for _, l := range lines {
		text := l.Kind.Marker() + l.Text
		switch l.Kind {
		case diff.Added:
			out = append(out, added.Render(text))
		case diff.Removed:
			out = append(out, removed.Render(text))
		default:
			out = append(out, plain.Render(text))
		}
	}
	return strings.Join(out, "\n")
}

func joinText(lines []diff.Line) string {
	texts := make([]string, 0, len(lines))
	for _, l := range lines {
		texts = append(texts, l.Text)
	}
	return strings.Join(texts, "\n")
}

// plainDiff is the clipboard form of a line view.
func plainDiff(lines []diff.Line) string {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l.Kind.Marker())
		b.WriteString(l.Text)
		b.WriteByte('\n')
	}
	return b.String()
}

func diffTitle(path string, lines []diff.Line) string {
	if path == "" {
		return "Diff"
	}
	added, removed := diff.Stats(lines)
	if added == 0 && removed == 0 {
		return path
	}
	return fmt.Sprintf("%s  +%d -%d", path, added, removed)
}
