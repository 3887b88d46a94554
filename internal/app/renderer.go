package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	appscreen "github.com/chmouel/lazyfeatures/internal/app/screen"
)

// View renders the active screen for the Bubble Tea program.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	if m.view.WindowWidth == 0 || m.view.WindowHeight == 0 {
		return "Loading..."
	}

	layout := m.computeLayout()
	m.applyLayout(layout)

	header := m.renderHeader(layout)
	footer := m.renderFooter(layout)
	body := truncateToHeight(m.renderBody(layout), m.view.WindowHeight-2)

	baseView := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)

	if !m.ui.screenManager.IsActive() {
		return baseView
	}
	scr := m.ui.screenManager.Current()
	switch scr.Type() {
	case appscreen.TypeReport:
		if rs, ok := scr.(*appscreen.ReportScreen); ok {
			rs.Resize(m.view.WindowWidth, m.view.WindowHeight)
		}
		return m.overlayPopup(baseView, scr.View(), 2)
	case appscreen.TypeHelp, appscreen.TypeTextarea:
		return m.overlayPopup(baseView, scr.View(), 2)
	default:
		return m.overlayPopup(baseView, scr.View(), 3)
	}
}

// overlayPopup draws popup centred over base, starting marginTop rows
// down. The base stays visible on both sides so pane borders are not cut.
func (m *Model) overlayPopup(base, popup string, marginTop int) string {
	if base == "" || popup == "" {
		return base
	}
	rows := strings.Split(base, "\n")
	width := lipgloss.Width(rows[0])
	popupRows := strings.Split(popup, "\n")
	left := max((width-lipgloss.Width(popupRows[0]))/2, 0)

	for i, p := range popupRows {
		row := marginTop + i
		if row >= len(rows) {
			break
		}
		rows[row] = splice(rows[row], p, left, width)
	}
	return strings.Join(rows, "\n")
}

// splice replaces the cells of line starting at column at with insert and
// pads the result to width. ANSI sequences in line are kept intact.
func splice(line, insert string, at, width int) string {
	before := ansi.Truncate(line, at, "")
	before += strings.Repeat(" ", max(at-lipgloss.Width(before), 0))
	after := ansi.TruncateLeft(line, at+lipgloss.Width(insert), "")
	out := before + insert + after
	return out + strings.Repeat(" ", max(width-lipgloss.Width(out), 0))
}

// truncateToHeight keeps the first maxLines lines of s.
func truncateToHeight(s string, maxLines int) string {
	if maxLines < 1 {
		return ""
	}
	lines := strings.SplitN(s, "\n", maxLines+1)
	return strings.Join(lines[:min(len(lines), maxLines)], "\n")
}
