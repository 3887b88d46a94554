package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderBody renders the main body area with panes.
func (m *Model) renderBody(layout layoutDims) string {
	// An empty block still occupies one line in JoinVertical.
	left := lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderFilesPane(layout),
		strings.Repeat("\n", layout.gapY-1),
		m.renderProposalPane(layout),
	)
	right := m.renderDiffPane(layout)
	gap := lipgloss.NewStyle().
		Width(layout.gapX).
		Render(strings.Repeat(" ", layout.gapX))
	return lipgloss.JoinHorizontal(lipgloss.Top, left, gap, right)
}

func (m *Model) renderFilesPane(layout layoutDims) string {
	focused := m.view.FocusedPane == paneFiles
	title := m.renderPaneTitle(1, "Feature files", focused, layout.leftInnerWidth)
	content := m.ui.fileTable.View()
	if len(m.data.rows) == 0 {
		content = m.mutedText("No feature files yet. Press g to generate.")
	}
	return m.renderPane(lipgloss.JoinVertical(lipgloss.Left, title, content), focused, layout.leftWidth, layout.leftTopHeight)
}

func (m *Model) renderProposalPane(layout layoutDims) string {
	focused := m.view.FocusedPane == paneProposal
	label := "Proposed changes"
	if p := m.session.CurrentProposal(); p.Actionable() {
		label += " (" + proposalSummary(p) + ")"
	}
	title := m.renderPaneTitle(2, label, focused, layout.leftInnerWidth)
	content := m.ui.entryTable.View()
	if len(m.data.entries) == 0 {
		content = m.mutedText("No changes proposed.")
	}
	return m.renderPane(lipgloss.JoinVertical(lipgloss.Left, title, content), focused, layout.leftWidth, layout.leftBottomHeight)
}

func (m *Model) renderDiffPane(layout layoutDims) string {
	focused := m.view.FocusedPane == paneDiff
	title := m.renderPaneTitle(3, diffTitle(m.data.diffPath, m.data.diffLines), focused, layout.rightInnerWidth)
	content := lipgloss.JoinVertical(lipgloss.Left, title, m.ui.diffViewport.View())
	return m.renderPane(content, focused, layout.rightWidth, layout.bodyHeight)
}

// renderPane draws content inside a pane box of the given outer size.
func (m *Model) renderPane(content string, focused bool, width, height int) string {
	style := m.paneStyle(focused)
	innerHeight := max(1, height-style.GetVerticalBorderSize())
	return style.
		Width(max(1, width-style.GetHorizontalBorderSize())).
		Height(innerHeight).
		MaxHeight(height).
		Render(truncateToHeight(content, max(1, innerHeight-style.GetVerticalPadding())))
}

func (m *Model) mutedText(text string) string {
	return lipgloss.NewStyle().Foreground(m.theme.MutedFg).Italic(true).Render(text)
}
