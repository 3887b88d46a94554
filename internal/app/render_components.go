package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

// renderHeader renders the toolbar: app name, backend and status.
func (m *Model) renderHeader(layout layoutDims) string {
	headerStyle := lipgloss.NewStyle().
		Background(m.theme.AccentDim).
		Foreground(m.theme.TextFg).
		Bold(true).
		Width(layout.width).
		Padding(0, 2)

	parts := []string{"lazyfeatures"}
	switch {
	case m.data.statusErr != "":
		parts = append(parts, "backend unreachable")
	case m.data.statusKnown:
		parts = append(parts, m.apiKeyLabel())
		if dir := m.data.status.FeaturesDirectory; dir != "" {
			parts = append(parts, m.iconPrefix(iconFolder)+dir)
		}
	}
	if m.data.notice != "" {
		parts = append(parts, m.data.notice)
	}

	content := strings.Join(parts, "  •  ")
	available := max(1, layout.width-headerStyle.GetHorizontalFrameSize())
	return headerStyle.Render(truncate.StringWithTail(content, uint(available), "…"))
}

func (m *Model) apiKeyLabel() string {
	if m.data.apiKeySet {
		return m.iconPrefix(iconAPIKeySet) + "API key set"
	}
	return m.iconPrefix(iconAPIKeyMissing) + "API key missing (K)"
}

func (m *Model) iconPrefix(icon string) string {
	if !m.config.ShowIcons {
		return ""
	}
	return spaced(icon)
}

type keyHint struct{ key, label string }

// footerHints lists the keys usable right now. Apply, download and discard
// only show while the proposal has something to act on.
func (m *Model) footerHints() []keyHint {
	hints := []keyHint{{"g", "Generate"}}
	if m.session.HasActionableContent() {
		hints = append(hints, keyHint{"a", "Apply"}, keyHint{"d", "Download"}, keyHint{"x", "Discard"})
	}
	if m.view.FocusedPane == paneDiff {
		hints = append(hints, keyHint{"y", "Copy"}, keyHint{"p", "Pager"}, keyHint{"^d/^u", "Scroll"})
	} else {
		hints = append(hints, keyHint{"enter", "Open"})
	}
	return append(hints, keyHint{"r", "Reload"}, keyHint{"s", "Story"}, keyHint{"?", "Help"}, keyHint{"q", "Quit"})
}

func (m *Model) renderFooter(layout layoutDims) string {
	pill := lipgloss.NewStyle().Foreground(m.theme.AccentFg).Background(m.theme.Accent).Bold(true).Padding(0, 1)
	label := lipgloss.NewStyle().Foreground(m.theme.Accent)
	hints := m.footerHints()
	rendered := make([]string, len(hints))
	for i, h := range hints {
		rendered[i] = pill.Render(h.key) + " " + label.Render(h.label)
	}

	bar := lipgloss.NewStyle().Foreground(m.theme.TextFg).Background(m.theme.BorderDim).Padding(0, 1).MaxHeight(1)
	content := strings.Join(rendered, "  ")
	if !m.loading {
		return bar.Width(layout.width).Render(content)
	}
	spin := "  " + m.ui.spinner.View()
	return bar.Width(max(layout.width-lipgloss.Width(spin), 0)).Render(content) + spin
}

// renderPaneTitle renders "[n] title", highlighted when the pane has focus.
func (m *Model) renderPaneTitle(index int, title string, focused bool, width int) string {
	fg, numFg := m.theme.MutedFg, m.theme.MutedFg
	if focused {
		fg, numFg = m.theme.TextFg, m.theme.Accent
	}
	format := "[%d]"
	if m.config.ShowIcons {
		format = "(%d)"
	}
	num := lipgloss.NewStyle().Foreground(numFg).Bold(focused).Render(fmt.Sprintf(format, index))
	name := lipgloss.NewStyle().Foreground(fg).Bold(focused).
		Render(truncate.StringWithTail(title, uint(max(1, width-5)), "…"))
	return lipgloss.NewStyle().Width(width).MaxHeight(1).Render(num + " " + name)
}

// paneStyle draws focused panes with a rounded accent border. Both borders
// have the same frame size, which layout relies on.
func (m *Model) paneStyle(focused bool) lipgloss.Style {
	style := lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(m.theme.BorderDim).Padding(0, 1)
	if focused {
		style = style.Border(lipgloss.RoundedBorder()).BorderForeground(m.theme.Accent)
	}
	return style
}
