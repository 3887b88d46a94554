package screen

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/chmouel/lazyfeatures/internal/theme"
)

// ReportScreen shows pre-rendered content, such as a story analysis, in a
// scrollable modal.
type ReportScreen struct {
	Title    string
	Content  string
	Viewport viewport.Model
	Width    int
	Height   int
	Thm      *theme.Theme

	// OnCopy is called with the raw source when the user presses y.
	Source string
	OnCopy func(string) tea.Cmd
}

// NewReportScreen creates a scrollable report modal.
func NewReportScreen(title, content string, maxWidth, maxHeight int, thm *theme.Theme) *ReportScreen {
	s := &ReportScreen{
		Title:   title,
		Content: content,
		Thm:     thm,
	}
	s.Resize(maxWidth, maxHeight)
	return s
}

// ContentWidth returns the width content should be rendered at for a
// terminal of the given width.
func ContentWidth(maxWidth int) int {
	return reportWidth(maxWidth) - 6
}

func reportWidth(maxWidth int) int {
	if maxWidth <= 0 {
		return 96
	}
	return clampInt(int(float64(maxWidth)*0.8), 70, 120)
}

// Type returns the screen type.
func (s *ReportScreen) Type() Type {
	return TypeReport
}

// Resize updates modal and viewport dimensions based on terminal size.
func (s *ReportScreen) Resize(maxWidth, maxHeight int) {
	s.Width = reportWidth(maxWidth)
	s.Height = 30
	if maxHeight > 0 {
		s.Height = clampInt(int(float64(maxHeight)*0.8), 18, 42)
	}
	s.Viewport.Width = max(1, s.Width-6)
	s.Viewport.Height = max(3, s.Height-6)
	s.Viewport.SetContent(strings.TrimRight(s.Content, "\n"))
}

// Update handles navigation and close.
func (s *ReportScreen) Update(msg tea.KeyMsg) (Screen, tea.Cmd) {
	switch msg.String() {
	case keyQ, keyEsc, keyEscRaw, keyCtrlC, keyEnter:
		return nil, nil
	case "y":
		if s.OnCopy != nil {
			return s, s.OnCopy(s.Source)
		}
		return s, nil
	case "j", "down":
		s.Viewport.ScrollDown(1)
		return s, nil
	case "k", "up":
		s.Viewport.ScrollUp(1)
		return s, nil
	case "ctrl+d", " ":
		s.Viewport.HalfPageDown()
		return s, nil
	case "ctrl+u":
		s.Viewport.HalfPageUp()
		return s, nil
	case "g":
		s.Viewport.GotoTop()
		return s, nil
	case "G":
		s.Viewport.GotoBottom()
		return s, nil
	}

	var cmd tea.Cmd
	s.Viewport, cmd = s.Viewport.Update(msg)
	return s, cmd
}

// View renders the report modal.
func (s *ReportScreen) View() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(s.Thm.Accent).
		Bold(true).
		Width(s.Width - 4).
		Align(lipgloss.Center)

	footerStyle := lipgloss.NewStyle().
		Foreground(s.Thm.MutedFg).
		Width(s.Width - 4).
		Align(lipgloss.Center)

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.Thm.Accent).
		Padding(0, 1).
		Width(s.Width).
		Height(s.Height)

	footer := "q close • j/k scroll • Ctrl+D/U half page • g/G top/bottom"
	if s.OnCopy != nil {
		footer = "y copy • " + footer
	}

	return boxStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Render(s.Title),
		s.Viewport.View(),
		footerStyle.Render(footer),
	))
}
