package screen

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// modalWidth is the width of the fixed-size prompts.
const modalWidth = 60

// clampInt bounds value to [lo, hi].
func clampInt(value, lo, hi int) int {
	return max(lo, min(value, hi))
}

// frame is the rounded box every overlay is drawn in.
func frame(border lipgloss.Color, width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(1, 2).
		Width(width)
}

// innerWidth is the text width inside a frame.
func innerWidth(width int) int {
	return width - 6
}

// centred spans the frame's inner width with text in fg.
func centred(fg lipgloss.Color, width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(fg).
		Width(innerWidth(width)).
		Align(lipgloss.Center)
}

// sections joins the non-empty parts of a modal with a blank line.
func sections(parts ...string) string {
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n\n")
}

// form is the submit and cancel plumbing shared by the text prompts.
type form struct {
	ErrorMsg string

	// Validate returns a message to show instead of submitting.
	Validate func(string) string

	OnSubmit func(value string) tea.Cmd
	OnCancel func() tea.Cmd
}

// submit validates value. It reports false when the prompt must stay open.
func (f *form) submit(value string) (bool, tea.Cmd) {
	if f.Validate != nil {
		if msg := strings.TrimSpace(f.Validate(value)); msg != "" {
			f.ErrorMsg = msg
			return false, nil
		}
	}
	f.ErrorMsg = ""
	if f.OnSubmit == nil {
		return true, nil
	}
	return true, f.OnSubmit(value)
}

func (f *form) cancel() tea.Cmd {
	if f.OnCancel == nil {
		return nil
	}
	return f.OnCancel()
}

func (f *form) errorLine(errFg lipgloss.Color, width int) string {
	if f.ErrorMsg == "" {
		return ""
	}
	return centred(errFg, width).Render(f.ErrorMsg)
}
