package screen

import (
	"math/rand/v2"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/chmouel/lazyfeatures/internal/theme"
	"github.com/muesli/reflow/truncate"
)

// LoadingTips are shown one at a time while a request is in flight.
var LoadingTips = []string{
	"Press '?' to view the help guide anytime.",
	"Generation is a dry run: nothing is written until you apply.",
	"Press 'd' to download the proposal as proposed_tests.zip.",
	"Press 'x' to discard the current proposal.",
	"Press 'y' to copy the file view to the clipboard.",
	"Switch between panes using '1', '2', or '3'.",
	"Set diff_algorithm: lcs for alignment-aware diffs.",
	"Press 's' to analyze a user story before writing tests.",
	"Use 'r' to reload the feature tree from the backend.",
	"Enable auto_refresh to reload when feature files change on disk.",
	"Override any setting with --config lf.key=value.",
}

// LoadingScreen covers the dashboard while a backend request runs. It
// ignores keys.
type LoadingScreen struct {
	Message        string
	FrameIdx       int
	BorderColorIdx int
	Tip            string
	Thm            *theme.Theme
	SpinnerFrames  []string
}

// DefaultSpinnerFrames returns the text-only spinner frames.
func DefaultSpinnerFrames() []string {
	return []string{"...", ".. ", ".  "}
}

// NewLoadingScreen creates a loading modal with the given message.
func NewLoadingScreen(message string, thm *theme.Theme, spinnerFrames []string) *LoadingScreen {
	frames := spinnerFrames
	if len(frames) == 0 {
		frames = DefaultSpinnerFrames()
	}

	tip := LoadingTips[rand.IntN(len(LoadingTips))] //nolint:gosec

	return &LoadingScreen{
		Message:       message,
		Tip:           tip,
		Thm:           thm,
		SpinnerFrames: frames,
	}
}

// Type returns the screen type.
func (s *LoadingScreen) Type() Type {
	return TypeLoading
}

// Update ignores keys.
func (s *LoadingScreen) Update(tea.KeyMsg) (Screen, tea.Cmd) {
	return s, nil
}

// Tick advances the spinner frame and cycles the border colour.
func (s *LoadingScreen) Tick() {
	s.FrameIdx = (s.FrameIdx + 1) % len(s.SpinnerFrames)
	s.BorderColorIdx++
}

// View renders the spinner, the message and the tip.
func (s *LoadingScreen) View() string {
	border := []lipgloss.Color{s.Thm.Accent, s.Thm.SuccessFg, s.Thm.WarnFg}
	inner := innerWidth(modalWidth)

	spinner := lipgloss.NewStyle().Foreground(s.Thm.Accent).Bold(true).
		Render(s.SpinnerFrames[s.FrameIdx%len(s.SpinnerFrames)])
	message := lipgloss.NewStyle().Foreground(s.Thm.TextFg).Bold(true).Render(s.Message)
	rule := lipgloss.NewStyle().Foreground(s.Thm.BorderDim).Render(strings.Repeat("─", inner))
	tip := lipgloss.NewStyle().Foreground(s.Thm.MutedFg).Italic(true).
		Render(truncate.StringWithTail("Tip: "+s.Tip, uint(inner), "…"))

	return frame(border[s.BorderColorIdx%len(border)], modalWidth).Height(9).
		Render(lipgloss.JoinVertical(lipgloss.Center, spinner, "", message, rule, tip))
}
