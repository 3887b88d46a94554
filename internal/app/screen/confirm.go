package screen

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/chmouel/lazyfeatures/internal/theme"
)

// Key constants for navigation.
const (
	keyEnter    = "enter"
	keyEsc      = "esc"
	keyEscRaw   = "\x1b" // Raw escape byte for terminals that send ESC as a rune
	keyTab      = "tab"
	keyShiftTab = "shift+tab"
	keyQ        = "q"
	keyCtrlC    = "ctrl+c"
)

// ConfirmScreen asks before an irreversible action such as apply.
type ConfirmScreen struct {
	Message        string
	ConfirmLabel   string
	SelectedButton int // 0 = Confirm, 1 = Cancel
	Thm            *theme.Theme

	OnConfirm func() tea.Cmd
	OnCancel  func() tea.Cmd
}

// NewConfirmScreen creates a confirm screen preloaded with a message.
func NewConfirmScreen(message string, thm *theme.Theme) *ConfirmScreen {
	return &ConfirmScreen{
		Message:      message,
		ConfirmLabel: "Confirm",
		Thm:          thm,
	}
}

// Type returns the screen type.
func (s *ConfirmScreen) Type() Type {
	return TypeConfirm
}

func (s *ConfirmScreen) confirm() (Screen, tea.Cmd) {
	if s.OnConfirm != nil {
		return nil, s.OnConfirm()
	}
	return nil, nil
}

func (s *ConfirmScreen) cancel() (Screen, tea.Cmd) {
	if s.OnCancel != nil {
		return nil, s.OnCancel()
	}
	return nil, nil
}

// Update handles a key. y and n answer directly; Tab and the arrows move
// the focus between the buttons.
func (s *ConfirmScreen) Update(msg tea.KeyMsg) (Screen, tea.Cmd) {
	switch msg.String() {
	case keyTab, keyShiftTab, "right", "left", "l", "h":
		s.SelectedButton = 1 - s.SelectedButton
	case "y", "Y":
		return s.confirm()
	case "n", "N", keyEsc, keyEscRaw, keyQ, keyCtrlC:
		return s.cancel()
	case keyEnter:
		if s.SelectedButton == 0 {
			return s.confirm()
		}
		return s.cancel()
	}
	return s, nil
}

// View renders the message above the two buttons. The focused button is
// filled.
func (s *ConfirmScreen) View() string {
	const height = 11
	buttonWidth := innerWidth(modalWidth) / 2

	button := lipgloss.NewStyle().Width(buttonWidth).Align(lipgloss.Center).Padding(0, 2)
	idle := button.Foreground(s.Thm.MutedFg).Background(s.Thm.BorderDim)
	labels := [2]string{"[" + s.ConfirmLabel + "]", "[Cancel]"}
	fills := [2]lipgloss.Color{s.Thm.SuccessFg, s.Thm.Accent}

	var buttons [2]string
	for i, label := range labels {
		style := idle
		if i == s.SelectedButton {
			style = button.Foreground(s.Thm.AccentFg).Background(fills[i]).Bold(true)
		}
		buttons[i] = style.Render(label)
	}

	message := lipgloss.NewStyle().
		Foreground(s.Thm.TextFg).
		Width(modalWidth-4).
		Height(height-6).
		Align(lipgloss.Center, lipgloss.Center).
		Render(s.Message)

	return frame(s.Thm.Accent, modalWidth).Height(height).Render(
		sections(message, buttons[0]+"  "+buttons[1]),
	)
}
