package screen

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/chmouel/lazyfeatures/internal/theme"
)

// InputScreen is a single-line prompt: the document path, the API key and
// the features directory. Up and Down walk the recent values.
type InputScreen struct {
	form

	Prompt string
	Input  textinput.Model
	Thm    *theme.Theme

	// History is newest first. HistoryIndex is -1 while not browsing and
	// OriginalInput holds what was typed before browsing started.
	History       []string
	HistoryIndex  int
	OriginalInput string
}

// NewInputScreen returns a focused prompt holding value.
func NewInputScreen(prompt, placeholder, value string, thm *theme.Theme) *InputScreen {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = placeholder
	ti.CharLimit = 512
	ti.Width = innerWidth(modalWidth) - 2
	ti.TextStyle = lipgloss.NewStyle().Foreground(thm.TextFg)
	ti.SetValue(value)
	ti.Focus()

	return &InputScreen{
		Prompt:       prompt,
		Input:        ti,
		Thm:          thm,
		HistoryIndex: -1,
	}
}

// SetMasked hides typed characters, for secrets.
func (s *InputScreen) SetMasked() {
	s.Input.EchoMode = textinput.EchoPassword
	s.Input.EchoCharacter = '•'
}

// SetHistory enables Up/Down recall of history.
func (s *InputScreen) SetHistory(history []string) {
	s.History = history
	s.HistoryIndex = -1
	s.OriginalInput = ""
}

// Type returns the screen type.
func (s *InputScreen) Type() Type {
	return TypeInput
}

// Update handles a key. Enter submits and Esc cancels.
func (s *InputScreen) Update(msg tea.KeyMsg) (Screen, tea.Cmd) {
	switch msg.String() {
	case keyEnter:
		ok, cmd := s.submit(s.Input.Value())
		if !ok {
			return s, nil
		}
		s.HistoryIndex = -1
		return nil, cmd
	case keyEsc, keyEscRaw, keyCtrlC:
		return nil, s.cancel()
	case "up":
		if s.recall(1) {
			return s, nil
		}
	case "down":
		if s.recall(-1) {
			return s, nil
		}
	}

	switch msg.Type {
	case tea.KeyRunes, tea.KeyBackspace, tea.KeyDelete:
		s.HistoryIndex = -1
	}
	var cmd tea.Cmd
	s.Input, cmd = s.Input.Update(msg)
	return s, cmd
}

// recall moves through history, older for step 1 and newer for step -1.
// Stepping past the newest entry restores the typed text.
func (s *InputScreen) recall(step int) bool {
	if len(s.History) == 0 {
		return false
	}
	if s.HistoryIndex == -1 {
		if step < 0 {
			return true
		}
		s.OriginalInput = s.Input.Value()
	}
	s.HistoryIndex = clampInt(s.HistoryIndex+step, -1, len(s.History)-1)
	if s.HistoryIndex == -1 {
		s.Input.SetValue(s.OriginalInput)
	} else {
		s.Input.SetValue(s.History[s.HistoryIndex])
	}
	s.Input.CursorEnd()
	return true
}

// View renders the prompt.
func (s *InputScreen) View() string {
	field := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(s.Thm.Border).
		Padding(0, 1).
		Width(innerWidth(modalWidth))

	hint := "Enter to confirm • Esc to cancel"
	if len(s.History) > 0 {
		hint = "Up/Down recent • " + hint
	}
	return frame(s.Thm.Accent, modalWidth).Render(sections(
		centred(s.Thm.Accent, modalWidth).Bold(true).Render(s.Prompt),
		field.Render(s.Input.View()),
		s.errorLine(s.Thm.ErrorFg, modalWidth),
		centred(s.Thm.MutedFg, modalWidth).Render(hint),
	))
}
