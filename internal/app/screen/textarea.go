package screen

import (
	"fmt"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/chmouel/lazyfeatures/internal/theme"
)

// TextareaScreen is a multiline prompt, used for story descriptions. Enter
// inserts a newline. Ctrl+S submits.
type TextareaScreen struct {
	form

	Prompt string
	Input  textarea.Model
	Thm    *theme.Theme

	width  int
	height int
}

// NewTextareaScreen sizes the prompt to three quarters of the terminal.
func NewTextareaScreen(prompt, placeholder, value string, maxWidth, maxHeight int, thm *theme.Theme) *TextareaScreen {
	width, height := 90, 22
	if maxWidth > 0 {
		width = clampInt(maxWidth*3/4, 70, 110)
	}
	if maxHeight > 0 {
		height = clampInt(maxHeight*3/4, 16, 36)
	}

	ta := textarea.New()
	ta.Prompt = ""
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetWidth(width - 8)
	ta.SetHeight(clampInt(height-11, 6, 24))
	ta.FocusedStyle, ta.BlurredStyle = textareaStyles(thm)
	ta.SetValue(value)
	ta.Focus()

	return &TextareaScreen{
		Prompt: prompt,
		Input:  ta,
		Thm:    thm,
		width:  width,
		height: height,
	}
}

func textareaStyles(thm *theme.Theme) (focused, blurred textarea.Style) {
	text := lipgloss.NewStyle().Foreground(thm.TextFg)
	muted := lipgloss.NewStyle().Foreground(thm.MutedFg)
	focused = textarea.Style{
		Base:        lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(thm.Border).Padding(0, 1),
		Text:        text,
		CursorLine:  text,
		Prompt:      lipgloss.NewStyle().Foreground(thm.Accent),
		Placeholder: muted.Italic(true),
		EndOfBuffer: muted,
	}
	blurred = focused
	blurred.Base = focused.Base.BorderForeground(thm.BorderDim)
	return focused, blurred
}

// Type returns the screen type.
func (s *TextareaScreen) Type() Type {
	return TypeTextarea
}

// Update handles a key.
func (s *TextareaScreen) Update(msg tea.KeyMsg) (Screen, tea.Cmd) {
	switch msg.String() {
	case "ctrl+s", "alt+enter":
		if ok, cmd := s.submit(s.Input.Value()); ok {
			return nil, cmd
		}
		return s, nil
	case keyEsc, keyEscRaw, keyCtrlC:
		return nil, s.cancel()
	}
	var cmd tea.Cmd
	s.Input, cmd = s.Input.Update(msg)
	return s, cmd
}

// View renders the prompt with a character count.
func (s *TextareaScreen) View() string {
	count := fmt.Sprintf("%d characters", utf8.RuneCountInString(s.Input.Value()))
	return frame(s.Thm.Accent, s.width).Height(s.height).Render(sections(
		centred(s.Thm.Accent, s.width).Bold(true).Render(s.Prompt),
		s.Input.View(),
		s.errorLine(s.Thm.ErrorFg, s.width),
		centred(s.Thm.MutedFg, s.width).Render(count+" • Ctrl+S submit • Esc cancel • Enter newline"),
	))
}
