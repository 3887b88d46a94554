package screen

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/chmouel/lazyfeatures/internal/theme"
	"github.com/muesli/reflow/wordwrap"
)

// InfoScreen displays a modal message with an OK button. Error screens use
// the error colour for the border and title.
type InfoScreen struct {
	Title   string
	Message string
	IsError bool
	Thm     *theme.Theme

	OnClose func() tea.Cmd
}

// NewInfoScreen creates an informational modal with an OK button.
func NewInfoScreen(message string, thm *theme.Theme) *InfoScreen {
	return &InfoScreen{
		Title:   "Info",
		Message: message,
		Thm:     thm,
	}
}

// NewErrorScreen creates an error modal. The message is shown verbatim.
func NewErrorScreen(title, message string, thm *theme.Theme) *InfoScreen {
	return &InfoScreen{
		Title:   title,
		Message: message,
		IsError: true,
		Thm:     thm,
	}
}

// Type returns the screen type.
func (s *InfoScreen) Type() Type {
	return TypeInfo
}

// Update processes keyboard events for the info dialog.
// Returns nil to signal that the screen should be closed.
func (s *InfoScreen) Update(msg tea.KeyMsg) (Screen, tea.Cmd) {
	switch msg.String() {
	case keyEnter, keyEsc, keyEscRaw, keyQ, keyCtrlC:
		if s.OnClose != nil {
			return nil, s.OnClose()
		}
		return nil, nil
	}
	return s, nil
}

// View renders the title, the wrapped message and an OK button.
func (s *InfoScreen) View() string {
	accent := s.Thm.Accent
	if s.IsError {
		accent = s.Thm.ErrorFg
	}
	inner := innerWidth(modalWidth)
	ok := centred(s.Thm.AccentFg, modalWidth).Background(accent).Bold(true).Padding(0, 2)

	return frame(accent, modalWidth).Render(sections(
		centred(accent, modalWidth).Bold(true).Render(s.Title),
		centred(s.Thm.TextFg, modalWidth).Render(wordwrap.String(s.Message, inner)),
		ok.Render("[OK]"),
	))
}
