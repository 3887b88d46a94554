package screen

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chmouel/lazyfeatures/internal/theme"
)

type doneMsg struct{ value string }

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestConfirmScreenCallbacks(t *testing.T) {
	thm := theme.Dracula()
	confirmed, cancelled := false, false
	newScreen := func() *ConfirmScreen {
		s := NewConfirmScreen("Apply 2 changes?", thm)
		s.ConfirmLabel = "Apply"
		s.OnConfirm = func() tea.Cmd { confirmed = true; return nil }
		s.OnCancel = func() tea.Cmd { cancelled = true; return nil }
		return s
	}

	next, _ := newScreen().Update(runes("y"))
	assert.Nil(t, next)
	assert.True(t, confirmed)

	s := newScreen()
	next, _ = s.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Same(t, s, next)
	assert.Equal(t, 1, s.SelectedButton)
	next, _ = s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, next)
	assert.True(t, cancelled)

	assert.Contains(t, newScreen().View(), "[Apply]")
}

func TestInfoScreenClosesOnEnter(t *testing.T) {
	s := NewErrorScreen("Apply failed", "Directory does not exist", theme.Dracula())
	view := s.View()
	assert.Contains(t, view, "Apply failed")
	assert.Contains(t, view, "Directory does not exist")

	next, _ := s.Update(runes("x"))
	assert.Same(t, s, next)
	next, _ = s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, next)
}

func TestInputScreenValidation(t *testing.T) {
	s := NewInputScreen("Document to upload", "path", "", theme.Dracula())
	s.Validate = func(v string) string {
		if strings.TrimSpace(v) == "" {
			return "Please choose a document first."
		}
		return ""
	}
	var submitted string
	s.OnSubmit = func(v string) tea.Cmd {
		submitted = v
		return func() tea.Msg { return doneMsg{v} }
	}

	next, _ := s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Same(t, s, next)
	assert.Equal(t, "Please choose a document first.", s.ErrorMsg)
	assert.Contains(t, s.View(), "Please choose a document first.")

	s.Input.SetValue("requirements.pdf")
	next, cmd := s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, next)
	assert.Equal(t, "requirements.pdf", submitted)
	require.NotNil(t, cmd)
	assert.Equal(t, doneMsg{"requirements.pdf"}, cmd())
}

func TestInputScreenHistory(t *testing.T) {
	s := NewInputScreen("Document", "", "draft", theme.Dracula())
	s.SetHistory([]string{"newest.md", "older.md"})

	s.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, "newest.md", s.Input.Value())
	s.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, "older.md", s.Input.Value())
	s.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, "older.md", s.Input.Value())
	s.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, "newest.md", s.Input.Value())
	s.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, "draft", s.Input.Value())
}

func TestInputScreenCancel(t *testing.T) {
	s := NewInputScreen("Key", "", "", theme.Dracula())
	s.SetMasked()
	cancelled := false
	s.OnCancel = func() tea.Cmd { cancelled = true; return nil }
	next, _ := s.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, next)
	assert.True(t, cancelled)
}

func TestLoadingScreenTick(t *testing.T) {
	s := NewLoadingScreen("Generating proposal...", theme.Dracula(), []string{"a", "b"})
	assert.Contains(t, LoadingTips, s.Tip)
	s.Tick()
	assert.Equal(t, 1, s.FrameIdx)
	s.Tick()
	assert.Equal(t, 0, s.FrameIdx)
	next, _ := s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Same(t, s, next)
	assert.Contains(t, s.View(), "Generating proposal...")
}

func TestHelpScreenSearch(t *testing.T) {
	s := NewHelpScreen(100, 40, theme.Dracula())
	s.Update(runes("/"))
	assert.True(t, s.Searching)
	for _, r := range "download" {
		s.Update(runes(string(r)))
	}
	assert.Equal(t, "download", s.SearchQuery)
	content := s.renderContent()
	assert.Contains(t, content, "proposed_tests.zip")
	assert.NotContains(t, content, "Set the API key")

	s.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Empty(t, s.SearchQuery)
	next, _ := s.Update(runes("q"))
	assert.Nil(t, next)
}

func TestReportScreenCopy(t *testing.T) {
	s := NewReportScreen("Story analysis", "# Summary\nok\n", 120, 40, theme.Dracula())
	s.Source = "# Summary\nok\n"
	copyErr := errors.New("no clipboard")
	var copied string
	s.OnCopy = func(text string) tea.Cmd {
		copied = text
		return func() tea.Msg { return copyErr }
	}
	next, cmd := s.Update(runes("y"))
	assert.Same(t, s, next)
	assert.Equal(t, "# Summary\nok\n", copied)
	assert.Equal(t, copyErr, cmd())
	assert.Contains(t, s.View(), "y copy")

	next, _ = s.Update(runes("q"))
	assert.Nil(t, next)
}

func TestContentWidth(t *testing.T) {
	assert.Equal(t, 90, ContentWidth(0))
	assert.Equal(t, 64, ContentWidth(10))
	assert.Equal(t, 114, ContentWidth(1000))
}
