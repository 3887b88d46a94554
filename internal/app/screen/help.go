package screen

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/chmouel/lazyfeatures/internal/theme"
)

const helpText = `lazyfeatures Help Guide

**Navigation**
- j / k: Move in the focused pane (scroll in the diff pane)
- 1 / 2 / 3: Focus files / proposed changes / diff
- Tab: Cycle to next pane
- Ctrl+D / Ctrl+U: Half page down / up in the diff pane
- q: Quit application

**Proposal**
- g: Generate a proposal from a document (dry run)
- a: Apply the proposal to the features directory (asks first)
- d: Download the proposal as proposed_tests.zip
- x: Discard the proposal
- Apply and download are only available while the proposal has changes

**Files**
- r: Reload the feature tree
- y: Copy the current file view to the clipboard
- p: Open the current file view in the pager ($PAGER or less)
- Files the proposal creates are listed after the current tree
- Markers: + new, ~ changed, - deleted

**Backend**
- K: Set the API key
- D: Set the features directory
- s: Analyze a user story (title, then description)

**Help Navigation**
- /: Search help (Enter to apply, Esc to clear)
- q / Esc: Close help
- j / k: Scroll up / down

**Configuration & Overrides**
Configuration is read from (highest precedence first):
1. CLI overrides: lazyfeatures --config=lf.key=value
2. LAZYFEATURES_BACKEND_URL for the backend address
3. YAML file: ~/.config/lazyfeatures/config.yaml
4. Built-in defaults`

// HelpScreen renders searchable documentation for the app controls.
type HelpScreen struct {
	Viewport    viewport.Model
	Width       int
	Height      int
	FullText    []string
	SearchInput textinput.Model
	Searching   bool
	SearchQuery string
	Thm         *theme.Theme
}

// NewHelpScreen initializes help content with the available screen size.
func NewHelpScreen(maxWidth, maxHeight int, thm *theme.Theme) *HelpScreen {
	ti := textinput.New()
	ti.Placeholder = "Search help (/ to start, Enter to apply, Esc to clear)"
	ti.CharLimit = 64
	ti.Prompt = "/ "
	ti.Blur()

	hs := &HelpScreen{
		FullText:    strings.Split(helpText, "\n"),
		SearchInput: ti,
		Thm:         thm,
	}
	hs.SetSize(maxWidth, maxHeight)
	hs.refreshContent()
	return hs
}

// Type returns TypeHelp to identify this screen.
func (s *HelpScreen) Type() Type {
	return TypeHelp
}

// Update handles scrolling and search input for the help screen.
func (s *HelpScreen) Update(msg tea.KeyMsg) (Screen, tea.Cmd) {
	var cmd tea.Cmd
	key := msg.String()

	switch key {
	case "/":
		if !s.Searching {
			s.Searching = true
			s.SearchInput.Focus()
			return s, textinput.Blink
		}
	case keyEnter:
		if s.Searching {
			s.SearchQuery = strings.TrimSpace(s.SearchInput.Value())
			s.Searching = false
			s.SearchInput.Blur()
			s.refreshContent()
			return s, nil
		}
	case keyEsc, keyEscRaw, keyCtrlC:
		if s.Searching || s.SearchQuery != "" {
			s.Searching = false
			s.SearchInput.SetValue("")
			s.SearchQuery = ""
			s.SearchInput.Blur()
			s.refreshContent()
			return s, nil
		}
		return nil, nil
	case keyQ:
		if !s.Searching {
			return nil, nil
		}
	}

	if s.Searching {
		s.SearchInput, cmd = s.SearchInput.Update(msg)
		if q := strings.TrimSpace(s.SearchInput.Value()); q != s.SearchQuery {
			s.SearchQuery = q
			s.refreshContent()
		}
		return s, cmd
	}

	switch key {
	case "ctrl+d", " ":
		s.Viewport.HalfPageDown()
		return s, nil
	case "ctrl+u":
		s.Viewport.HalfPageUp()
		return s, nil
	case "j", "down":
		s.Viewport.ScrollDown(1)
		return s, nil
	case "k", "up":
		s.Viewport.ScrollUp(1)
		return s, nil
	}

	s.Viewport, cmd = s.Viewport.Update(msg)
	return s, cmd
}

// SetSize updates the help screen dimensions (useful on terminal resize).
func (s *HelpScreen) SetSize(maxWidth, maxHeight int) {
	s.Width = 80
	s.Height = 30
	if maxWidth > 0 {
		s.Width = clampInt(int(float64(maxWidth)*0.75), 60, 100)
	}
	if maxHeight > 0 {
		s.Height = clampInt(int(float64(maxHeight)*0.7), 20, 40)
	}
	s.Viewport.Width = s.Width - 2
	s.Viewport.Height = max(5, s.Height-4)
	s.SearchInput.Width = max(20, s.Width-6)
}

func (s *HelpScreen) refreshContent() {
	s.Viewport.SetContent(s.renderContent())
	s.Viewport.GotoTop()
}

// renderContent applies styling and search filtering to help text.
func (s *HelpScreen) renderContent() string {
	titleStyle := lipgloss.NewStyle().Foreground(s.Thm.Accent).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(s.Thm.SuccessFg).Bold(true)

	styled := make([]string, 0, len(s.FullText))
	for _, line := range s.FullText {
		if strings.HasPrefix(line, "**") && strings.HasSuffix(line, "**") {
			header := strings.TrimSuffix(strings.TrimPrefix(line, "**"), "**")
			styled = append(styled, titleStyle.Render("▼ "+header))
			continue
		}
		if strings.HasPrefix(line, "- ") {
			if keys, desc, ok := strings.Cut(strings.TrimPrefix(line, "- "), ": "); ok {
				styled = append(styled, "  "+keyStyle.Render(keys)+": "+desc)
				continue
			}
		}
		styled = append(styled, line)
	}

	query := strings.ToLower(strings.TrimSpace(s.SearchQuery))
	if query == "" {
		return strings.Join(styled, "\n")
	}

	highlight := lipgloss.NewStyle().Foreground(s.Thm.AccentFg).Background(s.Thm.Accent).Bold(true)
	var filtered []string
	for _, line := range s.FullText {
		lower := strings.ToLower(line)
		if strings.Contains(lower, query) {
			filtered = append(filtered, highlightMatches(line, lower, query, highlight))
		}
	}
	if len(filtered) == 0 {
		return fmt.Sprintf("No help entries match %q", s.SearchQuery)
	}
	return strings.Join(filtered, "\n")
}

// highlightMatches highlights all occurrences of the query in the line.
func highlightMatches(line, lowerLine, lowerQuery string, style lipgloss.Style) string {
	var b strings.Builder
	from := 0
	for {
		idx := strings.Index(lowerLine[from:], lowerQuery)
		if idx < 0 {
			b.WriteString(line[from:])
			break
		}
		start := from + idx
		end := start + len(lowerQuery)
		b.WriteString(line[from:start])
		b.WriteString(style.Render(line[start:end]))
		from = end
	}
	return b.String()
}

// View renders the help content and search input inside the viewport.
func (s *HelpScreen) View() string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.Thm.Accent).
		Width(s.Width)

	title := lipgloss.NewStyle().
		Foreground(s.Thm.Accent).
		Bold(true).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(s.Thm.BorderDim).
		Width(s.Width-2).
		Padding(0, 1).
		Render("Help")

	blocks := []string{title}
	if s.Searching || s.SearchQuery != "" {
		blocks = append(blocks, lipgloss.NewStyle().Width(s.Width-2).Padding(0, 1).Render(s.SearchInput.View()))
	}

	body := lipgloss.NewStyle().Padding(0, 1).Width(s.Width - 2).Render(s.Viewport.View())
	footer := lipgloss.NewStyle().
		Foreground(s.Thm.MutedFg).
		Width(s.Width - 2).
		PaddingTop(1).
		Render("j/k: scroll • Ctrl+d/u: page • /: search • esc: close")

	blocks = append(blocks, body, footer)
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, blocks...))
}
