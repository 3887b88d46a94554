package app

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	appscreen "github.com/chmouel/lazyfeatures/internal/app/screen"
	"github.com/chmouel/lazyfeatures/internal/cli"
	"github.com/chmouel/lazyfeatures/internal/models"
)

// handleScreenKey routes a key to the active modal. A screen returning nil
// is dropped even when its callback already pushed a follow-up screen.
func (m *Model) handleScreenKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !m.ui.screenManager.IsActive() {
		return m, nil
	}
	current := m.ui.screenManager.Current()
	scr, cmd := current.Update(msg)
	if scr == nil {
		m.ui.screenManager.Drop(current)
	} else if m.ui.screenManager.Current() == current {
		m.ui.screenManager.Set(scr)
	}
	return m, cmd
}

func (m *Model) showGeneratePrompt() tea.Cmd {
	initial := ""
	if len(m.history) > 0 {
		initial = m.history[0]
	}
	input := appscreen.NewInputScreen("Generate from document", "/path/to/requirements.pdf", initial, m.theme)
	input.SetHistory(m.history)
	input.Validate = func(value string) string {
		if _, err := cli.ValidateDocument(value); err != nil {
			return err.Error()
		}
		return ""
	}
	input.OnSubmit = func(value string) tea.Cmd {
		path, err := cli.ValidateDocument(value)
		if err != nil {
			m.showError("Generate", err)
			return nil
		}
		m.recordDocument(strings.TrimSpace(value))
		return m.generate(path)
	}
	m.ui.screenManager.Push(input)
	return nil
}

func (m *Model) showApplyConfirm() tea.Cmd {
	p := m.session.CurrentProposal()
	confirm := appscreen.NewConfirmScreen(
		fmt.Sprintf("Apply %s to %s?", proposalSummary(p), m.featuresDirLabel()),
		m.theme,
	)
	confirm.ConfirmLabel = "Apply"
	confirm.OnConfirm = func() tea.Cmd {
		if !m.session.HasActionableContent() {
			return nil
		}
		return m.apply()
	}
	m.ui.screenManager.Push(confirm)
	return nil
}

func (m *Model) showAPIKeyPrompt() tea.Cmd {
	input := appscreen.NewInputScreen("Set API key", "sk-...", "", m.theme)
	input.SetMasked()
	input.Validate = func(value string) string {
		if strings.TrimSpace(value) == "" {
			return "API key cannot be empty"
		}
		return ""
	}
	input.OnSubmit = func(value string) tea.Cmd {
		return m.saveAPIKey(strings.TrimSpace(value))
	}
	m.ui.screenManager.Push(input)
	return nil
}

func (m *Model) showFeaturesDirPrompt() tea.Cmd {
	input := appscreen.NewInputScreen("Set features directory", "/path/to/features", m.data.status.FeaturesDirectory, m.theme)
	input.Validate = func(value string) string {
		if strings.TrimSpace(value) == "" {
			return "Directory cannot be empty"
		}
		return ""
	}
	input.OnSubmit = func(value string) tea.Cmd {
		return m.saveFeaturesDir(strings.TrimSpace(value))
	}
	m.ui.screenManager.Push(input)
	return nil
}

// showStoryPrompt asks for a title, then a description, then analyzes.
func (m *Model) showStoryPrompt() tea.Cmd {
	title := appscreen.NewInputScreen("Analyze story: title", "As a user I want...", "", m.theme)
	title.Validate = func(value string) string {
		if strings.TrimSpace(value) == "" {
			return ErrEmptyStory.Error()
		}
		return ""
	}
	title.OnSubmit = func(value string) tea.Cmd {
		return m.showStoryDescription(strings.TrimSpace(value))
	}
	m.ui.screenManager.Push(title)
	return nil
}

func (m *Model) showStoryDescription(title string) tea.Cmd {
	desc := appscreen.NewTextareaScreen(
		fmt.Sprintf("Describe %q", title),
		"Acceptance criteria, context, constraints...",
		"",
		m.view.WindowWidth,
		m.view.WindowHeight,
		m.theme,
	)
	desc.Validate = func(value string) string {
		if err := cli.ValidateStory(models.Story{Title: title, Description: value}); err != nil {
			return err.Error()
		}
		return ""
	}
	desc.OnSubmit = func(value string) tea.Cmd {
		story := models.Story{Title: title, Description: strings.TrimSpace(value)}
		if err := cli.ValidateStory(story); err != nil {
			m.showError("Analyze", err)
			return nil
		}
		return m.analyze(story)
	}
	m.ui.screenManager.Push(desc)
	return nil
}

func (m *Model) showHelp() tea.Cmd {
	m.ui.screenManager.Push(appscreen.NewHelpScreen(m.view.WindowWidth, m.view.WindowHeight, m.theme))
	return nil
}

func (m *Model) featuresDirLabel() string {
	if dir := m.data.status.FeaturesDirectory; dir != "" {
		return dir
	}
	return "the features directory"
}
