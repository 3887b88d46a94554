package app

import (
	tea "github.com/charmbracelet/bubbletea"

	appscreen "github.com/chmouel/lazyfeatures/internal/app/screen"
	"github.com/chmouel/lazyfeatures/internal/models"
	"github.com/chmouel/lazyfeatures/internal/render"
)

func (m *Model) showAnalysis(story models.Story, a models.Analysis) {
	source := render.AnalysisMarkdown(story, a)
	width := appscreen.ContentWidth(m.view.WindowWidth)
	content := render.Markdown(source, m.theme.MarkdownStyle, width)
	report := appscreen.NewReportScreen("Story analysis", content, m.view.WindowWidth, m.view.WindowHeight, m.theme)
	report.Source = source
	report.OnCopy = func(text string) tea.Cmd {
		return m.copyText(text, "Analysis copied to clipboard")
	}
	m.ui.screenManager.Push(report)
}
