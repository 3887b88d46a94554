package app

import (
	"errors"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/chmouel/lazyfeatures/internal/api"
	appscreen "github.com/chmouel/lazyfeatures/internal/app/screen"
	"github.com/chmouel/lazyfeatures/internal/app/services"
	"github.com/chmouel/lazyfeatures/internal/log"
)

func (m *Model) newLoadingScreen(message string) *appscreen.LoadingScreen {
	return appscreen.NewLoadingScreen(message, m.theme, spinnerFrameSet(m.config.ShowIcons))
}

// startLoading shows the loading modal and starts the spinner.
func (m *Model) startLoading(message string) tea.Cmd {
	m.loading = true
	m.ui.screenManager.Remove(appscreen.TypeLoading)
	m.ui.screenManager.Push(m.newLoadingScreen(message))
	return m.ui.spinner.Tick
}

func (m *Model) stopLoading() {
	m.loading = false
	m.ui.screenManager.Remove(appscreen.TypeLoading)
}

func (m *Model) loadingScreen() *appscreen.LoadingScreen {
	if m.ui.screenManager.Type() != appscreen.TypeLoading {
		return nil
	}
	loadingScreen, _ := m.ui.screenManager.Current().(*appscreen.LoadingScreen)
	return loadingScreen
}

func spinnerFrameSet(icons bool) []string {
	if icons {
		return []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	}
	return appscreen.DefaultSpinnerFrames()
}

// showInfo displays an informational modal.
func (m *Model) showInfo(message string) {
	m.ui.screenManager.Push(appscreen.NewInfoScreen(message, m.theme))
}

// showError displays err verbatim in an error modal. Backend errors show the
// backend's own message.
func (m *Model) showError(title string, err error) {
	if err == nil {
		return
	}
	message := err.Error()
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		message = apiErr.Error()
	}
	m.ui.screenManager.Push(appscreen.NewErrorScreen(title, message, m.theme))
}

func (m *Model) setFocus(pane int) {
	if pane < 0 || pane >= paneCount {
		return
	}
	m.view.FocusedPane = pane
	m.ui.fileTable.Blur()
	m.ui.entryTable.Blur()
	switch pane {
	case paneFiles:
		m.ui.fileTable.Focus()
	case paneProposal:
		m.ui.entryTable.Focus()
	}
	if m.view.WindowWidth > 0 {
		m.applyLayout(m.computeLayout())
	}
}

func (m *Model) newTable(columns []table.Column) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithHeight(10),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(m.theme.BorderDim).
		BorderBottom(true).
		Foreground(m.theme.MutedFg).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(m.theme.AccentFg).
		Background(m.theme.Accent).
		Bold(true)
	s.Cell = s.Cell.Foreground(m.theme.TextFg)
	t.SetStyles(s)
	return t
}

// loadHistory reads the recent document list; failures only reach the log.
func (m *Model) loadHistory() {
	if m.historyDir == "" {
		return
	}
	history, err := services.LoadDocumentHistory(m.historyDir)
	if err != nil {
		log.Printf("failed to parse document history: %v", err)
	}
	m.history = history
}

func (m *Model) recordDocument(path string) {
	m.history = services.AddDocument(m.history, path)
	if m.historyDir == "" {
		return
	}
	if err := services.SaveDocumentHistory(m.historyDir, m.history); err != nil {
		log.Printf("failed to save document history: %v", err)
	}
}
