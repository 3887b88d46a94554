package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/chmouel/lazyfeatures/internal/app/services"
)

const (
	keyEnter    = "enter"
	keyTab      = "tab"
	keyShiftTab = "shift+tab"
	keyCtrlC    = "ctrl+c"
	keyUp       = "up"
	keyDown     = "down"
	keyQ        = "q"
)

// handleKeyMsg processes keyboard input when no modal owns it.
func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.ui.screenManager.IsActive() {
		if msg.String() == keyCtrlC && m.loading {
			return m.quit()
		}
		return m.handleScreenKey(msg)
	}

	switch msg.String() {
	case keyCtrlC, keyQ:
		return m.quit()

	case keyTab:
		m.setFocus((m.view.FocusedPane + 1) % paneCount)
		return m, nil
	case keyShiftTab:
		m.setFocus((m.view.FocusedPane + paneCount - 1) % paneCount)
		return m, nil
	case "1":
		m.setFocus(paneFiles)
		return m, nil
	case "2":
		m.setFocus(paneProposal)
		return m, nil
	case "3":
		m.setFocus(paneDiff)
		return m, nil

	case "j", keyDown:
		m.moveCursor(1)
		return m, nil
	case "k", keyUp:
		m.moveCursor(-1)
		return m, nil
	case "ctrl+d", " ":
		m.ui.diffViewport.HalfPageDown()
		return m, nil
	case "ctrl+u":
		m.ui.diffViewport.HalfPageUp()
		return m, nil
	case keyEnter:
		return m, m.handleEnter()

	case "?":
		return m, m.showHelp()
	case "g":
		return m, m.showGeneratePrompt()
	case "a":
		if !m.session.HasActionableContent() {
			m.data.notice = "Nothing to apply"
			return m, nil
		}
		return m, m.showApplyConfirm()
	case "d":
		if !m.session.HasActionableContent() {
			m.data.notice = "Nothing to download"
			return m, nil
		}
		return m, m.download()
	case "x":
		m.discard()
		return m, nil
	case "r":
		return m, tea.Batch(m.reloadTree(true), m.loadStatus())
	case "K":
		return m, m.showAPIKeyPrompt()
	case "D":
		return m, m.showFeaturesDirPrompt()
	case "s":
		return m, m.showStoryPrompt()
	case "y":
		return m, m.yank()
	case "p":
		return m, m.openInPager()
	}
	return m, nil
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.Close()
	return m, tea.Quit
}

func (m *Model) moveCursor(delta int) {
	switch m.view.FocusedPane {
	case paneFiles:
		if delta > 0 {
			m.ui.fileTable.MoveDown(delta)
		} else {
			m.ui.fileTable.MoveUp(-delta)
		}
		m.updateDiffView()
	case paneProposal:
		if delta > 0 {
			m.ui.entryTable.MoveDown(delta)
		} else {
			m.ui.entryTable.MoveUp(-delta)
		}
		if e, ok := m.selectedEntry(); ok {
			m.selectPath(e.Path)
		}
	case paneDiff:
		if delta > 0 {
			m.ui.diffViewport.ScrollDown(delta)
		} else {
			m.ui.diffViewport.ScrollUp(-delta)
		}
	}
}

// handleEnter opens the selected file or change in the diff pane.
func (m *Model) handleEnter() tea.Cmd {
	switch m.view.FocusedPane {
	case paneFiles:
		if _, ok := m.selectedRow(); ok {
			m.setFocus(paneDiff)
		}
	case paneProposal:
		if e, ok := m.selectedEntry(); ok && m.selectPath(e.Path) {
			m.setFocus(paneDiff)
		}
	}
	return nil
}

func (m *Model) discard() {
	if m.session.CurrentProposal() == nil {
		m.data.notice = "No proposal to discard"
		return
	}
	m.session.OnReset()
	m.refreshRows()
	m.setFocus(paneFiles)
	m.data.notice = "Proposal discarded"
}

func (m *Model) yank() tea.Cmd {
	if m.data.diffPath == "" {
		m.data.notice = "Nothing to copy"
		return nil
	}
	return m.copyText(plainDiff(m.data.diffLines), "Copied "+m.data.diffPath)
}

// openInPager hands the file view to the configured pager. The program is
// suspended until the pager exits.
func (m *Model) openInPager() tea.Cmd {
	if m.data.diffPath == "" {
		m.data.notice = "Nothing to page"
		return nil
	}
	pager := services.PagerCommand(m.config.Pager)
	c := services.PagerCmd(m.ctx, pager, plainDiff(m.data.diffLines))
	return m.execProcess(c, func(err error) tea.Msg {
		if err != nil {
			return errMsg{err: err}
		}
		return nil
	})
}
