package app

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/chmouel/lazyfeatures/internal/log"
	"github.com/chmouel/lazyfeatures/internal/models"
	"github.com/chmouel/lazyfeatures/internal/proposal"
)

// Messages produced by commands. Every proposal request carries the Seq the
// session handed out when it was sent.
type (
	errMsg          struct{ err error }
	statusLoadedMsg struct {
		status    models.SystemStatus
		apiKeySet bool
		err       error
	}
	treeLoadedMsg struct {
		seq      uint64
		tree     models.FileTree
		err      error
		blocking bool
	}
	generateResultMsg struct {
		seq      proposal.Seq
		document string
		proposal *proposal.Proposal
		err      error
	}
	applyResultMsg struct {
		seq proposal.Seq
		err error
	}
	downloadResultMsg struct {
		seq  proposal.Seq
		path string
		err  error
	}
	analysisResultMsg struct {
		seq      proposal.Seq
		story    models.Story
		analysis models.Analysis
		err      error
	}
	settingSavedMsg struct {
		seq     proposal.Seq
		setting string
		value   string
		err     error
	}
	featureWatchMsg    struct{}
	clipboardResultMsg struct {
		notice string
		err    error
	}
)

// Settings changed through settingSavedMsg.
const (
	settingAPIKey      = "api key"
	settingFeaturesDir = "features directory"
)

func (m *Model) handleStatusLoaded(msg statusLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		log.Printf("system status: %v", msg.err)
		m.data.statusErr = msg.err.Error()
		return m, nil
	}
	m.data.statusErr = ""
	m.data.status = msg.status
	m.data.statusKnown = true
	m.data.apiKeySet = msg.apiKeySet
	return m, m.startFeatureWatcher()
}

func (m *Model) handleTreeLoaded(msg treeLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.treeSeq {
		log.Printf("dropping stale tree response %d (latest %d)", msg.seq, m.treeSeq)
		return m, nil
	}
	if msg.blocking {
		m.stopLoading()
	}
	if msg.err != nil {
		log.Printf("load tree: %v", msg.err)
		m.showError("Failed to load features", msg.err)
		return m, nil
	}
	m.session.SetTree(msg.tree)
	m.refreshRows()
	return m, nil
}

func (m *Model) handleGenerateResult(msg generateResultMsg) (tea.Model, tea.Cmd) {
	outcome := m.session.OnGenerate(msg.seq, msg.proposal, msg.err)
	log.Requestf(uint64(msg.seq), "generate %s: %s", msg.document, outcome)
	if outcome == proposal.OutcomeStale {
		return m, nil
	}
	m.stopLoading()
	switch outcome {
	case proposal.OutcomeFailed:
		m.showError("Generation failed", msg.err)
	case proposal.OutcomeNoChanges:
		m.refreshRows()
		m.showInfo("No changes proposed.")
	default:
		m.refreshRows()
		m.data.notice = fmt.Sprintf("Proposal ready: %s", proposalSummary(m.session.CurrentProposal()))
		m.setFocus(paneProposal)
	}
	return m, nil
}

func (m *Model) handleApplyResult(msg applyResultMsg) (tea.Model, tea.Cmd) {
	outcome := m.session.OnApply(msg.seq, msg.err)
	log.Requestf(uint64(msg.seq), "apply: %s", outcome)
	if outcome == proposal.OutcomeStale {
		return m, nil
	}
	m.stopLoading()
	if outcome == proposal.OutcomeFailed {
		m.showError("Apply failed", msg.err)
		return m, nil
	}
	m.refreshRows()
	m.data.notice = "Changes applied"
	return m, m.reloadTree(true)
}

func (m *Model) handleDownloadResult(msg downloadResultMsg) (tea.Model, tea.Cmd) {
	if m.session.IsStale(msg.seq) {
		log.Requestf(uint64(msg.seq), "download: stale")
		return m, nil
	}
	m.stopLoading()
	if msg.err != nil {
		log.Requestf(uint64(msg.seq), "download: %v", msg.err)
		m.showError("Download failed", msg.err)
		return m, nil
	}
	log.Requestf(uint64(msg.seq), "download: saved %s", msg.path)
	m.data.notice = fmt.Sprintf("Saved %s", msg.path)
	return m, nil
}

func (m *Model) handleAnalysisResult(msg analysisResultMsg) (tea.Model, tea.Cmd) {
	if m.session.IsStale(msg.seq) {
		log.Requestf(uint64(msg.seq), "analyze: stale")
		return m, nil
	}
	m.stopLoading()
	if msg.err != nil {
		log.Requestf(uint64(msg.seq), "analyze: %v", msg.err)
		m.showError("Analysis failed", msg.err)
		return m, nil
	}
	log.Requestf(uint64(msg.seq), "analyze: risk %s", msg.analysis.RiskLevel)
	m.showAnalysis(msg.story, msg.analysis)
	return m, nil
}

func (m *Model) handleSettingSaved(msg settingSavedMsg) (tea.Model, tea.Cmd) {
	if m.session.IsStale(msg.seq) {
		return m, nil
	}
	m.stopLoading()
	if msg.err != nil {
		log.Requestf(uint64(msg.seq), "set %s: %v", msg.setting, msg.err)
		m.showError(fmt.Sprintf("Failed to set %s", msg.setting), msg.err)
		return m, nil
	}
	log.Requestf(uint64(msg.seq), "set %s: ok", msg.setting)
	m.data.notice = fmt.Sprintf("Updated %s", msg.setting)
	if msg.setting == settingFeaturesDir {
		m.data.status.FeaturesDirectory = msg.value
		return m, tea.Batch(m.loadStatus(), m.reloadTree(false))
	}
	return m, m.loadStatus()
}

func (m *Model) handleFeatureWatch() (tea.Model, tea.Cmd) {
	m.watch.ResetWaiting()
	next := m.waitForFeatureWatchEvent()
	if m.loading || !m.watch.ShouldRefresh(time.Now()) {
		return m, next
	}
	log.Printf("features directory changed, reloading tree")
	return m, tea.Batch(m.reloadTree(false), next)
}

func proposalSummary(p *proposal.Proposal) string {
	n := p.Len()
	switch p.Kind() {
	case proposal.KindFeatures:
		return pluralize(n, "feature")
	case proposal.KindDiff:
		return pluralize(n, "file")
	default:
		return pluralize(n, "change")
	}
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
