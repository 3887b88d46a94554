package app

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/chmouel/lazyfeatures/internal/cli"
	"github.com/chmouel/lazyfeatures/internal/config"
	"github.com/chmouel/lazyfeatures/internal/log"
	"github.com/chmouel/lazyfeatures/internal/models"
	"github.com/chmouel/lazyfeatures/internal/proposal"
)

func (m *Model) loadStatus() tea.Cmd {
	backend := m.backend
	ctx := m.ctx
	return func() tea.Msg {
		status, err := backend.SystemStatus(ctx)
		if err != nil {
			return statusLoadedMsg{err: err}
		}
		configured, err := backend.CheckAPIKey(ctx)
		if err != nil {
			log.Printf("check api key: %v", err)
			configured = status.APIConfigured
		}
		return statusLoadedMsg{status: status, apiKeySet: configured}
	}
}

func (m *Model) loadTree() tea.Cmd {
	return m.reloadTree(false)
}

// reloadTree fetches the tree; blocking reloads show the loading screen.
func (m *Model) reloadTree(blocking bool) tea.Cmd {
	m.treeSeq++
	seq := m.treeSeq
	backend := m.backend
	ctx := m.ctx
	fetch := func() tea.Msg {
		tree, err := backend.TestStructure(ctx)
		return treeLoadedMsg{seq: seq, tree: tree, err: err, blocking: blocking}
	}
	if !blocking {
		return fetch
	}
	return tea.Batch(m.startLoading("Loading feature files..."), fetch)
}

func (m *Model) generate(document string) tea.Cmd {
	seq := m.session.BeginRequest()
	log.Requestf(uint64(seq), "generate from %s", document)
	backend := m.backend
	ctx := m.ctx
	return tea.Batch(m.startLoading("Generating proposal (dry run)..."), func() tea.Msg {
		resp, err := backend.SyncTests(ctx, document, true)
		if err != nil {
			return generateResultMsg{seq: seq, document: document, err: err}
		}
		p, err := proposal.FromSyncResponse(resp)
		return generateResultMsg{seq: seq, document: document, proposal: p, err: err}
	})
}

func (m *Model) apply() tea.Cmd {
	p := m.session.CurrentProposal()
	seq := m.session.BeginRequest()
	log.Requestf(uint64(seq), "apply %s", proposalSummary(p))
	backend := m.backend
	ctx := m.ctx
	return tea.Batch(m.startLoading("Applying proposed changes..."), func() tea.Msg {
		return applyResultMsg{seq: seq, err: backend.ApplyProposed(ctx, p)}
	})
}

func (m *Model) download() tea.Cmd {
	p := m.session.CurrentProposal()
	seq := m.session.BeginRequest()
	dir := m.config.DownloadDir
	log.Requestf(uint64(seq), "download %s to %s", proposalSummary(p), dir)
	backend := m.backend
	ctx := m.ctx
	return tea.Batch(m.startLoading("Downloading proposal..."), func() tea.Msg {
		data, err := backend.DownloadProposed(ctx, p)
		if err != nil {
			return downloadResultMsg{seq: seq, err: err}
		}
		path, err := cli.SaveArchive(dir, data)
		return downloadResultMsg{seq: seq, path: path, err: err}
	})
}

func (m *Model) analyze(story models.Story) tea.Cmd {
	seq := m.session.BeginRequest()
	log.Requestf(uint64(seq), "analyze %q", story.Title)
	backend := m.backend
	ctx := m.ctx
	return tea.Batch(m.startLoading("Analyzing story..."), func() tea.Msg {
		analysis, err := backend.Analyze(ctx, story)
		return analysisResultMsg{seq: seq, story: story, analysis: analysis, err: err}
	})
}

func (m *Model) saveAPIKey(key string) tea.Cmd {
	seq := m.session.BeginRequest()
	log.Requestf(uint64(seq), "set api key")
	backend := m.backend
	ctx := m.ctx
	return tea.Batch(m.startLoading("Saving API key..."), func() tea.Msg {
		return settingSavedMsg{seq: seq, setting: settingAPIKey, err: backend.SetAPIKey(ctx, key)}
	})
}

func (m *Model) saveFeaturesDir(dir string) tea.Cmd {
	seq := m.session.BeginRequest()
	log.Requestf(uint64(seq), "set features directory %s", dir)
	backend := m.backend
	ctx := m.ctx
	return tea.Batch(m.startLoading("Updating features directory..."), func() tea.Msg {
		err := backend.SetFeaturesDirectory(ctx, dir)
		return settingSavedMsg{seq: seq, setting: settingFeaturesDir, value: dir, err: err}
	})
}

func (m *Model) copyText(text, notice string) tea.Cmd {
	write := m.copyToClipboard
	return func() tea.Msg {
		if err := write(text); err != nil {
			return clipboardResultMsg{err: fmt.Errorf("clipboard: %w", err)}
		}
		return clipboardResultMsg{notice: notice}
	}
}

// startFeatureWatcher watches the local features directory when
// auto_refresh is enabled and the backend reports a directory.
func (m *Model) startFeatureWatcher() tea.Cmd {
	if m.config == nil || !m.config.AutoRefresh {
		return nil
	}
	started, err := m.watch.Start(m.data.status.FeaturesDirectory)
	if err != nil {
		return func() tea.Msg {
			return errMsg{err: fmt.Errorf("watch features directory: %w", err)}
		}
	}
	if !started {
		return nil
	}
	log.Printf("watching %s for changes", m.watch.Root)
	return m.waitForFeatureWatchEvent()
}

func (m *Model) waitForFeatureWatchEvent() tea.Cmd {
	if m.watch == nil || !m.watch.Started {
		return nil
	}
	ch := m.watch.NextEvent()
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return featureWatchMsg{}
	}
}
