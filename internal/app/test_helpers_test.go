package app

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/chmouel/lazyfeatures/internal/config"
	"github.com/chmouel/lazyfeatures/internal/models"
)

// fakeBackend records calls; commands run it from other goroutines.
type fakeBackend struct {
	mu sync.Mutex

	status   models.SystemStatus
	apiKey   bool
	tree     models.FileTree
	treeErr  error
	sync     models.SyncResponse
	syncErr  error
	applyErr error
	archive  []byte
	dlErr    error
	analysis models.Analysis
	anErr    error
	setErr   error

	calls    []string
	applied  [][]byte
	docs     []string
	dryRuns  []bool
	keys     []string
	dirs     []string
	stories  []models.Story
	afterApp models.FileTree
}

func (f *fakeBackend) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeBackend) called(call string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (f *fakeBackend) SystemStatus(context.Context) (models.SystemStatus, error) {
	f.record("status")
	return f.status, nil
}

func (f *fakeBackend) CheckAPIKey(context.Context) (bool, error) {
	f.record("check-key")
	return f.apiKey, nil
}

func (f *fakeBackend) SetAPIKey(_ context.Context, key string) error {
	f.record("set-key")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys = append(f.keys, key)
	if f.setErr == nil {
		f.apiKey = true
	}
	return f.setErr
}

func (f *fakeBackend) TestStructure(context.Context) (models.FileTree, error) {
	f.record("tree")
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tree, f.treeErr
}

func (f *fakeBackend) SyncTests(_ context.Context, path string, dryRun bool) (models.SyncResponse, error) {
	f.record("sync")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs = append(f.docs, path)
	f.dryRuns = append(f.dryRuns, dryRun)
	return f.sync, f.syncErr
}

func (f *fakeBackend) ApplyProposed(_ context.Context, p json.Marshaler) error {
	f.record("apply")
	body, err := p.MarshalJSON()
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.applied = append(f.applied, body)
	if f.applyErr == nil && f.afterApp != nil {
		f.tree = f.afterApp
	}
	return f.applyErr
}

func (f *fakeBackend) DownloadProposed(context.Context, json.Marshaler) ([]byte, error) {
	f.record("download")
	return f.archive, f.dlErr
}

func (f *fakeBackend) SetFeaturesDirectory(_ context.Context, dir string) error {
	f.record("set-dir")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dirs = append(f.dirs, dir)
	if f.setErr == nil {
		f.status.FeaturesDirectory = dir
	}
	return f.setErr
}

func (f *fakeBackend) Analyze(_ context.Context, story models.Story) (models.Analysis, error) {
	f.record("analyze")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stories = append(f.stories, story)
	return f.analysis, f.anErr
}

func loginTree() models.FileTree {
	return models.FileTree{
		"Login": {
			"login.feature": "Feature: Login\n\n  Scenario: valid creds\n    Given a user\n    When they log in\n",
		},
	}
}

func changesResponse(t *testing.T) models.SyncResponse {
	t.Helper()
	return models.SyncResponse{Result: json.RawMessage(`{"changes":[{"action":"create_scenario","screen":"Login","feature":"login","scenario":"locked out"}]}`)}
}

func testConfig(t *testing.T) *config.AppConfig {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.DownloadDir = t.TempDir()
	cfg.ShowIcons = false
	cfg.SyntaxHighlight = false
	return cfg
}

// newTestModel builds a model with an isolated history directory and a
// recording clipboard.
func newTestModel(t *testing.T, backend *fakeBackend) (*Model, *[]string) {
	t.Helper()
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	m := NewModel(testConfig(t), backend)
	var copied []string
	m.copyToClipboard = func(text string) error {
		copied = append(copied, text)
		return nil
	}
	m.setWindowSize(140, 40)
	t.Cleanup(m.Close)
	return m, &copied
}

// drain runs cmd and feeds every resulting message back into the model
// until nothing is left. Spinner ticks are skipped so loading never loops.
func drain(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case nil, spinner.TickMsg, tea.QuitMsg:
		return
	case tea.BatchMsg:
		for _, c := range msg {
			drain(t, m, c)
		}
	default:
		_, next := m.Update(msg)
		drain(t, m, next)
	}
}

func press(t *testing.T, m *Model, key string) {
	t.Helper()
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+s":
		msg = tea.KeyMsg{Type: tea.KeyCtrlS}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	_, cmd := m.Update(msg)
	drain(t, m, cmd)
}
