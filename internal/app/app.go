// Package app implements the lazyfeatures terminal dashboard.
package app

import (
	"context"
	"encoding/json"
	"os/exec"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	appscreen "github.com/chmouel/lazyfeatures/internal/app/screen"
	"github.com/chmouel/lazyfeatures/internal/app/services"
	"github.com/chmouel/lazyfeatures/internal/cli"
	"github.com/chmouel/lazyfeatures/internal/config"
	"github.com/chmouel/lazyfeatures/internal/diff"
	"github.com/chmouel/lazyfeatures/internal/log"
	"github.com/chmouel/lazyfeatures/internal/models"
	"github.com/chmouel/lazyfeatures/internal/proposal"
	"github.com/chmouel/lazyfeatures/internal/render"
	"github.com/chmouel/lazyfeatures/internal/theme"
)

// User-input errors, shared with the command line. They never reach the
// backend.
var (
	ErrNoDocument = cli.ErrNoDocument
	ErrEmptyStory = cli.ErrEmptyStory
)

// Backend is the subset of the api client the dashboard talks to.
type Backend interface {
	SystemStatus(ctx context.Context) (models.SystemStatus, error)
	CheckAPIKey(ctx context.Context) (bool, error)
	SetAPIKey(ctx context.Context, key string) error
	TestStructure(ctx context.Context) (models.FileTree, error)
	SyncTests(ctx context.Context, path string, dryRun bool) (models.SyncResponse, error)
	ApplyProposed(ctx context.Context, p json.Marshaler) error
	DownloadProposed(ctx context.Context, p json.Marshaler) ([]byte, error)
	SetFeaturesDirectory(ctx context.Context, dir string) error
	Analyze(ctx context.Context, story models.Story) (models.Analysis, error)
}

const (
	paneFiles = iota
	paneProposal
	paneDiff
	paneCount
)

const (
	minLeftPaneWidth  = 32
	minRightPaneWidth = 32
)

type uiState struct {
	screenManager *appscreen.Manager
	spinner       spinner.Model
	fileTable     table.Model
	entryTable    table.Model
	diffViewport  viewport.Model
}

type viewState struct {
	WindowWidth  int
	WindowHeight int
	FocusedPane  int
}

type dataState struct {
	rows        []render.Row
	entries     []render.Entry
	diffPath    string
	diffLines   []diff.Line
	status      models.SystemStatus
	statusKnown bool
	apiKeySet   bool
	statusErr   string
	notice      string
}

// Model is the Bubble Tea model for the dashboard. It owns the session; the
// session is only touched from Update.
type Model struct {
	config  *config.AppConfig
	theme   *theme.Theme
	backend Backend
	session *proposal.Session

	ui   uiState
	view viewState
	data dataState

	watch *services.FeatureWatchService

	history    []string
	historyDir string

	// treeSeq fences tree reloads separately from proposal requests so a
	// watcher-triggered reload never invalidates an in-flight generate.
	treeSeq uint64

	copyToClipboard func(string) error
	execProcess     func(*exec.Cmd, tea.ExecCallback) tea.Cmd

	ctx    context.Context
	cancel context.CancelFunc

	loading  bool
	quitting bool
}

// NewModel creates the dashboard model.
func NewModel(cfg *config.AppConfig, backend Backend) *Model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	ctx, cancel := context.WithCancel(context.Background())
	thm := theme.GetTheme(cfg.Theme)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(thm.Accent)

	m := &Model{
		config:          cfg,
		theme:           thm,
		backend:         backend,
		session:         proposal.NewSession(),
		watch:           services.NewFeatureWatchService(log.Printf),
		copyToClipboard: clipboard.WriteAll,
		execProcess:     tea.ExecProcess,
		ctx:             ctx,
		cancel:          cancel,
	}
	m.ui.screenManager = appscreen.NewManager()
	m.ui.spinner = sp
	m.ui.fileTable = m.newTable(fileColumns(40))
	m.ui.entryTable = m.newTable(entryColumns(40))
	m.ui.diffViewport = viewport.New(40, 10)
	m.historyDir = services.StateDir()
	m.loadHistory()
	m.refreshRows()
	return m
}

// Init loads the backend status and the feature tree.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.loadStatus(), m.loadTree())
}

// Update handles messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.setWindowSize(msg.Width, msg.Height)
		if hs, ok := m.ui.screenManager.Current().(*appscreen.HelpScreen); ok {
			hs.SetSize(msg.Width, msg.Height)
		}
		if rs, ok := m.ui.screenManager.Current().(*appscreen.ReportScreen); ok {
			rs.Resize(msg.Width, msg.Height)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.ui.spinner, cmd = m.ui.spinner.Update(msg)
		if ls := m.loadingScreen(); ls != nil {
			ls.Tick()
		}
		return m, cmd

	case statusLoadedMsg:
		return m.handleStatusLoaded(msg)
	case treeLoadedMsg:
		return m.handleTreeLoaded(msg)
	case generateResultMsg:
		return m.handleGenerateResult(msg)
	case applyResultMsg:
		return m.handleApplyResult(msg)
	case downloadResultMsg:
		return m.handleDownloadResult(msg)
	case analysisResultMsg:
		return m.handleAnalysisResult(msg)
	case settingSavedMsg:
		return m.handleSettingSaved(msg)
	case featureWatchMsg:
		return m.handleFeatureWatch()
	case clipboardResultMsg:
		if msg.err != nil {
			m.showError("Copy failed", msg.err)
			return m, nil
		}
		m.data.notice = msg.notice
		return m, nil
	case errMsg:
		if msg.err != nil {
			m.showError("Error", msg.err)
		}
		return m, nil
	}
	return m, nil
}

// Close stops the watcher and cancels outstanding requests.
func (m *Model) Close() {
	m.watch.Stop()
	if m.cancel != nil {
		m.cancel()
	}
}

// Session exposes the proposal session, mostly for tests and the CLI.
func (m *Model) Session() *proposal.Session {
	return m.session
}
