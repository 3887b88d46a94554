package app

import (
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chmouel/lazyfeatures/internal/api"
	appscreen "github.com/chmouel/lazyfeatures/internal/app/screen"
	"github.com/chmouel/lazyfeatures/internal/app/services"
	"github.com/chmouel/lazyfeatures/internal/models"
	"github.com/chmouel/lazyfeatures/internal/proposal"
	"github.com/chmouel/lazyfeatures/internal/render"
)

func writeDocument(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "requirements.txt")
	require.NoError(t, os.WriteFile(path, []byte("users can be locked out"), 0o600))
	return path
}

// generateFrom opens the generate prompt, fills in path and submits.
func generateFrom(t *testing.T, m *Model, path string) {
	t.Helper()
	press(t, m, "g")
	input, ok := m.ui.screenManager.Current().(*appscreen.InputScreen)
	require.True(t, ok, "expected the document prompt")
	input.Input.SetValue(path)
	press(t, m, "enter")
}

func loadedModel(t *testing.T, backend *fakeBackend) *Model {
	t.Helper()
	m, _ := newTestModel(t, backend)
	drain(t, m, m.Init())
	return m
}

func TestNewModelDefaults(t *testing.T) {
	m, _ := newTestModel(t, &fakeBackend{})

	assert.Equal(t, paneFiles, m.view.FocusedPane)
	assert.Equal(t, proposal.StateEmpty, m.session.State())
	assert.Empty(t, m.data.rows)
	assert.False(t, m.loading)
	assert.NotNil(t, m.Session())
}

func TestInitLoadsStatusAndTree(t *testing.T) {
	backend := &fakeBackend{
		status: models.SystemStatus{APIConfigured: true, FeaturesDirectory: "/srv/features"},
		apiKey: true,
		tree:   loginTree(),
	}
	m := loadedModel(t, backend)

	require.Len(t, m.data.rows, 1)
	assert.Equal(t, "Login/login.feature", m.data.rows[0].Path)
	assert.Equal(t, 1, m.data.rows[0].Scenarios)
	assert.True(t, m.data.apiKeySet)
	assert.Equal(t, "Login/login.feature", m.data.diffPath)

	view := m.View()
	assert.Contains(t, view, "API key set")
	assert.Contains(t, view, "/srv/features")
	assert.Contains(t, view, "Feature files")
}

func TestTreeLoadFailureShowsBackendMessage(t *testing.T) {
	backend := &fakeBackend{treeErr: &api.Error{Status: 500, Message: "features directory not configured"}}
	m := loadedModel(t, backend)

	info, ok := m.ui.screenManager.Current().(*appscreen.InfoScreen)
	require.True(t, ok)
	assert.Equal(t, "features directory not configured", info.Message)
}

func TestStaleTreeResponseIsDropped(t *testing.T) {
	m, _ := newTestModel(t, &fakeBackend{})
	m.treeSeq = 2

	m.Update(treeLoadedMsg{seq: 1, tree: loginTree()})
	assert.Empty(t, m.data.rows)

	m.Update(treeLoadedMsg{seq: 2, tree: loginTree()})
	assert.Len(t, m.data.rows, 1)
}

func TestGenerateRejectsEmptyDocumentWithoutRequest(t *testing.T) {
	backend := &fakeBackend{tree: loginTree()}
	m := loadedModel(t, backend)

	generateFrom(t, m, "")

	input, ok := m.ui.screenManager.Current().(*appscreen.InputScreen)
	require.True(t, ok, "prompt stays open")
	assert.Equal(t, ErrNoDocument.Error(), input.ErrorMsg)
	assert.Zero(t, backend.called("sync"))
}

func TestGenerateAcceptsChangesProposal(t *testing.T) {
	backend := &fakeBackend{tree: loginTree(), sync: changesResponse(t)}
	m := loadedModel(t, backend)
	doc := writeDocument(t)

	generateFrom(t, m, doc)

	assert.False(t, m.ui.screenManager.IsActive(), "prompt and loading closed")
	assert.False(t, m.loading)
	assert.Equal(t, []bool{true}, backend.dryRuns)
	assert.Equal(t, []string{doc}, backend.docs)
	assert.Equal(t, proposal.StateProposed, m.session.State())
	assert.True(t, m.session.HasActionableContent())
	assert.Equal(t, paneProposal, m.view.FocusedPane)

	require.Len(t, m.data.entries, 1)
	assert.Equal(t, "create_scenario", m.data.entries[0].Action)
	require.Len(t, m.data.rows, 1)
	assert.Equal(t, render.StatusChanged, m.data.rows[0].Status)
	assert.Contains(t, plainDiff(m.data.diffLines), "+  Scenario: locked out")

	assert.Equal(t, []string{doc}, m.history)
	history, err := services.LoadDocumentHistory(m.historyDir)
	require.NoError(t, err)
	assert.Equal(t, []string{doc}, history)

	footer := m.renderFooter(m.computeLayout())
	assert.Contains(t, footer, "Apply")
	assert.Contains(t, footer, "Download")
}

func TestGenerateWithNoChanges(t *testing.T) {
	backend := &fakeBackend{tree: loginTree(), sync: models.SyncResponse{Result: []byte(`{"changes":[]}`)}}
	m := loadedModel(t, backend)

	generateFrom(t, m, writeDocument(t))

	assert.Equal(t, proposal.StateEmpty, m.session.State())
	info, ok := m.ui.screenManager.Current().(*appscreen.InfoScreen)
	require.True(t, ok)
	assert.Equal(t, "No changes proposed.", info.Message)
	assert.NotContains(t, m.renderFooter(m.computeLayout()), "Apply")
}

func TestGenerateFailureKeepsProposal(t *testing.T) {
	backend := &fakeBackend{tree: loginTree(), sync: changesResponse(t)}
	m := loadedModel(t, backend)
	doc := writeDocument(t)
	generateFrom(t, m, doc)
	before := m.session.CurrentProposal()
	require.NotNil(t, before)

	backend.mu.Lock()
	backend.syncErr = &api.Error{Status: 502, Message: "LLM quota exceeded"}
	backend.mu.Unlock()
	generateFrom(t, m, doc)

	assert.Same(t, before, m.session.CurrentProposal())
	info, ok := m.ui.screenManager.Current().(*appscreen.InfoScreen)
	require.True(t, ok)
	assert.True(t, info.IsError)
	assert.Equal(t, "LLM quota exceeded", info.Message)
	assert.False(t, m.loading)
}

func TestStaleGenerateResponseIsDropped(t *testing.T) {
	m, _ := newTestModel(t, &fakeBackend{})
	m.session.SetTree(loginTree())
	first := m.session.BeginRequest()
	second := m.session.BeginRequest()

	p := proposal.NewChanges([]models.ChangeAction{{Action: models.ActionDeleteFeature, Screen: "Login", Feature: "login"}})
	m.Update(generateResultMsg{seq: first, proposal: p})
	assert.Nil(t, m.session.CurrentProposal())

	m.Update(generateResultMsg{seq: second, proposal: p})
	assert.Same(t, p, m.session.CurrentProposal())
}

func TestApplyRequiresActionableProposal(t *testing.T) {
	backend := &fakeBackend{tree: loginTree()}
	m := loadedModel(t, backend)

	press(t, m, "a")
	assert.False(t, m.ui.screenManager.IsActive())
	assert.Equal(t, "Nothing to apply", m.data.notice)

	press(t, m, "d")
	assert.Equal(t, "Nothing to download", m.data.notice)
	assert.Zero(t, backend.called("apply"))
	assert.Zero(t, backend.called("download"))
}

func TestApplyConfirmsThenClearsAndReloads(t *testing.T) {
	applied := loginTree()
	applied["Login"]["login.feature"] += "  Scenario: locked out\n"
	backend := &fakeBackend{tree: loginTree(), sync: changesResponse(t), afterApp: applied}
	m := loadedModel(t, backend)
	generateFrom(t, m, writeDocument(t))

	press(t, m, "a")
	_, ok := m.ui.screenManager.Current().(*appscreen.ConfirmScreen)
	require.True(t, ok, "apply asks first")
	assert.Zero(t, backend.called("apply"))

	press(t, m, "y")

	assert.Equal(t, 1, backend.called("apply"))
	require.Len(t, backend.applied, 1)
	assert.JSONEq(t, string(changesResponse(t).Result), string(backend.applied[0]))
	assert.Nil(t, m.session.CurrentProposal())
	assert.Equal(t, "Changes applied", m.data.notice)
	assert.False(t, m.loading)
	assert.False(t, m.ui.screenManager.IsActive())
	assert.Contains(t, m.session.Tree()["Login"]["login.feature"], "locked out")
}

func TestApplyCancelSendsNothing(t *testing.T) {
	backend := &fakeBackend{tree: loginTree(), sync: changesResponse(t)}
	m := loadedModel(t, backend)
	generateFrom(t, m, writeDocument(t))

	press(t, m, "a")
	press(t, m, "n")

	assert.Zero(t, backend.called("apply"))
	assert.NotNil(t, m.session.CurrentProposal())
}

func TestApplyFailureKeepsProposal(t *testing.T) {
	backend := &fakeBackend{tree: loginTree(), sync: changesResponse(t), applyErr: errors.New("POST /apply-proposed: connection refused")}
	m := loadedModel(t, backend)
	generateFrom(t, m, writeDocument(t))

	press(t, m, "a")
	press(t, m, "y")

	assert.NotNil(t, m.session.CurrentProposal())
	assert.True(t, m.session.HasActionableContent())
	info, ok := m.ui.screenManager.Current().(*appscreen.InfoScreen)
	require.True(t, ok)
	assert.Equal(t, "POST /apply-proposed: connection refused", info.Message)

	footer := m.renderFooter(m.computeLayout())
	assert.Contains(t, footer, "Apply")
	assert.Contains(t, footer, "Download")

	press(t, m, "enter")
	press(t, m, "a")
	_, ok = m.ui.screenManager.Current().(*appscreen.ConfirmScreen)
	assert.True(t, ok, "apply can be retried")
}

func TestDownloadWritesArchive(t *testing.T) {
	backend := &fakeBackend{tree: loginTree(), sync: changesResponse(t), archive: []byte("PK\x03\x04zip")}
	m := loadedModel(t, backend)
	generateFrom(t, m, writeDocument(t))

	press(t, m, "d")

	path := filepath.Join(m.config.DownloadDir, models.ProposedArchiveName)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "PK\x03\x04zip", string(data))
	assert.Equal(t, "Saved "+path, m.data.notice)
	assert.NotNil(t, m.session.CurrentProposal(), "download keeps the proposal")
}

func TestDiscardFencesInFlightGenerate(t *testing.T) {
	backend := &fakeBackend{tree: loginTree(), sync: changesResponse(t)}
	m := loadedModel(t, backend)
	generateFrom(t, m, writeDocument(t))
	require.NotNil(t, m.session.CurrentProposal())

	inFlight := m.session.BeginRequest()
	press(t, m, "x")
	assert.Nil(t, m.session.CurrentProposal())
	assert.Equal(t, "Proposal discarded", m.data.notice)
	assert.Equal(t, render.StatusCurrent, m.data.rows[0].Status)

	m.Update(generateResultMsg{seq: inFlight, proposal: proposal.NewChanges([]models.ChangeAction{{Action: models.ActionDeleteFeature, Screen: "Login", Feature: "login"}})})
	assert.Nil(t, m.session.CurrentProposal(), "late response after discard is ignored")

	press(t, m, "x")
	assert.Equal(t, "No proposal to discard", m.data.notice)
}

func TestAnalyzeStoryFlow(t *testing.T) {
	backend := &fakeBackend{analysis: models.Analysis{
		Summary:            "Lockout after failed attempts",
		RiskLevel:          models.RiskHigh,
		MissingDefinitions: []string{"How many attempts?"},
		EdgeCases:          []string{"Concurrent logins"},
	}}
	m, copied := newTestModel(t, backend)

	press(t, m, "s")
	title, ok := m.ui.screenManager.Current().(*appscreen.InputScreen)
	require.True(t, ok)
	title.Input.SetValue("Account lockout")
	press(t, m, "enter")

	desc, ok := m.ui.screenManager.Current().(*appscreen.TextareaScreen)
	require.True(t, ok, "description follows the title")
	assert.Equal(t, 0, m.ui.screenManager.StackDepth(), "title prompt is gone")

	press(t, m, "ctrl+s")
	assert.Equal(t, ErrEmptyStory.Error(), desc.ErrorMsg)
	assert.Zero(t, backend.called("analyze"))

	desc.Input.SetValue("Lock the account after 3 failures")
	press(t, m, "ctrl+s")

	require.Len(t, backend.stories, 1)
	assert.Equal(t, models.Story{Title: "Account lockout", Description: "Lock the account after 3 failures"}, backend.stories[0])
	report, ok := m.ui.screenManager.Current().(*appscreen.ReportScreen)
	require.True(t, ok)
	assert.Contains(t, report.Source, "**Risk level:** HIGH")
	assert.Contains(t, report.Source, "- How many attempts?")

	press(t, m, "y")
	require.Len(t, *copied, 1)
	assert.Equal(t, report.Source, (*copied)[0])
}

func TestSetAPIKeyAndFeaturesDirectory(t *testing.T) {
	backend := &fakeBackend{tree: loginTree()}
	m := loadedModel(t, backend)
	assert.False(t, m.data.apiKeySet)

	press(t, m, "K")
	key, ok := m.ui.screenManager.Current().(*appscreen.InputScreen)
	require.True(t, ok)
	press(t, m, "enter")
	assert.Equal(t, "API key cannot be empty", key.ErrorMsg)
	key.Input.SetValue(" sk-test ")
	press(t, m, "enter")
	assert.Equal(t, []string{"sk-test"}, backend.keys)
	assert.True(t, m.data.apiKeySet)

	press(t, m, "D")
	dir, ok := m.ui.screenManager.Current().(*appscreen.InputScreen)
	require.True(t, ok)
	dir.Input.SetValue("/srv/other")
	press(t, m, "enter")
	assert.Equal(t, []string{"/srv/other"}, backend.dirs)
	assert.Equal(t, "/srv/other", m.data.status.FeaturesDirectory)
	assert.Equal(t, "Updated features directory", m.data.notice)
}

func TestYankCopiesFileView(t *testing.T) {
	backend := &fakeBackend{tree: loginTree()}
	m, copied := newTestModel(t, backend)
	press(t, m, "y")
	assert.Equal(t, "Nothing to copy", m.data.notice)

	drain(t, m, m.Init())
	press(t, m, "y")
	require.Len(t, *copied, 1)
	assert.True(t, strings.HasPrefix((*copied)[0], " Feature: Login\n"))
	assert.Equal(t, "Copied Login/login.feature", m.data.notice)
}

func TestClipboardFailureShowsError(t *testing.T) {
	m, _ := newTestModel(t, &fakeBackend{})
	m.Update(clipboardResultMsg{err: errors.New("clipboard: no xclip")})

	info, ok := m.ui.screenManager.Current().(*appscreen.InfoScreen)
	require.True(t, ok)
	assert.Equal(t, "clipboard: no xclip", info.Message)
}

func TestPaneNavigation(t *testing.T) {
	tree := loginTree()
	tree["Signup"] = map[string]string{"signup.feature": "Feature: Signup\n"}
	m := loadedModel(t, &fakeBackend{tree: tree})

	press(t, m, "j")
	assert.Equal(t, "Signup/signup.feature", m.data.diffPath)
	press(t, m, "k")
	assert.Equal(t, "Login/login.feature", m.data.diffPath)

	press(t, m, "tab")
	assert.Equal(t, paneProposal, m.view.FocusedPane)
	press(t, m, "3")
	assert.Equal(t, paneDiff, m.view.FocusedPane)
	press(t, m, "1")
	press(t, m, "enter")
	assert.Equal(t, paneDiff, m.view.FocusedPane)
	press(t, m, "2")
	assert.Equal(t, paneProposal, m.view.FocusedPane)
}

func TestProposalEntrySelectsFile(t *testing.T) {
	tree := loginTree()
	tree["Signup"] = map[string]string{"signup.feature": "Feature: Signup\n"}
	backend := &fakeBackend{tree: tree, sync: models.SyncResponse{Result: []byte(`{"changes":[` +
		`{"action":"create_scenario","screen":"Login","feature":"login","scenario":"a"},` +
		`{"action":"delete_feature","screen":"Signup","feature":"signup"}]}`)}}
	m := loadedModel(t, backend)
	generateFrom(t, m, writeDocument(t))
	require.Equal(t, paneProposal, m.view.FocusedPane)

	press(t, m, "j")
	assert.Equal(t, "Signup/signup.feature", m.data.diffPath)
	assert.Equal(t, render.StatusDeleted, m.data.rows[1].Status)
}

func TestHelpAndQuit(t *testing.T) {
	m, _ := newTestModel(t, &fakeBackend{})
	press(t, m, "?")
	assert.Equal(t, appscreen.TypeHelp, m.ui.screenManager.Type())
	press(t, m, "q")
	assert.False(t, m.ui.screenManager.IsActive(), "q closes help first")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.True(t, m.quitting)
	assert.Empty(t, m.View())
}

func TestViewBeforeWindowSize(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	m := NewModel(testConfig(t), &fakeBackend{})
	t.Cleanup(m.Close)
	assert.Equal(t, "Loading...", m.View())
}

func TestNewModelNilConfigUsesDefaults(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	m := NewModel(nil, &fakeBackend{})
	t.Cleanup(m.Close)
	assert.Equal(t, "http://127.0.0.1:8000", m.config.BackendURL)
}

func TestOpenInPagerPipesFileView(t *testing.T) {
	m, _ := newTestModel(t, &fakeBackend{tree: loginTree()})
	m.config.Pager = "less -R"
	var got *exec.Cmd
	m.execProcess = func(c *exec.Cmd, cb tea.ExecCallback) tea.Cmd {
		got = c
		return func() tea.Msg { return cb(errors.New("pager exited 1")) }
	}

	press(t, m, "p")
	assert.Nil(t, got)
	assert.Equal(t, "Nothing to page", m.data.notice)

	drain(t, m, m.Init())
	press(t, m, "p")
	require.NotNil(t, got)
	assert.Equal(t, []string{"sh", "-c", "less -R"}, got.Args)
	body, err := io.ReadAll(got.Stdin)
	require.NoError(t, err)
	assert.Equal(t, plainDiff(m.data.diffLines), string(body))

	info, ok := m.ui.screenManager.Current().(*appscreen.InfoScreen)
	require.True(t, ok)
	assert.Equal(t, "pager exited 1", info.Message)
}
