package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentHistoryRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")

	history, err := LoadDocumentHistory(dir)
	require.NoError(t, err)
	assert.Empty(t, history)

	require.NoError(t, SaveDocumentHistory(dir, []string{"/tmp/b.pdf", "/tmp/a.docx"}))
	history, err = LoadDocumentHistory(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"/tmp/b.pdf", "/tmp/a.docx"}, history)
}

func TestLoadDocumentHistoryInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DocumentHistoryFilename), []byte("{"), 0o600))

	history, err := LoadDocumentHistory(dir)
	require.Error(t, err)
	assert.Empty(t, history)
}

func TestAddDocument(t *testing.T) {
	history := AddDocument(nil, "  ")
	assert.Empty(t, history)

	history = AddDocument([]string{"a", "b", "c"}, "b")
	assert.Equal(t, []string{"b", "a", "c"}, history)

	long := make([]string, 0, MaxDocumentHistory)
	for i := range MaxDocumentHistory {
		long = append(long, fmt.Sprintf("doc-%d", i))
	}
	history = AddDocument(long, "new")
	assert.Len(t, history, MaxDocumentHistory)
	assert.Equal(t, "new", history[0])
	assert.NotContains(t, history, fmt.Sprintf("doc-%d", MaxDocumentHistory-1))
}

func TestRelevant(t *testing.T) {
	dir := t.TempDir()
	assert.True(t, Relevant(filepath.Join(dir, "login.feature")))
	assert.True(t, Relevant(dir))
	assert.True(t, Relevant(filepath.Join(dir, "removed-screen")))
	assert.False(t, Relevant(filepath.Join(dir, "notes.txt")))
}

func TestFeatureWatchServiceStartRejectsMissingRoot(t *testing.T) {
	w := NewFeatureWatchService(nil)

	started, err := w.Start("")
	require.NoError(t, err)
	assert.False(t, started)

	started, err = w.Start(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.False(t, started)
}

func TestFeatureWatchServiceSignalsFeatureWrites(t *testing.T) {
	root := t.TempDir()
	screenDir := filepath.Join(root, "login")
	require.NoError(t, os.MkdirAll(screenDir, 0o750))

	w := NewFeatureWatchService(t.Logf)
	started, err := w.Start(root)
	require.NoError(t, err)
	require.True(t, started)
	t.Cleanup(w.Stop)

	again, err := w.Start(root)
	require.NoError(t, err)
	assert.False(t, again, "same root is not restarted")

	events := w.NextEvent()
	require.NotNil(t, events)
	assert.Nil(t, w.NextEvent(), "only one waiter at a time")

	require.NoError(t, os.WriteFile(filepath.Join(screenDir, "login.feature"), []byte("Feature: Login\n"), 0o600))

	select {
	case <-events:
	case <-time.After(3 * time.Second):
		t.Fatal("expected a watcher event")
	}
	w.ResetWaiting()
	assert.NotNil(t, w.NextEvent())
}

func TestFeatureWatchServiceRestartReleasesWaiter(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()

	w := NewFeatureWatchService(t.Logf)
	started, err := w.Start(first)
	require.NoError(t, err)
	require.True(t, started)
	t.Cleanup(w.Stop)

	old := w.NextEvent()
	require.NotNil(t, old)

	started, err = w.Start(second)
	require.NoError(t, err)
	require.True(t, started)

	select {
	case _, ok := <-old:
		assert.False(t, ok, "previous event channel is closed")
	case <-time.After(time.Second):
		t.Fatal("waiter on the previous directory was not released")
	}
	assert.NotNil(t, w.NextEvent(), "new directory can be waited on")

	w.Stop()
	assert.Nil(t, w.NextEvent())
	assert.NotPanics(t, w.Signal)
	assert.NotPanics(t, w.Stop)
}

func TestFeatureWatchServiceDebounce(t *testing.T) {
	w := NewFeatureWatchService(nil)
	now := time.Now()
	assert.True(t, w.ShouldRefresh(now))
	assert.False(t, w.ShouldRefresh(now.Add(FeatureWatchDebounce/2)))
	assert.True(t, w.ShouldRefresh(now.Add(2*FeatureWatchDebounce)))
}

func TestIsUnderRoot(t *testing.T) {
	w := &FeatureWatchService{Root: "/srv/features"}
	assert.True(t, w.IsUnderRoot("/srv/features"))
	assert.True(t, w.IsUnderRoot("/srv/features/login/a.feature"))
	assert.False(t, w.IsUnderRoot("/srv/features-old/a.feature"))
	assert.False(t, w.IsUnderRoot(""))
}

func TestPagerCommandPrefersConfigured(t *testing.T) {
	t.Setenv("PAGER", "most")
	assert.Equal(t, "bat --plain", PagerCommand(" bat --plain "))
	assert.Equal(t, "most", PagerCommand(""))
}

func TestPagerEnv(t *testing.T) {
	assert.Equal(t, []string{"LESS=", "LESSHISTFILE=-"}, PagerEnv("less -R"))
	assert.Equal(t, []string{"LESS=", "LESSHISTFILE=-"}, PagerEnv("LESSCHARSET=utf-8 /usr/bin/less"))
	assert.Nil(t, PagerEnv("more"))
	assert.Nil(t, PagerEnv(""))
}

func TestPagerCmdPipesContent(t *testing.T) {
	c := PagerCmd(context.Background(), "less -R", "Feature: Login\n")
	assert.Equal(t, []string{"sh", "-c", "less -R"}, c.Args)
	data, err := io.ReadAll(c.Stdin)
	require.NoError(t, err)
	assert.Equal(t, "Feature: Login\n", string(data))
	assert.Contains(t, c.Env, "LESSHISTFILE=-")
}

func TestStateDir(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/tmp/state")
	assert.Equal(t, filepath.Join("/tmp/state", "lazyfeatures"), StateDir())

	home := t.TempDir()
	t.Setenv("XDG_STATE_HOME", "")
	t.Setenv("HOME", home)
	assert.Equal(t, filepath.Join(home, ".local", "state", "lazyfeatures"), StateDir())
}
