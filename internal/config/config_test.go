package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chmouel/lazyfeatures/internal/diff"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, DefaultBackendURL, cfg.BackendURL)
	assert.Equal(t, 120*time.Second, cfg.RequestTimeout)
	assert.Equal(t, diff.Paired, cfg.DiffAlgorithm)
	assert.Equal(t, ".", cfg.DownloadDir)
	assert.True(t, cfg.ShowIcons)
	assert.True(t, cfg.SyntaxHighlight)
	assert.False(t, cfg.AutoRefresh)
	assert.Empty(t, cfg.Theme)
	assert.Empty(t, cfg.DebugLog)
}

func TestCoerceBool(t *testing.T) {
	tests := []struct {
		name       string
		input      any
		defaultVal bool
		expected   bool
	}{
		{name: "nil with default true", input: nil, defaultVal: true, expected: true},
		{name: "bool false", input: false, defaultVal: true, expected: false},
		{name: "int non-zero", input: 42, defaultVal: false, expected: true},
		{name: "int 0", input: 0, defaultVal: true, expected: false},
		{name: "string yes", input: " Yes ", defaultVal: false, expected: true},
		{name: "string off", input: "off", defaultVal: true, expected: false},
		{name: "string garbage keeps default", input: "maybe", defaultVal: true, expected: true},
		{name: "float keeps default", input: 1.5, defaultVal: false, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, coerceBool(tt.input, tt.defaultVal))
		})
	}
}

func TestCoerceInt(t *testing.T) {
	tests := []struct {
		name       string
		input      any
		defaultVal int
		expected   int
	}{
		{name: "nil", input: nil, defaultVal: 7, expected: 7},
		{name: "int", input: 30, defaultVal: 7, expected: 30},
		{name: "bool keeps default", input: true, defaultVal: 7, expected: 7},
		{name: "numeric string", input: " 45 ", defaultVal: 7, expected: 45},
		{name: "empty string", input: "", defaultVal: 7, expected: 7},
		{name: "bad string", input: "soon", defaultVal: 7, expected: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, coerceInt(tt.input, tt.defaultVal))
		})
	}
}

func TestParseConfig(t *testing.T) {
	cfg := parseConfig(map[string]any{
		"backend_url":      "http://backend:9000/",
		"request_timeout":  30,
		"theme":            "Nord",
		"debug_log":        " /tmp/lf.log ",
		"diff_algorithm":   "lcs",
		"download_dir":     "~/Downloads",
		"pager":            "bat --plain",
		"show_icons":       "false",
		"syntax_highlight": 0,
		"auto_refresh":     "yes",
		"unknown_key":      "ignored",
	})

	assert.Equal(t, "http://backend:9000", cfg.BackendURL)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "nord", cfg.Theme)
	assert.Equal(t, "/tmp/lf.log", cfg.DebugLog)
	assert.Equal(t, diff.LCS, cfg.DiffAlgorithm)
	assert.Equal(t, "~/Downloads", cfg.DownloadDir)
	assert.Equal(t, "bat --plain", cfg.Pager)
	assert.False(t, cfg.ShowIcons)
	assert.False(t, cfg.SyntaxHighlight)
	assert.True(t, cfg.AutoRefresh)
}

func TestParseConfigIgnoresInvalidValues(t *testing.T) {
	cfg := parseConfig(map[string]any{
		"request_timeout": -5,
		"theme":           "neon",
		"diff_algorithm":  "myers",
		"backend_url":     42,
	})
	def := DefaultConfig()
	assert.Equal(t, def.RequestTimeout, cfg.RequestTimeout)
	assert.Empty(t, cfg.Theme)
	assert.Equal(t, diff.Paired, cfg.DiffAlgorithm)
	assert.Equal(t, def.BackendURL, cfg.BackendURL)
}

func TestLoadConfig(t *testing.T) {
	t.Run("no config file returns defaults", func(t *testing.T) {
		tmpDir := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", tmpDir)
		t.Setenv(BackendURLEnv, "")

		cfg, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("valid config file", func(t *testing.T) {
		tmpDir := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", tmpDir)
		t.Setenv(BackendURLEnv, "")
		configPath := filepath.Join(tmpDir, "lazyfeatures", "config.yaml")

		yamlContent := `backend_url: http://qa.internal:8000
theme: gruvbox-dark
auto_refresh: true
diff_algorithm: lcs
`
		require.NoError(t, os.MkdirAll(filepath.Dir(configPath), 0o750))
		require.NoError(t, os.WriteFile(configPath, []byte(yamlContent), 0o600))

		cfg, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, "http://qa.internal:8000", cfg.BackendURL)
		assert.Equal(t, "gruvbox-dark", cfg.Theme)
		assert.True(t, cfg.AutoRefresh)
		assert.Equal(t, diff.LCS, cfg.DiffAlgorithm)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		tmpDir := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", tmpDir)
		configPath := filepath.Join(tmpDir, "lazyfeatures", "config.yml")
		require.NoError(t, os.MkdirAll(filepath.Dir(configPath), 0o750))
		require.NoError(t, os.WriteFile(configPath, []byte("backend_url: http://file:1\n"), 0o600))
		t.Setenv(BackendURLEnv, "http://env:2/")

		cfg, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, "http://env:2", cfg.BackendURL)
	})

	t.Run("invalid YAML is reported", func(t *testing.T) {
		tmpDir := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", tmpDir)
		configPath := filepath.Join(tmpDir, "lazyfeatures", "config.yaml")
		require.NoError(t, os.MkdirAll(filepath.Dir(configPath), 0o750))
		require.NoError(t, os.WriteFile(configPath, []byte("invalid: [[["), 0o600))

		cfg, err := LoadConfig(configPath)
		require.Error(t, err)
		assert.Equal(t, DefaultConfig().BackendURL, cfg.BackendURL)
	})

	t.Run("path outside config dir is rejected", func(t *testing.T) {
		tmpDir := t.TempDir()
		t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))

		_, err := LoadConfig(filepath.Join(tmpDir, "elsewhere.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "config path must reside inside")
	})
}

func TestResolveTheme(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Theme = "nord"
	cfg.ResolveTheme()
	assert.Equal(t, "nord", cfg.Theme)

	cfg.Theme = ""
	cfg.ResolveTheme()
	assert.NotEmpty(t, cfg.Theme)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := ExpandPath("~/features")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "features"), got)

	t.Setenv("LF_TEST_DIR", "/srv/qa")
	got, err = ExpandPath("$LF_TEST_DIR/out")
	require.NoError(t, err)
	assert.Equal(t, "/srv/qa/out", got)
}

func TestIsPathWithin(t *testing.T) {
	assert.True(t, isPathWithin("/a/b", "/a/b"))
	assert.True(t, isPathWithin("/a/b", "/a/b/c.yaml"))
	assert.False(t, isPathWithin("/a/b", "/a/bc"))
	assert.False(t, isPathWithin("/a/b", "/a"))
}

func TestNormalizeThemeName(t *testing.T) {
	assert.Equal(t, "catppuccin-mocha", NormalizeThemeName(" Catppuccin-Mocha "))
	assert.Empty(t, NormalizeThemeName("neon"))
}
