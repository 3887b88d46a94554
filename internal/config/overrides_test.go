package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCLIConfigOverrides(t *testing.T) {
	tests := []struct {
		name      string
		input     []string
		expected  map[string]any
		expectErr string
	}{
		{name: "empty", input: nil, expected: map[string]any{}},
		{name: "single", input: []string{"lf.theme=nord"}, expected: map[string]any{"theme": "nord"}},
		{name: "value with equals", input: []string{"lf.backend_url=http://h/?a=b"}, expected: map[string]any{"backend_url": "http://h/?a=b"}},
		{name: "last wins", input: []string{"lf.theme=nord", "lf.theme=dracula"}, expected: map[string]any{"theme": "dracula"}},
		{name: "missing equals", input: []string{"lf.theme"}, expectErr: "expected format"},
		{name: "wrong prefix", input: []string{"lw.theme=nord"}, expectErr: "must start with 'lf.'"},
		{name: "empty key", input: []string{"lf.=x"}, expectErr: "empty config key"},
		{name: "unknown key", input: []string{"lf.editor=vim"}, expectErr: `unknown config key "editor"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseCLIConfigOverrides(tt.input)
			if tt.expectErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestApplyCLIOverrides(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.ApplyCLIOverrides([]string{
		"lf.request_timeout=15",
		"lf.auto_refresh=on",
		"lf.show_icons=0",
	}))
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.True(t, cfg.AutoRefresh)
	assert.False(t, cfg.ShowIcons)

	err := cfg.ApplyCLIOverrides([]string{"lf.theme=neon"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown theme "neon"`)
}

func TestSuggestConfigKeys(t *testing.T) {
	assert.Equal(t, []string{"lf.show_icons=", "lf.syntax_highlight="}, SuggestConfigKeys("s"))
	assert.Len(t, SuggestConfigKeys(""), len(Keys))
}
