// Package config loads application configuration from YAML.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/chmouel/lazyfeatures/internal/diff"
	"github.com/chmouel/lazyfeatures/internal/theme"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultBackendURL is where the feature generation backend listens by default.
	DefaultBackendURL = "http://127.0.0.1:8000"
	// BackendURLEnv overrides backend_url from the config file.
	BackendURLEnv = "LAZYFEATURES_BACKEND_URL"

	defaultRequestTimeout = 120
)

// AppConfig defines the global lazyfeatures configuration options.
type AppConfig struct {
	BackendURL      string
	RequestTimeout  time.Duration
	Theme           string
	DebugLog        string
	DiffAlgorithm   diff.Algorithm
	DownloadDir     string
	Pager           string
	ShowIcons       bool
	SyntaxHighlight bool
	AutoRefresh     bool
}

// DefaultConfig returns the default configuration values.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		BackendURL:      DefaultBackendURL,
		RequestTimeout:  defaultRequestTimeout * time.Second,
		DiffAlgorithm:   diff.Paired,
		DownloadDir:     ".",
		ShowIcons:       true,
		SyntaxHighlight: true,
	}
}

func coerceBool(value any, defaultVal bool) bool {
	if value == nil {
		return defaultVal
	}

	switch v := value.(type) {
	case bool:
		return v
	case int:
		return v != 0
	case string:
		text := strings.ToLower(strings.TrimSpace(v))
		switch text {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return defaultVal
}

func coerceInt(value any, defaultVal int) int {
	if value == nil {
		return defaultVal
	}

	switch v := value.(type) {
	case bool:
		return defaultVal
	case int:
		return v
	case string:
		text := strings.TrimSpace(v)
		if text == "" {
			return defaultVal
		}
		if i, err := strconv.Atoi(text); err == nil {
			return i
		}
	}
	return defaultVal
}

func coerceString(value any) string {
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

// parseConfig builds a config from decoded YAML on top of the defaults.
func parseConfig(data map[string]any) *AppConfig {
	cfg := DefaultConfig()
	cfg.apply(data)
	return cfg
}

// apply overlays every recognised key in data. Unknown keys and values of
// the wrong type are ignored.
func (cfg *AppConfig) apply(data map[string]any) {
	if url := coerceString(data["backend_url"]); url != "" {
		cfg.BackendURL = strings.TrimRight(url, "/")
	}
	if _, ok := data["request_timeout"]; ok {
		if secs := coerceInt(data["request_timeout"], 0); secs > 0 {
			cfg.RequestTimeout = time.Duration(secs) * time.Second
		}
	}
	if name := coerceString(data["theme"]); name != "" {
		if normalized := NormalizeThemeName(name); normalized != "" {
			cfg.Theme = normalized
		}
	}
	if debugLog := coerceString(data["debug_log"]); debugLog != "" {
		cfg.DebugLog = debugLog
	}
	if name := coerceString(data["diff_algorithm"]); name != "" {
		if alg, ok := diff.ParseAlgorithm(name); ok {
			cfg.DiffAlgorithm = alg
		}
	}
	if dir := coerceString(data["download_dir"]); dir != "" {
		cfg.DownloadDir = dir
	}
	if pager := coerceString(data["pager"]); pager != "" {
		cfg.Pager = pager
	}
	cfg.ShowIcons = coerceBool(data["show_icons"], cfg.ShowIcons)
	cfg.SyntaxHighlight = coerceBool(data["syntax_highlight"], cfg.SyntaxHighlight)
	cfg.AutoRefresh = coerceBool(data["auto_refresh"], cfg.AutoRefresh)
}

func getConfigDir() string {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return xdgConfigHome
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config")
}

// LoadConfig reads the application configuration from a YAML file, then
// applies the environment override.
func LoadConfig(configPath string) (*AppConfig, error) {
	configBase := filepath.Join(getConfigDir(), "lazyfeatures")
	configBase = filepath.Clean(configBase)

	var paths []string

	if configPath != "" {
		expanded, err := ExpandPath(configPath)
		if err != nil {
			return DefaultConfig(), err
		}
		absPath, err := filepath.Abs(expanded)
		if err != nil {
			return DefaultConfig(), err
		}
		if !isPathWithin(configBase, absPath) {
			return DefaultConfig(), fmt.Errorf("config path must reside inside %s", configBase)
		}
		paths = []string{absPath}
	} else {
		paths = []string{
			filepath.Join(configBase, "config.yaml"),
			filepath.Join(configBase, "config.yml"),
		}
	}

	var cfg *AppConfig

	for _, path := range paths {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		// #nosec G304 -- path is constrained to the config directory after validation
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		var yamlData map[string]any
		if err := yaml.Unmarshal(data, &yamlData); err != nil {
			return DefaultConfig(), fmt.Errorf("parse %s: %w", path, err)
		}

		cfg = parseConfig(yamlData)
		break
	}

	if cfg == nil {
		cfg = DefaultConfig()
	}

	if url := strings.TrimSpace(os.Getenv(BackendURLEnv)); url != "" {
		cfg.BackendURL = strings.TrimRight(url, "/")
	}

	return cfg, nil
}

// ResolveTheme fills in the theme from the terminal background when none
// was configured.
func (cfg *AppConfig) ResolveTheme() {
	if cfg.Theme == "" {
		cfg.Theme = theme.Detect()
	}
}

// ExpandPath expands a leading ~ and environment variables.
func ExpandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, path[1:])
	}
	return os.ExpandEnv(path), nil
}

func isPathWithin(base, target string) bool {
	base = filepath.Clean(base)
	target = filepath.Clean(target)

	rel, err := filepath.Rel(base, target)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return false
	}
	return true
}

// NormalizeThemeName returns the canonical theme name if it is supported.
func NormalizeThemeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, known := range theme.AvailableThemes() {
		if name == known {
			return name
		}
	}
	return ""
}
