package config

import (
	"fmt"
	"strings"
)

// OverridePrefix namespaces keys passed with --config.
const OverridePrefix = "lf."

// Keys lists every configuration key, in documentation order.
var Keys = []string{
	"backend_url", "request_timeout", "theme", "debug_log", "diff_algorithm",
	"download_dir", "pager", "show_icons", "syntax_highlight", "auto_refresh",
}

// parseCLIConfigOverrides parses --config=lf.key=value format.
// Returns a map suitable for parseConfig().
func parseCLIConfigOverrides(overrides []string) (map[string]any, error) {
	result := make(map[string]any)

	for _, override := range overrides {
		fullKey, value, ok := strings.Cut(override, "=")
		if !ok {
			return nil, fmt.Errorf("invalid config override: %q, expected format: lf.key=value (note: use = not space)", override)
		}

		if !strings.HasPrefix(fullKey, OverridePrefix) {
			return nil, fmt.Errorf("config override key must start with '%s': %q", OverridePrefix, fullKey)
		}

		key := strings.TrimPrefix(fullKey, OverridePrefix)
		if key == "" {
			return nil, fmt.Errorf("empty config key in override: %q", override)
		}
		if !isKnownKey(key) {
			return nil, fmt.Errorf("unknown config key %q", key)
		}

		// Later occurrences win.
		result[key] = value
	}

	return result, nil
}

// ApplyCLIOverrides applies --config overrides on top of the loaded config.
func (cfg *AppConfig) ApplyCLIOverrides(overrides []string) error {
	data, err := parseCLIConfigOverrides(overrides)
	if err != nil {
		return err
	}
	if name, ok := data["theme"].(string); ok && NormalizeThemeName(name) == "" {
		return fmt.Errorf("unknown theme %q", name)
	}
	cfg.apply(data)
	return nil
}

func isKnownKey(key string) bool {
	for _, k := range Keys {
		if k == key {
			return true
		}
	}
	return false
}

// SuggestConfigKeys returns "lf.key=" completions matching prefix.
func SuggestConfigKeys(prefix string) []string {
	var matches []string
	for _, key := range Keys {
		if prefix == "" || strings.HasPrefix(key, prefix) {
			matches = append(matches, OverridePrefix+key+"=")
		}
	}
	return matches
}
