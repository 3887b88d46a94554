// Package gherkin renders backend features into canonical feature-file text
// and reads scenario structure back out of existing files.
package gherkin

import (
	"path"
	"strings"

	"github.com/chmouel/lazyfeatures/internal/models"
)

// Render returns the canonical text for f. The layout is byte-identical to
// what the backend writes when a proposal is applied, so it can be diffed
// against the current file content.
func Render(f models.Feature) string {
	var b strings.Builder
	b.WriteString("Feature: ")
	b.WriteString(f.FeatureName)
	b.WriteString("\n\n")
	for _, sc := range f.Scenarios {
		b.WriteString("  Scenario: ")
		b.WriteString(sc.Name)
		b.WriteString("\n")
		for _, step := range sc.Steps {
			b.WriteString("    ")
			b.WriteString(step)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

var separators = strings.NewReplacer(" ", "_", "/", "_", "-", "_")

// Normalize turns a screen or feature name into the directory or file stem
// the backend writes: lower case, with spaces, slashes and dashes as "_".
func Normalize(name string) string {
	return separators.Replace(strings.ToLower(name))
}

// FileName returns the file name the backend uses for a feature name.
func FileName(featureName string) string {
	return Normalize(featureName) + models.FeatureExt
}

// Path returns the screen-relative diff key of f, as written on disk.
func Path(f models.Feature) string {
	return JoinPath(Normalize(f.ScreenName), FileName(f.FeatureName))
}

// JoinPath builds the "screen/file" key used to match diffs to tree files.
func JoinPath(screen, file string) string {
	return path.Join(screen, file)
}

// SplitPath is the inverse of JoinPath.
func SplitPath(key string) (screen, file string) {
	dir, file := path.Split(key)
	return strings.TrimSuffix(dir, "/"), file
}

var stepKeywords = []string{"Given", "When", "Then", "And", "But"}

// Parse reads the feature name and scenarios from feature-file text.
// It reports false when the text has no Feature: line.
func Parse(text string) (models.ParsedFeature, bool) {
	var (
		feature    models.ParsedFeature
		found      bool
		inScenario bool
		scenario   models.Scenario
	)

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		switch {
		case strings.HasPrefix(line, "Feature:"):
			feature.Name = strings.TrimSpace(strings.TrimPrefix(line, "Feature:"))
			found = true
		case strings.HasPrefix(line, "Scenario:"):
			if inScenario {
				feature.Scenarios = append(feature.Scenarios, scenario)
			}
			scenario = models.Scenario{
				Name:  strings.TrimSpace(strings.TrimPrefix(line, "Scenario:")),
				Steps: []string{},
			}
			inScenario = true
		case inScenario && isStep(line):
			scenario.Steps = append(scenario.Steps, line)
		}
	}
	if inScenario {
		feature.Scenarios = append(feature.Scenarios, scenario)
	}
	return feature, found
}

func isStep(line string) bool {
	for _, kw := range stepKeywords {
		if strings.HasPrefix(line, kw) {
			return true
		}
	}
	return false
}
