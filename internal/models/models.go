// Package models defines the data objects shared across lazyfeatures packages.
package models

import "encoding/json"

// FileTree maps screen name to file name to full file content.
// A tree is a snapshot: it is replaced wholesale on reload, never edited.
type FileTree map[string]map[string]string

// Content returns the content of screen/file and whether it exists.
func (t FileTree) Content(screen, file string) (string, bool) {
	files, ok := t[screen]
	if !ok {
		return "", false
	}
	content, ok := files[file]
	return content, ok
}

// Has reports whether screen/file is part of the tree.
func (t FileTree) Has(screen, file string) bool {
	_, ok := t.Content(screen, file)
	return ok
}

// FileCount returns the number of files across all screens.
func (t FileTree) FileCount() int {
	n := 0
	for _, files := range t {
		n += len(files)
	}
	return n
}

// Scenario is a named, ordered list of already formatted steps.
type Scenario struct {
	Name  string   `json:"name"`
	Steps []string `json:"steps"`
}

// Feature is a named scenario group produced by the backend.
type Feature struct {
	ScreenName   string     `json:"screen_name"`
	FeatureGroup string     `json:"feature_group,omitempty"`
	FeatureName  string     `json:"feature_name"`
	Description  string     `json:"description,omitempty"`
	Scenarios    []Scenario `json:"scenarios"`
}

// ParsedFeature is a feature recovered from existing .feature text.
type ParsedFeature struct {
	Name      string
	Scenarios []Scenario
}

// Change actions understood by the backend update engine.
const (
	ActionCreateFeature  = "create_feature"
	ActionDeleteFeature  = "delete_feature"
	ActionCreateScenario = "create_scenario"
	ActionDeleteScenario = "delete_scenario"
	ActionUpdateStep     = "update_step"
)

// ChangeAction is one discrete entry of an update plan.
type ChangeAction struct {
	Action    string  `json:"action"`
	Screen    string  `json:"screen"`
	Feature   string  `json:"feature"`
	Scenario  *string `json:"scenario,omitempty"`
	StepIndex *int    `json:"step_index,omitempty"`
	OldValue  *string `json:"old_value,omitempty"`
	NewValue  *string `json:"new_value,omitempty"`
}

// ScenarioName returns the scenario name or an empty string.
func (c ChangeAction) ScenarioName() string {
	if c.Scenario == nil {
		return ""
	}
	return *c.Scenario
}

// SystemStatus is the payload of GET /system-status.
type SystemStatus struct {
	APIConfigured     bool   `json:"api_configured"`
	FeaturesDirectory string `json:"features_directory"`
}

// SyncResponse is the payload of POST /sync-tests. Result keeps the raw
// proposal JSON so it can be posted back verbatim; Diff is either a list of
// unified-diff lines or a map of file to such lines.
type SyncResponse struct {
	Result json.RawMessage `json:"result"`
	Diff   json.RawMessage `json:"diff,omitempty"`
}

// Story is the body of POST /analyze.
type Story struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Risk levels accepted in an analysis.
const (
	RiskLow    = "LOW"
	RiskMedium = "MEDIUM"
	RiskHigh   = "HIGH"
)

// Analysis is the payload of POST /analyze.
type Analysis struct {
	Summary                    string   `json:"summary"`
	RiskLevel                  string   `json:"risk_level"`
	MissingDefinitions         []string `json:"missing_definitions"`
	AcceptanceCriteriaProposed []string `json:"acceptance_criteria_proposed"`
	EdgeCases                  []string `json:"edge_cases"`
	AutomationNotes            string   `json:"automation_notes"`
}

const (
	// ProposedArchiveName is the file name used when saving a downloaded proposal.
	ProposedArchiveName = "proposed_tests.zip"
	// FeatureExt is the extension of feature files.
	FeatureExt = ".feature"
)
