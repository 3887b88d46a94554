package proposal

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chmouel/lazyfeatures/internal/gherkin"
	"github.com/chmouel/lazyfeatures/internal/models"
)

// SimulatedFile is the predicted state of one feature file after a change
// plan is applied.
type SimulatedFile struct {
	Path    string
	Old     string
	New     string
	Existed bool
	Deleted bool
}

// ErrInvalidPlan is wrapped by every Simulate validation failure.
var ErrInvalidPlan = errors.New("invalid change plan")

// Simulate predicts what applying changes to tree would write, following the
// backend update engine: files are "<screen>/<feature>.feature" and actions
// run in order. Files are returned in the order they were first touched.
func Simulate(tree models.FileTree, changes []models.ChangeAction) ([]SimulatedFile, error) {
	var order []string
	files := map[string]*SimulatedFile{}

	touch := func(c models.ChangeAction) *SimulatedFile {
		file := c.Feature + models.FeatureExt
		key := gherkin.JoinPath(c.Screen, file)
		if f, ok := files[key]; ok {
			return f
		}
		content, ok := tree.Content(c.Screen, file)
		f := &SimulatedFile{Path: key, Old: content, New: content, Existed: ok}
		files[key] = f
		order = append(order, key)
		return f
	}
	exists := func(f *SimulatedFile) bool {
		return (f.Existed || f.New != "") && !f.Deleted
	}

	for i, c := range changes {
		if c.Action == "" || c.Screen == "" || c.Feature == "" {
			return nil, fmt.Errorf("%w: change %d: missing action, screen or feature", ErrInvalidPlan, i)
		}
		f := touch(c)

		switch c.Action {
		case models.ActionCreateFeature:
			if !exists(f) {
				f.New = "Feature: " + c.Feature + "\n\n"
				f.Deleted = false
			}

		case models.ActionCreateScenario:
			if c.ScenarioName() == "" {
				return nil, fmt.Errorf("%w: change %d: create_scenario requires scenario name", ErrInvalidPlan, i)
			}
			if !exists(f) {
				return nil, fmt.Errorf("%w: change %d: feature %s does not exist for scenario creation", ErrInvalidPlan, i, f.Path)
			}
			f.New += "  Scenario: " + c.ScenarioName() + "\n"

		case models.ActionUpdateStep:
			if !exists(f) {
				return nil, fmt.Errorf("%w: change %d: feature %s does not exist for update_step", ErrInvalidPlan, i, f.Path)
			}
			if c.StepIndex == nil || c.NewValue == nil {
				return nil, fmt.Errorf("%w: change %d: update_step requires step_index and new_value", ErrInvalidPlan, i)
			}
			lines := splitKeepEnds(f.New)
			idx := *c.StepIndex
			if idx < 0 || idx >= len(lines) {
				return nil, fmt.Errorf("%w: change %d: invalid step_index %d", ErrInvalidPlan, i, idx)
			}
			lines[idx] = strings.TrimRight(*c.NewValue, " \t\r\n") + "\n"
			f.New = strings.Join(lines, "")

		case models.ActionDeleteScenario:
			if !exists(f) {
				continue
			}
			if c.ScenarioName() == "" {
				return nil, fmt.Errorf("%w: change %d: delete_scenario requires scenario name", ErrInvalidPlan, i)
			}
			f.New = dropScenario(f.New, c.ScenarioName())

		case models.ActionDeleteFeature:
			if exists(f) {
				f.New = ""
				f.Deleted = true
			}

		default:
			return nil, fmt.Errorf("%w: change %d: unsupported action %q", ErrInvalidPlan, i, c.Action)
		}
	}

	out := make([]SimulatedFile, 0, len(order))
	for _, key := range order {
		out = append(out, *files[key])
	}
	return out, nil
}

// dropScenario removes the first scenario block whose header mentions name,
// up to the next scenario header.
func dropScenario(text, name string) string {
	var kept []string
	skip := false
	for _, line := range splitKeepEnds(text) {
		isHeader := strings.HasPrefix(strings.TrimSpace(line), "Scenario:")
		if isHeader && strings.Contains(line, name) {
			skip = true
			continue
		}
		if skip && isHeader {
			skip = false
		}
		if !skip {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "")
}

func splitKeepEnds(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
