// Package proposal holds the single pending change set and the session
// that owns it.
package proposal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/chmouel/lazyfeatures/internal/diff"
	"github.com/chmouel/lazyfeatures/internal/models"
)

// Kind discriminates the shape of a proposal.
type Kind int

// Proposal shapes.
const (
	KindNone Kind = iota
	KindChanges
	KindDiff
	KindFeatures
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindChanges:
		return "changes"
	case KindDiff:
		return "diff"
	case KindFeatures:
		return "features"
	default:
		return "none"
	}
}

// Proposal is an immutable, pending change set. Exactly one shape is active,
// selected by Kind; Files optionally carries a flat unified diff the backend
// sent alongside the result.
type Proposal struct {
	kind     Kind
	changes  []models.ChangeAction
	diff     *diff.FileSet
	features []models.Feature
	files    *diff.FileSet
	raw      json.RawMessage
}

// Empty returns a proposal with nothing to act on.
func Empty() *Proposal {
	return &Proposal{}
}

// NewChanges returns a proposal made of discrete change actions.
func NewChanges(changes []models.ChangeAction) *Proposal {
	return &Proposal{kind: KindChanges, changes: changes}
}

// NewDiff returns a proposal made of precomputed per-file diffs.
func NewDiff(files *diff.FileSet) *Proposal {
	return &Proposal{kind: KindDiff, diff: files}
}

// NewFeatures returns a proposal made of structured features that are
// rendered client-side before diffing.
func NewFeatures(features []models.Feature) *Proposal {
	return &Proposal{kind: KindFeatures, features: features}
}

// WithFiles returns a copy of p carrying the accompanying per-file diff.
func (p *Proposal) WithFiles(files *diff.FileSet) *Proposal {
	cp := *p
	cp.files = files
	return &cp
}

// Kind returns the active shape.
func (p *Proposal) Kind() Kind {
	if p == nil {
		return KindNone
	}
	return p.kind
}

// Changes returns the change actions of a KindChanges proposal.
func (p *Proposal) Changes() []models.ChangeAction {
	if p == nil {
		return nil
	}
	return p.changes
}

// Features returns the features of a KindFeatures proposal.
func (p *Proposal) Features() []models.Feature {
	if p == nil {
		return nil
	}
	return p.features
}

// Diff returns the per-file diff of a KindDiff proposal.
func (p *Proposal) Diff() *diff.FileSet {
	if p == nil {
		return nil
	}
	return p.diff
}

// Len returns the number of entries in the active shape.
func (p *Proposal) Len() int {
	switch p.Kind() {
	case KindChanges:
		return len(p.changes)
	case KindDiff:
		return p.diff.Len()
	case KindFeatures:
		return len(p.features)
	default:
		return 0
	}
}

// Actionable reports whether there is anything to apply or download.
func (p *Proposal) Actionable() bool {
	return p.Len() > 0
}

// FileDiff returns the backend-provided diff for a "screen/file" key.
func (p *Proposal) FileDiff(key string) ([]diff.Line, bool) {
	if p == nil {
		return nil, false
	}
	if lines, ok := p.files.Get(key); ok {
		return lines, true
	}
	return p.diff.Get(key)
}

// DiffKeys returns every file key with a backend-provided diff.
func (p *Proposal) DiffKeys() []string {
	if p == nil {
		return nil
	}
	seen := map[string]bool{}
	var keys []string
	for _, set := range []*diff.FileSet{p.files, p.diff} {
		for _, k := range set.Keys() {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	return keys
}

// MarshalJSON returns the JSON the backend sent, or an equivalent body
// built from the active shape.
func (p *Proposal) MarshalJSON() ([]byte, error) {
	if p == nil {
		return []byte("null"), nil
	}
	if len(p.raw) > 0 {
		return p.raw, nil
	}
	body := map[string]any{}
	switch p.kind {
	case KindChanges:
		body["changes"] = p.changes
	case KindFeatures:
		body["features"] = p.features
	case KindDiff:
		files := map[string][]string{}
		for _, k := range p.diff.Keys() {
			lines, _ := p.diff.Get(k)
			texts := make([]string, 0, len(lines))
			for _, l := range lines {
				texts = append(texts, l.Text)
			}
			files[k] = texts
		}
		body["diff"] = files
	}
	return json.Marshal(body)
}

type rawResult struct {
	Changes  *[]models.ChangeAction `json:"changes"`
	Diff     map[string][]string   `json:"diff"`
	Features *[]models.Feature      `json:"features"`
}

// FromSyncResponse normalises a /sync-tests response into one proposal.
func FromSyncResponse(resp models.SyncResponse) (*Proposal, error) {
	p := Empty()

	if !isNull(resp.Result) {
		var r rawResult
		if err := json.Unmarshal(resp.Result, &r); err != nil {
			return nil, fmt.Errorf("decode proposal: %w", err)
		}
		switch {
		case r.Changes != nil:
			p = NewChanges(*r.Changes)
		case r.Diff != nil:
			p = NewDiff(diff.FromMap(r.Diff, sortedKeys(r.Diff)))
		case r.Features != nil:
			p = NewFeatures(*r.Features)
		}
		p.raw = append(json.RawMessage(nil), resp.Result...)
	}

	files, err := decodeFlatDiff(resp.Diff)
	if err != nil {
		return nil, err
	}
	if files != nil {
		p = p.WithFiles(files)
	}
	return p, nil
}

func decodeFlatDiff(raw json.RawMessage) (*diff.FileSet, error) {
	if isNull(raw) {
		return nil, nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return diff.ParseUnified(list), nil
	}
	var files map[string][]string
	if err := json.Unmarshal(raw, &files); err != nil {
		return nil, fmt.Errorf("decode diff: expected list or map of lines: %w", err)
	}
	return diff.FromMap(files, sortedKeys(files)), nil
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
