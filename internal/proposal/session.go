package proposal

import (
	"github.com/chmouel/lazyfeatures/internal/models"
)

// State is the lifecycle state of a Session.
type State int

// Session states.
const (
	StateEmpty State = iota
	StateProposed
)

// String returns a human-readable name for the state.
func (s State) String() string {
	if s == StateProposed {
		return "proposed"
	}
	return "empty"
}

// Seq tags a request so late responses can be recognised.
type Seq uint64

// Outcome reports what a Session did with a response.
type Outcome int

// Response outcomes.
const (
	OutcomeAccepted Outcome = iota
	OutcomeNoChanges
	OutcomeApplied
	OutcomeFailed
	OutcomeStale
)

// String returns a human-readable name for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeAccepted:
		return "accepted"
	case OutcomeNoChanges:
		return "no changes"
	case OutcomeApplied:
		return "applied"
	case OutcomeFailed:
		return "failed"
	case OutcomeStale:
		return "stale"
	default:
		return "unknown"
	}
}

// Session owns the feature tree snapshot and the single pending proposal.
// It is not safe for concurrent use; the UI loop is its only owner.
type Session struct {
	tree     models.FileTree
	proposal *Proposal
	latest   Seq
}

// NewSession returns a session in the empty state.
func NewSession() *Session {
	return &Session{tree: models.FileTree{}}
}

// Tree returns the current feature tree snapshot.
func (s *Session) Tree() models.FileTree {
	return s.tree
}

// SetTree replaces the tree snapshot wholesale.
func (s *Session) SetTree(tree models.FileTree) {
	if tree == nil {
		tree = models.FileTree{}
	}
	s.tree = tree
}

// CurrentProposal returns the pending proposal, or nil.
func (s *Session) CurrentProposal() *Proposal {
	return s.proposal
}

// SetProposal replaces any existing proposal.
func (s *Session) SetProposal(p *Proposal) {
	s.proposal = p
}

// ClearProposal drops the pending proposal.
func (s *Session) ClearProposal() {
	s.proposal = nil
}

// HasActionableContent reports whether apply and download are allowed.
func (s *Session) HasActionableContent() bool {
	return s.proposal.Actionable()
}

// State returns Proposed when there is something to act on.
func (s *Session) State() State {
	if s.HasActionableContent() {
		return StateProposed
	}
	return StateEmpty
}

// BeginRequest tags a new request. Responses for older tags are stale.
func (s *Session) BeginRequest() Seq {
	s.latest++
	return s.latest
}

// Latest returns the tag of the most recent request.
func (s *Session) Latest() Seq {
	return s.latest
}

// IsStale reports whether seq belongs to a superseded request.
func (s *Session) IsStale(seq Seq) bool {
	return seq != s.latest
}

// OnGenerate records the result of a generation request. A failed request
// leaves the current proposal untouched.
func (s *Session) OnGenerate(seq Seq, p *Proposal, err error) Outcome {
	if s.IsStale(seq) {
		return OutcomeStale
	}
	if err != nil {
		return OutcomeFailed
	}
	if !p.Actionable() {
		s.ClearProposal()
		return OutcomeNoChanges
	}
	s.SetProposal(p)
	return OutcomeAccepted
}

// OnApply records the result of an apply request. Only a success clears
// the proposal so a failure can be retried.
func (s *Session) OnApply(seq Seq, err error) Outcome {
	if s.IsStale(seq) {
		return OutcomeStale
	}
	if err != nil {
		return OutcomeFailed
	}
	s.ClearProposal()
	return OutcomeApplied
}

// OnReset discards the proposal and fences any in-flight request.
func (s *Session) OnReset() {
	s.ClearProposal()
	s.latest++
}
