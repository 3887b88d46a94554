// Package screen holds the modal overlays of the dashboard (prompts,
// confirmations, reports) and the stack that manages them.
package screen

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Screen is a modal overlay. It receives key input while it is on top of
// the stack.
type Screen interface {
	// Update handles a key. A nil Screen closes the overlay.
	Update(msg tea.KeyMsg) (Screen, tea.Cmd)
	View() string
	Type() Type
}

// Type identifies the kind of overlay.
type Type int

// Overlay kinds.
const (
	TypeNone     Type = iota
	TypeConfirm       // apply confirmation
	TypeInfo          // errors and notices
	TypeInput         // document path, API key, features directory
	TypeTextarea      // story description
	TypeHelp
	TypeLoading // request in flight
	TypeReport  // analysis report
)

var typeNames = [...]string{
	TypeNone:     "none",
	TypeConfirm:  "confirm",
	TypeInfo:     "info",
	TypeInput:    "input",
	TypeTextarea: "textarea",
	TypeHelp:     "help",
	TypeLoading:  "loading",
	TypeReport:   "report",
}

func (t Type) String() string {
	if t < 0 || int(t) >= len(typeNames) {
		return "unknown"
	}
	return typeNames[t]
}
