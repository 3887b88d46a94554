package screen

import "slices"

// Manager is the overlay stack. The last element is the visible screen and
// the only one that receives keys.
type Manager struct {
	screens []Screen
}

// NewManager returns an empty stack.
func NewManager() *Manager {
	return &Manager{}
}

// Push shows s on top of whatever is visible.
func (m *Manager) Push(s Screen) {
	if s == nil {
		return
	}
	m.screens = append(m.screens, s)
}

// Pop closes the visible screen and returns it, or nil when the stack is
// empty.
func (m *Manager) Pop() Screen {
	n := len(m.screens)
	if n == 0 {
		return nil
	}
	top := m.screens[n-1]
	m.screens = m.screens[:n-1]
	return top
}

// Current returns the visible screen, or nil.
func (m *Manager) Current() Screen {
	if len(m.screens) == 0 {
		return nil
	}
	return m.screens[len(m.screens)-1]
}

// IsActive reports whether any overlay is shown.
func (m *Manager) IsActive() bool {
	return len(m.screens) > 0
}

// Type returns the visible screen's type, or TypeNone.
func (m *Manager) Type() Type {
	if cur := m.Current(); cur != nil {
		return cur.Type()
	}
	return TypeNone
}

// Remove drops every screen of type t, wherever it sits in the stack.
// A loading screen hidden under a later modal is removed this way.
func (m *Manager) Remove(t Type) {
	m.screens = slices.DeleteFunc(m.screens, func(s Screen) bool { return s.Type() == t })
}

// Drop removes the screen s wherever it sits, leaving screens pushed above
// it in place.
func (m *Manager) Drop(s Screen) {
	if s == nil {
		return
	}
	if i := slices.Index(m.screens, s); i >= 0 {
		m.screens = slices.Delete(m.screens, i, i+1)
	}
}

// Clear closes every overlay.
func (m *Manager) Clear() {
	m.screens = m.screens[:0]
}

// Set replaces the visible screen in place. A nil s closes it.
func (m *Manager) Set(s Screen) {
	if s == nil {
		m.Pop()
		return
	}
	if len(m.screens) == 0 {
		m.screens = append(m.screens, s)
		return
	}
	m.screens[len(m.screens)-1] = s
}

// StackDepth is the number of screens hidden under the visible one.
func (m *Manager) StackDepth() int {
	return max(len(m.screens)-1, 0)
}
