// Package diff turns two versions of feature text into line-level change
// records, and classifies backend-provided unified-diff lines.
package diff

// Kind classifies a single diff line.
type Kind int

// Line classifications.
const (
	Unchanged Kind = iota
	Added
	Removed
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case Added:
		return "added"
	case Removed:
		return "removed"
	default:
		return "unchanged"
	}
}

// Class returns the presentation class used for the kind.
func (k Kind) Class() string {
	return "diff-" + k.String()
}

// Marker returns the gutter marker for the kind.
func (k Kind) Marker() string {
	switch k {
	case Added:
		return "+"
	case Removed:
		return "-"
	default:
		return " "
	}
}

// Line is a classified line. Text holds the original, unescaped text.
type Line struct {
	Kind Kind
	Text string
}

// Stats counts added and removed lines.
func Stats(lines []Line) (added, removed int) {
	for _, l := range lines {
		switch l.Kind {
		case Added:
			added++
		case Removed:
			removed++
		}
	}
	return added, removed
}

// HasChanges reports whether any line is added or removed.
func HasChanges(lines []Line) bool {
	added, removed := Stats(lines)
	return added+removed > 0
}

// Plain classifies every line of text as unchanged.
func Plain(text string) []Line {
	split := splitLines(text)
	out := make([]Line, 0, len(split))
	for _, s := range split {
		out = append(out, Line{Kind: Unchanged, Text: s})
	}
	return out
}
