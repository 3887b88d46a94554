package diff

import "strings"

const newFileHeader = "+++ "

// Classify returns the kind of a unified-diff style line by its prefix.
// File headers are context, not changes.
func Classify(line string) Kind {
	switch {
	case strings.HasPrefix(line, "+++"):
		return Unchanged
	case strings.HasPrefix(line, "+"):
		return Added
	case strings.HasPrefix(line, "---"):
		return Unchanged
	case strings.HasPrefix(line, "-"):
		return Removed
	default:
		return Unchanged
	}
}

// ClassifyAll classifies each line, keeping its full text.
func ClassifyAll(lines []string) []Line {
	out := make([]Line, 0, len(lines))
	for _, l := range lines {
		out = append(out, Line{Kind: Classify(l), Text: l})
	}
	return out
}

// FileSet maps a file key to its classified diff lines, keeping the order
// in which files were first seen.
type FileSet struct {
	keys  []string
	files map[string][]Line
}

// NewFileSet returns an empty set.
func NewFileSet() *FileSet {
	return &FileSet{files: make(map[string][]Line)}
}

// Set stores lines under key, replacing any previous section.
func (s *FileSet) Set(key string, lines []Line) {
	if _, ok := s.files[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.files[key] = lines
}

// Get returns the lines for key.
func (s *FileSet) Get(key string) ([]Line, bool) {
	if s == nil {
		return nil, false
	}
	lines, ok := s.files[key]
	return lines, ok
}

// Keys returns the file keys in first-seen order.
func (s *FileSet) Keys() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.keys...)
}

// Len returns the number of files.
func (s *FileSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}

func (s *FileSet) append(key string, l Line) {
	s.files[key] = append(s.files[key], l)
}

// ParseUnified groups unified-diff lines by file. Every "+++ " header opens
// a section keyed by its trimmed remainder; lines before the first header
// are dropped. Everything else, "--- " lines included, stays in the current
// section.
func ParseUnified(lines []string) *FileSet {
	set := NewFileSet()
	current, open := "", false
	for _, line := range lines {
		if strings.HasPrefix(line, newFileHeader) {
			current = strings.TrimSpace(strings.TrimPrefix(line, newFileHeader))
			open = true
			set.Set(current, []Line{})
			continue
		}
		if !open {
			continue
		}
		set.append(current, Line{Kind: Classify(line), Text: line})
	}
	return set
}

// FromMap classifies a per-file map of unified-diff lines.
func FromMap(m map[string][]string, order []string) *FileSet {
	set := NewFileSet()
	for _, key := range order {
		if lines, ok := m[key]; ok {
			set.Set(key, ClassifyAll(lines))
		}
	}
	return set
}
