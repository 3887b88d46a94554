package diff

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// LinesLCS returns an alignment-aware diff: insertions and deletions show up
// as clean blocks instead of shifting every later line.
func LinesLCS(oldText, newText string) []Line {
	dmp := diffmatchpatch.New()
	a, b, lineArray := dmp.DiffLinesToChars(joinLines(oldText), joinLines(newText))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lineArray)

	var out []Line
	for _, d := range diffs {
		kind := Unchanged
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			kind = Added
		case diffmatchpatch.DiffDelete:
			kind = Removed
		}
		for _, text := range splitLines(d.Text) {
			out = append(out, Line{Kind: kind, Text: text})
		}
	}
	return out
}

// joinLines normalises text so every line, including the last, ends in a
// newline. Without this the final line of one side never matches the same
// line in the middle of the other.
func joinLines(text string) string {
	lines := splitLines(text)
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
