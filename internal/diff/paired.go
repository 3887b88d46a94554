package diff

import "strings"

// Algorithm selects how two texts are compared.
type Algorithm string

// Supported algorithms.
const (
	// Paired compares lines by position. Insertions shift every later line
	// into a remove+add pair.
	Paired Algorithm = "paired"
	// LCS aligns lines on their longest common subsequence.
	LCS Algorithm = "lcs"
)

// ParseAlgorithm returns the algorithm for name, defaulting to Paired.
func ParseAlgorithm(name string) (Algorithm, bool) {
	switch Algorithm(strings.ToLower(strings.TrimSpace(name))) {
	case Paired, "":
		return Paired, true
	case LCS:
		return LCS, true
	default:
		return Paired, false
	}
}

// Compute diffs oldText against newText with the given algorithm.
func Compute(alg Algorithm, oldText, newText string) []Line {
	if alg == LCS {
		return LinesLCS(oldText, newText)
	}
	return Lines(oldText, newText)
}

// Lines returns the paired-line diff of oldText and newText.
//
// For each index in [0, max(len(old), len(new))) equal lines yield one
// Unchanged record; otherwise a Removed record for the old line followed by
// an Added record for the new line. An empty line is only emitted when the
// other side has no line at that index, so every index yields one or two
// records.
func Lines(oldText, newText string) []Line {
	oldLines := splitLines(oldText)
	newLines := splitLines(newText)
	n := max(len(oldLines), len(newLines))

	out := make([]Line, 0, n)
	for i := range n {
		oldLine, oldOK := at(oldLines, i)
		newLine, newOK := at(newLines, i)

		if oldOK && newOK && oldLine == newLine {
			out = append(out, Line{Kind: Unchanged, Text: oldLine})
			continue
		}
		if oldOK && (oldLine != "" || !newOK) {
			out = append(out, Line{Kind: Removed, Text: oldLine})
		}
		if newOK && (newLine != "" || !oldOK) {
			out = append(out, Line{Kind: Added, Text: newLine})
		}
	}
	return out
}

func at(lines []string, i int) (string, bool) {
	if i < len(lines) {
		return lines[i], true
	}
	return "", false
}

// splitLines splits text on newlines. Empty text has no lines and a single
// trailing newline terminates the last line.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}
