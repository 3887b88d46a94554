package app

import (
	"bytes"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// highlightFeature renders feature text with ANSI colours. It reports false
// when chroma cannot tokenise the input so callers fall back to plain text.
func highlightFeature(fileName, source, styleName string) (string, bool) {
	lexer := lexers.Match(fileName)
	if lexer == nil {
		lexer = lexers.Get("gherkin")
	}
	if lexer == nil {
		return "", false
	}
	lexer = chroma.Coalesce(lexer)

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		return "", false
	}

	baseStyle := styles.Get(styleName)
	if baseStyle == nil {
		baseStyle = styles.Fallback
	}
	// Token backgrounds would paint over the pane background.
	style, err := baseStyle.Builder().Transform(func(entry chroma.StyleEntry) chroma.StyleEntry {
		entry.Background = 0
		return entry
	}).Build()
	if err != nil {
		style = baseStyle
	}

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return "", false
	}
	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return "", false
	}
	return prefixLines(strings.TrimRight(buf.String(), "\n"), " "), true
}

// prefixLines keeps highlighted text aligned with the diff gutter.
func prefixLines(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}
