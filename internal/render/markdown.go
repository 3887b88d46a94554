package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/chmouel/lazyfeatures/internal/models"
)

// AnalysisMarkdown is the markdown source of an analysis report. Empty
// sections are left out.
func AnalysisMarkdown(story models.Story, a models.Analysis) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", strings.TrimSpace(story.Title))
	fmt.Fprintf(&b, "**Risk level:** %s\n\n", a.RiskLevel)
	if s := strings.TrimSpace(a.Summary); s != "" {
		fmt.Fprintf(&b, "## Summary\n\n%s\n\n", s)
	}
	writeList(&b, "Missing definitions", a.MissingDefinitions)
	writeList(&b, "Proposed acceptance criteria", a.AcceptanceCriteriaProposed)
	writeList(&b, "Edge cases", a.EdgeCases)
	if s := strings.TrimSpace(a.AutomationNotes); s != "" {
		fmt.Fprintf(&b, "## Automation notes\n\n%s\n", s)
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", title)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", strings.TrimSpace(item))
	}
	b.WriteByte('\n')
}

// Markdown renders source for the terminal, returning the source unchanged
// when glamour fails. An empty style picks one from the terminal background.
func Markdown(source, style string, width int) string {
	options := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style != "" {
		options = append(options, glamour.WithStandardStyle(style))
	} else {
		options = append(options, glamour.WithAutoStyle())
	}
	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return source
	}
	out, err := renderer.Render(source)
	if err != nil {
		return source
	}
	return strings.Trim(out, "\n")
}
