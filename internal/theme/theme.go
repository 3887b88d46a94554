// Package theme provides theme definitions and management for the TUI.
package theme

import "github.com/charmbracelet/lipgloss"

// Theme defines all colors used in the application UI.
type Theme struct {
	Background lipgloss.Color
	Accent     lipgloss.Color
	AccentFg   lipgloss.Color // Foreground color for text on Accent background
	AccentDim  lipgloss.Color
	Border     lipgloss.Color
	BorderDim  lipgloss.Color
	MutedFg    lipgloss.Color
	TextFg     lipgloss.Color
	SuccessFg  lipgloss.Color
	WarnFg     lipgloss.Color
	ErrorFg    lipgloss.Color
	Cyan       lipgloss.Color
	Pink       lipgloss.Color
	Yellow     lipgloss.Color

	// Diff viewer lines.
	AddedFg   lipgloss.Color
	RemovedFg lipgloss.Color

	// Chroma style used for plain feature files.
	SyntaxStyle string
	// Glamour standard style used for analysis reports.
	MarkdownStyle string
}

// Theme names.
const (
	DraculaName         = "dracula"
	DraculaLightName    = "dracula-light"
	NordName            = "nord"
	GruvboxDarkName     = "gruvbox-dark"
	SolarizedLightName  = "solarized-light"
	CatppuccinMochaName = "catppuccin-mocha"
)

// Dracula returns the Dracula theme (dark background, vibrant colors).
func Dracula() *Theme {
	return &Theme{
		Background:    lipgloss.Color("#282A36"),
		Accent:        lipgloss.Color("#BD93F9"), // Purple
		AccentFg:      lipgloss.Color("#282A36"),
		AccentDim:     lipgloss.Color("#44475A"), // Current Line
		Border:        lipgloss.Color("#6272A4"),
		BorderDim:     lipgloss.Color("#44475A"),
		MutedFg:       lipgloss.Color("#6272A4"), // Comment
		TextFg:        lipgloss.Color("#F8F8F2"),
		SuccessFg:     lipgloss.Color("#50FA7B"),
		WarnFg:        lipgloss.Color("#FFB86C"),
		ErrorFg:       lipgloss.Color("#FF5555"),
		Cyan:          lipgloss.Color("#8BE9FD"),
		Pink:          lipgloss.Color("#FF79C6"),
		Yellow:        lipgloss.Color("#F1FA8C"),
		AddedFg:       lipgloss.Color("#50FA7B"),
		RemovedFg:     lipgloss.Color("#FF5555"),
		SyntaxStyle:   "dracula",
		MarkdownStyle: "dracula",
	}
}

// DraculaLight returns the Dracula theme adapted for light backgrounds.
func DraculaLight() *Theme {
	return &Theme{
		Background:    lipgloss.Color("#F8F8F2"),
		Accent:        lipgloss.Color("#7C4DFF"),
		AccentFg:      lipgloss.Color("#FFFFFF"),
		AccentDim:     lipgloss.Color("#E6E6E6"),
		Border:        lipgloss.Color("#BD93F9"),
		BorderDim:     lipgloss.Color("#D0D0D0"),
		MutedFg:       lipgloss.Color("#6272A4"),
		TextFg:        lipgloss.Color("#282A36"),
		SuccessFg:     lipgloss.Color("#1E8E3E"),
		WarnFg:        lipgloss.Color("#B35900"),
		ErrorFg:       lipgloss.Color("#D32F2F"),
		Cyan:          lipgloss.Color("#0288D1"),
		Pink:          lipgloss.Color("#C2185B"),
		Yellow:        lipgloss.Color("#A68B00"),
		AddedFg:       lipgloss.Color("#1E8E3E"),
		RemovedFg:     lipgloss.Color("#D32F2F"),
		SyntaxStyle:   "github",
		MarkdownStyle: "light",
	}
}

// Nord returns the Nord theme.
func Nord() *Theme {
	return &Theme{
		Background:    lipgloss.Color("#2E3440"),
		Accent:        lipgloss.Color("#88C0D0"), // Frost
		AccentFg:      lipgloss.Color("#2E3440"),
		AccentDim:     lipgloss.Color("#3B4252"),
		Border:        lipgloss.Color("#4C566A"),
		BorderDim:     lipgloss.Color("#3B4252"),
		MutedFg:       lipgloss.Color("#7B88A1"),
		TextFg:        lipgloss.Color("#ECEFF4"),
		SuccessFg:     lipgloss.Color("#A3BE8C"),
		WarnFg:        lipgloss.Color("#D08770"),
		ErrorFg:       lipgloss.Color("#BF616A"),
		Cyan:          lipgloss.Color("#8FBCBB"),
		Pink:          lipgloss.Color("#B48EAD"),
		Yellow:        lipgloss.Color("#EBCB8B"),
		AddedFg:       lipgloss.Color("#A3BE8C"),
		RemovedFg:     lipgloss.Color("#BF616A"),
		SyntaxStyle:   "nord",
		MarkdownStyle: "dark",
	}
}

// GruvboxDark returns the Gruvbox dark theme.
func GruvboxDark() *Theme {
	return &Theme{
		Background:    lipgloss.Color("#282828"),
		Accent:        lipgloss.Color("#FABD2F"),
		AccentFg:      lipgloss.Color("#282828"),
		AccentDim:     lipgloss.Color("#3C3836"),
		Border:        lipgloss.Color("#665C54"),
		BorderDim:     lipgloss.Color("#504945"),
		MutedFg:       lipgloss.Color("#A89984"),
		TextFg:        lipgloss.Color("#EBDBB2"),
		SuccessFg:     lipgloss.Color("#B8BB26"),
		WarnFg:        lipgloss.Color("#FE8019"),
		ErrorFg:       lipgloss.Color("#FB4934"),
		Cyan:          lipgloss.Color("#83A598"),
		Pink:          lipgloss.Color("#D3869B"),
		Yellow:        lipgloss.Color("#FABD2F"),
		AddedFg:       lipgloss.Color("#B8BB26"),
		RemovedFg:     lipgloss.Color("#FB4934"),
		SyntaxStyle:   "gruvbox",
		MarkdownStyle: "dark",
	}
}

// SolarizedLight returns the Solarized light theme.
func SolarizedLight() *Theme {
	return &Theme{
		Background:    lipgloss.Color("#FDF6E3"),
		Accent:        lipgloss.Color("#268BD2"),
		AccentFg:      lipgloss.Color("#FDF6E3"),
		AccentDim:     lipgloss.Color("#EEE8D5"),
		Border:        lipgloss.Color("#93A1A1"),
		BorderDim:     lipgloss.Color("#EEE8D5"),
		MutedFg:       lipgloss.Color("#93A1A1"),
		TextFg:        lipgloss.Color("#586E75"),
		SuccessFg:     lipgloss.Color("#859900"),
		WarnFg:        lipgloss.Color("#CB4B16"),
		ErrorFg:       lipgloss.Color("#DC322F"),
		Cyan:          lipgloss.Color("#2AA198"),
		Pink:          lipgloss.Color("#D33682"),
		Yellow:        lipgloss.Color("#B58900"),
		AddedFg:       lipgloss.Color("#859900"),
		RemovedFg:     lipgloss.Color("#DC322F"),
		SyntaxStyle:   "solarized-light",
		MarkdownStyle: "light",
	}
}

// CatppuccinMocha returns the Catppuccin Mocha theme.
func CatppuccinMocha() *Theme {
	return &Theme{
		Background:    lipgloss.Color("#1E1E2E"),
		Accent:        lipgloss.Color("#CBA6F7"), // Mauve
		AccentFg:      lipgloss.Color("#1E1E2E"),
		AccentDim:     lipgloss.Color("#313244"),
		Border:        lipgloss.Color("#585B70"),
		BorderDim:     lipgloss.Color("#45475A"),
		MutedFg:       lipgloss.Color("#7F849C"),
		TextFg:        lipgloss.Color("#CDD6F4"),
		SuccessFg:     lipgloss.Color("#A6E3A1"),
		WarnFg:        lipgloss.Color("#FAB387"),
		ErrorFg:       lipgloss.Color("#F38BA8"),
		Cyan:          lipgloss.Color("#89DCEB"),
		Pink:          lipgloss.Color("#F5C2E7"),
		Yellow:        lipgloss.Color("#F9E2AF"),
		AddedFg:       lipgloss.Color("#A6E3A1"),
		RemovedFg:     lipgloss.Color("#F38BA8"),
		SyntaxStyle:   "catppuccin-mocha",
		MarkdownStyle: "dark",
	}
}

// GetTheme returns a theme by name, or Dracula if not found.
func GetTheme(name string) *Theme {
	switch name {
	case DraculaLightName:
		return DraculaLight()
	case NordName:
		return Nord()
	case GruvboxDarkName:
		return GruvboxDark()
	case SolarizedLightName:
		return SolarizedLight()
	case CatppuccinMochaName:
		return CatppuccinMocha()
	default:
		return Dracula()
	}
}

// IsLight returns true if the theme is a light theme.
func IsLight(name string) bool {
	switch name {
	case DraculaLightName, SolarizedLightName:
		return true
	default:
		return false
	}
}

// DefaultDark returns the default dark theme name.
func DefaultDark() string {
	return DraculaName
}

// DefaultLight returns the default light theme name.
func DefaultLight() string {
	return DraculaLightName
}

// Detect picks the default theme matching the terminal background.
func Detect() string {
	if lipgloss.HasDarkBackground() {
		return DefaultDark()
	}
	return DefaultLight()
}

// AvailableThemes returns a list of available theme names.
func AvailableThemes() []string {
	return []string{
		DraculaName,
		DraculaLightName,
		NordName,
		GruvboxDarkName,
		SolarizedLightName,
		CatppuccinMochaName,
	}
}
