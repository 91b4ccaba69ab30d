// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/RandomGenericUsername/color-scheme-generator/internal/resolver"
)

// Palette shared by every command. Tuned for dark terminal backgrounds.
const (
	ColorPrimary   = lipgloss.Color("#7C3AED")
	ColorMuted     = lipgloss.Color("#6B7280")
	ColorSuccess   = lipgloss.Color("#10B981")
	ColorError     = lipgloss.Color("#EF4444")
	ColorWarning   = lipgloss.Color("#F59E0B")
	ColorHighlight = lipgloss.Color("#3B82F6")
	ColorVerbose   = lipgloss.Color("#9CA3AF")
)

var (
	// TitleStyle is for section headers.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// SubtitleStyle is for secondary text and placeholders.
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorError)

	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// KeyStyle is for setting keys and file paths.
	KeyStyle = lipgloss.NewStyle().
			Foreground(ColorHighlight)

	VerboseStyle = lipgloss.NewStyle().
			Foreground(ColorVerbose)
)

// sourceStyles colors each configuration source in `config resolve` and
// `config get` output, strongest precedence first.
var sourceStyles = map[resolver.ConfigSource]lipgloss.Style{
	resolver.SourceCLI:            lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary),
	resolver.SourceEnv:            lipgloss.NewStyle().Foreground(ColorWarning),
	resolver.SourceUserConfig:     lipgloss.NewStyle().Foreground(ColorHighlight),
	resolver.SourceProjectConfig:  lipgloss.NewStyle().Foreground(ColorSuccess),
	resolver.SourcePackageDefault: lipgloss.NewStyle().Foreground(ColorMuted),
}

// warningStyles colors resolver warnings by severity.
var warningStyles = map[resolver.WarningLevel]lipgloss.Style{
	resolver.LevelInfo:    VerboseStyle,
	resolver.LevelWarning: WarningStyle,
	resolver.LevelError:   ErrorStyle,
}

func renderSource(s resolver.ConfigSource) string {
	if style, ok := sourceStyles[s]; ok {
		return style.Render(s.String())
	}
	return s.String()
}
