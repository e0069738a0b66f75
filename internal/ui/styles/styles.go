// Package styles contains Lip Gloss style definitions.
package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Semantic color names - Text hierarchy
	TextPrimaryColor   = lipgloss.AdaptiveColor{Light: "#333333", Dark: "#CCCCCC"} // Main/primary text
	TextSecondaryColor = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BBBBBB"} // Listing rows
	TextMutedColor     = lipgloss.AdaptiveColor{Light: "#999999", Dark: "#696969"} // Hints, help text, footers

	// Semantic color names - Status
	StatusSuccessColor = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"} // Success states
	StatusWarningColor = lipgloss.AdaptiveColor{Light: "#FECA57", Dark: "#FECA57"} // Warnings
	StatusErrorColor   = lipgloss.AdaptiveColor{Light: "#FF6B6B", Dark: "#FF8787"} // Errors

	// Selection indicator color (used for ">" prefix in the menu)
	SelectionIndicatorColor = lipgloss.AdaptiveColor{Light: "#1A5276", Dark: "#FFFFFF"}

	// Form colors
	FormTextInputLabelColor        = lipgloss.AdaptiveColor{Light: "#888888", Dark: "#8C8C8C"}
	FormTextInputFocusedLabelColor = lipgloss.AdaptiveColor{Light: "#000000", Dark: "#FFFFFF"}

	TitleColor  = lipgloss.AdaptiveColor{Light: "#1A5276", Dark: "#54A0FF"}
	BorderColor = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#696969"}

	// Toast notification colors
	ToastBorderSuccessColor = StatusSuccessColor
	ToastBorderErrorColor   = StatusErrorColor
	ToastBorderInfoColor    = lipgloss.AdaptiveColor{Light: "#54A0FF", Dark: "#54A0FF"}
	ToastBorderWarnColor    = StatusWarningColor

	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(TitleColor)

	SelectionIndicatorStyle = lipgloss.NewStyle().Bold(true).Foreground(SelectionIndicatorColor)
	SelectedItemStyle       = lipgloss.NewStyle().Bold(true).Foreground(TextPrimaryColor)
	ItemStyle               = lipgloss.NewStyle().Foreground(TextSecondaryColor)

	LabelStyle        = lipgloss.NewStyle().Foreground(FormTextInputLabelColor)
	FocusedLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(FormTextInputFocusedLabelColor)

	// Output pane below the menu
	PaneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(0, 1)

	SuccessStyle = lipgloss.NewStyle().Foreground(StatusSuccessColor)

	// Error display
	ErrorStyle = lipgloss.NewStyle().
			Foreground(StatusErrorColor).
			Bold(true)

	HelpStyle = lipgloss.NewStyle().Foreground(TextMutedColor)
)

// ApplyTheme overrides the status colors from configuration.
// Empty strings are ignored, keeping the default values.
func ApplyTheme(muted, errorColor, success string) {
	if muted != "" {
		TextMutedColor = lipgloss.AdaptiveColor{Light: muted, Dark: muted}
		HelpStyle = HelpStyle.Foreground(TextMutedColor)
	}
	if errorColor != "" {
		StatusErrorColor = lipgloss.AdaptiveColor{Light: errorColor, Dark: errorColor}
		ErrorStyle = ErrorStyle.Foreground(StatusErrorColor)
		ToastBorderErrorColor = StatusErrorColor
	}
	if success != "" {
		StatusSuccessColor = lipgloss.AdaptiveColor{Light: success, Dark: success}
		SuccessStyle = SuccessStyle.Foreground(StatusSuccessColor)
		ToastBorderSuccessColor = StatusSuccessColor
	}
}
