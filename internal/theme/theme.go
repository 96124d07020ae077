package theme

import "github.com/charmbracelet/lipgloss"

// Styles describes reusable Lip Gloss styles shared across the UI.
type Styles struct {
	Header           *lipgloss.Style
	Label            *lipgloss.Style
	FocusedLabel     *lipgloss.Style
	Field            *lipgloss.Style
	Error            *lipgloss.Style
	Info             *lipgloss.Style
	Success          *lipgloss.Style
	Footer           *lipgloss.Style
	Loading          *lipgloss.Style
	Suggestion       *lipgloss.Style
	PickedSuggestion *lipgloss.Style
	SuggestBorder    *lipgloss.Style
	SuggestTitle     *lipgloss.Style
}

var defaultStyles = Styles{
	Header: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true),
	),
	Label: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	),
	FocusedLabel: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true),
	),
	Field: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	Error: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	),
	Info: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	Success: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true),
	),
	Footer: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	Loading: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Italic(true),
	),
	Suggestion: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	PickedSuggestion: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("238")).Bold(true),
	),
	SuggestBorder: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	),
	SuggestTitle: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true),
	),
}

// Default exposes the standard style set used across the application.
func Default() *Styles {
	return &defaultStyles
}

func ptr(style lipgloss.Style) *lipgloss.Style {
	return &style
}
