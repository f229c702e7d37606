package cmd

import "github.com/charmbracelet/lipgloss"

// Common styles used across commands
var (
	// Status styles
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true) // Green
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))           // Red
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))           // Yellow/Orange

	// Version styles
	versionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39")) // Blue

	// Text styles
	faintStyle  = lipgloss.NewStyle().Faint(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#BD93F9"))

	// Diff styles
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#50FA7B"))
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
	hunkStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6272A4"))
)
