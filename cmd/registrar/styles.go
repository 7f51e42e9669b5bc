package main

import "github.com/charmbracelet/lipgloss"

// Color palette for CLI result output.
var (
	mintGreen  = lipgloss.Color("#A8E6CF") // success states
	salmonPink = lipgloss.Color("#FFB3BA") // failures
	amberGold  = lipgloss.Color("#FFD3B6") // manual-action outcomes
	mutedGray  = lipgloss.Color("#6B7280") // secondary detail
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(mintGreen).
			Bold(true)

	failureStyle = lipgloss.NewStyle().
			Foreground(salmonPink).
			Bold(true)

	manualStyle = lipgloss.NewStyle().
			Foreground(amberGold).
			Bold(true)

	detailStyle = lipgloss.NewStyle().
			Foreground(mutedGray)

	linkStyle = lipgloss.NewStyle().
			Underline(true)
)
