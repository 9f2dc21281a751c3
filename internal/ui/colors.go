package ui

import "github.com/charmbracelet/lipgloss"

// styles is the picker's fixed palette. One theme, no configuration.
var styles = struct {
	title lipgloss.Style
	count lipgloss.Style
	err   lipgloss.Style
	help  lipgloss.Style
}{
	title: lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4")).Bold(true).Padding(0, 1),
	count: lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true),
	err:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000")).Bold(true),
	help:  lipgloss.NewStyle().Foreground(lipgloss.Color("#626262")).Italic(true),
}
