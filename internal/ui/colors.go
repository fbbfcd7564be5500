package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// theme names the colors the TUI draws with, by role.
type theme struct {
	accent  lipgloss.Color
	success lipgloss.Color
	danger  lipgloss.Color
	caution lipgloss.Color
	muted   lipgloss.Color
}

var defaultTheme = theme{
	accent:  lipgloss.Color("#7D56F4"),
	success: lipgloss.Color("#04B575"),
	danger:  lipgloss.Color("#FF0000"),
	caution: lipgloss.Color("#FFA500"),
	muted:   lipgloss.Color("#626262"),
}

var styles = defaultTheme.stylesheet()

// stylesheet holds the rendered styles each view picks from.
type stylesheet struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
	label lipgloss.Style
}

func (t theme) stylesheet() stylesheet {
	fg := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

	return stylesheet{
		title: fg(t.accent).Bold(true).MarginBottom(1),
		ok:    fg(t.success).Bold(true),
		err:   fg(t.danger).Bold(true),
		warn:  fg(t.caution),
		help:  fg(t.muted).Italic(true),
		label: fg(t.muted).Bold(true).Width(12),
	}
}
