// Package viz renders satellite state for the terminal.
//
// It holds the lipgloss styles and themes shared by the TUI and the CLI,
// the status panel, and asciigraph plots of collected data.
package viz
