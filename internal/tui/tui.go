package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// RunTaskBrowser starts the interactive task browser on s
func RunTaskBrowser(s TaskStore, now func() time.Time) error {
	model := NewListModel(s, now)

	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
