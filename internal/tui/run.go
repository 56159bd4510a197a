package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the wizard in the alternate screen and blocks until the user quits.
func Run(ctx context.Context, opts Options) error {
	if opts.Consumer == nil {
		return fmt.Errorf("tui: no stream consumer configured")
	}
	m := New(ctx, opts)
	defer m.cancel()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run wizard: %w", err)
	}
	return nil
}
