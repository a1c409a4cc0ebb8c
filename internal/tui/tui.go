// Package tui is the interactive terminal dashboard. It maps keystrokes
// onto session intents and draws each resulting frame.
package tui

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/papapumpkin/qadash/internal/session"
)

// Program is an alias for tea.Program, exposed so callers don't need
// to import bubbletea directly.
type Program = tea.Program

// NewProgram creates a BubbleTea program for the dashboard over sess.
// The program uses the alternate screen buffer for a clean TUI experience.
func NewProgram(ctx context.Context, sess *session.Session, opts ...tea.ProgramOption) *Program {
	allOpts := []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	}
	allOpts = append(allOpts, opts...)
	return tea.NewProgram(NewAppModel(ctx, sess), allOpts...)
}

// Run creates and runs a dashboard program, blocking until it exits.
func Run(ctx context.Context, sess *session.Session) error {
	if _, err := NewProgram(ctx, sess).Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// WithOutput returns a program option that directs TUI output to the given writer.
func WithOutput(w io.Writer) tea.ProgramOption {
	return tea.WithOutput(w)
}
