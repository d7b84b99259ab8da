package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"modlauncher/internal/discovery"
	"modlauncher/internal/errors"
	"modlauncher/internal/modtree"
)

// NewSessionFunc builds a discovery session reporting to presenter.
type NewSessionFunc func(presenter modtree.Presenter) *discovery.Session

// Wire connects a model to a session. The returned options run passes in
// the background and deliver their events in order.
func Wire(ctx context.Context, newSession NewSessionFunc) Options {
	events := make(chan tea.Msg, 64)
	presenter := NewPresenter(ctx, events)
	session := newSession(presenter)

	return Options{
		Events: events,
		Discover: func() tea.Msg {
			res, err := session.Run(ctx)
			presenter.Done(res, err)
			return nil
		},
		Renderer: func() tea.Msg {
			return MsgRenderer(session.Renderer(ctx))
		},
	}
}

// Run shows the TUI until the user quits.
func Run(ctx context.Context, newSession NewSessionFunc) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := InitialModel(Wire(ctx, newSession))
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return errors.WithStackTrace(err)
	}
	return nil
}
