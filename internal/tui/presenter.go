package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"modlauncher/internal/discovery"
	"modlauncher/internal/modtree"
)

// MsgPassStarted resets the tree for a new discovery pass.
type MsgPassStarted struct{}

// MsgNodeAdded appends one node.
type MsgNodeAdded modtree.NodeEvent

// MsgSelectionResolved expands to and selects the restored mod.
type MsgSelectionResolved modtree.Path

// MsgPassDone ends a discovery pass.
type MsgPassDone struct {
	Result *discovery.Result
	Err    error
}

// MsgRenderer carries the persisted renderer choice.
type MsgRenderer discovery.Renderer

// Presenter forwards tree events to the TUI over a channel, so they reach
// Update in the order the session produced them.
type Presenter struct {
	ctx    context.Context
	events chan<- tea.Msg
}

// NewPresenter creates a presenter writing to events.
func NewPresenter(ctx context.Context, events chan<- tea.Msg) *Presenter {
	return &Presenter{ctx: ctx, events: events}
}

func (p *Presenter) send(msg tea.Msg) {
	select {
	case p.events <- msg:
	case <-p.ctx.Done():
	}
}

func (p *Presenter) ListPassStarted() {
	p.send(MsgPassStarted{})
}

func (p *Presenter) ModDiscovered(ev modtree.NodeEvent) {
	p.send(MsgNodeAdded(ev))
}

func (p *Presenter) SelectionResolved(path modtree.Path) {
	p.send(MsgSelectionResolved(path))
}

// Done reports the end of a pass through the same channel.
func (p *Presenter) Done(res *discovery.Result, err error) {
	p.send(MsgPassDone{Result: res, Err: err})
}

// waitForEvent reads the next presenter message.
func waitForEvent(events <-chan tea.Msg) tea.Cmd {
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-events
		if !ok {
			return nil
		}
		return msg
	}
}
