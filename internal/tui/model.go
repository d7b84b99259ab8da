package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"modlauncher/internal/discovery"
	"modlauncher/internal/model"
	"modlauncher/internal/mods"
)

// treeNode is the TUI's copy of a mod tree node.
type treeNode struct {
	Icon     model.Icon
	Key      string
	Title    string
	Record   mods.Record
	Children []*treeNode
	Expanded bool

	parent *treeNode
	depth  int
}

func (n *treeNode) isMod() bool {
	return n.Key != ""
}

// Options wires the model to a discovery session.
type Options struct {
	// Events delivers presenter messages, in order.
	Events <-chan tea.Msg
	// Discover runs one pass; its result arrives on Events.
	Discover tea.Cmd
	// Renderer reads the renderer setting.
	Renderer tea.Cmd
}

// AppModel holds the TUI state.
type AppModel struct {
	// Data
	Roots    []*treeNode
	Result   *discovery.Result
	Renderer discovery.Renderer
	Loading  bool
	Err      error

	// UI State
	rows        []*treeNode
	SelectedIdx int
	WindowSize  tea.WindowSizeMsg
	ShowHelp    bool
	HelpContent string

	// Filter State
	InputMode   bool
	InputBuffer textinput.Model
	Filter      string

	// Components
	DetailsViewport viewport.Model
	help            help.Model
	keys            keyMap
	opts            Options
}

// InitialModel returns the initial state.
func InitialModel(opts Options) AppModel {
	ti := textinput.New()
	ti.Placeholder = "mod key or title..."
	ti.CharLimit = 50
	ti.Width = 30

	return AppModel{
		Loading:         true,
		InputBuffer:     ti,
		DetailsViewport: viewport.New(0, 0),
		help:            help.New(),
		keys:            defaultKeyMap(),
		opts:            opts,
	}
}

// selected returns the node under the cursor, nil if the tree is empty.
func (m AppModel) selected() *treeNode {
	if m.SelectedIdx < 0 || m.SelectedIdx >= len(m.rows) {
		return nil
	}
	return m.rows[m.SelectedIdx]
}
