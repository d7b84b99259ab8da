package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"modlauncher/internal/discovery"
	"modlauncher/internal/errors"
	"modlauncher/internal/model"
	"modlauncher/internal/modtree"
)

// Update handles events.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.WindowSize = msg
		m.DetailsViewport.Width = msg.Width / 2
		m.DetailsViewport.Height = msg.Height - 8
		if m.DetailsViewport.Height < 2 {
			m.DetailsViewport.Height = 2
		}
		if m.ShowHelp {
			m.HelpContent = renderHelp(msg.Width)
		}
		m.syncDetails()
		return m, nil

	case MsgPassStarted:
		m.Loading = true
		m.Err = nil
		m.Result = nil
		m.Roots = []*treeNode{{Icon: model.IconRoot, Title: modtree.RootTitle, Expanded: true}}
		m.SelectedIdx = 0
		m.rebuildRows()
		return m, waitForEvent(m.opts.Events)

	case MsgNodeAdded:
		if parent := m.nodeAt(msg.Parent); parent != nil {
			parent.Children = append(parent.Children, &treeNode{
				Icon:   msg.Icon,
				Key:    msg.Key,
				Title:  msg.Title,
				Record: msg.Record,
				parent: parent,
				depth:  parent.depth + 1,
			})
			m.rebuildRows()
		}
		return m, waitForEvent(m.opts.Events)

	case MsgSelectionResolved:
		if n := m.nodeAt(modtree.Path(msg)); n != nil {
			for p := n.parent; p != nil; p = p.parent {
				p.Expanded = true
			}
			m.rebuildRows()
			m.selectNode(n)
		}
		return m, waitForEvent(m.opts.Events)

	case MsgPassDone:
		m.Loading = false
		m.Result = msg.Result
		if msg.Err != nil && !errors.IsContextCanceled(msg.Err) {
			m.Err = msg.Err
		}
		m.syncDetails()
		return m, waitForEvent(m.opts.Events)

	case MsgRenderer:
		m.Renderer = discovery.Renderer(msg)
		m.syncDetails()
		return m, nil

	case tea.KeyMsg:
		if m.InputMode {
			switch msg.Type {
			case tea.KeyEnter:
				m.InputMode = false
				m.InputBuffer.Blur()
				m.applyFilter(m.InputBuffer.Value())
				return m, nil
			case tea.KeyEsc:
				m.InputMode = false
				m.InputBuffer.Blur()
				m.InputBuffer.SetValue("")
				m.applyFilter("")
				return m, nil
			}
			m.InputBuffer, cmd = m.InputBuffer.Update(msg)
			m.applyFilter(m.InputBuffer.Value())
			return m, cmd
		}

		if m.ShowHelp {
			if key.Matches(msg, m.keys.Help) || msg.Type == tea.KeyEsc || key.Matches(msg, m.keys.Quit) {
				m.ShowHelp = false
			}
			return m, nil
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case msg.Type == tea.KeyEsc:
			if m.Filter != "" {
				m.InputBuffer.SetValue("")
				m.applyFilter("")
			}
		case key.Matches(msg, m.keys.Up):
			if m.SelectedIdx > 0 {
				m.SelectedIdx--
			}
		case key.Matches(msg, m.keys.Down):
			if m.SelectedIdx < len(m.rows)-1 {
				m.SelectedIdx++
			}
		case key.Matches(msg, m.keys.Collapse):
			if n := m.selected(); n != nil {
				if n.Expanded && len(n.Children) > 0 {
					n.Expanded = false
					m.rebuildRows()
					m.selectNode(n)
				} else if n.parent != nil {
					m.selectNode(n.parent)
				}
			}
		case key.Matches(msg, m.keys.Expand):
			if n := m.selected(); n != nil && len(n.Children) > 0 {
				n.Expanded = true
				m.rebuildRows()
				m.selectNode(n)
			}
		case key.Matches(msg, m.keys.Toggle):
			if n := m.selected(); n != nil && len(n.Children) > 0 {
				n.Expanded = !n.Expanded
				m.rebuildRows()
				m.selectNode(n)
			}
		case key.Matches(msg, m.keys.Filter):
			m.InputMode = true
			m.InputBuffer.SetValue(m.Filter)
			m.InputBuffer.Focus()
			return m, textinput.Blink
		case key.Matches(msg, m.keys.Renderer):
			m.Renderer = m.Renderer.Toggle()
		case key.Matches(msg, m.keys.Refresh):
			if !m.Loading && m.opts.Discover != nil {
				m.Loading = true
				return m, m.opts.Discover
			}
		case key.Matches(msg, m.keys.Scroll):
			m.DetailsViewport, cmd = m.DetailsViewport.Update(msg)
			return m, cmd
		case key.Matches(msg, m.keys.Help):
			m.ShowHelp = true
			m.HelpContent = renderHelp(m.WindowSize.Width)
			return m, nil
		}
		m.syncDetails()
	}

	return m, cmd
}

// nodeAt resolves a tree path against the TUI's copy of the tree.
func (m *AppModel) nodeAt(path modtree.Path) *treeNode {
	if len(path) == 0 || path[0] < 0 || path[0] >= len(m.Roots) {
		return nil
	}
	n := m.Roots[path[0]]
	for _, i := range path[1:] {
		if i < 0 || i >= len(n.Children) {
			return nil
		}
		n = n.Children[i]
	}
	return n
}

func (m *AppModel) selectNode(target *treeNode) {
	for i, n := range m.rows {
		if n == target {
			m.SelectedIdx = i
			break
		}
	}
	m.syncDetails()
}

func (m *AppModel) applyFilter(term string) {
	current := m.selected()
	m.Filter = strings.TrimSpace(term)
	m.rebuildRows()
	m.SelectedIdx = 0
	if current != nil {
		m.selectNode(current)
	}
	m.syncDetails()
}

// rebuildRows flattens the visible part of the tree. With a filter active,
// a node is visible when it or a descendant matches, regardless of folding.
func (m *AppModel) rebuildRows() {
	m.rows = m.rows[:0]
	term := strings.ToLower(m.Filter)
	var visit func(n *treeNode)
	visit = func(n *treeNode) {
		if term != "" && !matchesBelow(n, term) {
			return
		}
		m.rows = append(m.rows, n)
		if term == "" && !n.Expanded {
			return
		}
		for _, c := range n.Children {
			visit(c)
		}
	}
	for _, r := range m.Roots {
		visit(r)
	}
	if m.SelectedIdx >= len(m.rows) {
		m.SelectedIdx = len(m.rows) - 1
	}
	if m.SelectedIdx < 0 {
		m.SelectedIdx = 0
	}
}

func matchesBelow(n *treeNode, term string) bool {
	if n.isMod() && (strings.Contains(strings.ToLower(n.Key), term) ||
		strings.Contains(strings.ToLower(n.Title), term)) {
		return true
	}
	for _, c := range n.Children {
		if matchesBelow(c, term) {
			return true
		}
	}
	return false
}

func (m *AppModel) syncDetails() {
	m.DetailsViewport.SetContent(m.details())
}
