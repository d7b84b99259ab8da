package modtree

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"
)

var (
	rootStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	brokenStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	modStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	keyStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	enumStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).MarginRight(1)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
)

// Render draws the tree. The node at selected, if any, is highlighted.
func Render(t *Tree, selected Path) string {
	var mark *Node
	if selected != nil {
		mark = t.NodeAt(selected)
	}
	return build(t, t.root, mark).String()
}

func build(t *Tree, n *Node, mark *Node) *tree.Tree {
	lt := tree.Root(label(t, n, mark)).
		Enumerator(tree.RoundedEnumerator).
		EnumeratorStyle(enumStyle)
	for _, c := range n.Children {
		if len(c.Children) == 0 {
			lt.Child(label(t, c, mark))
			continue
		}
		lt.Child(build(t, c, mark))
	}
	return lt
}

func label(t *Tree, n *Node, mark *Node) string {
	var s string
	switch {
	case n == t.root:
		s = rootStyle.Render(string(n.Icon) + " " + n.Title)
	case n == t.broken:
		s = brokenStyle.Render(string(n.Icon) + " " + n.Title)
	default:
		s = modStyle.Render(string(n.Icon)+" "+n.Title) + " " + keyStyle.Render("("+n.Key+")")
	}
	if n == mark {
		s = selectedStyle.Render(s)
	}
	return s
}
