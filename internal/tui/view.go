package tui

import (
	_ "embed"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"modlauncher/internal/model"
	"modlauncher/internal/modtree"
)

//go:embed help.md
var helpMarkdown string

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	normalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	brokenStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("208")) // Orange
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("81")).Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

func (m AppModel) View() string {
	if m.Err != nil {
		return fmt.Sprintf("\n  Error: %v\n", m.Err)
	}
	if m.ShowHelp {
		return m.renderHelpDialog()
	}

	width := m.WindowSize.Width
	height := m.WindowSize.Height

	// Subtracting 6 for borders and buffer
	netWidth := width - 6
	if netWidth < 20 {
		netWidth = 20
	}
	leftWidth := netWidth / 2
	rightWidth := netWidth - leftWidth

	boxHeight := height - 6
	if boxHeight < 6 {
		boxHeight = 6
	}
	interiorHeight := boxHeight - 2

	left := lipgloss.NewStyle().
		Width(leftWidth).
		Height(interiorHeight).
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("205")).
		Render(m.renderTree(leftWidth, interiorHeight))

	right := lipgloss.NewStyle().
		Width(rightWidth).
		Height(interiorHeight).
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("63")).
		Render(titleStyle.Render("Details") + "\n\n" + m.DetailsViewport.View())

	footer := "\n" + m.status() + "\n" + m.help.View(m.keys)
	if m.InputMode {
		footer = fmt.Sprintf("\nFilter: %s", m.InputBuffer.View())
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, left, right) + footer
}

func (m AppModel) status() string {
	var parts []string
	if m.Loading {
		parts = append(parts, "Scanning mods...")
	} else if m.Result != nil {
		parts = append(parts, fmt.Sprintf("%d mods", m.Result.Tree.Len()))
		if n := len(m.Result.Unresolved); n > 0 {
			parts = append(parts, brokenStyle.Render(fmt.Sprintf("%d unresolved", n)))
		}
	}
	parts = append(parts, "Renderer: "+m.Renderer.String())
	if m.Filter != "" {
		parts = append(parts, fmt.Sprintf("Filter: %q", m.Filter))
	}
	return dimStyle.Render(strings.Join(parts, " • "))
}

func (m AppModel) renderTree(width, height int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Mods"))
	b.WriteString("\n\n")

	if len(m.rows) == 0 {
		if m.Loading {
			b.WriteString(dimStyle.Render("Scanning mods... please wait."))
		} else {
			b.WriteString(dimStyle.Render("No mods found."))
		}
		return b.String()
	}

	// Header takes 2 lines.
	visible := height - 2
	if visible < 1 {
		visible = 1
	}
	start, end := 0, len(m.rows)
	if len(m.rows) > visible {
		if m.SelectedIdx >= visible/2 {
			start = m.SelectedIdx - visible/2
		}
		if start+visible > len(m.rows) {
			start = len(m.rows) - visible
		}
		end = start + visible
	}

	for i := start; i < end; i++ {
		n := m.rows[i]
		line := strings.Repeat("  ", n.depth) + m.fold(n) + string(n.Icon) + " " + n.Title
		if n.isMod() && n.Key != n.Title {
			line += " (" + n.Key + ")"
		}
		if r := []rune(line); width > 5 && len(r) > width-5 && lipgloss.Width(line) > width-2 {
			line = string(r[:width-5]) + "..."
		}

		style := normalStyle
		switch {
		case i == m.SelectedIdx:
			style = selectedStyle
		case n.Icon == model.IconBroken:
			style = brokenStyle
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func (m AppModel) fold(n *treeNode) string {
	switch {
	case len(n.Children) == 0:
		return "  "
	case n.Expanded || m.Filter != "":
		return string(model.IconExpanded) + " "
	}
	return string(model.IconFolded) + " "
}

// details describes the node under the cursor.
func (m AppModel) details() string {
	n := m.selected()
	if n == nil {
		return dimStyle.Render("Nothing selected.")
	}

	var b strings.Builder
	field := func(label, value string) {
		if value == "" {
			return
		}
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render(label+":"), value)
	}

	switch {
	case n.parent == nil:
		b.WriteString("All mods reported by the game utility.\n\n")
		if m.Result != nil {
			field("Listed", fmt.Sprint(len(m.Result.Keys)))
			field("Placed", fmt.Sprint(m.Result.Tree.Len()))
			field("Last used", m.Result.SelectedKey)
			if len(m.Result.Skipped) > 0 {
				field("No metadata", strings.Join(m.Result.Skipped, ", "))
			}
		}
	case !n.isMod() && n.Title == modtree.BrokenTitle:
		b.WriteString("Mods that require nothing, or whose required mod is not installed.\n\n")
		field("Count", fmt.Sprint(len(n.Children)))
	default:
		rec := n.Record
		field("Title", rec.DisplayTitle())
		field("Key", rec.Key)
		field("Version", rec.Version)
		field("Author", rec.Author)
		if rec.Standalone {
			field("Standalone", "yes")
		}
		field("Requires", rec.Requires)
		if m.isUnresolved(rec.Key) {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Required mod %q is not installed.", rec.Requires)))
			b.WriteString("\n")
		}
		if rec.Description != "" {
			b.WriteString("\n")
			desc := rec.Description
			if w := m.DetailsViewport.Width; w > 4 {
				desc = lipgloss.NewStyle().Width(w - 4).Render(desc)
			}
			b.WriteString(desc)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m AppModel) isUnresolved(key string) bool {
	if m.Result == nil {
		return false
	}
	for _, k := range m.Result.Unresolved {
		if k == key {
			return true
		}
	}
	return false
}

// renderHelp renders the embedded help with glamour, falling back to the
// raw markdown.
func renderHelp(width int) string {
	wrap := width*80/100 - 4
	if wrap < 36 {
		wrap = 36
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return helpMarkdown
	}
	out, err := r.Render(helpMarkdown)
	if err != nil {
		return helpMarkdown
	}
	return out
}

func (m AppModel) renderHelpDialog() string {
	w, h := m.WindowSize.Width, m.WindowSize.Height
	if w < 20 || h < 10 {
		return "Window too small"
	}

	helpWidth := w * 80 / 100
	if helpWidth < 40 {
		helpWidth = 40
	}
	if helpWidth > w-4 {
		helpWidth = w - 4
	}
	helpHeight := h - 6
	if helpHeight < 5 {
		helpHeight = 5
	}

	lines := strings.Split(m.HelpContent, "\n")
	if len(lines) > helpHeight-2 {
		lines = lines[:helpHeight-2]
	}

	dialog := lipgloss.NewStyle().
		Width(helpWidth).
		Height(helpHeight).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("63")).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))

	return lipgloss.Place(w, h,
		lipgloss.Center, lipgloss.Center,
		dialog,
	)
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(waitForEvent(m.opts.Events), m.opts.Discover, m.opts.Renderer)
}
