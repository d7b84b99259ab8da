package model

// Icon is the glyph shown next to a tree node.
type Icon string

// Centralized icons for the UI components
// Using simple single-width characters for consistent terminal rendering
const (
	IconRoot     Icon = "◆" // The MODS root
	IconMod      Icon = "•" // Generic mod icon
	IconBroken   Icon = "✗" // Broken mods bucket
	IconExpanded Icon = "▾"
	IconFolded   Icon = "▸"
)
