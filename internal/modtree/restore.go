package modtree

import (
	"strings"

	"modlauncher/internal/utility"
)

// FallbackKey is restored when the settings store answers with an error.
const FallbackKey = "ra"

// ParseSelection turns the raw "Game.Mods" setting into a mod key.
// An error envelope maps to FallbackKey; otherwise the value is cut at the
// first comma, or failing that at the first newline.
func ParseSelection(value string) string {
	if utility.IsErrorEnvelope(value) {
		return FallbackKey
	}
	if key, _, found := strings.Cut(value, ","); found {
		return key
	}
	key, _, _ := strings.Cut(value, "\n")
	return key
}

// Restorer focuses the previously selected mod.
type Restorer struct {
	tree      *Tree
	presenter Presenter
}

// NewRestorer creates a restorer for tree. A nil presenter is allowed.
func NewRestorer(tree *Tree, presenter Presenter) *Restorer {
	if presenter == nil {
		presenter = NopPresenter{}
	}
	return &Restorer{tree: tree, presenter: presenter}
}

// Restore locates the mod named by the setting value and asks the presenter
// to expand and select it. Unknown keys are ignored.
func (r *Restorer) Restore(value string) (Path, bool) {
	n := r.tree.Find(ParseSelection(value))
	if n == nil {
		return nil, false
	}
	path := n.Path()
	r.presenter.SelectionResolved(path)
	return path, true
}
