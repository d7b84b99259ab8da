package modtree

import (
	"modlauncher/internal/model"
	"modlauncher/internal/mods"
)

// NodeEvent describes a node appended to the tree.
type NodeEvent struct {
	Path   Path
	Parent Path
	Icon   model.Icon
	Key    string
	Title  string
	// Record is the mod behind the node, zero for the broken bucket.
	Record mods.Record
}

// Presenter receives the tree as it is built. Calls come from a single
// goroutine, in tree order.
type Presenter interface {
	ListPassStarted()
	ModDiscovered(ev NodeEvent)
	SelectionResolved(path Path)
}

// NopPresenter ignores every event.
type NopPresenter struct{}

func (NopPresenter) ListPassStarted()        {}
func (NopPresenter) ModDiscovered(NodeEvent) {}
func (NopPresenter) SelectionResolved(Path)  {}
