package modtree

import (
	"modlauncher/internal/model"
	"modlauncher/internal/mods"
)

// Placement says where the assembler put a record.
type Placement int

const (
	// PlacedStandalone is a direct child of the root.
	PlacedStandalone Placement = iota
	// PlacedBroken is in the bucket because the record declares no dependency.
	PlacedBroken
	// PlacedChild is under the node of the mod it requires.
	PlacedChild
	// PlacedUnresolved is in the bucket because the required mod is not in
	// the tree.
	PlacedUnresolved
)

func (p Placement) String() string {
	switch p {
	case PlacedStandalone:
		return "standalone"
	case PlacedBroken:
		return "broken"
	case PlacedChild:
		return "child"
	case PlacedUnresolved:
		return "unresolved"
	}
	return "unknown"
}

// Assembler places completed records into a tree.
type Assembler struct {
	tree      *Tree
	presenter Presenter
}

// NewAssembler creates an assembler for tree. A nil presenter is allowed.
func NewAssembler(tree *Tree, presenter Presenter) *Assembler {
	if presenter == nil {
		presenter = NopPresenter{}
	}
	return &Assembler{tree: tree, presenter: presenter}
}

// Resolves reports whether rec would be placed without falling into the
// bucket as unresolved.
func (a *Assembler) Resolves(rec *mods.Record) bool {
	return rec.Standalone || rec.Requires == "" || a.tree.Find(rec.Requires) != nil
}

// Place inserts rec into the tree:
//
//  1. standalone records become children of the root, duplicates included;
//  2. records without a dependency go to the broken bucket;
//  3. otherwise the record goes under the first node, in pre-order, whose
//     key is rec.Requires, or into the broken bucket when there is none.
//
// Nodes are never moved once placed.
func (a *Assembler) Place(rec *mods.Record) (*Node, Placement) {
	switch {
	case rec.Standalone:
		return a.insert(a.tree.root, rec), PlacedStandalone
	case rec.Requires == "":
		return a.insert(a.bucket(), rec), PlacedBroken
	}

	if parent := a.tree.Find(rec.Requires); parent != nil {
		return a.insert(parent, rec), PlacedChild
	}
	return a.insert(a.bucket(), rec), PlacedUnresolved
}

func (a *Assembler) bucket() *Node {
	bucket, created := a.tree.brokenBucket()
	if created {
		a.presenter.ModDiscovered(NodeEvent{
			Path:   bucket.Path(),
			Parent: a.tree.root.Path(),
			Icon:   bucket.Icon,
			Title:  bucket.Title,
		})
	}
	return bucket
}

func (a *Assembler) insert(parent *Node, rec *mods.Record) *Node {
	n := a.tree.appendChild(parent, model.IconMod, rec.Key, rec.DisplayTitle())
	a.presenter.ModDiscovered(NodeEvent{
		Path:   n.Path(),
		Parent: parent.Path(),
		Icon:   n.Icon,
		Key:    n.Key,
		Title:  n.Title,
		Record: *rec,
	})
	return n
}
