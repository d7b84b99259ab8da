// Package modtree assembles discovered mods into the dependency tree shown by
// the launcher and restores the previously selected mod inside it.
package modtree

import (
	"strconv"
	"strings"

	"modlauncher/internal/model"
)

const (
	// RootTitle labels the single top-level node.
	RootTitle = "MODS"
	// BrokenTitle labels the bucket of mods whose dependency is unknown.
	BrokenTitle = "Broken Mods"
)

// Node is one row of the tree. Synthetic nodes (root, broken bucket) have an
// empty key.
type Node struct {
	Icon     model.Icon `json:"icon"`
	Key      string     `json:"key,omitempty"`
	Title    string     `json:"title"`
	Children []*Node    `json:"children,omitempty"`

	parent *Node
}

// Parent returns the parent node, nil for the root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Path returns the index path of n from the top level.
func (n *Node) Path() Path {
	var rev Path
	for cur := n; cur.parent != nil; cur = cur.parent {
		for i, c := range cur.parent.Children {
			if c == cur {
				rev = append(rev, i)
				break
			}
		}
	}
	path := Path{0}
	for i := len(rev) - 1; i >= 0; i-- {
		path = append(path, rev[i])
	}
	return path
}

// Path addresses a node by child indices, starting with the root at 0.
// Its string form is "0:2:1".
type Path []int

func (p Path) String() string {
	parts := make([]string, len(p))
	for i, idx := range p {
		parts[i] = strconv.Itoa(idx)
	}
	return strings.Join(parts, ":")
}

// Tree is the mod dependency tree of one discovery pass.
//
// The broken-mods bucket is appended to the root's children when the first
// broken mod arrives, so its index depends on how many standalone mods were
// placed before it. It is never moved afterwards, which keeps every path
// handed to a Presenter valid for the rest of the pass.
type Tree struct {
	root   *Node
	broken *Node
	size   int
}

// NewTree returns a tree holding only the MODS root.
func NewTree() *Tree {
	return &Tree{root: &Node{Icon: model.IconRoot, Title: RootTitle}}
}

// Root returns the MODS node.
func (t *Tree) Root() *Node {
	return t.root
}

// Broken returns the broken-mods bucket, nil until the first broken mod.
func (t *Tree) Broken() *Node {
	return t.broken
}

// Len returns the number of mod nodes, not counting synthetic nodes.
func (t *Tree) Len() int {
	return t.size
}

// Walk visits every node in pre-order. Returning false from fn stops the walk.
func (t *Tree) Walk(fn func(n *Node, depth int) bool) {
	walk(t.root, 0, fn)
}

func walk(n *Node, depth int, fn func(*Node, int) bool) bool {
	if !fn(n, depth) {
		return false
	}
	for _, c := range n.Children {
		if !walk(c, depth+1, fn) {
			return false
		}
	}
	return true
}

// Find returns the first node in pre-order whose key equals key.
// Synthetic nodes never match.
func (t *Tree) Find(key string) *Node {
	if key == "" {
		return nil
	}
	var found *Node
	t.Walk(func(n *Node, _ int) bool {
		if n.Key == key {
			found = n
			return false
		}
		return true
	})
	return found
}

// NodeAt resolves a path, nil if it points nowhere.
func (t *Tree) NodeAt(path Path) *Node {
	if len(path) == 0 || path[0] != 0 {
		return nil
	}
	n := t.root
	for _, idx := range path[1:] {
		if idx >= len(n.Children) {
			return nil
		}
		n = n.Children[idx]
	}
	return n
}

func (t *Tree) appendChild(parent *Node, icon model.Icon, key, title string) *Node {
	n := &Node{Icon: icon, Key: key, Title: title, parent: parent}
	parent.Children = append(parent.Children, n)
	if key != "" {
		t.size++
	}
	return n
}

// brokenBucket returns the bucket, creating it under the root on first use.
func (t *Tree) brokenBucket() (bucket *Node, created bool) {
	if t.broken != nil {
		return t.broken, false
	}
	t.broken = t.appendChild(t.root, model.IconBroken, "", BrokenTitle)
	return t.broken, true
}
