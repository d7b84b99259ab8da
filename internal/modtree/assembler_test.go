package modtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modlauncher/internal/mods"
)

type recordingPresenter struct {
	passes    int
	events    []NodeEvent
	selection []Path
}

func (p *recordingPresenter) ListPassStarted()            { p.passes++ }
func (p *recordingPresenter) ModDiscovered(ev NodeEvent)  { p.events = append(p.events, ev) }
func (p *recordingPresenter) SelectionResolved(path Path) { p.selection = append(p.selection, path) }

func standalone(key string) *mods.Record {
	return &mods.Record{Key: key, Title: key + " title", Standalone: true}
}

func requires(key, parent string) *mods.Record {
	return &mods.Record{Key: key, Title: key + " title", Requires: parent}
}

func keys(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Key
	}
	return out
}

func TestPlaceStandaloneUnderRoot(t *testing.T) {
	tree := NewTree()
	a := NewAssembler(tree, nil)

	for _, key := range []string{"ra", "cnc", "d2k"} {
		_, placement := a.Place(standalone(key))
		assert.Equal(t, PlacedStandalone, placement)
	}

	assert.Equal(t, []string{"ra", "cnc", "d2k"}, keys(tree.Root().Children))
	assert.Nil(t, tree.Broken())
	assert.Equal(t, 3, tree.Len())
}

func TestPlaceStandaloneDuplicatesNotMerged(t *testing.T) {
	tree := NewTree()
	a := NewAssembler(tree, nil)

	a.Place(standalone("ra"))
	a.Place(standalone("ra"))

	assert.Equal(t, []string{"ra", "ra"}, keys(tree.Root().Children))
}

func TestPlaceStandaloneIgnoresRequires(t *testing.T) {
	tree := NewTree()
	a := NewAssembler(tree, nil)
	rec := standalone("ts")
	rec.Requires = "missing"

	n, placement := a.Place(rec)

	assert.Equal(t, PlacedStandalone, placement)
	assert.Same(t, tree.Root(), n.Parent())
}

func TestPlaceNoDependencyGoesToBrokenBucket(t *testing.T) {
	tree := NewTree()
	p := &recordingPresenter{}
	a := NewAssembler(tree, p)

	a.Place(standalone("ra"))
	_, placement := a.Place(&mods.Record{Key: "orphan"})
	a.Place(&mods.Record{Key: "orphan2"})

	assert.Equal(t, PlacedBroken, placement)
	bucket := tree.Broken()
	require.NotNil(t, bucket)
	assert.Empty(t, bucket.Key)
	assert.Equal(t, BrokenTitle, bucket.Title)
	assert.Equal(t, []string{"orphan", "orphan2"}, keys(bucket.Children))

	buckets := 0
	for _, n := range tree.Root().Children {
		if n == bucket {
			buckets++
		}
	}
	assert.Equal(t, 1, buckets, "bucket is created once per pass")

	bucketEvents := 0
	for _, ev := range p.events {
		if ev.Key == "" {
			bucketEvents++
			assert.Equal(t, Path{0, 1}, ev.Path)
			assert.Equal(t, Path{0}, ev.Parent)
		}
	}
	assert.Equal(t, 1, bucketEvents)
}

func TestPlaceChildUnderDependency(t *testing.T) {
	tree := NewTree()
	a := NewAssembler(tree, nil)

	a.Place(standalone("ra"))
	n, placement := a.Place(requires("counterstrike", "ra"))
	a.Place(requires("aftermath", "counterstrike"))

	assert.Equal(t, PlacedChild, placement)
	assert.Equal(t, "ra", n.Parent().Key)
	assert.Equal(t, Path{0, 0, 0}, n.Path())

	deep := tree.Find("aftermath")
	require.NotNil(t, deep)
	assert.Equal(t, Path{0, 0, 0, 0}, deep.Path())
}

func TestPlaceChildUsesFirstMatch(t *testing.T) {
	tree := NewTree()
	a := NewAssembler(tree, nil)

	first, _ := a.Place(standalone("ra"))
	a.Place(standalone("ra"))
	n, _ := a.Place(requires("cs", "ra"))

	assert.Same(t, first, n.Parent())
}

func TestPlaceChildBeforeParentStaysInBucket(t *testing.T) {
	tree := NewTree()
	a := NewAssembler(tree, nil)

	early, placement := a.Place(requires("counterstrike", "ra"))
	assert.Equal(t, PlacedUnresolved, placement)
	assert.Same(t, tree.Broken(), early.Parent())

	a.Place(standalone("ra"))

	assert.Same(t, tree.Broken(), early.Parent(), "not moved when the dependency arrives")
	assert.Empty(t, tree.Find("ra").Children)
}

func TestResolves(t *testing.T) {
	tree := NewTree()
	a := NewAssembler(tree, nil)

	assert.True(t, a.Resolves(standalone("ra")))
	assert.True(t, a.Resolves(&mods.Record{Key: "orphan"}))
	assert.False(t, a.Resolves(requires("cs", "ra")))

	a.Place(standalone("ra"))
	assert.True(t, a.Resolves(requires("cs", "ra")))
}

func TestPlaceReportsEvents(t *testing.T) {
	tree := NewTree()
	p := &recordingPresenter{}
	a := NewAssembler(tree, p)

	a.Place(standalone("ra"))
	a.Place(requires("cs", "ra"))

	require.Len(t, p.events, 2)
	assert.Equal(t, NodeEvent{
		Path:   Path{0, 0},
		Parent: Path{0},
		Icon:   "•",
		Key:    "ra",
		Title:  "ra title",
		Record: *standalone("ra"),
	}, p.events[0])
	assert.Equal(t, Path{0, 0, 0}, p.events[1].Path)
	assert.Equal(t, Path{0, 0}, p.events[1].Parent)
}

func TestPlacementString(t *testing.T) {
	assert.Equal(t, "standalone", PlacedStandalone.String())
	assert.Equal(t, "broken", PlacedBroken.String())
	assert.Equal(t, "child", PlacedChild.String())
	assert.Equal(t, "unresolved", PlacedUnresolved.String())
	assert.Equal(t, "unknown", Placement(42).String())
}
