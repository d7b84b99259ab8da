package discovery

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateReport(t *testing.T) {
	u := newFakeUtility("ra\ncounterstrike\ncs2\nghost\n")
	u.metadata["ra"] = raMetadata
	u.metadata["counterstrike"] = csMetadata
	u.metadata["cs2"] = "Mod: cs2\n  Requires: d2k\n"
	u.settings[SettingLastMod] = "ra"

	res, err := NewSession(u, nil, nil, Options{DeferUnresolved: true}).Run(context.Background())
	require.NoError(t, err)

	report := GenerateReport(res, false)
	assert.Contains(t, report, "Listed mods:   4")
	assert.Contains(t, report, "Placed mods:   3")
	assert.Contains(t, report, "Last used mod: ra (0:0)")
	assert.Contains(t, report, "Red Alert")
	assert.Contains(t, report, `cs2 requires "d2k"`)
	assert.Contains(t, report, "No metadata returned for:\n  ghost")
	assert.NotContains(t, report, "Records:")

	verbose := GenerateReport(res, true)
	assert.Contains(t, verbose, "Records:")
	assert.Contains(t, verbose, "Mod: counterstrike\n  Title: Counterstrike\n")
}

func TestSnapshot(t *testing.T) {
	u := newFakeUtility("ra\ncounterstrike\n")
	u.metadata["ra"] = raMetadata
	u.metadata["counterstrike"] = csMetadata
	u.settings[SettingLastMod] = "counterstrike"

	res, err := NewSession(u, nil, nil, Options{}).Run(context.Background())
	require.NoError(t, err)

	snap := res.Snapshot()
	assert.Equal(t, "0:0:0", snap.Selected)
	assert.Equal(t, "counterstrike", snap.SelectedKey)
	require.NotNil(t, snap.Tree)
	assert.Equal(t, "MODS", snap.Tree.Title)
	assert.Len(t, snap.Records, 2)

	rec, ok := res.Record("counterstrike")
	require.True(t, ok)
	assert.Equal(t, "ra", rec.Requires)
	_, ok = res.Record("missing")
	assert.False(t, ok)
}

func TestSnapshotOfEmptyPass(t *testing.T) {
	u := newFakeUtility("")
	u.list = nil

	res, err := NewSession(u, nil, nil, Options{}).Run(context.Background())
	require.NoError(t, err)

	snap := res.Snapshot()
	assert.Empty(t, snap.Selected)
	assert.NotNil(t, snap.Records)
	assert.Empty(t, snap.Tree.Children)
}
