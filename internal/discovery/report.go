package discovery

import (
	"fmt"
	"strings"

	"modlauncher/internal/model"
	"modlauncher/internal/mods"
	"modlauncher/internal/modtree"
)

// GenerateReport renders a pass as plain text. verbose appends every
// record in the utility's own metadata format.
func GenerateReport(res *Result, verbose bool) string {
	var b strings.Builder

	fmt.Fprintf(&b, "modlauncher %s mod report\n\n", model.Version)
	fmt.Fprintf(&b, "Listed mods:   %d\n", len(res.Keys))
	fmt.Fprintf(&b, "Placed mods:   %d\n", res.Tree.Len())
	if res.SelectedKey != "" {
		fmt.Fprintf(&b, "Last used mod: %s (%s)\n", res.SelectedKey, res.Selected)
	} else {
		b.WriteString("Last used mod: none\n")
	}
	b.WriteString("\n")
	b.WriteString(modtree.Render(res.Tree, res.Selected))
	b.WriteString("\n")

	if len(res.Unresolved) > 0 {
		b.WriteString("\nUnresolved dependencies:\n")
		for _, key := range res.Unresolved {
			rec, _ := res.Record(key)
			fmt.Fprintf(&b, "  %s %s requires %q, which is not installed\n", model.IconBroken, key, rec.Requires)
		}
	}
	if len(res.Skipped) > 0 {
		b.WriteString("\nNo metadata returned for:\n")
		for _, key := range res.Skipped {
			fmt.Fprintf(&b, "  %s\n", key)
		}
	}

	if verbose {
		b.WriteString("\nRecords:\n")
		for _, rec := range res.Records {
			b.WriteString(mods.Format(rec))
		}
	}
	return b.String()
}

// Snapshot is the JSON form of a pass.
type Snapshot struct {
	Version     string        `json:"version"`
	Tree        *modtree.Node `json:"tree"`
	Records     []mods.Record `json:"records"`
	Selected    string        `json:"selected,omitempty"`
	SelectedKey string        `json:"selected_key,omitempty"`
	Unresolved  []string      `json:"unresolved,omitempty"`
	Skipped     []string      `json:"skipped,omitempty"`
}

// Snapshot captures the result for encoding.
func (r *Result) Snapshot() Snapshot {
	snap := Snapshot{
		Version:     model.Version,
		Tree:        r.Tree.Root(),
		Records:     r.Records,
		SelectedKey: r.SelectedKey,
		Unresolved:  r.Unresolved,
		Skipped:     r.Skipped,
	}
	if snap.Records == nil {
		snap.Records = []mods.Record{}
	}
	if r.Selected != nil {
		snap.Selected = r.Selected.String()
	}
	return snap
}

// Record looks key up in the registry of the pass that produced r. The
// answer reflects that registry until the session runs its next pass.
func (r *Result) Record(key string) (mods.Record, bool) {
	if r.lookup == nil {
		return mods.Record{}, false
	}
	rec, ok := r.lookup(key)
	if !ok {
		return mods.Record{}, false
	}
	return *rec, true
}
