// Package mods holds the mod metadata records read from the utility and the
// registry that owns them during a discovery pass.
package mods

// Record is one discovered mod.
type Record struct {
	Key         string `json:"key"`
	Title       string `json:"title,omitempty"`
	Version     string `json:"version,omitempty"`
	Author      string `json:"author,omitempty"`
	Description string `json:"description,omitempty"`
	// Requires is the key of the mod this one depends on; empty means none.
	Requires   string `json:"requires,omitempty"`
	Standalone bool   `json:"standalone"`
}

// DisplayTitle returns the title, falling back to the key.
func (r Record) DisplayTitle() string {
	if r.Title != "" {
		return r.Title
	}
	return r.Key
}
