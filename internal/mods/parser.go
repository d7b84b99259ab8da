package mods

import (
	"fmt"
	"strings"

	"modlauncher/internal/utility"
)

const (
	separator = ": "
	trueValue = "True"
)

type field struct {
	prefix string
	apply  func(r *Record, value string)
}

// Recognized metadata lines. Prefixes are case-sensitive and include the
// two-space indent the utility prints under the Mod line.
var fields = []field{
	{"Mod", func(r *Record, v string) { r.Key = v }},
	{"  Title", func(r *Record, v string) { r.Title = v }},
	{"  Version", func(r *Record, v string) { r.Version = v }},
	{"  Author", func(r *Record, v string) { r.Author = v }},
	{"  Description", func(r *Record, v string) { r.Description = v }},
	{"  Requires", func(r *Record, v string) { r.Requires = v }},
	{"  Standalone", func(r *Record, v string) { r.Standalone = v == trueValue }},
}

// ApplyLine folds one metadata line into rec. It reports whether the line
// was recognized. Unknown lines, and known prefixes without the ": "
// separator, leave rec untouched.
func ApplyLine(line string, rec *Record) bool {
	for _, f := range fields {
		rest, ok := strings.CutPrefix(line, f.prefix)
		if !ok {
			continue
		}
		value, ok := strings.CutPrefix(rest, separator)
		if !ok {
			continue
		}
		f.apply(rec, value)
		return true
	}
	return false
}

// ParseRecord applies every line of a metadata block to rec and returns
// how many lines were recognized.
func ParseRecord(text string, rec *Record) int {
	n := 0
	for _, line := range utility.SplitLines(text) {
		if ApplyLine(line, rec) {
			n++
		}
	}
	return n
}

// Format writes rec back in the utility's metadata format.
func Format(rec Record) string {
	standalone := "False"
	if rec.Standalone {
		standalone = trueValue
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Mod: %s\n", rec.Key)
	fmt.Fprintf(&b, "  Title: %s\n", rec.Title)
	fmt.Fprintf(&b, "  Version: %s\n", rec.Version)
	fmt.Fprintf(&b, "  Author: %s\n", rec.Author)
	fmt.Fprintf(&b, "  Description: %s\n", rec.Description)
	fmt.Fprintf(&b, "  Requires: %s\n", rec.Requires)
	fmt.Fprintf(&b, "  Standalone: %s\n", standalone)
	return b.String()
}
