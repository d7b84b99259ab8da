package utility

import "strings"

// SplitLines splits raw utility output into newline-delimited records.
// The terminator is not part of a record, a trailing newline does not
// produce an empty record, and a stray \r before the newline is dropped.
func SplitLines(text string) []string {
	var lines []string
	for len(text) > 0 {
		line, rest, found := strings.Cut(text, "\n")
		lines = append(lines, strings.TrimSuffix(line, "\r"))
		if !found {
			break
		}
		text = rest
	}
	return lines
}
