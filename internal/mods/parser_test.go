package mods

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyLineFields(t *testing.T) {
	var rec Record

	assert.True(t, ApplyLine("Mod: cnc", &rec))
	assert.True(t, ApplyLine("  Title: Command & Conquer", &rec))
	assert.True(t, ApplyLine("  Version: release-20100901", &rec))
	assert.True(t, ApplyLine("  Author: The OpenRA Developers", &rec))
	assert.True(t, ApplyLine("  Description: Tiberian Dawn: remastered rules", &rec))
	assert.True(t, ApplyLine("  Requires: ra", &rec))
	assert.True(t, ApplyLine("  Standalone: False", &rec))

	assert.Equal(t, Record{
		Key:         "cnc",
		Title:       "Command & Conquer",
		Version:     "release-20100901",
		Author:      "The OpenRA Developers",
		Description: "Tiberian Dawn: remastered rules",
		Requires:    "ra",
	}, rec)
}

func TestApplyLineStandalone(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"True", true},
		{"true", false},
		{"TRUE", false},
		{"1", false},
		{"", false},
		{"True ", false},
		{"False", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			rec := Record{Standalone: !tt.want}
			ApplyLine("  Standalone: "+tt.value, &rec)
			assert.Equal(t, tt.want, rec.Standalone)
		})
	}
}

func TestApplyLineIgnoresUnknownLines(t *testing.T) {
	rec := Record{Key: "ra"}

	for _, line := range []string{
		"",
		"  Icon: soviet-logo.png",
		"Title: not indented",
		"mod: lower case",
		"    Title: too deep",
		"Modifier: x",
	} {
		assert.False(t, ApplyLine(line, &rec), line)
	}
	assert.Equal(t, Record{Key: "ra"}, rec)
}

func TestApplyLineWithoutSeparatorIsNoop(t *testing.T) {
	rec := Record{Title: "Red Alert"}

	assert.False(t, ApplyLine("  Title", &rec))
	assert.False(t, ApplyLine("  Title:Red Alert 2", &rec))
	assert.False(t, ApplyLine("Mod", &rec))
	assert.Equal(t, Record{Title: "Red Alert"}, rec)
}

func TestApplyLineIsIdempotent(t *testing.T) {
	var once, twice Record
	line := "  Requires: ra"

	ApplyLine(line, &once)
	ApplyLine(line, &twice)
	ApplyLine(line, &twice)

	assert.Equal(t, once, twice)
}

func TestParseRecordAnyOrder(t *testing.T) {
	var rec Record
	n := ParseRecord("  Standalone: True\n  Title: Red Alert\nMod: ra\n  Unknown: x\n", &rec)

	assert.Equal(t, 3, n)
	assert.Equal(t, Record{Key: "ra", Title: "Red Alert", Standalone: true}, rec)
}

func TestFormatRoundTrip(t *testing.T) {
	want := Record{
		Key:         "counterstrike",
		Title:       "Counterstrike",
		Version:     "{DEV_VERSION}",
		Author:      "Westwood: and friends",
		Description: "  leading spaces survive",
		Requires:    "ra",
		Standalone:  true,
	}

	var got Record
	n := ParseRecord(Format(want), &got)

	assert.Equal(t, 7, n)
	assert.Equal(t, want, got)
}

func TestDisplayTitle(t *testing.T) {
	assert.Equal(t, "Red Alert", Record{Key: "ra", Title: "Red Alert"}.DisplayTitle())
	assert.Equal(t, "ra", Record{Key: "ra"}.DisplayTitle())
}
