package utility

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"single terminated", "ra\n", []string{"ra"}},
		{"two terminated", "ra\ncounterstrike\n", []string{"ra", "counterstrike"}},
		{"unterminated tail", "ra\ncnc", []string{"ra", "cnc"}},
		{"no newline", "ra", []string{"ra"}},
		{"blank line kept", "a\n\nb\n", []string{"a", "", "b"}},
		{"lone newline", "\n", []string{""}},
		{"crlf", "Mod: ra\r\n  Title: Red Alert\r\n", []string{"Mod: ra", "  Title: Red Alert"}},
		{"leading spaces kept", "  Title: x\n", []string{"  Title: x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitLines(tt.in))
		})
	}
}
