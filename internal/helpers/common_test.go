package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFirstLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"single line", "0.191.0", "0.191.0"},
		{"trailing newline", "v1.31.1\n", "v1.31.1"},
		{"multi line", "Client Version: v1.31.1\nKustomize Version: v5.4.2\n", "Client Version: v1.31.1"},
		{"leading blank lines", "\n\naws-cli/2.17.18 Python/3.11.9\n", "aws-cli/2.17.18 Python/3.11.9"},
		{"whitespace only", "   \n\t\n", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, FirstLine(tt.input))
		})
	}
}
