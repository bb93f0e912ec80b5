package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		size     string
		expected string
	}{
		{"with size", "Henna", "S", "Henna (S)"},
		{"no size", "Henna", "", "Henna"},
		{"whitespace size", "Henna", "   ", "Henna"},
		{"size is trimmed before appending", "Henna", " 250g ", "Henna (250g)"},
		{"arabic name and size", "حناء بودر", "كبير", "حناء بودر (كبير)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DisplayName(tt.base, tt.size))
		})
	}
}

func TestBaseName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"strips trailing qualifier", "Henna (OLD)", "Henna"},
		{"no qualifier", "Henna", "Henna"},
		{"only final parenthetical stripped", "Henna (a) (b)", "Henna (a)"},
		{"inner parenthetical untouched", "Henna (pure) powder", "Henna (pure) powder"},
		{"surrounding whitespace trimmed", "  Henna (L)  ", "Henna"},
		{"empty qualifier", "Henna ()", "Henna"},
		{"empty input", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BaseName(tt.input))
		})
	}
}

func TestBaseNameThenDisplayName(t *testing.T) {
	// Updating a product named "N (OLD)" with a new size recomputes the
	// display name from the cleaned base.
	got := DisplayName(BaseName("N (OLD)"), "NEW")
	assert.Equal(t, "N (NEW)", got)
}
