package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func floatPtr(v float64) *float64 { return &v }

func TestBuildFilter(t *testing.T) {
	tests := []struct {
		name     string
		filter   ProductFilter
		expected bson.M
	}{
		{
			"empty filter",
			ProductFilter{},
			bson.M{},
		},
		{
			"category only",
			ProductFilter{Category: "سدر"},
			bson.M{"category": "سدر"},
		},
		{
			"category with size",
			ProductFilter{Category: "حناء بودر", Size: "كبير"},
			bson.M{"category": "حناء بودر", "size": "كبير"},
		},
		{
			"color clause is preserved",
			ProductFilter{Color: "red"},
			bson.M{"color": "red"},
		},
		{
			"price range with both bounds",
			ProductFilter{MinPrice: floatPtr(10), MaxPrice: floatPtr(50)},
			bson.M{"price": bson.M{"$gte": 10.0, "$lte": 50.0}},
		},
		{
			"price range needs both bounds",
			ProductFilter{MinPrice: floatPtr(10)},
			bson.M{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, buildFilter(tt.filter))
		})
	}
}

func TestRelatedPattern(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"multi-word name", "Pure Henna Powder", `Pure|Henna|Powder`},
		{"single-character words dropped", "Henna X Powder", `Henna|Powder`},
		{"all short words", "a b c", ""},
		{"size qualifier is escaped", "Henna (L)", `Henna|\(L\)`},
		{"arabic words kept by rune count", "حناء بودر", `حناء|بودر`},
		{"empty name", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, relatedPattern(tt.input))
		})
	}
}
