package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateProfit(t *testing.T) {
	tests := []struct {
		name      string
		priceSold float64
		unitPrice float64
		quantity  int
		want      float64
	}{
		{"single pair", 180, 120, 1, 60},
		{"two pairs", 300, 110.5, 2, 79},
		{"loss", 90, 100, 1, -10},
		{"rounding", 100.1, 33.333, 3, 0.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CalculateProfit(tt.priceSold, tt.unitPrice, tt.quantity), 0.0001)
		})
	}
}

func TestUser_FullName(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", User{FirstName: "Ada", LastName: "Lovelace"}.FullName())
	assert.Equal(t, "Ada", User{FirstName: "Ada"}.FullName())
	assert.Equal(t, "Lovelace", User{LastName: "Lovelace"}.FullName())
	assert.Equal(t, "", User{}.FullName())
}
