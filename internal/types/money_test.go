package types

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestToCents(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		expected int64
	}{
		{"whole dollars", "450.00", 45000},
		{"exact cents", "0.99", 99},
		{"half cent rounds away from zero", "0.005", 1},
		{"negative half cent rounds away from zero", "-0.005", -1},
		{"just under half cent rounds down", "0.0049", 0},
		{"sub cent product", "99.995", 10000},
		{"zero", "0", 0},
		{"negative amount", "-52.50", -5250},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ToCents(decimal.RequireFromString(tt.amount)))
		})
	}
}

func TestFromCents(t *testing.T) {
	tests := []struct {
		name     string
		cents    int64
		expected string
	}{
		{"whole dollars", 45000, "450.00"},
		{"single cent", 1, "0.01"},
		{"zero", 0, "0.00"},
		{"negative balance", -5250, "-52.50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FromCents(tt.cents).StringFixed(2))
		})
	}
}

func TestCentsRoundTrip(t *testing.T) {
	for _, cents := range []int64{0, 1, -1, 99, 45000, -5250} {
		assert.Equal(t, cents, ToCents(FromCents(cents)))
	}
}
