package types

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeTaxConfig(t *testing.T) {
	tests := []struct {
		name     string
		cfg      TaxConfig
		expected map[string]string
	}{
		{
			name:     "nil config",
			cfg:      nil,
			expected: map[string]string{},
		},
		{
			name: "float rates",
			cfg:  TaxConfig{"GST": 0.05, "QST": 0.09975},
			expected: map[string]string{
				"GST": "0.05",
				"QST": "0.09975",
			},
		},
		{
			name: "float32 rate keeps its decimal value",
			cfg:  TaxConfig{"GST": float32(0.05)},
			expected: map[string]string{
				"GST": "0.05",
			},
		},
		{
			name: "integer rate",
			cfg:  TaxConfig{"FLAT": 1},
			expected: map[string]string{
				"FLAT": "1",
			},
		},
		{
			name: "json number from decoded payload",
			cfg:  TaxConfig{"GST": json.Number("0.05")},
			expected: map[string]string{
				"GST": "0.05",
			},
		},
		{
			name: "already a decimal",
			cfg:  TaxConfig{"GST": decimal.RequireFromString("0.05")},
			expected: map[string]string{
				"GST": "0.05",
			},
		},
		{
			name: "non numeric entries dropped",
			cfg: TaxConfig{
				"GST":    0.05,
				"STRING": "five percent",
				"BOOL":   true,
				"NIL":    nil,
			},
			expected: map[string]string{
				"GST": "0.05",
			},
		},
		{
			name: "non finite entries dropped",
			cfg: TaxConfig{
				"NAN":     math.NaN(),
				"POS_INF": math.Inf(1),
				"NEG_INF": math.Inf(-1),
				"GST":     0.05,
			},
			expected: map[string]string{
				"GST": "0.05",
			},
		},
		{
			name: "malformed json number dropped",
			cfg:  TaxConfig{"BAD": json.Number("not-a-number")},
			expected: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rates := NormalizeTaxConfig(tt.cfg)
			assert.Len(t, rates, len(tt.expected))
			for label, want := range tt.expected {
				got, ok := rates[label]
				assert.True(t, ok, "missing label %s", label)
				assert.True(t, got.Equal(decimal.RequireFromString(want)),
					"label %s: got %s want %s", label, got, want)
			}
		})
	}
}
