package types

import (
	"encoding/json"
	"math"

	"github.com/shopspring/decimal"
)

// TaxConfig is the raw per-invoice tax table as stored: label -> rate, where
// the rate is a fraction (0.05 for 5%). It is kept loosely typed because it
// round-trips through JSON and historic rows may carry junk values.
type TaxConfig map[string]any

// NormalizeTaxConfig converts a raw tax config into a rate table, silently
// dropping any entry whose value is not a finite number. The leniency is
// deliberate: a malformed entry disables that tax, it never fails the invoice.
func NormalizeTaxConfig(cfg TaxConfig) map[string]decimal.Decimal {
	rates := make(map[string]decimal.Decimal, len(cfg))
	for label, raw := range cfg {
		switch v := raw.(type) {
		case float64:
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			rates[label] = decimal.NewFromFloat(v)
		case float32:
			f := float64(v)
			if math.IsNaN(f) || math.IsInf(f, 0) {
				continue
			}
			// NewFromFloat32 keeps the shortest decimal for the float32;
			// widening to float64 first would surface binary noise
			// (float32 0.05 -> 0.05000000074505806).
			rates[label] = decimal.NewFromFloat32(v)
		case int:
			rates[label] = decimal.NewFromInt(int64(v))
		case int64:
			rates[label] = decimal.NewFromInt(v)
		case json.Number:
			if d, err := decimal.NewFromString(v.String()); err == nil {
				rates[label] = d
			}
		case decimal.Decimal:
			rates[label] = v
		default:
			// strings, booleans, nested objects etc are dropped
			continue
		}
	}
	return rates
}
