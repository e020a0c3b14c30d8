package tally

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Normalize coerces a raw record into its canonical form. It never fails:
// a missing or non-string company name becomes "", and an amount that cannot
// be read as a number becomes 0. One bad receipt must not abort the batch.
func Normalize(raw RawRecord) Record {
	return Record{
		CompanyName: normalizeName(raw[KeyCompanyName]),
		TotalAmount: normalizeAmount(raw[KeyTotalAmount]),
	}
}

// NormalizeAll normalizes a batch in input order.
func NormalizeAll(raws []RawRecord) []Record {
	records := make([]Record, 0, len(raws))
	for _, raw := range raws {
		records = append(records, Normalize(raw))
	}
	return records
}

// normalizeName keeps string names byte-for-byte as-is. Grouping is exact and
// case-sensitive, so "Acme Corp" and "Acme corp " stay distinct keys.
func normalizeName(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func normalizeAmount(v any) float64 {
	switch t := v.(type) {
	case float64:
		return finite(t)
	case float32:
		return finite(float64(t))
	case int:
		return float64(t)
	case int64:
		return float64(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0
		}
		return finite(f)
	case string:
		return parseAmount(t)
	default:
		// Missing, null, bool, nested object: nothing to sum.
		return 0
	}
}

// finite maps NaN and infinities to 0 so the canonical invariant holds.
func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// parseAmount reads a money-ish string such as "$12.50", "1,200" or "-3.4".
// Currency symbols and other decoration around the number are stripped;
// anything unparseable is 0. Negative amounts pass through, extraction may
// produce refunds.
func parseAmount(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimFunc(s, func(r rune) bool {
		return (r < '0' || r > '9') && r != '-' && r != '+' && r != '.'
	})
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return finite(f)
}
