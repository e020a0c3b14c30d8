package tally

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Totals is the aggregate map: company name → cumulative total. Keys keep the
// insertion order of their first occurrence so repeated runs over the same
// input serialize identically.
type Totals struct {
	companies []string
	sums      map[string]float64
}

// NewTotals returns an empty aggregate.
func NewTotals() *Totals {
	return &Totals{sums: make(map[string]float64)}
}

// Aggregate sums a batch of normalized records per company in a single pass
// over the input.
func Aggregate(records []Record) *Totals {
	t := NewTotals()
	for _, r := range records {
		t.Add(r.CompanyName, r.TotalAmount)
	}
	return t
}

// Add folds one amount into the running sum for company, creating the entry
// at 0 on first occurrence. The empty company name is a valid key.
func (t *Totals) Add(company string, amount float64) {
	if _, ok := t.sums[company]; !ok {
		t.companies = append(t.companies, company)
	}
	t.sums[company] += amount
}

// Companies returns the company names in first-occurrence order.
func (t *Totals) Companies() []string {
	out := make([]string, len(t.companies))
	copy(out, t.companies)
	return out
}

// Sum returns the cumulative total for company and whether it is present.
func (t *Totals) Sum(company string) (float64, bool) {
	v, ok := t.sums[company]
	return v, ok
}

// Len returns the number of distinct companies.
func (t *Totals) Len() int {
	return len(t.companies)
}

// GrandTotal returns the sum over all companies.
func (t *Totals) GrandTotal() float64 {
	var total float64
	for _, company := range t.companies {
		total += t.sums[company]
	}
	return total
}

// Map returns a plain copy of the aggregate. Key order is lost.
func (t *Totals) Map() map[string]float64 {
	out := make(map[string]float64, len(t.sums))
	for company, sum := range t.sums {
		out[company] = sum
	}
	return out
}

// MarshalJSON writes the aggregate as a JSON object whose keys appear in
// first-occurrence order, e.g. {"Cafe A": 15, "Cafe B": 0}.
func (t *Totals) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, company := range t.companies {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(company)
		if err != nil {
			return nil, fmt.Errorf("marshaling company name %q: %w", company, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(t.sums[company])
		if err != nil {
			return nil, fmt.Errorf("marshaling total for %q: %w", company, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object of company names to numbers, preserving
// the document's key order.
func (t *Totals) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("reading aggregate: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("aggregate is not a JSON object")
	}

	t.companies = nil
	t.sums = make(map[string]float64)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("reading aggregate key: %w", err)
		}
		company, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("aggregate key is not a string")
		}
		numTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("reading total for %q: %w", company, err)
		}
		num, ok := numTok.(json.Number)
		if !ok {
			return fmt.Errorf("total for %q is not a number", company)
		}
		f, err := num.Float64()
		if err != nil {
			return fmt.Errorf("total for %q: %w", company, err)
		}
		t.Add(company, f)
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("reading aggregate: %w", err)
	}
	return nil
}
