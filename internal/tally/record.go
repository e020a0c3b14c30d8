// Package tally implements the deterministic core of the pipeline: coercing
// untrusted extracted records into a canonical shape and summing totals per
// company.
package tally

// Field keys recognized in a RawRecord.
const (
	KeyCompanyName = "company_name"
	KeyTotalAmount = "total_amount"
)

// RawRecord is one extracted company/amount pair as produced by the
// extraction collaborator. Values are untrusted: either field may be missing,
// null, or of the wrong type.
type RawRecord map[string]any

// Record is the canonical form of a RawRecord. TotalAmount is always finite.
type Record struct {
	CompanyName string  `json:"company_name"`
	TotalAmount float64 `json:"total_amount"`
}
