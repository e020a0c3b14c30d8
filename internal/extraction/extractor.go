// Package extraction turns receipt documents into raw company/amount records
// using a vision language model. Its output is untrusted input: all coercion
// belongs to the normalizer in package tally.
package extraction

import "receipt-tally/internal/tally"

// Extractor reads a single receipt document and produces one raw record.
type Extractor interface {
	// ExtractReceipt analyzes a receipt image or PDF and extracts the
	// company name and total amount. The returned record carries whatever
	// the model answered, with no schema guarantee.
	ExtractReceipt(fileData []byte, contentType string) (tally.RawRecord, error)
	// Close releases the extractor's resources.
	Close() error
}

// receiptPrompt is the shared prompt used by all model providers.
const receiptPrompt = `You are reading a receipt or invoice. Carefully read all text in the image and extract the following information:

1. **Company Name**: the main store or business name, usually the largest text or header at the top of the receipt. Do not include addresses or other details. Examples: "Walmart", "CVS Pharmacy", "Cafe A".

2. **Total Amount**: the final bill total, usually at the bottom of the receipt, labeled "Total", "Amount", "Bill Total", "Amount Due" or "Grand Total". Be careful to take the final total, not a subtotal or tax line. Extract only the number, without currency symbols such as $ or €.

Return ONLY valid JSON in this exact format:
{"company_name": "name", "total_amount": "amount"}

Important:
- If you cannot find a field, use an empty string ""
- Do not include any text before or after the JSON
- Do not use markdown code blocks`
