package extraction

import (
	"encoding/json"
	"fmt"
	"strings"

	"receipt-tally/internal/tally"
)

// parseRecordJSON pulls a raw record out of a model response. Models wrap
// answers in markdown fences or prose despite instructions, so the parser
// locates the outermost JSON object instead of decoding the text wholesale.
func parseRecordJSON(text string) (tally.RawRecord, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSpace(text)

	start := strings.Index(text, "{")
	if start == -1 {
		return nil, fmt.Errorf("no JSON object found in response")
	}
	end := strings.LastIndex(text, "}")
	if end == -1 || end < start {
		return nil, fmt.Errorf("invalid JSON object in response")
	}

	// Decode with json.Number so amounts reach the normalizer untouched.
	dec := json.NewDecoder(strings.NewReader(text[start : end+1]))
	dec.UseNumber()
	var raw tally.RawRecord
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("unmarshaling json: %w", err)
	}
	return raw, nil
}
