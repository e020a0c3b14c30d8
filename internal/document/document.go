// Package document is the persistence adapter for the pipeline's JSON
// documents: the raw extracted record list and the aggregate object.
package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"receipt-tally/internal/tally"
)

// MalformedDocumentError reports a document that is not a JSON array of
// objects. It is surfaced to the caller, never recovered internally: a bad
// document must fail loudly rather than become a silently truncated
// aggregate.
type MalformedDocumentError struct {
	Path   string
	Reason string
}

func (e *MalformedDocumentError) Error() string {
	return fmt.Sprintf("malformed document %s: %s", e.Path, e.Reason)
}

// LoadRecords parses a JSON array of receipt objects from path. Amounts are
// decoded with json.Number so their textual form reaches the normalizer
// untouched.
func LoadRecords(path string) ([]tally.RawRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}

	var elems []json.RawMessage
	// A literal null unmarshals into a nil slice without error, which would
	// quietly aggregate to an empty document instead of failing loudly.
	if err := json.Unmarshal(data, &elems); err != nil || bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil, &MalformedDocumentError{Path: path, Reason: "top-level value is not a JSON array"}
	}

	records := make([]tally.RawRecord, 0, len(elems))
	for i, elem := range elems {
		dec := json.NewDecoder(bytes.NewReader(elem))
		dec.UseNumber()
		var raw tally.RawRecord
		if err := dec.Decode(&raw); err != nil || raw == nil {
			return nil, &MalformedDocumentError{Path: path, Reason: fmt.Sprintf("element %d is not an object", i)}
		}
		records = append(records, raw)
	}
	return records, nil
}

// Save writes v to path as indented JSON. The document goes to a temporary
// file in the destination directory first and is renamed into place, so a
// crash mid-write never leaves a half-written destination.
func Save(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing document: %w", err)
	}
	return nil
}
