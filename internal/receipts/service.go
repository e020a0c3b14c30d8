// Package receipts orchestrates the pipeline: extract raw records from a
// directory of receipt documents, normalize and aggregate them per company,
// persist both JSON documents, and record the run.
package receipts

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"receipt-tally/internal/document"
	"receipt-tally/internal/extraction"
	"receipt-tally/internal/history"
	"receipt-tally/internal/ingest"
	"receipt-tally/internal/tally"
)

// IDGenerator generates unique IDs for runs
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

// defaultIDGenerator generates IDs using UnixNano timestamp
type defaultIDGenerator struct{}

func (g *defaultIDGenerator) Generate() string {
	return fmt.Sprintf("%d", time.Now().UnixNano())
}

// defaultTimeSource provides the current time
type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Service handles pipeline operations
type Service struct {
	extractor   extraction.Extractor
	history     history.Store
	idGenerator IDGenerator
	timeSource  TimeSource
}

// NewService creates a new Service with default ID generator and time source
func NewService(extractor extraction.Extractor, store history.Store) *Service {
	return &Service{
		extractor:   extractor,
		history:     store,
		idGenerator: &defaultIDGenerator{},
		timeSource:  &defaultTimeSource{},
	}
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(extractor extraction.Extractor, store history.Store, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{
		extractor:   extractor,
		history:     store,
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

// Result is the outcome of a full pipeline run.
type Result struct {
	Run    *history.Run
	Totals *tally.Totals
}

// ExtractDirectory extracts one raw record per receipt document in dir and
// writes the list to extractedPath. A document that cannot be read or
// extracted is logged and skipped; one bad receipt never aborts the batch.
// Returns the number of extracted records.
func (s *Service) ExtractDirectory(dir, extractedPath string) (int, error) {
	files, err := ingest.ListReceiptFiles(dir)
	if err != nil {
		return 0, err
	}

	records := make([]tally.RawRecord, 0, len(files))
	for _, f := range files {
		data, err := os.ReadFile(f.Path)
		if err != nil {
			slog.Warn("Skipping unreadable receipt", "path", f.Path, "error", err)
			continue
		}

		raw, err := s.extractor.ExtractReceipt(data, f.ContentType)
		if err != nil {
			slog.Warn("Skipping receipt that failed extraction",
				"path", f.Path,
				"content_type", f.ContentType,
				"file_size", len(data),
				"error", err,
			)
			continue
		}
		records = append(records, raw)
	}

	if err := document.Save(extractedPath, records); err != nil {
		return 0, fmt.Errorf("saving extracted records: %w", err)
	}
	return len(records), nil
}

// AggregateFile loads the extracted record list, normalizes every record,
// sums per company, and writes the aggregate document. It either produces a
// complete aggregate or fails at the document boundary; it never emits a
// partial one.
func (s *Service) AggregateFile(extractedPath, aggregatePath string) (*tally.Totals, error) {
	raws, err := document.LoadRecords(extractedPath)
	if err != nil {
		return nil, err
	}

	totals := tally.Aggregate(tally.NormalizeAll(raws))

	if err := document.Save(aggregatePath, totals); err != nil {
		return nil, fmt.Errorf("saving aggregate: %w", err)
	}
	return totals, nil
}

// ProcessDirectory runs extraction then aggregation and records the run.
func (s *Service) ProcessDirectory(dir, extractedPath, aggregatePath string) (*Result, error) {
	count, err := s.ExtractDirectory(dir, extractedPath)
	if err != nil {
		return nil, err
	}

	totals, err := s.AggregateFile(extractedPath, aggregatePath)
	if err != nil {
		return nil, err
	}

	run := &history.Run{
		ID:           s.idGenerator.Generate(),
		SourceDir:    dir,
		ReceiptCount: count,
		CompanyCount: totals.Len(),
		GrandTotal:   totals.GrandTotal(),
		Totals:       totals.Map(),
		CreatedAt:    s.timeSource.Now(),
	}
	if err := s.history.SaveRun(run); err != nil {
		return nil, fmt.Errorf("recording run: %w", err)
	}

	return &Result{Run: run, Totals: totals}, nil
}
