// Package ingest discovers receipt documents in a source directory.
package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// File is one receipt document found in the source directory.
type File struct {
	Path        string
	ContentType string
}

// contentTypes maps supported extensions to the MIME type handed to the
// extractor.
var contentTypes = map[string]string{
	".pdf":  "application/pdf",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".heic": "image/heic",
	".heif": "image/heif",
}

// ListReceiptFiles returns the receipt documents directly inside dir, in name
// order. Hidden files, subdirectories and unsupported extensions are skipped.
func ListReceiptFiles(dir string) ([]File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading receipt directory: %w", err)
	}

	files := make([]File, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		contentType, ok := contentTypes[strings.ToLower(filepath.Ext(entry.Name()))]
		if !ok {
			continue
		}
		files = append(files, File{
			Path:        filepath.Join(dir, entry.Name()),
			ContentType: contentType,
		})
	}
	return files, nil
}
