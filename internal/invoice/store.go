package invoice

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// DocumentStore persists rendered invoice PDFs, addressed by booking code.
// Writes are overwrite-safe: re-rendering the same invoice lands on the
// same path.
type DocumentStore interface {
	Save(ctx context.Context, bookingCode string, pdf []byte) (string, error)
}

// FileStore writes PDFs beneath a local directory.
type FileStore struct {
	dir string
}

// NewFileStore creates a FileStore rooted at dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Save writes the PDF to {dir}/booking_invoice_{code}.pdf and returns the
// full path.
func (s *FileStore) Save(ctx context.Context, bookingCode string, pdf []byte) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create invoice directory: %w", err)
	}
	path := filepath.Join(s.dir, fmt.Sprintf("booking_invoice_%s.pdf", bookingCode))
	if err := os.WriteFile(path, pdf, 0o644); err != nil {
		return "", fmt.Errorf("failed to write invoice pdf: %w", err)
	}
	return path, nil
}
