package infrastructure

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrDocumentNotFound is returned when no document has been stored yet. It
// matches fs.ErrNotExist.
var ErrDocumentNotFound = fmt.Errorf("document not found: %w", fs.ErrNotExist)

// DocumentStorage keeps the last generated PDF at a fixed path on disk.
type DocumentStorage struct {
	dir  string
	name string
}

func NewDocumentStorage(dir, name string) *DocumentStorage {
	return &DocumentStorage{dir: dir, name: name}
}

// Path is the on-disk location of the stored document.
func (s *DocumentStorage) Path() string {
	return filepath.Join(s.dir, s.name)
}

// Read returns the stored document or ErrDocumentNotFound.
func (s *DocumentStorage) Read() ([]byte, error) {
	b, err := os.ReadFile(s.Path())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.Path(), err)
	}
	return b, nil
}

// Write replaces the stored document. The file is written next to the
// target and renamed so readers never see a partial document.
func (s *DocumentStorage) Write(data []byte) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create storage dir: %w", err)
	}
	tmp, err := os.CreateTemp(s.dir, s.name+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path()); err != nil {
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}
