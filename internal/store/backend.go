package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Backend reads and writes the whole task document
type Backend interface {
	// Read returns ErrNoData when nothing has been stored yet
	Read(now time.Time) (*Document, error)
	// Write replaces everything stored with doc
	Write(doc *Document) error
	// Location describes where the data lives, for messages
	Location() string
	Close() error
}

// JSONFile stores the document as a single JSON file
type JSONFile struct {
	path string
}

// NewJSONFile returns a backend for the file at path. The file is not
// touched until the first Read or Write.
func NewJSONFile(path string) *JSONFile {
	return &JSONFile{path: path}
}

// Read loads and decodes the file
func (f *JSONFile) Read(now time.Time) (*Document, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoData
		}
		return nil, fmt.Errorf("failed to read %s: %w", f.path, err)
	}
	return DecodeDocument(data, now)
}

// Write overwrites the file with doc in full
func (f *JSONFile) Write(doc *Document) error {
	data, err := EncodeDocument(doc)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(f.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	if err := os.WriteFile(f.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", f.path, err)
	}
	return nil
}

// Location returns the file path
func (f *JSONFile) Location() string {
	return f.path
}

// Close is a no-op; the file is opened per call
func (f *JSONFile) Close() error {
	return nil
}
