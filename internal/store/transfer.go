package store

import (
	"fmt"
	"os"
)

// Export writes every task to path in the persisted document format.
// It returns the number of tasks written.
func (s *Store) Export(path string) (int, error) {
	doc := &Document{Tasks: s.tasks, NextID: s.nextID}
	if err := NewJSONFile(path).Write(doc); err != nil {
		return 0, fmt.Errorf("failed to export tasks: %w", err)
	}
	return len(s.tasks), nil
}

// Import reads tasks from a file in the current or legacy format and adds
// them with the AddImported id rule, keeping recurring series together
// under their new ids. Unlike Load, an unreadable or corrupt file is an
// error and nothing is added.
func (s *Store) Import(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read import file: %w", err)
	}

	doc, err := DecodeDocument(data, s.now())
	if err != nil {
		return 0, fmt.Errorf("failed to import %s: %w", path, err)
	}

	s.placeAll(doc.Tasks)
	if len(doc.Tasks) == 0 {
		return 0, nil
	}
	return len(doc.Tasks), s.Save()
}
