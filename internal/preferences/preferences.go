// Package preferences persists the admin's share message template in a small
// JSON file next to the other runtime data.
package preferences

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

type document struct {
	MessageTemplate string `json:"message_template,omitempty"`
}

// Store is a file-backed preference store.
type Store struct {
	mu       sync.RWMutex
	doc      document
	file     string
	fallback string
}

// NewStore opens the preference file at filePath. fallback is what
// MessageTemplate returns while nothing has been saved.
func NewStore(filePath, fallback string) (*Store, error) {
	s := &Store{
		file:     filePath,
		fallback: fallback,
	}

	if _, err := os.Stat(filePath); err == nil {
		if err := s.load(); err != nil {
			return nil, fmt.Errorf("failed to load preferences: %w", err)
		}
	}

	return s, nil
}

// MessageTemplate returns the saved template, or the default when none is saved.
func (s *Store) MessageTemplate() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.doc.MessageTemplate == "" {
		return s.fallback
	}
	return s.doc.MessageTemplate
}

// Customized reports whether a template has been saved.
func (s *Store) Customized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.MessageTemplate != ""
}

// SetMessageTemplate saves template.
func (s *Store) SetMessageTemplate(template string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.doc
	s.doc.MessageTemplate = template
	if err := s.save(); err != nil {
		s.doc = prev
		return err
	}
	return nil
}

// ResetMessageTemplate forgets the saved template.
func (s *Store) ResetMessageTemplate() error {
	return s.SetMessageTemplate("")
}

func (s *Store) save() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}

	dir := filepath.Dir(s.file)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(s.file, data, 0644); err != nil {
		return fmt.Errorf("failed to write preferences: %w", err)
	}
	return nil
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.file)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	if len(data) == 0 {
		s.doc = document{}
		return nil
	}

	if err := json.Unmarshal(data, &s.doc); err != nil {
		return fmt.Errorf("failed to unmarshal data: %w", err)
	}
	return nil
}
