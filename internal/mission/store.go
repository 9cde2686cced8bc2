package mission

import (
	"fmt"

	"github.com/litescript/ls-mission/internal/safeload"
)

// Store persists a catalog to a single JSON file. Every mutation is a full
// read-modify-write of that file. There is no locking: two processes
// editing the same file at once can lose updates.
type Store struct {
	path string
}

// NewStore returns a store backed by the file at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

// Load reads the catalog. Errors carry the safeload classification.
func (s *Store) Load() (*Catalog, error) {
	var c Catalog
	if err := safeload.LoadInto(s.path, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Save rewrites the whole file from c.
func (s *Store) Save(c *Catalog) error {
	if err := safeload.Write(s.path, c); err != nil {
		return fmt.Errorf("save catalog: %w", err)
	}
	return nil
}

// Add loads the catalog, appends m and saves it. On ErrDuplicateID nothing
// is written.
func (s *Store) Add(m Mission) (*Catalog, error) {
	c, err := s.Load()
	if err != nil {
		return nil, err
	}
	if err := c.Add(m); err != nil {
		return nil, err
	}
	if err := s.Save(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Remove loads the catalog, drops every mission with the given id and saves
// it. It returns the number of missions removed; the file is rewritten even
// when that number is zero.
func (s *Store) Remove(id ID) (*Catalog, int, error) {
	c, err := s.Load()
	if err != nil {
		return nil, 0, err
	}
	removed := c.Remove(id)
	if err := s.Save(c); err != nil {
		return nil, 0, err
	}
	return c, removed, nil
}
