package render

import (
	"errors"
	"io/fs"
	"os"

	"github.com/klytics/chartkit/internal/formats/pptx"
)

// DeckStore loads and persists the presentation a run appends to.
type DeckStore interface {
	// Load returns the stored deck, or nil when none exists yet.
	Load() (*pptx.Deck, error)
	Save(d *pptx.Deck) error
}

// FileStore keeps the deck in a single .pptx file.
type FileStore struct {
	Path string
}

// Load opens the deck at Path. A missing file is not an error.
func (s FileStore) Load() (*pptx.Deck, error) {
	if _, err := os.Stat(s.Path); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	return pptx.Open(s.Path)
}

// Save rewrites the whole deck at Path.
func (s FileStore) Save(d *pptx.Deck) error {
	data, err := d.Bytes()
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.Path, data, 0644); err != nil {
		return &WriteError{Path: s.Path, Err: err}
	}
	return nil
}

// MemoryStore holds the serialized deck in memory. Saves round-trip through
// the .pptx encoding so loads see exactly what a file would contain.
type MemoryStore struct {
	Data  []byte
	Saves int
}

// Load parses the last saved deck, or returns nil if nothing was saved.
func (s *MemoryStore) Load() (*pptx.Deck, error) {
	if s.Data == nil {
		return nil, nil
	}
	return pptx.Load(s.Data)
}

// Save serializes d.
func (s *MemoryStore) Save(d *pptx.Deck) error {
	data, err := d.Bytes()
	if err != nil {
		return err
	}
	s.Data = data
	s.Saves++
	return nil
}
