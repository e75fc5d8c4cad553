package storage

import (
	"encoding/json"
	"os"

	"github.com/avdeyev/SettlementKeeper/internal/errors"
	"github.com/avdeyev/SettlementKeeper/internal/models"
)

// Backend is a durable on-device store holding the whole document under
// a single key.
type Backend interface {
	// LoadRaw returns the persisted document as a parsed JSON value, or
	// nil when nothing has been persisted yet. The value is fed to the
	// migration engine before it is trusted.
	LoadRaw() (any, error)
	// Save persists the document, replacing the previous value.
	Save(doc *models.Document) error
	Close() error
}

// FileBackend persists the document as a single JSON file.
type FileBackend struct {
	Path string
}

// NewFileBackend returns a file backend writing to path.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{Path: path}
}

func (b *FileBackend) LoadRaw() (any, error) {
	data, err := os.ReadFile(b.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.NewUnrecoverableFormat("persisted file is not valid JSON")
	}
	return raw, nil
}

func (b *FileBackend) Save(doc *models.Document) error {
	f, err := os.Create(b.Path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(doc)
}

func (b *FileBackend) Close() error {
	return nil
}
