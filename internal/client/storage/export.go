package storage

import (
	"encoding/json"
	"io"

	"github.com/avdeyev/SettlementKeeper/internal/errors"
	"github.com/avdeyev/SettlementKeeper/internal/migrate"
)

// Export writes the current document verbatim as current-version JSON.
func (ls *LocalStorage) Export(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ls.Snapshot())
}

// Import reads arbitrary JSON and routes it through the migration
// engine, identically to the boot-time load path. The imported document
// replaces the in-memory state and is marked dirty for both stores.
// Unlike boot, a failure is surfaced to the caller instead of silently
// falling back, so the user learns why their file was rejected.
func (ls *LocalStorage) Import(r io.Reader) error {
	var raw any
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return errors.NewUnrecoverableFormat("import is not valid JSON")
	}
	doc, err := migrate.Migrate(raw)
	if err != nil {
		return err
	}

	ls.mu.Lock()
	ls.doc = doc
	ls.deleted = make(map[string]bool)
	ls.marker.MarkDirty()
	ls.mu.Unlock()
	return nil
}
