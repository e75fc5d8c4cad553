// Package storage owns the on-device copy of the tracked state: the
// in-memory document, its durable backends, and the mutation surface
// the shell drives. Every mutation marks the sync context dirty; the
// scheduler later flushes a snapshot to the backend and to the remote
// store on independent cadences.
package storage

import (
	"sync"

	"go.uber.org/zap"

	"github.com/avdeyev/SettlementKeeper/internal/errors"
	"github.com/avdeyev/SettlementKeeper/internal/migrate"
	"github.com/avdeyev/SettlementKeeper/internal/models"
	"github.com/avdeyev/SettlementKeeper/internal/schema"
)

// DirtyMarker records that in-memory state changed since the last
// persisted snapshots.
type DirtyMarker interface {
	MarkDirty()
}

// LocalStorage holds the live document. The document is mutated only
// through its methods; readers receive deep copies.
type LocalStorage struct {
	mu      sync.Mutex
	backend Backend
	doc     *models.Document
	marker  DirtyMarker
	log     *zap.Logger
	// deleted tracks settlement IDs removed locally but possibly still
	// present remotely, so the next remote flush can issue deletes.
	deleted map[string]bool
}

// Open loads the persisted document through the migration engine and
// returns a ready store. Unsalvageable or invalid persisted state falls
// back to the default document; the boot never fails on bad data, only
// on backend I/O errors.
func Open(backend Backend, marker DirtyMarker, log *zap.Logger) (*LocalStorage, error) {
	ls := &LocalStorage{
		backend: backend,
		marker:  marker,
		log:     log,
		deleted: make(map[string]bool),
	}

	raw, err := backend.LoadRaw()
	if err != nil {
		if !errors.Is(err, errors.ErrUnrecoverableFormat) {
			return nil, err
		}
		// Unparsable persisted bytes; start fresh rather than fail.
		log.Warn("persisted state unreadable, starting fresh", zap.Error(err))
		ls.doc = schema.DefaultDocument()
		return ls, nil
	}
	if raw == nil {
		ls.doc = schema.DefaultDocument()
		return ls, nil
	}

	doc, merr := migrate.Migrate(raw)
	if merr != nil {
		log.Warn("persisted state not salvageable as-is, using fallback", zap.Error(merr))
	}
	if doc == nil {
		doc = schema.DefaultDocument()
	}
	ls.doc = doc
	return ls, nil
}

// Snapshot returns a deep copy of the document. Flush cycles write a
// snapshot as one unit so a slow write never observes later mutations.
func (ls *LocalStorage) Snapshot() *models.Document {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return ls.doc.Clone()
}

// Flush persists a snapshot to the local backend.
func (ls *LocalStorage) Flush() error {
	return ls.SaveSnapshot(ls.Snapshot())
}

// SaveSnapshot persists an already-taken snapshot. The scheduler takes
// the snapshot itself so it can pair the write with the dirty
// generation captured alongside it.
func (ls *LocalStorage) SaveSnapshot(doc *models.Document) error {
	return ls.backend.Save(doc)
}

// Close releases the backend.
func (ls *LocalStorage) Close() error {
	return ls.backend.Close()
}

// CreateSettlement appends a new empty settlement and returns a copy.
// The first settlement created becomes the active one.
func (ls *LocalStorage) CreateSettlement(name string) models.Settlement {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	s := schema.NewSettlement(name)
	ls.doc.Settlements = append(ls.doc.Settlements, s)
	if ls.doc.ActiveSettlementID == "" {
		ls.doc.ActiveSettlementID = s.ID
	}
	ls.marker.MarkDirty()
	return s.Clone()
}

// RenameSettlement renames the settlement with the given ID.
func (ls *LocalStorage) RenameSettlement(id, name string) bool {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	s := ls.doc.FindSettlement(id)
	if s == nil {
		return false
	}
	s.Name = name
	ls.marker.MarkDirty()
	return true
}

// DeleteSettlement removes a settlement. The ID is remembered so the
// next remote flush deletes the remote copy too.
func (ls *LocalStorage) DeleteSettlement(id string) bool {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	for i := range ls.doc.Settlements {
		if ls.doc.Settlements[i].ID != id {
			continue
		}
		ls.doc.Settlements = append(ls.doc.Settlements[:i], ls.doc.Settlements[i+1:]...)
		if ls.doc.ActiveSettlementID == id {
			ls.doc.ActiveSettlementID = ""
			if len(ls.doc.Settlements) > 0 {
				ls.doc.ActiveSettlementID = ls.doc.Settlements[0].ID
			}
		}
		ls.deleted[id] = true
		ls.marker.MarkDirty()
		return true
	}
	return false
}

// SetActive selects the settlement the shell operates on.
func (ls *LocalStorage) SetActive(id string) bool {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	if ls.doc.FindSettlement(id) == nil {
		return false
	}
	ls.doc.ActiveSettlementID = id
	ls.marker.MarkDirty()
	return true
}

// Active returns a copy of the active settlement, or nil.
func (ls *LocalStorage) Active() *models.Settlement {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	s := ls.doc.FindSettlement(ls.doc.ActiveSettlementID)
	if s == nil {
		return nil
	}
	c := s.Clone()
	return &c
}

// Settlements returns a deep copy of the settlement set.
func (ls *LocalStorage) Settlements() []models.Settlement {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	out := make([]models.Settlement, len(ls.doc.Settlements))
	for i := range ls.doc.Settlements {
		out[i] = ls.doc.Settlements[i].Clone()
	}
	return out
}

// AddSurvivor creates a blank survivor in the settlement's reserve pool
// and returns a copy.
func (ls *LocalStorage) AddSurvivor(settlementID, name string) (models.Survivor, bool) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	s := ls.doc.FindSettlement(settlementID)
	if s == nil {
		return models.Survivor{}, false
	}
	sv := schema.NewSurvivor(name)
	s.Reserve = append(s.Reserve, sv)
	ls.marker.MarkDirty()
	return sv.Clone(), true
}

// UpdateSurvivor applies fn to the survivor wherever it lives in the
// settlement, slot or pool.
func (ls *LocalStorage) UpdateSurvivor(settlementID, survivorID string, fn func(*models.Survivor)) bool {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	s := ls.doc.FindSettlement(settlementID)
	if s == nil {
		return false
	}
	for i, p := range s.Party {
		if p != nil && p.ID == survivorID {
			fn(s.Party[i])
			ls.marker.MarkDirty()
			return true
		}
	}
	for _, pool := range []*[]models.Survivor{&s.Reserve, &s.Retired, &s.Removed} {
		for i := range *pool {
			if (*pool)[i].ID == survivorID {
				fn(&(*pool)[i])
				ls.marker.MarkDirty()
				return true
			}
		}
	}
	return false
}

// PromoteToParty moves a survivor from the reserve pool into a party
// slot. An existing occupant returns to the reserve. Moving is never a
// copy: the survivor leaves the pool it came from.
func (ls *LocalStorage) PromoteToParty(settlementID string, slot int, survivorID string) bool {
	if slot < 0 || slot >= models.PartySize {
		return false
	}
	ls.mu.Lock()
	defer ls.mu.Unlock()
	s := ls.doc.FindSettlement(settlementID)
	if s == nil {
		return false
	}
	sv, ok := takeFromPool(&s.Reserve, survivorID)
	if !ok {
		return false
	}
	if cur := s.Party[slot]; cur != nil {
		s.Reserve = append(s.Reserve, *cur)
	}
	s.Party[slot] = &sv
	ls.marker.MarkDirty()
	return true
}

// ReturnToReserve clears a party slot, putting its survivor back into
// the reserve pool.
func (ls *LocalStorage) ReturnToReserve(settlementID string, slot int) bool {
	if slot < 0 || slot >= models.PartySize {
		return false
	}
	ls.mu.Lock()
	defer ls.mu.Unlock()
	s := ls.doc.FindSettlement(settlementID)
	if s == nil || s.Party[slot] == nil {
		return false
	}
	s.Reserve = append(s.Reserve, *s.Party[slot])
	s.Party[slot] = nil
	ls.marker.MarkDirty()
	return true
}

// RetireSurvivor moves a survivor, from a slot or the reserve, into the
// retired pool.
func (ls *LocalStorage) RetireSurvivor(settlementID, survivorID string) bool {
	return ls.moveToPool(settlementID, survivorID, func(s *models.Settlement, sv models.Survivor) {
		s.Retired = append(s.Retired, sv)
	})
}

// RemoveSurvivor moves a survivor, from wherever it lives, into the
// removed pool.
func (ls *LocalStorage) RemoveSurvivor(settlementID, survivorID string) bool {
	return ls.moveToPool(settlementID, survivorID, func(s *models.Settlement, sv models.Survivor) {
		s.Removed = append(s.Removed, sv)
	})
}

func (ls *LocalStorage) moveToPool(settlementID, survivorID string, place func(*models.Settlement, models.Survivor)) bool {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	s := ls.doc.FindSettlement(settlementID)
	if s == nil {
		return false
	}
	for i, p := range s.Party {
		if p != nil && p.ID == survivorID {
			sv := *p
			s.Party[i] = nil
			place(s, sv)
			ls.marker.MarkDirty()
			return true
		}
	}
	for _, pool := range []*[]models.Survivor{&s.Reserve, &s.Retired} {
		if sv, ok := takeFromPool(pool, survivorID); ok {
			place(s, sv)
			ls.marker.MarkDirty()
			return true
		}
	}
	return false
}

func takeFromPool(pool *[]models.Survivor, id string) (models.Survivor, bool) {
	for i := range *pool {
		if (*pool)[i].ID == id {
			sv := (*pool)[i]
			*pool = append((*pool)[:i], (*pool)[i+1:]...)
			return sv, true
		}
	}
	return models.Survivor{}, false
}

// ReplaceSettlements swaps the settlement set wholesale. Used by the
// conflict resolver's use-cloud outcome; dirty flags are the caller's
// concern.
func (ls *LocalStorage) ReplaceSettlements(settlements []models.Settlement) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	ls.doc.Settlements = make([]models.Settlement, len(settlements))
	for i := range settlements {
		ls.doc.Settlements[i] = settlements[i].Clone()
	}
	if ls.doc.FindSettlement(ls.doc.ActiveSettlementID) == nil {
		ls.doc.ActiveSettlementID = ""
		if len(ls.doc.Settlements) > 0 {
			ls.doc.ActiveSettlementID = ls.doc.Settlements[0].ID
		}
	}
	ls.deleted = make(map[string]bool)
}

// PendingDeletes returns the settlement IDs deleted locally since the
// last successful remote flush.
func (ls *LocalStorage) PendingDeletes() []string {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	out := make([]string, 0, len(ls.deleted))
	for id := range ls.deleted {
		out = append(out, id)
	}
	return out
}

// AckDeletes forgets deletions the remote store has confirmed.
func (ls *LocalStorage) AckDeletes(ids []string) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	for _, id := range ids {
		delete(ls.deleted, id)
	}
}
