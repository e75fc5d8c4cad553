package storage

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/avdeyev/SettlementKeeper/internal/errors"
	"github.com/avdeyev/SettlementKeeper/internal/models"
	"github.com/avdeyev/SettlementKeeper/internal/schema"
)

type countingMarker struct{ calls int }

func (m *countingMarker) MarkDirty() { m.calls++ }

// stubBackend serves a canned raw value and discards saves.
type stubBackend struct {
	raw    any
	rawErr error
	saved  *models.Document
}

func (b *stubBackend) LoadRaw() (any, error) { return b.raw, b.rawErr }
func (b *stubBackend) Save(doc *models.Document) error {
	b.saved = doc
	return nil
}
func (b *stubBackend) Close() error { return nil }

func openEmpty(t *testing.T) (*LocalStorage, *countingMarker) {
	t.Helper()
	marker := &countingMarker{}
	ls, err := Open(&stubBackend{}, marker, zap.NewNop())
	require.NoError(t, err)
	return ls, marker
}

func TestOpenEmptyBackendStartsFresh(t *testing.T) {
	ls, _ := openEmpty(t)
	doc := ls.Snapshot()
	assert.Equal(t, schema.CurrentVersion, doc.Version)
	assert.Empty(t, doc.Settlements)
}

func TestOpenMigratesPersistedState(t *testing.T) {
	raw := map[string]any{
		"slot1": map[string]any{"name": "Zachary"},
	}
	ls, err := Open(&stubBackend{raw: raw}, &countingMarker{}, zap.NewNop())
	require.NoError(t, err)

	doc := ls.Snapshot()
	require.Len(t, doc.Settlements, 1)
	require.NotNil(t, doc.Settlements[0].Party[0])
	assert.Equal(t, "Zachary", doc.Settlements[0].Party[0].Name)
	assert.Equal(t, schema.CurrentVersion, doc.Version)
}

func TestOpenGarbageFallsBackToDefault(t *testing.T) {
	ls, err := Open(&stubBackend{raw: map[string]any{"what": "ever"}}, &countingMarker{}, zap.NewNop())
	require.NoError(t, err, "bad data must never fail the boot")
	assert.Empty(t, ls.Snapshot().Settlements)
}

func TestCreateAndSelectSettlements(t *testing.T) {
	ls, marker := openEmpty(t)

	a := ls.CreateSettlement("Alpha")
	assert.NotEmpty(t, a.ID)
	active := ls.Active()
	require.NotNil(t, active)
	assert.Equal(t, a.ID, active.ID, "first settlement becomes active")

	b := ls.CreateSettlement("Beta")
	require.True(t, ls.SetActive(b.ID))
	assert.Equal(t, b.ID, ls.Active().ID)

	assert.False(t, ls.SetActive("no-such-id"))
	assert.Equal(t, 3, marker.calls)
}

func TestDeleteSettlementTracksPendingDelete(t *testing.T) {
	ls, _ := openEmpty(t)
	a := ls.CreateSettlement("Alpha")
	b := ls.CreateSettlement("Beta")

	require.True(t, ls.DeleteSettlement(a.ID))
	assert.Equal(t, []string{a.ID}, ls.PendingDeletes())
	assert.Equal(t, b.ID, ls.Active().ID, "active moves to a surviving settlement")

	ls.AckDeletes([]string{a.ID})
	assert.Empty(t, ls.PendingDeletes())

	assert.False(t, ls.DeleteSettlement(a.ID), "already gone")
}

func TestPromoteMoveNeverCopies(t *testing.T) {
	ls, _ := openEmpty(t)
	s := ls.CreateSettlement("Alpha")
	sv, ok := ls.AddSurvivor(s.ID, "Zachary")
	require.True(t, ok)

	require.True(t, ls.PromoteToParty(s.ID, 0, sv.ID))
	got := ls.Active()
	require.NotNil(t, got.Party[0])
	assert.Equal(t, sv.ID, got.Party[0].ID)
	assert.Empty(t, got.Reserve, "promoted survivor must leave the reserve")

	// A second promotion into the occupied slot swaps the occupant back.
	other, _ := ls.AddSurvivor(s.ID, "Lucy")
	require.True(t, ls.PromoteToParty(s.ID, 0, other.ID))
	got = ls.Active()
	assert.Equal(t, other.ID, got.Party[0].ID)
	require.Len(t, got.Reserve, 1)
	assert.Equal(t, sv.ID, got.Reserve[0].ID)
}

func TestPromoteRejectsBadSlotOrStranger(t *testing.T) {
	ls, _ := openEmpty(t)
	s := ls.CreateSettlement("Alpha")
	sv, _ := ls.AddSurvivor(s.ID, "Zachary")

	assert.False(t, ls.PromoteToParty(s.ID, -1, sv.ID))
	assert.False(t, ls.PromoteToParty(s.ID, models.PartySize, sv.ID))
	assert.False(t, ls.PromoteToParty(s.ID, 0, "no-such-survivor"))

	// Retired survivors do not depart.
	require.True(t, ls.RetireSurvivor(s.ID, sv.ID))
	assert.False(t, ls.PromoteToParty(s.ID, 0, sv.ID))
}

func TestReturnToReserve(t *testing.T) {
	ls, _ := openEmpty(t)
	s := ls.CreateSettlement("Alpha")
	sv, _ := ls.AddSurvivor(s.ID, "Zachary")
	require.True(t, ls.PromoteToParty(s.ID, 2, sv.ID))

	require.True(t, ls.ReturnToReserve(s.ID, 2))
	got := ls.Active()
	assert.Nil(t, got.Party[2])
	require.Len(t, got.Reserve, 1)
	assert.Equal(t, sv.ID, got.Reserve[0].ID)

	assert.False(t, ls.ReturnToReserve(s.ID, 2), "slot already empty")
}

func TestRetireAndRemoveFromAnywhere(t *testing.T) {
	ls, _ := openEmpty(t)
	s := ls.CreateSettlement("Alpha")
	inParty, _ := ls.AddSurvivor(s.ID, "Zachary")
	inReserve, _ := ls.AddSurvivor(s.ID, "Lucy")
	require.True(t, ls.PromoteToParty(s.ID, 0, inParty.ID))

	require.True(t, ls.RemoveSurvivor(s.ID, inParty.ID))
	require.True(t, ls.RetireSurvivor(s.ID, inReserve.ID))

	got := ls.Active()
	assert.Nil(t, got.Party[0], "removal clears the slot")
	assert.Empty(t, got.Reserve)
	require.Len(t, got.Retired, 1)
	require.Len(t, got.Removed, 1)
	assert.Equal(t, inReserve.ID, got.Retired[0].ID)
	assert.Equal(t, inParty.ID, got.Removed[0].ID)

	// A retired survivor can still be struck off entirely.
	require.True(t, ls.RemoveSurvivor(s.ID, inReserve.ID))
	assert.Len(t, ls.Active().Removed, 2)
}

func TestUpdateSurvivorFindsEveryLocation(t *testing.T) {
	ls, _ := openEmpty(t)
	s := ls.CreateSettlement("Alpha")
	sv, _ := ls.AddSurvivor(s.ID, "Zachary")

	tick := func(s *models.Survivor) { s.HuntXP[0] = true }

	require.True(t, ls.UpdateSurvivor(s.ID, sv.ID, tick), "in reserve")
	require.True(t, ls.PromoteToParty(s.ID, 0, sv.ID))
	require.True(t, ls.UpdateSurvivor(s.ID, sv.ID, func(s *models.Survivor) {
		s.Survival = 3
	}), "in party slot")

	got := ls.Active().Party[0]
	assert.True(t, got.HuntXP[0])
	assert.Equal(t, 3, got.Survival)

	assert.False(t, ls.UpdateSurvivor(s.ID, "no-such-survivor", tick))
	assert.False(t, ls.UpdateSurvivor("no-such-settlement", sv.ID, tick))
}

func TestSnapshotIsolation(t *testing.T) {
	ls, _ := openEmpty(t)
	ls.CreateSettlement("Alpha")

	snap := ls.Snapshot()
	snap.Settlements[0].Name = "Mutated"

	assert.Equal(t, "Alpha", ls.Active().Name)
}

func TestReplaceSettlementsResetsDeletes(t *testing.T) {
	ls, _ := openEmpty(t)
	a := ls.CreateSettlement("Alpha")
	require.True(t, ls.DeleteSettlement(a.ID))
	require.NotEmpty(t, ls.PendingDeletes())

	incoming := []models.Settlement{schema.NewSettlement("Cloud")}
	ls.ReplaceSettlements(incoming)

	assert.Empty(t, ls.PendingDeletes(), "adopting a new set voids stale deletes")
	assert.Equal(t, incoming[0].ID, ls.Active().ID, "active falls back to the first settlement")
}

func TestFlushWritesSnapshotToBackend(t *testing.T) {
	backend := &stubBackend{}
	ls, err := Open(backend, &countingMarker{}, zap.NewNop())
	require.NoError(t, err)
	ls.CreateSettlement("Alpha")

	require.NoError(t, ls.Flush())
	require.NotNil(t, backend.saved)
	assert.Len(t, backend.saved.Settlements, 1)

	// The saved snapshot is detached from the live document.
	backend.saved.Settlements[0].Name = "Mutated"
	assert.Equal(t, "Alpha", ls.Active().Name)
}

func TestFileBackendRoundTrip(t *testing.T) {
	path := t.TempDir() + "/doc.json"
	backend := NewFileBackend(path)

	raw, err := backend.LoadRaw()
	require.NoError(t, err)
	assert.Nil(t, raw, "missing file means nothing persisted yet")

	doc := schema.DefaultDocument()
	doc.Settlements = append(doc.Settlements, schema.NewSettlement("Alpha"))
	require.NoError(t, backend.Save(doc))

	raw, err = backend.LoadRaw()
	require.NoError(t, err)
	m, ok := raw.(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, schema.CurrentVersion, m["version"])
}

func TestFileBackendRejectsGarbage(t *testing.T) {
	path := t.TempDir() + "/doc.json"
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewFileBackend(path).LoadRaw()
	assert.True(t, errors.Is(err, errors.ErrUnrecoverableFormat))
}
