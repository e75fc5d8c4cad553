package migrate

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avdeyev/SettlementKeeper/internal/errors"
	"github.com/avdeyev/SettlementKeeper/internal/schema"
)

// parse builds the parsed-JSON input shape the engine receives at boot.
func parse(t *testing.T, raw string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	return v
}

const legacyDoc = `{
	"name": "Lantern Hoard",
	"slot1": {"name": "Zachary", "xp": [true, true, false], "weaponProficiency": "spear"},
	"slot2": null,
	"pool": [{"name": "Lucy", "xp": [true]}]
}`

const v1Doc = `{
	"settlements": [{
		"id": "s-1",
		"name": "First Story",
		"party": [{"name": "Allister", "xp": [true, false], "weaponProficiency": "sword"}, null, null, null],
		"reserve": [],
		"retired": [],
		"dead": [{"name": "Dead Guy", "xp": []}]
	}],
	"activeSettlementId": "s-1"
}`

func currentDoc(t *testing.T) string {
	t.Helper()
	doc := schema.DefaultDocument()
	s := schema.NewSettlement("Modern Times")
	s.Reserve = append(s.Reserve, schema.NewSurvivor("Erza"))
	doc.Settlements = append(doc.Settlements, s)
	doc.ActiveSettlementID = s.ID
	b, err := json.Marshal(doc)
	require.NoError(t, err)
	return string(b)
}

func TestMigrate_AllKnownFormatsValidate(t *testing.T) {
	for name, raw := range map[string]string{
		"legacy":  legacyDoc,
		"v1":      v1Doc,
		"current": currentDoc(t),
	} {
		t.Run(name, func(t *testing.T) {
			doc, err := Migrate(parse(t, raw))
			require.NoError(t, err)
			assert.True(t, Validate(doc))
			assert.Equal(t, schema.CurrentVersion, doc.Version)
		})
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	for name, raw := range map[string]string{
		"legacy": legacyDoc,
		"v1":     v1Doc,
	} {
		t.Run(name, func(t *testing.T) {
			once, err := Migrate(parse(t, raw))
			require.NoError(t, err)

			b, err := json.Marshal(once)
			require.NoError(t, err)
			twice, err := Migrate(parse(t, string(b)))
			require.NoError(t, err)

			assert.Equal(t, once, twice)
		})
	}
}

func TestMigrate_LegacyWrapsIntoSettlement(t *testing.T) {
	doc, err := Migrate(parse(t, legacyDoc))
	require.NoError(t, err)

	require.Len(t, doc.Settlements, 1)
	s := doc.Settlements[0]
	assert.Equal(t, "Lantern Hoard", s.Name)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, s.ID, doc.ActiveSettlementID)

	require.NotNil(t, s.Party[0])
	assert.Equal(t, "Zachary", s.Party[0].Name)
	assert.Nil(t, s.Party[1])
	require.Len(t, s.Reserve, 1)
	assert.Equal(t, "Lucy", s.Reserve[0].Name)
}

func TestMigrate_RenameMovesValueExactly(t *testing.T) {
	doc, err := Migrate(parse(t, v1Doc))
	require.NoError(t, err)

	sv := doc.Settlements[0].Party[0]
	require.NotNil(t, sv)
	// xp became huntXP: prefix preserved, padded to the current length.
	require.Len(t, sv.HuntXP, schema.HuntXPLength)
	assert.True(t, sv.HuntXP[0])
	assert.False(t, sv.HuntXP[1])
}

func TestMigrate_ScalarPromotedToList(t *testing.T) {
	doc, err := Migrate(parse(t, v1Doc))
	require.NoError(t, err)

	sv := doc.Settlements[0].Party[0]
	require.NotNil(t, sv)
	assert.Equal(t, []string{"sword"}, sv.WeaponProficiencies)
}

func TestMigrate_DeadPoolRenamedToRemoved(t *testing.T) {
	doc, err := Migrate(parse(t, v1Doc))
	require.NoError(t, err)

	require.Len(t, doc.Settlements[0].Removed, 1)
	assert.Equal(t, "Dead Guy", doc.Settlements[0].Removed[0].Name)
}

func TestMigrate_UnrecoverableInputs(t *testing.T) {
	for name, input := range map[string]any{
		"not an object": "just a string",
		"array":         []any{1, 2, 3},
		"nil":           nil,
		"no markers":    map[string]any{"foo": "bar"},
		"bad version":   map[string]any{"version": "four"},
	} {
		t.Run(name, func(t *testing.T) {
			doc, err := Migrate(input)
			assert.Nil(t, doc)
			assert.True(t, errors.Is(err, errors.ErrUnrecoverableFormat))
		})
	}
}

func TestMigrate_EmptySettlementsIsFreshState(t *testing.T) {
	doc, err := Migrate(parse(t, `{"version": 4, "settlements": []}`))
	require.NoError(t, err)
	assert.Empty(t, doc.Settlements)
	assert.Equal(t, schema.CurrentVersion, doc.Version)
}

func TestMigrate_DuplicateIDsFallBack(t *testing.T) {
	raw := `{"version": 4, "settlements": [{"id": "dup"}, {"id": "dup"}]}`
	doc, err := Migrate(parse(t, raw))
	assert.True(t, errors.Is(err, errors.ErrValidationFailed))
	require.NotNil(t, doc)
	assert.Empty(t, doc.Settlements)
}

func TestMigrate_FutureFieldsSurviveDefaults(t *testing.T) {
	// A partially filled survivor keeps its data while absent fields
	// pick up registry defaults.
	raw := `{"version": 4, "settlements": [{
		"id": "s-1", "name": "Sparse",
		"reserve": [{"id": "sv-1", "name": "Pia", "strength": 3}]
	}], "activeSettlementId": "s-1"}`
	doc, err := Migrate(parse(t, raw))
	require.NoError(t, err)

	sv := doc.Settlements[0].Reserve[0]
	assert.Equal(t, 3, sv.Strength)
	assert.Equal(t, 5, sv.Movement)
	assert.Len(t, sv.HuntXP, schema.HuntXPLength)
	assert.Len(t, sv.Milestones, schema.MilestonesLength)
	assert.Empty(t, sv.Disorders)
}
