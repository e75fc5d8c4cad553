// Package schema is the registry describing the current shape of a
// persisted document: the schema version, the default value for every
// survivor field, and the declared lengths of the fixed box tracks.
// It holds no logic beyond constructors; the migration engine consumes
// it to complete partial records.
package schema

import (
	"github.com/google/uuid"

	"github.com/avdeyev/SettlementKeeper/internal/models"
)

// CurrentVersion is the schema version written by this build. New
// versions are added by appending a transform in the migrate package,
// never by editing existing ones.
const CurrentVersion = 4

// Track lengths at CurrentVersion. HuntXP grew from 15 to 16 boxes at
// version 3.
const (
	HuntXPLength     = 16
	MilestonesLength = 4
)

// TrackLengths maps each fixed-length survivor track to its declared
// length. Field completion resizes persisted tracks to these lengths,
// padding with false and truncating excess.
var TrackLengths = map[string]int{
	"huntXP":     HuntXPLength,
	"milestones": MilestonesLength,
}

// SurvivorDefaults returns the default value for every survivor field.
// Field completion inserts these for any field absent from a persisted
// record. The map is freshly allocated on each call so callers may
// mutate it.
func SurvivorDefaults() map[string]any {
	return map[string]any{
		"id":                  "",
		"name":                "",
		"gender":              "",
		"survival":            0,
		"insanity":            0,
		"movement":            5,
		"accuracy":            0,
		"strength":            0,
		"evasion":             0,
		"luck":                0,
		"speed":               0,
		"courage":             0,
		"understanding":       0,
		"huntXP":              make([]any, HuntXPLength),
		"milestones":          make([]any, MilestonesLength),
		"weaponProficiencies": []any{},
		"fightingArts":        []any{},
		"disorders":           []any{},
		"notes":               "",
	}
}

// NewSurvivor returns a blank survivor sheet with every field at its
// registry default.
func NewSurvivor(name string) models.Survivor {
	return models.Survivor{
		ID:                  uuid.NewString(),
		Name:                name,
		Movement:            5,
		HuntXP:              make([]bool, HuntXPLength),
		Milestones:          make([]bool, MilestonesLength),
		WeaponProficiencies: []string{},
		FightingArts:        []string{},
		Disorders:           []string{},
	}
}

// NewSettlement returns an empty settlement with a freshly assigned ID.
func NewSettlement(name string) models.Settlement {
	return models.Settlement{
		ID:      uuid.NewString(),
		Name:    name,
		Reserve: []models.Survivor{},
		Retired: []models.Survivor{},
		Removed: []models.Survivor{},
	}
}

// DefaultDocument returns the fresh new-user state: the current schema
// version and no settlements yet. This is the fallback substituted
// whenever persisted input cannot be salvaged, and the state a new
// device starts from before adopting the remote copy.
func DefaultDocument() *models.Document {
	return &models.Document{
		Version:     CurrentVersion,
		Settlements: []models.Settlement{},
	}
}
