// Package migrate upgrades arbitrarily old persisted documents to the
// current schema. Format detection picks the starting version, a chain
// of per-version transforms rewrites the raw document, field completion
// fills every survivor field from the schema registry, and validation
// confirms the result before it is trusted.
package migrate

import (
	"encoding/json"

	"github.com/avdeyev/SettlementKeeper/internal/errors"
	"github.com/avdeyev/SettlementKeeper/internal/models"
	"github.com/avdeyev/SettlementKeeper/internal/schema"
)

// legacySlotKeys mark the pre-versioning single-settlement format: a
// bare records-by-slot object with no version and no settlements array.
var legacySlotKeys = []string{"slot1", "slot2", "slot3", "slot4"}

// Migrate rewrites input, a parsed JSON value of any age or shape, into
// a document at the current schema version.
//
// For unsalvageable input (not an object, or missing every recognizable
// marker field) it returns a nil document and an UNRECOVERABLE_FORMAT
// error; the caller substitutes schema.DefaultDocument. For any other
// input it returns a usable document: if the migrated result fails
// validation the default document is returned alongside a
// VALIDATION_FAILED error, and a migrated-but-empty settlement set is
// the fresh new-user state, returned as the default document with no
// error.
func Migrate(input any) (*models.Document, error) {
	m, ok := input.(map[string]any)
	if !ok {
		return nil, errors.NewUnrecoverableFormat("persisted value is not an object")
	}

	from, err := detectVersion(m)
	if err != nil {
		return nil, err
	}

	// Every transform between the detected version and the current one
	// runs, in order, even when it looks like a no-op for this input.
	for v := from; v < schema.CurrentVersion && v < len(transforms); v++ {
		m = transforms[v](m)
	}
	m["version"] = schema.CurrentVersion

	completeDocument(m)

	doc, derr := decode(m)
	if derr != nil {
		return schema.DefaultDocument(), errors.NewValidationFailed(derr.Error())
	}
	if len(doc.Settlements) == 0 {
		// Fresh or fully cleared state, not a failure.
		return schema.DefaultDocument(), nil
	}
	if !Validate(doc) {
		return schema.DefaultDocument(), errors.NewValidationFailed("migrated document failed validation")
	}
	return doc, nil
}

// detectVersion inspects marker fields in priority order: an explicit
// version field, then a settlements array (implicit version 1), then
// the legacy records-by-slot shape (version 0).
func detectVersion(m map[string]any) (int, error) {
	if v, ok := m["version"]; ok {
		switch n := v.(type) {
		case float64:
			return int(n), nil
		case int:
			return n, nil
		default:
			return 0, errors.NewUnrecoverableFormat("version field is not a number")
		}
	}
	if _, ok := m["settlements"]; ok {
		return 1, nil
	}
	for _, k := range legacySlotKeys {
		if _, ok := m[k]; ok {
			return 0, nil
		}
	}
	return 0, errors.NewUnrecoverableFormat("no recognizable marker field")
}

// decode round-trips the completed raw document into the typed model.
func decode(m map[string]any) (*models.Document, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	var doc models.Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
