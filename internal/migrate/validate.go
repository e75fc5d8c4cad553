package migrate

import (
	"github.com/avdeyev/SettlementKeeper/internal/models"
	"github.com/avdeyev/SettlementKeeper/internal/schema"
)

// Validate reports whether a migrated document satisfies the structural
// invariants: the version matches the current schema version exactly,
// the settlement set is non-empty with unique non-empty IDs, and the
// active settlement reference, if set, resolves to exactly one
// settlement. It is a pure predicate; repair is the migration engine's
// job.
func Validate(doc *models.Document) bool {
	if doc == nil || doc.Version != schema.CurrentVersion {
		return false
	}
	if len(doc.Settlements) == 0 {
		return false
	}
	seen := make(map[string]bool, len(doc.Settlements))
	for i := range doc.Settlements {
		id := doc.Settlements[i].ID
		if id == "" || seen[id] {
			return false
		}
		seen[id] = true
	}
	if doc.ActiveSettlementID != "" && !seen[doc.ActiveSettlementID] {
		return false
	}
	return true
}
