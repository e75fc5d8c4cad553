package migrate

import (
	"github.com/google/uuid"
)

// transforms[n] upgrades a raw document from version n to n+1. New
// schema versions are supported by appending here; existing entries are
// never edited, so old documents replay the same chain they always did.
var transforms = []func(map[string]any) map[string]any{
	v1FromLegacy,
	v2RenameHuntXP,
	v3PromoteProficiency,
	v4RenameRemovedPool,
}

// v1FromLegacy wraps the pre-versioning single-settlement shape (bare
// survivor-by-slot object) into the multi-settlement document of
// version 1.
func v1FromLegacy(m map[string]any) map[string]any {
	party := make([]any, 0, len(legacySlotKeys))
	for _, k := range legacySlotKeys {
		if v, ok := m[k]; ok {
			party = append(party, v)
		} else {
			party = append(party, nil)
		}
	}

	name := "My Settlement"
	if n, ok := m["name"].(string); ok && n != "" {
		name = n
	}
	reserve, _ := m["pool"].([]any)
	if reserve == nil {
		reserve = []any{}
	}

	id := uuid.NewString()
	settlement := map[string]any{
		"id":      id,
		"name":    name,
		"party":   party,
		"reserve": reserve,
		"retired": []any{},
		// Renamed to "removed" at version 3→4.
		"dead": []any{},
	}
	return map[string]any{
		"settlements":        []any{settlement},
		"activeSettlementId": id,
	}
}

// v2RenameHuntXP renames the survivor field "xp" to "huntXP". The old
// key is deleted and its value moves unchanged.
func v2RenameHuntXP(m map[string]any) map[string]any {
	eachSurvivor(m, func(s map[string]any) {
		renameKey(s, "xp", "huntXP")
	})
	return m
}

// v3PromoteProficiency promotes the scalar survivor field
// "weaponProficiency" to the single-element list
// "weaponProficiencies". The hunt XP track also grew from 15 to 16
// boxes at this version; field completion pads it from the registry's
// declared length.
func v3PromoteProficiency(m map[string]any) map[string]any {
	eachSurvivor(m, func(s map[string]any) {
		v, ok := s["weaponProficiency"]
		if !ok {
			return
		}
		delete(s, "weaponProficiency")
		if _, exists := s["weaponProficiencies"]; exists {
			return
		}
		if v == nil {
			s["weaponProficiencies"] = []any{}
		} else {
			s["weaponProficiencies"] = []any{v}
		}
	})
	return m
}

// v4RenameRemovedPool renames the settlement pool "dead" to "removed".
func v4RenameRemovedPool(m map[string]any) map[string]any {
	eachSettlement(m, func(s map[string]any) {
		renameKey(s, "dead", "removed")
	})
	return m
}

// renameKey moves old's value to new, deleting old. When old is absent
// nothing happens; the value is never transformed.
func renameKey(m map[string]any, oldKey, newKey string) {
	v, ok := m[oldKey]
	if !ok {
		return
	}
	delete(m, oldKey)
	m[newKey] = v
}

// eachSettlement applies fn to every settlement object in the raw
// document.
func eachSettlement(m map[string]any, fn func(map[string]any)) {
	list, _ := m["settlements"].([]any)
	for _, v := range list {
		if s, ok := v.(map[string]any); ok {
			fn(s)
		}
	}
}

// eachSurvivor applies fn to every survivor object in every settlement,
// party slots and all pools, under both pre- and post-rename pool keys.
func eachSurvivor(m map[string]any, fn func(map[string]any)) {
	eachSettlement(m, func(s map[string]any) {
		if party, ok := s["party"].([]any); ok {
			for _, v := range party {
				if sv, ok := v.(map[string]any); ok {
					fn(sv)
				}
			}
		}
		for _, pool := range []string{"reserve", "retired", "dead", "removed"} {
			list, _ := s[pool].([]any)
			for _, v := range list {
				if sv, ok := v.(map[string]any); ok {
					fn(sv)
				}
			}
		}
	})
}
