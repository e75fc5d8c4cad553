package migrate

import (
	"github.com/google/uuid"

	"github.com/avdeyev/SettlementKeeper/internal/models"
	"github.com/avdeyev/SettlementKeeper/internal/schema"
)

// completeDocument runs the field-completion step over the raw
// document after the version chain: every settlement gets its id, name,
// party slots and pools, and every survivor gets every field the
// registry declares, with persisted values kept and absent or
// wrong-typed values replaced by registry defaults. Running it twice
// yields the same result as running it once.
func completeDocument(m map[string]any) {
	list, _ := m["settlements"].([]any)
	if list == nil {
		list = []any{}
	}
	kept := make([]any, 0, len(list))
	for _, v := range list {
		s, ok := v.(map[string]any)
		if !ok {
			continue
		}
		completeSettlement(s)
		kept = append(kept, s)
	}
	m["settlements"] = kept

	if _, ok := m["activeSettlementId"].(string); !ok {
		delete(m, "activeSettlementId")
	}
}

func completeSettlement(s map[string]any) {
	if id, ok := s["id"].(string); !ok || id == "" {
		s["id"] = uuid.NewString()
	}
	if _, ok := s["name"].(string); !ok {
		s["name"] = ""
	}

	// Party is exactly PartySize nullable slots.
	party, _ := s["party"].([]any)
	slots := make([]any, models.PartySize)
	for i := 0; i < models.PartySize && i < len(party); i++ {
		if sv, ok := party[i].(map[string]any); ok {
			completeSurvivor(sv)
			slots[i] = sv
		}
	}
	s["party"] = slots

	for _, pool := range []string{"reserve", "retired", "removed"} {
		list, _ := s[pool].([]any)
		kept := make([]any, 0, len(list))
		for _, v := range list {
			if sv, ok := v.(map[string]any); ok {
				completeSurvivor(sv)
				kept = append(kept, sv)
			}
		}
		s[pool] = kept
	}
}

// completeSurvivor inserts the registry default for every declared
// field absent from the record and normalizes each present value to the
// declared shape. Fixed-length tracks are resized to the registry
// length: existing entries keep their positions, missing positions are
// padded with the default, excess entries are truncated.
func completeSurvivor(sv map[string]any) {
	for k, def := range schema.SurvivorDefaults() {
		cur, present := sv[k]
		if !present {
			sv[k] = def
			continue
		}
		switch def.(type) {
		case string:
			if _, ok := cur.(string); !ok {
				sv[k] = def
			}
		case int:
			sv[k] = toInt(cur, def.(int))
		case []any:
			// Track and list defaults share the []any shape; tracks are
			// resized below.
			if _, ok := cur.([]any); !ok {
				sv[k] = def
			}
		}
	}

	for track, n := range schema.TrackLengths {
		sv[track] = resizeTrack(sv[track], n)
	}
	sv["weaponProficiencies"] = stringList(sv["weaponProficiencies"])
	sv["fightingArts"] = stringList(sv["fightingArts"])
	sv["disorders"] = stringList(sv["disorders"])

	if id, ok := sv["id"].(string); !ok || id == "" {
		sv["id"] = uuid.NewString()
	}
}

// resizeTrack pads or truncates a box track to length n. Existing
// entries are never reordered; appended entries default to false.
func resizeTrack(v any, n int) []any {
	cur, _ := v.([]any)
	out := make([]any, n)
	for i := range out {
		if i < len(cur) {
			if b, ok := cur[i].(bool); ok {
				out[i] = b
				continue
			}
		}
		out[i] = false
	}
	return out
}

func stringList(v any) []any {
	cur, _ := v.([]any)
	out := make([]any, 0, len(cur))
	for _, e := range cur {
		if s, ok := e.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func toInt(v any, def int) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	default:
		return def
	}
}
