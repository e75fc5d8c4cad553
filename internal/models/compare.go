package models

import "sort"

// SettlementSetsEquivalent reports whether two settlement sets carry the
// same content. The comparison is order-insensitive: settlement order
// and the internal order of pooled survivors do not count as
// divergence, so a device that merely reordered a pool is not prompted
// to arbitrate a conflict.
func SettlementSetsEquivalent(a, b []Settlement) bool {
	if len(a) != len(b) {
		return false
	}
	byID := make(map[string]*Settlement, len(b))
	for i := range b {
		byID[b[i].ID] = &b[i]
	}
	for i := range a {
		other, ok := byID[a[i].ID]
		if !ok || !settlementsEquivalent(&a[i], other) {
			return false
		}
	}
	return true
}

func settlementsEquivalent(a, b *Settlement) bool {
	if a.ID != b.ID || a.Name != b.Name {
		return false
	}
	for i := range a.Party {
		ap, bp := a.Party[i], b.Party[i]
		if (ap == nil) != (bp == nil) {
			return false
		}
		if ap != nil && !survivorsEqual(*ap, *bp) {
			return false
		}
	}
	return poolsEquivalent(a.Reserve, b.Reserve) &&
		poolsEquivalent(a.Retired, b.Retired) &&
		poolsEquivalent(a.Removed, b.Removed)
}

// poolsEquivalent compares two pools as unordered multisets keyed by
// survivor ID.
func poolsEquivalent(a, b []Survivor) bool {
	if len(a) != len(b) {
		return false
	}
	as := sortedByID(a)
	bs := sortedByID(b)
	for i := range as {
		if !survivorsEqual(as[i], bs[i]) {
			return false
		}
	}
	return true
}

func sortedByID(in []Survivor) []Survivor {
	out := append([]Survivor(nil), in...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func survivorsEqual(a, b Survivor) bool {
	if a.ID != b.ID || a.Name != b.Name || a.Gender != b.Gender ||
		a.Survival != b.Survival || a.Insanity != b.Insanity ||
		a.Movement != b.Movement || a.Accuracy != b.Accuracy ||
		a.Strength != b.Strength || a.Evasion != b.Evasion ||
		a.Luck != b.Luck || a.Speed != b.Speed ||
		a.Courage != b.Courage || a.Understanding != b.Understanding ||
		a.Notes != b.Notes {
		return false
	}
	return boolsEqual(a.HuntXP, b.HuntXP) &&
		boolsEqual(a.Milestones, b.Milestones) &&
		stringsEqual(a.WeaponProficiencies, b.WeaponProficiencies) &&
		stringsEqual(a.FightingArts, b.FightingArts) &&
		stringsEqual(a.Disorders, b.Disorders)
}

func boolsEqual(a, b []bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func stringsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
