package models

import "testing"

func survivor(id, name string) Survivor {
	return Survivor{
		ID:         id,
		Name:       name,
		HuntXP:     make([]bool, 16),
		Milestones: make([]bool, 4),
	}
}

func settlement(id string, reserve ...Survivor) Settlement {
	return Settlement{ID: id, Name: "S " + id, Reserve: reserve}
}

func TestSettlementSetsEquivalent(t *testing.T) {
	a := survivor("a", "Allister")
	b := survivor("b", "Beatrix")

	tests := []struct {
		name string
		x, y []Settlement
		want bool
	}{
		{
			"both empty",
			[]Settlement{}, []Settlement{},
			true,
		},
		{
			"identical",
			[]Settlement{settlement("s1", a, b)},
			[]Settlement{settlement("s1", a, b)},
			true,
		},
		{
			"settlement order ignored",
			[]Settlement{settlement("s1"), settlement("s2")},
			[]Settlement{settlement("s2"), settlement("s1")},
			true,
		},
		{
			"pool order ignored",
			[]Settlement{settlement("s1", a, b)},
			[]Settlement{settlement("s1", b, a)},
			true,
		},
		{
			"different count",
			[]Settlement{settlement("s1")},
			[]Settlement{settlement("s1"), settlement("s2")},
			false,
		},
		{
			"different ids",
			[]Settlement{settlement("s1")},
			[]Settlement{settlement("s2")},
			false,
		},
		{
			"renamed survivor",
			[]Settlement{settlement("s1", a)},
			[]Settlement{settlement("s1", survivor("a", "Renamed"))},
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SettlementSetsEquivalent(tt.x, tt.y); got != tt.want {
				t.Errorf("SettlementSetsEquivalent() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSettlementSetsEquivalentPartySlots(t *testing.T) {
	occupant := survivor("a", "Allister")

	x := settlement("s1")
	x.Party[0] = &occupant
	y := settlement("s1")
	y.Party[1] = &occupant

	if SettlementSetsEquivalent([]Settlement{x}, []Settlement{y}) {
		t.Error("party slot position should count as divergence")
	}
}

func TestSettlementSetsEquivalentTrackChange(t *testing.T) {
	a := survivor("a", "Allister")
	changed := a.Clone()
	changed.HuntXP[0] = true

	same := SettlementSetsEquivalent(
		[]Settlement{settlement("s1", a)},
		[]Settlement{settlement("s1", changed)},
	)
	if same {
		t.Error("ticked hunt XP box should count as divergence")
	}
}

func TestDocumentCloneIsDeep(t *testing.T) {
	occupant := survivor("a", "Allister")
	s := settlement("s1", survivor("b", "Beatrix"))
	s.Party[0] = &occupant
	doc := &Document{Version: 4, Settlements: []Settlement{s}, ActiveSettlementID: "s1"}

	clone := doc.Clone()
	clone.Settlements[0].Party[0].Name = "Mutated"
	clone.Settlements[0].Reserve[0].HuntXP[0] = true

	if doc.Settlements[0].Party[0].Name != "Allister" {
		t.Error("clone shares party slot pointer with original")
	}
	if doc.Settlements[0].Reserve[0].HuntXP[0] {
		t.Error("clone shares track slice with original")
	}
}
