// Package models defines the core data structures for the tracked
// campaign state: the persisted Document, its Settlements, and the
// Survivors they own.
package models

// PartySize is the number of departing-survivor slots in a settlement.
const PartySize = 4

// Document is the single root object persisted to both local and remote
// storage. It holds every settlement for one account or device.
type Document struct {
	// Version is the schema version the document conforms to.
	// Pre-versioning documents lack this field entirely.
	Version int `json:"version"`
	// Settlements is the ordered set of settlements, unique by ID.
	Settlements []Settlement `json:"settlements"`
	// ActiveSettlementID references the settlement currently open in
	// the tracker. Empty means none selected; if set it must resolve.
	ActiveSettlementID string `json:"activeSettlementId,omitempty"`
}

// Settlement is a named container of survivors: four departing-party
// slots plus three unordered pools. A survivor in a party slot is never
// simultaneously in a pool.
type Settlement struct {
	// ID is assigned at creation and never reused.
	ID   string `json:"id"`
	Name string `json:"name"`
	// Party holds the departing survivors. Slots may be empty.
	Party [PartySize]*Survivor `json:"party"`
	// Reserve holds living survivors staying behind this hunt.
	Reserve []Survivor `json:"reserve"`
	// Retired holds survivors withdrawn from play but kept on the sheet.
	Retired []Survivor `json:"retired"`
	// Removed holds dead or struck-off survivors.
	Removed []Survivor `json:"removed"`
}

// Survivor is one fully-detailed character sheet. After migration every
// field is present, carrying either user data or the schema default.
type Survivor struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Gender   string `json:"gender"`
	Survival int    `json:"survival"`
	Insanity int    `json:"insanity"`

	Movement int `json:"movement"`
	Accuracy int `json:"accuracy"`
	Strength int `json:"strength"`
	Evasion  int `json:"evasion"`
	Luck     int `json:"luck"`
	Speed    int `json:"speed"`

	Courage       int `json:"courage"`
	Understanding int `json:"understanding"`

	// HuntXP and Milestones are fixed-length box tracks; their lengths
	// are declared by the schema registry.
	HuntXP     []bool `json:"huntXP"`
	Milestones []bool `json:"milestones"`

	WeaponProficiencies []string `json:"weaponProficiencies"`
	FightingArts        []string `json:"fightingArts"`
	Disorders           []string `json:"disorders"`
	Notes               string   `json:"notes"`
}

// Survivors returns every survivor owned by the settlement, party slots
// first, then the pools.
func (s *Settlement) Survivors() []Survivor {
	out := make([]Survivor, 0, PartySize+len(s.Reserve)+len(s.Retired)+len(s.Removed))
	for _, p := range s.Party {
		if p != nil {
			out = append(out, *p)
		}
	}
	out = append(out, s.Reserve...)
	out = append(out, s.Retired...)
	out = append(out, s.Removed...)
	return out
}

// FindSettlement returns the settlement with the given ID, or nil.
func (d *Document) FindSettlement(id string) *Settlement {
	for i := range d.Settlements {
		if d.Settlements[i].ID == id {
			return &d.Settlements[i]
		}
	}
	return nil
}

// Clone returns a deep copy of the document. Flush cycles snapshot
// through Clone so an in-flight write never observes later mutations.
func (d *Document) Clone() *Document {
	out := &Document{
		Version:            d.Version,
		ActiveSettlementID: d.ActiveSettlementID,
		Settlements:        make([]Settlement, len(d.Settlements)),
	}
	for i := range d.Settlements {
		out.Settlements[i] = d.Settlements[i].Clone()
	}
	return out
}

// Clone returns a deep copy of the settlement.
func (s Settlement) Clone() Settlement {
	out := s
	for i, p := range s.Party {
		if p != nil {
			c := p.Clone()
			out.Party[i] = &c
		}
	}
	out.Reserve = cloneSurvivors(s.Reserve)
	out.Retired = cloneSurvivors(s.Retired)
	out.Removed = cloneSurvivors(s.Removed)
	return out
}

// Clone returns a deep copy of the survivor.
func (sv Survivor) Clone() Survivor {
	out := sv
	out.HuntXP = append([]bool(nil), sv.HuntXP...)
	out.Milestones = append([]bool(nil), sv.Milestones...)
	out.WeaponProficiencies = append([]string(nil), sv.WeaponProficiencies...)
	out.FightingArts = append([]string(nil), sv.FightingArts...)
	out.Disorders = append([]string(nil), sv.Disorders...)
	return out
}

func cloneSurvivors(in []Survivor) []Survivor {
	if in == nil {
		return nil
	}
	out := make([]Survivor, len(in))
	for i := range in {
		out[i] = in[i].Clone()
	}
	return out
}
