package catalog

import "math/rand"

// Grouping names accepted by Filter.By.
const (
	ByNaqza     = "naqza"
	ByJuz       = "juz"
	ByFiveBlock = "five_block"
	ByQuarter   = "quarter"
	ByHalf      = "half"
	ByWhole     = "whole"
)

// Filter selects the eligible subset for a draw. Value is ignored for
// ByWhole.
type Filter struct {
	By    string
	Value int
}

// Eligible returns the ordered units matching f. No match is an empty
// slice, never an error; an unknown grouping matches nothing.
func (ix *Index) Eligible(f Filter) []Unit {
	out := []Unit{}
	for _, u := range ix.units {
		var match bool
		switch f.By {
		case ByNaqza:
			match = u.Naqza == f.Value
		case ByJuz:
			match = u.Juz == f.Value
		case ByFiveBlock:
			match = u.FiveBlock() == f.Value
		case ByQuarter:
			match = u.Quarter() == f.Value
		case ByHalf:
			match = u.Half() == f.Value
		case ByWhole:
			match = true
		}
		if match {
			out = append(out, u)
		}
	}
	return out
}

// DrawRandom picks a unit uniformly from eligible. When previousID is
// present in the pool and excluding it leaves something to draw from,
// it is excluded; a pool of one falls back to the full set. Returns nil
// only when eligible is empty.
func DrawRandom(eligible []Unit, previousID int, rng *rand.Rand) *Unit {
	if len(eligible) == 0 {
		return nil
	}
	pool := eligible
	if previousID > 0 {
		trimmed := make([]Unit, 0, len(eligible))
		for _, u := range eligible {
			if u.ID != previousID {
				trimmed = append(trimmed, u)
			}
		}
		if len(trimmed) > 0 {
			pool = trimmed
		}
	}
	u := pool[rng.Intn(len(pool))]
	return &u
}
