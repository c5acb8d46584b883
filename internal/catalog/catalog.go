package catalog

import (
	"encoding/json"
	"fmt"
	"os"
)

// Unit is one thumun of the catalog. Juz and Naqza come from the
// catalog file; FiveBlock/Quarter/Half are derived from the id and
// never stored.
type Unit struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	SurahNumber int    `json:"surahNumber"`
	SurahName   string `json:"surahName,omitempty"`
	Hizb        int    `json:"hizb"`
	Juz         int    `json:"juz"`
	Naqza       int    `json:"naqza"`
}

// Derived groupings. The catalog is a dense 1..480 sequence: 40 thumuns
// per 5-hizb block, 120 per quarter, 240 per half.
func FiveBlockOf(id int) int { return (id-1)/40 + 1 }
func QuarterOf(id int) int   { return (id-1)/120 + 1 }
func HalfOf(id int) int      { return (id-1)/240 + 1 }

func (u Unit) FiveBlock() int { return FiveBlockOf(u.ID) }
func (u Unit) Quarter() int   { return QuarterOf(u.ID) }
func (u Unit) Half() int      { return HalfOf(u.ID) }

// Index is the read-only in-memory catalog, loaded once at startup.
type Index struct {
	units []Unit
	byID  map[int]Unit
}

type catalogFile struct {
	Metadata json.RawMessage `json:"metadata"`
	Thumuns  []Unit          `json:"thumuns"`
}

// Load reads the catalog JSON from path. An unreadable or empty catalog
// is a configuration error; callers are expected to treat it as fatal.
func Load(path string) (*Index, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var f catalogFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return New(f.Thumuns)
}

// New builds an Index from an ordered unit list.
func New(units []Unit) (*Index, error) {
	if len(units) == 0 {
		return nil, fmt.Errorf("catalog is empty")
	}
	byID := make(map[int]Unit, len(units))
	for _, u := range units {
		if u.ID <= 0 {
			return nil, fmt.Errorf("catalog unit with invalid id %d", u.ID)
		}
		if _, dup := byID[u.ID]; dup {
			return nil, fmt.Errorf("catalog unit %d duplicated", u.ID)
		}
		byID[u.ID] = u
	}
	return &Index{units: units, byID: byID}, nil
}

func (ix *Index) Len() int { return len(ix.units) }

// Units returns the full ordered list.
func (ix *Index) Units() []Unit { return ix.units }

// ByID looks a unit up; ok is false when the id is not in the catalog.
func (ix *Index) ByID(id int) (Unit, bool) {
	u, ok := ix.byID[id]
	return u, ok
}
