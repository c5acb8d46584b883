package http

import (
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/Jawad18750/halaqa/internal/catalog"
)

// GET /catalog — the full ordered unit list for the front end.
func CatalogHandler(ix *catalog.Index) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"thumuns": ix.Units()})
	}
}

var (
	drawMu  sync.Mutex
	drawRNG = rand.New(rand.NewSource(time.Now().UnixNano()))
)

type drawnUnit struct {
	catalog.Unit
	FiveBlock int `json:"fiveBlock"`
	Quarter   int `json:"quarter"`
	Half      int `json:"half"`
}

// GET /catalog/draw?by=naqza&value=7&prev=123 — server-side random
// draw over the eligible pool, avoiding the previous unit when the
// pool allows it.
func DrawHandler(ix *catalog.Index) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		f := catalog.Filter{By: q.Get("by"), Value: parseIntDefault(q.Get("value"), 0)}
		prev := parseIntDefault(q.Get("prev"), 0)

		eligible := ix.Eligible(f)
		drawMu.Lock()
		u := catalog.DrawRandom(eligible, prev, drawRNG)
		drawMu.Unlock()
		if u == nil {
			writeJSON(w, http.StatusOK, map[string]any{"thumun": nil, "eligible": 0})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"thumun":   drawnUnit{Unit: *u, FiveBlock: u.FiveBlock(), Quarter: u.Quarter(), Half: u.Half()},
			"eligible": len(eligible),
		})
	}
}
