package http

import (
	"net/http"
	"time"

	"github.com/Jawad18750/halaqa/internal/auth"
	"github.com/Jawad18750/halaqa/internal/session"
)

const topStudents = 5

// GET /sessions/weekly — the current Saturday-anchored week.
func WeeklyReportHandler(svc *session.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := auth.SubjectFromContext(r.Context())
		weekStart, rows, err := svc.Weekly(r.Context(), owner)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"weekStartDate": weekStart,
			"sessions":      rows,
			"stats":         session.Summarize(rows, topStudents),
		})
	}
}

// GET /sessions/overview?from=2026-01-03&to=2026-01-10 — arbitrary
// range, defaulting to the trailing 7 days.
func OverviewReportHandler(svc *session.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := auth.SubjectFromContext(r.Context())
		from, ok := parseDateParam(r, "from")
		if !ok {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid from date"})
			return
		}
		to, ok := parseDateParam(r, "to")
		if !ok {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid to date"})
			return
		}
		fromDate, toDate, rows, err := svc.Range(r.Context(), owner, from, to)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"from":     fromDate,
			"to":       toDate,
			"sessions": rows,
			"stats":    session.Summarize(rows, topStudents),
		})
	}
}

func parseDateParam(r *http.Request, key string) (*time.Time, bool) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil, true
	}
	t, err := time.ParseInLocation("2006-01-02", v, time.Local)
	if err != nil {
		return nil, false
	}
	return &t, true
}
