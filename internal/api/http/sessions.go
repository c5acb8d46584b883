package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Jawad18750/halaqa/internal/auth"
	"github.com/Jawad18750/halaqa/internal/session"
)

type createSessionReq struct {
	StudentID         string `json:"studentId"`
	Mode              string `json:"mode"`
	SelectedNaqza     *int   `json:"selectedNaqza"`
	SelectedJuz       *int   `json:"selectedJuz"`
	SelectedFiveBlock *int   `json:"selectedFiveBlock"`
	SelectedQuarter   *int   `json:"selectedQuarter"`
	SelectedHalf      *int   `json:"selectedHalf"`
	ThumunID          int    `json:"thumunId"`
	FathaPrompts      int    `json:"fathaPrompts"`
	TaradudCount      int    `json:"taradudCount"`
}

func (r createSessionReq) filterValue() *int {
	switch r.Mode {
	case session.ModeNaqza:
		return r.SelectedNaqza
	case session.ModeJuz:
		return r.SelectedJuz
	case session.ModeFiveBlock:
		return r.SelectedFiveBlock
	case session.ModeQuarter:
		return r.SelectedQuarter
	case session.ModeHalf:
		return r.SelectedHalf
	}
	return nil
}

// POST /sessions
func CreateSessionHandler(svc *session.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := auth.SubjectFromContext(r.Context())
		var req createSessionReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad json"})
			return
		}
		sess, err := svc.Create(r.Context(), owner, session.CreateInput{
			StudentID:    req.StudentID,
			Mode:         req.Mode,
			FilterValue:  req.filterValue(),
			ThumunID:     req.ThumunID,
			FathaPrompts: req.FathaPrompts,
			TaradudCount: req.TaradudCount,
		})
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"session": sess})
	}
}

// GET /sessions/student/{studentID}
func ListStudentSessionsHandler(svc *session.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := auth.SubjectFromContext(r.Context())
		list, err := svc.ListForStudent(r.Context(), owner, chi.URLParam(r, "studentID"))
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"sessions": list})
	}
}

type updateTimeReq struct {
	AttemptAt string `json:"attemptAt"` // RFC 3339
}

// PATCH /sessions/{sessionID}/time
func UpdateSessionTimeHandler(svc *session.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := auth.SubjectFromContext(r.Context())
		var req updateTimeReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad json"})
			return
		}
		at, err := time.Parse(time.RFC3339, req.AttemptAt)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid attemptAt timestamp"})
			return
		}
		sess, err := svc.UpdateAttemptTime(r.Context(), owner, chi.URLParam(r, "sessionID"), at)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"session": sess})
	}
}

// DELETE /sessions/{sessionID} — does not reverse progression.
func DeleteSessionHandler(svc *session.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := auth.SubjectFromContext(r.Context())
		if err := svc.Delete(r.Context(), owner, chi.URLParam(r, "sessionID")); err != nil {
			writeErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
