package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Jawad18750/halaqa/internal/auth"
	"github.com/Jawad18750/halaqa/internal/student"
)

// GET /students
func ListStudentsHandler(store student.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := auth.SubjectFromContext(r.Context())
		list, err := store.List(r.Context(), owner)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"students": list})
	}
}

type createStudentReq struct {
	Number      int     `json:"number"`
	Name        string  `json:"name"`
	Notes       string  `json:"notes"`
	DateOfBirth *string `json:"date_of_birth"`
	PhotoURL    *string `json:"photo_url"`
}

// POST /students
func CreateStudentHandler(store student.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := auth.SubjectFromContext(r.Context())
		var req createStudentReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad json"})
			return
		}
		if err := student.Validate(req.Number, req.Name); err != nil {
			writeErr(w, err)
			return
		}
		st, err := store.Create(r.Context(), owner, student.Student{
			Number:      req.Number,
			Name:        req.Name,
			Notes:       req.Notes,
			DateOfBirth: req.DateOfBirth,
			PhotoURL:    req.PhotoURL,
		})
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"student": st})
	}
}

// PATCH /students/{studentID} — partial update; current_naqza here is
// the manual instructor override of the progression position.
func UpdateStudentHandler(store student.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := auth.SubjectFromContext(r.Context())
		id := chi.URLParam(r, "studentID")
		var in student.UpdateInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "bad json"})
			return
		}
		if (in.Number != nil && (*in.Number < 1 || *in.Number > 30)) ||
			(in.Name != nil && *in.Name == "") ||
			(in.CurrentNaqza != nil && (*in.CurrentNaqza < 1 || *in.CurrentNaqza > 20)) {
			writeErr(w, student.ErrInvalid)
			return
		}
		st, err := store.Update(r.Context(), owner, id, in)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"student": st})
	}
}

// DELETE /students/{studentID} — cascades to the student's sessions.
func DeleteStudentHandler(store student.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := auth.SubjectFromContext(r.Context())
		if err := store.Delete(r.Context(), owner, chi.URLParam(r, "studentID")); err != nil {
			writeErr(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
