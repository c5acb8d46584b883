package http

import (
	"errors"
	"net/http"

	"github.com/Jawad18750/halaqa/internal/session"
	"github.com/Jawad18750/halaqa/internal/student"
)

// writeErr maps domain failure kinds to status codes. Every failure
// carries a machine-readable body; nothing is swallowed into a 200.
func writeErr(w http.ResponseWriter, err error) {
	var code int
	switch {
	case errors.Is(err, session.ErrMalformed),
		errors.Is(err, session.ErrInvalidMode),
		errors.Is(err, session.ErrInvalidUnit),
		errors.Is(err, student.ErrInvalid):
		code = http.StatusBadRequest
	case errors.Is(err, session.ErrNotFound),
		errors.Is(err, student.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, session.ErrWindow):
		code = http.StatusUnprocessableEntity
	case errors.Is(err, student.ErrNumberTaken):
		code = http.StatusConflict
	case errors.Is(err, session.ErrStoreTimeout):
		code = http.StatusGatewayTimeout
	case errors.Is(err, session.ErrProgression):
		code = http.StatusBadGateway
	default:
		code = http.StatusInternalServerError
	}
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
