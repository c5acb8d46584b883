package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Jawad18750/halaqa/internal/catalog"
	"github.com/Jawad18750/halaqa/internal/student"
)

// Retroactive attempt-time edits are bounded both ways.
const editWindow = 30 * 24 * time.Hour

type Service struct {
	store    Store
	students student.Store
	catalog  *catalog.Index
	now      func() time.Time
}

func NewService(store Store, students student.Store, ix *catalog.Index) *Service {
	return &Service{store: store, students: students, catalog: ix, now: time.Now}
}

type CreateInput struct {
	StudentID    string
	Mode         string
	FilterValue  *int // the grouping value matching Mode; nil for whole
	ThumunID     int
	FathaPrompts int
	TaradudCount int
}

// Create validates an attempt, grades it, persists it, and on a pass
// advances the student's naqza. The insert and the progression update
// are two separate store writes: a progression failure is reported as
// ErrProgression with the already-persisted session, and the insert is
// not unwound.
func (s *Service) Create(ctx context.Context, ownerID string, in CreateInput) (Session, error) {
	if in.StudentID == "" || in.Mode == "" || in.ThumunID == 0 {
		return Session{}, ErrMalformed
	}
	if !ValidMode(in.Mode) {
		return Session{}, ErrInvalidMode
	}

	// Ownership and existence are deliberately indistinguishable.
	if _, err := s.students.Get(ctx, ownerID, in.StudentID); err != nil {
		if errors.Is(err, student.ErrNotFound) {
			return Session{}, ErrNotFound
		}
		return Session{}, classify(err)
	}

	unit, ok := s.catalog.ByID(in.ThumunID)
	if !ok {
		return Session{}, ErrInvalidUnit
	}

	fatha := clamp(in.FathaPrompts, 0, 10)
	taradud := in.TaradudCount
	if taradud < 0 {
		taradud = 0
	}
	passed, score := Score(fatha, taradud)

	now := s.now()
	sess := Session{
		ID:            uuid.NewString(),
		StudentID:     in.StudentID,
		Mode:          in.Mode,
		ThumunID:      unit.ID,
		SurahNumber:   unit.SurahNumber,
		Hizb:          unit.Hizb,
		Juz:           unit.Juz,
		Naqza:         unit.Naqza,
		FathaPrompts:  fatha,
		TaradudCount:  taradud,
		Passed:        passed,
		Score:         score,
		AttemptAt:     now.Unix(),
		WeekStartDate: WeekStartSaturday(now),
		AttemptDay:    DayCode(now),
		CreatedAt:     now.Unix(),
		UpdatedAt:     now.Unix(),
	}
	switch in.Mode {
	case ModeNaqza:
		sess.SelectedNaqza = in.FilterValue
	case ModeJuz:
		sess.SelectedJuz = in.FilterValue
	case ModeFiveBlock:
		sess.SelectedFiveBlock = in.FilterValue
	case ModeQuarter:
		sess.SelectedQuarter = in.FilterValue
	case ModeHalf:
		sess.SelectedHalf = in.FilterValue
	}

	if err := s.store.Insert(ctx, sess); err != nil {
		return Session{}, err
	}

	if passed {
		if err := s.students.AdvanceNaqza(ctx, ownerID, in.StudentID); err != nil {
			return sess, fmt.Errorf("%w: %v", ErrProgression, err)
		}
	}
	return sess, nil
}

// ListForStudent returns a student's sessions, newest first.
func (s *Service) ListForStudent(ctx context.Context, ownerID, studentID string) ([]Session, error) {
	if _, err := s.students.Get(ctx, ownerID, studentID); err != nil {
		if errors.Is(err, student.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, classify(err)
	}
	return s.store.ListByStudent(ctx, studentID)
}

// Weekly returns the current Saturday-anchored week's sessions.
func (s *Service) Weekly(ctx context.Context, ownerID string) (string, []ReportRow, error) {
	weekStart := WeekStartSaturday(s.now())
	rows, err := s.store.Weekly(ctx, ownerID, weekStart)
	return weekStart, rows, err
}

// Range returns sessions with attempt_at in [from, to], inclusive of
// the whole to day. Unset bounds default to a trailing 7-day window
// ending today.
func (s *Service) Range(ctx context.Context, ownerID string, from, to *time.Time) (string, string, []ReportRow, error) {
	end := s.now()
	if to != nil {
		end = *to
	}
	start := end.AddDate(0, 0, -6)
	if from != nil {
		start = *from
	}
	startDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	endDay := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, end.Location()).AddDate(0, 0, 1).Add(-time.Second)

	rows, err := s.store.Range(ctx, ownerID, startDay.Unix(), endDay.Unix())
	return startDay.Format("2006-01-02"), endDay.Format("2006-01-02"), rows, err
}

// UpdateAttemptTime moves an attempt's timestamp within the 30-day
// window and recomputes the fields derived from it. Nothing else on
// the session changes.
func (s *Service) UpdateAttemptTime(ctx context.Context, ownerID, id string, newAt time.Time) (Session, error) {
	if id == "" || newAt.IsZero() {
		return Session{}, ErrMalformed
	}
	diff := s.now().Sub(newAt)
	if diff < 0 {
		diff = -diff
	}
	if diff > editWindow {
		return Session{}, ErrWindow
	}
	return s.store.UpdateAttemptTime(ctx, ownerID, id, newAt.Unix(), WeekStartSaturday(newAt), DayCode(newAt))
}

// Delete removes a session. Progression is not reversed.
func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	return s.store.Delete(ctx, ownerID, id)
}
