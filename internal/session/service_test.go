package session

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Jawad18750/halaqa/internal/catalog"
	"github.com/Jawad18750/halaqa/internal/student"
)

/* ---------------- in-memory fakes ---------------- */

type fakeStudents struct {
	byKey      map[string]*student.Student // ownerID|studentID
	advanceErr error
}

func newFakeStudents() *fakeStudents {
	return &fakeStudents{byKey: map[string]*student.Student{}}
}

func (f *fakeStudents) put(ownerID string, s student.Student) {
	cp := s
	f.byKey[ownerID+"|"+s.ID] = &cp
}

func (f *fakeStudents) Get(_ context.Context, ownerID, id string) (student.Student, error) {
	s, ok := f.byKey[ownerID+"|"+id]
	if !ok {
		return student.Student{}, student.ErrNotFound
	}
	return *s, nil
}

func (f *fakeStudents) AdvanceNaqza(_ context.Context, ownerID, id string) error {
	if f.advanceErr != nil {
		return f.advanceErr
	}
	s, ok := f.byKey[ownerID+"|"+id]
	if !ok {
		return student.ErrNotFound
	}
	if s.CurrentNaqza > 1 {
		s.CurrentNaqza--
	}
	return nil
}

func (f *fakeStudents) List(context.Context, string) ([]student.Student, error) { return nil, nil }
func (f *fakeStudents) Create(_ context.Context, _ string, s student.Student) (student.Student, error) {
	return s, nil
}
func (f *fakeStudents) Update(_ context.Context, _, _ string, _ student.UpdateInput) (student.Student, error) {
	return student.Student{}, nil
}
func (f *fakeStudents) Delete(context.Context, string, string) error { return nil }

type fakeStore struct {
	sessions  map[string]Session
	insertErr error

	rangeFrom, rangeTo int64
}

func newFakeStore() *fakeStore { return &fakeStore{sessions: map[string]Session{}} }

func (f *fakeStore) Insert(_ context.Context, s Session) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.sessions[s.ID] = s
	return nil
}

func (f *fakeStore) Get(_ context.Context, _, id string) (Session, error) {
	s, ok := f.sessions[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	return s, nil
}

func (f *fakeStore) ListByStudent(_ context.Context, studentID string) ([]Session, error) {
	out := []Session{}
	for _, s := range f.sessions {
		if s.StudentID == studentID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStore) Weekly(context.Context, string, string) ([]ReportRow, error) { return nil, nil }

func (f *fakeStore) Range(_ context.Context, _ string, from, to int64) ([]ReportRow, error) {
	f.rangeFrom, f.rangeTo = from, to
	return []ReportRow{}, nil
}

func (f *fakeStore) UpdateAttemptTime(_ context.Context, _, id string, attemptAt int64, weekStart, dayCode string) (Session, error) {
	s, ok := f.sessions[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	s.AttemptAt = attemptAt
	s.WeekStartDate = weekStart
	s.AttemptDay = dayCode
	s.UpdatedAt = time.Now().Unix()
	f.sessions[id] = s
	return s, nil
}

func (f *fakeStore) Delete(_ context.Context, _, id string) error {
	if _, ok := f.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(f.sessions, id)
	return nil
}

/* ---------------- helpers ---------------- */

func testCatalog(t *testing.T) *catalog.Index {
	t.Helper()
	units := make([]catalog.Unit, 0, 480)
	for id := 1; id <= 480; id++ {
		units = append(units, catalog.Unit{
			ID:          id,
			Name:        fmt.Sprintf("thumun-%d", id),
			SurahNumber: 2,
			Hizb:        (id-1)/8 + 1,
			Juz:         (id-1)/16 + 1,
			Naqza:       (id-1)/24 + 1,
		})
	}
	ix, err := catalog.New(units)
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	return ix
}

// 2026-08-26 is a Wednesday; its week started Saturday 2026-08-22.
var fixedNow = time.Date(2026, time.August, 26, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *fakeStore, *fakeStudents) {
	t.Helper()
	store := newFakeStore()
	students := newFakeStudents()
	svc := NewService(store, students, testCatalog(t))
	svc.now = func() time.Time { return fixedNow }
	return svc, store, students
}

const owner = "instructor-1"

func seedStudent(students *fakeStudents, id string, naqza int) {
	students.put(owner, student.Student{ID: id, Number: 7, Name: "Ahmed", CurrentNaqza: naqza})
}

/* ---------------- Create ---------------- */

func TestCreatePassAdvancesNaqza(t *testing.T) {
	svc, store, students := newTestService(t)
	seedStudent(students, "s1", 10)

	naqza := 10
	sess, err := svc.Create(context.Background(), owner, CreateInput{
		StudentID: "s1", Mode: ModeNaqza, FilterValue: &naqza, ThumunID: 230,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !sess.Passed || sess.Score != 100 {
		t.Fatalf("got passed=%v score=%d, want pass with 100", sess.Passed, sess.Score)
	}
	if got, _ := students.Get(context.Background(), owner, "s1"); got.CurrentNaqza != 9 {
		t.Fatalf("naqza = %d, want 9", got.CurrentNaqza)
	}
	if _, ok := store.sessions[sess.ID]; !ok {
		t.Fatal("session not persisted")
	}
	// unit snapshot
	if sess.ThumunID != 230 || sess.Hizb != 29 || sess.Juz != 15 || sess.Naqza != 10 {
		t.Fatalf("bad unit snapshot: %+v", sess)
	}
	if sess.SelectedNaqza == nil || *sess.SelectedNaqza != 10 {
		t.Fatal("selected naqza not recorded")
	}
	if sess.SelectedJuz != nil {
		t.Fatal("only one filter value may be populated")
	}
	if sess.WeekStartDate != "2026-08-22" || sess.AttemptDay != "wed" {
		t.Fatalf("derived fields wrong: %s %s", sess.WeekStartDate, sess.AttemptDay)
	}
}

func TestCreateFailKeepsNaqza(t *testing.T) {
	svc, _, students := newTestService(t)
	seedStudent(students, "s1", 10)

	sess, err := svc.Create(context.Background(), owner, CreateInput{
		StudentID: "s1", Mode: ModeJuz, ThumunID: 10, FathaPrompts: 4, TaradudCount: 5,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if sess.Passed || sess.Score != 54 {
		t.Fatalf("got passed=%v score=%d, want fail with 54", sess.Passed, sess.Score)
	}
	if got, _ := students.Get(context.Background(), owner, "s1"); got.CurrentNaqza != 10 {
		t.Fatalf("naqza changed on fail: %d", got.CurrentNaqza)
	}
}

func TestCreateScenarioC(t *testing.T) {
	svc, _, students := newTestService(t)
	seedStudent(students, "s1", 5)

	sess, err := svc.Create(context.Background(), owner, CreateInput{
		StudentID: "s1", Mode: ModeWhole, ThumunID: 1, FathaPrompts: 1, TaradudCount: 2,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !sess.Passed || sess.Score != 90 {
		t.Fatalf("got passed=%v score=%d, want pass with 90", sess.Passed, sess.Score)
	}
	// whole-corpus mode still advances: progression reflects another
	// passed attempt, not the assigned unit.
	if got, _ := students.Get(context.Background(), owner, "s1"); got.CurrentNaqza != 4 {
		t.Fatalf("naqza = %d, want 4", got.CurrentNaqza)
	}
}

func TestCreateNaqzaFloor(t *testing.T) {
	svc, _, students := newTestService(t)
	seedStudent(students, "s1", 1)

	if _, err := svc.Create(context.Background(), owner, CreateInput{
		StudentID: "s1", Mode: ModeNaqza, ThumunID: 5,
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got, _ := students.Get(context.Background(), owner, "s1"); got.CurrentNaqza != 1 {
		t.Fatalf("naqza = %d, want floor 1", got.CurrentNaqza)
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _, students := newTestService(t)
	seedStudent(students, "s1", 10)

	cases := []struct {
		name string
		in   CreateInput
		want error
	}{
		{"missing student", CreateInput{Mode: ModeNaqza, ThumunID: 1}, ErrMalformed},
		{"missing mode", CreateInput{StudentID: "s1", ThumunID: 1}, ErrMalformed},
		{"missing unit", CreateInput{StudentID: "s1", Mode: ModeNaqza}, ErrMalformed},
		{"bad mode", CreateInput{StudentID: "s1", Mode: "weekly", ThumunID: 1}, ErrInvalidMode},
		{"unknown student", CreateInput{StudentID: "nope", Mode: ModeNaqza, ThumunID: 1}, ErrNotFound},
		{"unit out of catalog", CreateInput{StudentID: "s1", Mode: ModeNaqza, ThumunID: 481}, ErrInvalidUnit},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := svc.Create(context.Background(), owner, c.in); !errors.Is(err, c.want) {
				t.Fatalf("got %v, want %v", err, c.want)
			}
		})
	}
}

func TestCreateOtherInstructorStudentIsNotFound(t *testing.T) {
	svc, _, students := newTestService(t)
	students.put("instructor-2", student.Student{ID: "s9", Number: 1, Name: "Sara", CurrentNaqza: 8})

	_, err := svc.Create(context.Background(), owner, CreateInput{
		StudentID: "s9", Mode: ModeNaqza, ThumunID: 1,
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("ownership miss should be indistinguishable from absence, got %v", err)
	}
}

func TestCreateProgressionFailureIsDistinct(t *testing.T) {
	svc, store, students := newTestService(t)
	seedStudent(students, "s1", 10)
	students.advanceErr = errors.New("row lock timeout")

	sess, err := svc.Create(context.Background(), owner, CreateInput{
		StudentID: "s1", Mode: ModeNaqza, ThumunID: 3,
	})
	if !errors.Is(err, ErrProgression) {
		t.Fatalf("got %v, want ErrProgression", err)
	}
	// The session write is not unwound.
	if _, ok := store.sessions[sess.ID]; !ok {
		t.Fatal("session should remain persisted when progression fails")
	}
}

func TestCreateInsertFailureReachesNeitherStore(t *testing.T) {
	svc, store, students := newTestService(t)
	seedStudent(students, "s1", 10)
	store.insertErr = fmt.Errorf("%w: insert sessions", ErrStoreTimeout)

	_, err := svc.Create(context.Background(), owner, CreateInput{
		StudentID: "s1", Mode: ModeNaqza, ThumunID: 3,
	})
	if !errors.Is(err, ErrStoreTimeout) {
		t.Fatalf("got %v, want ErrStoreTimeout", err)
	}
	if got, _ := students.Get(context.Background(), owner, "s1"); got.CurrentNaqza != 10 {
		t.Fatal("progression must not run when the insert fails")
	}
}

/* ---------------- time edit ---------------- */

func TestUpdateAttemptTimeWithinWindow(t *testing.T) {
	svc, store, students := newTestService(t)
	seedStudent(students, "s1", 10)
	sess, err := svc.Create(context.Background(), owner, CreateInput{
		StudentID: "s1", Mode: ModeNaqza, ThumunID: 3,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// 29 days back lands on Tuesday 2026-07-28; its week started
	// Saturday 2026-07-25.
	newAt := fixedNow.AddDate(0, 0, -29)
	got, err := svc.UpdateAttemptTime(context.Background(), owner, sess.ID, newAt)
	if err != nil {
		t.Fatalf("UpdateAttemptTime: %v", err)
	}
	if got.AttemptAt != newAt.Unix() {
		t.Fatalf("attempt_at = %d, want %d", got.AttemptAt, newAt.Unix())
	}
	if got.WeekStartDate != "2026-07-25" || got.AttemptDay != "tue" {
		t.Fatalf("derived fields not recomputed: %s %s", got.WeekStartDate, got.AttemptDay)
	}
	if stored := store.sessions[sess.ID]; stored.Score != sess.Score || stored.Passed != sess.Passed {
		t.Fatal("time edit must not touch the verdict")
	}
}

func TestUpdateAttemptTimeWindowViolations(t *testing.T) {
	svc, store, students := newTestService(t)
	seedStudent(students, "s1", 10)
	sess, _ := svc.Create(context.Background(), owner, CreateInput{
		StudentID: "s1", Mode: ModeNaqza, ThumunID: 3,
	})

	for _, newAt := range []time.Time{
		fixedNow.AddDate(0, 0, -31), // backdating past the window
		fixedNow.AddDate(0, 0, 31),  // postdating is bounded too
	} {
		if _, err := svc.UpdateAttemptTime(context.Background(), owner, sess.ID, newAt); !errors.Is(err, ErrWindow) {
			t.Fatalf("edit to %s: got %v, want ErrWindow", newAt, err)
		}
	}
	// Original value retained.
	if store.sessions[sess.ID].AttemptAt != fixedNow.Unix() {
		t.Fatal("rejected edit must leave attempt_at untouched")
	}
}

func TestUpdateAttemptTimeUnknownSession(t *testing.T) {
	svc, _, _ := newTestService(t)
	if _, err := svc.UpdateAttemptTime(context.Background(), owner, "ghost", fixedNow); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

/* ---------------- reads ---------------- */

func TestListForStudentChecksOwnership(t *testing.T) {
	svc, _, students := newTestService(t)
	students.put("instructor-2", student.Student{ID: "s9", Number: 1, Name: "Sara"})

	if _, err := svc.ListForStudent(context.Background(), owner, "s9"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestRangeDefaultsToTrailingWeek(t *testing.T) {
	svc, store, _ := newTestService(t)

	from, to, _, err := svc.Range(context.Background(), owner, nil, nil)
	if err != nil {
		t.Fatalf("Range: %v", err)
	}
	if from != "2026-08-20" || to != "2026-08-26" {
		t.Fatalf("default window = [%s, %s], want [2026-08-20, 2026-08-26]", from, to)
	}
	wantFrom := time.Date(2026, time.August, 20, 0, 0, 0, 0, time.UTC).Unix()
	wantTo := time.Date(2026, time.August, 27, 0, 0, 0, 0, time.UTC).Add(-time.Second).Unix()
	if store.rangeFrom != wantFrom || store.rangeTo != wantTo {
		t.Fatalf("store got [%d, %d], want [%d, %d]", store.rangeFrom, store.rangeTo, wantFrom, wantTo)
	}
}

func TestRangeToIsInclusiveOfWholeDay(t *testing.T) {
	svc, store, _ := newTestService(t)

	day := time.Date(2026, time.August, 24, 0, 0, 0, 0, time.UTC)
	_, _, _, err := svc.Range(context.Background(), owner, &day, &day)
	if err != nil {
		t.Fatalf("Range: %v", err)
	}
	if store.rangeTo-store.rangeFrom != 24*60*60-1 {
		t.Fatalf("single-day range should span the full day, got %d seconds", store.rangeTo-store.rangeFrom)
	}
}
