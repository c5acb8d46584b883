package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Per-statement deadline against the store. On expiry the operation
// fails with ErrStoreTimeout; nothing is retried.
const stmtTimeout = 15 * time.Second

type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

const sessCols = `s.id, s.student_id, s.mode,
	s.selected_naqza, s.selected_juz, s.selected_five_block, s.selected_quarter, s.selected_half,
	s.thumun_id, s.surah_number, s.hizb, s.juz, s.naqza,
	s.fatha_prompts, s.taradud_count, s.passed, s.score,
	s.attempt_at, s.week_start_date, s.attempt_day, s.created_at, s.updated_at`

func (st *SQLStore) Insert(ctx context.Context, s Session) error {
	ctx, cancel := context.WithTimeout(ctx, stmtTimeout)
	defer cancel()
	_, err := st.db.ExecContext(ctx,
		`INSERT INTO sessions (
			id, student_id, mode,
			selected_naqza, selected_juz, selected_five_block, selected_quarter, selected_half,
			thumun_id, surah_number, hizb, juz, naqza,
			fatha_prompts, taradud_count, passed, score,
			attempt_at, week_start_date, attempt_day, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22)`,
		s.ID, s.StudentID, s.Mode,
		s.SelectedNaqza, s.SelectedJuz, s.SelectedFiveBlock, s.SelectedQuarter, s.SelectedHalf,
		s.ThumunID, s.SurahNumber, s.Hizb, s.Juz, s.Naqza,
		s.FathaPrompts, s.TaradudCount, s.Passed, s.Score,
		s.AttemptAt, s.WeekStartDate, s.AttemptDay, s.CreatedAt, s.UpdatedAt)
	return classify(err)
}

func (st *SQLStore) Get(ctx context.Context, ownerID, id string) (Session, error) {
	ctx, cancel := context.WithTimeout(ctx, stmtTimeout)
	defer cancel()
	row := st.db.QueryRowContext(ctx,
		`SELECT `+sessCols+` FROM sessions s
		 JOIN students stu ON stu.id = s.student_id
		 WHERE s.id=$1 AND stu.user_id=$2`, id, ownerID)
	s, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrNotFound
	}
	return s, classify(err)
}

func (st *SQLStore) ListByStudent(ctx context.Context, studentID string) ([]Session, error) {
	ctx, cancel := context.WithTimeout(ctx, stmtTimeout)
	defer cancel()
	rows, err := st.db.QueryContext(ctx,
		`SELECT `+sessCols+` FROM sessions s
		 WHERE s.student_id=$1 ORDER BY s.created_at DESC`, studentID)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()
	out := []Session{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, classify(rows.Err())
}

func (st *SQLStore) Weekly(ctx context.Context, ownerID, weekStart string) ([]ReportRow, error) {
	return st.report(ctx,
		`SELECT `+sessCols+`, stu.number, stu.name FROM sessions s
		 JOIN students stu ON stu.id = s.student_id
		 WHERE stu.user_id=$1 AND s.week_start_date=$2
		 ORDER BY stu.number ASC, s.attempt_at DESC`, ownerID, weekStart)
}

func (st *SQLStore) Range(ctx context.Context, ownerID string, from, to int64) ([]ReportRow, error) {
	return st.report(ctx,
		`SELECT `+sessCols+`, stu.number, stu.name FROM sessions s
		 JOIN students stu ON stu.id = s.student_id
		 WHERE stu.user_id=$1 AND s.attempt_at BETWEEN $2 AND $3
		 ORDER BY s.attempt_at DESC, stu.number ASC`, ownerID, from, to)
}

func (st *SQLStore) report(ctx context.Context, q string, args ...any) ([]ReportRow, error) {
	ctx, cancel := context.WithTimeout(ctx, stmtTimeout)
	defer cancel()
	rows, err := st.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()
	out := []ReportRow{}
	for rows.Next() {
		r, err := scanReportRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, classify(rows.Err())
}

func (st *SQLStore) UpdateAttemptTime(ctx context.Context, ownerID, id string, attemptAt int64, weekStart, dayCode string) (Session, error) {
	ctx, cancel := context.WithTimeout(ctx, stmtTimeout)
	defer cancel()
	res, err := st.db.ExecContext(ctx,
		`UPDATE sessions SET attempt_at=$1, week_start_date=$2, attempt_day=$3, updated_at=$4
		 WHERE id=$5 AND student_id IN (SELECT id FROM students WHERE user_id=$6)`,
		attemptAt, weekStart, dayCode, time.Now().Unix(), id, ownerID)
	if err != nil {
		return Session{}, classify(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Session{}, ErrNotFound
	}
	return st.Get(ctx, ownerID, id)
}

func (st *SQLStore) Delete(ctx context.Context, ownerID, id string) error {
	ctx, cancel := context.WithTimeout(ctx, stmtTimeout)
	defer cancel()
	res, err := st.db.ExecContext(ctx,
		`DELETE FROM sessions
		 WHERE id=$1 AND student_id IN (SELECT id FROM students WHERE user_id=$2)`, id, ownerID)
	if err != nil {
		return classify(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanSession(r interface{ Scan(...any) error }) (Session, error) {
	var s Session
	var selNaqza, selJuz, selFive, selQuarter, selHalf sql.NullInt64
	err := r.Scan(&s.ID, &s.StudentID, &s.Mode,
		&selNaqza, &selJuz, &selFive, &selQuarter, &selHalf,
		&s.ThumunID, &s.SurahNumber, &s.Hizb, &s.Juz, &s.Naqza,
		&s.FathaPrompts, &s.TaradudCount, &s.Passed, &s.Score,
		&s.AttemptAt, &s.WeekStartDate, &s.AttemptDay, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return Session{}, err
	}
	s.SelectedNaqza = nullableInt(selNaqza)
	s.SelectedJuz = nullableInt(selJuz)
	s.SelectedFiveBlock = nullableInt(selFive)
	s.SelectedQuarter = nullableInt(selQuarter)
	s.SelectedHalf = nullableInt(selHalf)
	return s, nil
}

func scanReportRow(r interface{ Scan(...any) error }) (ReportRow, error) {
	var row ReportRow
	var selNaqza, selJuz, selFive, selQuarter, selHalf sql.NullInt64
	err := r.Scan(&row.ID, &row.StudentID, &row.Mode,
		&selNaqza, &selJuz, &selFive, &selQuarter, &selHalf,
		&row.ThumunID, &row.SurahNumber, &row.Hizb, &row.Juz, &row.Naqza,
		&row.FathaPrompts, &row.TaradudCount, &row.Passed, &row.Score,
		&row.AttemptAt, &row.WeekStartDate, &row.AttemptDay, &row.CreatedAt, &row.UpdatedAt,
		&row.StudentNumber, &row.StudentName)
	if err != nil {
		return ReportRow{}, err
	}
	row.SelectedNaqza = nullableInt(selNaqza)
	row.SelectedJuz = nullableInt(selJuz)
	row.SelectedFiveBlock = nullableInt(selFive)
	row.SelectedQuarter = nullableInt(selQuarter)
	row.SelectedHalf = nullableInt(selHalf)
	return row, nil
}

func nullableInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrStoreTimeout, err)
	}
	return err
}
