package student

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Progression writes race with session inserts; cap them with the
// same per-statement deadline the session store uses.
const stmtTimeout = 15 * time.Second

type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

const cols = `id, number, name, notes, date_of_birth, photo_url, current_naqza, created_at, updated_at`

func (s *SQLStore) List(ctx context.Context, ownerID string) ([]Student, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+cols+` FROM students WHERE user_id=$1 ORDER BY number ASC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Student{}
	for rows.Next() {
		st, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (s *SQLStore) Get(ctx context.Context, ownerID, id string) (Student, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+cols+` FROM students WHERE id=$1 AND user_id=$2`, id, ownerID)
	st, err := scanStudent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Student{}, ErrNotFound
	}
	return st, err
}

func (s *SQLStore) Create(ctx context.Context, ownerID string, st Student) (Student, error) {
	st.ID = uuid.NewString()
	now := time.Now().Unix()
	st.CreatedAt, st.UpdatedAt = now, now
	if st.CurrentNaqza == 0 {
		st.CurrentNaqza = 20
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO students (id, user_id, number, name, notes, date_of_birth, photo_url, current_naqza, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		st.ID, ownerID, st.Number, st.Name, st.Notes, st.DateOfBirth, st.PhotoURL, st.CurrentNaqza, st.CreatedAt, st.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return Student{}, ErrNumberTaken
		}
		return Student{}, err
	}
	return st, nil
}

func (s *SQLStore) Update(ctx context.Context, ownerID, id string, in UpdateInput) (Student, error) {
	sets := []string{}
	vals := []any{}
	idx := 1
	add := func(col string, v any) {
		sets = append(sets, fmt.Sprintf("%s=$%d", col, idx))
		vals = append(vals, v)
		idx++
	}
	if in.Number != nil {
		add("number", *in.Number)
	}
	if in.Name != nil {
		add("name", *in.Name)
	}
	if in.Notes != nil {
		add("notes", *in.Notes)
	}
	if in.DateOfBirth != nil {
		add("date_of_birth", *in.DateOfBirth)
	}
	if in.PhotoURL != nil {
		add("photo_url", *in.PhotoURL)
	}
	if in.CurrentNaqza != nil {
		add("current_naqza", *in.CurrentNaqza)
	}
	if len(sets) == 0 {
		return Student{}, ErrInvalid
	}
	add("updated_at", time.Now().Unix())

	q := fmt.Sprintf(`UPDATE students SET %s WHERE id=$%d AND user_id=$%d`,
		strings.Join(sets, ", "), idx, idx+1)
	vals = append(vals, id, ownerID)
	res, err := s.db.ExecContext(ctx, q, vals...)
	if err != nil {
		if isUniqueViolation(err) {
			return Student{}, ErrNumberTaken
		}
		return Student{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Student{}, ErrNotFound
	}
	return s.Get(ctx, ownerID, id)
}

func (s *SQLStore) Delete(ctx context.Context, ownerID, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM students WHERE id=$1 AND user_id=$2`, id, ownerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// AdvanceNaqza is expressed as a relative update so two concurrent
// passes serialize in the store rather than in the application.
func (s *SQLStore) AdvanceNaqza(ctx context.Context, ownerID, id string) error {
	ctx, cancel := context.WithTimeout(ctx, stmtTimeout)
	defer cancel()
	floor := "MAX(1, current_naqza - 1)" // sqlite scalar max
	if s.driver == "postgres" {
		floor = "GREATEST(1, current_naqza - 1)"
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE students SET current_naqza=`+floor+`, updated_at=$1 WHERE id=$2 AND user_id=$3`,
		time.Now().Unix(), id, ownerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface{ Scan(dest ...any) error }

func scanStudent(r rowScanner) (Student, error) {
	var st Student
	var dob, photo sql.NullString
	err := r.Scan(&st.ID, &st.Number, &st.Name, &st.Notes, &dob, &photo,
		&st.CurrentNaqza, &st.CreatedAt, &st.UpdatedAt)
	if err != nil {
		return Student{}, err
	}
	if dob.Valid {
		st.DateOfBirth = &dob.String
	}
	if photo.Valid {
		st.PhotoURL = &photo.String
	}
	return st, nil
}

func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
