package session

import "context"

// Store persists sessions. Owner scoping happens inside the store (via
// the join to students), never in the caller.
type Store interface {
	Insert(ctx context.Context, s Session) error
	Get(ctx context.Context, ownerID, id string) (Session, error)

	// ListByStudent returns all sessions for a student, newest first.
	// Ownership of the student is checked by the service beforehand.
	ListByStudent(ctx context.Context, studentID string) ([]Session, error)

	// Weekly returns the owner's sessions bucketed in the given week,
	// ordered by student number asc then attempt time desc.
	Weekly(ctx context.Context, ownerID, weekStart string) ([]ReportRow, error)

	// Range returns the owner's sessions with attempt_at in [from,to]
	// (unix seconds), ordered by attempt time desc then student number.
	Range(ctx context.Context, ownerID string, from, to int64) ([]ReportRow, error)

	UpdateAttemptTime(ctx context.Context, ownerID, id string, attemptAt int64, weekStart, dayCode string) (Session, error)
	Delete(ctx context.Context, ownerID, id string) error
}
