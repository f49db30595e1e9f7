// Package store is the persistence boundary for sessions and personal
// records: durable, key-indexed, no business logic. Two implementations
// exist - postgres for the running service and an in-memory one for tests
// and throwaway local runs.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/2beens/liftlog/internal/workout"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrRecordNotFound  = errors.New("personal record not found")
)

// SessionParams filters session range queries by start timestamp.
type SessionParams struct {
	From *time.Time
	To   *time.Time
}

// RecordParams filters personal record queries.
type RecordParams struct {
	ExerciseID string
	Type       *workout.RecordType
}

type Sessions interface {
	// Put upserts the session under its ID.
	Put(ctx context.Context, session *workout.Session) error
	Get(ctx context.Context, id string) (*workout.Session, error)
	// List returns sessions in chronological order (oldest first).
	List(ctx context.Context, params SessionParams) ([]*workout.Session, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

type Records interface {
	// Add appends a record row. Rows are never updated or deleted.
	Add(ctx context.Context, record workout.PersonalRecord) (*workout.PersonalRecord, error)
	// Best resolves the current best record for (exerciseID, recordType):
	// the highest value, most recent on equal values. Returns
	// ErrRecordNotFound when no record exists yet.
	Best(ctx context.Context, exerciseID string, recordType workout.RecordType) (*workout.PersonalRecord, error)
	// List returns records in chronological order (oldest first).
	List(ctx context.Context, params RecordParams) ([]workout.PersonalRecord, error)
	Count(ctx context.Context) (int, error)
}
