package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/liftlog/internal/telemetry/tracing"
	"github.com/2beens/liftlog/internal/workout"
)

var (
	_ Sessions = (*PostgresSessions)(nil)
	_ Records  = (*PostgresRecords)(nil)
)

// PostgresSessions stores sessions as one row per session, with the exercise
// list (sets included) as a JSONB document. The session is always written
// whole - the engine persists once per logical mutation.
type PostgresSessions struct {
	db *pgxpool.Pool
}

func NewPostgresSessions(db *pgxpool.Pool) *PostgresSessions {
	return &PostgresSessions{
		db: db,
	}
}

func (s *PostgresSessions) Put(ctx context.Context, session *workout.Session) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.sessions.put")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("session.id", session.ID))

	exercisesJson, err := json.Marshal(session.Exercises)
	if err != nil {
		return fmt.Errorf("marshal session exercises: %w", err)
	}

	_, err = s.db.Exec(
		ctx,
		`INSERT INTO workout_session
				(id, name, created_at, started_at, ended_at, duration_minutes, total_volume, template_id, exercises)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				ended_at = EXCLUDED.ended_at,
				duration_minutes = EXCLUDED.duration_minutes,
				total_volume = EXCLUDED.total_volume,
				exercises = EXCLUDED.exercises;`,
		session.ID, session.Name, session.CreatedAt, session.StartedAt, session.EndedAt,
		session.DurationMinutes, session.TotalVolume, session.TemplateID, exercisesJson,
	)
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

func (s *PostgresSessions) Get(ctx context.Context, id string) (_ *workout.Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.sessions.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("session.id", id))

	rows, err := s.db.Query(
		ctx,
		`SELECT id, name, created_at, started_at, ended_at, duration_minutes, total_volume, template_id, exercises
			FROM workout_session
			WHERE id = $1;`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	sessions, err := s.rows2sessions(rows)
	if err != nil {
		return nil, err
	}
	if len(sessions) != 1 {
		return nil, ErrSessionNotFound
	}
	return sessions[0], nil
}

func (s *PostgresSessions) List(ctx context.Context, params SessionParams) (_ []*workout.Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.sessions.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	if params.From != nil {
		span.SetAttributes(attribute.String("from", params.From.String()))
	}
	if params.To != nil {
		span.SetAttributes(attribute.String("to", params.To.String()))
	}

	rows, err := s.db.Query(
		ctx,
		`SELECT id, name, created_at, started_at, ended_at, duration_minutes, total_volume, template_id, exercises
			FROM workout_session
			WHERE ($1::timestamptz IS NULL OR started_at >= $1)
			AND ($2::timestamptz IS NULL OR started_at <= $2)
			ORDER BY started_at ASC;`,
		params.From, params.To,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return s.rows2sessions(rows)
}

func (s *PostgresSessions) Delete(ctx context.Context, id string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.sessions.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("session.id", id))

	tag, err := s.db.Exec(ctx, `DELETE FROM workout_session WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (s *PostgresSessions) Count(ctx context.Context) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.sessions.count")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var count int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM workout_session;`).Scan(&count); err != nil {
		return -1, err
	}
	return count, nil
}

func (s *PostgresSessions) rows2sessions(rows pgx.Rows) ([]*workout.Session, error) {
	sessions := make([]*workout.Session, 0)
	for rows.Next() {
		var (
			session       workout.Session
			endedAt       *time.Time
			exercisesJson []byte
		)
		if err := rows.Scan(
			&session.ID, &session.Name, &session.CreatedAt, &session.StartedAt, &endedAt,
			&session.DurationMinutes, &session.TotalVolume, &session.TemplateID, &exercisesJson,
		); err != nil {
			return nil, err
		}

		session.EndedAt = endedAt
		if len(exercisesJson) > 0 {
			if err := json.Unmarshal(exercisesJson, &session.Exercises); err != nil {
				return nil, fmt.Errorf("unmarshal exercises for session %s: %w", session.ID, err)
			}
		}
		if session.Exercises == nil {
			session.Exercises = make([]*workout.SessionExercise, 0)
		}

		sessions = append(sessions, &session)
	}
	return sessions, nil
}

// PostgresRecords is the append-only personal records table.
type PostgresRecords struct {
	db *pgxpool.Pool
}

func NewPostgresRecords(db *pgxpool.Pool) *PostgresRecords {
	return &PostgresRecords{
		db: db,
	}
}

func (r *PostgresRecords) Add(ctx context.Context, record workout.PersonalRecord) (_ *workout.PersonalRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.records.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("exercise.id", record.ExerciseID),
		attribute.String("record.type", record.Type.String()),
	)

	_, err = r.db.Exec(
		ctx,
		`INSERT INTO personal_record (id, exercise_id, type, value, achieved_at, session_id)
			VALUES ($1, $2, $3, $4, $5, $6);`,
		record.ID, record.ExerciseID, record.Type, record.Value, record.AchievedAt, record.SessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("insert personal record: %w", err)
	}
	return &record, nil
}

func (r *PostgresRecords) Best(
	ctx context.Context,
	exerciseID string,
	recordType workout.RecordType,
) (_ *workout.PersonalRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.records.best")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("exercise.id", exerciseID),
		attribute.String("record.type", recordType.String()),
	)

	record := &workout.PersonalRecord{}
	err = r.db.QueryRow(
		ctx,
		`SELECT id, exercise_id, type, value, achieved_at, session_id
			FROM personal_record
			WHERE exercise_id = $1 AND type = $2
			ORDER BY value DESC, achieved_at DESC
			LIMIT 1;`,
		exerciseID, recordType,
	).Scan(&record.ID, &record.ExerciseID, &record.Type, &record.Value, &record.AchievedAt, &record.SessionID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *PostgresRecords) List(ctx context.Context, params RecordParams) (_ []workout.PersonalRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.records.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise.id", params.ExerciseID))

	rows, err := r.db.Query(
		ctx,
		`SELECT id, exercise_id, type, value, achieved_at, session_id
			FROM personal_record
			WHERE ($1::text = '' OR exercise_id = $1)
			AND ($2::text IS NULL OR type = $2)
			ORDER BY achieved_at ASC;`,
		params.ExerciseID, params.Type,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	records := make([]workout.PersonalRecord, 0)
	for rows.Next() {
		var record workout.PersonalRecord
		if err := rows.Scan(
			&record.ID, &record.ExerciseID, &record.Type,
			&record.Value, &record.AchievedAt, &record.SessionID,
		); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

func (r *PostgresRecords) Count(ctx context.Context) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "store.records.count")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM personal_record;`).Scan(&count); err != nil {
		return -1, err
	}
	return count, nil
}
