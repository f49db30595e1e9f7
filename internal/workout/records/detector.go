// Package records detects new personal bests from logged workout data.
package records

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/liftlog/internal/telemetry/tracing"
	"github.com/2beens/liftlog/internal/workout"
	"github.com/2beens/liftlog/internal/workout/store"
)

// Detector compares a session's current numbers against the stored personal
// bests and appends a new record row for every strict improvement. It never
// rewrites history: the stored best is resolved by query, not kept in a
// mutable pointer.
type Detector struct {
	records store.Records
	nowFunc func() time.Time
}

func NewDetector(records store.Records) *Detector {
	return NewDetectorWithNow(records, time.Now)
}

// NewDetectorWithNow pins the achieved-at clock for tests.
func NewDetectorWithNow(records store.Records, nowFunc func() time.Time) *Detector {
	return &Detector{
		records: records,
		nowFunc: nowFunc,
	}
}

// DetectForExercise checks one exercise of the given session against stored
// bests, right after a set was logged. Returns the newly created records,
// possibly none.
func (d *Detector) DetectForExercise(
	ctx context.Context,
	session *workout.Session,
	exerciseID string,
) (_ []workout.PersonalRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "records.detectForExercise")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.String("session.id", session.ID),
		attribute.String("exercise.id", exerciseID),
	)

	exercise := session.FindExercise(exerciseID)
	if exercise == nil {
		return nil, nil
	}

	candidates := exerciseCandidates(exercise)
	newRecords := make([]workout.PersonalRecord, 0)
	for _, recType := range workout.RecordTypes() {
		candidate, ok := candidates[recType]
		if !ok {
			continue
		}
		record, err := d.checkCandidate(ctx, session.ID, exerciseID, recType, candidate)
		if err != nil {
			return nil, err
		}
		if record != nil {
			newRecords = append(newRecords, *record)
		}
	}

	span.SetAttributes(attribute.Int("records.new", len(newRecords)))
	return newRecords, nil
}

// DetectAll runs a catch-up pass over every exercise in the session. Used at
// session end, where incremental detection may have been skipped or the
// session-volume record only now reached its final value.
func (d *Detector) DetectAll(
	ctx context.Context,
	session *workout.Session,
) (_ []workout.PersonalRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "records.detectAll")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("session.id", session.ID))

	newRecords := make([]workout.PersonalRecord, 0)
	for _, exercise := range session.Exercises {
		detected, err := d.DetectForExercise(ctx, session, exercise.ExerciseID)
		if err != nil {
			return nil, fmt.Errorf("detect for exercise %s: %w", exercise.ExerciseID, err)
		}
		newRecords = append(newRecords, detected...)
	}

	span.SetAttributes(attribute.Int("records.new", len(newRecords)))
	return newRecords, nil
}

// checkCandidate appends a new record when the candidate strictly beats the
// stored best. Equal values never create a record, so repeating the same
// performance does not spam record rows.
func (d *Detector) checkCandidate(
	ctx context.Context,
	sessionID string,
	exerciseID string,
	recType workout.RecordType,
	candidate float64,
) (*workout.PersonalRecord, error) {
	best, err := d.records.Best(ctx, exerciseID, recType)
	switch {
	case errors.Is(err, store.ErrRecordNotFound):
		// first ever performance for this pair, the candidate wins
	case err != nil:
		return nil, fmt.Errorf("get best %s/%s: %w", exerciseID, recType, err)
	case candidate <= best.Value:
		return nil, nil
	}

	record, err := d.records.Add(ctx, workout.PersonalRecord{
		ID:         uuid.NewString(),
		ExerciseID: exerciseID,
		Type:       recType,
		Value:      candidate,
		AchievedAt: d.nowFunc(),
		SessionID:  sessionID,
	})
	if err != nil {
		return nil, fmt.Errorf("add record %s/%s: %w", exerciseID, recType, err)
	}

	log.Debugf("new personal record: %s %s %.2f", exerciseID, recType, candidate)
	return record, nil
}

// exerciseCandidates computes the record candidates from the sets logged so
// far in this session. An exercise with no sets yields no candidates.
func exerciseCandidates(exercise *workout.SessionExercise) map[workout.RecordType]float64 {
	if len(exercise.Sets) == 0 {
		return nil
	}

	var maxWeight, maxReps float64
	for _, set := range exercise.Sets {
		if set.Weight > maxWeight {
			maxWeight = set.Weight
		}
		if reps := float64(set.Reps); reps > maxReps {
			maxReps = reps
		}
	}

	return map[workout.RecordType]float64{
		workout.RecordMaxWeight:        maxWeight,
		workout.RecordMaxReps:          maxReps,
		workout.RecordMaxSessionVolume: exercise.Volume(),
	}
}
