// Package progress computes training analytics from stored sessions and
// personal records. Everything here is read-only and recomputed on demand;
// a personal training history is small enough that nothing needs caching.
package progress

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/liftlog/internal/telemetry/tracing"
	"github.com/2beens/liftlog/internal/workout"
	"github.com/2beens/liftlog/internal/workout/store"
)

// defaultTargetSets is assumed for exercises logged without a plan.
const defaultTargetSets = 3

// StrengthProgress tracks max-weight development for one exercise.
// ImprovementPercent is 0 when only a single record exists.
type StrengthProgress struct {
	ExerciseID         string    `json:"exerciseId"`
	LatestValue        float64   `json:"latestValue"`
	PreviousValue      float64   `json:"previousValue,omitempty"`
	ImprovementPercent float64   `json:"improvementPercent"`
	AchievedAt         time.Time `json:"achievedAt"`
	RecordsCount       int       `json:"recordsCount"`
}

// VolumePoint is one session's volume contribution to the trend line.
type VolumePoint struct {
	SessionID         string             `json:"sessionId"`
	Date              time.Time          `json:"date"`
	TotalVolume       float64            `json:"totalVolume"`
	PerExerciseVolume map[string]float64 `json:"perExerciseVolume"`
}

type FrequencyMetrics struct {
	WorkoutsPerWeek        int     `json:"workoutsPerWeek"`
	AverageDurationMinutes float64 `json:"averageDurationMinutes"`
	Consistency            float64 `json:"consistency"`
}

type PerformanceMetrics struct {
	AverageRestTimeSeconds float64 `json:"averageRestTimeSeconds"`
	SetCompletionRate      float64 `json:"setCompletionRate"`
}

// Overview bundles all analytics for a single round trip.
type Overview struct {
	Strength    []StrengthProgress `json:"strength"`
	Volume      []VolumePoint      `json:"volume"`
	Frequency   FrequencyMetrics   `json:"frequency"`
	Performance PerformanceMetrics `json:"performance"`
}

type Analyzer struct {
	sessions store.Sessions
	records  store.Records
	nowFunc  func() time.Time
}

func NewAnalyzer(sessions store.Sessions, records store.Records) *Analyzer {
	return NewAnalyzerWithNow(sessions, records, time.Now)
}

// NewAnalyzerWithNow pins the clock, needed by the trailing-week window in
// Frequency.
func NewAnalyzerWithNow(sessions store.Sessions, records store.Records, nowFunc func() time.Time) *Analyzer {
	return &Analyzer{
		sessions: sessions,
		records:  records,
		nowFunc:  nowFunc,
	}
}

// Strength groups max-weight records by exercise and reports the latest
// value with its improvement over the previous record.
func (a *Analyzer) Strength(ctx context.Context) (_ []StrengthProgress, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "progress.strength")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	maxWeight := workout.RecordMaxWeight
	allRecords, err := a.records.List(ctx, store.RecordParams{Type: &maxWeight})
	if err != nil {
		return nil, fmt.Errorf("list max weight records: %w", err)
	}

	// records arrive chronological, so per-exercise groups stay sorted
	byExercise := make(map[string][]workout.PersonalRecord)
	for _, rec := range allRecords {
		byExercise[rec.ExerciseID] = append(byExercise[rec.ExerciseID], rec)
	}

	result := make([]StrengthProgress, 0, len(byExercise))
	for exerciseID, recs := range byExercise {
		latest := recs[len(recs)-1]
		sp := StrengthProgress{
			ExerciseID:   exerciseID,
			LatestValue:  latest.Value,
			AchievedAt:   latest.AchievedAt,
			RecordsCount: len(recs),
		}
		if len(recs) > 1 {
			previous := recs[len(recs)-2]
			sp.PreviousValue = previous.Value
			if previous.Value != 0 {
				sp.ImprovementPercent = (latest.Value - previous.Value) / previous.Value * 100
			}
		}
		result = append(result, sp)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ExerciseID < result[j].ExerciseID
	})

	span.SetAttributes(attribute.Int("exercises", len(result)))
	return result, nil
}

// Volume emits one point per stored session, oldest first.
func (a *Analyzer) Volume(ctx context.Context) (_ []VolumePoint, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "progress.volume")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	sessions, err := a.sessions.List(ctx, store.SessionParams{})
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	points := make([]VolumePoint, 0, len(sessions))
	for _, session := range sessions {
		perExercise := make(map[string]float64)
		for _, exercise := range session.Exercises {
			perExercise[exercise.ExerciseID] += exercise.Volume()
		}
		points = append(points, VolumePoint{
			SessionID:         session.ID,
			Date:              session.StartedAt,
			TotalVolume:       session.Volume(),
			PerExerciseVolume: perExercise,
		})
	}

	span.SetAttributes(attribute.Int("sessions", len(points)))
	return points, nil
}

// Frequency computes workouts per trailing week, the mean duration of ended
// sessions and a consistency score from the variance of inter-session gaps.
func (a *Analyzer) Frequency(ctx context.Context) (_ FrequencyMetrics, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "progress.frequency")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	sessions, err := a.sessions.List(ctx, store.SessionParams{})
	if err != nil {
		return FrequencyMetrics{}, fmt.Errorf("list sessions: %w", err)
	}

	now := a.nowFunc()
	weekAgo := now.AddDate(0, 0, -7)

	var workoutsPerWeek int
	var durationSum float64
	var endedCount int
	for _, session := range sessions {
		if session.StartedAt.After(weekAgo) && !session.StartedAt.After(now) {
			workoutsPerWeek++
		}
		// sessions never properly ended carry no usable duration
		if session.EndedAt != nil {
			durationSum += float64(session.DurationMinutes)
			endedCount++
		}
	}

	metrics := FrequencyMetrics{
		WorkoutsPerWeek: workoutsPerWeek,
		Consistency:     consistencyScore(sessions),
	}
	if endedCount > 0 {
		metrics.AverageDurationMinutes = durationSum / float64(endedCount)
	}
	return metrics, nil
}

// Performance averages observed rest times and reports set completion
// against planned sets. Completion over 100 means the plan was exceeded and
// is reported as-is.
func (a *Analyzer) Performance(ctx context.Context) (_ PerformanceMetrics, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "progress.performance")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	sessions, err := a.sessions.List(ctx, store.SessionParams{})
	if err != nil {
		return PerformanceMetrics{}, fmt.Errorf("list sessions: %w", err)
	}

	var restSum float64
	var restCount int
	var completedSets, plannedSets int
	for _, session := range sessions {
		for _, exercise := range session.Exercises {
			targetSets := exercise.TargetSets
			if targetSets == 0 {
				targetSets = defaultTargetSets
			}
			plannedSets += targetSets
			completedSets += len(exercise.Sets)

			for _, set := range exercise.Sets {
				if set.RestTakenSeconds > 0 {
					restSum += float64(set.RestTakenSeconds)
					restCount++
				}
			}
		}
	}

	var metrics PerformanceMetrics
	if restCount > 0 {
		metrics.AverageRestTimeSeconds = restSum / float64(restCount)
	}
	if plannedSets > 0 {
		metrics.SetCompletionRate = float64(completedSets) / float64(plannedSets) * 100
	}
	return metrics, nil
}

func (a *Analyzer) Overview(ctx context.Context) (_ *Overview, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "progress.overview")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	strength, err := a.Strength(ctx)
	if err != nil {
		return nil, err
	}
	volume, err := a.Volume(ctx)
	if err != nil {
		return nil, err
	}
	frequency, err := a.Frequency(ctx)
	if err != nil {
		return nil, err
	}
	performance, err := a.Performance(ctx)
	if err != nil {
		return nil, err
	}

	return &Overview{
		Strength:    strength,
		Volume:      volume,
		Frequency:   frequency,
		Performance: performance,
	}, nil
}

// consistencyScore maps the variance of day gaps between consecutive
// sessions onto [0,100]. Fewer than two sessions cannot show irregularity
// and score a full 100.
func consistencyScore(sessions []*workout.Session) float64 {
	if len(sessions) < 2 {
		return 100
	}

	gaps := make([]float64, 0, len(sessions)-1)
	for i := 1; i < len(sessions); i++ {
		gapDays := sessions[i].StartedAt.Sub(sessions[i-1].StartedAt).Hours() / 24
		gaps = append(gaps, gapDays)
	}

	var mean float64
	for _, gap := range gaps {
		mean += gap
	}
	mean /= float64(len(gaps))

	var variance float64
	for _, gap := range gaps {
		variance += (gap - mean) * (gap - mean)
	}
	variance /= float64(len(gaps))

	score := 100 - math.Sqrt(variance)*10
	return math.Max(0, math.Min(100, score))
}
