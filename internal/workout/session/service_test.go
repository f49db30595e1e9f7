package session_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/2beens/liftlog/internal/catalog"
	"github.com/2beens/liftlog/internal/telemetry/metrics"
	"github.com/2beens/liftlog/internal/workout"
	"github.com/2beens/liftlog/internal/workout/records"
	"github.com/2beens/liftlog/internal/workout/session"
	"github.com/2beens/liftlog/internal/workout/store"
	"github.com/2beens/liftlog/internal/workout/timer"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type serviceFixture struct {
	service  *session.Service
	sessions *store.InMemorySessions
	records  *store.InMemoryRecords
	timer    *timer.RestTimer
	now      time.Time
}

func newServiceFixture(t *testing.T, prefs workout.Preferences) *serviceFixture {
	t.Helper()

	sessionsStore := store.NewInMemorySessions()
	recordsStore := store.NewInMemoryRecords()
	restTimer := timer.NewWithInterval(5 * time.Millisecond)

	fixture := &serviceFixture{
		sessions: sessionsStore,
		records:  recordsStore,
		timer:    restTimer,
		now:      time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC),
	}

	fixture.service = session.NewService(session.NewServiceParams{
		Sessions: sessionsStore,
		Records:  recordsStore,
		Detector: records.NewDetector(recordsStore),
		Catalog:  catalog.New(),
		Timer:    restTimer,
		Prefs:    prefs,
		Metrics:  metrics.NewTestManager(),
		NowFunc:  func() time.Time { return fixture.now },
	})
	t.Cleanup(fixture.service.Close)

	return fixture
}

func TestService_SingleActiveSessionInvariant(t *testing.T) {
	ctx := context.Background()
	fixture := newServiceFixture(t, workout.Preferences{})

	first, err := fixture.service.Start(ctx, session.StartParams{Name: "morning push"})
	require.NoError(t, err)
	assert.True(t, first.Active())
	assert.Equal(t, "morning push", first.Name)

	_, err = fixture.service.Start(ctx, session.StartParams{})
	assert.ErrorIs(t, err, workout.ErrSessionInProgress)

	fixture.now = fixture.now.Add(45 * time.Minute)
	ended, err := fixture.service.End(ctx)
	require.NoError(t, err)
	assert.False(t, ended.Active())
	assert.Equal(t, 45, ended.DurationMinutes)

	_, err = fixture.service.End(ctx)
	assert.ErrorIs(t, err, workout.ErrNoActiveSession)

	// a new session may start once the previous one ended
	_, err = fixture.service.Start(ctx, session.StartParams{})
	require.NoError(t, err)
}

func TestService_LogSetVolume(t *testing.T) {
	ctx := context.Background()
	fixture := newServiceFixture(t, workout.Preferences{})

	_, err := fixture.service.Start(ctx, session.StartParams{})
	require.NoError(t, err)

	_, err = fixture.service.LogSet(ctx, session.LogSetParams{ExerciseID: "bench-press", Reps: 10, Weight: 100})
	require.NoError(t, err)
	set, err := fixture.service.LogSet(ctx, session.LogSetParams{ExerciseID: "bench-press", Reps: 8, Weight: 120})
	require.NoError(t, err)
	assert.NotEmpty(t, set.ID)

	snapshot := fixture.service.Snapshot()
	require.NotNil(t, snapshot.ActiveSession)
	assert.Equal(t, float64(100*10+120*8), snapshot.ActiveSession.TotalVolume)
	assert.Equal(t, float64(1960), snapshot.ActiveSession.TotalVolume)

	// the catalog name is denormalized onto the session exercise
	exercise := snapshot.ActiveSession.FindExercise("bench-press")
	require.NotNil(t, exercise)
	assert.Equal(t, "Bench Press", exercise.Name)
	assert.Equal(t, "chest", exercise.MuscleGroup)
}

func TestService_LogSetWithoutActiveSession(t *testing.T) {
	ctx := context.Background()
	fixture := newServiceFixture(t, workout.Preferences{})

	_, err := fixture.service.LogSet(ctx, session.LogSetParams{ExerciseID: "bench-press", Reps: 10, Weight: 100})
	assert.ErrorIs(t, err, workout.ErrNoActiveSession)
}

func TestService_EndToEnd(t *testing.T) {
	ctx := context.Background()
	fixture := newServiceFixture(t, workout.Preferences{})

	started, err := fixture.service.Start(ctx, session.StartParams{})
	require.NoError(t, err)

	_, err = fixture.service.LogSet(ctx, session.LogSetParams{ExerciseID: "bench-press", Reps: 8, Weight: 135})
	require.NoError(t, err)
	_, err = fixture.service.LogSet(ctx, session.LogSetParams{ExerciseID: "bench-press", Reps: 6, Weight: 145})
	require.NoError(t, err)

	fixture.now = fixture.now.Add(30 * time.Minute)
	ended, err := fixture.service.End(ctx)
	require.NoError(t, err)

	assert.Equal(t, started.ID, ended.ID)
	assert.Equal(t, 2, ended.SetsCount())
	assert.Equal(t, float64(135*8+145*6), ended.TotalVolume)
	assert.Equal(t, float64(1950), ended.TotalVolume)

	maxWeight, err := fixture.records.Best(ctx, "bench-press", workout.RecordMaxWeight)
	require.NoError(t, err)
	assert.Equal(t, float64(145), maxWeight.Value)
	assert.Equal(t, started.ID, maxWeight.SessionID)

	maxReps, err := fixture.records.Best(ctx, "bench-press", workout.RecordMaxReps)
	require.NoError(t, err)
	assert.Equal(t, float64(8), maxReps.Value)

	// the finalized session is persisted
	stored, err := fixture.sessions.Get(ctx, started.ID)
	require.NoError(t, err)
	assert.False(t, stored.Active())
	assert.Equal(t, 30, stored.DurationMinutes)
}

func TestService_TemplateExpansion(t *testing.T) {
	ctx := context.Background()

	testCatalog := catalog.NewWithData(
		[]catalog.Exercise{
			{ID: "bench-press", Name: "Bench Press", MuscleGroup: "chest"},
			{ID: "squat", Name: "Squat", MuscleGroup: "legs"},
		},
		[]catalog.Template{
			{
				ID:   "test-day",
				Name: "Test Day",
				Exercises: []catalog.TemplateExercise{
					{ExerciseID: "bench-press", TargetSets: 4, TargetReps: 8, TargetWeight: 100},
					{ExerciseID: "gone-from-catalog", TargetSets: 3, TargetReps: 10},
					{ExerciseID: "squat", TargetSets: 5, TargetReps: 5, TargetWeight: 140},
				},
			},
		},
	)

	sessionsStore := store.NewInMemorySessions()
	recordsStore := store.NewInMemoryRecords()
	service := session.NewService(session.NewServiceParams{
		Sessions: sessionsStore,
		Records:  recordsStore,
		Detector: records.NewDetector(recordsStore),
		Catalog:  testCatalog,
		Timer:    timer.NewWithInterval(5 * time.Millisecond),
		Metrics:  metrics.NewTestManager(),
	})
	t.Cleanup(service.Close)

	started, err := service.Start(ctx, session.StartParams{TemplateID: "test-day"})
	require.NoError(t, err)

	// the unresolvable template exercise is skipped, not fatal
	require.Len(t, started.Exercises, 2)
	assert.Equal(t, "bench-press", started.Exercises[0].ExerciseID)
	assert.Equal(t, 4, started.Exercises[0].TargetSets)
	assert.Equal(t, float64(100), started.Exercises[0].TargetWeight)
	assert.Empty(t, started.Exercises[0].Sets)
	assert.Equal(t, "squat", started.Exercises[1].ExerciseID)
	assert.Equal(t, 1, started.Exercises[1].Order)
	assert.Equal(t, "test-day", started.TemplateID)
}

func TestService_UnknownTemplateStartsEmpty(t *testing.T) {
	ctx := context.Background()
	fixture := newServiceFixture(t, workout.Preferences{})

	started, err := fixture.service.Start(ctx, session.StartParams{TemplateID: "no-such-template"})
	require.NoError(t, err)
	assert.Empty(t, started.Exercises)
}

func TestService_VoiceLogValidation(t *testing.T) {
	ctx := context.Background()
	fixture := newServiceFixture(t, workout.Preferences{})

	_, err := fixture.service.Start(ctx, session.StartParams{})
	require.NoError(t, err)

	reps := 8
	weight := 100.0

	for name, voiceLog := range map[string]workout.VoiceLog{
		"missing exercise": {Reps: &reps, Weight: &weight},
		"missing reps":     {ExerciseID: "bench-press", Weight: &weight},
		"missing weight":   {ExerciseID: "bench-press", Reps: &reps},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := fixture.service.LogVoiceSet(ctx, voiceLog)
			assert.ErrorIs(t, err, workout.ErrInvalidVoiceLog)
		})
	}

	set, err := fixture.service.LogVoiceSet(ctx, workout.VoiceLog{
		ExerciseID: "bench-press",
		Reps:       &reps,
		Weight:     &weight,
	})
	require.NoError(t, err)
	assert.Equal(t, 8, set.Reps)
	assert.Equal(t, 100.0, set.Weight)
}

func TestService_RestTimerAutoStart(t *testing.T) {
	ctx := context.Background()
	fixture := newServiceFixture(t, workout.Preferences{
		DefaultRestTimeSeconds: 90,
		AutoStartRestTimer:     true,
	})

	_, err := fixture.service.Start(ctx, session.StartParams{})
	require.NoError(t, err)
	require.Equal(t, timer.StateIdle, fixture.timer.State())

	_, err = fixture.service.LogSet(ctx, session.LogSetParams{ExerciseID: "bench-press", Reps: 8, Weight: 100})
	require.NoError(t, err)
	assert.Equal(t, timer.StateRunning, fixture.timer.State())

	// ending the session force-stops the timer
	_, err = fixture.service.End(ctx)
	require.NoError(t, err)
	assert.Equal(t, timer.StateIdle, fixture.timer.State())
	assert.Equal(t, 0, fixture.timer.Remaining())
}

func TestService_RestTimerNoAutoStart(t *testing.T) {
	ctx := context.Background()
	fixture := newServiceFixture(t, workout.Preferences{
		DefaultRestTimeSeconds: 90,
		AutoStartRestTimer:     false,
	})

	_, err := fixture.service.Start(ctx, session.StartParams{})
	require.NoError(t, err)
	_, err = fixture.service.LogSet(ctx, session.LogSetParams{ExerciseID: "bench-press", Reps: 8, Weight: 100})
	require.NoError(t, err)
	assert.Equal(t, timer.StateIdle, fixture.timer.State())
}

func TestService_Observers(t *testing.T) {
	ctx := context.Background()
	fixture := newServiceFixture(t, workout.Preferences{})

	var order []string
	cancelFirst := fixture.service.Subscribe(func(snapshot workout.Snapshot) {
		order = append(order, "first")
	})
	fixture.service.Subscribe(func(snapshot workout.Snapshot) {
		order = append(order, "second")
	})

	_, err := fixture.service.Start(ctx, session.StartParams{})
	require.NoError(t, err)
	// registration order is preserved
	assert.Equal(t, []string{"first", "second"}, order)

	order = nil
	cancelFirst()
	cancelFirst() // cancelling twice is harmless

	_, err = fixture.service.LogSet(ctx, session.LogSetParams{ExerciseID: "bench-press", Reps: 8, Weight: 100})
	require.NoError(t, err)
	assert.Equal(t, []string{"second"}, order)
}

func TestService_ObserverSeesPersistedState(t *testing.T) {
	ctx := context.Background()
	fixture := newServiceFixture(t, workout.Preferences{})

	_, err := fixture.service.Start(ctx, session.StartParams{})
	require.NoError(t, err)

	var observed workout.Snapshot
	fixture.service.Subscribe(func(snapshot workout.Snapshot) {
		observed = snapshot
	})

	_, err = fixture.service.LogSet(ctx, session.LogSetParams{ExerciseID: "bench-press", Reps: 10, Weight: 100})
	require.NoError(t, err)

	require.NotNil(t, observed.ActiveSession)
	assert.Equal(t, float64(1000), observed.ActiveSession.TotalVolume)
	require.NotNil(t, observed.CurrentExercise)
	assert.Equal(t, "bench-press", observed.CurrentExercise.ExerciseID)
	assert.Equal(t, 1, observed.CurrentSetCount)
	assert.Equal(t, 0, observed.LastSetIndex)

	// the notified session state matches what was persisted
	stored, err := fixture.sessions.Get(ctx, observed.ActiveSession.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(1000), stored.TotalVolume)
}

func TestService_SnapshotIdle(t *testing.T) {
	fixture := newServiceFixture(t, workout.Preferences{
		DefaultRestTimeSeconds: 120,
		WeightUnit:             workout.WeightUnitKilos,
	})

	snapshot := fixture.service.Snapshot()
	assert.Nil(t, snapshot.ActiveSession)
	assert.Nil(t, snapshot.CurrentExercise)
	assert.Equal(t, -1, snapshot.LastSetIndex)
	assert.False(t, snapshot.Recording)
	assert.Equal(t, 120, snapshot.Preferences.DefaultRestTimeSeconds)
	assert.Equal(t, timer.StateIdle.String(), snapshot.RestTimerState)
}

func TestService_SnapshotIsDetached(t *testing.T) {
	ctx := context.Background()
	fixture := newServiceFixture(t, workout.Preferences{})

	_, err := fixture.service.Start(ctx, session.StartParams{})
	require.NoError(t, err)
	_, err = fixture.service.LogSet(ctx, session.LogSetParams{ExerciseID: "bench-press", Reps: 10, Weight: 100})
	require.NoError(t, err)

	snapshot := fixture.service.Snapshot()
	snapshot.ActiveSession.Exercises[0].Sets[0].Weight = 999

	fresh := fixture.service.Snapshot()
	assert.Equal(t, float64(100), fresh.ActiveSession.Exercises[0].Sets[0].Weight)
}

func TestService_DeleteSession(t *testing.T) {
	ctx := context.Background()
	fixture := newServiceFixture(t, workout.Preferences{})

	active, err := fixture.service.Start(ctx, session.StartParams{})
	require.NoError(t, err)

	// the active session cannot be deleted
	err = fixture.service.DeleteSession(ctx, active.ID)
	assert.ErrorIs(t, err, workout.ErrActiveSessionDelete)

	_, err = fixture.service.End(ctx)
	require.NoError(t, err)

	require.NoError(t, fixture.service.DeleteSession(ctx, active.ID))
	_, err = fixture.service.Session(ctx, active.ID)
	assert.ErrorIs(t, err, store.ErrSessionNotFound)

	err = fixture.service.DeleteSession(ctx, "no-such-session")
	assert.ErrorIs(t, err, store.ErrSessionNotFound)
}

func TestService_SessionsRange(t *testing.T) {
	ctx := context.Background()
	fixture := newServiceFixture(t, workout.Preferences{})

	for day := 0; day < 3; day++ {
		fixture.now = time.Date(2025, 3, 10+day, 18, 0, 0, 0, time.UTC)
		_, err := fixture.service.Start(ctx, session.StartParams{})
		require.NoError(t, err)
		fixture.now = fixture.now.Add(time.Hour)
		_, err = fixture.service.End(ctx)
		require.NoError(t, err)
	}

	all, err := fixture.service.Sessions(ctx, store.SessionParams{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	from := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)
	ranged, err := fixture.service.Sessions(ctx, store.SessionParams{From: &from})
	require.NoError(t, err)
	assert.Len(t, ranged, 2)
}

func TestService_DurationTick(t *testing.T) {
	ctx := context.Background()

	sessionsStore := store.NewInMemorySessions()
	recordsStore := store.NewInMemoryRecords()
	var nowMutex sync.Mutex
	now := time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC)
	service := session.NewService(session.NewServiceParams{
		Sessions: sessionsStore,
		Records:  recordsStore,
		Detector: records.NewDetector(recordsStore),
		Catalog:  catalog.New(),
		Timer:    timer.NewWithInterval(5 * time.Millisecond),
		Metrics:  metrics.NewTestManager(),
		NowFunc: func() time.Time {
			nowMutex.Lock()
			defer nowMutex.Unlock()
			return now
		},
		DurationTickInterval: 5 * time.Millisecond,
	})
	t.Cleanup(service.Close)

	notified := make(chan workout.Snapshot, 16)
	service.Subscribe(func(snapshot workout.Snapshot) {
		select {
		case notified <- snapshot:
		default:
		}
	})

	_, err := service.Start(ctx, session.StartParams{})
	require.NoError(t, err)

	// drain the start notification, advance the clock, wait for a refresh
	<-notified
	nowMutex.Lock()
	now = now.Add(25 * time.Minute)
	nowMutex.Unlock()
	assert.Eventually(t, func() bool {
		select {
		case snapshot := <-notified:
			return snapshot.ActiveSession != nil && snapshot.ActiveSession.DurationMinutes == 25
		default:
			return false
		}
	}, time.Second, time.Millisecond)

	_, err = service.End(ctx)
	require.NoError(t, err)
}
