// Package session owns the workout session lifecycle: at most one session is
// active per process, and every mutation runs through the single Service
// instance constructed at startup.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/liftlog/internal/catalog"
	"github.com/2beens/liftlog/internal/telemetry/metrics"
	"github.com/2beens/liftlog/internal/telemetry/tracing"
	"github.com/2beens/liftlog/internal/workout"
	"github.com/2beens/liftlog/internal/workout/records"
	"github.com/2beens/liftlog/internal/workout/store"
	"github.com/2beens/liftlog/internal/workout/timer"
)

// Observer receives a fresh state snapshot after every successful mutation.
// Observers are called synchronously, in registration order.
type Observer func(snapshot workout.Snapshot)

type StartParams struct {
	TemplateID string `json:"templateId,omitempty"`
	Name       string `json:"name,omitempty"`
}

type LogSetParams struct {
	ExerciseID       string  `json:"exerciseId"`
	Reps             int     `json:"reps"`
	Weight           float64 `json:"weight"`
	Notes            string  `json:"notes,omitempty"`
	Difficulty       int     `json:"difficulty,omitempty"`
	RestTakenSeconds int     `json:"restTakenSeconds,omitempty"`
}

type NewServiceParams struct {
	Sessions store.Sessions
	Records  store.Records
	Detector *records.Detector
	Catalog  *catalog.Catalog
	Timer    *timer.RestTimer
	Prefs    workout.Preferences
	Metrics  *metrics.Manager

	// optional, tests only
	NowFunc              func() time.Time
	DurationTickInterval time.Duration
}

// Service is the single authoritative owner of session mutation state.
// Handlers and the MCP surface all go through the same instance; a mutex
// keeps the check-then-mutate sequences from interleaving.
type Service struct {
	mutex sync.Mutex

	sessions store.Sessions
	records  store.Records
	detector *records.Detector
	catalog  *catalog.Catalog
	timer    *timer.RestTimer
	prefs    workout.Preferences
	metrics  *metrics.Manager

	active            *workout.Session
	currentExerciseID string
	recording         bool

	observers      []registeredObserver
	nextObserverID int

	durationTickStop     chan struct{}
	durationTickInterval time.Duration
	nowFunc              func() time.Time
}

type registeredObserver struct {
	id int
	fn Observer
}

func NewService(params NewServiceParams) *Service {
	service := &Service{
		sessions:             params.Sessions,
		records:              params.Records,
		detector:             params.Detector,
		catalog:              params.Catalog,
		timer:                params.Timer,
		prefs:                params.Prefs,
		metrics:              params.Metrics,
		durationTickInterval: time.Minute,
		nowFunc:              time.Now,
	}
	if params.NowFunc != nil {
		service.nowFunc = params.NowFunc
	}
	if params.DurationTickInterval > 0 {
		service.durationTickInterval = params.DurationTickInterval
	}
	return service
}

// Start opens a new session. When a template id is given, its exercise list
// is expanded into empty session exercises with the template targets copied
// over; template entries pointing at unknown catalog exercises are skipped.
func (s *Service) Start(ctx context.Context, params StartParams) (_ *workout.Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "session.start")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.active != nil {
		return nil, workout.ErrSessionInProgress
	}

	now := s.nowFunc()
	session := &workout.Session{
		ID:         uuid.NewString(),
		Name:       params.Name,
		CreatedAt:  now,
		StartedAt:  now,
		Exercises:  make([]*workout.SessionExercise, 0),
		TemplateID: params.TemplateID,
	}
	if session.Name == "" {
		session.Name = now.Format("Mon Jan 2") + " workout"
	}

	if params.TemplateID != "" {
		s.expandTemplate(session, params.TemplateID)
	}

	if err := s.sessions.Put(ctx, session); err != nil {
		return nil, fmt.Errorf("persist new session: %w", err)
	}

	s.active = session
	s.currentExerciseID = ""
	s.startDurationTick()

	s.metrics.CounterSessionsStarted.Inc()
	s.metrics.GaugeActiveSession.Set(1)
	span.SetAttributes(attribute.String("session.id", session.ID))
	log.Debugf("session %s started", session.ID)

	s.notifyObservers()
	return session.Copy(), nil
}

// End finalizes the active session: stamps the end, fixes duration and
// volume, runs a catch-up record detection pass and persists the final
// state. The duration tick and any running rest timer are stopped before
// returning.
func (s *Service) End(ctx context.Context) (_ *workout.Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "session.end")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.active == nil {
		return nil, workout.ErrNoActiveSession
	}

	ended := s.active.Copy()
	now := s.nowFunc()
	ended.EndedAt = &now
	ended.DurationMinutes = ended.Duration(now)
	ended.TotalVolume = ended.Volume()

	detected, err := s.detector.DetectAll(ctx, ended)
	if err != nil {
		return nil, fmt.Errorf("final record detection: %w", err)
	}
	s.countRecords(detected)

	if err := s.sessions.Put(ctx, ended); err != nil {
		return nil, fmt.Errorf("persist ended session: %w", err)
	}

	s.active = nil
	s.currentExerciseID = ""
	s.stopDurationTick()
	s.timer.Stop()

	s.metrics.CounterSessionsFinished.Inc()
	s.metrics.GaugeActiveSession.Set(0)
	s.metrics.HistSessionDurationMinutes.Observe(float64(ended.DurationMinutes))
	span.SetAttributes(
		attribute.String("session.id", ended.ID),
		attribute.Int("session.duration.minutes", ended.DurationMinutes),
		attribute.Int("records.new", len(detected)),
	)
	log.Debugf("session %s ended after %d minutes, volume %.1f",
		ended.ID, ended.DurationMinutes, ended.TotalVolume)

	s.notifyObservers()
	return ended.Copy(), nil
}

// LogSet appends a completed set to the active session. The target exercise
// is created on the fly when the session does not carry it yet. All derived
// state is computed on a working copy and persisted before anything becomes
// visible to snapshot readers or observers.
func (s *Service) LogSet(ctx context.Context, params LogSetParams) (_ *workout.SetRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "session.logSet")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("exercise.id", params.ExerciseID))

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.active == nil {
		return nil, workout.ErrNoActiveSession
	}

	working := s.active.Copy()
	exercise := working.FindExercise(params.ExerciseID)
	if exercise == nil {
		exercise = s.newSessionExercise(params.ExerciseID, len(working.Exercises))
		working.Exercises = append(working.Exercises, exercise)
	}

	set := workout.SetRecord{
		ID:               uuid.NewString(),
		Reps:             params.Reps,
		Weight:           params.Weight,
		Notes:            params.Notes,
		Difficulty:       params.Difficulty,
		CompletedAt:      s.nowFunc(),
		RestTakenSeconds: params.RestTakenSeconds,
	}
	exercise.Sets = append(exercise.Sets, set)
	working.TotalVolume = working.Volume()

	if err := s.sessions.Put(ctx, working); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}

	s.active = working
	s.currentExerciseID = params.ExerciseID
	s.metrics.CounterSetsLogged.Inc()

	detected, err := s.detector.DetectForExercise(ctx, working, params.ExerciseID)
	if err != nil {
		// the set is already persisted, record detection catches up at
		// session end
		log.Errorf("incremental record detection for %s: %s", params.ExerciseID, err)
	}
	s.countRecords(detected)

	if s.prefs.AutoStartRestTimer && s.prefs.DefaultRestTimeSeconds > 0 {
		s.timer.Start(s.prefs.DefaultRestTimeSeconds)
	}

	span.SetAttributes(
		attribute.Float64("session.volume", working.TotalVolume),
		attribute.Int("records.new", len(detected)),
	)
	log.Tracef("set logged: %s %dx%.1f, session volume %.1f",
		params.ExerciseID, params.Reps, params.Weight, working.TotalVolume)

	s.notifyObservers()
	return &set, nil
}

// LogVoiceSet validates parser output and forwards it to LogSet. Any field
// the parser failed to resolve rejects the whole log.
func (s *Service) LogVoiceSet(ctx context.Context, voiceLog workout.VoiceLog) (_ *workout.SetRecord, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "session.logVoiceSet")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if voiceLog.ExerciseID == "" || voiceLog.Reps == nil || voiceLog.Weight == nil {
		return nil, workout.ErrInvalidVoiceLog
	}
	if *voiceLog.Reps <= 0 || *voiceLog.Weight < 0 {
		return nil, workout.ErrInvalidVoiceLog
	}

	set, err := s.LogSet(ctx, LogSetParams{
		ExerciseID: voiceLog.ExerciseID,
		Reps:       *voiceLog.Reps,
		Weight:     *voiceLog.Weight,
	})
	if err != nil {
		return nil, err
	}

	s.metrics.CounterVoiceSetsLogged.Inc()
	return set, nil
}

// Snapshot assembles a read-only projection of the current workout state.
// Everything referenced is deep-copied.
func (s *Service) Snapshot() workout.Snapshot {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.snapshotLocked()
}

func (s *Service) snapshotLocked() workout.Snapshot {
	snapshot := workout.Snapshot{
		CurrentSetCount:      0,
		LastSetIndex:         -1,
		Recording:            s.recording,
		Preferences:          s.prefs,
		RestSecondsRemaining: s.timer.Remaining(),
		RestTimerState:       s.timer.State().String(),
	}

	if s.active == nil {
		return snapshot
	}

	snapshot.ActiveSession = s.active.Copy()
	if exercise := snapshot.ActiveSession.FindExercise(s.currentExerciseID); exercise != nil {
		snapshot.CurrentExercise = exercise
		snapshot.CurrentSetCount = len(exercise.Sets)
		snapshot.LastSetIndex = len(exercise.Sets) - 1
	}
	return snapshot
}

// Subscribe registers an observer and returns its cancel func. Cancelling
// twice is harmless.
func (s *Service) Subscribe(observer Observer) (cancel func()) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	id := s.nextObserverID
	s.nextObserverID++
	s.observers = append(s.observers, registeredObserver{id: id, fn: observer})

	return func() {
		s.mutex.Lock()
		defer s.mutex.Unlock()
		for i, reg := range s.observers {
			if reg.id == id {
				s.observers = append(s.observers[:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

// SetRecording flags whether a voice recording is in progress. Pure snapshot
// state for the consuming clients.
func (s *Service) SetRecording(recording bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.recording = recording
	s.notifyObservers()
}

// StartRestTimer starts a manual countdown, falling back to the preferred
// default duration when seconds is zero.
func (s *Service) StartRestTimer(seconds int) {
	if seconds <= 0 {
		seconds = s.prefs.DefaultRestTimeSeconds
	}
	s.timer.Start(seconds)
}

func (s *Service) StopRestTimer() {
	s.timer.Stop()
}

func (s *Service) RestTimer() *timer.RestTimer {
	return s.timer
}

// Session fetches a stored session by id.
func (s *Service) Session(ctx context.Context, id string) (_ *workout.Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "session.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("session.id", id))

	return s.sessions.Get(ctx, id)
}

// Sessions lists stored sessions, optionally bounded by start timestamp.
func (s *Service) Sessions(ctx context.Context, params store.SessionParams) (_ []*workout.Session, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "session.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return s.sessions.List(ctx, params)
}

// DeleteSession removes a stored session. The active session cannot be
// deleted, it has to be ended first.
func (s *Service) DeleteSession(ctx context.Context, id string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "session.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("session.id", id))

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.active != nil && s.active.ID == id {
		return workout.ErrActiveSessionDelete
	}
	return s.sessions.Delete(ctx, id)
}

// Close stops background ticking. Used at service shutdown; an active
// session stays stored and can be ended after a restart.
func (s *Service) Close() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.stopDurationTick()
	s.timer.Stop()
}

func (s *Service) expandTemplate(session *workout.Session, templateID string) {
	template, ok := s.catalog.TemplateByID(templateID)
	if !ok {
		log.Warnf("session start: unknown template %q, starting empty", templateID)
		return
	}

	for _, templateExercise := range template.Exercises {
		exercise, ok := s.catalog.ExerciseByID(templateExercise.ExerciseID)
		if !ok {
			log.Warnf("template %s: skipping unknown exercise %q", templateID, templateExercise.ExerciseID)
			continue
		}
		session.Exercises = append(session.Exercises, &workout.SessionExercise{
			ID:           uuid.NewString(),
			ExerciseID:   exercise.ID,
			Name:         exercise.Name,
			MuscleGroup:  exercise.MuscleGroup,
			Sets:         make([]workout.SetRecord, 0),
			TargetSets:   templateExercise.TargetSets,
			TargetReps:   templateExercise.TargetReps,
			TargetWeight: templateExercise.TargetWeight,
			Order:        len(session.Exercises),
		})
	}
}

// newSessionExercise denormalizes catalog data into a fresh session
// exercise. Unknown ids still get logged against, with the id standing in
// for the display name.
func (s *Service) newSessionExercise(exerciseID string, order int) *workout.SessionExercise {
	exercise := &workout.SessionExercise{
		ID:         uuid.NewString(),
		ExerciseID: exerciseID,
		Name:       exerciseID,
		Sets:       make([]workout.SetRecord, 0),
		Order:      order,
	}
	if catalogExercise, ok := s.catalog.ExerciseByID(exerciseID); ok {
		exercise.Name = catalogExercise.Name
		exercise.MuscleGroup = catalogExercise.MuscleGroup
	}
	return exercise
}

func (s *Service) countRecords(detected []workout.PersonalRecord) {
	for _, record := range detected {
		s.metrics.CounterPersonalRecords.WithLabelValues(record.Type.String()).Inc()
	}
}

// notifyObservers must be called with the mutex held, after the mutation
// has been persisted.
func (s *Service) notifyObservers() {
	if len(s.observers) == 0 {
		return
	}
	snapshot := s.snapshotLocked()
	for _, reg := range s.observers {
		reg.fn(snapshot)
	}
}

// startDurationTick refreshes the displayed duration of the active session
// once per minute. Cosmetic only, the authoritative duration is computed
// from wall-clock timestamps at session end.
func (s *Service) startDurationTick() {
	s.stopDurationTick()
	stopCh := make(chan struct{})
	s.durationTickStop = stopCh

	go func() {
		ticker := time.NewTicker(s.durationTickInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stopCh:
				return
			case <-ticker.C:
				s.refreshDuration(stopCh)
			}
		}
	}()
}

func (s *Service) refreshDuration(stopCh chan struct{}) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	// session ended between tick and lock acquisition
	if s.durationTickStop != stopCh || s.active == nil {
		return
	}
	s.active.DurationMinutes = s.active.Duration(s.nowFunc())
	s.notifyObservers()
}

func (s *Service) stopDurationTick() {
	if s.durationTickStop != nil {
		close(s.durationTickStop)
		s.durationTickStop = nil
	}
}
