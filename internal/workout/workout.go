package workout

import (
	"math"
	"time"
)

type WeightUnit string

const (
	WeightUnitKilos  WeightUnit = "kg"
	WeightUnitPounds WeightUnit = "lbs"
)

// SetRecord is one completed set (weight x reps). Records are immutable once
// created - corrections are made by logging a new set, never by editing an
// old one.
type SetRecord struct {
	ID               string    `json:"id"`
	Reps             int       `json:"reps"`
	Weight           float64   `json:"weight"`
	Notes            string    `json:"notes,omitempty"`
	Difficulty       int       `json:"difficulty,omitempty"` // 1-5, 0 when not rated
	CompletedAt      time.Time `json:"completedAt"`
	RestTakenSeconds int       `json:"restTakenSeconds,omitempty"` // 0 when not observed
}

func (sr SetRecord) Volume() float64 {
	return sr.Weight * float64(sr.Reps)
}

// SessionExercise is one exercise's logged activity within a session. Name
// and MuscleGroup are denormalized from the catalog so old sessions survive
// catalog changes.
type SessionExercise struct {
	ID           string      `json:"id"`
	ExerciseID   string      `json:"exerciseId"`
	Name         string      `json:"name"`
	MuscleGroup  string      `json:"muscleGroup"`
	Sets         []SetRecord `json:"sets"`
	TargetSets   int         `json:"targetSets,omitempty"`
	TargetReps   int         `json:"targetReps,omitempty"`
	TargetWeight float64     `json:"targetWeight,omitempty"`
	Order        int         `json:"order"`
}

func (se *SessionExercise) Volume() float64 {
	var total float64
	for _, s := range se.Sets {
		total += s.Volume()
	}
	return total
}

func (se *SessionExercise) Copy() *SessionExercise {
	cp := *se
	cp.Sets = make([]SetRecord, len(se.Sets))
	copy(cp.Sets, se.Sets)
	return &cp
}

// Session is one continuous workout from start to end.
// EndedAt is nil while the session is active.
type Session struct {
	ID              string             `json:"id"`
	Name            string             `json:"name"`
	CreatedAt       time.Time          `json:"createdAt"`
	StartedAt       time.Time          `json:"startedAt"`
	EndedAt         *time.Time         `json:"endedAt,omitempty"`
	Exercises       []*SessionExercise `json:"exercises"`
	TotalVolume     float64            `json:"totalVolume"`
	DurationMinutes int                `json:"durationMinutes,omitempty"`
	TemplateID      string             `json:"templateId,omitempty"`
}

func (s *Session) Active() bool {
	return s.EndedAt == nil
}

// Volume recomputes the cumulative session volume from scratch. Full
// recomputation is cheap at realistic set counts and cannot drift.
func (s *Session) Volume() float64 {
	var total float64
	for _, ex := range s.Exercises {
		total += ex.Volume()
	}
	return total
}

// ExerciseVolume is the volume accumulated for a single exercise within this
// session.
func (s *Session) ExerciseVolume(exerciseID string) float64 {
	if ex := s.FindExercise(exerciseID); ex != nil {
		return ex.Volume()
	}
	return 0
}

func (s *Session) FindExercise(exerciseID string) *SessionExercise {
	for _, ex := range s.Exercises {
		if ex.ExerciseID == exerciseID {
			return ex
		}
	}
	return nil
}

// SetsCount is the total number of sets logged across all exercises.
func (s *Session) SetsCount() int {
	var count int
	for _, ex := range s.Exercises {
		count += len(ex.Sets)
	}
	return count
}

// Duration is the wall-clock session duration, rounded to whole minutes.
// Authoritative only once the session has ended.
func (s *Session) Duration(now time.Time) int {
	end := now
	if s.EndedAt != nil {
		end = *s.EndedAt
	}
	return int(math.Round(end.Sub(s.StartedAt).Minutes()))
}

// Copy returns a deep copy, safe to hand out across the service boundary.
func (s *Session) Copy() *Session {
	cp := *s
	if s.EndedAt != nil {
		endedAt := *s.EndedAt
		cp.EndedAt = &endedAt
	}
	cp.Exercises = make([]*SessionExercise, len(s.Exercises))
	for i, ex := range s.Exercises {
		cp.Exercises[i] = ex.Copy()
	}
	return &cp
}

// RecordType is a personal record metric tracked per exercise.
type RecordType string

const (
	// RecordMaxWeight - heaviest single set ever logged for the exercise.
	RecordMaxWeight RecordType = "max_weight"
	// RecordMaxReps - most reps in a single set, at any weight.
	RecordMaxReps RecordType = "max_reps"
	// RecordMaxSessionVolume - best single-session volume for the exercise
	// (not the all-time cumulative volume, and not the whole-session volume
	// across all exercises).
	RecordMaxSessionVolume RecordType = "max_session_volume"
)

func (rt RecordType) String() string {
	return string(rt)
}

func (rt RecordType) IsValid() bool {
	switch rt {
	case RecordMaxWeight, RecordMaxReps, RecordMaxSessionVolume:
		return true
	default:
		return false
	}
}

// RecordTypes lists all tracked record types, detection order.
func RecordTypes() []RecordType {
	return []RecordType{RecordMaxWeight, RecordMaxReps, RecordMaxSessionVolume}
}

// PersonalRecord is an append-only best-value row for an (exercise, type)
// pair. The current best is resolved by value comparison over the rows,
// never by mutating or deleting history.
type PersonalRecord struct {
	ID         string     `json:"id"`
	ExerciseID string     `json:"exerciseId"`
	Type       RecordType `json:"type"`
	Value      float64    `json:"value"`
	AchievedAt time.Time  `json:"achievedAt"`
	SessionID  string     `json:"sessionId"`
}

// Preferences are the user-level workout settings consumed by this core.
// Display-only flags live with the clients.
type Preferences struct {
	DefaultRestTimeSeconds int        `json:"defaultRestTimeSeconds"`
	WeightUnit             WeightUnit `json:"weightUnit"`
	AutoStartRestTimer     bool       `json:"autoStartRestTimer"`
}

// VoiceLog is the structured output of the external voice parser. Reps and
// weight are pointers so that fields the parser failed to resolve arrive as
// nulls and can be rejected.
type VoiceLog struct {
	ExerciseID string   `json:"exerciseId"`
	Reps       *int     `json:"reps"`
	Weight     *float64 `json:"weight"`
}

// Snapshot is a point-in-time, read-only projection of the current workout
// state - the context handed to the UI, voice processing and AI coaching
// consumers. All references are deep copies; consumers must not treat it as
// a live view.
type Snapshot struct {
	ActiveSession        *Session         `json:"activeSession,omitempty"`
	CurrentExercise      *SessionExercise `json:"currentExercise,omitempty"`
	CurrentSetCount      int              `json:"currentSetCount"`
	LastSetIndex         int              `json:"lastSetIndex"` // -1 before the first set
	Recording            bool             `json:"recording"`
	Preferences          Preferences      `json:"preferences"`
	RestSecondsRemaining int              `json:"restSecondsRemaining"`
	RestTimerState       string           `json:"restTimerState"`
}
