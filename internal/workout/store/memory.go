package store

import (
	"context"
	"sort"
	"sync"

	"github.com/2beens/liftlog/internal/workout"
)

var (
	_ Sessions = (*InMemorySessions)(nil)
	_ Records  = (*InMemoryRecords)(nil)
)

// InMemorySessions keeps sessions in a map. Used in unit tests and for
// ephemeral local runs without postgres.
type InMemorySessions struct {
	mutex    sync.RWMutex
	sessions map[string]*workout.Session
}

func NewInMemorySessions() *InMemorySessions {
	return &InMemorySessions{
		sessions: make(map[string]*workout.Session),
	}
}

func (s *InMemorySessions) Put(_ context.Context, session *workout.Session) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.sessions[session.ID] = session.Copy()
	return nil
}

func (s *InMemorySessions) Get(_ context.Context, id string) (*workout.Session, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session.Copy(), nil
}

func (s *InMemorySessions) List(_ context.Context, params SessionParams) ([]*workout.Session, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	sessions := make([]*workout.Session, 0, len(s.sessions))
	for _, session := range s.sessions {
		if params.From != nil && session.StartedAt.Before(*params.From) {
			continue
		}
		if params.To != nil && session.StartedAt.After(*params.To) {
			continue
		}
		sessions = append(sessions, session.Copy())
	}

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].StartedAt.Before(sessions[j].StartedAt)
	})

	return sessions, nil
}

func (s *InMemorySessions) Delete(_ context.Context, id string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

func (s *InMemorySessions) Count(_ context.Context) (int, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.sessions), nil
}

// InMemoryRecords is the append-only in-memory personal records store.
type InMemoryRecords struct {
	mutex   sync.RWMutex
	records []workout.PersonalRecord
}

func NewInMemoryRecords() *InMemoryRecords {
	return &InMemoryRecords{}
}

func (r *InMemoryRecords) Add(_ context.Context, record workout.PersonalRecord) (*workout.PersonalRecord, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.records = append(r.records, record)
	return &record, nil
}

func (r *InMemoryRecords) Best(
	_ context.Context,
	exerciseID string,
	recordType workout.RecordType,
) (*workout.PersonalRecord, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var best *workout.PersonalRecord
	for i := range r.records {
		rec := r.records[i]
		if rec.ExerciseID != exerciseID || rec.Type != recordType {
			continue
		}
		if best == nil ||
			rec.Value > best.Value ||
			(rec.Value == best.Value && rec.AchievedAt.After(best.AchievedAt)) {
			best = &rec
		}
	}

	if best == nil {
		return nil, ErrRecordNotFound
	}

	bestCopy := *best
	return &bestCopy, nil
}

func (r *InMemoryRecords) List(_ context.Context, params RecordParams) ([]workout.PersonalRecord, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	records := make([]workout.PersonalRecord, 0)
	for _, rec := range r.records {
		if params.ExerciseID != "" && rec.ExerciseID != params.ExerciseID {
			continue
		}
		if params.Type != nil && rec.Type != *params.Type {
			continue
		}
		records = append(records, rec)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].AchievedAt.Before(records[j].AchievedAt)
	})

	return records, nil
}

func (r *InMemoryRecords) Count(_ context.Context) (int, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return len(r.records), nil
}
