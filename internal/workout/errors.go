package workout

import "errors"

var (
	// ErrSessionInProgress - starting a session while another one is active.
	ErrSessionInProgress = errors.New("a workout session is already in progress")

	// ErrNoActiveSession - ending or logging against a session when none is
	// active.
	ErrNoActiveSession = errors.New("no active workout session")

	// ErrActiveSessionDelete - deleting the session that is currently active.
	ErrActiveSessionDelete = errors.New("cannot delete the active session")

	// ErrInvalidVoiceLog - the upstream voice parser could not resolve the
	// exercise, reps or weight.
	ErrInvalidVoiceLog = errors.New("voice log missing exercise, reps or weight")
)
