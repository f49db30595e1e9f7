package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/liftlog/internal/telemetry/tracing"
	"github.com/2beens/liftlog/internal/workout"
	"github.com/2beens/liftlog/internal/workout/store"
	"github.com/2beens/liftlog/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=session_test

type sessionService interface {
	Start(ctx context.Context, params StartParams) (*workout.Session, error)
	End(ctx context.Context) (*workout.Session, error)
	LogSet(ctx context.Context, params LogSetParams) (*workout.SetRecord, error)
	LogVoiceSet(ctx context.Context, voiceLog workout.VoiceLog) (*workout.SetRecord, error)
	Snapshot() workout.Snapshot
	StartRestTimer(seconds int)
	StopRestTimer()
	Session(ctx context.Context, id string) (*workout.Session, error)
	Sessions(ctx context.Context, params store.SessionParams) ([]*workout.Session, error)
	DeleteSession(ctx context.Context, id string) error
}

type Handler struct {
	service sessionService
}

func NewHandler(service sessionService) *Handler {
	return &Handler{
		service: service,
	}
}

func (h *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/session/start", h.HandleStart).Methods("POST").Name("session-start")
	router.HandleFunc("/session/end", h.HandleEnd).Methods("POST").Name("session-end")
	router.HandleFunc("/session/set", h.HandleLogSet).Methods("POST").Name("session-log-set")
	router.HandleFunc("/session/voice-set", h.HandleLogVoiceSet).Methods("POST").Name("session-log-voice-set")
	router.HandleFunc("/session/{id}", h.HandleGetSession).Methods("GET").Name("session-get")
	router.HandleFunc("/session/{id}", h.HandleDeleteSession).Methods("DELETE").Name("session-delete")
	router.HandleFunc("/sessions", h.HandleListSessions).Methods("GET").Name("sessions-list")
	router.HandleFunc("/context", h.HandleContext).Methods("GET").Name("workout-context")
	router.HandleFunc("/timer/start", h.HandleTimerStart).Methods("POST").Name("timer-start")
	router.HandleFunc("/timer/stop", h.HandleTimerStop).Methods("POST").Name("timer-stop")
	router.HandleFunc("/timer", h.HandleTimerState).Methods("GET").Name("timer-state")
}

func (h *Handler) HandleStart(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.session.start")
	defer span.End()

	var params StartParams
	if err := h.readJSON(r.Body, &params); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	session, err := h.service.Start(ctx, params)
	if err != nil {
		h.writeError(w, "start session", err)
		return
	}

	h.writeJSON(w, session, http.StatusCreated)
}

func (h *Handler) HandleEnd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.session.end")
	defer span.End()

	session, err := h.service.End(ctx)
	if err != nil {
		h.writeError(w, "end session", err)
		return
	}

	h.writeJSON(w, session, http.StatusOK)
}

func (h *Handler) HandleLogSet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.session.logSet")
	defer span.End()

	var params LogSetParams
	if err := h.readJSON(r.Body, &params); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if params.ExerciseID == "" || params.Reps <= 0 || params.Weight < 0 {
		http.Error(w, "invalid set", http.StatusBadRequest)
		return
	}

	set, err := h.service.LogSet(ctx, params)
	if err != nil {
		h.writeError(w, "log set", err)
		return
	}

	h.writeJSON(w, set, http.StatusCreated)
}

func (h *Handler) HandleLogVoiceSet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.session.logVoiceSet")
	defer span.End()

	var voiceLog workout.VoiceLog
	if err := h.readJSON(r.Body, &voiceLog); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	set, err := h.service.LogVoiceSet(ctx, voiceLog)
	if err != nil {
		h.writeError(w, "log voice set", err)
		return
	}

	h.writeJSON(w, set, http.StatusCreated)
}

func (h *Handler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.session.get")
	defer span.End()

	session, err := h.service.Session(ctx, mux.Vars(r)["id"])
	if err != nil {
		h.writeError(w, "get session", err)
		return
	}

	h.writeJSON(w, session, http.StatusOK)
}

func (h *Handler) HandleDeleteSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.session.delete")
	defer span.End()

	id := mux.Vars(r)["id"]
	if err := h.service.DeleteSession(ctx, id); err != nil {
		h.writeError(w, "delete session", err)
		return
	}

	pkg.WriteTextResponseOK(w, fmt.Sprintf("deleted:%s", id))
}

func (h *Handler) HandleListSessions(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.session.list")
	defer span.End()

	params, err := rangeParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sessions, err := h.service.Sessions(ctx, params)
	if err != nil {
		h.writeError(w, "list sessions", err)
		return
	}

	h.writeJSON(w, sessions, http.StatusOK)
}

func (h *Handler) HandleContext(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.session.context")
	defer span.End()

	h.writeJSON(w, h.service.Snapshot(), http.StatusOK)
}

func (h *Handler) HandleTimerStart(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.timer.start")
	defer span.End()

	var params struct {
		Seconds int `json:"seconds"`
	}
	if err := h.readJSON(r.Body, &params); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if params.Seconds < 0 {
		http.Error(w, "invalid duration", http.StatusBadRequest)
		return
	}

	h.service.StartRestTimer(params.Seconds)
	h.writeTimerState(w)
}

func (h *Handler) HandleTimerStop(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.timer.stop")
	defer span.End()

	h.service.StopRestTimer()
	h.writeTimerState(w)
}

func (h *Handler) HandleTimerState(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.timer.state")
	defer span.End()

	h.writeTimerState(w)
}

func (h *Handler) writeTimerState(w http.ResponseWriter) {
	snapshot := h.service.Snapshot()
	h.writeJSON(w, struct {
		State     string `json:"state"`
		Remaining int    `json:"remaining"`
	}{
		State:     snapshot.RestTimerState,
		Remaining: snapshot.RestSecondsRemaining,
	}, http.StatusOK)
}

func (h *Handler) readJSON(body io.ReadCloser, dest any) error {
	if err := json.NewDecoder(body).Decode(dest); err != nil {
		log.Warnf("decode request body: %s", err)
		return err
	}
	return nil
}

func (h *Handler) writeJSON(w http.ResponseWriter, payload any, statusCode int) {
	respBytes, err := json.Marshal(payload)
	if err != nil {
		log.Errorf("marshal session response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respBytes, statusCode)
}

func (h *Handler) writeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, workout.ErrSessionInProgress):
		http.Error(w, "a session is already active", http.StatusConflict)
	case errors.Is(err, workout.ErrActiveSessionDelete):
		http.Error(w, "cannot delete the active session", http.StatusConflict)
	case errors.Is(err, workout.ErrNoActiveSession):
		http.Error(w, "no active session", http.StatusNotFound)
	case errors.Is(err, store.ErrSessionNotFound):
		http.Error(w, "session not found", http.StatusNotFound)
	case errors.Is(err, workout.ErrInvalidVoiceLog):
		http.Error(w, "invalid voice log", http.StatusBadRequest)
	default:
		log.Errorf("%s: %s", op, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// rangeParams parses optional from/to date bounds (YYYY-MM-DD). The upper
// bound is inclusive for the whole named day.
func rangeParams(r *http.Request) (store.SessionParams, error) {
	var params store.SessionParams
	if fromParam := r.URL.Query().Get("from"); fromParam != "" {
		from, err := time.Parse(time.DateOnly, fromParam)
		if err != nil {
			return params, fmt.Errorf("invalid from date: %s", fromParam)
		}
		params.From = &from
	}
	if toParam := r.URL.Query().Get("to"); toParam != "" {
		to, err := time.Parse(time.DateOnly, toParam)
		if err != nil {
			return params, fmt.Errorf("invalid to date: %s", toParam)
		}
		to = to.AddDate(0, 0, 1).Add(-time.Nanosecond)
		params.To = &to
	}
	return params, nil
}
