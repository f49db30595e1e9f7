package progress

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/liftlog/internal/telemetry/tracing"
	"github.com/2beens/liftlog/internal/workout"
	"github.com/2beens/liftlog/internal/workout/store"
	"github.com/2beens/liftlog/pkg"
)

type Handler struct {
	analyzer *Analyzer
	records  store.Records
}

func NewHandler(analyzer *Analyzer, records store.Records) *Handler {
	return &Handler{
		analyzer: analyzer,
		records:  records,
	}
}

func (h *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("", h.HandleOverview).Methods("GET").Name("progress-overview")
	router.HandleFunc("/strength", h.HandleStrength).Methods("GET").Name("progress-strength")
	router.HandleFunc("/volume", h.HandleVolume).Methods("GET").Name("progress-volume")
	router.HandleFunc("/frequency", h.HandleFrequency).Methods("GET").Name("progress-frequency")
	router.HandleFunc("/performance", h.HandlePerformance).Methods("GET").Name("progress-performance")
	router.HandleFunc("/records", h.HandleRecords).Methods("GET").Name("progress-records")
}

func (h *Handler) HandleOverview(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.overview")
	defer span.End()

	overview, err := h.analyzer.Overview(ctx)
	if err != nil {
		log.Errorf("get progress overview: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, overview)
}

func (h *Handler) HandleStrength(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.strength")
	defer span.End()

	strength, err := h.analyzer.Strength(ctx)
	if err != nil {
		log.Errorf("get strength progress: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, strength)
}

func (h *Handler) HandleVolume(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.volume")
	defer span.End()

	volume, err := h.analyzer.Volume(ctx)
	if err != nil {
		log.Errorf("get volume progress: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, volume)
}

func (h *Handler) HandleFrequency(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.frequency")
	defer span.End()

	frequency, err := h.analyzer.Frequency(ctx)
	if err != nil {
		log.Errorf("get frequency metrics: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, frequency)
}

func (h *Handler) HandlePerformance(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.performance")
	defer span.End()

	performance, err := h.analyzer.Performance(ctx)
	if err != nil {
		log.Errorf("get performance metrics: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, performance)
}

func (h *Handler) HandleRecords(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.progress.records")
	defer span.End()

	params := store.RecordParams{
		ExerciseID: r.URL.Query().Get("exercise_id"),
	}
	if typeParam := r.URL.Query().Get("type"); typeParam != "" {
		recType := workout.RecordType(typeParam)
		if !recType.IsValid() {
			http.Error(w, "invalid record type", http.StatusBadRequest)
			return
		}
		params.Type = &recType
	}

	recs, err := h.records.List(ctx, params)
	if err != nil {
		log.Errorf("list personal records: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, recs)
}

func (h *Handler) writeJSON(w http.ResponseWriter, payload any) {
	respBytes, err := json.Marshal(payload)
	if err != nil {
		log.Errorf("marshal progress response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respBytes, http.StatusOK)
}
