package catalog

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/liftlog/internal/telemetry/tracing"
	"github.com/2beens/liftlog/pkg"
)

type Handler struct {
	catalog *Catalog
}

func NewHandler(catalog *Catalog) *Handler {
	return &Handler{
		catalog: catalog,
	}
}

func (h *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/exercises", h.HandleExercises).Methods("GET").Name("catalog-exercises")
	router.HandleFunc("/exercises/{id}", h.HandleExercise).Methods("GET").Name("catalog-exercise")
	router.HandleFunc("/templates", h.HandleTemplates).Methods("GET").Name("catalog-templates")
	router.HandleFunc("/groups", h.HandleMuscleGroups).Methods("GET").Name("catalog-groups")
}

func (h *Handler) HandleExercises(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.catalog.exercises")
	defer span.End()

	var exercises []Exercise
	if group := r.URL.Query().Get("group"); group != "" {
		exercises = h.catalog.ByMuscleGroup(group)
	} else {
		exercises = h.catalog.Search(r.URL.Query().Get("query"))
	}
	if exercises == nil {
		exercises = []Exercise{}
	}

	h.writeJSON(w, exercises)
}

func (h *Handler) HandleExercise(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.catalog.exercise")
	defer span.End()

	exercise, ok := h.catalog.ExerciseByID(mux.Vars(r)["id"])
	if !ok {
		http.Error(w, "exercise not found", http.StatusNotFound)
		return
	}

	h.writeJSON(w, exercise)
}

func (h *Handler) HandleTemplates(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.catalog.templates")
	defer span.End()

	h.writeJSON(w, h.catalog.Templates())
}

func (h *Handler) HandleMuscleGroups(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.catalog.groups")
	defer span.End()

	h.writeJSON(w, h.catalog.MuscleGroups())
}

func (h *Handler) writeJSON(w http.ResponseWriter, payload any) {
	respBytes, err := json.Marshal(payload)
	if err != nil {
		log.Errorf("marshal catalog response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respBytes, http.StatusOK)
}
