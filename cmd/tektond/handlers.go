package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"tekton/internal/discrete"
	"tekton/internal/gene"
	"tekton/internal/model"
	"tekton/internal/vmath"
	tektonapi "tekton/pkg/tekton"
)

// PlanHandler exposes the solver facade over HTTP.
type PlanHandler struct {
	client *tektonapi.Client
}

func NewPlanHandler(client *tektonapi.Client) *PlanHandler {
	return &PlanHandler{client: client}
}

// setupRoutes builds the facade client and wires the API routes.
func setupRoutes(ctx context.Context, storeKind, dbPath string) (http.Handler, error) {
	client, err := tektonapi.NewClient(ctx, tektonapi.Options{StoreKind: storeKind, DBPath: dbPath})
	if err != nil {
		return nil, err
	}
	h := NewPlanHandler(client)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Post("/solve", h.Solve)
		r.Post("/refine", h.Refine)
		r.Get("/runs", h.ListRuns)
		r.Get("/runs/{id}/fitness", h.Fitness)
		r.Get("/runs/{id}/layout", h.Layout)

		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})
	})
	return r, nil
}

type solveBody struct {
	RunID       string              `json:"run_id,omitempty"`
	Boundary    []vmath.Vec2        `json:"boundary"`
	Rooms       []model.RoomRequest `json:"rooms"`
	Adjacencies []model.Adjacency   `json:"adjacencies,omitempty"`
	Config      discrete.Config     `json:"config"`
	Seed        *uint32             `json:"seed,omitempty"`
}

// Solve handles POST /api/solve
func (h *PlanHandler) Solve(w http.ResponseWriter, r *http.Request) {
	var body solveBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	summary, err := h.client.Solve(r.Context(), tektonapi.SolveRequest{
		RunID:       body.RunID,
		Boundary:    body.Boundary,
		Rooms:       body.Rooms,
		Adjacencies: body.Adjacencies,
		Config:      body.Config,
		Seed:        body.Seed,
	})
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

type refineBody struct {
	RunID              string              `json:"run_id,omitempty"`
	Boundary           []vmath.Vec2        `json:"boundary"`
	Rooms              []model.RoomRequest `json:"rooms"`
	Adjacencies        []model.Adjacency   `json:"adjacencies,omitempty"`
	Config             gene.SpringConfig   `json:"config"`
	Generations        int                 `json:"generations,omitempty"`
	SeedFromDiscrete   bool                `json:"seed_from_discrete,omitempty"`
	Discrete           discrete.Config     `json:"discrete,omitempty"`
	ConvergenceEpsilon float64             `json:"convergence_epsilon,omitempty"`
	Seed               *uint32             `json:"seed,omitempty"`
}

// Refine handles POST /api/refine
func (h *PlanHandler) Refine(w http.ResponseWriter, r *http.Request) {
	var body refineBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	summary, err := h.client.Refine(r.Context(), tektonapi.RefineRequest{
		RunID:              body.RunID,
		Boundary:           body.Boundary,
		Rooms:              body.Rooms,
		Adjacencies:        body.Adjacencies,
		Config:             body.Config,
		Generations:        body.Generations,
		SeedFromDiscrete:   body.SeedFromDiscrete,
		Discrete:           body.Discrete,
		ConvergenceEpsilon: body.ConvergenceEpsilon,
		Seed:               body.Seed,
	})
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// ListRuns handles GET /api/runs
func (h *PlanHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if q := r.URL.Query().Get("limit"); q != "" {
		parsed, err := strconv.Atoi(q)
		if err != nil || parsed < 0 {
			respondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}
	runs, err := h.client.Runs(r.Context(), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, runs)
}

// Fitness handles GET /api/runs/{id}/fitness
func (h *PlanHandler) Fitness(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "id")
	history, ok, err := h.client.FitnessHistory(r.Context(), runID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		respondError(w, http.StatusNotFound, "no fitness history for run "+runID)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"run_id": runID, "best_by_generation": history})
}

// Layout handles GET /api/runs/{id}/layout
func (h *PlanHandler) Layout(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "id")
	layout, ok, err := h.client.Layout(r.Context(), runID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		respondError(w, http.StatusNotFound, "no layout for run "+runID)
		return
	}
	respondJSON(w, http.StatusOK, layout)
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("encode response: %v", err)
	}
}

// respondError writes an error JSON response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
