// Package httptransport exposes the read API. Handlers stay thin: decode,
// delegate, encode. The graph never gets fabricated defaults here; missing
// nodes surface as 404s.
package httptransport

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/uigs/graph-engine/internal/graph/models"
	ingestmodels "github.com/uigs/graph-engine/internal/ingest/models"
	"github.com/uigs/graph-engine/pkg/platform/sentinel"
)

// GraphReader is the read-side store surface the API consumes.
type GraphReader interface {
	GetUserGraph(ctx context.Context, userID string) (models.UserGraph, error)
	GetNodeByID(ctx context.Context, nodeID string) (models.Node, error)
	Ping(ctx context.Context) error
}

// ConflictService lists and resolves conflicts.
type ConflictService interface {
	ListForUser(ctx context.Context, userID string) ([]models.ConflictRecord, error)
	Resolve(ctx context.Context, conflictID, preferredClaimID string) (bool, error)
}

// Drainer triggers manual processing of pending queue messages.
type Drainer interface {
	ProcessPending(ctx context.Context, max int) (int, error)
	Healthy() bool
}

// EventReader resolves archived ingestion events.
type EventReader interface {
	GetByID(ctx context.Context, eventID string) (ingestmodels.Event, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]ingestmodels.Event, error)
}

// Handler wires read-API endpoints to their services.
type Handler struct {
	graph     GraphReader
	conflicts ConflictService
	drainer   Drainer
	events    EventReader
	logger    *slog.Logger
}

// New constructs the read-API handler. events may be nil when no archive is
// configured; the event endpoints then answer 503.
func New(graph GraphReader, conflicts ConflictService, drainer Drainer, events EventReader, logger *slog.Logger) *Handler {
	return &Handler{graph: graph, conflicts: conflicts, drainer: drainer, events: events, logger: logger}
}

// Register mounts all endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/health", h.HandleHealth)
	r.Get("/ready", h.HandleReady)
	r.Get("/users/{userID}/graph", h.HandleUserGraph)
	r.Get("/users/{userID}/conflicts", h.HandleUserConflicts)
	r.Get("/users/{userID}/events", h.HandleUserEvents)
	r.Get("/nodes/{nodeID}", h.HandleNode)
	r.Get("/events/{eventID}", h.HandleEvent)
	r.Post("/conflicts/{conflictID}/resolve", h.HandleResolveConflict)
	r.Post("/process", h.HandleProcess)
}

func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"service":   "graph-engine",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) HandleReady(w http.ResponseWriter, r *http.Request) {
	graphStatus := "ready"
	if err := h.graph.Ping(r.Context()); err != nil {
		graphStatus = "not_ready"
	}
	queueStatus := "ready"
	if h.drainer == nil || !h.drainer.Healthy() {
		queueStatus = "not_ready"
	}

	status := http.StatusOK
	ready := graphStatus == "ready" && queueStatus == "ready"
	if !ready {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]any{
		"ready":    ready,
		"neo4j":    graphStatus,
		"rabbitmq": queueStatus,
	})
}

func (h *Handler) HandleUserGraph(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	graph, err := h.graph.GetUserGraph(r.Context(), userID)
	if err != nil {
		h.logger.Error("get user graph failed", "user_id", userID, "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, graph)
}

func (h *Handler) HandleUserConflicts(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	conflicts, err := h.conflicts.ListForUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("list conflicts failed", "user_id", userID, "error", err)
		writeError(w, err)
		return
	}
	if conflicts == nil {
		conflicts = []models.ConflictRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"conflicts": conflicts})
}

func (h *Handler) HandleNode(w http.ResponseWriter, r *http.Request) {
	nodeID := chi.URLParam(r, "nodeID")
	node, err := h.graph.GetNodeByID(r.Context(), nodeID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, node)
}

func (h *Handler) HandleEvent(w http.ResponseWriter, r *http.Request) {
	if h.events == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "archive not available"})
		return
	}

	eventID := chi.URLParam(r, "eventID")
	event, err := h.events.GetByID(r.Context(), eventID)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			h.logger.Error("get event failed", "event_id", eventID, "error", err)
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func (h *Handler) HandleUserEvents(w http.ResponseWriter, r *http.Request) {
	if h.events == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "archive not available"})
		return
	}

	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	userID := chi.URLParam(r, "userID")
	events, err := h.events.ListByUser(r.Context(), userID, limit)
	if err != nil {
		h.logger.Error("list events failed", "user_id", userID, "error", err)
		writeError(w, err)
		return
	}
	if events == nil {
		events = []ingestmodels.Event{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events, "count": len(events)})
}

type resolveRequest struct {
	PreferredClaimID string `json:"preferred_claim_id"`
}

func (h *Handler) HandleResolveConflict(w http.ResponseWriter, r *http.Request) {
	conflictID := chi.URLParam(r, "conflictID")

	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PreferredClaimID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "preferred_claim_id required"})
		return
	}

	resolved, err := h.conflicts.Resolve(r.Context(), conflictID, req.PreferredClaimID)
	if err != nil {
		h.logger.Error("resolve conflict failed", "conflict_id", conflictID, "error", err)
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"resolved": resolved, "conflict_id": conflictID})
}

func (h *Handler) HandleProcess(w http.ResponseWriter, r *http.Request) {
	if h.drainer == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "consumer not available"})
		return
	}

	max := 100
	if raw := r.URL.Query().Get("max"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "max must be a positive integer"})
			return
		}
		max = parsed
	}

	processed, err := h.drainer.ProcessPending(r.Context(), max)
	if err != nil {
		h.logger.Error("manual processing failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"success":            false,
			"messages_processed": processed,
			"error":              err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":            true,
		"messages_processed": processed,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError translates sentinel facts into HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found"})
	case errors.Is(err, sentinel.ErrUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "unavailable"})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal"})
	}
}
