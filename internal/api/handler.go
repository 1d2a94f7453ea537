package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gyaneshwarpardhi/roomgraph/internal/config"
	"github.com/gyaneshwarpardhi/roomgraph/internal/engine"
	"github.com/gyaneshwarpardhi/roomgraph/internal/event"
	"github.com/gyaneshwarpardhi/roomgraph/internal/graph"
	"github.com/gyaneshwarpardhi/roomgraph/internal/metrics"
)

const maxBatchSize = 100

// Reloader re-reads the layout from its source. An invalid layout is
// reported as an error wrapping config.ErrInvalidLayout and never replaces
// the current one. Registered OnChange callbacks are expected to swap the
// engine's world.
type Reloader interface {
	Reload() (*config.Layout, error)
}

// Handler holds all HTTP handler dependencies.
type Handler struct {
	eng    *engine.Engine
	loader Reloader
	mux    *http.ServeMux
}

// New creates an HTTP handler and registers all routes.
func New(eng *engine.Engine, loader Reloader) http.Handler {
	h := &Handler{eng: eng, loader: loader, mux: http.NewServeMux()}

	h.mux.HandleFunc("GET /v1/rooms", h.listRooms)
	h.mux.HandleFunc("GET /v1/rooms/{id}", h.getRoom)
	h.mux.HandleFunc("GET /v1/rooms/{id}/reachable", h.reachable)
	h.mux.HandleFunc("GET /v1/route", h.route)
	h.mux.HandleFunc("POST /v1/events", h.applyEvent)
	h.mux.HandleFunc("POST /v1/events/batch", h.applyBatch)
	h.mux.HandleFunc("POST /v1/layout/reload", h.reloadLayout)
	h.mux.HandleFunc("GET /healthz", h.healthz)
	h.mux.HandleFunc("GET /readyz", h.readyz)
	h.mux.Handle("GET /metrics", promhttp.Handler())

	return requestID(loggingMiddleware(h.mux))
}

// GET /v1/rooms: list every room.
func (h *Handler) listRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.eng.Rooms(r.Context())
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	st, err := h.eng.Stats(r.Context())
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"rooms": rooms,
		"stats": st,
	})
}

// GET /v1/rooms/{id}: one room with its exits.
func (h *Handler) getRoom(w http.ResponseWriter, r *http.Request) {
	id, err := parseRoomID(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	detail, err := h.eng.Room(r.Context(), id)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// GET /v1/rooms/{id}/reachable: every room reachable from id, nearest first.
func (h *Handler) reachable(w http.ResponseWriter, r *http.Request) {
	id, err := parseRoomID(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	rooms, err := h.eng.Reachable(r.Context(), id)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"from":  id,
		"rooms": rooms,
	})
}

// GET /v1/route?from=&to=: fewest-hops route between two rooms.
func (h *Handler) route(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, err := parseRoomID(q.Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "from: "+err.Error())
		return
	}
	to, err := parseRoomID(q.Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "to: "+err.Error())
		return
	}

	route, err := h.eng.Route(r.Context(), from, to)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, route)
}

// POST /v1/events: apply a single world event synchronously.
func (h *Handler) applyEvent(w http.ResponseWriter, r *http.Request) {
	var ev event.Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %s", err))
		return
	}
	stamp(&ev, time.Now())

	if err := h.eng.Apply(r.Context(), &ev); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"event_id": ev.ID,
		"applied":  true,
	})
}

// POST /v1/events/batch: apply up to 100 events in order; failures do not stop the batch.
func (h *Handler) applyBatch(w http.ResponseWriter, r *http.Request) {
	var events []*event.Event
	if err := json.NewDecoder(r.Body).Decode(&events); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %s", err))
		return
	}
	if len(events) == 0 {
		writeError(w, http.StatusBadRequest, "batch must contain at least one event")
		return
	}
	if len(events) > maxBatchSize {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("batch size %d exceeds max %d", len(events), maxBatchSize))
		return
	}

	type outcome struct {
		EventID string `json:"event_id"`
		Error   string `json:"error,omitempty"`
	}
	now := time.Now()
	results := make([]outcome, 0, len(events))
	applied := 0
	for _, ev := range events {
		if ev == nil {
			results = append(results, outcome{Error: "null event"})
			continue
		}
		stamp(ev, now)
		res := outcome{EventID: ev.ID}
		if err := h.eng.Apply(r.Context(), ev); err != nil {
			res.Error = err.Error()
		} else {
			applied++
		}
		results = append(results, res)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"total":    len(events),
		"applied":  applied,
		"rejected": len(events) - applied,
		"results":  results,
	})
}

// POST /v1/layout/reload: re-read the layout file and rebuild the world.
func (h *Handler) reloadLayout(w http.ResponseWriter, r *http.Request) {
	if h.loader == nil {
		writeError(w, http.StatusNotImplemented, "layout reload is not configured")
		return
	}
	cfg, err := h.loader.Reload()
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, config.ErrInvalidLayout) {
			status = http.StatusUnprocessableEntity
		}
		writeError(w, status, err.Error())
		return
	}
	st, err := h.eng.Stats(r.Context())
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"reloaded": true,
		"version":  cfg.Version,
		"stats":    st,
	})
}

// GET /healthz: always 200 (liveness probe).
func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GET /readyz: 503 if the command queue is >80% full.
func (h *Handler) readyz(w http.ResponseWriter, r *http.Request) {
	util := h.eng.QueueUtilization()
	metrics.QueueUtilization.Set(util)
	if util > 0.8 {
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":            "overloaded",
			"queue_utilization": util,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":            "ready",
		"queue_utilization": util,
	})
}

func stamp(ev *event.Event, now time.Time) {
	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = now
	}
	ev.ReceivedAt = now
}

func parseRoomID(s string) (graph.NodeID, error) {
	if s == "" {
		return graph.None, errors.New("room id is required")
	}
	n, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return graph.None, fmt.Errorf("invalid room id %q", s)
	}
	return graph.NodeID(n), nil
}
