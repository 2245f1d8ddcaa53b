package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"mesh-metrics-backend/internal/events"
	"mesh-metrics-backend/internal/ingest"
	"mesh-metrics-backend/internal/metrics"
	"mesh-metrics-backend/internal/topology"
)

var ErrInvalidWindow = errors.New("invalid time window")

type repository interface {
	LoadEventsBetween(ctx context.Context, start, end time.Time, types []events.PayloadType) ([]events.Event, error)
}

type topologySource interface {
	Fetch(ctx context.Context) (topology.Snapshot, error)
}

type Config struct {
	DB         repository
	Topology   topologySource
	Pipeline   *ingest.Pipeline
	Thresholds metrics.Thresholds
}

type API struct {
	DB         repository
	Topology   topologySource
	Pipeline   *ingest.Pipeline
	thresholds atomic.Pointer[metrics.Thresholds]
	now        func() time.Time
}

func New(cfg Config) *API {
	a := &API{
		DB:       cfg.DB,
		Topology: cfg.Topology,
		Pipeline: cfg.Pipeline,
		now:      time.Now,
	}
	a.SetThresholds(cfg.Thresholds)
	return a
}

// SetThresholds swaps the limits used by subsequent metrics requests.
func (a *API) SetThresholds(th metrics.Thresholds) {
	a.thresholds.Store(&th)
}

func (a *API) Thresholds() metrics.Thresholds {
	return *a.thresholds.Load()
}

func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", a.Health)
	r.Route("/metrics", func(r chi.Router) {
		r.Get("/end-devices", a.GetEndDeviceMetrics)
		r.Get("/extenders", a.GetExtenderMetrics)
	})
	r.Post("/events", a.CreateEvents)
	return r
}

func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (a *API) GetEndDeviceMetrics(w http.ResponseWriter, r *http.Request) {
	snapshot, evs, ok := a.loadWindow(w, r)
	if !ok {
		return
	}
	resp := metrics.CalculateEndDeviceMetrics(snapshot.Locations, snapshot.Devices, evs, a.Thresholds())
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) GetExtenderMetrics(w http.ResponseWriter, r *http.Request) {
	snapshot, evs, ok := a.loadWindow(w, r)
	if !ok {
		return
	}
	resp := metrics.CalculateExtenderMetrics(snapshot.Locations, snapshot.Devices, evs, a.Thresholds())
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) CreateEvents(w http.ResponseWriter, r *http.Request) {
	var req CreateEventsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if len(req.Events) == 0 {
		http.Error(w, "no events", http.StatusBadRequest)
		return
	}

	evs := make([]events.Event, 0, len(req.Events))
	for i, env := range req.Events {
		ev, err := a.Pipeline.Prepare(env, ingest.Fallback{
			ID:        uuid.NewString(),
			CreatedAt: a.now(),
		})
		if err != nil {
			http.Error(w, fmt.Sprintf("invalid event %d: %v", i, err), http.StatusBadRequest)
			return
		}
		evs = append(evs, ev)
	}

	if err := a.Pipeline.Persist(r.Context(), evs...); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := CreateEventsResponse{IDs: make([]string, 0, len(evs))}
	for _, ev := range evs {
		resp.IDs = append(resp.IDs, ev.ID)
	}
	writeJSON(w, http.StatusCreated, resp)
}

// loadWindow fetches the topology snapshot and the events of the requested
// window. It writes the error response itself and reports false on failure.
func (a *API) loadWindow(w http.ResponseWriter, r *http.Request) (topology.Snapshot, []events.Event, bool) {
	start, end, err := parseWindow(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return topology.Snapshot{}, nil, false
	}

	snapshot, err := a.Topology.Fetch(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Error fetching topology", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return topology.Snapshot{}, nil, false
	}

	evs, err := a.DB.LoadEventsBetween(r.Context(), start, end, events.Watched)
	if err != nil {
		slog.ErrorContext(r.Context(), "Error loading events", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return topology.Snapshot{}, nil, false
	}

	logDuplicates(r.Context(), snapshot)
	return snapshot, evs, true
}

func parseWindow(r *http.Request) (time.Time, time.Time, error) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")

	start, err := time.Parse(time.RFC3339, startStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid start timestamp", ErrInvalidWindow)
	}
	end, err := time.Parse(time.RFC3339, endStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid end timestamp", ErrInvalidWindow)
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: start is after end", ErrInvalidWindow)
	}
	return start, end, nil
}

func logDuplicates(ctx context.Context, snapshot topology.Snapshot) {
	for _, d := range topology.NewResolver(snapshot.Locations, snapshot.Devices).Duplicates() {
		slog.WarnContext(ctx, "Duplicate mac in topology",
			"mac", d.Mac,
			"kind", d.Kind,
			"first", d.First,
			"second", d.Second,
		)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
