package api

import "mesh-metrics-backend/internal/events"

type CreateEventsRequest struct {
	Events []events.Envelope `json:"events"`
}

type CreateEventsResponse struct {
	IDs []string `json:"ids"`
}
