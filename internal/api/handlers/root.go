package handlers

import (
	"net/http"
)

type RootHandler struct {
	version string
}

func NewRootHandler(version string) *RootHandler {
	return &RootHandler{version: version}
}

func (h *RootHandler) Index(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":        "gotolondon",
		"description": "Fastest way across London right now, ranked from live TfL arrivals",
		"version":     h.version,
		"endpoints": map[string]string{
			"GET /":                   "API information",
			"GET /health":             "Health check",
			"GET /goto":               "Configured destinations",
			"GET /goto/{destination}": "Ranked travel options for a destination",
		},
	})
}

func (h *RootHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]any{
		"error":   "Route not found",
		"message": "Check the root endpoint (/) for available routes",
	})
}
