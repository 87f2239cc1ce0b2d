package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/randytsao24/gotolondon/internal/models"
	"github.com/randytsao24/gotolondon/internal/ranking"
)

// GotoHandler serves ranked travel options
type GotoHandler struct {
	ranker RankingProvider
	logger *slog.Logger
	now    func() time.Time
}

func NewGotoHandler(ranker RankingProvider, logger *slog.Logger) *GotoHandler {
	return &GotoHandler{ranker: ranker, logger: logger, now: time.Now}
}

// OptionResponse is a ranked option plus its leg-by-leg summary
type OptionResponse struct {
	models.RankedDestinationOption
	Summary ranking.Summary `json:"summary"`
}

// ListDestinations returns the configured destinations in configuration order
func (h *GotoHandler) ListDestinations(w http.ResponseWriter, r *http.Request) {
	names := h.ranker.Destinations()
	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"destinations": names,
		"count":        len(names),
	})
}

// GetOptions ranks every way of reaching the destination from live arrivals
func (h *GotoHandler) GetOptions(w http.ResponseWriter, r *http.Request) {
	destination := r.PathValue("destination")

	ranked, err := h.ranker.Rank(r.Context(), destination)
	if errors.Is(err, ranking.ErrUnknownDestination) {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"error":        "Unknown destination",
			"destination":  destination,
			"destinations": h.ranker.Destinations(),
		})
		return
	}
	if err != nil {
		h.logger.Error("ranking failed", "destination", destination, "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"error":   "Failed to rank options",
			"message": err.Error(),
		})
		return
	}

	now := h.now()
	options := make([]OptionResponse, len(ranked))
	for i, opt := range ranked {
		options[i] = OptionResponse{
			RankedDestinationOption: opt,
			Summary:                 ranking.Summarize(opt, now),
		}
	}

	var best *OptionResponse
	others := []OptionResponse{}
	if len(options) > 0 {
		best = &options[0]
		others = options[1:]
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"destination":   destination,
		"best_option":   best,
		"other_options": others,
		"options":       options,
	})
}
