package ranking

import (
	"sort"
	"time"

	"github.com/randytsao24/gotolondon/internal/models"
)

// RankTimings turns timings into a strict order. bonus returns the configured
// preference minutes per modality; it is subtracted from the final arrival for
// ordering only and reported as a negative AppliedBonus. Ties keep the order of
// timings.
func RankTimings(destination string, timings []models.CalculatedDestinationModalityOption, bonus func(models.Modality) int) []models.RankedDestinationOption {
	ranked := make([]models.RankedDestinationOption, len(timings))

	for i, t := range timings {
		modality := t.ModalityOption.Modality
		ranked[i] = models.RankedDestinationOption{
			Destination:      destination,
			Modality:         modality,
			FinalArrivalTime: t.ArrivalTime.Add(time.Duration(t.ModalityOption.TrailingWalk()) * time.Minute),
			AppliedBonus:     -bonus(modality),
			ID:               i,
			Details:          t,
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].AdjustedArrivalTime().Before(ranked[j].AdjustedArrivalTime())
	})

	for i := range ranked {
		ranked[i].Rank = i
	}

	return ranked
}
