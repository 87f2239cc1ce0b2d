package handlers

import (
	"context"

	"github.com/randytsao24/gotolondon/internal/models"
)

// RankingProvider abstracts the ranking engine for testability.
type RankingProvider interface {
	Destinations() []string
	Rank(ctx context.Context, destination string) ([]models.RankedDestinationOption, error)
}
