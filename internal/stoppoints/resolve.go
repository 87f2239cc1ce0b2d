package stoppoints

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/randytsao24/gotolondon/internal/models"
	"github.com/randytsao24/gotolondon/internal/transit"
)

// Resolver is the part of the TfL client needed to resolve stop names
type Resolver interface {
	SearchStopPoints(ctx context.Context, name string, modes []string) (*transit.SearchResponse, error)
	GetStopPointDetail(ctx context.Context, id string) (*transit.StopPoint, error)
	GetDirection(ctx context.Context, fromID, toID string) (string, error)
}

type resolver struct {
	api    Resolver
	logger *slog.Logger
}

func (r *resolver) resolvePair(ctx context.Context, modality models.Modality, pair models.StopLinePair) (models.StopPointsInfo, error) {
	fromID, err := r.resolveStop(ctx, modality, pair.FromStop, pair.Line)
	if err != nil {
		return models.StopPointsInfo{}, err
	}
	toID, err := r.resolveStop(ctx, modality, pair.ToStop, pair.Line)
	if err != nil {
		return models.StopPointsInfo{}, err
	}

	direction, err := r.api.GetDirection(ctx, fromID, toID)
	var statusErr *transit.StatusError
	if errors.As(err, &statusErr) || (err == nil && direction == "") {
		return models.StopPointsInfo{}, &DirectionNotFoundError{
			FromStop:   pair.FromStop,
			ToStop:     pair.ToStop,
			FromStopID: fromID,
			ToStopID:   toID,
			Err:        err,
		}
	}
	if err != nil {
		return models.StopPointsInfo{}, fmt.Errorf("direction %s -> %s: %w", fromID, toID, err)
	}

	r.logger.Debug("resolved stop points",
		"modality", modality,
		"from", pair.FromStop,
		"to", pair.ToStop,
		"line", pair.Line,
		"from_id", fromID,
		"to_id", toID,
		"direction", direction,
	)

	return models.StopPointsInfo{
		FromStopID: fromID,
		ToStopID:   toID,
		Line:       pair.Line,
		Direction:  direction,
	}, nil
}

// resolveStop turns a stop name into a line-specific stop point id.
// Bus search results are already per stop and per direction. Tube search only
// finds the station hub, which carries no line detail, so the platform-level
// child is looked up separately.
func (r *resolver) resolveStop(ctx context.Context, modality models.Modality, name, line string) (string, error) {
	mode := string(modality)

	search, err := r.api.SearchStopPoints(ctx, name, []string{mode})
	if err != nil {
		return "", fmt.Errorf("searching stop %q: %w", name, err)
	}

	searchLine := line
	if modality == models.Tube {
		searchLine = ""
	}
	matches := transit.FilterStopPoints(search.Matches, mode, searchLine)
	if len(matches) == 0 {
		return "", &StopNotFoundError{SearchTerm: name, Modality: modality, Line: line}
	}
	id := matches[0].ID

	if modality != models.Tube {
		return id, nil
	}

	detail, err := r.api.GetStopPointDetail(ctx, id)
	if err != nil {
		return "", fmt.Errorf("stop point detail %s: %w", id, err)
	}
	children := transit.FilterStopPoints(detail.Children, mode, line)
	if len(children) == 0 {
		return "", &StopNotFoundError{SearchTerm: id, Modality: modality, Line: line}
	}

	if children[0].ID != "" {
		return children[0].ID, nil
	}
	return children[0].NaptanID, nil
}
