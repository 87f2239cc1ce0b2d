// Package ranking orders the ways of reaching a destination using live TfL arrivals
package ranking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/randytsao24/gotolondon/internal/destinations"
	"github.com/randytsao24/gotolondon/internal/models"
	"github.com/randytsao24/gotolondon/internal/transit"
)

// ErrUnknownDestination is returned when ranking a destination that is not configured
var ErrUnknownDestination = errors.New("unknown destination")

// ArrivalsProvider abstracts the live arrivals source for testability.
type ArrivalsProvider interface {
	GetArrivals(ctx context.Context, line, stopID, direction string) ([]transit.Arrival, error)
	GetVehicleArrivals(ctx context.Context, vehicleID string) ([]transit.Arrival, error)
}

// StopPointResolver abstracts the stop point cache.
type StopPointResolver interface {
	Resolve(opt models.ModalityOption) (models.StopPointsInfo, error)
}

// Engine ranks destination options. It holds no per-request state.
type Engine struct {
	cfg      *destinations.Config
	stops    StopPointResolver
	arrivals ArrivalsProvider
	location *time.Location
	now      func() time.Time
	logger   *slog.Logger
}

// Option configures an Engine
type Option func(*Engine)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithLocation sets the timezone reported times are converted to
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		e.location = loc
	}
}

// WithLogger sets the engine's logger
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates a ranking engine
func NewEngine(cfg *destinations.Config, stops StopPointResolver, arrivals ArrivalsProvider, opts ...Option) *Engine {
	e := &Engine{
		cfg:      cfg,
		stops:    stops,
		arrivals: arrivals,
		location: time.Local,
		now:      time.Now,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Destinations lists the configured destinations in document order
func (e *Engine) Destinations() []string {
	return e.cfg.Names()
}

// Rank returns the destination's options in rank order. Options whose
// vehicles are all uncatchable are left out, so the result may be shorter
// than the configured options, or empty.
func (e *Engine) Rank(ctx context.Context, destination string) ([]models.RankedDestinationOption, error) {
	timings, err := e.Timings(ctx, destination)
	if err != nil {
		return nil, err
	}
	return RankTimings(destination, timings, e.cfg.Bonus), nil
}

// Timings computes one live timing per configured option of the destination,
// in configuration order.
func (e *Engine) Timings(ctx context.Context, destination string) ([]models.CalculatedDestinationModalityOption, error) {
	options, ok := e.cfg.Options(destination)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDestination, destination)
	}

	now := e.now().In(e.location)
	var timings []models.CalculatedDestinationModalityOption

	for _, opt := range options {
		if opt.Modality == models.Walk {
			// Leave now, no live data needed
			timings = append(timings, models.CalculatedDestinationModalityOption{
				Destination:    destination,
				ModalityOption: opt,
				DepartureTime:  now,
				ArrivalTime:    now.Add(time.Duration(opt.TimeFrom) * time.Minute),
			})
			continue
		}

		timing, found, err := e.liveTiming(ctx, destination, opt, now)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", destination, opt.Modality, err)
		}
		if found {
			timings = append(timings, timing)
		}
	}

	return timings, nil
}

// liveTiming picks the first catchable vehicle that calls at the destination
// stop. Not every vehicle on a line runs the whole route, so candidates
// arriving earlier may be skipped.
func (e *Engine) liveTiming(ctx context.Context, destination string, opt models.ModalityOption, now time.Time) (models.CalculatedDestinationModalityOption, bool, error) {
	stops, err := e.stops.Resolve(opt)
	if err != nil {
		return models.CalculatedDestinationModalityOption{}, false, err
	}

	next, err := e.arrivals.GetArrivals(ctx, stops.Line, stops.FromStopID, stops.Direction)
	if err != nil {
		return models.CalculatedDestinationModalityOption{}, false, err
	}
	transit.SortByExpectedArrival(next)
	candidates := transit.FilterCatchable(next, now, opt.TimeFrom)

	e.logger.Info("next vehicles",
		"destination", destination,
		"modality", opt.Modality,
		"line", stops.Line,
		"found", len(next),
		"catchable", len(candidates),
	)

	for _, vehicle := range candidates {
		calls, err := e.arrivals.GetVehicleArrivals(ctx, vehicle.VehicleID)
		if err != nil {
			return models.CalculatedDestinationModalityOption{}, false, err
		}

		arrival, ok := transit.FindDestinationArrival(calls, stops.ToStopID, stops.Line)
		if !ok {
			e.logger.Debug("vehicle skips destination stop",
				"vehicle", vehicle.VehicleID,
				"stop", stops.ToStopID,
			)
			continue
		}

		return models.CalculatedDestinationModalityOption{
			Destination:    destination,
			ModalityOption: opt,
			VehicleID:      vehicle.VehicleID,
			DepartureTime:  vehicle.ExpectedArrival.In(e.location),
			ArrivalTime:    arrival.ExpectedArrival.In(e.location),
		}, true, nil
	}

	return models.CalculatedDestinationModalityOption{}, false, nil
}
