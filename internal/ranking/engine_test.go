package ranking

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"testing"
	"time"

	"github.com/randytsao24/gotolondon/internal/destinations"
	"github.com/randytsao24/gotolondon/internal/models"
	"github.com/randytsao24/gotolondon/internal/transit"
)

// ---------------------------------------------------------------------------
// Fakes
// ---------------------------------------------------------------------------

type fakeStops map[models.StopLinePair]models.StopPointsInfo

func (f fakeStops) Resolve(opt models.ModalityOption) (models.StopPointsInfo, error) {
	info, ok := f[opt.Pair()]
	if !ok {
		return models.StopPointsInfo{}, errors.New("not in cache")
	}
	return info, nil
}

type fakeArrivals struct {
	lines    map[string][]transit.Arrival // "line|stop|direction"
	vehicles map[string][]transit.Arrival
	err      error

	vehicleCalls []string
}

func (f *fakeArrivals) GetArrivals(ctx context.Context, line, stopID, direction string) ([]transit.Arrival, error) {
	if f.err != nil {
		return nil, f.err
	}
	// Hand out a copy so sorting in the engine can't leak back into fixtures
	return slices.Clone(f.lines[line+"|"+stopID+"|"+direction]), nil
}

func (f *fakeArrivals) GetVehicleArrivals(ctx context.Context, vehicleID string) ([]transit.Arrival, error) {
	f.vehicleCalls = append(f.vehicleCalls, vehicleID)
	return f.vehicles[vehicleID], nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var noon = time.Date(2022, 1, 1, 12, 0, 0, 0, time.UTC)

func at(hour, minute int) time.Time {
	return time.Date(2022, 1, 1, hour, minute, 0, 0, time.UTC)
}

const kgxConfig = `
bus_time_bonus: 3
tube_time_bonus: 0
destinations:
  kgx:
    bus:
      origin_stop_id: 73053
      destination_stop_id: 76007
      number: 390
      origin_walking_time: 2
      destination_walking_time: 5
    tube:
      origin_station: Kentish Town
      destination_station: Kings Cross
      line: Northern
      origin_walking_time: 10
      destination_walking_time: 5
    walk:
      total_time: 30
  walk-only:
    walk:
      total_time: 30
  walk-first:
    walk:
      total_time: 45
    bus:
      origin_stop_id: 73053
      destination_stop_id: 76007
      number: 390
      origin_walking_time: 2
      destination_walking_time: 5
`

func stops() fakeStops {
	return fakeStops{
		{FromStop: "73053", ToStop: "76007", Line: "390"}: {
			FromStopID: "73053", ToStopID: "76007", Line: "390", Direction: "inbound",
		},
		{FromStop: "Kentish Town", ToStop: "Kings Cross", Line: "Northern"}: {
			FromStopID: "9400ZZLUKSH1", ToStopID: "9400ZZLUKSX3", Line: "Northern", Direction: "outbound",
		},
	}
}

// defaultArrivals has a bus that reaches the stop at 12:20 and a train at 12:19
func defaultArrivals() *fakeArrivals {
	return &fakeArrivals{
		lines: map[string][]transit.Arrival{
			"390|73053|inbound": {
				{VehicleID: "LX11AVC", NaptanID: "73053", LineName: "390", ExpectedArrival: at(12, 10)},
			},
			"Northern|9400ZZLUKSH1|outbound": {
				{VehicleID: "042", NaptanID: "9400ZZLUKSH1", LineName: "Northern", ExpectedArrival: at(12, 12)},
			},
		},
		vehicles: map[string][]transit.Arrival{
			"LX11AVC": {
				{VehicleID: "LX11AVC", NaptanID: "73053", LineName: "390", ExpectedArrival: at(12, 10)},
				{VehicleID: "LX11AVC", NaptanID: "76007", LineName: "390", ExpectedArrival: at(12, 20)},
			},
			"042": {
				{VehicleID: "042", NaptanID: "9400ZZLUKSX3", LineName: "Northern", ExpectedArrival: at(12, 19)},
			},
		},
	}
}

func newEngine(t *testing.T, doc string, arrivals ArrivalsProvider) *Engine {
	t.Helper()
	cfg, err := destinations.Parse([]byte(doc))
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	return NewEngine(cfg, stops(), arrivals,
		WithClock(func() time.Time { return noon }),
		WithLocation(time.UTC),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
}

func assertRankOrder(t *testing.T, ranked []models.RankedDestinationOption) {
	t.Helper()
	seen := make(map[int]bool)
	for i, r := range ranked {
		if r.Rank != i {
			t.Errorf("position %d has rank %d", i, r.Rank)
		}
		if seen[r.ID] {
			t.Errorf("duplicate id %d", r.ID)
		}
		seen[r.ID] = true
	}
}

// ---------------------------------------------------------------------------
// Timings
// ---------------------------------------------------------------------------

func TestRank_WalkOnly(t *testing.T) {
	engine := newEngine(t, kgxConfig, defaultArrivals())

	ranked, err := engine.Rank(context.Background(), "walk-only")
	if err != nil {
		t.Fatalf("rank: %v", err)
	}
	if len(ranked) != 1 {
		t.Fatalf("got %d options, want 1", len(ranked))
	}

	walk := ranked[0]
	if !walk.FinalArrivalTime.Equal(at(12, 30)) {
		t.Errorf("final arrival = %v, want 12:30", walk.FinalArrivalTime)
	}
	if !walk.Details.DepartureTime.Equal(noon) {
		t.Errorf("departure = %v, want now", walk.Details.DepartureTime)
	}
	if walk.Details.VehicleID != "" {
		t.Errorf("walk should have no vehicle, got %q", walk.Details.VehicleID)
	}
	if walk.AppliedBonus != 0 {
		t.Errorf("applied bonus = %d, want 0", walk.AppliedBonus)
	}
}

func TestTimings_Bus(t *testing.T) {
	engine := newEngine(t, kgxConfig, defaultArrivals())

	timings, err := engine.Timings(context.Background(), "kgx")
	if err != nil {
		t.Fatalf("timings: %v", err)
	}
	if len(timings) != 3 {
		t.Fatalf("got %d timings, want 3", len(timings))
	}

	bus := timings[0]
	if bus.VehicleID != "LX11AVC" {
		t.Errorf("vehicle = %q", bus.VehicleID)
	}
	if !bus.DepartureTime.Equal(at(12, 10)) || !bus.ArrivalTime.Equal(at(12, 20)) {
		t.Errorf("bus times = %v -> %v, want 12:10 -> 12:20", bus.DepartureTime, bus.ArrivalTime)
	}

	ranked := RankTimings("kgx", timings, func(models.Modality) int { return 0 })
	for _, r := range ranked {
		if r.Modality == models.Bus && !r.FinalArrivalTime.Equal(at(12, 25)) {
			t.Errorf("bus final arrival = %v, want 12:25", r.FinalArrivalTime)
		}
	}
}

func TestTimings_DropsUncatchableVehicles(t *testing.T) {
	arrivals := defaultArrivals()
	arrivals.lines["390|73053|inbound"] = []transit.Arrival{
		{VehicleID: "TOO-SOON", ExpectedArrival: at(12, 1)},
		{VehicleID: "LX11AVC", ExpectedArrival: at(12, 10)},
	}
	arrivals.vehicles["TOO-SOON"] = []transit.Arrival{
		{NaptanID: "76007", LineName: "390", ExpectedArrival: at(12, 11)},
	}
	engine := newEngine(t, kgxConfig, arrivals)

	timings, err := engine.Timings(context.Background(), "kgx")
	if err != nil {
		t.Fatalf("timings: %v", err)
	}

	if slices.Contains(arrivals.vehicleCalls, "TOO-SOON") {
		t.Error("an uncatchable vehicle was checked for the destination stop")
	}
	if timings[0].VehicleID != "LX11AVC" {
		t.Errorf("vehicle = %q, want LX11AVC", timings[0].VehicleID)
	}
}

func TestTimings_SkipsBranchNotServingDestination(t *testing.T) {
	arrivals := defaultArrivals()
	arrivals.lines["390|73053|inbound"] = []transit.Arrival{
		{VehicleID: "SHORT", ExpectedArrival: at(12, 5)},
		{VehicleID: "LX11AVC", ExpectedArrival: at(12, 10)},
		{VehicleID: "LATER", ExpectedArrival: at(12, 15)},
	}
	arrivals.vehicles["SHORT"] = []transit.Arrival{
		{NaptanID: "99999", LineName: "390", ExpectedArrival: at(12, 9)},
	}
	arrivals.vehicles["LATER"] = arrivals.vehicles["LX11AVC"]
	engine := newEngine(t, kgxConfig, arrivals)

	timings, err := engine.Timings(context.Background(), "kgx")
	if err != nil {
		t.Fatalf("timings: %v", err)
	}

	if timings[0].VehicleID != "LX11AVC" {
		t.Errorf("vehicle = %q, want LX11AVC", timings[0].VehicleID)
	}
	if slices.Contains(arrivals.vehicleCalls, "LATER") {
		t.Error("no candidate should be examined after one is accepted")
	}
}

func TestTimings_MatchesLineName(t *testing.T) {
	arrivals := defaultArrivals()
	// Same vehicle id on another line calls at the stop first
	arrivals.vehicles["042"] = []transit.Arrival{
		{NaptanID: "9400ZZLUKSX3", LineName: "Victoria", ExpectedArrival: at(12, 14)},
		{NaptanID: "9400ZZLUKSX3", LineName: "Northern", ExpectedArrival: at(12, 19)},
	}
	engine := newEngine(t, kgxConfig, arrivals)

	timings, err := engine.Timings(context.Background(), "kgx")
	if err != nil {
		t.Fatalf("timings: %v", err)
	}
	if !timings[1].ArrivalTime.Equal(at(12, 19)) {
		t.Errorf("tube arrival = %v, want 12:19", timings[1].ArrivalTime)
	}
}

func TestRank_LowercaseLineID(t *testing.T) {
	doc := `
bus_time_bonus: 3
tube_time_bonus: 0
destinations:
  kgx:
    tube:
      origin_station: Kentish Town
      destination_station: Kings Cross
      line: northern
      origin_walking_time: 10
      destination_walking_time: 5
`
	cfg, err := destinations.Parse([]byte(doc))
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	resolved := fakeStops{
		{FromStop: "Kentish Town", ToStop: "Kings Cross", Line: "northern"}: {
			FromStopID: "9400ZZLUKSH1", ToStopID: "9400ZZLUKSX3", Line: "northern", Direction: "outbound",
		},
	}
	arrivals := &fakeArrivals{
		lines: map[string][]transit.Arrival{
			"northern|9400ZZLUKSH1|outbound": {
				{VehicleID: "042", NaptanID: "9400ZZLUKSH1", LineID: "northern", LineName: "Northern", ExpectedArrival: at(12, 12)},
			},
		},
		vehicles: map[string][]transit.Arrival{
			"042": {
				{VehicleID: "042", NaptanID: "9400ZZLUKSX3", LineID: "northern", LineName: "Northern", ExpectedArrival: at(12, 19)},
			},
		},
	}
	engine := NewEngine(cfg, resolved, arrivals,
		WithClock(func() time.Time { return noon }),
		WithLocation(time.UTC),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)

	ranked, err := engine.Rank(context.Background(), "kgx")
	if err != nil {
		t.Fatalf("rank: %v", err)
	}
	if len(ranked) != 1 || ranked[0].Modality != models.Tube {
		t.Fatalf("expected the tube option, got %+v", ranked)
	}
	if !ranked[0].FinalArrivalTime.Equal(at(12, 24)) {
		t.Errorf("final arrival = %v, want 12:24", ranked[0].FinalArrivalTime)
	}
}

func TestTimings_WalkDoesNotStopEvaluation(t *testing.T) {
	engine := newEngine(t, kgxConfig, defaultArrivals())

	timings, err := engine.Timings(context.Background(), "walk-first")
	if err != nil {
		t.Fatalf("timings: %v", err)
	}
	if len(timings) != 2 {
		t.Fatalf("got %d timings, want walk and bus", len(timings))
	}
	if timings[0].ModalityOption.Modality != models.Walk || timings[1].ModalityOption.Modality != models.Bus {
		t.Errorf("unexpected modalities: %s, %s", timings[0].ModalityOption.Modality, timings[1].ModalityOption.Modality)
	}
}

func TestRank_NoViableVehicle(t *testing.T) {
	arrivals := defaultArrivals()
	arrivals.lines["390|73053|inbound"] = []transit.Arrival{
		{VehicleID: "TOO-SOON", ExpectedArrival: at(12, 1)},
	}
	arrivals.lines["Northern|9400ZZLUKSH1|outbound"] = nil
	engine := newEngine(t, kgxConfig, arrivals)

	ranked, err := engine.Rank(context.Background(), "kgx")
	if err != nil {
		t.Fatalf("rank: %v", err)
	}
	if len(ranked) != 1 || ranked[0].Modality != models.Walk {
		t.Fatalf("expected only the walk option, got %+v", ranked)
	}
	assertRankOrder(t, ranked)
}

func TestRank_UnknownDestination(t *testing.T) {
	engine := newEngine(t, kgxConfig, defaultArrivals())

	_, err := engine.Rank(context.Background(), "atlantis")
	if !errors.Is(err, ErrUnknownDestination) {
		t.Errorf("expected ErrUnknownDestination, got %v", err)
	}
}

func TestRank_TransportErrorPropagates(t *testing.T) {
	arrivals := defaultArrivals()
	arrivals.err = &transit.StatusError{Endpoint: "Line/390/Arrivals/73053", StatusCode: 503}
	engine := newEngine(t, kgxConfig, arrivals)

	_, err := engine.Rank(context.Background(), "kgx")
	var statusErr *transit.StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != 503 {
		t.Errorf("expected the 503 StatusError, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Ranking
// ---------------------------------------------------------------------------

func TestRank_AllModalities(t *testing.T) {
	engine := newEngine(t, kgxConfig, defaultArrivals())

	ranked, err := engine.Rank(context.Background(), "kgx")
	if err != nil {
		t.Fatalf("rank: %v", err)
	}
	if len(ranked) != 3 {
		t.Fatalf("got %d options, want 3", len(ranked))
	}
	assertRankOrder(t, ranked)

	// bus 12:25 adjusted 12:22, tube 12:24, walk 12:30
	want := []models.Modality{models.Bus, models.Tube, models.Walk}
	for i, m := range want {
		if ranked[i].Modality != m {
			t.Errorf("rank %d = %s, want %s", i, ranked[i].Modality, m)
		}
	}
	if ranked[0].AppliedBonus != -3 {
		t.Errorf("bus applied bonus = %d, want -3", ranked[0].AppliedBonus)
	}
	if !ranked[0].FinalArrivalTime.Equal(at(12, 25)) {
		t.Errorf("bonus must not change the reported arrival, got %v", ranked[0].FinalArrivalTime)
	}
}

func TestRankTimings_BonusBeatsEarlierArrival(t *testing.T) {
	five := 5
	timings := []models.CalculatedDestinationModalityOption{
		{
			ModalityOption: models.ModalityOption{Modality: models.Tube, TimeTo: &five},
			ArrivalTime:    at(12, 19),
		},
		{
			ModalityOption: models.ModalityOption{Modality: models.Bus, TimeTo: &five},
			ArrivalTime:    at(12, 20),
		},
	}
	bonus := map[models.Modality]int{models.Bus: 3, models.Tube: 0}

	ranked := RankTimings("kgx", timings, func(m models.Modality) int { return bonus[m] })

	if ranked[0].Modality != models.Bus || ranked[0].ID != 1 {
		t.Errorf("expected the bus first, got %+v", ranked[0])
	}
	if !ranked[1].FinalArrivalTime.Equal(at(12, 24)) {
		t.Errorf("tube final arrival = %v, want 12:24", ranked[1].FinalArrivalTime)
	}
	assertRankOrder(t, ranked)
}

func TestRankTimings_TiesKeepCollectionOrder(t *testing.T) {
	timings := []models.CalculatedDestinationModalityOption{
		{ModalityOption: models.ModalityOption{Modality: models.Walk}, ArrivalTime: at(12, 30)},
		{ModalityOption: models.ModalityOption{Modality: models.Bus}, ArrivalTime: at(12, 33)},
		{ModalityOption: models.ModalityOption{Modality: models.Tube}, ArrivalTime: at(12, 30)},
	}
	bonus := map[models.Modality]int{models.Bus: 3}

	ranked := RankTimings("kgx", timings, func(m models.Modality) int { return bonus[m] })

	var ids []int
	for _, r := range ranked {
		ids = append(ids, r.ID)
	}
	if !slices.Equal(ids, []int{0, 1, 2}) {
		t.Errorf("ids in rank order = %v, want [0 1 2]", ids)
	}
	assertRankOrder(t, ranked)
}

func TestRankTimings_Empty(t *testing.T) {
	ranked := RankTimings("kgx", nil, func(models.Modality) int { return 0 })
	if len(ranked) != 0 {
		t.Errorf("expected no options, got %d", len(ranked))
	}
}
