package ranking

import (
	"time"

	"github.com/randytsao24/gotolondon/internal/models"
)

// Summary breaks a ranked option into the legs a rider cares about, in whole
// minutes relative to now.
type Summary struct {
	Modality          models.Modality `json:"modality"`
	VehicleID         string          `json:"vehicle_id,omitempty"`
	FromStop          string          `json:"from_stop,omitempty"`
	ToStop            string          `json:"to_stop,omitempty"`
	ArrivalClock      string          `json:"arrival_clock"`
	ArrivalMinutes    int             `json:"arrival_minutes"`
	WalkToStopMinutes int             `json:"walk_to_stop_minutes"`
	WaitMinutes       int             `json:"wait_minutes"`
	TravelMinutes     int             `json:"travel_minutes"`
	WalkToDestMinutes int             `json:"walk_to_destination_minutes"`
}

// Summarize describes opt as seen at now
func Summarize(opt models.RankedDestinationOption, now time.Time) Summary {
	details := opt.Details
	s := Summary{
		Modality:       opt.Modality,
		ArrivalClock:   opt.FinalArrivalTime.Format("15:04"),
		ArrivalMinutes: minutes(opt.FinalArrivalTime.Sub(now)),
	}

	if opt.Modality == models.Walk {
		s.WalkToStopMinutes = details.ModalityOption.TimeFrom
		return s
	}

	atStop := now.Add(time.Duration(details.ModalityOption.TimeFrom) * time.Minute)
	s.VehicleID = details.VehicleID
	s.FromStop = details.ModalityOption.FromStop
	s.ToStop = details.ModalityOption.ToStop
	s.WalkToStopMinutes = details.ModalityOption.TimeFrom
	s.WaitMinutes = minutes(details.DepartureTime.Sub(atStop))
	s.TravelMinutes = minutes(details.ArrivalTime.Sub(details.DepartureTime))
	s.WalkToDestMinutes = details.ModalityOption.TrailingWalk()
	return s
}

func minutes(d time.Duration) int {
	if d < 0 {
		return 0
	}
	return int(d.Minutes())
}
