// Package models defines shared data types
package models

import "time"

// Modality is a mode of travel
type Modality string

const (
	Bus  Modality = "bus"
	Tube Modality = "tube"
	Walk Modality = "walk"
)

// ResolvableModalities are the modalities whose stops need a TfL lookup
var ResolvableModalities = []Modality{Bus, Tube}

// IsValid returns true for the modalities we know how to rank
func (m Modality) IsValid() bool {
	switch m {
	case Bus, Tube, Walk:
		return true
	}
	return false
}

// NeedsResolution returns true if the modality runs on the TfL network
func (m Modality) NeedsResolution() bool {
	return m == Bus || m == Tube
}

// ModalityOption is one way of getting to a destination, as configured.
// Walk options only carry TimeFrom (the total walk); stop and line fields are empty.
type ModalityOption struct {
	Modality Modality `json:"modality"`
	FromStop string   `json:"from_stop,omitempty"`
	ToStop   string   `json:"to_stop,omitempty"`
	Line     string   `json:"line,omitempty"`
	TimeFrom int      `json:"time_from"`
	TimeTo   *int     `json:"time_to,omitempty"`
}

// TrailingWalk returns the minutes from the arrival stop to the destination
func (o ModalityOption) TrailingWalk() int {
	if o.TimeTo == nil {
		return 0
	}
	return *o.TimeTo
}

// Pair returns the stop/line key for the option
func (o ModalityOption) Pair() StopLinePair {
	return StopLinePair{FromStop: o.FromStop, ToStop: o.ToStop, Line: o.Line}
}

// StopLinePair identifies a route segment by its configured names.
// Uniqueness is scoped per modality.
type StopLinePair struct {
	FromStop string `json:"from_stop"`
	ToStop   string `json:"to_stop"`
	Line     string `json:"line"`
}

// StopPointsInfo holds the resolved TfL identifiers for a StopLinePair
type StopPointsInfo struct {
	FromStopID string `json:"from_stop_id"`
	ToStopID   string `json:"to_stop_id"`
	Line       string `json:"line"`
	Direction  string `json:"direction"`
}

// CalculatedDestinationModalityOption is the live timing for one ModalityOption.
// Departure and arrival are at stop level and exclude the walking legs.
type CalculatedDestinationModalityOption struct {
	Destination    string         `json:"destination"`
	ModalityOption ModalityOption `json:"modality_option"`
	VehicleID      string         `json:"vehicle_id,omitempty"`
	DepartureTime  time.Time      `json:"departure_time"`
	ArrivalTime    time.Time      `json:"arrival_time"`
}

// RankedDestinationOption is a timing placed in the overall order for a destination
type RankedDestinationOption struct {
	Destination      string                              `json:"destination"`
	Modality         Modality                            `json:"modality"`
	FinalArrivalTime time.Time                           `json:"final_arrival_time"`
	AppliedBonus     int                                 `json:"applied_bonus"`
	Rank             int                                 `json:"rank"`
	ID               int                                 `json:"id"`
	Details          CalculatedDestinationModalityOption `json:"details"`
}

// AdjustedArrivalTime is the arrival time used for ordering only
func (r RankedDestinationOption) AdjustedArrivalTime() time.Time {
	return r.FinalArrivalTime.Add(time.Duration(r.AppliedBonus) * time.Minute)
}
