package transit

import (
	"context"
	"net/url"
	"sort"
	"time"
)

// Arrival is a predicted vehicle call at a stop point. Line arrivals and
// vehicle arrivals share this shape.
type Arrival struct {
	ID              string    `json:"id"`
	VehicleID       string    `json:"vehicleId"`
	NaptanID        string    `json:"naptanId"`
	StationName     string    `json:"stationName"`
	LineID          string    `json:"lineId"`
	LineName        string    `json:"lineName"`
	PlatformName    string    `json:"platformName"`
	Direction       string    `json:"direction"`
	DestinationName string    `json:"destinationName"`
	TimeToStation   int       `json:"timeToStation"`
	ExpectedArrival time.Time `json:"expectedArrival"`
}

// GetArrivals fetches the next vehicles on a line at a stop point.
// direction is optional.
func (c *Client) GetArrivals(ctx context.Context, line, stopID, direction string) ([]Arrival, error) {
	var params url.Values
	if direction != "" {
		params = url.Values{}
		params.Set("direction", direction)
	}

	var arrivals []Arrival
	endpoint := "Line/" + url.PathEscape(line) + "/Arrivals/" + url.PathEscape(stopID)
	if err := c.get(ctx, endpoint, params, &arrivals); err != nil {
		return nil, err
	}
	return arrivals, nil
}

// GetVehicleArrivals fetches every upcoming call for a vehicle
func (c *Client) GetVehicleArrivals(ctx context.Context, vehicleID string) ([]Arrival, error) {
	var arrivals []Arrival
	if err := c.get(ctx, "Vehicle/"+url.PathEscape(vehicleID)+"/Arrivals", nil, &arrivals); err != nil {
		return nil, err
	}
	return arrivals, nil
}

// SortByExpectedArrival orders arrivals soonest first, keeping API order on ties
func SortByExpectedArrival(arrivals []Arrival) {
	sort.SliceStable(arrivals, func(i, j int) bool {
		return arrivals[i].ExpectedArrival.Before(arrivals[j].ExpectedArrival)
	})
}

// FilterCatchable drops vehicles arriving before the rider can reach the stop,
// i.e. sooner than walkMinutes from now.
func FilterCatchable(arrivals []Arrival, now time.Time, walkMinutes int) []Arrival {
	earliest := now.Add(time.Duration(walkMinutes) * time.Minute)

	var catchable []Arrival
	for _, a := range arrivals {
		if a.ExpectedArrival.Before(earliest) {
			continue
		}
		catchable = append(catchable, a)
	}
	return catchable
}

// FindDestinationArrival returns the vehicle's call at stopID. When line is
// set, calls on other lines are ignored; tube vehicle ids are only unique per
// line.
func FindDestinationArrival(arrivals []Arrival, stopID, line string) (Arrival, bool) {
	for _, a := range arrivals {
		if line != "" && !matchesLine(line, a.LineID, a.LineName) {
			continue
		}
		if a.NaptanID == stopID {
			return a, true
		}
	}
	return Arrival{}, false
}
