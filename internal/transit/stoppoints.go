package transit

import (
	"context"
	"net/url"
	"slices"
	"strings"
)

// StopPointLine is a line calling at a stop point
type StopPointLine struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// StopPoint is a TfL stop, station or platform. Search results fill Name,
// detail lookups fill CommonName and Children.
type StopPoint struct {
	ID         string          `json:"id"`
	NaptanID   string          `json:"naptanId,omitempty"`
	Name       string          `json:"name,omitempty"`
	CommonName string          `json:"commonName,omitempty"`
	Modes      []string        `json:"modes"`
	Lines      []StopPointLine `json:"lines"`
	Children   []StopPoint     `json:"children,omitempty"`
}

// HasMode returns true if the stop point serves the mode
func (p StopPoint) HasMode(mode string) bool {
	return slices.Contains(p.Modes, mode)
}

// ServesLine reports whether any of the stop point's lines matches line
func (p StopPoint) ServesLine(line string) bool {
	for _, l := range p.Lines {
		if matchesLine(line, l.ID, l.Name) {
			return true
		}
	}
	return false
}

// matchesLine compares a configured line with a TfL line id or display name,
// ignoring case. Stop resolution and destination matching must agree on it.
func matchesLine(line, id, name string) bool {
	return strings.EqualFold(name, line) || strings.EqualFold(id, line)
}

// SearchResponse is the body of StopPoint/Search
type SearchResponse struct {
	Query   string      `json:"query"`
	Total   int         `json:"total"`
	Matches []StopPoint `json:"matches"`
}

// SearchStopPoints searches stop points by name, restricted to modes
func (c *Client) SearchStopPoints(ctx context.Context, name string, modes []string) (*SearchResponse, error) {
	params := url.Values{}
	params.Set("query", name)
	params.Set("modes", strings.Join(modes, ","))

	var result SearchResponse
	if err := c.get(ctx, "StopPoint/Search", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetStopPointDetail fetches a stop point with its children
func (c *Client) GetStopPointDetail(ctx context.Context, id string) (*StopPoint, error) {
	var result StopPoint
	if err := c.get(ctx, "StopPoint/"+url.PathEscape(id), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetDirection returns the canonical direction ("inbound"/"outbound") from one stop point to another
func (c *Client) GetDirection(ctx context.Context, fromID, toID string) (string, error) {
	var direction string
	endpoint := "StopPoint/" + url.PathEscape(fromID) + "/DirectionTo/" + url.PathEscape(toID)
	if err := c.get(ctx, endpoint, nil, &direction); err != nil {
		return "", err
	}
	return direction, nil
}

// FilterStopPoints keeps candidates serving mode and, when line is set, the line.
// Candidate order is preserved.
func FilterStopPoints(candidates []StopPoint, mode, line string) []StopPoint {
	var filtered []StopPoint
	for _, p := range candidates {
		if !p.HasMode(mode) {
			continue
		}
		if line != "" && !p.ServesLine(line) {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered
}
