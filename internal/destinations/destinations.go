// Package destinations loads the travel options document.
//
// The document is YAML: a bonus per modality and a map of destinations, each
// holding one entry per modality. Destinations and modalities keep their
// document order, which is the tie-break order used when ranking.
package destinations

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"

	"github.com/randytsao24/gotolondon/internal/models"
)

// ErrInvalidConfig is wrapped by every load and validation failure
var ErrInvalidConfig = errors.New("invalid destinations config")

// Destination is a named place with its configured ways of getting there
type Destination struct {
	Name    string
	Options []models.ModalityOption
}

// DestinationOption pairs an option with the destination it belongs to
type DestinationOption struct {
	Destination string
	Option      models.ModalityOption
}

// Config is the validated, strongly typed travel options document
type Config struct {
	// Fingerprint is the hex SHA-256 of the raw document
	Fingerprint string

	bonuses      map[models.Modality]int
	destinations []Destination
	index        map[string]int
}

// Load reads and validates the document at path
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrInvalidConfig, path, err)
	}
	return Parse(data)
}

// Fingerprint returns the content hash used to detect stale derived data
func Fingerprint(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Names returns destination names in document order
func (c *Config) Names() []string {
	names := make([]string, len(c.destinations))
	for i, d := range c.destinations {
		names[i] = d.Name
	}
	return names
}

// Has returns true if the destination is configured
func (c *Config) Has(name string) bool {
	_, ok := c.index[name]
	return ok
}

// Options returns the options for a destination in document order
func (c *Config) Options(name string) ([]models.ModalityOption, bool) {
	i, ok := c.index[name]
	if !ok {
		return nil, false
	}
	return c.destinations[i].Options, true
}

// AllOptions flattens every destination's options, in document order
func (c *Config) AllOptions() []DestinationOption {
	var all []DestinationOption
	for _, d := range c.destinations {
		for _, opt := range d.Options {
			all = append(all, DestinationOption{Destination: d.Name, Option: opt})
		}
	}
	return all
}

// Bonus returns the configured preference minutes for a modality.
// The value is positive when the modality is preferred.
func (c *Config) Bonus(m models.Modality) int {
	return c.bonuses[m]
}
