package destinations

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/randytsao24/gotolondon/internal/models"
)

var validate = validator.New()

type document struct {
	BusTimeBonus  *int      `yaml:"bus_time_bonus" validate:"required"`
	TubeTimeBonus *int      `yaml:"tube_time_bonus" validate:"required"`
	WalkTimeBonus int       `yaml:"walk_time_bonus"`
	Destinations  yaml.Node `yaml:"destinations"`
}

type busEntry struct {
	OriginStop             scalar `yaml:"origin_stop_id" validate:"required"`
	DestinationStop        scalar `yaml:"destination_stop_id" validate:"required"`
	Number                 scalar `yaml:"number" validate:"required"`
	OriginWalkingTime      *int   `yaml:"origin_walking_time" validate:"required,gte=0"`
	DestinationWalkingTime *int   `yaml:"destination_walking_time" validate:"required,gte=0"`
}

type tubeEntry struct {
	OriginStation          scalar `yaml:"origin_station" validate:"required"`
	DestinationStation     scalar `yaml:"destination_station" validate:"required"`
	Line                   scalar `yaml:"line" validate:"required"`
	OriginWalkingTime      *int   `yaml:"origin_walking_time" validate:"required,gte=0"`
	DestinationWalkingTime *int   `yaml:"destination_walking_time" validate:"required,gte=0"`
}

type walkEntry struct {
	TotalTime *int `yaml:"total_time" validate:"required,gte=0"`
}

// scalar accepts any YAML scalar as its literal text, so bus stop codes and
// route numbers can be written unquoted.
type scalar string

func (s *scalar) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a scalar value", value.Line)
	}
	*s = scalar(strings.TrimSpace(value.Value))
	return nil
}

// Parse validates a raw document and fingerprints it
func Parse(data []byte) (*Config, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: parsing YAML: %v", ErrInvalidConfig, err)
	}
	if err := validate.Struct(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	cfg := &Config{
		Fingerprint: Fingerprint(data),
		bonuses: map[models.Modality]int{
			models.Bus:  *doc.BusTimeBonus,
			models.Tube: *doc.TubeTimeBonus,
			models.Walk: doc.WalkTimeBonus,
		},
		index: make(map[string]int),
	}

	root := doc.Destinations
	if root.Kind != yaml.MappingNode || len(root.Content) == 0 {
		return nil, fmt.Errorf("%w: no destinations configured", ErrInvalidConfig)
	}

	// Mapping nodes alternate key, value
	for i := 0; i+1 < len(root.Content); i += 2 {
		name := strings.TrimSpace(root.Content[i].Value)
		if name == "" {
			return nil, fmt.Errorf("%w: line %d: empty destination name", ErrInvalidConfig, root.Content[i].Line)
		}
		if _, dup := cfg.index[name]; dup {
			return nil, fmt.Errorf("%w: destination %q defined twice", ErrInvalidConfig, name)
		}

		options, err := parseDestination(root.Content[i+1])
		if err != nil {
			return nil, fmt.Errorf("%w: destination %q: %v", ErrInvalidConfig, name, err)
		}

		cfg.index[name] = len(cfg.destinations)
		cfg.destinations = append(cfg.destinations, Destination{Name: name, Options: options})
	}

	return cfg, nil
}

func parseDestination(node *yaml.Node) ([]models.ModalityOption, error) {
	if node.Kind != yaml.MappingNode || len(node.Content) == 0 {
		return nil, fmt.Errorf("line %d: expected at least one modality", node.Line)
	}

	seen := make(map[models.Modality]bool)
	var options []models.ModalityOption

	for i := 0; i+1 < len(node.Content); i += 2 {
		modality := models.Modality(node.Content[i].Value)
		if !modality.IsValid() {
			return nil, fmt.Errorf("line %d: unknown modality %q", node.Content[i].Line, modality)
		}
		if seen[modality] {
			return nil, fmt.Errorf("modality %q defined twice", modality)
		}
		seen[modality] = true

		opt, err := parseOption(modality, node.Content[i+1])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", modality, err)
		}
		options = append(options, opt)
	}

	return options, nil
}

func parseOption(modality models.Modality, node *yaml.Node) (models.ModalityOption, error) {
	switch modality {
	case models.Bus:
		var e busEntry
		if err := decodeEntry(node, &e); err != nil {
			return models.ModalityOption{}, err
		}
		return models.ModalityOption{
			Modality: modality,
			FromStop: string(e.OriginStop),
			ToStop:   string(e.DestinationStop),
			Line:     string(e.Number),
			TimeFrom: *e.OriginWalkingTime,
			TimeTo:   e.DestinationWalkingTime,
		}, nil

	case models.Tube:
		var e tubeEntry
		if err := decodeEntry(node, &e); err != nil {
			return models.ModalityOption{}, err
		}
		return models.ModalityOption{
			Modality: modality,
			FromStop: string(e.OriginStation),
			ToStop:   string(e.DestinationStation),
			Line:     string(e.Line),
			TimeFrom: *e.OriginWalkingTime,
			TimeTo:   e.DestinationWalkingTime,
		}, nil

	default:
		var e walkEntry
		if err := decodeEntry(node, &e); err != nil {
			return models.ModalityOption{}, err
		}
		return models.ModalityOption{
			Modality: modality,
			TimeFrom: *e.TotalTime,
		}, nil
	}
}

func decodeEntry(node *yaml.Node, out any) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping", node.Line)
	}
	if err := node.Decode(out); err != nil {
		return err
	}
	return validate.Struct(out)
}
