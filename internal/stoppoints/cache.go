// Package stoppoints resolves configured stop names into TfL stop point ids.
//
// Resolution runs once per configuration: the result is persisted together
// with the configuration fingerprint and reused until the configuration bytes
// change. The cache is read-only once built.
package stoppoints

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/randytsao24/gotolondon/internal/destinations"
	"github.com/randytsao24/gotolondon/internal/models"
)

// Cache maps each modality's stop/line pairs to their resolved stop points
type Cache struct {
	fingerprint string
	entries     map[models.Modality]map[models.StopLinePair]models.StopPointsInfo
}

func newCache(fingerprint string) *Cache {
	c := &Cache{
		fingerprint: fingerprint,
		entries:     make(map[models.Modality]map[models.StopLinePair]models.StopPointsInfo),
	}
	for _, m := range models.ResolvableModalities {
		c.entries[m] = make(map[models.StopLinePair]models.StopPointsInfo)
	}
	return c
}

// Fingerprint returns the configuration fingerprint the cache was built for
func (c *Cache) Fingerprint() string {
	return c.fingerprint
}

// Len returns the number of resolved pairs across modalities
func (c *Cache) Len() int {
	n := 0
	for _, pairs := range c.entries {
		n += len(pairs)
	}
	return n
}

// Resolve returns the stop points for a bus or tube option.
// A miss means the option did not come from the configuration the cache was
// built from.
func (c *Cache) Resolve(opt models.ModalityOption) (models.StopPointsInfo, error) {
	info, ok := c.entries[opt.Modality][opt.Pair()]
	if !ok {
		return models.StopPointsInfo{}, fmt.Errorf("%w: %s %q -> %q on %q",
			ErrUnknownStopLinePair, opt.Modality, opt.FromStop, opt.ToStop, opt.Line)
	}
	return info, nil
}

// LoadOrBuild returns the persisted cache at path if it was built from cfg,
// otherwise resolves every stop/line pair against TfL and persists the result.
func LoadOrBuild(ctx context.Context, cfg *destinations.Config, api Resolver, path string, logger *slog.Logger) (*Cache, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if cache, ok := Read(path, cfg.Fingerprint, logger); ok {
		logger.Info("stop point cache loaded", "path", path, "pairs", cache.Len())
		return cache, nil
	}

	return Rebuild(ctx, cfg, api, path, logger)
}

// Rebuild resolves every pair regardless of what is on disk and overwrites path
func Rebuild(ctx context.Context, cfg *destinations.Config, api Resolver, path string, logger *slog.Logger) (*Cache, error) {
	if logger == nil {
		logger = slog.Default()
	}

	cache, err := Build(ctx, cfg, api, logger)
	if err != nil {
		return nil, err
	}

	if err := cache.Save(path); err != nil {
		return nil, err
	}
	logger.Info("stop point cache written", "path", path, "pairs", cache.Len())
	return cache, nil
}

// Build resolves every unique stop/line pair in cfg without touching disk
func Build(ctx context.Context, cfg *destinations.Config, api Resolver, logger *slog.Logger) (*Cache, error) {
	if logger == nil {
		logger = slog.Default()
	}

	cache := newCache(cfg.Fingerprint)
	r := &resolver{api: api, logger: logger}

	for _, m := range models.ResolvableModalities {
		for _, pair := range UniquePairs(cfg, m) {
			info, err := r.resolvePair(ctx, m, pair)
			if err != nil {
				return nil, err
			}
			cache.entries[m][pair] = info
		}
	}

	return cache, nil
}

// UniquePairs lists the distinct stop/line pairs of one modality, in order of
// first appearance in the configuration.
func UniquePairs(cfg *destinations.Config, modality models.Modality) []models.StopLinePair {
	seen := make(map[models.StopLinePair]bool)
	var pairs []models.StopLinePair

	for _, do := range cfg.AllOptions() {
		if do.Option.Modality != modality {
			continue
		}
		pair := do.Option.Pair()
		if seen[pair] {
			continue
		}
		seen[pair] = true
		pairs = append(pairs, pair)
	}
	return pairs
}
