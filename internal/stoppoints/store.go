package stoppoints

import (
	"cmp"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/randytsao24/gotolondon/internal/models"
)

// document is the on-disk shape. Pairs are stored as lists because a struct
// key cannot be a JSON object key.
type document struct {
	Fingerprint string  `json:"fingerprint"`
	Bus         []entry `json:"bus"`
	Tube        []entry `json:"tube"`
}

type entry struct {
	models.StopLinePair
	StopPoints models.StopPointsInfo `json:"stop_points"`
}

// Read loads the cache at path if it was built for fingerprint. Every failure
// (missing file, bad JSON, other fingerprint) is a miss and only logged.
func Read(path, fingerprint string, logger *slog.Logger) (*Cache, bool) {
	if logger == nil {
		logger = slog.Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Info("stop point cache miss", "path", path, "reason", err.Error())
		return nil, false
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		logger.Warn("stop point cache miss", "path", path, "reason", "unreadable: "+err.Error())
		return nil, false
	}

	if doc.Fingerprint != fingerprint {
		logger.Info("stop point cache miss", "path", path, "reason", "configuration changed")
		return nil, false
	}

	cache := newCache(doc.Fingerprint)
	for _, e := range doc.Bus {
		cache.entries[models.Bus][e.StopLinePair] = e.StopPoints
	}
	for _, e := range doc.Tube {
		cache.entries[models.Tube][e.StopLinePair] = e.StopPoints
	}
	return cache, true
}

// Save writes the whole cache to path. The file is written next to path and
// renamed into place, so a reader never sees a partial document.
func (c *Cache) Save(path string) error {
	doc := document{
		Fingerprint: c.fingerprint,
		Bus:         c.sortedEntries(models.Bus),
		Tube:        c.sortedEntries(models.Tube),
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("serializing stop point cache: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp cache file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp cache file: %w", err)
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return fmt.Errorf("setting cache file mode: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing temp cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp cache file: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing stop point cache: %w", err)
	}
	return nil
}

func (c *Cache) sortedEntries(m models.Modality) []entry {
	entries := make([]entry, 0, len(c.entries[m]))
	for pair, info := range c.entries[m] {
		entries = append(entries, entry{StopLinePair: pair, StopPoints: info})
	}
	slices.SortFunc(entries, func(a, b entry) int {
		return cmp.Or(
			cmp.Compare(a.FromStop, b.FromStop),
			cmp.Compare(a.ToStop, b.ToStop),
			cmp.Compare(a.Line, b.Line),
		)
	})
	return entries
}
