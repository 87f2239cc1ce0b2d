package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/randytsao24/gotolondon/internal/config"
	"github.com/randytsao24/gotolondon/internal/destinations"
	"github.com/randytsao24/gotolondon/internal/ranking"
	"github.com/randytsao24/gotolondon/internal/stoppoints"
	"github.com/randytsao24/gotolondon/internal/transit"
)

var (
	envFile          string
	destinationsFile string
)

var rootCmd = &cobra.Command{
	Use:   "gotolondon",
	Short: "Fastest way to a London destination, right now",
	Long: `gotolondon compares walking, bus and tube options for each configured
destination using live TfL arrival predictions and ranks them by when you
would actually get there.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Optional dotenv file with TfL credentials")
	rootCmd.PersistentFlags().StringVarP(&destinationsFile, "destinations", "d", "", "Destinations YAML (overrides DESTINATIONS_FILE)")
}

// app is everything a command needs once settings and destinations are loaded
type app struct {
	cfg      *config.Config
	dests    *destinations.Config
	logger   *slog.Logger
	location *time.Location
}

// loadApp reads settings and destinations. Credentials are only checked when
// requireTfL is set.
func loadApp(requireTfL bool) (*app, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}
	if destinationsFile != "" {
		cfg.DestinationsFile = destinationsFile
	}

	if requireTfL {
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("configuration error: %w", err)
		}
	}

	location, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", cfg.Timezone, err)
	}

	dests, err := destinations.Load(cfg.DestinationsFile)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:      cfg,
		dests:    dests,
		logger:   newLogger(cfg),
		location: location,
	}, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	if cfg.IsDevelopment() {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, nil))
}

func (a *app) client() *transit.Client {
	return transit.NewClient(a.cfg.TfLAppID, a.cfg.TfLAppKey, a.cfg.HTTPTimeout, transit.WithLogger(a.logger))
}

// stopPoints loads the persisted stop point cache or builds it. force skips
// whatever is on disk.
func (a *app) stopPoints(ctx context.Context, client *transit.Client, force bool) (*stoppoints.Cache, error) {
	if force {
		return stoppoints.Rebuild(ctx, a.dests, client, a.cfg.StopPointCache, a.logger)
	}
	return stoppoints.LoadOrBuild(ctx, a.dests, client, a.cfg.StopPointCache, a.logger)
}

func (a *app) engine(ctx context.Context) (*ranking.Engine, error) {
	client := a.client()
	stops, err := a.stopPoints(ctx, client, false)
	if err != nil {
		return nil, fmt.Errorf("preparing stop points: %w", err)
	}

	return ranking.NewEngine(a.dests, stops, client,
		ranking.WithLocation(a.location),
		ranking.WithLogger(a.logger),
	), nil
}
