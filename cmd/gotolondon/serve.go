package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/randytsao24/gotolondon/internal/api"
	"github.com/randytsao24/gotolondon/internal/ranking"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve ranked options over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := loadApp(true)
		if err != nil {
			return err
		}

		engine, err := a.engine(ctx)
		if err != nil {
			return err
		}

		var ranker ranking.Ranker = engine
		if a.cfg.RankCacheTTL > 0 {
			cached := ranking.NewCached(engine, a.cfg.RankCacheTTL)
			defer cached.Close()
			ranker = cached
		}

		server := &http.Server{
			Addr:         ":" + a.cfg.Port,
			Handler:      api.NewRouter(a.cfg, ranker, a.logger),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 4 * a.cfg.HTTPTimeout,
			IdleTimeout:  60 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			a.logger.Info("server starting",
				"port", a.cfg.Port,
				"env", a.cfg.Env,
				"destinations", len(engine.Destinations()),
			)
			errCh <- server.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-ctx.Done():
		}

		a.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
