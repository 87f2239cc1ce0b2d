package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var forceRebuild bool

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the TfL stop point cache",
}

var cacheBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Resolve every configured stop and line against TfL",
	Long: `Resolves the TfL stop ids and direction for every stop/line pair in the
destinations file and writes them to STOP_POINT_CACHE_FILE. An existing cache
built from the same destinations file is reused unless --force is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(true)
		if err != nil {
			return err
		}

		cache, err := a.stopPoints(cmd.Context(), a.client(), forceRebuild)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s %d stop/line pairs in %s\n",
			accentStyle.Render("✓"), cache.Len(), a.cfg.StopPointCache)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheBuildCmd)
	cacheBuildCmd.Flags().BoolVarP(&forceRebuild, "force", "f", false, "Ignore any persisted cache and rebuild")
}
