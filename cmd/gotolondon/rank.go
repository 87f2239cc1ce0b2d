package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/randytsao24/gotolondon/internal/models"
	"github.com/randytsao24/gotolondon/internal/ranking"
)

var (
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	timeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

var modalityIcons = map[models.Modality]string{
	models.Bus:  "🚌",
	models.Tube: "🚇",
	models.Walk: "🚶",
}

var rankCmd = &cobra.Command{
	Use:   "rank <destination>",
	Short: "Rank the ways of getting to a destination right now",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(true)
		if err != nil {
			return err
		}

		engine, err := a.engine(cmd.Context())
		if err != nil {
			return err
		}

		ranked, err := engine.Rank(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		renderRanking(cmd.OutOrStdout(), args[0], ranked, time.Now().In(a.location))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rankCmd)
}

func renderRanking(w io.Writer, destination string, ranked []models.RankedDestinationOption, now time.Time) {
	fmt.Fprintln(w, accentStyle.Render(fmt.Sprintf("--- To %s (as of %s) ---", destination, now.Format("15:04"))))

	if len(ranked) == 0 {
		fmt.Fprintln(w, errorStyle.Render("No catchable option right now."))
		return
	}

	for _, opt := range ranked {
		s := ranking.Summarize(opt, now)

		header := fmt.Sprintf("%d. %s %s", opt.Rank+1, modalityIcons[opt.Modality], opt.Modality)
		if opt.Rank == 0 {
			header = accentStyle.Render(header)
		}
		fmt.Fprintf(w, "\n%s  arrive %s (%d min)\n", header, timeStyle.Render(s.ArrivalClock), s.ArrivalMinutes)
		fmt.Fprintf(w, "   %s\n", mutedStyle.Render(describeLegs(s)))
	}
	fmt.Fprintln(w)
}

func describeLegs(s ranking.Summary) string {
	if s.Modality == models.Walk {
		return fmt.Sprintf("walk %d min", s.WalkToStopMinutes)
	}

	legs := []string{
		fmt.Sprintf("walk %d min to %s", s.WalkToStopMinutes, s.FromStop),
		fmt.Sprintf("wait %d min for %s", s.WaitMinutes, s.VehicleID),
		fmt.Sprintf("ride %d min to %s", s.TravelMinutes, s.ToStop),
		fmt.Sprintf("walk %d min", s.WalkToDestMinutes),
	}
	return strings.Join(legs, ", then ")
}

func describeOption(opt models.ModalityOption) string {
	if opt.Modality == models.Walk {
		return fmt.Sprintf("%s %s: %d min", modalityIcons[opt.Modality], opt.Modality, opt.TimeFrom)
	}
	return fmt.Sprintf("%s %s %s: %s → %s (walk %d + %d min)",
		modalityIcons[opt.Modality], opt.Modality, opt.Line, opt.FromStop, opt.ToStop, opt.TimeFrom, opt.TrailingWalk())
}
