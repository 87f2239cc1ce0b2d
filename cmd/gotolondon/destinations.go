package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var destinationsCmd = &cobra.Command{
	Use:   "destinations",
	Short: "List configured destinations and their options",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadApp(false)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, name := range a.dests.Names() {
			fmt.Fprintln(out, accentStyle.Render(name))

			options, _ := a.dests.Options(name)
			for _, opt := range options {
				fmt.Fprintf(out, "  • %s\n", describeOption(opt))
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(destinationsCmd)
}
