package cmd

import (
	"github.com/spf13/cobra"
)

// checkCmd represents the check command.
var checkCmd = newCheckCmd()

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check whether a newer release is available",
		Long:  "Compare the manifest version against the newest release of the upstream repository.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			updater, ui := updaterFactory(cmd)
			if err := ui.Start(ctx); err != nil {
				return err
			}
			defer ui.Close(ctx)

			_, err := updater.Check(ctx, checkArgs())

			return err
		},
	}
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
