package cmd

import (
	"github.com/spf13/cobra"
)

// changelogCmd represents the changelog command.
var changelogCmd = newChangelogCmd()

func newChangelogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "changelog",
		Short: "Show release notes newer than the current version",
		Long:  "Walk the release feed newest-first and print every release note down to (not including) the manifest version.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			updater, ui := updaterFactory(cmd)
			if err := ui.Start(ctx); err != nil {
				return err
			}
			defer ui.Close(ctx)

			_, err := updater.Changelog(ctx, checkArgs())

			return err
		},
	}
}

func init() {
	rootCmd.AddCommand(changelogCmd)
}
