package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"patchup.dev/pkg/patchup/internal/domain"
	m "patchup.dev/pkg/patchup/internal/model"
)

// applyCmd represents the apply command.
var applyCmd = newApplyCmd()

func newApplyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apply <diff-file>",
		Short: "Apply a local diff file to the resource tree",
		Long: `Parse a unified diff from a local file (for example an artifact archived
by a previous dry run) and apply it to the resource tree. No network
access and no manifest change.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			updater, ui := updaterFactory(cmd)
			if err := ui.Start(ctx); err != nil {
				return err
			}
			defer ui.Close(ctx)

			_, err := updater.ApplyLocal(ctx, domain.ApplyArgs{
				Dir:         m.Path(viper.GetString(dirFlagName)),
				DiffFile:    m.Path(args[0]),
				StripPrefix: viper.GetString(stripPrefixConfigKey),
			})

			return err
		},
	}
}

func init() {
	rootCmd.AddCommand(applyCmd)
}
