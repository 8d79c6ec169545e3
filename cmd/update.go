package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"patchup.dev/pkg/patchup/internal/domain"
)

var updateDryRunFlag bool

// updateCmd represents the update command.
var updateCmd = newUpdateCmd()

func newUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Fetch and apply the diff to the latest release",
		Long: `Resolve the latest release, fetch the unified diff between the manifest
version and it, apply the diff to the resource tree and advance the
manifest version. The fetched diff is archived under the patch directory
for auditing.`,
		Args: cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			updater, ui := updaterFactory(cmd)
			if err := ui.Start(ctx); err != nil {
				return err
			}
			defer ui.Close(ctx)

			token := viper.GetString(tokenConfigKey)

			_, err := updater.Update(ctx, domain.UpdateArgs{
				CheckArgs:     checkArgs(),
				StripPrefix:   viper.GetString(stripPrefixConfigKey),
				ValidateToken: token != "",
				DryRun:        updateDryRunFlag,
			})

			return err
		},
	}

	cmd.Flags().BoolVar(&updateDryRunFlag, "dry-run", false, "fetch and archive the diff without applying it")

	return cmd
}

func init() {
	rootCmd.AddCommand(updateCmd)
}
