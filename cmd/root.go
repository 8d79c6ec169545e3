// Package cmd provides the root command and CLI setup for patchup.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"patchup.dev/pkg/patchup/internal/adapter"
	"patchup.dev/pkg/patchup/internal/controller"
	"patchup.dev/pkg/patchup/internal/domain"
	m "patchup.dev/pkg/patchup/internal/model"
)

// dirFlag is the resource tree root every command operates on.
var dirFlag string

// manifestFlag is the manifest file name relative to the resource root.
var manifestFlag string

// patchDirFlag is where fetched diffs are archived.
var patchDirFlag string

// stripPrefixFlag is the packaging prefix removed from diff paths.
var stripPrefixFlag string

// prereleaseFlag includes prereleases when resolving the latest version.
var prereleaseFlag bool

// tokenFlag is the release-feed API token.
var tokenFlag string

// verboseFlag switches file logging to debug level.
var verboseFlag bool

// updaterFactory builds the updater wired to a command's output; tests
// swap it for a factory returning a mock.
var updaterFactory = newLocalUpdater

func init() {
	configureRootFlags(rootCmd)
}

const rootLongDescription = `Patchup keeps a local resource tree in sync with a repository's release
feed. It compares the manifest version against the newest release, fetches
the unified diff between the two versions and applies it natively (no
external patch utility), then advances the manifest version.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "patchup",
		Short: "Release-feed resource updater",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(viper.GetString(logFilenameKey), viper.GetBool(logVerboseKey))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&dirFlag, dirFlagName, "d", viper.GetString(dirFlagName), "resource tree root directory")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(dirFlagName), dirFlagName)

	cmd.PersistentFlags().StringVar(&manifestFlag, manifestFlagName, viper.GetString(manifestFlagName), "manifest file name inside the resource root")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(manifestFlagName), manifestFlagName)

	cmd.PersistentFlags().StringVar(&patchDirFlag, patchDirFlagName, viper.GetString(patchDirConfigKey), "directory for archived diff files")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(patchDirFlagName), patchDirConfigKey)

	cmd.PersistentFlags().StringVar(&stripPrefixFlag, stripPrefixFlagName, viper.GetString(stripPrefixConfigKey), "packaging prefix stripped from diff paths")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(stripPrefixFlagName), stripPrefixConfigKey)

	cmd.PersistentFlags().BoolVar(&prereleaseFlag, prereleaseFlagName, viper.GetBool(prereleaseConfigKey), "include prereleases when resolving the latest version")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(prereleaseFlagName), prereleaseConfigKey)

	cmd.PersistentFlags().StringVar(&tokenFlag, tokenFlagName, viper.GetString(tokenConfigKey), "release-feed API token")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(tokenFlagName), tokenConfigKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "log at debug level")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// newLocalUpdater wires the real adapters into an updater whose UI writes
// through cmd.
func newLocalUpdater(cmd *cobra.Command) (domain.Updater, controller.UI) {
	ui := controller.NewUI(cmd, controller.IsTTY(os.Stdout))
	fs := adapter.NewLocalTreeFS()
	feed := adapter.NewGitHubFeed(adapter.WithToken(viper.GetString(tokenConfigKey)))
	manifests := adapter.NewLocalManifestStore()
	archive := adapter.NewLocalPatchArchive(fs.JoinPath(viper.GetString(dirFlagName), viper.GetString(patchDirConfigKey)))
	applier := domain.NewApplier(fs, ui)

	return domain.NewUpdater(feed, manifests, archive, fs, applier, ui), ui
}

// checkArgs assembles the shared location/policy arguments from config.
func checkArgs() domain.CheckArgs {
	return domain.CheckArgs{
		Dir:               m.Path(viper.GetString(dirFlagName)),
		Manifest:          viper.GetString(manifestFlagName),
		IncludePrerelease: viper.GetBool(prereleaseConfigKey),
	}
}
