package cli

import (
	"fmt"

	"github.com/monokit-dev/monokit/internal/branding"
	"github.com/monokit-dev/monokit/internal/config"
	"github.com/monokit-dev/monokit/internal/errors"
	"github.com/spf13/cobra"
)

func init() {
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configListCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage repository settings",
	Long: `Read and write monokit settings stored in ` + branding.ConfigFile() + ` at the repository root.
Environment variables prefixed with ` + branding.EnvPrefix() + `_ override file values.`,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := config.ResolveRoot(rootDir)
		if err != nil {
			return errors.Wrap(err, errors.ErrConfigLoad, "resolving repository root")
		}
		key, value := args[0], args[1]
		if err := config.Set(root, key, value); err != nil {
			return errors.Wrapf(err, errors.ErrInvalidInput, "setting config key %q", key)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", key, value)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !config.IsKnownKey(args[0]) {
			return errors.Newf(errors.ErrInvalidInput, "unknown config key %q (known keys: %v)", args[0], config.Keys())
		}
		root, err := config.ResolveRoot(rootDir)
		if err != nil {
			return errors.Wrap(err, errors.ErrConfigLoad, "resolving repository root")
		}
		value, err := config.Get(root, args[0])
		if err != nil {
			return errors.Wrap(err, errors.ErrConfigLoad, "reading config")
		}
		fmt.Fprintln(cmd.OutOrStdout(), value)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show every configuration value",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := config.ResolveRoot(rootDir)
		if err != nil {
			return errors.Wrap(err, errors.ErrConfigLoad, "resolving repository root")
		}
		for _, key := range config.Keys() {
			value, err := config.Get(root, key)
			if err != nil {
				return errors.Wrap(err, errors.ErrConfigLoad, "reading config")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", key, value)
		}
		return nil
	},
}
