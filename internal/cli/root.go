package cli

import (
	"os"

	"github.com/monokit-dev/monokit/internal/branding"
	"github.com/monokit-dev/monokit/internal/config"
	"github.com/monokit-dev/monokit/internal/errors"
	"github.com/monokit-dev/monokit/internal/logging"
	"github.com/monokit-dev/monokit/internal/scaffold"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	rootDir   string
	verbosity int
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` packages applications of a monorepo into reusable template
archives and creates new applications from those templates.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.SetupLoggerTo(cmd.ErrOrStderr(), verbosity, "")
		configureStyling(os.Stdout)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", "", "Repository root (default: $"+branding.EnvVar("root")+" or the current directory)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase log verbosity (-v info, -vv debug, -vvv trace)")
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	defer func() { _ = logging.Close() }()
	return rootCmd.Execute()
}

// loadSettings resolves the repository root and its configuration.
func loadSettings() (*config.Settings, error) {
	root, err := config.ResolveRoot(rootDir)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "resolving repository root")
	}
	settings, err := config.Load(root)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "loading configuration for %s", root)
	}
	return settings, nil
}

// openWorkspace loads settings, attaches the configured log file and returns
// the repository workspace on the real filesystem.
func openWorkspace(cmd *cobra.Command) (*scaffold.Workspace, *config.Settings, error) {
	settings, err := loadSettings()
	if err != nil {
		return nil, nil, err
	}
	if settings.LogFile != "" {
		logging.SetupLoggerTo(cmd.ErrOrStderr(), verbosity, settings.LogFile)
	}
	return scaffold.NewWorkspace(afero.NewOsFs(), settings), settings, nil
}

// nameArgs requires a leading name argument and allows up to maxArgs arguments.
func nameArgs(usage string, maxArgs int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 || args[0] == "" {
			return errors.Newf(errors.ErrInvalidInput, "missing argument\nusage: %s %s", branding.CLIName(), usage)
		}
		if len(args) > maxArgs {
			return errors.Newf(errors.ErrInvalidInput, "too many arguments\nusage: %s %s", branding.CLIName(), usage)
		}
		return nil
	}
}
