package cli

import (
	"fmt"

	"github.com/monokit-dev/monokit/internal/archive"
	"github.com/monokit-dev/monokit/internal/scaffold"
	"github.com/spf13/cobra"
)

var archiveFormat string

var archiveCmd = &cobra.Command{
	Use:   "archive <app-name> [archive-name]",
	Short: "Package an application into a template archive",
	Long: `Package apps/<app-name> into templates/<archive-name>.<format>, skipping
files matched by the repository ignore rules. The archive name defaults to the
application name, and an existing archive of the same name is replaced.

Exit status is 1 when the application does not exist and 2 when it has no
manifest.

Examples:
  monokit archive dashboard
  monokit archive dashboard react-admin --format tar.zst`,
	Args: nameArgs("archive <app-name> [archive-name]", 2),
	RunE: runArchive,
}

func init() {
	archiveCmd.Flags().StringVarP(&archiveFormat, "format", "f", "", fmt.Sprintf("Archive format %v (default from config)", archive.Formats()))
	rootCmd.AddCommand(archiveCmd)
}

func runArchive(cmd *cobra.Command, args []string) error {
	ws, settings, err := openWorkspace(cmd)
	if err != nil {
		return err
	}

	appName := args[0]
	archiveName := ""
	if len(args) > 1 {
		archiveName = args[1]
	}

	format := settings.Format
	if archiveFormat != "" {
		format = archiveFormat
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Packing application: %s\n", appName)

	res, err := ws.Pack(appName, archiveName, scaffold.PackOptions{
		Format: archive.Format(format),
		Level:  settings.CompressionLevel,
	})
	if err != nil {
		return err
	}

	printWarnings(cmd.ErrOrStderr(), res.Warnings)
	fmt.Fprintf(out, "Application path: %s\n", res.AppPath)
	fmt.Fprintf(out, "Ignore rules: %s\n", formatCount(res.RuleCount))
	fmt.Fprintf(out, "Files: %s\n", formatCount(res.Files))
	printSuccess(out, "Packed %s", res.ArchivePath)
	fmt.Fprintf(out, "Archive size: %s\n", formatSize(res.Stats.Bytes))
	return nil
}
