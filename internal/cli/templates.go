package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/monokit-dev/monokit/internal/manifest"
	"github.com/spf13/cobra"
)

var templatesJSON bool

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List available templates",
	Long:  `List the template archives found in the templates directory together with the package they were made from.`,
	Args:  cobra.NoArgs,
	RunE:  runTemplates,
}

func init() {
	templatesCmd.Flags().BoolVar(&templatesJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(templatesCmd)
}

// templateEntry is one row of the templates listing.
type templateEntry struct {
	Name    string `json:"name"`
	Format  string `json:"format"`
	Path    string `json:"path"`
	Size    int64  `json:"size"`
	Package string `json:"package,omitempty"`
	Version string `json:"version,omitempty"`
}

func runTemplates(cmd *cobra.Command, args []string) error {
	ws, _, err := openWorkspace(cmd)
	if err != nil {
		return err
	}

	templates, err := ws.ListTemplates()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(templates) == 0 && !templatesJSON {
		fmt.Fprintf(out, "No templates found in %s.\n", ws.TemplatesDir)
		return nil
	}

	entries := make([]templateEntry, 0, len(templates))
	for _, t := range templates {
		entry := templateEntry{
			Name:   t.Name,
			Format: string(t.Format),
			Path:   t.Path,
			Size:   t.Size,
		}
		if m, err := ws.Describe(t); err == nil {
			entry.Package = m.Name
			entry.Version = m.Version
		}
		entries = append(entries, entry)
	}

	if templatesJSON {
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling templates: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tFORMAT\tSIZE\tPACKAGE")
	for _, e := range entries {
		pkg := "-"
		if e.Package != "" {
			pkg = e.Package + "@" + manifest.DisplayVersion(e.Version)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Name, e.Format, formatSize(e.Size), pkg)
	}
	return tw.Flush()
}
