package cli

import (
	"fmt"
	"path/filepath"

	"github.com/monokit-dev/monokit/internal/scaffold"
	"github.com/spf13/cobra"
)

var createNoPrompt bool

var createCmd = &cobra.Command{
	Use:     "create-app <app-name> [template-name]",
	Aliases: []string{"create"},
	Short:   "Create a new application from a template",
	Long: `Create apps/<app-name> by extracting a template archive and setting the
manifest name to <app-name>. When template-name does not match an available
template you are asked to choose one. A failed creation removes the partially
created directory.

Examples:
  monokit create-app shop
  monokit create-app shop react-admin`,
	Args: nameArgs("create-app <app-name> [template-name]", 2),
	RunE: runCreate,
}

func init() {
	createCmd.Flags().BoolVar(&createNoPrompt, "no-prompt", false, "Fail instead of prompting when the template is not given or not found")
	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	ws, _, err := openWorkspace(cmd)
	if err != nil {
		return err
	}

	appName := args[0]
	templateName := ""
	if len(args) > 1 {
		templateName = args[1]
	}

	var selector scaffold.Selector
	if !createNoPrompt {
		selector = newTemplateSelector(cmd.InOrStdin(), cmd.ErrOrStderr())
	}

	out := cmd.OutOrStdout()
	res, err := ws.Instantiate(appName, templateName, selector)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Template: %s\n", res.Template.FileName())
	fmt.Fprintf(out, "Files: %s\n", formatCount(res.Stats.Files))
	printSuccess(out, "Created application %q", appName)
	fmt.Fprintf(out, "Application path: %s\n", res.AppPath)

	rel, err := filepath.Rel(ws.Root, res.AppPath)
	if err != nil {
		rel = res.AppPath
	}
	fmt.Fprintln(out, "\nNext steps:")
	fmt.Fprintf(out, "  cd %s\n", rel)
	fmt.Fprintln(out, "  install dependencies with your package manager")
	return nil
}
