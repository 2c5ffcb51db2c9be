package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/pagetree/internal/codegen"
	"github.com/vango-dev/pagetree/internal/templates"
)

func newCmd() *cobra.Command {
	var (
		template    string
		modulePath  string
		description string
	)

	cmd := &cobra.Command{
		Use:   "new <name>",
		Short: "Create a new application",
		Long: fmt.Sprintf(`Create a new application in ./<name> and generate its catalog.

Templates: %s`, strings.Join(templates.List(), ", ")),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			name := filepath.Base(dir)
			if modulePath == "" {
				modulePath = name
			}

			tmpl, err := templates.Get(template)
			if err != nil {
				return err
			}

			info("Creating %s from the %s template...", dir, tmpl.Name)
			if err := tmpl.Create(dir, templates.Config{
				ProjectName: name,
				ModulePath:  modulePath,
				Description: description,
			}); err != nil {
				return err
			}

			g, err := codegen.New(filepath.Join(dir, templates.SiteDir))
			if err != nil {
				return err
			}
			if _, err := g.Run(""); err != nil {
				return err
			}

			success("Created %s", dir)
			fmt.Println()
			info("cd %s", dir)
			info("go mod tidy")
			info("go run . serve --dev")
			return nil
		},
	}

	cmd.Flags().StringVarP(&template, "template", "t", "minimal", "Project template")
	cmd.Flags().StringVarP(&modulePath, "module", "m", "", "Go module path (default: <name>)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Project description")

	return cmd
}
