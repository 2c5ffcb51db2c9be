package main

import (
	"github.com/spf13/cobra"

	"github.com/vango-dev/pagetree/internal/codegen"
	"github.com/vango-dev/pagetree/internal/config"
)

func genCmd() *cobra.Command {
	var (
		root   string
		output string
	)

	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate the catalog from the route tree",
		Long: `Scan the application tree and write catalog/catalog_gen.go.

Each .go artifact must export the function its name calls for:

  +view.go       View (and optionally a Head string)
  +<method>.go   GET, HEAD, PATCH, OPTIONS, DELETE, POST or PUT
  +root.go       Layout
  +error.go      Error

The output is deterministic.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if root == "" {
				root = config.DefaultRoot
				if cfg, err := config.LoadFromWorkingDir(); err == nil {
					root = cfg.RootPath()
				}
			}

			g, err := codegen.New(root)
			if err != nil {
				return err
			}
			if output == "" {
				output = g.OutputPath()
			}

			info("Scanning %s...", root)
			bindings, err := g.Run(output)
			if err != nil {
				return err
			}
			info("Bound %d artifacts", len(bindings))
			success("Generated %s", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&root, "root", "r", "", "Application root (default: from pagetree.json, else .)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: <root>/catalog/catalog_gen.go)")

	return cmd
}
