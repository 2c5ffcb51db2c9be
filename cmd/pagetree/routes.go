package main

import (
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vango-dev/pagetree/internal/config"
	"github.com/vango-dev/pagetree/pkg/router"
)

func routesCmd() *cobra.Command {
	var root string

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "List the endpoints declared by the route tree",
		Long: `List every endpoint path with its kind and artifact files.

Only the tree is read; bindings are not checked. Run the application's own
"routes" command to see the registry as served.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if root == "" {
				root = config.DefaultRoot
				if cfg, err := config.LoadFromWorkingDir(); err == nil {
					root = cfg.RootPath()
				}
			}

			artifacts, err := router.NewScanner(os.DirFS(root), nil).Artifacts()
			if err != nil {
				return err
			}
			return printArtifacts(cmd.OutOrStdout(), artifacts)
		},
	}

	cmd.Flags().StringVarP(&root, "root", "r", "", "Application root (default: from pagetree.json, else .)")

	return cmd
}

func printArtifacts(w io.Writer, artifacts []router.Artifact) error {
	files := make(map[string][]string)
	kinds := make(map[string]router.Kind)
	var rootFiles []string

	for _, a := range artifacts {
		if a.Role.Kind() == 0 {
			rootFiles = append(rootFiles, a.File)
			continue
		}
		files[a.Path] = append(files[a.Path], path.Base(a.File))
		// A path mixing view and API artifacts is reported, not rejected.
		if k, seen := kinds[a.Path]; !seen {
			kinds[a.Path] = a.Role.Kind()
		} else if k != a.Role.Kind() {
			kinds[a.Path] = 0
		}
	}

	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PATH\tKIND\tFILES")
	for _, p := range paths {
		kind := "conflict"
		if k := kinds[p]; k != 0 {
			kind = k.String()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", p, kind, strings.Join(files[p], " "))
	}
	if len(rootFiles) > 0 {
		fmt.Fprintf(tw, "\nroot:\t%s\n", strings.Join(rootFiles, " "))
	}
	return tw.Flush()
}
