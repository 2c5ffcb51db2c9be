package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vango-dev/pagetree"
	"github.com/vango-dev/pagetree/internal/config"
	"github.com/vango-dev/pagetree/pkg/router"
)

func routesCmd(base pagetree.Config, load func() (*config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List the discovered endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := load()
			if err != nil {
				return err
			}
			app := pagetree.New(appConfig(base, fc))
			if err := app.Init(); err != nil {
				return err
			}
			return WriteRegistry(cmd.OutOrStdout(), app.Registry())
		},
	}
}

// WriteRegistry prints one line per endpoint: path, kind and either the
// API methods or the view parts.
func WriteRegistry(w io.Writer, reg *router.Registry) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PATH\tKIND\tDETAILS")
	for _, ep := range reg.Endpoints() {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", ep.Path(), ep.Kind(), details(ep))
	}

	t := reg.Templates()
	fmt.Fprintf(tw, "\nlayout: %s\terror page: %s\n",
		presence(t.Layout != nil), presence(t.Error != nil))
	return tw.Flush()
}

func details(ep *router.Endpoint) string {
	if ep.Kind() == router.KindAPI {
		var names []string
		for _, m := range ep.API().Methods() {
			names = append(names, m.String())
		}
		return strings.Join(names, ",")
	}

	v := ep.View()
	var parts []string
	if v.Body != nil {
		parts = append(parts, "body")
	}
	if v.Head.Present() {
		parts = append(parts, "head")
	}
	if v.Script.Present() {
		parts = append(parts, "script")
	}
	if v.Style.Present() {
		parts = append(parts, "style")
	}
	return strings.Join(parts, ",")
}

func presence(ok bool) string {
	if ok {
		return "custom"
	}
	return "default"
}
