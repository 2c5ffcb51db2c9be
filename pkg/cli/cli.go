// Package cli provides the command set embedded in pagetree applications.
//
// An application's main wires its catalog and hands over:
//
//	func main() {
//	    cli.Execute(pagetree.Config{
//	        Root:    "site",
//	        Catalog: catalog.Catalog(),
//	    })
//	}
//
// which gives the binary three commands:
//
//	app serve  [--addr :8080] [--metrics-addr :9090] [--dev] [--trace]
//	app routes
//	app export [--dir dist | --bucket name]
//
// Settings in pagetree.json (see internal/config) are applied first, then
// flags.
package cli

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/pagetree"
	"github.com/vango-dev/pagetree/internal/config"
	pterrors "github.com/vango-dev/pagetree/internal/errors"
	"github.com/vango-dev/pagetree/pkg/middleware"
)

// Execute runs the command set and exits with status 1 on failure.
func Execute(base pagetree.Config) {
	if err := New(base).Execute(); err != nil {
		pterrors.Print(os.Stderr, err)
		os.Exit(1)
	}
}

// New returns the root command.
func New(base pagetree.Config) *cobra.Command {
	var configDir string

	root := &cobra.Command{
		Use:           appName(),
		Short:         "Serve, inspect or export a pagetree application",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configDir, "config", "c", "", "Directory holding pagetree.json (default: nearest parent of the working directory)")

	load := func() (*config.Config, error) {
		return loadConfig(configDir)
	}

	root.AddCommand(
		serveCmd(base, load),
		routesCmd(base, load),
		exportCmd(base, load),
	)
	return root
}

func appName() string {
	if len(os.Args) > 0 {
		return filepath.Base(os.Args[0])
	}
	return "app"
}

// loadConfig reads pagetree.json. A missing file yields defaults.
func loadConfig(dir string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if dir != "" {
		cfg, err = config.Load(dir)
	} else {
		cfg, err = config.LoadFromWorkingDir()
	}
	if err != nil {
		var e *pterrors.Error
		if errors.As(err, &e) && e.Code == "E141" {
			return config.New(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// appConfig merges the file settings into the base configuration.
func appConfig(base pagetree.Config, fc *config.Config) pagetree.Config {
	cfg := base
	if cfg.Root == "" && cfg.FS == nil {
		cfg.Root = fc.RootPath()
	}
	if cfg.Props.Values == nil {
		cfg.Props.Values = fc.Props.Values
	}
	if cfg.Props.Root == nil {
		cfg.Props.Root = fc.Props.Root
	}
	cfg.DevMode = cfg.DevMode || fc.Dev
	return cfg
}

// observability returns the request middleware enabled by fc.
func observability(fc *config.Config) []func(http.Handler) http.Handler {
	var mws []func(http.Handler) http.Handler
	if fc.Tracing.Enabled {
		mws = append(mws, middleware.OpenTelemetry())
	}
	if fc.Metrics.Addr != "" {
		mws = append(mws, middleware.Prometheus(middleware.WithNamespace(fc.Metrics.Namespace)))
	}
	return mws
}

func success(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), "✓ %s\n", fmt.Sprintf(format, args...))
}
