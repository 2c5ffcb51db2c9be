package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/pagetree/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pagetree",
		Short: "Tooling for pagetree applications",
		Long: `pagetree turns a directory tree into server-rendered pages and JSON APIs.

This tool works on the tree itself:

  • new      creates an application from a template
  • dev      runs the application and restarts it on change
  • gen      writes the catalog binding .go artifacts to functions
  • routes   lists the endpoints the tree declares
  • version  prints build information

Serving and exporting are built into each application (see pkg/cli).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newCmd(),
		devCmd(),
		genCmd(),
		routesCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		errors.Print(os.Stderr, err)
		os.Exit(1)
	}
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}
