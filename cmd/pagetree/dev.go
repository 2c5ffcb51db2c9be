package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/pagetree/internal/config"
	"github.com/vango-dev/pagetree/internal/dev"
)

func devCmd() *cobra.Command {
	var (
		root string
		tags []string
	)

	cmd := &cobra.Command{
		Use:   "dev",
		Short: "Run the application and restart it on change",
		Long: `Build and run the application in the current directory with "serve --dev".

Changes to code artifacts regenerate the catalog, Go changes rebuild the
binary, and every change restarts the process. Open pages reload
themselves once the new process is up.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			projectDir, err := os.Getwd()
			if err != nil {
				return err
			}
			if root == "" {
				root = config.DefaultRoot
				if cfg, err := config.LoadFromWorkingDir(); err == nil {
					projectDir = cfg.Dir()
					root = cfg.Root
				}
			}

			r, err := dev.NewRunner(dev.Options{
				ProjectDir: projectDir,
				Root:       root,
				Tags:       tags,
				Logger:     slog.New(slog.NewTextHandler(os.Stderr, nil)),
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			info("Watching %s (Ctrl+C to stop)", projectDir)
			if err := r.Run(ctx); err != nil && err != context.Canceled {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&root, "root", "r", "", "Application root (default: from pagetree.json, else .)")
	cmd.Flags().StringSliceVar(&tags, "tags", nil, "Build tags")

	return cmd
}
