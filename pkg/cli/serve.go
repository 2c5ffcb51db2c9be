package cli

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/pagetree"
	"github.com/vango-dev/pagetree/internal/config"
	"github.com/vango-dev/pagetree/pkg/middleware"
)

func serveCmd(base pagetree.Config, load func() (*config.Config, error)) *cobra.Command {
	var (
		addr        string
		metricsAddr string
		dev         bool
		trace       bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the application",
		Long: `Discover the route tree and serve it.

With --metrics-addr a second listener exposes Prometheus metrics at
/metrics. With --trace every request gets an OpenTelemetry server span;
configure the tracer provider in main before calling Execute.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("metrics-addr") {
				fc.Metrics.Addr = metricsAddr
			}
			if trace {
				fc.Tracing.Enabled = true
			}
			if dev {
				fc.Dev = true
			}
			if !cmd.Flags().Changed("addr") {
				addr = fc.Address()
			}

			cfg := appConfig(base, fc)
			cfg.Middleware = append(observability(fc), cfg.Middleware...)
			app := pagetree.New(cfg)

			if fc.Metrics.Addr != "" {
				go serveMetrics(fc.Metrics.Addr, loggerOf(cfg))
			}
			return app.Run(addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default: host:port from pagetree.json)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Listen address of the /metrics endpoint")
	cmd.Flags().BoolVar(&dev, "dev", false, "Enable live reload")
	cmd.Flags().BoolVar(&trace, "trace", false, "Trace requests with OpenTelemetry")

	return cmd
}

func serveMetrics(addr string, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", middleware.MetricsHandler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Info("metrics server starting", "address", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("metrics server failed", "error", err)
	}
}

func loggerOf(cfg pagetree.Config) *slog.Logger {
	if cfg.Logger != nil {
		return cfg.Logger
	}
	return slog.Default()
}
