package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/Sparky983/warp-config-sub000/metrics"
	"github.com/Sparky983/warp-config-sub000/reload"
	"github.com/Sparky983/warp-config-sub000/schema"
)

func (a *app) newWatchCmd() *cobra.Command {
	var (
		schemaPath  string
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Validate configuration and re-validate whenever it changes",
		Long: `Bind every source against a schema file, then reload on every change of a
--config file or on SIGHUP. Invalid changes are reported and the last valid
configuration is kept.

Examples:
  warp watch --schema schema.yaml -c app.yaml
  warp watch --schema schema.yaml -c app.yaml --metrics-addr :9100`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			return a.runWatch(ctx, cmd, schemaPath, metricsAddr)
		},
	}

	cmd.Flags().StringVar(&schemaPath, "schema", "", "schema file path")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")
	_ = cmd.MarkFlagRequired("schema")

	return cmd
}

func (a *app) runWatch(ctx context.Context, cmd *cobra.Command, schemaPath, metricsAddr string) error {
	logger, err := a.logger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	collector := metrics.NewWithRegistry(registry)

	b, err := a.builder(cmd, schemaPath, logger)
	if err != nil {
		return err
	}

	h, err := reload.NewHolder[*schema.Instance](b.WithMetrics(collector), reload.WithLogger(logger), reload.WithMetrics(collector))
	if err != nil {
		return err
	}
	defer h.Stop()

	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Configuration valid")
	printValues(cmd, h.Get())

	h.OnChange(func(inst *schema.Instance, changes []reload.Change) {
		for _, c := range changes {
			fmt.Fprintf(out, "changed %s\n", c)
		}
	})

	if len(a.configs) != 0 {
		if err := h.WatchFiles(a.configs...); err != nil {
			return err
		}
	}

	h.WatchSignals()

	if metricsAddr != "" {
		srv := &http.Server{
			Addr:              metricsAddr,
			Handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
			ReadHeaderTimeout: 5 * time.Second,
		}

		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error().Err(err).Msg("metrics server failed")
			}
		}()

		defer srv.Close()

		logger.Info().Str("addr", metricsAddr).Msg("serving metrics")
	}

	<-ctx.Done()

	return nil
}
