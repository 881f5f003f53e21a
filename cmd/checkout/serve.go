package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/checkout"
	httpAdapter "github.com/aretw0/checkout/pkg/adapters/http"
	"github.com/aretw0/checkout/pkg/observability"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Starts the checkout engine as a JSON API over HTTP, with a server-sent
event stream of session changes. Prometheus metrics are served on a separate
address when --metrics-addr (or metrics.addr) is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(true)
		if err != nil {
			return err
		}
		defer a.close()

		if v := viper.GetString("listen"); v != "" {
			a.cfg.Listen = v
		}
		if v := viper.GetString("metrics-addr"); v != "" {
			a.cfg.Metrics.Addr = v
		}

		metrics := observability.NewMetrics()
		engine, err := a.newEngine(observability.Merge(metrics.Hooks(), observability.LogHooks(a.logger)))
		if err != nil {
			return err
		}
		mgr := a.newManager(engine)

		api, err := httpAdapter.NewServer(mgr, engine,
			httpAdapter.WithLogger(a.logger),
			httpAdapter.WithAllowedOrigins(a.cfg.CORS.AllowedOrigins...),
			httpAdapter.WithVersion(checkout.Version),
		)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		servers := []*http.Server{{Addr: a.cfg.Listen, Handler: api.Handler()}}
		if a.cfg.Metrics.Addr != "" {
			mux := http.NewServeMux()
			mux.Handle("/metrics", metrics.Handler())
			servers = append(servers, &http.Server{Addr: a.cfg.Metrics.Addr, Handler: mux})
		}

		g, gctx := errgroup.WithContext(ctx)
		for _, srv := range servers {
			g.Go(func() error {
				a.logger.Info("listening", "addr", srv.Addr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
		}
		g.Go(func() error {
			<-gctx.Done()
			a.logger.Info("shutting down")

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			var errs []error
			for _, srv := range servers {
				if err := srv.Shutdown(shutdownCtx); err != nil {
					a.logger.Warn("graceful shutdown did not complete", "addr", srv.Addr, "err", err)
					errs = append(errs, srv.Close())
				}
			}
			return errors.Join(errs...)
		})

		if err := g.Wait(); err != nil {
			return err
		}
		a.logger.Info("server stopped gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("listen", "l", "", "Address for the HTTP API (default from config, :8080)")
	serveCmd.Flags().String("metrics-addr", "", "Address for the Prometheus /metrics endpoint")
}
