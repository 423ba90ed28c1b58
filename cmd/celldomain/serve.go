package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/lixenwraith/celldomain/domain"
	"github.com/lixenwraith/celldomain/engine"
	"github.com/lixenwraith/celldomain/metrics"
	"github.com/lixenwraith/celldomain/parameter"
	"github.com/lixenwraith/celldomain/scenario"
	"github.com/lixenwraith/celldomain/server"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a scenario in real time and expose the overlay over HTTP",
	Long: `Runs the scenario on the simulation clock and serves the current overlay at
/api/overlay, domain heads at /api/domains, connectivity queries at /api/match,
a websocket overlay stream at /ws and Prometheus metrics at /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		interval, _ := cmd.Flags().GetDuration("interval")

		log, err := newLogger(cmd, os.Stderr)
		if err != nil {
			return err
		}
		sc, err := loadScenario(cmd)
		if err != nil {
			return err
		}

		reg := prometheus.NewRegistry()
		obs := metrics.New(reg)
		r, err := scenario.NewRunner(sc, log, domain.WithObserver(obs))
		if err != nil {
			return err
		}

		srv := server.New(log, reg)
		if err := srv.Publish(0, r.Manager.Overlay()); err != nil {
			return err
		}

		clock := engine.NewClock(interval)
		clock.Register(r)
		clock.Register(srv.Publisher(r.Manager))

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		httpSrv := &http.Server{
			Addr:              addr,
			Handler:           srv.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		serverErrors := make(chan error, 1)
		go func() {
			log.Info("listening", "addr", addr, "scenario", sc.Name, "width", sc.Width, "height", sc.Height)
			serverErrors <- httpSrv.ListenAndServe()
		}()

		clockErrors := make(chan error, 1)
		go func() {
			clockErrors <- clock.Run(ctx)
		}()

		var runErr error
		select {
		case err := <-serverErrors:
			if !errors.Is(err, http.ErrServerClosed) {
				runErr = err
			}
			stop()
			<-clockErrors
		case err := <-clockErrors:
			if !errors.Is(err, context.Canceled) {
				log.Error("simulation stopped", "error", err, "tick", clock.Ticks())
				runErr = err
			}
		}

		log.Info("shutting down", "tick", clock.Ticks())
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			log.Warn("graceful shutdown incomplete", "error", err)
			httpSrv.Close()
		}
		return runErr
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "HTTP listen address")
	serveCmd.Flags().Duration("interval", parameter.TickInterval, "Simulation tick interval")
}
