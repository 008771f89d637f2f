package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/aretw0/infrasim"
	httpadapter "github.com/aretw0/infrasim/pkg/adapters/http"
	"github.com/aretw0/infrasim/pkg/domain"
	"github.com/aretw0/infrasim/pkg/graph"
	"github.com/aretw0/infrasim/pkg/metrics"
	"github.com/aretw0/infrasim/pkg/ports"
	"github.com/aretw0/infrasim/pkg/runner"
)

// DefaultAddr is the listen address of serve.
const DefaultAddr = ":8080"

// Serve runs a system behind the HTTP adapter until a signal arrives.
// The simulation and the server share an errgroup: a failure of either
// shuts the other down. A bounded simulation keeps being served once done.
func Serve(ctx context.Context, opts RunOptions) error {
	outputs(&opts)
	logger := createLogger(opts.LogLevel, opts.Err)
	if opts.Addr == "" {
		opts.Addr = DefaultAddr
	}
	if opts.Ticks == nil {
		unbounded := 0
		opts.Ticks = &unbounded
	}
	if opts.Sleep == nil {
		tick := time.Second
		opts.Sleep = &tick
	}

	cfg, err := loadConfig(opts, logger)
	if err != nil {
		return err
	}
	if opts.MinEvents == nil {
		// Push every tick so the stream follows the pace.
		every := 0
		cfg.MinEventsPerBurst = &every
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector, err := metrics.NewCollector(reg)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	var srv *httpadapter.Server
	sim, err := newSimulator(cfg, opts, logger,
		infrasim.WithLifecycleHooks(collector.Hooks()),
		infrasim.WithGraphHooks(func(g *graph.Graph) domain.LifecycleHooks {
			srv = httpadapter.NewServer(g,
				httpadapter.WithGatherer(reg),
				httpadapter.WithVersion(infrasim.Version),
				httpadapter.WithStartHour(cfg.StartHour),
				httpadapter.WithLogger(logger),
			)
			return srv.Hooks()
		}),
	)
	if err != nil {
		return err
	}

	sm := runner.NewSignalManagerContext(ctx)
	defer sm.Stop()
	group, gctx := errgroup.WithContext(sm.Context())

	httpSrv := &http.Server{Addr: opts.Addr, Handler: srv.Handler()}
	group.Go(func() error {
		logger.Info("serving simulation", "addr", opts.Addr, "system", opts.Source, "run_id", sim.RunID())
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		stats, err := sim.Run(gctx, ports.Discard)
		if err != nil && gctx.Err() == nil {
			return err
		}
		if gctx.Err() == nil {
			logger.Info("simulation done, still serving", "ticks", stats.Ticks, "events", stats.Events)
		}
		return nil
	})
	group.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})

	return group.Wait()
}
