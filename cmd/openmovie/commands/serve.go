package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/amaumene/openmovie/internal/api"
	"github.com/amaumene/openmovie/internal/scheduler"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the home state over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx)
		},
	}
}

func serve(ctx context.Context) error {
	a, err := newApp(ctx, os.Stdout)
	if err != nil {
		return err
	}
	defer a.Close()

	var sched *scheduler.Scheduler
	if a.cfg.RefreshSchedule != "" {
		sched = scheduler.NewScheduler(a.home, a.logger)
		if err := sched.Start(a.cfg.RefreshSchedule); err != nil {
			return err
		}
	}

	server := api.NewServer(a.cfg, version, a.home, a.registry, a.logger)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Start(ctx)
	})
	if sched != nil {
		// The scheduler lives as long as the server
		g.Go(func() error {
			<-ctx.Done()
			sched.Stop()
			return nil
		})
	}

	a.logger.Info("OpenMovie is running")
	err = g.Wait()
	a.logger.Info("Shutdown complete, OpenMovie stopped")
	return err
}
