package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/emilythestrangee/project-votes/internal/metrics"
	"github.com/emilythestrangee/project-votes/internal/scheduler"
	"github.com/emilythestrangee/project-votes/internal/server"
	"github.com/emilythestrangee/project-votes/internal/voting"
)

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			e, err := bootstrap(ctx, cmd)
			if err != nil {
				return err
			}
			defer e.Close()

			if port != "" {
				e.cfg.Port = port
			}
			return serve(ctx, e)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "override PORT")
	return cmd
}

func serve(ctx context.Context, e *env) error {
	m := metrics.New()
	svc := voting.NewService(e.store, voting.WithMetrics(m))
	srv := server.New(svc, e.db, m).HTTPServer(e.cfg)

	var sched *scheduler.Scheduler
	if e.cfg.RecountCron != "" {
		sched = scheduler.New(e.cfg.RecountCron, svc)
		if err := sched.Start(); err != nil {
			return err
		}
		defer sched.Stop()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), e.cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("server stopped with error", "error", err)
		return err
	}
	slog.Info("server stopped")
	return nil
}
