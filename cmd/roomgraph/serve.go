package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/gyaneshwarpardhi/roomgraph/internal/api"
	"github.com/gyaneshwarpardhi/roomgraph/internal/config"
	"github.com/gyaneshwarpardhi/roomgraph/internal/engine"
	"github.com/gyaneshwarpardhi/roomgraph/internal/world"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("layout")
			return serve(cmd.Context(), addr, path)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "HTTP listen address")
	return cmd
}

func serve(parent context.Context, addr, path string) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loader, cfg, w, err := loadWorld(path)
	if err != nil {
		return err
	}
	st := w.Stats()
	slog.Info("world built", "rooms", st.Rooms, "exits", st.Exits, "free_slots", st.FreeSlots)

	engCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	eng := engine.New(engCtx, w, cfg.Engine)

	loader.OnChange(func(next *config.Layout) {
		nw, err := world.Build(next)
		if err != nil {
			slog.Warn("hot-reload skipped: build failed", "err", err)
			return
		}
		if err := eng.SwapWorld(context.Background(), nw); err != nil {
			slog.Warn("hot-reload skipped: swap failed", "err", err)
			return
		}
		st := nw.Stats()
		slog.Info("layout hot-reloaded", "version", next.Version, "rooms", st.Rooms, "exits", st.Exits)
	})
	stopWatch, err := loader.Watch()
	if err != nil {
		slog.Warn("layout watcher unavailable (hot-reload disabled)", "err", err)
	} else {
		defer stopWatch()
	}

	srv := &http.Server{
		Addr:         addr,
		Handler:      api.New(eng, loader),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")
		shutCtx, shutCancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer shutCancel()
		return srv.Shutdown(shutCtx)
	})

	err = g.Wait()
	cancel()
	eng.Shutdown()
	slog.Info("goodbye")
	return err
}

func loadWorld(path string) (*config.Loader, *config.Layout, *world.World, error) {
	loader, err := config.NewLoader(path)
	if err != nil {
		return nil, nil, nil, err
	}
	cfg := loader.Config()
	w, err := world.Build(cfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("build world: %w", err)
	}
	return loader, cfg, w, nil
}
