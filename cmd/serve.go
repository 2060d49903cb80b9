package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"feedwatch/internal/lists"
	"feedwatch/internal/nitter"
	"feedwatch/internal/store"
	"feedwatch/worker"

	"github.com/spf13/cobra"
)

// serveCmd runs one collector per configured list on a fetch interval.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the collector workers",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if len(cfg.Digests.Lists) == 0 {
			return fmt.Errorf("no lists configured under digests.lists")
		}
		interval, err := time.ParseDuration(cfg.Nitter.FetchInterval)
		if err != nil {
			return fmt.Errorf("invalid nitter.fetch_interval: %w", err)
		}

		stores := store.NewManager(cfg.Store.Dir)
		defer stores.Close()
		scraper := nitter.NewClient(cfg.Nitter.BaseURL)

		var ws []worker.Worker
		for _, lc := range cfg.Digests.Lists {
			handles, err := lists.Load(cfg.Lists.Dir, lc.Name)
			if err != nil {
				return err
			}
			slog.Info("serve: starting collector", "list", lc.Name, "handles", len(handles), "interval", interval)
			ws = append(ws, &worker.Collector{
				Scraper:      scraper,
				Stores:       stores,
				List:         lc.Name,
				Handles:      handles,
				Interval:     interval,
				Window:       time.Duration(cfg.Nitter.IngestWindowDays) * 24 * time.Hour,
				TopPerHandle: cfg.Nitter.TopPerHandle,
			})
		}

		mgr := worker.NewManager(ws...)
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		// Signal handling for systemd
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			s := <-sigc
			slog.Info("received signal, shutting down", "signal", s.String())
			cancel()
		}()

		return mgr.Start(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
