package cmd

import (
	"log/slog"
	"time"

	"feedwatch/internal/lists"
	"feedwatch/internal/nitter"
	"feedwatch/internal/store"
	"feedwatch/worker"

	"github.com/spf13/cobra"
)

// collectCmd runs one ingestion pass for a list: scrape every tracked
// handle and store the top posts per handle.
var collectCmd = &cobra.Command{
	Use:   "collect <list>",
	Short: "Scrape tracked accounts and store their top posts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		listName := args[0]
		cfg := GetConfig()

		handles, err := lists.Load(cfg.Lists.Dir, listName)
		if err != nil {
			return err
		}
		slog.Info("collect: handles loaded", "list", listName, "count", len(handles))

		stores := store.NewManager(cfg.Store.Dir)
		defer stores.Close()

		col := &worker.Collector{
			Scraper:      nitter.NewClient(cfg.Nitter.BaseURL),
			Stores:       stores,
			List:         listName,
			Handles:      handles,
			Window:       time.Duration(cfg.Nitter.IngestWindowDays) * 24 * time.Hour,
			TopPerHandle: cfg.Nitter.TopPerHandle,
		}
		return col.RunOnce(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(collectCmd)
}
