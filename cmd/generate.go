package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"feedwatch/internal/ai"
	"feedwatch/internal/config"
	"feedwatch/internal/digest"
	"feedwatch/internal/discourse"
	"feedwatch/internal/model"
	"feedwatch/internal/pipeline"
	"feedwatch/internal/reddit"
	"feedwatch/internal/report"
	"feedwatch/internal/store"

	"github.com/spf13/cobra"
)

var genStdout bool

// generateCmd builds the digest for a list: windowed top posts, classified
// and summarized, merged with forum search results.
var generateCmd = &cobra.Command{
	Use:   "generate <list>",
	Short: "Generate a digest for a list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		listName := args[0]
		cfg := GetConfig()
		if err := cfg.RequireOpenRouterKey(); err != nil {
			return err
		}
		lc := cfg.FindList(listName)
		if lc.Subreddit != "" && !cfg.RedditConfigured() {
			return fmt.Errorf("reddit credentials for r/%s: %w", lc.Subreddit, config.ErrMissing)
		}
		ctx := cmd.Context()

		scorer := ai.New(ai.Config{
			APIKey:  cfg.OpenRouter.APIKey,
			BaseURL: cfg.OpenRouter.BaseURL,
			Model:   cfg.OpenRouter.Model,
			Topic:   lc.Topic,
		})
		if st, err := scorer.Status(ctx); err != nil {
			slog.Warn("generate: key status check failed", "err", err)
		} else if st.Limit != nil {
			slog.Info("generate: openrouter usage", "usage", st.Usage, "limit", *st.Limit)
		} else {
			slog.Info("generate: openrouter usage", "usage", st.Usage)
		}

		stores := store.NewManager(cfg.Store.Dir)
		defer stores.Close()
		s, err := stores.Get(listName)
		if err != nil {
			return err
		}
		posts, err := s.TopByEngagement(ctx, lc.WindowDays, lc.PerSourceLimit)
		if err != nil {
			return err
		}
		slog.Info("generate: top posts in window", "list", listName, "days", lc.WindowDays, "count", len(posts))
		if len(posts) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No posts in window; skipping digest.")
			return nil
		}

		// All-or-nothing: a failed batch emits no digest.
		enriched, err := pipeline.Enrich(ctx, scorer, posts, lc.Concurrency)
		if err != nil {
			return err
		}
		d := digest.Build(enriched)

		research, err := searchForums(cmd, lc)
		if err != nil {
			return err
		}
		redditResults, err := searchReddit(cmd, cfg, lc)
		if err != nil {
			return err
		}

		now := time.Now()
		data := report.Data{
			Title:      fmt.Sprintf("Digest of %s %s", listName, now.UTC().Format("2006-01-02")),
			List:       listName,
			Datetime:   now.UTC().Format("2006-01-02 15:04"),
			WindowDays: lc.WindowDays,
			Digest:     d,
			Research:   research,
			Reddit:     redditResults,
		}
		content, err := report.Render(data)
		if err != nil {
			return err
		}

		if genStdout {
			fmt.Fprint(cmd.OutOrStdout(), content)
			return nil
		}
		dir := filepath.Join(cfg.Digests.OutputDir, listName)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		outPath := filepath.Join(dir, fmt.Sprintf("digest-%s.md", now.UTC().Format("20060102")))
		if err := os.WriteFile(outPath, []byte(content), 0o644); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Generated: %s\n", outPath)
		return nil
	},
}

func searchForums(cmd *cobra.Command, lc config.ListConfig) ([]model.SearchResult, error) {
	var perForum [][]model.SearchResult
	for _, base := range lc.Forums {
		c := discourse.NewClient(base)
		res, err := c.Search(cmd.Context(), lc.Query, lc.WindowDays)
		if err != nil {
			return nil, err
		}
		slog.Info("generate: forum search", "forum", base, "results", len(res))
		perForum = append(perForum, res)
	}
	return digest.MergeSearch(perForum...), nil
}

func searchReddit(cmd *cobra.Command, cfg config.Config, lc config.ListConfig) ([]model.SearchResult, error) {
	if lc.Subreddit == "" {
		return nil, nil
	}
	if !cfg.RedditConfigured() {
		return nil, fmt.Errorf("reddit credentials for r/%s: %w", lc.Subreddit, config.ErrMissing)
	}
	rc, err := reddit.NewClient(cfg.Reddit.AppID, cfg.Reddit.AppSecret, cfg.Reddit.Username, cfg.Reddit.Password, cfg.Reddit.UserAgent)
	if err != nil {
		return nil, err
	}
	res, err := rc.Search(cmd.Context(), lc.Subreddit, lc.Query, lc.WindowDays)
	if err != nil {
		return nil, err
	}
	slog.Info("generate: reddit search", "subreddit", lc.Subreddit, "results", len(res))
	return res, nil
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().BoolVar(&genStdout, "stdout", false, "print the digest instead of writing a file")
}
