package worker

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"feedwatch/internal/model"
	"feedwatch/internal/nitter"
	"feedwatch/internal/store"
)

// Collector periodically scrapes the timelines behind one list and feeds the
// best posts per handle into the list's store.
type Collector struct {
	Scraper      *nitter.Client
	Stores       *store.Manager
	List         string
	Handles      []string
	Interval     time.Duration
	Window       time.Duration // how far back to ingest
	TopPerHandle int
}

func (w *Collector) Start(ctx context.Context) error {
	if w.Interval <= 0 {
		w.Interval = 6 * time.Hour
	}
	t := time.NewTicker(w.Interval)
	defer t.Stop()

	// initial run
	if err := w.RunOnce(ctx); err != nil {
		slog.Error("collector: run failed", "list", w.List, "err", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			if err := w.RunOnce(ctx); err != nil {
				slog.Error("collector: run failed", "list", w.List, "err", err)
			}
		}
	}
}

// RunOnce ingests one pass over every handle of the list. A handle whose
// fetch fails is skipped with a warning; the store write per handle is
// atomic.
func (w *Collector) RunOnce(ctx context.Context) error {
	s, err := w.Stores.Get(w.List)
	if err != nil {
		return err
	}
	since := time.Now().Add(-w.Window)
	topN := w.TopPerHandle
	if topN <= 0 {
		topN = 3
	}

	var fetched, kept int
	for _, handle := range w.Handles {
		feed, err := w.Scraper.Fetch(ctx, handle, since)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			slog.Warn("collector: fetch failed", "list", w.List, "handle", handle, "err", err)
			continue
		}
		fetched += len(feed)
		if len(feed) == 0 {
			continue
		}
		top := topByEngagement(feed, topN)
		if err := s.InsertPosts(ctx, top); err != nil {
			return err
		}
		kept += len(top)
	}
	slog.Info("collector: completed", "list", w.List, "handles", len(w.Handles), "fetched", fetched, "stored", kept)
	return nil
}

// topByEngagement returns up to n posts with the highest engagement score,
// without mutating the input order.
func topByEngagement(posts []model.Post, n int) []model.Post {
	sorted := make([]model.Post, len(posts))
	copy(sorted, posts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].EngagementScore > sorted[j].EngagementScore
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
