// Package pipeline fans a batch of posts out to the scoring service at a
// bounded concurrency and fans the results back in without losing the
// input order.
package pipeline

import (
	"context"
	"fmt"

	"feedwatch/internal/model"

	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds in-flight scoring calls when the caller does not
// choose a limit.
const DefaultConcurrency = 10

// Scorer is the single scoring operation the pipeline needs.
type Scorer interface {
	ClassifyAndSummarize(ctx context.Context, text string) (model.Classification, error)
}

// Enriched pairs a post with its classification for one digest run.
type Enriched struct {
	Post   model.Post
	Result model.Classification
}

// Enrich classifies every post with at most limit concurrent scoring calls.
// The returned slice is index-aligned with posts regardless of completion
// order. The batch is all-or-nothing: on the first failure the remaining
// calls are cancelled and only that error is returned.
func Enrich(ctx context.Context, scorer Scorer, posts []model.Post, limit int) ([]Enriched, error) {
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	results := make([]Enriched, len(posts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, p := range posts {
		i, p := i, p
		g.Go(func() error {
			res, err := scorer.ClassifyAndSummarize(gctx, p.Text)
			if err != nil {
				return fmt.Errorf("classify post %s: %w", p.ID, err)
			}
			// Each task owns exactly one slot, so no locking is needed.
			results[i] = Enriched{Post: p, Result: res}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
