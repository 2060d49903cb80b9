package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"feedwatch/internal/model"
)

// fakeScorer answers from a map and can delay or fail specific inputs.
type fakeScorer struct {
	mu       sync.Mutex
	delays   map[string]time.Duration
	failures map[string]error

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

func (f *fakeScorer) ClassifyAndSummarize(ctx context.Context, text string) (model.Classification, error) {
	cur := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		max := f.maxInFlight.Load()
		if cur <= max || f.maxInFlight.CompareAndSwap(max, cur) {
			break
		}
	}

	f.mu.Lock()
	d := f.delays[text]
	err := f.failures[text]
	f.mu.Unlock()

	if d > 0 {
		select {
		case <-ctx.Done():
			return model.Classification{}, ctx.Err()
		case <-time.After(d):
		}
	}
	if err != nil {
		return model.Classification{}, err
	}
	return model.Classification{
		Category:       model.CategoryInformative,
		Newsworthiness: 3,
		Summary:        "summary of " + text,
	}, nil
}

func postsNamed(names ...string) []model.Post {
	out := make([]model.Post, len(names))
	for i, n := range names {
		out[i] = model.Post{ID: n, Text: n, SourceHandle: "alice"}
	}
	return out
}

func TestEnrichPreservesOrder(t *testing.T) {
	// A is the slowest, D the fastest; completion order is roughly reversed.
	scorer := &fakeScorer{delays: map[string]time.Duration{
		"A": 40 * time.Millisecond,
		"B": 30 * time.Millisecond,
		"C": 20 * time.Millisecond,
		"D": 0,
	}}
	posts := postsNamed("A", "B", "C", "D")

	got, err := Enrich(context.Background(), scorer, posts, 2)
	if err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	if len(got) != len(posts) {
		t.Fatalf("expected %d results, got %d", len(posts), len(got))
	}
	for i, e := range got {
		if e.Post.ID != posts[i].ID {
			t.Errorf("result[%d] is for post %s, want %s", i, e.Post.ID, posts[i].ID)
		}
		if e.Result.Summary != "summary of "+posts[i].ID {
			t.Errorf("result[%d] paired with the wrong post: %q", i, e.Result.Summary)
		}
	}
}

func TestEnrichBoundsConcurrency(t *testing.T) {
	scorer := &fakeScorer{delays: map[string]time.Duration{}}
	var names []string
	for _, n := range strings.Split("A B C D E F G H", " ") {
		names = append(names, n)
		scorer.delays[n] = 10 * time.Millisecond
	}

	if _, err := Enrich(context.Background(), scorer, postsNamed(names...), 2); err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	if max := scorer.maxInFlight.Load(); max > 2 {
		t.Errorf("observed %d concurrent calls, limit is 2", max)
	}
}

func TestEnrichFailsFast(t *testing.T) {
	boom := errors.New("scoring blew up")
	scorer := &fakeScorer{
		delays:   map[string]time.Duration{"D": 20 * time.Millisecond},
		failures: map[string]error{"C": boom},
	}
	posts := postsNamed("A", "B", "C", "D")

	got, err := Enrich(context.Background(), scorer, posts, 2)
	if err == nil {
		t.Fatal("expected batch failure")
	}
	if !errors.Is(err, boom) {
		t.Errorf("error should carry the first failure, got %v", err)
	}
	if got != nil {
		t.Errorf("no partial results on failure, got %d", len(got))
	}
}

func TestEnrichEmptyBatch(t *testing.T) {
	got, err := Enrich(context.Background(), &fakeScorer{}, nil, 2)
	if err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty result, got %d", len(got))
	}
}

func TestEnrichDefaultLimit(t *testing.T) {
	scorer := &fakeScorer{}
	got, err := Enrich(context.Background(), scorer, postsNamed("A", "B"), 0)
	if err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}
}
