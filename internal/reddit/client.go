// Package reddit searches subreddits for digest-relevant discussions.
package reddit

import (
	"context"
	"fmt"
	"time"

	"feedwatch/internal/model"

	"github.com/loganintech/go-reddit/v2/reddit"
	"golang.org/x/time/rate"
)

type Client struct {
	client  *reddit.Client
	limiter *rate.Limiter
}

// NewClient builds an authenticated reddit client. Reddit allows roughly 100
// requests per 10 minutes for script apps, so calls are paced with a token
// bucket.
func NewClient(id, secret, username, password, userAgent string) (*Client, error) {
	creds := reddit.Credentials{ID: id, Secret: secret, Username: username, Password: password}
	client, err := reddit.NewClient(creds, reddit.WithUserAgent(userAgent))
	if err != nil {
		return nil, fmt.Errorf("reddit client: %w", err)
	}
	return &Client{
		client:  client,
		limiter: rate.NewLimiter(rate.Every(600*time.Millisecond), 1),
	}, nil
}

// Search returns the top posts matching query in the subreddit within the
// window. An empty result is valid.
func (c *Client) Search(ctx context.Context, subreddit, query string, windowDays int) ([]model.SearchResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	opts := &reddit.ListPostSearchOptions{
		ListPostOptions: reddit.ListPostOptions{
			ListOptions: reddit.ListOptions{Limit: 50},
			Time:        timeBucket(windowDays),
		},
		Sort: "top",
	}
	posts, _, err := c.client.Subreddit.SearchPosts(ctx, query, subreddit, opts)
	if err != nil {
		return nil, fmt.Errorf("reddit search r/%s: %w", subreddit, err)
	}

	results := make([]model.SearchResult, 0, len(posts))
	for _, p := range posts {
		var created time.Time
		if p.Created != nil {
			created = p.Created.Time
		}
		results = append(results, model.SearchResult{
			Title:     p.Title,
			URL:       "https://reddit.com" + p.Permalink,
			CreatedAt: created,
			Score:     p.Score,
		})
	}
	return results, nil
}

// timeBucket maps a day window onto reddit's fixed search ranges.
func timeBucket(windowDays int) string {
	switch {
	case windowDays <= 1:
		return "day"
	case windowDays <= 7:
		return "week"
	case windowDays <= 31:
		return "month"
	case windowDays <= 365:
		return "year"
	default:
		return "all"
	}
}
