// Package discourse searches Discourse forums (ethresear.ch and friends)
// through their public search.json endpoint.
package discourse

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"feedwatch/internal/model"
)

type Client struct {
	baseURL string
	client  *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type topic struct {
	ID         int       `json:"id"`
	Title      string    `json:"title"`
	Slug       string    `json:"slug"`
	CreatedAt  time.Time `json:"created_at"`
	PostsCount int       `json:"posts_count"`
	ReplyCount int       `json:"reply_count"`
}

// Search returns topics matching query created within the last windowDays.
// The window is expressed through Discourse's "after:" search filter. An
// empty result is valid.
func (c *Client) Search(ctx context.Context, query string, windowDays int) ([]model.SearchResult, error) {
	since := time.Now().AddDate(0, 0, -windowDays).Format("2006-01-02")
	full := fmt.Sprintf("%s after:%s", query, since)
	endpoint := c.baseURL + "/search.json?q=" + url.QueryEscape(full)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "feedwatch/1.0")
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("discourse: %s status %d", c.baseURL, resp.StatusCode)
	}

	var raw struct {
		Topics []topic `json:"topics"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("discourse: decode search: %w", err)
	}

	results := make([]model.SearchResult, 0, len(raw.Topics))
	for _, t := range raw.Topics {
		results = append(results, model.SearchResult{
			Title:     t.Title,
			URL:       fmt.Sprintf("%s/t/%s/%d", c.baseURL, t.Slug, t.ID),
			CreatedAt: t.CreatedAt,
			Score:     t.PostsCount + t.ReplyCount,
		})
	}
	return results, nil
}
