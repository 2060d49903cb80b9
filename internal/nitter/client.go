// Package nitter scrapes account timelines from a Nitter instance.
package nitter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"feedwatch/internal/model"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"
)

// nitter renders timestamps like "Sep 1, 2026 · 10:04 PM UTC"
const dateLayout = "Jan 2, 2006 · 3:04 PM MST"

// Client fetches posts for a handle from a Nitter instance. Requests are
// paced to one per second to stay polite with public instances.
type Client struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 15 * time.Second},
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

// Fetch returns the handle's timeline posts created at or after since. An
// empty timeline is a valid, non-error outcome.
func (c *Client) Fetch(ctx context.Context, handle string, since time.Time) ([]model.Post, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	endpoint := c.baseURL + "/" + url.PathEscape(handle)
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
		return nil, fmt.Errorf("nitter: %s status %d", handle, resp.StatusCode)
	}
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("nitter: parse timeline: %w", err)
	}

	var posts []model.Post
	doc.Find(".timeline-item").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Find("a.tweet-link").Attr("href")
		if !ok {
			return // "show more" and similar filler items
		}
		_, id, ok := parseStatusLink(href)
		if !ok {
			return
		}
		created, err := time.Parse(dateLayout, s.Find(".tweet-date a").AttrOr("title", ""))
		if err != nil {
			return
		}
		if created.Before(since) {
			return
		}

		p := model.Post{
			ID:           id,
			Text:         strings.TrimSpace(s.Find(".tweet-content").Text()),
			SourceHandle: handle,
			CreatedAt:    created.UTC().Format(time.RFC3339),
			Timestamp:    created.Unix(),
			Kind:         "original",
		}
		s.Find(".tweet-stats .tweet-stat").Each(func(_ int, stat *goquery.Selection) {
			n := parseCount(stat.Text())
			switch {
			case stat.Find(".icon-comment").Length() > 0:
				p.Replies = n
			case stat.Find(".icon-retweet").Length() > 0:
				p.Reposts = n
			case stat.Find(".icon-heart").Length() > 0:
				p.Likes = n
			}
		})
		p.EngagementScore = EngagementScore(p)

		switch {
		case s.Find(".retweet-header").Length() > 0:
			p.Kind = "repost"
		case s.Find(".replying-to").Length() > 0:
			p.Kind = "reply"
		}
		if quote, ok := s.Find(".quote a.quote-link").Attr("href"); ok {
			if refHandle, refID, ok := parseStatusLink(quote); ok {
				p.Kind = "quote"
				p.Reference = &model.Reference{ID: refID, SourceHandle: refHandle}
			}
		}

		posts = append(posts, p)
	})
	return posts, nil
}

// EngagementScore weighs the raw counters into the ranking input stored with
// a post. Replies signal conversation, reposts reach, likes baseline
// approval.
func EngagementScore(p model.Post) float64 {
	return float64(p.Likes + 2*p.Reposts + 3*p.Replies)
}

// parseStatusLink splits hrefs like "/alice/status/123#m" into handle and id.
func parseStatusLink(href string) (handle, id string, ok bool) {
	href = strings.TrimPrefix(href, "/")
	if i := strings.IndexByte(href, '#'); i >= 0 {
		href = href[:i]
	}
	parts := strings.Split(href, "/")
	if len(parts) != 3 || parts[1] != "status" || parts[0] == "" || parts[2] == "" {
		return "", "", false
	}
	return parts[0], parts[2], true
}

func parseCount(s string) int {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
