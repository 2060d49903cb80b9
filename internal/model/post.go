package model

import "time"

// Post represents a single social-media post for a tracked account.
// Timestamp (seconds since epoch) is the authoritative time field for window
// filtering; CreatedAt keeps the origin's display form.
type Post struct {
	ID              string     `json:"id"`
	Text            string     `json:"text"`
	SourceHandle    string     `json:"source_handle"`
	CreatedAt       string     `json:"created_at"`
	Timestamp       int64      `json:"timestamp"`
	Replies         int        `json:"replies"`
	Reposts         int        `json:"reposts"`
	Likes           int        `json:"likes"`
	EngagementScore float64    `json:"engagement_score"`
	Kind            string     `json:"kind"` // original, reply, quote, repost
	Reference       *Reference `json:"reference,omitempty"`
}

// Reference points at the post a reply or quote refers to. Both fields are
// set together or the reference is absent.
type Reference struct {
	ID           string `json:"id"`
	SourceHandle string `json:"source_handle"`
}

// URL returns the canonical link for the post.
func (p Post) URL() string {
	return "https://x.com/" + p.SourceHandle + "/status/" + p.ID
}

// Category is the fixed classification set assigned by the scoring service.
type Category string

const (
	CategoryAnnouncement Category = "announcement"
	CategoryInformative  Category = "informative"
	CategoryEvents       Category = "events"
	CategoryOther        Category = "other"
)

// ParseCategory maps a raw string onto the known category set.
func ParseCategory(s string) (Category, bool) {
	switch Category(s) {
	case CategoryAnnouncement, CategoryInformative, CategoryEvents, CategoryOther:
		return Category(s), true
	}
	return "", false
}

// Classification is the scoring service's verdict on one post. It lives for
// a single digest run and is never written back to the store.
type Classification struct {
	Category       Category `json:"category"`
	Newsworthiness int      `json:"newsworthiness"` // 1 (dull) .. 5 (front page)
	Summary        string   `json:"summary"`
}

// SearchResult is one hit from a forum search (reddit, discourse).
type SearchResult struct {
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
	Score     int       `json:"score"`
}
