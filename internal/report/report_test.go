package report

import (
	"strings"
	"testing"
	"time"

	"feedwatch/internal/digest"
	"feedwatch/internal/model"
	"feedwatch/internal/pipeline"
)

func TestRender(t *testing.T) {
	items := []pipeline.Enriched{
		{
			Post: model.Post{ID: "1", SourceHandle: "alice"},
			Result: model.Classification{
				Category:       model.CategoryAnnouncement,
				Newsworthiness: 5,
				Summary:        "Protocol v2 ships with new proofs",
			},
		},
		{
			Post: model.Post{ID: "2", SourceHandle: "bob"},
			Result: model.Classification{
				Category:       model.CategoryAnnouncement,
				Newsworthiness: 3,
				Summary:        "Minor release with bugfixes",
			},
		},
		{
			Post: model.Post{ID: "3", SourceHandle: "carol"},
			Result: model.Classification{
				Category:       model.CategoryEvents,
				Newsworthiness: 4,
				Summary:        "Community call next thursday",
			},
		},
	}
	d := Data{
		Title:      "Digest of privacy 2026-09-01",
		List:       "privacy",
		Datetime:   "2026-09-01 08:00",
		WindowDays: 7,
		Digest:     digest.Build(items),
		Research: []model.SearchResult{
			{Title: "A research thread", URL: "https://ethresear.ch/t/a/1", CreatedAt: time.Now()},
		},
		Reddit: []model.SearchResult{
			{Title: "A reddit thread", URL: "https://reddit.com/r/x/1", CreatedAt: time.Now()},
		},
	}

	out, err := Render(d)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	for _, want := range []string{
		"title: Digest of privacy 2026-09-01",
		"list: privacy",
		"window_days: 7",
		"### Updates",
		"Score 5:",
		"- Protocol v2 ships with new proofs https://x.com/alice/status/1",
		"Score 3:",
		"### Events",
		"Score 4:",
		"### Research",
		"- [A research thread](https://ethresear.ch/t/a/1)",
		"### Reddit",
		"- [A reddit thread](https://reddit.com/r/x/1)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered digest missing %q\n---\n%s", want, out)
		}
	}

	// score 5 entries must appear before score 3 in the same section
	if strings.Index(out, "Score 5:") > strings.Index(out, "Score 3:") {
		t.Errorf("score groups out of order:\n%s", out)
	}
}

func TestRenderOmitsEmptyForumSections(t *testing.T) {
	out, err := Render(Data{Title: "empty", List: "l", Datetime: "now"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if strings.Contains(out, "### Research") || strings.Contains(out, "### Reddit") {
		t.Errorf("empty forum sections should be omitted:\n%s", out)
	}
}
