package digest

import (
	"testing"
	"time"

	"feedwatch/internal/model"
	"feedwatch/internal/pipeline"
)

func enriched(id string, cat model.Category, score int) pipeline.Enriched {
	return pipeline.Enriched{
		Post: model.Post{ID: id, SourceHandle: "alice"},
		Result: model.Classification{
			Category:       cat,
			Newsworthiness: score,
			Summary:        "summary " + id,
		},
	}
}

func TestBuildGroupsByScoreDescending(t *testing.T) {
	items := []pipeline.Enriched{
		enriched("a", model.CategoryAnnouncement, 5),
		enriched("b", model.CategoryAnnouncement, 3),
		enriched("c", model.CategoryAnnouncement, 5),
		enriched("d", model.CategoryAnnouncement, 1),
	}

	d := Build(items)
	if len(d.Sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(d.Sections))
	}
	groups := d.Sections[0].Groups
	wantScores := []int{5, 3, 1}
	if len(groups) != len(wantScores) {
		t.Fatalf("expected %d groups, got %d", len(wantScores), len(groups))
	}
	for i, g := range groups {
		if g.Newsworthiness != wantScores[i] {
			t.Errorf("group %d score = %d, want %d", i, g.Newsworthiness, wantScores[i])
		}
	}
	// bucket 5 holds a then c, in original relative order
	top := groups[0].Items
	if len(top) != 2 || top[0].Post.ID != "a" || top[1].Post.ID != "c" {
		t.Errorf("bucket 5 order wrong: %v", ids(top))
	}
}

func TestBuildSectionOrder(t *testing.T) {
	items := []pipeline.Enriched{
		enriched("e", model.CategoryEvents, 2),
		enriched("o", model.CategoryOther, 2),
		enriched("a", model.CategoryAnnouncement, 2),
		enriched("i", model.CategoryInformative, 2),
	}
	d := Build(items)
	want := []model.Category{
		model.CategoryAnnouncement,
		model.CategoryInformative,
		model.CategoryEvents,
		model.CategoryOther,
	}
	if len(d.Sections) != len(want) {
		t.Fatalf("expected %d sections, got %d", len(want), len(d.Sections))
	}
	for i, s := range d.Sections {
		if s.Category != want[i] {
			t.Errorf("section %d = %s, want %s", i, s.Category, want[i])
		}
	}
}

func TestBuildOmitsEmptyCategories(t *testing.T) {
	d := Build([]pipeline.Enriched{enriched("x", model.CategoryEvents, 4)})
	if len(d.Sections) != 1 || d.Sections[0].Category != model.CategoryEvents {
		t.Errorf("unexpected sections: %+v", d.Sections)
	}
}

func TestBuildDeterministic(t *testing.T) {
	items := []pipeline.Enriched{
		enriched("a", model.CategoryEvents, 5),
		enriched("b", model.CategoryEvents, 3),
		enriched("c", model.CategoryAnnouncement, 5),
	}
	first := Build(items)
	second := Build(items)
	if len(first.Sections) != len(second.Sections) {
		t.Fatal("non-deterministic section count")
	}
	for i := range first.Sections {
		a, b := first.Sections[i], second.Sections[i]
		if a.Category != b.Category || len(a.Groups) != len(b.Groups) {
			t.Fatalf("section %d differs between runs", i)
		}
		for j := range a.Groups {
			ga, gb := a.Groups[j], b.Groups[j]
			if ga.Newsworthiness != gb.Newsworthiness || len(ga.Items) != len(gb.Items) {
				t.Fatalf("group %d/%d differs between runs", i, j)
			}
			for k := range ga.Items {
				if ga.Items[k].Post.ID != gb.Items[k].Post.ID {
					t.Fatalf("item order differs between runs")
				}
			}
		}
	}
}

func TestMergeSearchSortsByRecency(t *testing.T) {
	now := time.Now()
	researchA := []model.SearchResult{
		{Title: "old", CreatedAt: now.Add(-48 * time.Hour)},
		{Title: "newest", CreatedAt: now},
	}
	researchB := []model.SearchResult{
		{Title: "middle", CreatedAt: now.Add(-24 * time.Hour)},
	}

	got := MergeSearch(researchA, researchB)
	want := []string{"newest", "middle", "old"}
	if len(got) != len(want) {
		t.Fatalf("expected %d results, got %d", len(want), len(got))
	}
	for i, r := range got {
		if r.Title != want[i] {
			t.Errorf("position %d = %q, want %q", i, r.Title, want[i])
		}
	}
}

func ids(items []pipeline.Enriched) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Post.ID
	}
	return out
}
