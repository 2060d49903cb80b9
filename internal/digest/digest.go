// Package digest turns an enriched batch into the grouping the report
// renders. It is pure: no I/O, and the same input always yields the same
// structure.
package digest

import (
	"sort"

	"feedwatch/internal/model"
	"feedwatch/internal/pipeline"
)

// sectionOrder fixes how categories appear in the rendered digest.
var sectionOrder = []model.Category{
	model.CategoryAnnouncement,
	model.CategoryInformative,
	model.CategoryEvents,
	model.CategoryOther,
}

// Group holds the items sharing one newsworthiness score, in input order.
type Group struct {
	Newsworthiness int
	Items          []pipeline.Enriched
}

// Section holds one category's groups, highest newsworthiness first.
type Section struct {
	Category model.Category
	Groups   []Group
}

// Digest is the presentation structure for one run.
type Digest struct {
	Sections []Section
}

// Build partitions items by category, sub-partitions each category by
// newsworthiness descending, and keeps the input order inside a group.
// Categories with no items are omitted.
func Build(items []pipeline.Enriched) Digest {
	byCategory := map[model.Category][]pipeline.Enriched{}
	for _, it := range items {
		byCategory[it.Result.Category] = append(byCategory[it.Result.Category], it)
	}

	var d Digest
	for _, cat := range sectionOrder {
		catItems := byCategory[cat]
		if len(catItems) == 0 {
			continue
		}
		byScore := map[int][]pipeline.Enriched{}
		var scores []int
		for _, it := range catItems {
			score := it.Result.Newsworthiness
			if _, seen := byScore[score]; !seen {
				scores = append(scores, score)
			}
			byScore[score] = append(byScore[score], it)
		}
		sort.Sort(sort.Reverse(sort.IntSlice(scores)))

		groups := make([]Group, 0, len(scores))
		for _, score := range scores {
			groups = append(groups, Group{Newsworthiness: score, Items: byScore[score]})
		}
		d.Sections = append(d.Sections, Section{Category: cat, Groups: groups})
	}
	return d
}

// MergeSearch flattens forum search result lists into one slice ordered by
// recency, newest first.
func MergeSearch(lists ...[]model.SearchResult) []model.SearchResult {
	var out []model.SearchResult
	for _, l := range lists {
		out = append(out, l...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
