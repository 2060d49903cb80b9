package config

import (
	"errors"
	"testing"
)

func TestFillDefaults(t *testing.T) {
	c := Config{Digests: DigestsConfig{Lists: []ListConfig{{Name: "privacy"}}}}
	c.FillDefaults()

	if c.Digests.WindowDays != 7 || c.Digests.PerSourceLimit != 5 || c.Digests.Concurrency != 10 {
		t.Errorf("digest defaults not applied: %+v", c.Digests)
	}
	l := c.Digests.Lists[0]
	if l.WindowDays != 7 || l.PerSourceLimit != 5 || l.Concurrency != 10 {
		t.Errorf("list did not inherit defaults: %+v", l)
	}
	if l.Query != "privacy" || l.Topic != "privacy" {
		t.Errorf("list query/topic should default to its name: %+v", l)
	}
	if c.Nitter.TopPerHandle != 3 || c.Nitter.IngestWindowDays != 2 {
		t.Errorf("nitter defaults not applied: %+v", c.Nitter)
	}
}

func TestFillDefaultsKeepsOverrides(t *testing.T) {
	c := Config{
		Digests: DigestsConfig{
			WindowDays: 14,
			Lists:      []ListConfig{{Name: "scaling", WindowDays: 3, Query: "rollups"}},
		},
	}
	c.FillDefaults()
	l := c.Digests.Lists[0]
	if l.WindowDays != 3 {
		t.Errorf("list override lost: %d", l.WindowDays)
	}
	if l.Query != "rollups" {
		t.Errorf("query override lost: %q", l.Query)
	}
}

func TestFindListUnconfigured(t *testing.T) {
	c := Config{}
	c.FillDefaults()
	l := c.FindList("adhoc")
	if l.Name != "adhoc" || l.WindowDays != 7 || l.PerSourceLimit != 5 {
		t.Errorf("ad hoc list misses defaults: %+v", l)
	}
}

func TestRequireOpenRouterKey(t *testing.T) {
	c := Config{}
	if err := c.RequireOpenRouterKey(); !errors.Is(err, ErrMissing) {
		t.Fatalf("expected ErrMissing, got %v", err)
	}
	c.OpenRouter.APIKey = "sk-test"
	if err := c.RequireOpenRouterKey(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
