package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissing marks a required setting that was absent at startup. Commands
// check their requirements before doing any I/O.
var ErrMissing = errors.New("missing required setting")

// AppConfig holds application-level settings.
type AppConfig struct {
	LogLevel string `mapstructure:"log_level"`
}

// StoreConfig locates the per-collection database files.
type StoreConfig struct {
	Dir string `mapstructure:"dir"`
}

// ListsConfig locates the tracked-handle list files.
type ListsConfig struct {
	Dir string `mapstructure:"dir"`
}

// NitterConfig controls the timeline scraper.
type NitterConfig struct {
	BaseURL          string `mapstructure:"base_url"`
	FetchInterval    string `mapstructure:"fetch_interval"` // duration string, e.g. "6h"
	IngestWindowDays int    `mapstructure:"ingest_window_days"`
	TopPerHandle     int    `mapstructure:"top_per_handle"`
}

// OpenRouterConfig holds the scoring service credentials.
type OpenRouterConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

// RedditConfig holds the reddit script-app credentials.
type RedditConfig struct {
	AppID     string `mapstructure:"app_id"`
	AppSecret string `mapstructure:"app_secret"`
	Username  string `mapstructure:"username"`
	Password  string `mapstructure:"password"`
	UserAgent string `mapstructure:"user_agent"`
}

// ListConfig defines one curated list: which accounts feed it and where its
// forum searches go.
type ListConfig struct {
	Name           string   `mapstructure:"name"`
	Topic          string   `mapstructure:"topic"`     // woven into scoring prompts
	Query          string   `mapstructure:"query"`     // forum search query
	Subreddit      string   `mapstructure:"subreddit"` // optional
	Forums         []string `mapstructure:"forums"`    // discourse base URLs
	WindowDays     int      `mapstructure:"window_days"`
	PerSourceLimit int      `mapstructure:"per_source_limit"`
	Concurrency    int      `mapstructure:"concurrency"`
}

// DigestsConfig groups digest generation defaults and the configured lists.
type DigestsConfig struct {
	OutputDir      string       `mapstructure:"output_dir"`
	WindowDays     int          `mapstructure:"window_days"`
	PerSourceLimit int          `mapstructure:"per_source_limit"`
	Concurrency    int          `mapstructure:"concurrency"`
	Lists          []ListConfig `mapstructure:"lists"`
}

// Config is the top-level configuration structure.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Store      StoreConfig      `mapstructure:"store"`
	Lists      ListsConfig      `mapstructure:"lists"`
	Nitter     NitterConfig     `mapstructure:"nitter"`
	OpenRouter OpenRouterConfig `mapstructure:"openrouter"`
	Reddit     RedditConfig     `mapstructure:"reddit"`
	Digests    DigestsConfig    `mapstructure:"digests"`
}

// FillDefaults applies default values if not provided.
func (c *Config) FillDefaults() {
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.Store.Dir == "" {
		c.Store.Dir = "./data"
	}
	if c.Lists.Dir == "" {
		c.Lists.Dir = "./lists"
	}
	if c.Nitter.BaseURL == "" {
		c.Nitter.BaseURL = "https://nitter.net"
	}
	if c.Nitter.FetchInterval == "" {
		c.Nitter.FetchInterval = "6h"
	}
	if c.Nitter.IngestWindowDays == 0 {
		c.Nitter.IngestWindowDays = 2
	}
	if c.Nitter.TopPerHandle == 0 {
		c.Nitter.TopPerHandle = 3
	}
	if c.Reddit.UserAgent == "" {
		c.Reddit.UserAgent = "feedwatch/1.0"
	}
	if c.Digests.OutputDir == "" {
		c.Digests.OutputDir = "./out"
	}
	if c.Digests.WindowDays == 0 {
		c.Digests.WindowDays = 7
	}
	if c.Digests.PerSourceLimit == 0 {
		c.Digests.PerSourceLimit = 5
	}
	if c.Digests.Concurrency == 0 {
		c.Digests.Concurrency = 10
	}
	for i := range c.Digests.Lists {
		l := &c.Digests.Lists[i]
		if l.WindowDays == 0 {
			l.WindowDays = c.Digests.WindowDays
		}
		if l.PerSourceLimit == 0 {
			l.PerSourceLimit = c.Digests.PerSourceLimit
		}
		if l.Concurrency == 0 {
			l.Concurrency = c.Digests.Concurrency
		}
		if l.Query == "" {
			l.Query = l.Name
		}
		if l.Topic == "" {
			l.Topic = l.Name
		}
	}
}

// FindList returns the configured list by name. An unconfigured name still
// yields a usable entry with the global defaults, so ad hoc collections work.
func (c *Config) FindList(name string) ListConfig {
	for _, l := range c.Digests.Lists {
		if l.Name == name {
			return l
		}
	}
	return ListConfig{
		Name:           name,
		Topic:          name,
		Query:          name,
		WindowDays:     c.Digests.WindowDays,
		PerSourceLimit: c.Digests.PerSourceLimit,
		Concurrency:    c.Digests.Concurrency,
	}
}

// RequireOpenRouterKey fails fast when the scoring credential is absent.
func (c *Config) RequireOpenRouterKey() error {
	if strings.TrimSpace(c.OpenRouter.APIKey) == "" {
		return fmt.Errorf("openrouter.api_key (or OPENROUTER_API_KEY): %w", ErrMissing)
	}
	return nil
}

// RedditConfigured reports whether the reddit credentials are all present.
func (c *Config) RedditConfigured() bool {
	return strings.TrimSpace(c.Reddit.AppID) != "" && strings.TrimSpace(c.Reddit.AppSecret) != ""
}
