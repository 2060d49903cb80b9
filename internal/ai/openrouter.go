package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"feedwatch/internal/model"

	openai "github.com/sashabaranov/go-openai"
)

// Scorer classifies and summarizes post text through an external service.
type Scorer interface {
	Classify(ctx context.Context, text string) (model.Category, error)
	Summarize(ctx context.Context, text string) (string, error)
	ClassifyAndSummarize(ctx context.Context, text string) (model.Classification, error)
}

// TransportError reports a failed call to the scoring service (non-2xx
// response or the request never completing). It is never retried.
type TransportError struct {
	Status int
	Msg    string
}

func (e *TransportError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("scoring service unreachable: %s", e.Msg)
	}
	return fmt.Sprintf("scoring service error: status %d: %s", e.Status, e.Msg)
}

// SchemaError reports a response that did not honor the declared JSON
// schema: unparsable content, a missing or mistyped field, or a value
// outside its enumeration or bounds.
type SchemaError struct {
	Reason string
}

func (e *SchemaError) Error() string {
	return "scoring response violates schema: " + e.Reason
}

const (
	defaultBaseURL = "https://openrouter.ai/api/v1"
	defaultModel   = "mistralai/mistral-small"
)

type Config struct {
	APIKey  string
	BaseURL string // optional, defaults to OpenRouter
	Model   string // optional
	Topic   string // newsletter topic woven into the prompts
}

// Client talks to OpenRouter's chat completions endpoint with strict
// structured outputs.
type Client struct {
	oai     *openai.Client
	http    *http.Client
	baseURL string
	apiKey  string
	model   string
	topic   string
}

func New(cfg Config) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = defaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	cc := openai.DefaultConfig(cfg.APIKey)
	cc.BaseURL = base
	topic := strings.TrimSpace(cfg.Topic)
	if topic == "" {
		topic = "technology"
	}
	return &Client{
		oai:     openai.NewClientWithConfig(cc),
		http:    &http.Client{Timeout: 15 * time.Second},
		baseURL: base,
		apiKey:  cfg.APIKey,
		model:   model,
		topic:   topic,
	}
}

func (c *Client) systemPrompt() string {
	return fmt.Sprintf("You are a helpful assistant that classifies and summarizes posts for a %s newsletter.", c.topic)
}

const categorySchema = `{
	"type": "object",
	"properties": {
		"category": {
			"type": "string",
			"description": "The category of the post. One of: announcement, informative, events, other.",
			"enum": ["announcement", "informative", "events", "other"]
		}
	},
	"required": ["category"],
	"additionalProperties": false
}`

const summarySchema = `{
	"type": "object",
	"properties": {
		"summary": {
			"type": "string",
			"description": "A concise summary of the post, suitable for a newsletter. Should be between 32 and 64 characters."
		}
	},
	"required": ["summary"],
	"additionalProperties": false
}`

const combinedSchema = `{
	"type": "object",
	"properties": {
		"category": {
			"type": "string",
			"description": "The category of the post. One of: announcement, informative, events, other.",
			"enum": ["announcement", "informative", "events", "other"]
		},
		"newsworthiness": {
			"type": "integer",
			"description": "A score from 1 (not newsworthy) to 5 (very newsworthy).",
			"minimum": 1,
			"maximum": 5
		},
		"summary": {
			"type": "string",
			"description": "A concise summary of the post, suitable for a newsletter. Should be between 32 and 64 characters."
		}
	},
	"required": ["category", "newsworthiness", "summary"],
	"additionalProperties": false
}`

// Classify buckets a post into the fixed category set. An unrecognized
// category in an otherwise well-formed response degrades to "other"; a
// standalone category is low stakes, unlike the combined operation.
func (c *Client) Classify(ctx context.Context, text string) (model.Category, error) {
	prompt := fmt.Sprintf(`Classify the following post into one of these categories: "announcement", "informative", "events", or "other".
- "announcement": New features, product launches, partnerships, upgrades, deployments, etc.
- "informative": Research, tutorials, guides, thought pieces, analysis, educational content.
- "events": Conferences, meetups, hackathons, AMAs, webinars, workshops, calls for papers, livestreams, etc.
Reply with a JSON object with a single property 'category'.

Post: "%s"`, text)

	content, err := c.create(ctx, prompt, 20, 0, "post_category", categorySchema)
	if err != nil {
		return "", err
	}
	var out struct {
		Category string `json:"category"`
	}
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return "", &SchemaError{Reason: "category payload is not valid JSON"}
	}
	if cat, ok := model.ParseCategory(out.Category); ok {
		return cat, nil
	}
	slog.Warn("openrouter: unknown category, falling back", "category", out.Category)
	return model.CategoryOther, nil
}

// Summarize produces a 32-64 character summary of the post text.
func (c *Client) Summarize(ctx context.Context, text string) (string, error) {
	prompt := fmt.Sprintf(`Summarize the following post or short text in a single, concise summary suitable for inclusion in a %s newsletter. The summary should be between 32 and 64 characters. Shorter is fine, but don't exceed character limit. Reply with a JSON object with a single property 'summary'.

Text: "%s"`, c.topic, text)

	content, err := c.create(ctx, prompt, 80, 0.2, "post_summary", summarySchema)
	if err != nil {
		return "", err
	}
	var out struct {
		Summary *string `json:"summary"`
	}
	if err := json.Unmarshal([]byte(content), &out); err != nil || out.Summary == nil {
		return "", &SchemaError{Reason: "summary missing or not a string"}
	}
	return *out.Summary, nil
}

// ClassifyAndSummarize performs classification, a newsworthiness score and a
// summary in one call. This operation is strict: any missing, mistyped or
// out-of-range field fails, because its output feeds a pipeline that must
// keep input and output associated.
func (c *Client) ClassifyAndSummarize(ctx context.Context, text string) (model.Classification, error) {
	var zero model.Classification
	prompt := fmt.Sprintf(`For the following post, do three things:
1. Classify it as one of: "announcement", "informative", "events", or "other".
2. Assign a 'newsworthiness' score from 1 (not newsworthy) to 5 (very newsworthy) based on how relevant and important this post is for a %s newsletter. Consider if it is an announcement, major update, research, event, or otherwise significant.
3. Write a single, concise summary (32-64 characters) suitable for a %s newsletter.
Reply with a JSON object with three properties: 'category', 'newsworthiness', and 'summary'.

Post: "%s"`, c.topic, c.topic, text)

	content, err := c.create(ctx, prompt, 120, 0.2, "post_classification_newsworthiness_and_summary", combinedSchema)
	if err != nil {
		return zero, err
	}
	var out struct {
		Category       *string `json:"category"`
		Newsworthiness *int    `json:"newsworthiness"`
		Summary        *string `json:"summary"`
	}
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return zero, &SchemaError{Reason: "classification payload is not valid JSON"}
	}
	if out.Category == nil || out.Newsworthiness == nil || out.Summary == nil {
		return zero, &SchemaError{Reason: "classification payload is missing required fields"}
	}
	cat, ok := model.ParseCategory(*out.Category)
	if !ok {
		return zero, &SchemaError{Reason: fmt.Sprintf("category %q outside enumeration", *out.Category)}
	}
	if *out.Newsworthiness < 1 || *out.Newsworthiness > 5 {
		return zero, &SchemaError{Reason: fmt.Sprintf("newsworthiness %d outside [1,5]", *out.Newsworthiness)}
	}
	return model.Classification{
		Category:       cat,
		Newsworthiness: *out.Newsworthiness,
		Summary:        *out.Summary,
	}, nil
}

// create sends one structured-output chat completion and returns the raw
// message content.
func (c *Client) create(ctx context.Context, prompt string, maxTokens int, temperature float32, schemaName, schema string) (string, error) {
	resp, err := c.oai.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: c.systemPrompt()},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   schemaName,
				Strict: true,
				Schema: json.RawMessage(schema),
			},
		},
	})
	if err != nil {
		return "", transportErr(err)
	}
	if len(resp.Choices) == 0 {
		return "", &SchemaError{Reason: "response has no choices"}
	}
	return resp.Choices[0].Message.Content, nil
}

func transportErr(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &TransportError{Status: apiErr.HTTPStatusCode, Msg: apiErr.Message}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &TransportError{Status: reqErr.HTTPStatusCode, Msg: reqErr.Error()}
	}
	return &TransportError{Msg: err.Error()}
}
