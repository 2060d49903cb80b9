package ai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
)

// KeyStatus reports the account state behind the configured credential.
type KeyStatus struct {
	Label string   `json:"label"`
	Usage float64  `json:"usage"`
	Limit *float64 `json:"limit"` // nil means no spending cap
}

// Status fetches the API key's usage and limit. Useful as a pre-flight check
// before a digest run burns through a batch of calls.
func (c *Client) Status(ctx context.Context) (KeyStatus, error) {
	var zero KeyStatus
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/key", nil)
	if err != nil {
		return zero, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	resp, err := c.http.Do(req)
	if err != nil {
		return zero, &TransportError{Msg: err.Error()}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return zero, &TransportError{Status: resp.StatusCode, Msg: string(body)}
	}
	var out struct {
		Data KeyStatus `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return zero, &SchemaError{Reason: "key status payload is not valid JSON"}
	}
	return out.Data, nil
}
