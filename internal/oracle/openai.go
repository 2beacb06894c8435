package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"presage/internal/logger"
	"presage/internal/predict"
)

// ClientConfig configures the OpenAI-compatible chat-completions client.
// DeepSeek/Qwen style endpoints work as long as they speak
// /v1/chat/completions.
type ClientConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

type Client struct {
	cfg   ClientConfig
	httpc *http.Client
	nowFn func() time.Time
}

func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		cfg:   cfg,
		httpc: &http.Client{Timeout: cfg.Timeout},
		nowFn: time.Now,
	}
}

func (c *Client) Predict(ctx context.Context, req Request) ([]predict.Prediction, error) {
	system, user := BuildPrompts(req)
	logger.LogOracleRequest(system, user)

	raw, err := c.callChat(ctx, system, user)
	if err != nil {
		return nil, err
	}
	logger.LogOracleResponse(raw)

	now := c.nowFn()
	var priceAt float64
	if n := len(req.Prices); n > 0 {
		priceAt = req.Prices[n-1].Close
	}
	preds, err := ParseResponse(raw, now, priceAt)
	if err != nil {
		return nil, fmt.Errorf("parsing oracle response: %w", err)
	}
	return preds, nil
}

func (c *Client) callChat(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	url := strings.TrimRight(c.cfg.BaseURL, "/")
	if url == "" {
		url = "https://api.openai.com/v1"
	}
	// Tolerate a configured base URL that already includes the path.
	url = strings.TrimSuffix(url, "/chat/completions") + "/chat/completions"

	body := map[string]any{
		"model": c.cfg.Model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": userPrompt},
		},
		"temperature": 0.3,
	}
	b, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.httpc.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", fmt.Errorf("status=%d: %w", resp.StatusCode, ErrRateLimited)
	}
	if resp.StatusCode/100 != 2 {
		var eresp struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&eresp)
		msg := strings.TrimSpace(eresp.Error.Message)
		if msg == "" {
			msg = resp.Status
		}
		return "", fmt.Errorf("oracle call failed: status=%d: %s", resp.StatusCode, msg)
	}

	var r struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return "", fmt.Errorf("decoding oracle response: %w", err)
	}
	if len(r.Choices) == 0 {
		return "", fmt.Errorf("oracle returned no choices")
	}
	return r.Choices[0].Message.Content, nil
}
