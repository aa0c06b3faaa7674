package openrouter

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/kitbuilder587/wordpredict/internal/llm"
)

const (
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	DefaultModel   = "amazon/nova-micro-v1"
)

type Config struct {
	APIKey    string
	Model     string
	BaseURL   string
	MaxTokens int
	// Zero leaves the call unbounded apart from ctx.
	Timeout time.Duration
}

// Client sends the prediction prompt to OpenRouter's OpenAI compatible
// chat completions endpoint as a single user message.
type Client struct {
	cfg      Config
	endpoint string
	http     *http.Client
	logger   *zap.Logger
}

func New(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	return &Client{
		cfg:      cfg,
		endpoint: strings.TrimSuffix(cfg.BaseURL, "/") + "/chat/completions",
		http:     &http.Client{Timeout: cfg.Timeout},
		logger:   logger,
	}
}

// completion is a chat response that may instead carry an error object.
// OpenRouter reports some upstream failures with status 200 and the
// original HTTP code in error.code.
type completion struct {
	llm.ChatResponse
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	req, payload, err := c.newRequest(ctx, prompt)
	if err != nil {
		return "", err
	}
	c.logger.Debug("openrouter request", zap.String("model", c.cfg.Model), zap.ByteString("payload", payload))

	body, status, err := llm.DoRequest(c.http, req)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", llm.HandleHTTPError(status, body, c.logger, "openrouter")
	}

	var out completion
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("%w: decode completion: %v", llm.ErrRequestFailed, err)
	}
	if e := out.Error; e != nil {
		if e.Code == http.StatusUnauthorized || e.Code == http.StatusForbidden || e.Code == http.StatusTooManyRequests {
			return "", llm.HandleHTTPError(e.Code, body, c.logger, "openrouter")
		}
		return "", fmt.Errorf("%w: %s", llm.ErrRequestFailed, e.Message)
	}

	return llm.ExtractContent(&out.ChatResponse)
}

func (c *Client) newRequest(ctx context.Context, prompt string) (*http.Request, []byte, error) {
	payload, err := json.Marshal(llm.NewChatRequest(c.cfg.Model, prompt, c.cfg.MaxTokens))
	if err != nil {
		return nil, nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	return req, payload, nil
}

var _ llm.Client = (*Client)(nil)
