package llm

import (
	"context"
	"errors"
)

var (
	ErrAuthFailed    = errors.New("authentication failed")
	ErrRequestFailed = errors.New("request failed")
	ErrEmptyResponse = errors.New("empty response")
	ErrRateLimit     = errors.New("rate limit exceeded")
)

// Client sends a single user prompt and returns the raw completion text.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
