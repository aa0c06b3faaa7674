package mock

import (
	"context"
	"sync"
	"time"

	"github.com/kitbuilder587/wordpredict/internal/llm"
)

// DefaultResponse is a short fenced completion in the shape the prompt asks for.
const DefaultResponse = "```json\n[\n" +
	"  {\"word\": \"on\", \"probability\": 0.6},\n" +
	"  {\"word\": \"down\", \"probability\": 0.3},\n" +
	"  {\"word\": \"quietly\", \"probability\": 0.1}\n" +
	"]\n```"

// maxRecordedPrompts bounds the prompt history when the mock runs as a
// long-lived provider.
const maxRecordedPrompts = 32

// Client returns a canned completion. Response, Error and Delay are read-only
// once the client is in use; call recording is safe for concurrent callers.
type Client struct {
	Response string
	Error    error
	Delay    time.Duration

	mu      sync.Mutex
	calls   int
	prompts []string
}

func New() *Client {
	return &Client{
		Response: DefaultResponse,
	}
}

func (c *Client) WithResponse(response string) *Client {
	c.Response = response
	return c
}

func (c *Client) WithError(err error) *Client {
	c.Error = err
	return c
}

func (c *Client) WithDelay(delay time.Duration) *Client {
	c.Delay = delay
	return c
}

func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	c.record(prompt)

	if c.Delay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(c.Delay):
		}
	}

	if c.Error != nil {
		return "", c.Error
	}

	return c.Response, nil
}

func (c *Client) record(prompt string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.calls++
	if len(c.prompts) == maxRecordedPrompts {
		copy(c.prompts, c.prompts[1:])
		c.prompts = c.prompts[:maxRecordedPrompts-1]
	}
	c.prompts = append(c.prompts, prompt)
}

// Calls is the total number of Complete calls since creation or Reset.
func (c *Client) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func (c *Client) LastPrompt() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.prompts) == 0 {
		return ""
	}
	return c.prompts[len(c.prompts)-1]
}

// Prompts returns a copy of the most recent prompts, oldest first.
func (c *Client) Prompts() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.prompts...)
}

func (c *Client) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = 0
	c.prompts = nil
}

var _ llm.Client = (*Client)(nil)
