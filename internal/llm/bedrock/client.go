package bedrock

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/kitbuilder587/wordpredict/internal/llm"
)

const (
	DefaultModelID      = "amazon.nova-micro-v1:0"
	DefaultRegion       = "us-east-1"
	DefaultMaxNewTokens = 2000

	contentTypeJSON = "application/json"
)

// InvokeModelAPI is the subset of *bedrockruntime.Client the provider calls.
type InvokeModelAPI interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

type Config struct {
	ModelID      string
	Region       string
	MaxNewTokens int
}

type Client struct {
	api          InvokeModelAPI
	modelID      string
	maxNewTokens int
	logger       *zap.Logger
}

// NewFromEnv resolves AWS credentials through the default chain and builds
// a client for cfg.Region. Call it once at startup and reuse the result.
func NewFromEnv(ctx context.Context, cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.Region == "" {
		cfg.Region = DefaultRegion
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return New(bedrockruntime.NewFromConfig(awsCfg), cfg, logger), nil
}

func New(api InvokeModelAPI, cfg Config, logger *zap.Logger) *Client {
	if cfg.ModelID == "" {
		cfg.ModelID = DefaultModelID
	}
	if cfg.MaxNewTokens == 0 {
		cfg.MaxNewTokens = DefaultMaxNewTokens
	}

	return &Client{
		api:          api,
		modelID:      cfg.ModelID,
		maxNewTokens: cfg.MaxNewTokens,
		logger:       logger,
	}
}

func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(newNovaRequest(prompt, c.maxNewTokens))
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	c.logger.Debug("bedrock request",
		zap.String("model_id", c.modelID),
		zap.ByteString("payload", body),
	)

	out, err := c.api.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(c.modelID),
		Accept:      aws.String(contentTypeJSON),
		ContentType: aws.String(contentTypeJSON),
		Body:        body,
	})
	if err != nil {
		return "", mapError(err)
	}

	c.logger.Debug("bedrock raw result", zap.ByteString("body", out.Body))

	var resp novaResponse
	if err := json.Unmarshal(out.Body, &resp); err != nil {
		return "", fmt.Errorf("%w: unmarshal response: %v", llm.ErrRequestFailed, err)
	}

	text, ok := resp.completion()
	if !ok {
		return "", llm.ErrEmptyResponse
	}
	return text, nil
}

func mapError(err error) error {
	var throttled *types.ThrottlingException
	if errors.As(err, &throttled) {
		return fmt.Errorf("%w: %v", llm.ErrRateLimit, err)
	}
	var denied *types.AccessDeniedException
	if errors.As(err, &denied) {
		return fmt.Errorf("%w: %v", llm.ErrAuthFailed, err)
	}
	return fmt.Errorf("%w: %v", llm.ErrRequestFailed, err)
}

var _ llm.Client = (*Client)(nil)
