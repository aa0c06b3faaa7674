package main

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kitbuilder587/wordpredict/internal/config"
	"github.com/kitbuilder587/wordpredict/internal/llm"
	"github.com/kitbuilder587/wordpredict/internal/llm/bedrock"
	"github.com/kitbuilder587/wordpredict/internal/llm/mock"
	"github.com/kitbuilder587/wordpredict/internal/llm/openrouter"
	"github.com/kitbuilder587/wordpredict/internal/metrics"
	"github.com/kitbuilder587/wordpredict/internal/service"
)

type app struct {
	cfg       *config.Config
	logger    *zap.Logger
	predictor service.PredictionService
}

// setup loads config and builds the long-lived model client once per process.
// reg may be nil to skip metrics.
func setup(ctx context.Context, reg prometheus.Registerer) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	client, err := newLLMClient(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	var m *metrics.Metrics
	if reg != nil {
		m = metrics.New(reg)
	}

	logger.Info("model client ready",
		zap.String("provider", cfg.LLM.Provider),
		zap.Int("max_new_tokens", cfg.LLM.MaxNewTokens),
	)

	return &app{
		cfg:    cfg,
		logger: logger,
		predictor: service.NewPredictionService(service.PredictionServiceDeps{
			LLM:      client,
			Provider: cfg.LLM.Provider,
			Logger:   logger,
			Metrics:  m,
		}),
	}, nil
}

func newLLMClient(ctx context.Context, cfg *config.Config, logger *zap.Logger) (llm.Client, error) {
	switch cfg.LLM.Provider {
	case config.ProviderBedrock:
		client, err := bedrock.NewFromEnv(ctx, bedrock.Config{
			ModelID:      cfg.LLM.Bedrock.ModelID,
			Region:       cfg.LLM.Bedrock.Region,
			MaxNewTokens: cfg.LLM.MaxNewTokens,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("create bedrock client: %w", err)
		}
		return client, nil
	case config.ProviderOpenRouter:
		return openrouter.New(openrouter.Config{
			APIKey:    cfg.LLM.OpenRouter.APIKey,
			Model:     cfg.LLM.OpenRouter.Model,
			BaseURL:   cfg.LLM.OpenRouter.BaseURL,
			MaxTokens: cfg.LLM.MaxNewTokens,
			Timeout:   cfg.Timeout.LLM,
		}, logger), nil
	case config.ProviderMock:
		return mock.New(), nil
	default:
		return nil, config.ErrInvalidProvider
	}
}
