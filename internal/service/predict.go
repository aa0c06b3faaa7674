package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kitbuilder587/wordpredict/internal/domain"
	"github.com/kitbuilder587/wordpredict/internal/llm"
	"github.com/kitbuilder587/wordpredict/internal/metrics"
)

type PredictionService interface {
	Predict(ctx context.Context, payload []byte) (*domain.PredictionResponse, error)
}

type PredictionServiceDeps struct {
	LLM       llm.Client
	Provider  string
	Extractor *Extractor
	Logger    *zap.Logger
	Metrics   *metrics.Metrics
}

type predictionService struct {
	llm       llm.Client
	provider  string
	extractor *Extractor
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

func NewPredictionService(deps PredictionServiceDeps) PredictionService {
	if deps.Extractor == nil {
		deps.Extractor = NewExtractor()
	}
	if deps.Provider == "" {
		deps.Provider = "unknown"
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	return &predictionService{
		llm:       deps.LLM,
		provider:  deps.Provider,
		extractor: deps.Extractor,
		logger:    deps.Logger,
		metrics:   deps.Metrics,
	}
}

type requestIDKey struct{}

// WithRequestID attaches an id that Predict adds to every log line.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// Predict runs normalize, prompt, model call and extraction strictly in order.
// Every returned error wraps one of the domain taxonomy sentinels.
func (s *predictionService) Predict(ctx context.Context, payload []byte) (*domain.PredictionResponse, error) {
	start := time.Now()
	log := s.logger.With(zap.String("request_id", requestIDFrom(ctx)))

	if s.metrics != nil {
		s.metrics.IncInFlight()
		defer s.metrics.DecInFlight()
	}

	resp, stage, err := s.predict(ctx, log, payload)
	if s.metrics != nil {
		s.metrics.RecordPrediction(StatusLabel(err), time.Since(start))
	}
	if err != nil {
		log.Error("prediction failed",
			zap.String("stage", stage),
			zap.Error(err),
			zap.Duration("duration", time.Since(start)),
		)
		return nil, err
	}
	return resp, nil
}

func (s *predictionService) predict(ctx context.Context, log *zap.Logger, payload []byte) (*domain.PredictionResponse, string, error) {
	req, err := NormalizeRequest(payload)
	if err != nil {
		return nil, "normalize", err
	}

	prompt := BuildPrompt(req)

	llmStart := time.Now()
	text, err := s.llm.Complete(ctx, prompt)
	if s.metrics != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		s.metrics.RecordLLMRequest(s.provider, status, time.Since(llmStart))
	}
	if err != nil {
		return nil, "model", fmt.Errorf("%w: %w", domain.ErrUpstream, err)
	}

	log.Debug("model completion",
		zap.String("provider", s.provider),
		zap.String("text", text),
	)

	ext, err := s.extractor.Extract(text, req.TargetWord)
	if err != nil {
		log.Debug("unusable completion", zap.String("text", text))
		return nil, "extract", err
	}
	if s.metrics != nil {
		s.metrics.RecordExtraction(ext.Locator, ext.TargetInjected, len(ext.Candidates))
	}

	log.Info("prediction completed",
		zap.Int("current_words", len(req.CurrentWords)),
		zap.Int("candidates", len(ext.Candidates)),
		zap.String("locator", ext.Locator),
		zap.Bool("target_injected", ext.TargetInjected),
	)

	return &domain.PredictionResponse{
		CurrentWords:   req.CurrentWords,
		NextCandidates: ext.Candidates,
	}, "", nil
}

// StatusLabel names the taxonomy class of err for metrics.
func StatusLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrMalformedPayload):
		return "malformed_payload"
	case errors.Is(err, domain.ErrValidation):
		return "validation_error"
	case errors.Is(err, domain.ErrUpstream):
		return "upstream_error"
	case errors.Is(err, domain.ErrExtraction):
		return "extraction_error"
	default:
		return "internal_error"
	}
}
