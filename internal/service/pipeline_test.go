package service

import (
	"context"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	llmMock "github.com/kitbuilder587/wordpredict/internal/llm/mock"
	"github.com/kitbuilder587/wordpredict/internal/metrics"
)

func TestPredictionService_ConcurrentPredict(t *testing.T) {
	llmClient := llmMock.New()
	m := metrics.New(prometheus.NewRegistry())
	svc := NewPredictionService(PredictionServiceDeps{
		LLM:      llmClient,
		Provider: "mock",
		Metrics:  m,
	})
	const workers = 50

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := svc.Predict(context.Background(), []byte(`{"current_words":["the","cat"],"target_word":"sat"}`))
			if !assert.NoError(t, err) {
				return
			}
			assert.Equal(t, "sat", resp.NextCandidates[0].Word)
			assert.Equal(t, []string{"the", "cat"}, resp.CurrentWords)
		}()
	}
	wg.Wait()

	assert.Equal(t, workers, llmClient.Calls())
	assert.Equal(t, float64(workers), testutil.ToFloat64(m.PredictionsTotal.WithLabelValues("ok")))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.PredictionsInFlight))
}

func TestPredictionService_InjectsMissingTarget(t *testing.T) {
	llmClient := llmMock.New()
	svc := NewPredictionService(PredictionServiceDeps{LLM: llmClient})

	resp, err := svc.Predict(context.Background(), []byte(`{"current_words":["sit"],"target_word":"Down"}`))
	require.NoError(t, err)
	require.Len(t, resp.NextCandidates, 4)

	assert.Equal(t, "Down", resp.NextCandidates[0].Word)
	assert.Equal(t, 1.0, resp.NextCandidates[0].Probability)
	assert.Equal(t, "down", resp.NextCandidates[2].Word)
	assert.Contains(t, llmClient.LastPrompt(), "Down")
}
