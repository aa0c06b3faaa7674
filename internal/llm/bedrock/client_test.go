package bedrock

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/kitbuilder587/wordpredict/internal/llm"
)

type fakeInvoker struct {
	body []byte
	err  error

	last *bedrockruntime.InvokeModelInput
}

func (f *fakeInvoker) InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	f.last = params
	if f.err != nil {
		return nil, f.err
	}
	return &bedrockruntime.InvokeModelOutput{Body: f.body}, nil
}

func TestClient_Complete(t *testing.T) {
	api := &fakeInvoker{body: []byte(`{"output":{"message":{"role":"assistant","content":[{"text":"[1,2]"}]}}}`)}
	client := New(api, Config{}, zap.NewNop())

	got, err := client.Complete(context.Background(), "the cat")
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if got != "[1,2]" {
		t.Errorf("Complete() = %q, want %q", got, "[1,2]")
	}

	if aws.ToString(api.last.ModelId) != DefaultModelID {
		t.Errorf("ModelId = %q, want %q", aws.ToString(api.last.ModelId), DefaultModelID)
	}
	if aws.ToString(api.last.ContentType) != "application/json" || aws.ToString(api.last.Accept) != "application/json" {
		t.Errorf("content type/accept = %q/%q", aws.ToString(api.last.ContentType), aws.ToString(api.last.Accept))
	}

	var sent struct {
		InferenceConfig struct {
			MaxNewTokens int `json:"max_new_tokens"`
		} `json:"inferenceConfig"`
		Messages []struct {
			Role    string `json:"role"`
			Content []struct {
				Text string `json:"text"`
			} `json:"content"`
		} `json:"messages"`
	}
	if err := json.Unmarshal(api.last.Body, &sent); err != nil {
		t.Fatalf("unmarshal sent body: %v", err)
	}
	if sent.InferenceConfig.MaxNewTokens != DefaultMaxNewTokens {
		t.Errorf("max_new_tokens = %d, want %d", sent.InferenceConfig.MaxNewTokens, DefaultMaxNewTokens)
	}
	if len(sent.Messages) != 1 || sent.Messages[0].Role != "user" ||
		len(sent.Messages[0].Content) != 1 || sent.Messages[0].Content[0].Text != "the cat" {
		t.Errorf("messages = %+v", sent.Messages)
	}
}

func TestClient_CustomConfig(t *testing.T) {
	api := &fakeInvoker{body: []byte(`{"output":{"message":{"content":[{"text":"x"}]}}}`)}
	client := New(api, Config{ModelID: "amazon.nova-lite-v1:0", MaxNewTokens: 64}, zap.NewNop())

	if _, err := client.Complete(context.Background(), "p"); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	if aws.ToString(api.last.ModelId) != "amazon.nova-lite-v1:0" {
		t.Errorf("ModelId = %q", aws.ToString(api.last.ModelId))
	}
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		name    string
		api     *fakeInvoker
		wantErr error
	}{
		{"throttled", &fakeInvoker{err: &types.ThrottlingException{Message: aws.String("slow down")}}, llm.ErrRateLimit},
		{"access denied", &fakeInvoker{err: &types.AccessDeniedException{Message: aws.String("no")}}, llm.ErrAuthFailed},
		{"network", &fakeInvoker{err: errors.New("dial tcp: timeout")}, llm.ErrRequestFailed},
		{"bad envelope", &fakeInvoker{body: []byte(`not json`)}, llm.ErrRequestFailed},
		{"no content", &fakeInvoker{body: []byte(`{"output":{"message":{"content":[]}}}`)}, llm.ErrEmptyResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := New(tt.api, Config{}, zap.NewNop())
			_, err := client.Complete(context.Background(), "p")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Complete() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
