package lambdafn

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/kitbuilder587/wordpredict/internal/domain"
	"github.com/kitbuilder587/wordpredict/internal/llm"
	llmMock "github.com/kitbuilder587/wordpredict/internal/llm/mock"
	"github.com/kitbuilder587/wordpredict/internal/service"
)

func newHandler(lc *llmMock.Client) *Handler {
	svc := service.NewPredictionService(service.PredictionServiceDeps{
		LLM:      lc,
		Provider: "mock",
		Logger:   zap.NewNop(),
	})
	return NewHandler(svc, zap.NewNop())
}

func assertHeaders(t *testing.T, resp events.APIGatewayProxyResponse) {
	t.Helper()
	for k, v := range service.ResponseHeaders() {
		if resp.Headers[k] != v {
			t.Errorf("header %s = %q, want %q", k, resp.Headers[k], v)
		}
	}
}

func TestHandler_Success(t *testing.T) {
	h := newHandler(llmMock.New())

	resp, err := h.Handle(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodPost,
		Body:       `{"current_words":["the","cat"],"target_word":"sat"}`,
	})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d body=%s", resp.StatusCode, resp.Body)
	}
	assertHeaders(t, resp)

	var out domain.PredictionResponse
	if err := json.Unmarshal([]byte(resp.Body), &out); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if out.NextCandidates[0].Word != "sat" {
		t.Errorf("first candidate = %q, want sat", out.NextCandidates[0].Word)
	}
}

func TestHandler_Base64Body(t *testing.T) {
	h := newHandler(llmMock.New())
	encoded := base64.StdEncoding.EncodeToString([]byte(`{"current_words":["a"],"target_word":"b"}`))

	resp, _ := h.Handle(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod:      http.MethodPost,
		Body:            encoded,
		IsBase64Encoded: true,
	})
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d body=%s", resp.StatusCode, resp.Body)
	}
}

func TestHandler_Failures(t *testing.T) {
	tests := []struct {
		name      string
		req       events.APIGatewayProxyRequest
		lc        *llmMock.Client
		wantInErr string
	}{
		{"no body", events.APIGatewayProxyRequest{HTTPMethod: http.MethodGet}, llmMock.New(), "validation error"},
		{"malformed", events.APIGatewayProxyRequest{HTTPMethod: http.MethodPost, Body: "{"}, llmMock.New(), "malformed payload"},
		{"bad base64", events.APIGatewayProxyRequest{HTTPMethod: http.MethodPost, Body: "%%%", IsBase64Encoded: true}, llmMock.New(), "invalid base64"},
		{"upstream", events.APIGatewayProxyRequest{HTTPMethod: http.MethodPost, Body: `{"current_words":["a"],"target_word":"b"}`}, llmMock.New().WithError(llm.ErrAuthFailed), "authentication failed"},
		{"extraction", events.APIGatewayProxyRequest{HTTPMethod: http.MethodPost, Body: `{"current_words":["a"],"target_word":"b"}`}, llmMock.New().WithResponse(`{"word":"x"}`), "unexpected shape"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := newHandler(tt.lc).Handle(context.Background(), tt.req)
			if err != nil {
				t.Fatalf("Handle() error = %v, want nil", err)
			}
			if resp.StatusCode != http.StatusInternalServerError {
				t.Fatalf("status = %d, want 500", resp.StatusCode)
			}
			assertHeaders(t, resp)

			var body domain.ErrorResponse
			if err := json.Unmarshal([]byte(resp.Body), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if !strings.Contains(body.Error, tt.wantInErr) {
				t.Errorf("error = %q, want it to contain %q", body.Error, tt.wantInErr)
			}
		})
	}
}

func TestHandler_Preflight(t *testing.T) {
	lc := llmMock.New()
	resp, err := newHandler(lc).Handle(context.Background(), events.APIGatewayProxyRequest{HTTPMethod: http.MethodOptions})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("status = %d, want 204", resp.StatusCode)
	}
	assertHeaders(t, resp)
	if lc.Calls() != 0 {
		t.Error("preflight reached the model")
	}
}

type panicPredictor struct{}

func (panicPredictor) Predict(context.Context, []byte) (*domain.PredictionResponse, error) {
	panic("boom")
}

func TestHandler_PanicRecovered(t *testing.T) {
	h := NewHandler(panicPredictor{}, zap.NewNop())

	resp, err := h.Handle(context.Background(), events.APIGatewayProxyRequest{HTTPMethod: http.MethodPost, Body: "{}"})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if resp.StatusCode != http.StatusInternalServerError || !strings.Contains(resp.Body, "boom") {
		t.Errorf("resp = %d %s", resp.StatusCode, resp.Body)
	}
}

func TestHandlerV2(t *testing.T) {
	v2 := func(method, body string, b64 bool) events.APIGatewayV2HTTPRequest {
		req := events.APIGatewayV2HTTPRequest{Body: body, IsBase64Encoded: b64}
		req.RequestContext.HTTP.Method = method
		req.RequestContext.RequestID = "v2-req"
		return req
	}

	tests := []struct {
		name       string
		req        events.APIGatewayV2HTTPRequest
		lc         *llmMock.Client
		wantStatus int
		wantInBody string
		wantCalls  int
	}{
		{"preflight", v2(http.MethodOptions, "", false), llmMock.New(), http.StatusNoContent, "", 0},
		{"success", v2(http.MethodPost, `{"current_words":["the","cat"],"target_word":"sat"}`, false), llmMock.New(), http.StatusOK, `"word":"sat"`, 1},
		{"base64", v2(http.MethodPost, base64.StdEncoding.EncodeToString([]byte(`{"current_words":["a"],"target_word":"b"}`)), true), llmMock.New(), http.StatusOK, `"next_candidates"`, 1},
		{"validation", v2(http.MethodPost, `{"current_words":["a"]}`, false), llmMock.New(), http.StatusInternalServerError, "must be provided and non-empty", 0},
		{"upstream", v2(http.MethodPost, `{"current_words":["a"],"target_word":"b"}`, false), llmMock.New().WithError(llm.ErrRateLimit), http.StatusInternalServerError, "rate limit exceeded", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := newHandler(tt.lc).HandleV2(context.Background(), tt.req)
			if err != nil {
				t.Fatalf("HandleV2() error = %v, want nil", err)
			}
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d body=%s", resp.StatusCode, tt.wantStatus, resp.Body)
			}
			for k, v := range service.ResponseHeaders() {
				if resp.Headers[k] != v {
					t.Errorf("header %s = %q, want %q", k, resp.Headers[k], v)
				}
			}
			if !strings.Contains(resp.Body, tt.wantInBody) {
				t.Errorf("body = %s, want it to contain %s", resp.Body, tt.wantInBody)
			}
			if tt.lc.Calls() != tt.wantCalls {
				t.Errorf("model calls = %d, want %d", tt.lc.Calls(), tt.wantCalls)
			}
		})
	}
}

func TestHandler_PreflightReadsPayloadMethod(t *testing.T) {
	lc := llmMock.New()
	resp, _ := newHandler(lc).Handle(context.Background(), events.APIGatewayProxyRequest{})
	if resp.StatusCode == http.StatusNoContent {
		t.Fatal("v1 event without a method answered as preflight")
	}

	req := events.APIGatewayV2HTTPRequest{}
	req.RequestContext.HTTP.Method = http.MethodOptions
	resp2, _ := newHandler(lc).HandleV2(context.Background(), req)
	if resp2.StatusCode != http.StatusNoContent || resp2.Body != "" {
		t.Errorf("v2 preflight = %d %q, want 204 and empty body", resp2.StatusCode, resp2.Body)
	}
}

func TestHandlerV2_PanicRecovered(t *testing.T) {
	req := events.APIGatewayV2HTTPRequest{Body: "{}"}
	req.RequestContext.HTTP.Method = http.MethodPost

	resp, err := NewHandler(panicPredictor{}, zap.NewNop()).HandleV2(context.Background(), req)
	if err != nil {
		t.Fatalf("HandleV2() error = %v", err)
	}
	if resp.StatusCode != http.StatusInternalServerError || !strings.Contains(resp.Body, "boom") {
		t.Errorf("resp = %d %s", resp.StatusCode, resp.Body)
	}
}
