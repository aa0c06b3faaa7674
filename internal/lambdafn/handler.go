package lambdafn

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kitbuilder587/wordpredict/internal/domain"
	"github.com/kitbuilder587/wordpredict/internal/service"
)

// Handler adapts API Gateway events to the prediction service. Handle takes
// REST API (payload 1.0) events and HandleV2 takes HTTP API (payload 2.0)
// events. The returned error is always nil so the gateway never sees an
// invocation failure.
type Handler struct {
	predictor service.PredictionService
	logger    *zap.Logger
}

func NewHandler(predictor service.PredictionService, logger *zap.Logger) *Handler {
	return &Handler{predictor: predictor, logger: logger}
}

// invocation is the part of a gateway event the prediction path reads.
type invocation struct {
	method    string
	requestID string
	body      string
	base64    bool
}

func (h *Handler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	status, body := h.serve(ctx, invocation{
		method:    req.HTTPMethod,
		requestID: req.RequestContext.RequestID,
		body:      req.Body,
		base64:    req.IsBase64Encoded,
	})
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    service.ResponseHeaders(),
		Body:       string(body),
	}, nil
}

func (h *Handler) HandleV2(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	status, body := h.serve(ctx, invocation{
		method:    req.RequestContext.HTTP.Method,
		requestID: req.RequestContext.RequestID,
		body:      req.Body,
		base64:    req.IsBase64Encoded,
	})
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Headers:    service.ResponseHeaders(),
		Body:       string(body),
	}, nil
}

// serve answers preflight with 204 and an empty body, everything else with
// the rendered prediction.
func (h *Handler) serve(ctx context.Context, inv invocation) (status int, body []byte) {
	reqID := inv.requestID
	if reqID == "" {
		reqID = uuid.NewString()
	}

	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("panic in lambda handler",
				zap.String("request_id", reqID),
				zap.Any("panic", r),
			)
			status, body = service.Render(nil, fmt.Errorf("internal error: %v", r))
		}
	}()

	if inv.method == http.MethodOptions {
		return http.StatusNoContent, nil
	}

	payload, err := decodeBody(inv)
	if err != nil {
		h.logger.Error("decode request body", zap.String("request_id", reqID), zap.Error(err))
		return service.Render(nil, err)
	}

	ctx = service.WithRequestID(ctx, reqID)
	return service.Render(h.predictor.Predict(ctx, payload))
}

func decodeBody(inv invocation) ([]byte, error) {
	if !inv.base64 {
		return []byte(inv.body), nil
	}
	raw, err := base64.StdEncoding.DecodeString(inv.body)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base64 body: %v", domain.ErrMalformedPayload, err)
	}
	return raw, nil
}
