package service

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/kitbuilder587/wordpredict/internal/domain"
)

// NormalizeRequest decodes an inbound body into a validated PredictionRequest.
// An empty body is treated as an empty object, so it fails validation rather
// than decoding.
func NormalizeRequest(payload []byte) (*domain.PredictionRequest, error) {
	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 {
		payload = []byte("{}")
	}

	var req domain.PredictionRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedPayload, err)
	}
	if req.CurrentWords == nil {
		req.CurrentWords = []string{}
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}
	return &req, nil
}
