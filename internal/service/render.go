package service

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/kitbuilder587/wordpredict/internal/domain"
)

// ResponseHeaders returns the headers every prediction response carries,
// success or failure.
func ResponseHeaders() map[string]string {
	return map[string]string{
		"Content-Type":                 "application/json",
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Methods": "OPTIONS,POST,GET",
		"Access-Control-Allow-Headers": "Content-Type",
	}
}

// Render collapses a Predict result into the wire status and body. Any error,
// whatever its class, becomes 500 with {"error": message}.
func Render(resp *domain.PredictionResponse, err error) (int, []byte) {
	if err == nil {
		body, mErr := json.Marshal(resp)
		if mErr == nil {
			return http.StatusOK, body
		}
		err = mErr
	}
	return http.StatusInternalServerError, renderError(err)
}

func renderError(err error) []byte {
	body, mErr := json.Marshal(domain.ErrorResponse{Error: err.Error()})
	if mErr != nil {
		return []byte(`{"error":"internal error"}`)
	}
	return body
}
