package domain

import "errors"

// Every failure a prediction can end in wraps exactly one of these.
var (
	ErrMalformedPayload = errors.New("malformed payload")
	ErrValidation       = errors.New("validation error")
	ErrUpstream         = errors.New("upstream error")
	ErrExtraction       = errors.New("extraction error")
)

var (
	ErrMissingFields    = errors.New("Both 'current_words' and 'target_word' must be provided and non-empty.")
	ErrUnparsableOutput = errors.New("unparsable model output")
	ErrUnexpectedShape  = errors.New("unexpected shape")
	ErrBodyTooLarge     = errors.New("request body too large")
)
