package bedrock

// Request and response bodies for the Nova chat messages API.

type novaRequest struct {
	InferenceConfig inferenceConfig `json:"inferenceConfig"`
	Messages        []novaMessage   `json:"messages"`
}

type inferenceConfig struct {
	MaxNewTokens int `json:"max_new_tokens"`
}

type novaMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Text string `json:"text"`
}

type novaResponse struct {
	Output struct {
		Message novaMessage `json:"message"`
	} `json:"output"`
}

func newNovaRequest(prompt string, maxNewTokens int) novaRequest {
	return novaRequest{
		InferenceConfig: inferenceConfig{MaxNewTokens: maxNewTokens},
		Messages: []novaMessage{
			{Role: "user", Content: []contentPart{{Text: prompt}}},
		},
	}
}

// completion returns the first content part of the output message.
func (r *novaResponse) completion() (string, bool) {
	if len(r.Output.Message.Content) == 0 {
		return "", false
	}
	return r.Output.Message.Content[0].Text, true
}
