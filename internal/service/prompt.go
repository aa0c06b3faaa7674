package service

import (
	"fmt"

	"github.com/kitbuilder587/wordpredict/internal/domain"
)

const promptFormat = "Given the current words: %s, generate a JSON array of %d potential next words with their probabilities. " +
	"Ensure that the target word '%s' is included with a probability of 1.0. " +
	"Return ONLY the JSON array with no additional text. The array must follow this format:\n" +
	"[\n" +
	"    {\"word\": \"example1\", \"probability\": 0.9},\n" +
	"    {\"word\": \"example2\", \"probability\": 0.8},\n" +
	"    ...,\n" +
	"    {\"word\": \"example%d\", \"probability\": 0.01}\n" +
	"]"

func BuildPrompt(req *domain.PredictionRequest) string {
	return fmt.Sprintf(promptFormat, req.Context(), domain.MaxCandidates, req.TargetWord, domain.MaxCandidates)
}
