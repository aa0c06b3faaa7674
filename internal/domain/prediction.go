package domain

import (
	"fmt"
	"sort"
	"strings"
)

// MaxCandidates caps the ranked list returned to callers.
const MaxCandidates = 40

// TargetProbability is assigned to the target word when the model left it out.
const TargetProbability = 1.0

type PredictionRequest struct {
	CurrentWords []string `json:"current_words"`
	TargetWord   string   `json:"target_word"`
}

func (r *PredictionRequest) Validate() error {
	if len(r.CurrentWords) == 0 || strings.TrimSpace(r.TargetWord) == "" {
		return fmt.Errorf("%w: %w", ErrValidation, ErrMissingFields)
	}
	return nil
}

// Context is the space-joined word sequence the prompt is built from.
func (r *PredictionRequest) Context() string {
	return strings.Join(r.CurrentWords, " ")
}

// Candidate probability is passed through as the model reported it; it is not clamped.
type Candidate struct {
	Word        string  `json:"word"`
	Probability float64 `json:"probability"`
}

type RankedCandidateList []Candidate

// Contains reports whether any entry carries exactly the given word.
func (l RankedCandidateList) Contains(word string) bool {
	for _, c := range l {
		if c.Word == word {
			return true
		}
	}
	return false
}

// Rank stable-sorts by probability descending and truncates to limit.
func (l RankedCandidateList) Rank(limit int) RankedCandidateList {
	sort.SliceStable(l, func(i, j int) bool {
		return l[i].Probability > l[j].Probability
	})
	if limit >= 0 && len(l) > limit {
		l = l[:limit]
	}
	return l
}

type PredictionResponse struct {
	CurrentWords   []string            `json:"current_words"`
	NextCandidates RankedCandidateList `json:"next_candidates"`
}

// ErrorResponse is the body of every failed prediction.
type ErrorResponse struct {
	Error string `json:"error"`
}
