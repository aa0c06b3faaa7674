package service

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/goccy/go-json"

	"github.com/kitbuilder587/wordpredict/internal/domain"
)

// SourceLocator picks the slice of a completion that should hold the JSON array.
type SourceLocator interface {
	Name() string
	Locate(text string) (string, bool)
}

type fencedBlock struct {
	re *regexp.Regexp
}

func (fencedBlock) Name() string { return "fenced_block" }

func (f fencedBlock) Locate(text string) (string, bool) {
	m := f.re.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

type wholeText struct{}

func (wholeText) Name() string { return "whole_text" }

func (wholeText) Locate(text string) (string, bool) {
	return text, true
}

var fencedJSON = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")

// DefaultLocators tries a ```json fence first and then the completion as a whole.
func DefaultLocators() []SourceLocator {
	return []SourceLocator{fencedBlock{re: fencedJSON}, wholeText{}}
}

type Extraction struct {
	Candidates     domain.RankedCandidateList
	Locator        string
	TargetInjected bool
}

type Extractor struct {
	locators []SourceLocator
	limit    int
}

func NewExtractor(locators ...SourceLocator) *Extractor {
	if len(locators) == 0 {
		locators = DefaultLocators()
	}
	return &Extractor{locators: locators, limit: domain.MaxCandidates}
}

// Extract turns a raw completion into a ranked list that contains target.
// The first locator whose source parses as JSON wins.
func (e *Extractor) Extract(text, target string) (*Extraction, error) {
	var (
		parsed  any
		locator string
		found   bool
	)
	for _, l := range e.locators {
		src, ok := l.Locate(text)
		if !ok {
			continue
		}
		if err := json.Unmarshal([]byte(src), &parsed); err != nil {
			parsed = nil
			continue
		}
		locator = l.Name()
		found = true
		break
	}
	if !found {
		return nil, fmt.Errorf("%w: %w", domain.ErrExtraction, domain.ErrUnparsableOutput)
	}

	candidates, err := toCandidates(parsed)
	if err != nil {
		return nil, err
	}

	res := &Extraction{Locator: locator}
	if !candidates.Contains(target) {
		candidates = append(candidates, domain.Candidate{Word: target, Probability: domain.TargetProbability})
		res.TargetInjected = true
	}
	res.Candidates = candidates.Rank(e.limit)
	return res, nil
}

// toCandidates requires a list of objects. A non-string word reads as "" and a
// missing or non-numeric probability reads as 0.
func toCandidates(v any) (domain.RankedCandidateList, error) {
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %w: expected list of objects, got %s", domain.ErrExtraction, domain.ErrUnexpectedShape, jsonKind(v))
	}

	out := make(domain.RankedCandidateList, 0, len(items)+1)
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %w: item %d is %s, not an object", domain.ErrExtraction, domain.ErrUnexpectedShape, i, jsonKind(item))
		}
		word, _ := obj["word"].(string)
		prob, _ := obj["probability"].(float64)
		out = append(out, domain.Candidate{Word: word, Probability: prob})
	}
	return out, nil
}

func jsonKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
