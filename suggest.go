package syntaxcat

import (
	"context"
	"sort"
	"strings"

	"github.com/agext/levenshtein"
)

// Suggestion is a function name close to a query, scored from 0 to 1.
type Suggestion struct {
	Function *Function `json:"function" yaml:"function"`
	Score    float64   `json:"score" yaml:"score"`
}

// suggestThreshold drops matches that share too little with the query.
const suggestThreshold = 0.5

// SuggestFunctions ranks functions by how closely their name or display name
// resembles query, for "did you mean" prompts. At most limit suggestions are
// returned; limit <= 0 means 10.
func (s *Service) SuggestFunctions(ctx context.Context, query string, limit int) ([]Suggestion, error) {
	fns, err := s.Functions(ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, nil
	}

	var out []Suggestion
	for _, f := range fns {
		score := max(similarity(q, f.Name), similarity(q, f.DisplayName))
		if score >= suggestThreshold {
			out = append(out, Suggestion{Function: f, Score: score})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Function.Name < out[j].Function.Name
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// similarity returns 1 for an exact match, 0.95 when candidate contains query,
// and otherwise one minus the edit distance over the longer length.
func similarity(query, candidate string) float64 {
	c := strings.ToLower(candidate)
	if c == "" {
		return 0
	}
	if query == c {
		return 1
	}
	if strings.Contains(c, query) {
		return 0.95
	}
	dist := levenshtein.Distance(query, c, nil)
	longest := max(len(query), len(c))
	score := 1 - float64(dist)/float64(longest)
	if score < 0 {
		return 0
	}
	return score
}
