// Package evalnorm parses free-form model output into a canonical evaluation
// record. Models are asked for JSON but drift: fenced code blocks, prose
// around the object, and several historical field-naming schemas all occur
// in practice and must keep parsing.
package evalnorm

import (
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Criterion is one scored evaluation question.
type Criterion struct {
	Question string  `json:"question"`
	Score    float64 `json:"score"`
	Feedback string  `json:"feedback"`
}

// Evaluation is the canonical normalized evaluation record.
type Evaluation struct {
	Criteria   []Criterion `json:"criteria"`
	TotalScore float64     `json:"totalScore"`
	Summary    string      `json:"summary"`
	Hints      int         `json:"hints"`
}

// FallbackSummary is used when no recognized summary field is present.
const FallbackSummary = "No summary provided."

// Normalizer parses raw evaluation text.
type Normalizer struct {
	log *zap.Logger
}

// New creates a Normalizer. A nil logger disables diagnostics.
func New(log *zap.Logger) *Normalizer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Normalizer{log: log}
}

// Parse normalizes raw model output into an Evaluation. Malformed JSON is a
// hard error; a structurally valid but unrecognized document degrades to an
// empty criteria list with a logged warning.
func (n *Normalizer) Parse(raw string) (*Evaluation, error) {
	doc, err := decodeObject(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid evaluation JSON: %w", err)
	}

	criteria := recognizeCriteria(doc)

	eval := &Evaluation{
		Criteria:   criteria,
		TotalScore: resolveTotal(doc, criteria),
		Summary:    resolveSummary(doc),
		Hints:      resolveHints(doc),
	}

	if len(eval.Criteria) == 0 && eval.TotalScore == 0 && eval.Summary == FallbackSummary {
		n.log.Warn("evaluation response normalized to a degenerate result",
			zap.Int("raw_len", len(raw)))
	}

	return eval, nil
}

// ExtractJSON strips markdown fences and leading or trailing prose, returning
// the substring from the first '{' through the last '}'. Shared with position
// inference, which parses the same kind of constrained-JSON replies.
func ExtractJSON(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		s = s[start : end+1]
	}
	return s
}

func decodeObject(raw string) (map[string]any, error) {
	var doc map[string]any
	if err := json.Unmarshal([]byte(ExtractJSON(raw)), &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func resolveTotal(doc map[string]any, criteria []Criterion) float64 {
	if total, ok := numberField(doc, "total", "total_score", "totalScore", "overall", "overall_score", "score"); ok {
		return total
	}
	var sum float64
	for _, c := range criteria {
		sum += c.Score
	}
	return sum
}

func resolveSummary(doc map[string]any) string {
	for _, key := range []string{"summary", "overall_summary", "general_feedback", "overall_feedback"} {
		if s, ok := doc[key].(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return FallbackSummary
}

func resolveHints(doc map[string]any) int {
	if n, ok := numberField(doc, "hints", "hint_count", "total_hints", "hints_used"); ok {
		return int(n)
	}
	return 0
}

func numberField(doc map[string]any, keys ...string) (float64, bool) {
	for _, key := range keys {
		if v, ok := doc[key].(float64); ok {
			return v, true
		}
	}
	return 0, false
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}

func scoreValue(v any) float64 {
	f, _ := v.(float64)
	return f
}
