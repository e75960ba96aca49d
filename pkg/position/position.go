// Package position classifies a transcript's argumentative stance into one
// of a small fixed set of options using a constrained LLM call. Inference is
// best-effort: every failure mode degrades to a logged nil, never an error
// the caller must handle.
package position

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/sable-systems/caseroute/pkg/evalnorm"
	"github.com/sable-systems/caseroute/pkg/llm"
)

// Evaluator is the slice of the router this package needs.
type Evaluator interface {
	Evaluate(ctx context.Context, modelID, prompt string, cfg llm.RouteConfig) (*llm.Result, error)
}

// CaseData carries the case metadata embedded in the inference prompt.
type CaseData struct {
	Title            string
	CentralQuestion  string
	ArgumentsFor     string
	ArgumentsAgainst string
}

// Result is one stance classification.
type Result struct {
	Position   string  `json:"position"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// Conversation pairs a transcript with its identifier for batch inference.
type Conversation struct {
	ID         string `json:"id"`
	Transcript string `json:"transcript"`
}

// Low fixed temperature keeps classification output stable across runs.
const inferenceTemperature = 0.3

var defaultOptions = []string{"for", "against"}

// Inferrer runs position-inference calls through an Evaluator.
type Inferrer struct {
	eval Evaluator
	log  *zap.Logger
}

// New creates an Inferrer. A nil logger disables diagnostics.
func New(eval Evaluator, log *zap.Logger) *Inferrer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Inferrer{eval: eval, log: log}
}

// Infer classifies one transcript. An empty or whitespace-only transcript
// returns nil without making a call. Any provider, parse, or validation
// failure also returns nil, logged.
func (i *Inferrer) Infer(ctx context.Context, transcript string, caseData CaseData, options []string, modelID string) *Result {
	if strings.TrimSpace(transcript) == "" {
		return nil
	}
	if len(options) < 2 {
		options = defaultOptions
	}

	prompt := buildPrompt(transcript, caseData, options)
	res, err := i.eval.Evaluate(ctx, modelID, prompt, llm.RouteConfig{
		Temperature: llm.Float64(inferenceTemperature),
	})
	if err != nil {
		i.log.Warn("position inference call failed", zap.String("model", modelID), zap.Error(err))
		return nil
	}

	return i.parse(res.Text, options)
}

// InferBatch runs Infer per conversation, strictly one at a time to stay
// under provider per-minute rate limits. Failed inferences are omitted from
// the result map.
func (i *Inferrer) InferBatch(ctx context.Context, conversations []Conversation, caseData CaseData, options []string, modelID string) map[string]*Result {
	results := make(map[string]*Result)
	for _, conv := range conversations {
		if res := i.Infer(ctx, conv.Transcript, caseData, options, modelID); res != nil {
			results[conv.ID] = res
		}
	}
	return results
}

func (i *Inferrer) parse(raw string, options []string) *Result {
	var parsed struct {
		Position   string `json:"position"`
		Confidence any    `json:"confidence"`
		Reasoning  string `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(evalnorm.ExtractJSON(raw)), &parsed); err != nil {
		i.log.Warn("position inference returned unparseable JSON", zap.Error(err))
		return nil
	}

	match := ""
	for _, opt := range options {
		if strings.EqualFold(strings.TrimSpace(parsed.Position), opt) {
			match = opt
			break
		}
	}
	if match == "" {
		i.log.Warn("position inference answered outside the allowed set",
			zap.String("position", parsed.Position))
		return nil
	}

	confidence := 0.5
	if f, ok := parsed.Confidence.(float64); ok {
		confidence = f
	}
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	return &Result{
		Position:   match,
		Confidence: confidence,
		Reasoning:  parsed.Reasoning,
	}
}

func buildPrompt(transcript string, caseData CaseData, options []string) string {
	var sb strings.Builder
	sb.WriteString("You are analyzing a student's case discussion transcript.\n\n")
	sb.WriteString("Case: ")
	sb.WriteString(caseData.Title)
	sb.WriteString("\nCentral question: ")
	sb.WriteString(caseData.CentralQuestion)
	sb.WriteString("\n")
	if caseData.ArgumentsFor != "" {
		sb.WriteString("Arguments for: ")
		sb.WriteString(caseData.ArgumentsFor)
		sb.WriteString("\n")
	}
	if caseData.ArgumentsAgainst != "" {
		sb.WriteString("Arguments against: ")
		sb.WriteString(caseData.ArgumentsAgainst)
		sb.WriteString("\n")
	}
	sb.WriteString("\nTranscript:\n")
	sb.WriteString(transcript)
	sb.WriteString("\n\nWhich position does the student take? Allowed positions: ")
	sb.WriteString(strings.Join(options, ", "))
	sb.WriteString(".\nReturn ONLY JSON: {\"position\":\"...\",\"confidence\":0-1,\"reasoning\":\"...\"}.\n")
	return sb.String()
}
