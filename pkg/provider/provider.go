// Package provider maps opaque model identifiers to the vendor that serves them.
package provider

import "strings"

// Kind identifies an LLM vendor. The set is closed; new vendors require a
// new constant and a detection rule, never a runtime extension.
type Kind string

const (
	OpenAI    Kind = "openai"
	Anthropic Kind = "anthropic"
	Google    Kind = "google"
)

// Detect resolves a model identifier to its vendor. Matching is
// case-insensitive and first-match-wins; anything unrecognized routes to
// Google, so Detect is total and never errors.
func Detect(modelID string) Kind {
	id := strings.ToLower(modelID)
	switch {
	case strings.HasPrefix(id, "gpt"), strings.HasPrefix(id, "o1"), strings.Contains(id, "openai"):
		return OpenAI
	case strings.HasPrefix(id, "claude"), strings.Contains(id, "anthropic"):
		return Anthropic
	default:
		return Google
	}
}

// IsReasoningModel reports whether the model rejects a sampling temperature
// and accepts a qualitative reasoning-effort parameter instead.
func IsReasoningModel(modelID string) bool {
	id := strings.ToLower(modelID)
	return strings.HasPrefix(id, "o1") || strings.HasPrefix(id, "gpt-5")
}

// APIKeyEnv returns the environment variable that carries the vendor's API key.
func (k Kind) APIKeyEnv() string {
	switch k {
	case OpenAI:
		return "OPENAI_API_KEY"
	case Anthropic:
		return "ANTHROPIC_API_KEY"
	case Google:
		return "GOOGLE_API_KEY"
	default:
		return ""
	}
}

// Display returns the vendor name used in error messages.
func (k Kind) Display() string {
	switch k {
	case OpenAI:
		return "OpenAI"
	case Anthropic:
		return "Anthropic"
	case Google:
		return "Gemini"
	default:
		return string(k)
	}
}
