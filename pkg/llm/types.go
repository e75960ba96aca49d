// Package llm dispatches chat, evaluation and outline requests to the vendor
// that serves a given model, and normalizes the vendors' divergent response
// and usage envelopes into one internal contract.
package llm

import (
	"context"

	"github.com/sable-systems/caseroute/pkg/provider"
)

// Role tags a conversation turn. The internal vocabulary is user/model;
// provider clients remap as needed.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// ChatMessage is one turn of a conversation. The router treats history as
// read-only input and never mutates it; appending the new turn is the
// caller's job.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// RouteConfig carries the per-call options. Temperature is applied only when
// the target is not a reasoning model; ReasoningEffort only when it is.
// CaseID enables usage-metrics persistence for the call.
type RouteConfig struct {
	Temperature     *float64 `json:"temperature,omitempty"`
	ReasoningEffort string   `json:"reasoning_effort,omitempty"`
	CaseID          string   `json:"case_id,omitempty"`
}

// CacheMetrics is the normalized token-usage shape shared by all providers.
// Every field defaults to zero when the vendor omits it.
type CacheMetrics struct {
	CacheHit     bool `json:"cache_hit"`
	InputTokens  int  `json:"input_tokens"`
	CachedTokens int  `json:"cached_tokens"`
	OutputTokens int  `json:"output_tokens"`
}

// Meta describes how a result was produced.
type Meta struct {
	Provider        provider.Kind `json:"provider"`
	Temperature     *float64      `json:"temperature,omitempty"`
	ReasoningEffort string        `json:"reasoning_effort,omitempty"`
	CacheMetrics    *CacheMetrics `json:"cacheMetrics,omitempty"`
}

// Result is a normalized provider response. Text is never empty: a provider
// that produced no content is surfaced as an error, not an empty success.
type Result struct {
	Text string `json:"text"`
	Meta Meta   `json:"meta"`
}

// Float64 returns a pointer to v, for building RouteConfig literals.
func Float64(v float64) *float64 { return &v }

type requestKind string

const (
	requestChat       requestKind = "chat"
	requestEvaluation requestKind = "evaluation"
	requestOutline    requestKind = "outline"
)

// request is the provider-independent call shape handed to a client.
type request struct {
	kind         requestKind
	modelID      string
	systemPrompt string
	history      []ChatMessage
	message      string
	config       RouteConfig
}

// completion is what a provider client hands back to the router.
type completion struct {
	text  string
	usage CacheMetrics
}

// client is the contract every provider client implements.
type client interface {
	complete(ctx context.Context, req request) (*completion, error)
}
