package llm

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/sable-systems/caseroute/pkg/config"
	"github.com/sable-systems/caseroute/pkg/metrics"
	"github.com/sable-systems/caseroute/pkg/provider"
	"github.com/sable-systems/caseroute/pkg/tokens"
)

// Router owns one client per configured provider and exposes the three
// routing operations. It is safe for concurrent use; each call is one
// stateless outbound request.
type Router struct {
	clients map[provider.Kind]client
	sink    metrics.Sink
	retry   config.RetryConfig
	pricing config.PricingConfig
	log     *zap.Logger
}

// NewRouter builds a router from configuration. Providers without an API key
// are left unconfigured; selecting one of their models later is a call-time
// error naming the missing key.
func NewRouter(cfg *config.Config, sink metrics.Sink, log *zap.Logger) (*Router, error) {
	if log == nil {
		log = zap.NewNop()
	}

	clients := make(map[provider.Kind]client)
	if cfg.HasProvider(provider.OpenAI) {
		clients[provider.OpenAI] = newOpenAIClient(cfg.OpenAIAPIKey)
	}
	if cfg.HasProvider(provider.Anthropic) {
		clients[provider.Anthropic] = newAnthropicClient(cfg.AnthropicAPIKey)
	}
	if cfg.HasProvider(provider.Google) {
		gc, err := newGoogleClient(cfg.GoogleAPIKey)
		if err != nil {
			return nil, err
		}
		clients[provider.Google] = gc
	}

	return &Router{
		clients: clients,
		sink:    sink,
		retry:   cfg.Retry,
		pricing: cfg.Pricing,
		log:     log,
	}, nil
}

// newRouterWithClients wires in explicit clients. Test seam.
func newRouterWithClients(clients map[provider.Kind]client, sink metrics.Sink, retry config.RetryConfig, log *zap.Logger) *Router {
	if log == nil {
		log = zap.NewNop()
	}
	return &Router{clients: clients, sink: sink, retry: retry, log: log}
}

// Chat sends one conversation turn and returns the normalized reply.
func (r *Router) Chat(ctx context.Context, modelID, systemPrompt string, history []ChatMessage, message string, cfg RouteConfig) (*Result, error) {
	return r.dispatch(ctx, request{
		kind:         requestChat,
		modelID:      modelID,
		systemPrompt: systemPrompt,
		history:      history,
		message:      message,
		config:       cfg,
	})
}

// Evaluate runs a JSON-mode evaluation call. The returned Text is the raw
// JSON; callers normalize it with evalnorm.
func (r *Router) Evaluate(ctx context.Context, modelID, prompt string, cfg RouteConfig) (*Result, error) {
	return r.dispatch(ctx, request{
		kind:    requestEvaluation,
		modelID: modelID,
		message: prompt,
		config:  cfg,
	})
}

// GenerateOutline runs a single-turn generation with raised output-token
// ceilings.
func (r *Router) GenerateOutline(ctx context.Context, modelID, prompt string, cfg RouteConfig) (*Result, error) {
	return r.dispatch(ctx, request{
		kind:    requestOutline,
		modelID: modelID,
		message: prompt,
		config:  cfg,
	})
}

func (r *Router) dispatch(ctx context.Context, req request) (*Result, error) {
	kind := provider.Detect(req.modelID)
	cl, ok := r.clients[kind]
	if !ok {
		return nil, &MissingKeyError{Provider: kind}
	}

	if ce := r.log.Check(zap.DebugLevel, "dispatching"); ce != nil {
		ce.Write(
			zap.String("provider", string(kind)),
			zap.String("model", req.modelID),
			zap.String("request_type", string(req.kind)),
			zap.Int("prompt_tokens_est", tokens.Estimate(req.systemPrompt)+tokens.Estimate(req.message)),
		)
	}

	comp, err := r.completeWithRetry(ctx, cl, req)
	if err != nil {
		return nil, err
	}
	if comp.text == "" {
		return nil, &ProviderError{Provider: kind, Err: errors.New("empty response content")}
	}

	meta := Meta{Provider: kind}
	if provider.IsReasoningModel(req.modelID) {
		meta.ReasoningEffort = req.config.ReasoningEffort
	} else {
		meta.Temperature = req.config.Temperature
	}
	usage := comp.usage
	meta.CacheMetrics = &usage

	r.trackUsage(kind, req, usage)

	return &Result{Text: comp.text, Meta: meta}, nil
}

// trackUsage persists one usage row as a detached task. Missing caseID or
// sink disables it; a sink failure is logged and never joins the primary
// result.
func (r *Router) trackUsage(kind provider.Kind, req request, usage CacheMetrics) {
	if req.config.CaseID == "" || r.sink == nil {
		return
	}

	cost, _ := metrics.EstimateCost(r.pricing, string(kind), req.modelID, usage.InputTokens, usage.OutputTokens)
	rec := metrics.Record{
		CaseID:       req.config.CaseID,
		Provider:     string(kind),
		Model:        req.modelID,
		RequestType:  string(req.kind),
		CacheHit:     usage.CacheHit,
		InputTokens:  usage.InputTokens,
		CachedTokens: usage.CachedTokens,
		OutputTokens: usage.OutputTokens,
		CostUSD:      cost,
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := r.sink.Track(ctx, rec); err != nil {
			r.log.Warn("usage tracking failed",
				zap.String("case_id", rec.CaseID),
				zap.String("provider", rec.Provider),
				zap.Error(err))
		}
	}()
}
