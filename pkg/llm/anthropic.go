package llm

import (
	"context"
	"errors"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/sable-systems/caseroute/pkg/provider"
)

const (
	anthropicChatMaxTokens    = 1024
	anthropicOutlineMaxTokens = 8192

	promptCachingBeta = "prompt-caching-2024-07-31"
)

type anthropicClient struct {
	client anthropic.Client
}

func newAnthropicClient(apiKey string) *anthropicClient {
	return &anthropicClient{client: anthropic.NewClient(option.WithAPIKey(apiKey))}
}

func (c *anthropicClient) complete(ctx context.Context, req request) (*completion, error) {
	var msgs []anthropic.MessageParam
	if req.kind == requestChat {
		msgs = append(msgs, anthropicHistory(req.history)...)
	}
	msgs = append(msgs, anthropic.NewUserMessage(anthropic.NewTextBlock(req.message)))

	maxTokens := int64(anthropicChatMaxTokens)
	if req.kind == requestOutline {
		maxTokens = anthropicOutlineMaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(req.modelID),
		MaxTokens: maxTokens,
		Messages:  msgs,
	}

	// The system prompt repeats verbatim on every chat turn, so it is
	// tagged for ephemeral caching on the chat path only.
	cacheSystem := req.kind == requestChat && req.systemPrompt != ""
	if req.systemPrompt != "" {
		block := anthropic.TextBlockParam{Text: req.systemPrompt}
		if cacheSystem {
			block.CacheControl = anthropic.NewCacheControlEphemeralParam()
		}
		params.System = []anthropic.TextBlockParam{block}
	}

	if req.config.Temperature != nil {
		params.Temperature = anthropic.Float(*req.config.Temperature)
	}

	var opts []option.RequestOption
	if cacheSystem {
		opts = append(opts, option.WithHeader("anthropic-beta", promptCachingBeta))
	}

	resp, err := c.client.Messages.New(ctx, params, opts...)
	if err != nil {
		return nil, wrapAnthropicError(err)
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	if text == "" {
		return nil, &ProviderError{Provider: provider.Anthropic, Err: errors.New("no message content returned")}
	}

	return &completion{
		text:  text,
		usage: anthropicUsage(resp.Usage),
	}, nil
}

func wrapAnthropicError(err error) error {
	var apierr *anthropic.Error
	if errors.As(err, &apierr) {
		return &ProviderError{
			Provider: provider.Anthropic,
			Status:   apierr.StatusCode,
			Body:     apierr.RawJSON(),
			Err:      err,
		}
	}
	return &ProviderError{Provider: provider.Anthropic, Err: err}
}
