package llm

import (
	"context"
	"errors"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/sable-systems/caseroute/pkg/provider"
)

const (
	// Fixed instruction for JSON-mode evaluation calls.
	jsonModeInstruction = "Return only JSON matching the expected evaluation schema."

	// Outline generation needs far more room than chat turns.
	openAIOutlineMaxTokens = 16000
)

type openAIClient struct {
	client openai.Client
}

func newOpenAIClient(apiKey string) *openAIClient {
	return &openAIClient{client: openai.NewClient(option.WithAPIKey(apiKey))}
}

func (c *openAIClient) complete(ctx context.Context, req request) (*completion, error) {
	var msgs []openai.ChatCompletionMessageParamUnion
	switch req.kind {
	case requestChat:
		if req.systemPrompt != "" {
			msgs = append(msgs, openai.SystemMessage(req.systemPrompt))
		}
		msgs = append(msgs, openAIHistory(req.history)...)
		msgs = append(msgs, openai.UserMessage(req.message))
	case requestEvaluation:
		msgs = append(msgs, openai.SystemMessage(jsonModeInstruction))
		msgs = append(msgs, openai.UserMessage(req.message))
	default:
		// Outline generation is a single user turn, no system role.
		msgs = append(msgs, openai.UserMessage(req.message))
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(req.modelID),
		Messages: msgs,
	}

	// Reasoning models reject temperature and take a reasoning-effort
	// parameter instead.
	if provider.IsReasoningModel(req.modelID) {
		if req.config.ReasoningEffort != "" {
			params.ReasoningEffort = shared.ReasoningEffort(req.config.ReasoningEffort)
		}
	} else if req.config.Temperature != nil {
		params.Temperature = openai.Float(*req.config.Temperature)
	}

	if req.kind == requestEvaluation {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}
	if req.kind == requestOutline {
		params.MaxCompletionTokens = openai.Int(openAIOutlineMaxTokens)
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, wrapOpenAIError(err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, &ProviderError{Provider: provider.OpenAI, Err: errors.New("no completion content returned")}
	}

	return &completion{
		text:  resp.Choices[0].Message.Content,
		usage: openAIUsage(resp.Usage),
	}, nil
}

func wrapOpenAIError(err error) error {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		return &ProviderError{
			Provider: provider.OpenAI,
			Status:   apierr.StatusCode,
			Body:     apierr.RawJSON(),
			Err:      err,
		}
	}
	return &ProviderError{Provider: provider.OpenAI, Err: err}
}
