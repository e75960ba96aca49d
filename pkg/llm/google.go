package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/sable-systems/caseroute/pkg/provider"
)

// Gemini samples with a fixed nucleus cutoff regardless of call kind.
const googleTopP = 0.9

type googleClient struct {
	client *genai.Client
}

func newGoogleClient(apiKey string) (*googleClient, error) {
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create google client: %w", err)
	}
	return &googleClient{client: client}, nil
}

func (c *googleClient) complete(ctx context.Context, req request) (*completion, error) {
	cfg := &genai.GenerateContentConfig{
		TopP: genai.Ptr[float32](googleTopP),
	}
	if req.systemPrompt != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: req.systemPrompt}}}
	}
	if req.config.Temperature != nil {
		cfg.Temperature = genai.Ptr(float32(*req.config.Temperature))
	}

	var resp *genai.GenerateContentResponse
	var err error
	switch req.kind {
	case requestChat:
		var chat *genai.Chat
		chat, err = c.client.Chats.Create(ctx, req.modelID, cfg, googleHistory(req.history))
		if err == nil {
			resp, err = chat.SendMessage(ctx, genai.Part{Text: req.message})
		}
	case requestEvaluation:
		cfg.ResponseMIMEType = "application/json"
		resp, err = c.client.Models.GenerateContent(ctx, req.modelID, genai.Text(req.message), cfg)
	default:
		resp, err = c.client.Models.GenerateContent(ctx, req.modelID, genai.Text(req.message), cfg)
	}
	if err != nil {
		return nil, wrapGoogleError(err)
	}

	text := extractGoogleText(resp)
	if text == "" {
		return nil, &ProviderError{
			Provider: provider.Google,
			Err:      fmt.Errorf("returned an empty %s response", req.kind),
		}
	}

	return &completion{
		text:  text,
		usage: googleUsage(resp.UsageMetadata),
	}, nil
}

// The SDK's response accessors have varied across versions, so extraction
// walks an ordered list of strategies until one yields text. New shapes get
// appended here without touching the existing ones.
var googleTextExtractors = []func(*genai.GenerateContentResponse) string{
	func(r *genai.GenerateContentResponse) string {
		return r.Text()
	},
	func(r *genai.GenerateContentResponse) string {
		var sb strings.Builder
		for _, cand := range r.Candidates {
			if cand == nil || cand.Content == nil {
				continue
			}
			for _, part := range cand.Content.Parts {
				if part != nil {
					sb.WriteString(part.Text)
				}
			}
		}
		return sb.String()
	},
}

func extractGoogleText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, extract := range googleTextExtractors {
		if text := extract(resp); text != "" {
			return text
		}
	}
	return ""
}

func wrapGoogleError(err error) error {
	var apierr genai.APIError
	if errors.As(err, &apierr) {
		return &ProviderError{
			Provider: provider.Google,
			Status:   apierr.Code,
			Body:     apierr.Message,
			Err:      err,
		}
	}
	return &ProviderError{Provider: provider.Google, Err: err}
}
