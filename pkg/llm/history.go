package llm

import (
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/openai/openai-go"
	"google.golang.org/genai"
)

// The history adapters are pure, order-preserving, lossless transforms: no
// filtering, no truncation, one output turn per input turn.

// openAIHistory maps model turns to the assistant role; user turns pass
// through unchanged.
func openAIHistory(history []ChatMessage) []openai.ChatCompletionMessageParamUnion {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(history))
	for _, m := range history {
		if m.Role == RoleModel {
			msgs = append(msgs, openai.AssistantMessage(m.Content))
		} else {
			msgs = append(msgs, openai.UserMessage(m.Content))
		}
	}
	return msgs
}

// anthropicHistory performs the same role mapping but wraps each turn's
// content in a single text block, per Anthropic's structured-content shape.
func anthropicHistory(history []ChatMessage) []anthropic.MessageParam {
	msgs := make([]anthropic.MessageParam, 0, len(history))
	for _, m := range history {
		if m.Role == RoleModel {
			msgs = append(msgs, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		} else {
			msgs = append(msgs, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}
	return msgs
}

// googleHistory keeps roles as-is: user/model is already Gemini's native
// vocabulary. Content goes in as one text part per turn.
func googleHistory(history []ChatMessage) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, m := range history {
		contents = append(contents, &genai.Content{
			Role:  string(m.Role),
			Parts: []*genai.Part{{Text: m.Content}},
		})
	}
	return contents
}
