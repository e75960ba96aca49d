package llm

import (
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/openai/openai-go"
	"google.golang.org/genai"
)

// Usage extraction maps each vendor's envelope to CacheMetrics. Absent
// fields become zero so downstream arithmetic never sees a null.

func openAIUsage(u openai.CompletionUsage) CacheMetrics {
	cached := int(u.PromptTokensDetails.CachedTokens)
	return CacheMetrics{
		CacheHit:     cached > 0,
		InputTokens:  int(u.PromptTokens),
		CachedTokens: cached,
		OutputTokens: int(u.CompletionTokens),
	}
}

// anthropicUsage counts both cache writes and reads as cached tokens, but a
// write alone is not a hit.
func anthropicUsage(u anthropic.Usage) CacheMetrics {
	return CacheMetrics{
		CacheHit:     u.CacheReadInputTokens > 0,
		InputTokens:  int(u.InputTokens),
		CachedTokens: int(u.CacheCreationInputTokens + u.CacheReadInputTokens),
		OutputTokens: int(u.OutputTokens),
	}
}

// googleUsage never reports a hit: the standard call path does not use
// explicit context caching, so CachedContentTokenCount staying zero is the
// expected state, not a signal.
func googleUsage(u *genai.GenerateContentResponseUsageMetadata) CacheMetrics {
	if u == nil {
		return CacheMetrics{}
	}
	return CacheMetrics{
		CacheHit:     false,
		InputTokens:  int(u.PromptTokenCount),
		CachedTokens: int(u.CachedContentTokenCount),
		OutputTokens: int(u.CandidatesTokenCount),
	}
}
