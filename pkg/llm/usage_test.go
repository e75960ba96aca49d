package llm

import (
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/openai/openai-go"
	"google.golang.org/genai"
)

func TestOpenAIUsage(t *testing.T) {
	u := openai.CompletionUsage{
		PromptTokens:     120,
		CompletionTokens: 40,
	}
	u.PromptTokensDetails.CachedTokens = 100

	got := openAIUsage(u)
	want := CacheMetrics{CacheHit: true, InputTokens: 120, CachedTokens: 100, OutputTokens: 40}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestOpenAIUsageNoCache(t *testing.T) {
	got := openAIUsage(openai.CompletionUsage{PromptTokens: 10, CompletionTokens: 5})
	if got.CacheHit || got.CachedTokens != 0 {
		t.Fatalf("expected no cache hit: %+v", got)
	}
}

func TestAnthropicUsageReadIsHit(t *testing.T) {
	got := anthropicUsage(anthropic.Usage{
		InputTokens:          50,
		OutputTokens:         20,
		CacheReadInputTokens: 30,
	})
	if !got.CacheHit {
		t.Fatal("cache read should count as a hit")
	}
	if got.CachedTokens != 30 {
		t.Fatalf("cachedTokens = %d, want 30", got.CachedTokens)
	}
}

func TestAnthropicUsageWriteAloneIsNotHit(t *testing.T) {
	got := anthropicUsage(anthropic.Usage{
		InputTokens:              50,
		OutputTokens:             20,
		CacheCreationInputTokens: 40,
	})
	if got.CacheHit {
		t.Fatal("a cache write alone is not a hit")
	}
	if got.CachedTokens != 40 {
		t.Fatalf("cachedTokens = %d, want 40", got.CachedTokens)
	}
}

func TestGoogleUsageNeverHits(t *testing.T) {
	got := googleUsage(&genai.GenerateContentResponseUsageMetadata{
		PromptTokenCount:        200,
		CandidatesTokenCount:    80,
		CachedContentTokenCount: 150,
	})
	if got.CacheHit {
		t.Fatal("standard call path never reports a hit")
	}
	if got.InputTokens != 200 || got.OutputTokens != 80 || got.CachedTokens != 150 {
		t.Fatalf("unexpected mapping: %+v", got)
	}
}

func TestUsageTotalOverAbsentFields(t *testing.T) {
	zero := CacheMetrics{}
	if got := openAIUsage(openai.CompletionUsage{}); got != zero {
		t.Fatalf("openai: got %+v, want zero", got)
	}
	if got := anthropicUsage(anthropic.Usage{}); got != zero {
		t.Fatalf("anthropic: got %+v, want zero", got)
	}
	if got := googleUsage(nil); got != zero {
		t.Fatalf("google: got %+v, want zero", got)
	}
	if got := googleUsage(&genai.GenerateContentResponseUsageMetadata{}); got != zero {
		t.Fatalf("google empty metadata: got %+v, want zero", got)
	}
}
