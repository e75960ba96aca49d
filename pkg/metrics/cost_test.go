package metrics

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/sable-systems/caseroute/pkg/config"
)

func TestEstimateCost(t *testing.T) {
	pricing := config.PricingConfig{
		"openai": {
			"gpt-4o": {PromptPer1K: 0.005, CompletionPer1K: 0.015},
		},
	}

	cost, ok := EstimateCost(pricing, "openai", "gpt-4o", 2000, 1000)
	if !ok {
		t.Fatal("expected pricing entry")
	}
	want := 0.005*2 + 0.015*1
	if math.Abs(cost-want) > 1e-9 {
		t.Fatalf("cost = %f, want %f", cost, want)
	}
}

func TestEstimateCostDefaultEntry(t *testing.T) {
	pricing := config.PricingConfig{
		"anthropic": {
			"default": {PromptPer1K: 0.003, CompletionPer1K: 0.015},
		},
	}

	cost, ok := EstimateCost(pricing, "anthropic", "claude-unknown", 1000, 0)
	if !ok {
		t.Fatal("expected default entry to apply")
	}
	if math.Abs(cost-0.003) > 1e-9 {
		t.Fatalf("cost = %f, want 0.003", cost)
	}
}

func TestEstimateCostNoEntry(t *testing.T) {
	if _, ok := EstimateCost(nil, "openai", "gpt-4o", 100, 100); ok {
		t.Fatal("expected no pricing without a table")
	}
	if _, ok := EstimateCost(config.PricingConfig{}, "openai", "gpt-4o", 100, 100); ok {
		t.Fatal("expected no pricing for unknown provider")
	}
}

func TestMemorySinkTrack(t *testing.T) {
	sink := NewMemorySink()
	err := sink.Track(context.Background(), Record{
		CaseID:      "case-1",
		Provider:    "openai",
		Model:       "gpt-4o",
		RequestType: "chat",
		InputTokens: 10,
	})
	if err != nil {
		t.Fatalf("track: %v", err)
	}

	records := sink.Records()
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].ID == "" {
		t.Fatal("expected generated ID")
	}
	if records[0].CreatedAt.IsZero() {
		t.Fatal("expected CreatedAt to be set")
	}
}

func TestMemorySinkFailure(t *testing.T) {
	sink := NewMemorySink()
	sink.FailWith = errors.New("db down")
	if err := sink.Track(context.Background(), Record{CaseID: "c"}); err == nil {
		t.Fatal("expected failure")
	}
	if len(sink.Records()) != 0 {
		t.Fatal("expected no records after failure")
	}
}
