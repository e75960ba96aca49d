package provider

import "testing"

func TestDetect(t *testing.T) {
	cases := []struct {
		modelID string
		want    Kind
	}{
		{"gpt-4o", OpenAI},
		{"GPT-4o-mini", OpenAI},
		{"o1-preview", OpenAI},
		{"gpt-5-mini", OpenAI},
		{"custom-openai-tuned", OpenAI},
		{"claude-3-opus", Anthropic},
		{"Claude-Sonnet-4", Anthropic},
		{"my-anthropic-model", Anthropic},
		{"gemini-pro", Google},
		{"gemini-2.0-flash", Google},
		{"", Google},
		{"something-else", Google},
	}

	for _, tc := range cases {
		if got := Detect(tc.modelID); got != tc.want {
			t.Errorf("Detect(%q) = %s, want %s", tc.modelID, got, tc.want)
		}
	}
}

func TestIsReasoningModel(t *testing.T) {
	cases := []struct {
		modelID string
		want    bool
	}{
		{"o1-preview", true},
		{"O1-mini", true},
		{"gpt-5-mini", true},
		{"gpt-5", true},
		{"gpt-4o", false},
		{"claude-3-opus", false},
		{"gemini-pro", false},
		{"", false},
	}

	for _, tc := range cases {
		if got := IsReasoningModel(tc.modelID); got != tc.want {
			t.Errorf("IsReasoningModel(%q) = %v, want %v", tc.modelID, got, tc.want)
		}
	}
}

func TestAPIKeyEnv(t *testing.T) {
	if OpenAI.APIKeyEnv() != "OPENAI_API_KEY" {
		t.Fatalf("unexpected env for openai: %s", OpenAI.APIKeyEnv())
	}
	if Anthropic.APIKeyEnv() != "ANTHROPIC_API_KEY" {
		t.Fatalf("unexpected env for anthropic: %s", Anthropic.APIKeyEnv())
	}
	if Google.APIKeyEnv() != "GOOGLE_API_KEY" {
		t.Fatalf("unexpected env for google: %s", Google.APIKeyEnv())
	}
}
