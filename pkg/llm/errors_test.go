package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/sable-systems/caseroute/pkg/provider"
)

func TestProviderErrorMessage(t *testing.T) {
	err := &ProviderError{Provider: provider.OpenAI, Status: 401, Body: `{"error":"bad key"}`}
	if !strings.HasPrefix(err.Error(), "OpenAI error: ") {
		t.Fatalf("unexpected message: %s", err.Error())
	}
	if !strings.Contains(err.Error(), "bad key") {
		t.Fatalf("body not carried: %s", err.Error())
	}
}

func TestMissingKeyErrorNamesKey(t *testing.T) {
	err := &MissingKeyError{Provider: provider.Google}
	if !strings.Contains(err.Error(), "GOOGLE_API_KEY") {
		t.Fatalf("missing key name absent: %s", err.Error())
	}
}

func TestIsTransient(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"deadline", context.DeadlineExceeded, true},
		{"canceled", context.Canceled, false},
		{"429", &ProviderError{Status: 429}, true},
		{"500", &ProviderError{Status: 500}, true},
		{"503", &ProviderError{Status: 503}, true},
		{"400", &ProviderError{Status: 400}, false},
		{"401", &ProviderError{Status: 401}, false},
		{"wrapped 502", fmt.Errorf("call failed: %w", &ProviderError{Status: 502}), true},
		{"plain", errors.New("boom"), false},
	}

	for _, tc := range cases {
		if got := IsTransient(tc.err); got != tc.want {
			t.Errorf("%s: IsTransient = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestComputeBackoffCapped(t *testing.T) {
	if computeBackoff(200, 2000, 0).Milliseconds() != 200 {
		t.Fatal("attempt 0 should use base backoff")
	}
	if computeBackoff(200, 2000, 1).Milliseconds() != 400 {
		t.Fatal("attempt 1 should double")
	}
	if computeBackoff(200, 2000, 10).Milliseconds() != 2000 {
		t.Fatal("backoff should cap at max")
	}
}
