package metrics

import "github.com/sable-systems/caseroute/pkg/config"

// EstimateCost computes the estimated USD cost of a call from the pricing
// table. Returns false when no pricing entry covers the provider/model;
// a per-provider "default" entry acts as a catch-all.
func EstimateCost(pricing config.PricingConfig, provider, model string, inputTokens, outputTokens int) (float64, bool) {
	entry, ok := pricingFor(pricing, provider, model)
	if !ok {
		return 0, false
	}

	promptCost := (float64(inputTokens) / 1000.0) * entry.PromptPer1K
	completionCost := (float64(outputTokens) / 1000.0) * entry.CompletionPer1K
	return promptCost + completionCost, true
}

func pricingFor(pricing config.PricingConfig, provider, model string) (config.ModelPricing, bool) {
	if pricing == nil {
		return config.ModelPricing{}, false
	}
	if providerPricing, ok := pricing[provider]; ok {
		if entry, ok := providerPricing[model]; ok {
			return entry, true
		}
		if entry, ok := providerPricing["default"]; ok {
			return entry, true
		}
	}
	return config.ModelPricing{}, false
}
