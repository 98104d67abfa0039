package model

import (
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
)

func TestComputeCost(t *testing.T) {
	usage := &schema.TokenUsage{PromptTokens: 1_000_000, CompletionTokens: 500_000}

	in, out, total := ComputeCost(usage, ResolvePricing("gpt-4o-mini"))

	assert.InDelta(t, 0.15, in, 1e-9)
	assert.InDelta(t, 0.30, out, 1e-9)
	assert.InDelta(t, 0.45, total, 1e-9)
}

func TestComputeCostUnknownModelAndNilUsage(t *testing.T) {
	_, _, total := ComputeCost(&schema.TokenUsage{PromptTokens: 10}, ResolvePricing("llama3.1"))
	assert.Zero(t, total)

	_, _, total = ComputeCost(nil, ResolvePricing("gpt-4o"))
	assert.Zero(t, total)
}

func TestResolvePricingSnapshots(t *testing.T) {
	assert.Equal(t, defaultPricing["gpt-4o-mini"], ResolvePricing("gpt-4o-mini-2024-07-18"))
	assert.Equal(t, defaultPricing["gpt-4o"], ResolvePricing("gpt-4o-2024-08-06"))
	assert.Equal(t, defaultPricing["gemini-2.5-flash-lite"], ResolvePricing("models/gemini-2.5-flash-lite"))
	assert.Equal(t, Pricing{}, ResolvePricing("mistral-large-2407"))
}
