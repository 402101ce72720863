package llm

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestUsageCost(t *testing.T) {
	usage := Usage{PromptTokens: 1_000_000, CompletionTokens: 500_000}
	assert.True(t, usage.Cost("gpt-4o").Equal(decimal.RequireFromString("7.50")))

	// Dated variants resolve by longest prefix.
	assert.True(t, usage.Cost("gpt-4o-2024-08-06").Equal(decimal.RequireFromString("7.50")))
	assert.True(t, usage.Cost("gpt-4o-mini-2024-07-18").Equal(decimal.RequireFromString("0.45")))

	// Unknown models are free rather than an error.
	assert.True(t, usage.Cost("some-local-model").Equal(decimal.Zero))
}

func TestMeter(t *testing.T) {
	meter := NewMeter("gpt-4o")
	meter.Record(Usage{PromptTokens: 100, CompletionTokens: 50})
	meter.Record(Usage{PromptTokens: 25, CompletionTokens: 10})

	usage, cost := meter.Total()
	assert.Equal(t, int64(125), usage.PromptTokens)
	assert.Equal(t, int64(60), usage.CompletionTokens)
	assert.True(t, cost.GreaterThan(decimal.Zero))
}
