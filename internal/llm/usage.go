package llm

import (
	"strings"
	"sync"

	"github.com/shopspring/decimal"
)

// Usage counts the tokens of one completion.
type Usage struct {
	PromptTokens     int64
	CompletionTokens int64
}

// pricing in dollars per million tokens.
type pricing struct {
	input  decimal.Decimal
	output decimal.Decimal
}

var modelPricing = map[string]pricing{
	"gpt-4o":        {input: decimal.RequireFromString("2.50"), output: decimal.RequireFromString("10.00")},
	"gpt-4o-mini":   {input: decimal.RequireFromString("0.15"), output: decimal.RequireFromString("0.60")},
	"gpt-4-turbo":   {input: decimal.RequireFromString("10.00"), output: decimal.RequireFromString("30.00")},
	"gpt-3.5-turbo": {input: decimal.RequireFromString("0.50"), output: decimal.RequireFromString("1.50")},
}

var oneMillion = decimal.NewFromInt(1_000_000)

// Cost of this usage for the given model. Models without pricing information
// cost zero rather than erroring; cost display is advisory only.
func (u Usage) Cost(model string) decimal.Decimal {
	p, ok := modelPricing[model]
	if !ok {
		// Match dated variants such as gpt-4o-2024-08-06. The longest
		// prefix wins so gpt-4o-mini never resolves to gpt-4o pricing.
		longest := 0
		for id, candidate := range modelPricing {
			if strings.HasPrefix(model, id) && len(id) > longest {
				p = candidate
				ok = true
				longest = len(id)
			}
		}
	}
	if !ok {
		return decimal.Zero
	}
	promptCost := p.input.Mul(decimal.NewFromInt(u.PromptTokens)).Div(oneMillion)
	completionCost := p.output.Mul(decimal.NewFromInt(u.CompletionTokens)).Div(oneMillion)
	return promptCost.Add(completionCost)
}

// Meter accumulates usage across the calls of one session.
type Meter struct {
	mu    sync.Mutex
	model string
	usage Usage
}

// NewMeter for the given model.
func NewMeter(model string) *Meter {
	return &Meter{model: model}
}

// Record one completion's usage.
func (m *Meter) Record(usage Usage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.usage.PromptTokens += usage.PromptTokens
	m.usage.CompletionTokens += usage.CompletionTokens
}

// Total tokens and cost so far.
func (m *Meter) Total() (Usage, decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.usage, m.usage.Cost(m.model)
}
