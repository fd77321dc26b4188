package core

// TokenUsage captures token consumption for one model call.
type TokenUsage struct {
	InputTokens      int `json:"input_tokens"`
	OutputTokens     int `json:"output_tokens"`
	TotalTokens      int `json:"total_tokens"`
	CacheReadTokens  int `json:"cache_read_tokens,omitempty"`
	CacheWriteTokens int `json:"cache_write_tokens,omitempty"`
}

// Usage is the cumulative token usage of a whole orchestration invocation
// plus the per-cycle breakdown it was folded from.
type Usage struct {
	TokenUsage
	Cycles []TokenUsage `json:"cycles,omitempty"`
}

// AggregateUsage folds per-cycle usage records into one cumulative total,
// retaining the per-cycle breakdown. Pure summation; deterministic and
// idempotent for the same input.
func AggregateUsage(records []TokenUsage) Usage {
	usage := Usage{Cycles: append([]TokenUsage(nil), records...)}
	for _, r := range records {
		usage.InputTokens += r.InputTokens
		usage.OutputTokens += r.OutputTokens
		usage.TotalTokens += r.TotalTokens
		usage.CacheReadTokens += r.CacheReadTokens
		usage.CacheWriteTokens += r.CacheWriteTokens
	}
	return usage
}
