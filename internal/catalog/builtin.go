package catalog

// Builtin returns the default curated lineup of OpenRouter vision models for
// structured data extraction. Prices as of 2026-02.
func Builtin() *Catalog {
	return New([]Model{
		// free
		{ID: "mistralai/mistral-small-3.1-24b-instruct:free", Name: "Mistral Small 3.1 24B", Provider: "mistralai", Tier: TierFree, ContextWindow: 128_000, SupportsVision: true},
		{ID: "google/gemma-3-27b-it:free", Name: "Gemma 3 27B", Provider: "google", Tier: TierFree, ContextWindow: 131_072, SupportsVision: true},
		{ID: "google/gemma-3-12b-it:free", Name: "Gemma 3 12B", Provider: "google", Tier: TierFree, ContextWindow: 32_768, SupportsVision: true},

		// budget
		{ID: "openai/gpt-5-nano", Name: "GPT-5 Nano", Provider: "openai", Tier: TierBudget, InputCostPer1M: 0.05, OutputCostPer1M: 0.4, ContextWindow: 400_000, SupportsVision: true, SupportsPDF: true},
		{ID: "google/gemini-2.0-flash-001", Name: "Gemini 2.0 Flash", Provider: "google", Tier: TierBudget, InputCostPer1M: 0.1, OutputCostPer1M: 0.4, ContextWindow: 1_048_576, SupportsVision: true, SupportsPDF: true},
		{ID: "openai/gpt-4.1-nano", Name: "GPT-4.1 Nano", Provider: "openai", Tier: TierBudget, InputCostPer1M: 0.1, OutputCostPer1M: 0.4, ContextWindow: 1_047_576, SupportsVision: true, SupportsPDF: true},
		{ID: "qwen/qwen2.5-vl-72b-instruct", Name: "Qwen 2.5 VL 72B Instruct", Provider: "qwen", Tier: TierBudget, InputCostPer1M: 0.15, OutputCostPer1M: 0.6, ContextWindow: 32_768, SupportsVision: true},
		{ID: "meta-llama/llama-4-maverick", Name: "Llama 4 Maverick", Provider: "meta-llama", Tier: TierBudget, InputCostPer1M: 0.15, OutputCostPer1M: 0.6, ContextWindow: 1_048_576, SupportsVision: true},
		{ID: "openai/gpt-5-mini", Name: "GPT-5 Mini", Provider: "openai", Tier: TierBudget, InputCostPer1M: 0.25, OutputCostPer1M: 2.0, ContextWindow: 400_000, SupportsVision: true, SupportsPDF: true},
		{ID: "google/gemini-2.5-flash", Name: "Gemini 2.5 Flash", Provider: "google", Tier: TierBudget, InputCostPer1M: 0.3, OutputCostPer1M: 2.5, ContextWindow: 1_048_576, SupportsVision: true, SupportsPDF: true},
		{ID: "openai/gpt-4.1-mini", Name: "GPT-4.1 Mini", Provider: "openai", Tier: TierBudget, InputCostPer1M: 0.4, OutputCostPer1M: 1.6, ContextWindow: 1_047_576, SupportsVision: true, SupportsPDF: true},

		// mid
		{ID: "anthropic/claude-haiku-4.5", Name: "Claude Haiku 4.5", Provider: "anthropic", Tier: TierMid, InputCostPer1M: 1.0, OutputCostPer1M: 5.0, ContextWindow: 200_000, SupportsVision: true},
		{ID: "google/gemini-2.5-pro", Name: "Gemini 2.5 Pro", Provider: "google", Tier: TierMid, InputCostPer1M: 1.25, OutputCostPer1M: 10.0, ContextWindow: 1_048_576, SupportsVision: true, SupportsPDF: true},
		{ID: "openai/gpt-5", Name: "GPT-5", Provider: "openai", Tier: TierMid, InputCostPer1M: 1.25, OutputCostPer1M: 10.0, ContextWindow: 400_000, SupportsVision: true, SupportsPDF: true},
		{ID: "openai/gpt-5.1", Name: "GPT-5.1", Provider: "openai", Tier: TierMid, InputCostPer1M: 1.25, OutputCostPer1M: 10.0, ContextWindow: 400_000, SupportsVision: true, SupportsPDF: true},

		// premium
		{ID: "anthropic/claude-sonnet-4.5", Name: "Claude Sonnet 4.5", Provider: "anthropic", Tier: TierPremium, InputCostPer1M: 3.0, OutputCostPer1M: 15.0, ContextWindow: 1_000_000, SupportsVision: true, SupportsPDF: true},
		{ID: "x-ai/grok-4", Name: "Grok 4", Provider: "x-ai", Tier: TierPremium, InputCostPer1M: 3.0, OutputCostPer1M: 15.0, ContextWindow: 256_000, SupportsVision: true},

		// ultra
		{ID: "openai/gpt-5-pro", Name: "GPT-5 Pro", Provider: "openai", Tier: TierUltra, InputCostPer1M: 15.0, OutputCostPer1M: 120.0, ContextWindow: 400_000, SupportsVision: true, SupportsPDF: true},
		{ID: "anthropic/claude-opus-4", Name: "Claude Opus 4", Provider: "anthropic", Tier: TierUltra, InputCostPer1M: 15.0, OutputCostPer1M: 75.0, ContextWindow: 200_000, SupportsVision: true, SupportsPDF: true},
	})
}
