package registry

// seedCatalog returns the providers written to a brand-new registry file.
// The model lists are a starting point; `inkline models refresh` replaces
// guesswork with whatever the provider actually advertises.
func seedCatalog() []providerRecord {
	return []providerRecord{
		{
			ID:      "anthropic",
			Name:    "Anthropic",
			BaseURL: "https://api.anthropic.com/v1",
			Models: []modelRecord{
				{ID: "claude-sonnet-4", Enabled: true, Selected: true},
				{ID: "claude-opus-4", Enabled: true},
			},
		},
		{
			ID:      "mistral",
			Name:    "Mistral",
			BaseURL: "https://api.mistral.ai/v1",
			Models: []modelRecord{
				{ID: "mistral-large-latest", Enabled: true, Selected: true},
				{ID: "mistral-small-latest", Enabled: true},
			},
		},
		{
			ID:      "openai",
			Name:    "OpenAI",
			BaseURL: "https://api.openai.com/v1",
			Models: []modelRecord{
				{ID: "gpt-4.1", Enabled: true, Selected: true},
				{ID: "gpt-4o", Enabled: true},
				{ID: "o3", Enabled: false},
			},
		},
	}
}
