package schema

// ProviderID identifies an upstream model provider.
type ProviderID string

// ModelID identifies a model offered by a provider.
type ModelID string

// ThemeName identifies a terminal color theme.
type ThemeName string
