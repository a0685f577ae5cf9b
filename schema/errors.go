package schema

import "errors"

var (
	// ErrInvalidProvider indicates an invalid provider identifier.
	ErrInvalidProvider = errors.New("invalid provider")
	// ErrInvalidModel indicates an invalid model identifier.
	ErrInvalidModel = errors.New("invalid model")
	// ErrProviderNotFound indicates a provider could not be found.
	ErrProviderNotFound = errors.New("provider not found")
	// ErrProviderExists indicates a provider already exists.
	ErrProviderExists = errors.New("provider already exists")
	// ErrModelNotFound indicates a model could not be found.
	ErrModelNotFound = errors.New("model not found")
	// ErrAPIKeyNotFound indicates no API key is stored for the provider.
	ErrAPIKeyNotFound = errors.New("api key not found")
)
