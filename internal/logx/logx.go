package logx

import (
	"context"

	"pkt.systems/inkline/schema"
	"pkt.systems/pslog"
)

type contextKey int

const providerKey contextKey = iota

// Ctx returns the logger bound to the provided context.
func Ctx(ctx context.Context) pslog.Logger {
	return pslog.Ctx(ctx)
}

// WithProvider annotates the logger with the provider id if present.
func WithProvider(ctx context.Context, providerID schema.ProviderID) pslog.Logger {
	log := pslog.Ctx(ctx)
	if providerID != "" {
		if current, ok := ctx.Value(providerKey).(schema.ProviderID); ok && current == providerID {
			return log
		}
		log = log.With("provider", providerID)
	}
	return log
}

// WithModel annotates the logger with a model id when available.
func WithModel(log pslog.Logger, modelID schema.ModelID) pslog.Logger {
	if modelID != "" {
		log = log.With("model", modelID)
	}
	return log
}

// ContextWithProvider stores the provider marker on the context for log de-duplication.
func ContextWithProvider(ctx context.Context, providerID schema.ProviderID) context.Context {
	if ctx == nil || providerID == "" {
		return ctx
	}
	return context.WithValue(ctx, providerKey, providerID)
}

// ContextWithProviderLogger attaches the logger and provider marker to the context.
func ContextWithProviderLogger(ctx context.Context, log pslog.Logger, providerID schema.ProviderID) context.Context {
	ctx = pslog.ContextWithLogger(ctx, log)
	return ContextWithProvider(ctx, providerID)
}
