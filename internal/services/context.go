package services

import (
	"context"
	"log/slog"
)

type contextKey string

const (
	releaseIDKey   contextKey = "release_id"
	distributorKey contextKey = "distributor_id"
	stageKey       contextKey = "stage"
)

// WithReleaseID annotates context with the internal release identifier.
func WithReleaseID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, releaseIDKey, id)
}

// ReleaseIDFromContext extracts the internal release identifier if present.
func ReleaseIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(releaseIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithDistributor annotates context with the target distributor identifier.
func WithDistributor(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, distributorKey, id)
}

// DistributorFromContext extracts the distributor identifier if present.
func DistributorFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(distributorKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithStage annotates context with the pipeline stage name.
func WithStage(ctx context.Context, stage string) context.Context {
	if stage == "" {
		return ctx
	}
	return context.WithValue(ctx, stageKey, stage)
}

// StageFromContext returns the stage name if present.
func StageFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(stageKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// ContextArgs collects the pipeline annotations present on the context as
// slog attributes, suitable for logger.With.
func ContextArgs(ctx context.Context) []any {
	var args []any
	if id, ok := ReleaseIDFromContext(ctx); ok {
		args = append(args, slog.String(string(releaseIDKey), id))
	}
	if id, ok := DistributorFromContext(ctx); ok {
		args = append(args, slog.String(string(distributorKey), id))
	}
	if stage, ok := StageFromContext(ctx); ok {
		args = append(args, slog.String(string(stageKey), stage))
	}
	return args
}
