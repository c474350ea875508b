package data

import (
	"context"
	"fmt"
	"log/slog"
)

// AddDataToContextHelper implements AddDataToContext for the engine evaluators, so they
// all report a missing provider and wrap provider errors the same way.
func AddDataToContextHelper(
	ctx context.Context,
	logger *slog.Logger,
	provider Provider,
	d ...map[string]any,
) (context.Context, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if provider == nil {
		logger.WarnContext(ctx, "no data provider available for context preparation")
		return ctx, ErrNoProvider
	}

	enrichedCtx, err := provider.AddDataToContext(ctx, d...)
	if err != nil {
		return ctx, fmt.Errorf("failed to prepare context: %w", err)
	}
	return enrichedCtx, nil
}
