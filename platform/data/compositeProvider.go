package data

import (
	"context"
	"errors"
	"fmt"
	"maps"
)

// CompositeProvider combines multiple providers, with later providers
// overriding values from earlier ones in the chain.
type CompositeProvider struct {
	providers []Provider
}

// NewCompositeProvider creates a provider that queries given providers in order.
func NewCompositeProvider(providers ...Provider) *CompositeProvider {
	return &CompositeProvider{
		providers: providers,
	}
}

// GetData merges the data of every provider, later ones winning. Nested maps are
// merged rather than replaced. The first provider error is returned.
func (p *CompositeProvider) GetData(ctx context.Context) (map[string]any, error) {
	result := make(map[string]any)
	for i, provider := range p.providers {
		if provider == nil {
			continue
		}
		d, err := provider.GetData(ctx)
		if err != nil {
			return nil, fmt.Errorf("error from provider %d: %w", i, err)
		}
		result = deepMerge(result, d)
	}
	return result, nil
}

// deepMerge returns src overlaid with dst. Maps present in both are merged
// recursively; any other value from dst replaces the one in src.
func deepMerge(src, dst map[string]any) map[string]any {
	result := maps.Clone(src)
	for k, dstVal := range dst {
		srcMap, srcIsMap := result[k].(map[string]any)
		dstMap, dstIsMap := dstVal.(map[string]any)
		if srcIsMap && dstIsMap {
			result[k] = deepMerge(srcMap, dstMap)
			continue
		}
		result[k] = dstVal
	}
	return result
}

// AddDataToContext hands the data to every provider in the chain. Static providers
// refuse runtime data; their refusal only counts as a failure when the chain holds
// nothing else. Otherwise an error is returned only when every other provider failed.
func (p *CompositeProvider) AddDataToContext(
	ctx context.Context,
	data ...map[string]any,
) (context.Context, error) {
	finalCtx := ctx
	var errs, staticErrs []error
	dynamic, succeeded := 0, 0

	for i, provider := range p.providers {
		if provider == nil {
			continue
		}
		_, isStatic := provider.(*StaticProvider)
		if !isStatic {
			dynamic++
		}

		nextCtx, err := provider.AddDataToContext(finalCtx, data...)
		switch {
		case err == nil:
			finalCtx = nextCtx
			succeeded++
		case isStatic && errors.Is(err, ErrStaticProviderNoRuntimeUpdates):
			staticErrs = append(staticErrs, fmt.Errorf("error from provider %d: %w", i, err))
		default:
			errs = append(errs, fmt.Errorf("error from provider %d: %w", i, err))
		}
	}

	if dynamic == 0 && len(staticErrs) > 0 {
		return ctx, errors.Join(staticErrs...)
	}
	if dynamic > 0 && succeeded == 0 && len(errs) > 0 {
		return ctx, errors.Join(errs...)
	}
	return finalCtx, nil
}
