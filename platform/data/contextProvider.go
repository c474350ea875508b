package data

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"github.com/robbyt/go-ijmacro/platform/constants"
)

// ContextProvider retrieves and stores data in the context using a specified key.
type ContextProvider struct {
	contextKey constants.ContextKey
}

// NewContextProvider creates a new ContextProvider with the given context key.
func NewContextProvider(contextKey constants.ContextKey) *ContextProvider {
	return &ContextProvider{
		contextKey: contextKey,
	}
}

// GetData extracts data from the context using the configured context key.
func (p *ContextProvider) GetData(ctx context.Context) (map[string]any, error) {
	if p.contextKey == "" {
		return nil, ErrEmptyContextKey
	}

	value := ctx.Value(p.contextKey)
	if value == nil {
		return make(map[string]any), nil
	}

	d, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected map[string]any, got %T", ErrInvalidData, value)
	}
	return d, nil
}

// AddDataToContext merges the provided maps into the context. Nested maps are merged
// recursively and later values override earlier ones for duplicate keys.
func (p *ContextProvider) AddDataToContext(
	ctx context.Context,
	data ...map[string]any,
) (context.Context, error) {
	if p.contextKey == "" {
		return ctx, ErrEmptyContextKey
	}

	var errz []error
	toStore := make(map[string]any)

	if existing, ok := ctx.Value(p.contextKey).(map[string]any); ok {
		maps.Copy(toStore, existing)
	}

	for _, dataMap := range data {
		for key, value := range dataMap {
			if key == "" {
				errz = append(errz, ErrEmptyKey)
				continue
			}
			processed, err := processValue(value)
			if err != nil {
				errz = append(errz, fmt.Errorf("processing value for key '%s': %w", key, err))
				continue
			}
			mergeIntoMap(toStore, key, processed)
		}
	}

	return context.WithValue(ctx, p.contextKey, toStore), errors.Join(errz...)
}

// processValue copies nested maps so the stored data does not alias the caller's maps.
func processValue(value any) (any, error) {
	m, ok := value.(map[string]any)
	if !ok {
		return value, nil
	}
	result := make(map[string]any, len(m))
	for k, val := range m {
		if k == "" {
			return nil, fmt.Errorf("%w in nested maps", ErrEmptyKey)
		}
		processed, err := processValue(val)
		if err != nil {
			return nil, fmt.Errorf("processing nested value for key '%s': %w", k, err)
		}
		result[k] = processed
	}
	return result, nil
}

// mergeIntoMap recursively merges value into target[key].
func mergeIntoMap(target map[string]any, key string, value any) {
	if newMap, ok := value.(map[string]any); ok {
		if existingMap, ok := target[key].(map[string]any); ok {
			merged := maps.Clone(existingMap)
			for k, v := range newMap {
				mergeIntoMap(merged, k, v)
			}
			target[key] = merged
			return
		}
	}
	target[key] = value
}
