package data

import (
	"context"
	"maps"
)

// StaticProvider returns a fixed map of data, e.g. the macro argument given when the
// evaluator was built. It never changes after creation.
type StaticProvider struct {
	data map[string]any
}

// NewStaticProvider creates a StaticProvider; a nil map is treated as empty.
func NewStaticProvider(data map[string]any) *StaticProvider {
	if data == nil {
		data = make(map[string]any)
	}
	return &StaticProvider{data: data}
}

// GetData returns a copy of the static data.
func (p *StaticProvider) GetData(context.Context) (map[string]any, error) {
	return maps.Clone(p.data), nil
}

// AddDataToContext always fails; static data is fixed at construction.
func (p *StaticProvider) AddDataToContext(
	ctx context.Context,
	_ ...map[string]any,
) (context.Context, error) {
	return ctx, ErrStaticProviderNoRuntimeUpdates
}
