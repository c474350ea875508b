package data

import "context"

// Setter stores input data for a later run, e.g. map[string]any{"argument": "blobs.gif"}
// before Eval. Evaluators implement it by delegating to their Provider.
type Setter interface {
	AddDataToContext(ctx context.Context, d ...map[string]any) (context.Context, error)
}

// Provider supplies the input data of a macro run, exposed to scripts as ctx and read
// by getArgument(). Static providers refuse AddDataToContext with
// ErrStaticProviderNoRuntimeUpdates.
type Provider interface {
	Setter

	// GetData returns the data for the run carried by ctx, merged over any defaults.
	GetData(ctx context.Context) (map[string]any, error)
}
