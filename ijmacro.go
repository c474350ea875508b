// Package ijmacro runs ImageJ-style macros written in Starlark or Risor against a
// macro session: images, ROIs, results tables, dialogs, curve fitting and extensions.
//
// Compile once, evaluate many times:
//
//	e, err := ijmacro.FromStarlarkString(`newImage("ramp", "8-bit ramp", 256, 256)
//	print(getPixel(128, 0))`)
//	resp, err := e.Eval(ctx)
//	fmt.Print(resp.GetLog())
package ijmacro

import (
	"fmt"

	"github.com/robbyt/go-ijmacro/engines/risor"
	"github.com/robbyt/go-ijmacro/engines/starlark"
	engineTypes "github.com/robbyt/go-ijmacro/engines/types"
	"github.com/robbyt/go-ijmacro/options"
	"github.com/robbyt/go-ijmacro/platform"
	"github.com/robbyt/go-ijmacro/platform/script/loader"
)

// NewEvaluator builds an evaluator from opts; options.WithLoader and
// options.WithEngine are required.
func NewEvaluator(opts ...options.Option) (platform.Evaluator, error) {
	cfg := &options.Config{}
	return build(cfg, opts...)
}

// NewStarlarkEvaluator builds a Starlark evaluator; options.WithLoader is required.
func NewStarlarkEvaluator(opts ...options.Option) (platform.Evaluator, error) {
	return build(options.DefaultConfig(engineTypes.Starlark), opts...)
}

// NewRisorEvaluator builds a Risor evaluator; options.WithLoader is required.
func NewRisorEvaluator(opts ...options.Option) (platform.Evaluator, error) {
	return build(options.DefaultConfig(engineTypes.Risor), opts...)
}

func build(cfg *options.Config, opts ...options.Option) (platform.Evaluator, error) {
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, fmt.Errorf("error applying option: %w", err)
		}
	}
	if err := options.WithDefaults()(cfg); err != nil {
		return nil, fmt.Errorf("error applying defaults: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return createEvaluator(cfg)
}

func createEvaluator(cfg *options.Config) (platform.Evaluator, error) {
	factory := platform.NewSessionFactory(cfg.GetHandler(), cfg.GetSessionOptions()...)
	switch cfg.GetEngine() {
	case engineTypes.Starlark:
		return starlark.NewEvaluator(cfg.GetHandler(), cfg.GetLoader(), cfg.GetDataProvider(), factory)
	case engineTypes.Risor:
		return risor.NewEvaluator(cfg.GetHandler(), cfg.GetLoader(), cfg.GetDataProvider(), factory)
	default:
		return nil, fmt.Errorf("%w: %q", options.ErrNoEngine, cfg.GetEngine())
	}
}

// FromStarlarkString compiles a Starlark macro.
func FromStarlarkString(content string, opts ...options.Option) (platform.Evaluator, error) {
	l, err := loader.NewFromString(content)
	if err != nil {
		return nil, err
	}
	return NewStarlarkEvaluator(append([]options.Option{options.WithLoader(l)}, opts...)...)
}

// FromRisorString compiles a Risor macro.
func FromRisorString(content string, opts ...options.Option) (platform.Evaluator, error) {
	l, err := loader.NewFromString(content)
	if err != nil {
		return nil, err
	}
	return NewRisorEvaluator(append([]options.Option{options.WithLoader(l)}, opts...)...)
}

// FromScriptFile compiles the macro at the absolute path filePath. The engine comes
// from the file extension unless opts set one with options.WithEngine.
func FromScriptFile(filePath string, opts ...options.Option) (platform.Evaluator, error) {
	l, err := loader.NewFromDisk(filePath)
	if err != nil {
		return nil, err
	}
	cfg := &options.Config{}
	if engine, err := engineTypes.FromExtension(filePath); err == nil {
		cfg = options.DefaultConfig(engine)
	}
	return build(cfg, append([]options.Option{options.WithLoader(l)}, opts...)...)
}
