// Package starlark runs ImageJ-style macros written in Starlark.
package starlark

import (
	"fmt"
	"log/slog"

	"github.com/robbyt/go-ijmacro/engines/starlark/compiler"
	"github.com/robbyt/go-ijmacro/engines/starlark/evaluator"
	"github.com/robbyt/go-ijmacro/macro"
	"github.com/robbyt/go-ijmacro/platform"
	"github.com/robbyt/go-ijmacro/platform/constants"
	"github.com/robbyt/go-ijmacro/platform/data"
	"github.com/robbyt/go-ijmacro/platform/script"
	"github.com/robbyt/go-ijmacro/platform/script/loader"
)

// FromStarlarkLoader creates an evaluator whose input data is added at eval time with
// AddDataToContext. sessionOpts configure the macro session of every run.
func FromStarlarkLoader(
	logHandler slog.Handler,
	ldr loader.Loader,
	sessionOpts ...macro.Option,
) (*evaluator.Evaluator, error) {
	return NewEvaluator(
		logHandler,
		ldr,
		data.NewContextProvider(constants.EvalData),
		platform.NewSessionFactory(logHandler, sessionOpts...),
	)
}

// FromStarlarkLoaderWithData is FromStarlarkLoader with staticData available to every
// run. Runtime data wins over staticData on conflicts.
func FromStarlarkLoaderWithData(
	logHandler slog.Handler,
	ldr loader.Loader,
	staticData map[string]any,
	sessionOpts ...macro.Option,
) (*evaluator.Evaluator, error) {
	provider := data.NewCompositeProvider(
		data.NewStaticProvider(staticData),
		data.NewContextProvider(constants.EvalData),
	)
	return NewEvaluator(
		logHandler,
		ldr,
		provider,
		platform.NewSessionFactory(logHandler, sessionOpts...),
	)
}

// NewCompiler creates a Starlark compiler.
func NewCompiler(opts ...compiler.FunctionalOption) (*compiler.Compiler, error) {
	return compiler.New(opts...)
}

// NewEvaluator compiles the script from ldr and returns an evaluator ready to run it.
func NewEvaluator(
	logHandler slog.Handler,
	ldr loader.Loader,
	dataProvider data.Provider,
	factory platform.SessionFactory,
) (*evaluator.Evaluator, error) {
	var compilerOpts []compiler.FunctionalOption
	if logHandler != nil {
		compilerOpts = append(compilerOpts, compiler.WithLogHandler(logHandler))
	}
	c, err := NewCompiler(compilerOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Starlark compiler: %w", err)
	}

	execUnit, err := script.NewExecutableUnit(logHandler, "", ldr, c, dataProvider)
	if err != nil {
		return nil, fmt.Errorf("failed to create executable unit: %w", err)
	}

	return evaluator.New(logHandler, execUnit, factory), nil
}
