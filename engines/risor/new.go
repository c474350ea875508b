// Package risor runs ImageJ-style macros written in Risor.
package risor

import (
	"fmt"
	"log/slog"

	"github.com/robbyt/go-ijmacro/engines/risor/compiler"
	"github.com/robbyt/go-ijmacro/engines/risor/evaluator"
	"github.com/robbyt/go-ijmacro/macro"
	"github.com/robbyt/go-ijmacro/platform"
	"github.com/robbyt/go-ijmacro/platform/constants"
	"github.com/robbyt/go-ijmacro/platform/data"
	"github.com/robbyt/go-ijmacro/platform/script"
	"github.com/robbyt/go-ijmacro/platform/script/loader"
)

// FromRisorLoader creates an evaluator whose input data is added at eval time.
func FromRisorLoader(
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

// FromRisorLoaderWithData is FromRisorLoader with staticData available to every run.
func FromRisorLoaderWithData(
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

// NewCompiler creates a Risor compiler.
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
		return nil, fmt.Errorf("failed to create Risor compiler: %w", err)
	}

	execUnit, err := script.NewExecutableUnit(logHandler, "", ldr, c, dataProvider)
	if err != nil {
		return nil, fmt.Errorf("failed to create executable unit: %w", err)
	}
	return evaluator.New(logHandler, execUnit, factory), nil
}
