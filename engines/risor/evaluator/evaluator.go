// Package evaluator runs compiled Risor macros, each on its own macro session.
package evaluator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	risorLib "github.com/risor-io/risor"
	risorCompiler "github.com/risor-io/risor/compiler"

	"github.com/robbyt/go-ijmacro/engines/bindings"
	"github.com/robbyt/go-ijmacro/engines/risor/internal"
	"github.com/robbyt/go-ijmacro/internal/helpers"
	"github.com/robbyt/go-ijmacro/macro"
	"github.com/robbyt/go-ijmacro/platform"
	"github.com/robbyt/go-ijmacro/platform/constants"
	"github.com/robbyt/go-ijmacro/platform/data"
	"github.com/robbyt/go-ijmacro/platform/script"
)

// Evaluator evaluates an ExecutableUnit on the Risor engine.
type Evaluator struct {
	// ctxKey is the global the input data is visible under
	ctxKey string

	execUnit   *script.ExecutableUnit
	newSession platform.SessionFactory

	logHandler slog.Handler
	logger     *slog.Logger
}

// New creates an Evaluator. A nil factory runs every evaluation on a fresh in-memory
// host.
func New(
	handler slog.Handler,
	execUnit *script.ExecutableUnit,
	factory platform.SessionFactory,
) *Evaluator {
	handler, logger := helpers.SetupLogger(handler, "risor", "Evaluator")
	if factory == nil {
		factory = platform.NewSessionFactory(handler)
	}
	return &Evaluator{
		ctxKey:     constants.Ctx,
		execUnit:   execUnit,
		newSession: factory,
		logHandler: handler,
		logger:     logger,
	}
}

func (be *Evaluator) String() string {
	return "risor.Evaluator"
}

func (be *Evaluator) loadInputData(ctx context.Context) (map[string]any, error) {
	logger := be.logger.WithGroup("loadInputData")

	if be.execUnit == nil || be.execUnit.GetDataProvider() == nil {
		logger.WarnContext(ctx, "no data provider available, using empty data")
		return make(map[string]any), nil
	}

	inputData, err := be.execUnit.GetDataProvider().GetData(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to get input data from provider", "error", err)
		return nil, err
	}
	logger.DebugContext(ctx, "input data loaded from provider", "inputData", inputData)
	return inputData, nil
}

// options binds the macro surface of session and the ctx global.
func (be *Evaluator) options(session *macro.Session, input map[string]any) ([]risorLib.Option, error) {
	surface, err := internal.SurfaceGlobals(bindings.New(session))
	if err != nil {
		return nil, err
	}
	opts := make([]risorLib.Option, 0, len(surface)+1)
	for name, value := range surface {
		opts = append(opts, risorLib.WithGlobal(name, value))
	}
	return append(opts, internal.ConvertToRisorOptions(be.ctxKey, input)...), nil
}

// Eval runs the compiled script on a new macro session. The session is shut down
// before Eval returns.
func (be *Evaluator) Eval(ctx context.Context) (platform.EvaluatorResponse, error) {
	logger := be.logger.WithGroup("Eval")
	if be.execUnit == nil {
		return nil, ErrNilExecUnit
	}
	if be.execUnit.GetContent() == nil {
		return nil, ErrNilContent
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecFailed, err)
	}

	exeID := be.execUnit.GetID()
	logger = logger.With("exeID", exeID)

	bytecode := be.execUnit.GetContent().GetByteCode()
	code, ok := bytecode.(*risorCompiler.Code)
	if !ok || code == nil {
		return nil, fmt.Errorf("%w: expected *compiler.Code, got %T", ErrInvalidBytecode, bytecode)
	}

	input, err := be.loadInputData(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get input data: %w", err)
	}

	session, err := be.newSession(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSessionFailed, err)
	}
	defer func() {
		if err := session.Shutdown(context.WithoutCancel(ctx)); err != nil {
			logger.WarnContext(ctx, "session shutdown failed", "error", err)
		}
	}()

	opts, err := be.options(session, input)
	if err != nil {
		return nil, fmt.Errorf("failed to bind macro functions: %w", err)
	}

	startTime := time.Now()
	obj, err := risorLib.EvalCode(ctx, code, opts...)
	execTime := time.Since(startTime)
	if err != nil {
		logger.DebugContext(ctx, "exec failed", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrExecFailed, err)
	}

	result := newEvalResult(be.logHandler, obj, execTime, exeID, session.GetLog())
	logger.DebugContext(ctx, "exec complete", "result", result)

	switch result.Object.Type() {
	case "error":
		return result, fmt.Errorf("%w: %s", ErrScriptError, result.Inspect())
	case "function":
		return result, fmt.Errorf("%w: %s", ErrFunctionResult, result.Inspect())
	}
	return result, nil
}

// AddDataToContext stores input data for a later Eval through the unit's provider.
func (be *Evaluator) AddDataToContext(
	ctx context.Context,
	d ...map[string]any,
) (context.Context, error) {
	logger := be.logger.WithGroup("AddDataToContext")
	if be.execUnit == nil || be.execUnit.GetDataProvider() == nil {
		return ctx, ErrNoDataProvider
	}
	return data.AddDataToContextHelper(ctx, logger, be.execUnit.GetDataProvider(), d...)
}
