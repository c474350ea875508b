// Package evaluator runs compiled Starlark macros. Each Eval gets its own macro
// session, so the image list, the log window and the dialog slot never leak between
// runs.
package evaluator

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"time"

	starlarkLib "go.starlark.net/starlark"

	"github.com/robbyt/go-ijmacro/engines/bindings"
	"github.com/robbyt/go-ijmacro/engines/starlark/internal"
	"github.com/robbyt/go-ijmacro/internal/helpers"
	"github.com/robbyt/go-ijmacro/macro"
	"github.com/robbyt/go-ijmacro/platform"
	"github.com/robbyt/go-ijmacro/platform/data"
	"github.com/robbyt/go-ijmacro/platform/script"
)

// Evaluator evaluates an ExecutableUnit on the Starlark engine.
type Evaluator struct {
	// universe holds the standard modules shared by every run
	universe starlarkLib.StringDict

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
	handler, logger := helpers.SetupLogger(handler, "starlark", "Evaluator")
	if factory == nil {
		factory = platform.NewSessionFactory(handler)
	}

	return &Evaluator{
		universe:   internal.StarlarkModules(),
		execUnit:   execUnit,
		newSession: factory,
		logHandler: handler,
		logger:     logger,
	}
}

func (be *Evaluator) String() string {
	return "starlark.Evaluator"
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

// prepareGlobals layers the universe, the macro surface and the ctx dict, in that
// order.
func (be *Evaluator) prepareGlobals(
	session *macro.Session,
	input starlarkLib.StringDict,
) (starlarkLib.StringDict, error) {
	surface, err := internal.SurfaceGlobals(bindings.New(session))
	if err != nil {
		return nil, err
	}

	merged := make(starlarkLib.StringDict, len(be.universe)+len(surface)+len(input))
	maps.Copy(merged, be.universe)
	maps.Copy(merged, surface)
	maps.Copy(merged, input)
	return merged, nil
}

func (be *Evaluator) newThread(ctx context.Context, name string, session *macro.Session) *starlarkLib.Thread {
	logger := be.logger.WithGroup("thread")
	thread := &starlarkLib.Thread{
		Name: name,
		Print: func(_ *starlarkLib.Thread, msg string) {
			if err := session.Print(msg); err != nil {
				logger.WarnContext(ctx, "print failed", "error", err)
			}
		},
	}
	internal.SetContext(thread, ctx)
	return thread
}

// exec runs prog. The result is the value of "_" or, when that is None, of "result".
func (be *Evaluator) exec(
	ctx context.Context,
	prog *starlarkLib.Program,
	session *macro.Session,
	globals starlarkLib.StringDict,
) (starlarkLib.Value, time.Duration, error) {
	logger := be.logger.WithGroup("exec")
	startTime := time.Now()

	thread := be.newThread(ctx, "eval", session)
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			thread.Cancel(ctx.Err().Error())
		case <-done:
		}
	}()

	finalGlobals, err := prog.Init(thread, globals)
	execTime := time.Since(startTime)
	if err != nil {
		return nil, execTime, fmt.Errorf("%w: %w", ErrExecFailed, err)
	}

	mainVal := finalGlobals["_"]
	if mainVal == nil {
		mainVal = starlarkLib.None
	}
	if mainVal == starlarkLib.None {
		if resultVal, ok := finalGlobals["result"]; ok {
			logger.DebugContext(ctx, "found explicit result variable", "result", resultVal)
			mainVal = resultVal
		}
	}

	// A callable result is invoked with no arguments, e.g. result = main.
	if callable, ok := mainVal.(starlarkLib.Callable); ok {
		val, err := starlarkLib.Call(be.newThread(ctx, "func", session), callable, nil, nil)
		execTime = time.Since(startTime)
		if err != nil {
			return nil, execTime, fmt.Errorf("%w: calling %s: %w", ErrExecFailed, callable.Name(), err)
		}
		val.Freeze()
		mainVal = val
	}
	return mainVal, execTime, nil
}

// Eval runs the compiled script on a new macro session. Input data becomes the ctx
// dict; the session is shut down before Eval returns.
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
	prog, ok := bytecode.(*starlarkLib.Program)
	if !ok || prog == nil {
		return nil, fmt.Errorf("%w: expected *starlark.Program, got %T", ErrInvalidBytecode, bytecode)
	}

	rawInputData, err := be.loadInputData(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get input data: %w", err)
	}
	input, err := internal.ConvertToStarlarkFormat(rawInputData)
	if err != nil {
		return nil, fmt.Errorf("failed to convert input data: %w", err)
	}

	session, err := be.newSession(ctx, rawInputData)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSessionFailed, err)
	}
	defer func() {
		if err := session.Shutdown(context.WithoutCancel(ctx)); err != nil {
			logger.WarnContext(ctx, "session shutdown failed", "error", err)
		}
	}()

	globals, err := be.prepareGlobals(session, input)
	if err != nil {
		return nil, fmt.Errorf("failed to bind macro functions: %w", err)
	}

	val, execTime, err := be.exec(ctx, prog, session, globals)
	if err != nil {
		logger.DebugContext(ctx, "exec failed", "error", err)
		return nil, err
	}
	logger.DebugContext(ctx, "exec complete", "result", val, "execTime", execTime)
	return newEvalResult(be.logHandler, val, execTime, exeID, session.GetLog()), nil
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
