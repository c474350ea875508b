// Package platform defines the engine-neutral evaluation API: evaluators, their
// responses and the factory for the macro session each evaluation runs against.
package platform

import (
	"context"
	"fmt"

	"github.com/robbyt/go-ijmacro/platform/data"
)

// EvalOnly is the interface for the generic script evaluator.
type EvalOnly interface {
	// Eval runs the pre-compiled script against a fresh macro session. Input data is
	// read from ctx through the ExecutableUnit's DataProvider.
	Eval(ctx context.Context) (EvaluatorResponse, error)
}

// Evaluator combines evaluation with data preparation, so a caller can compile once
// and evaluate many times with different input.
type Evaluator interface {
	EvalOnly
	data.Setter
}

// EvalWith adds d to ctx and evaluates.
func EvalWith(ctx context.Context, e Evaluator, d ...map[string]any) (EvaluatorResponse, error) {
	if len(d) > 0 {
		var err error
		ctx, err = e.AddDataToContext(ctx, d...)
		if err != nil {
			return nil, fmt.Errorf("failed to add data to context: %w", err)
		}
	}
	return e.Eval(ctx)
}
