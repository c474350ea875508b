// Package mocks holds testify mocks of the platform evaluator interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/robbyt/go-ijmacro/platform"
)

// Evaluator is a mock of platform.Evaluator.
type Evaluator struct {
	mock.Mock
}

func (m *Evaluator) Eval(ctx context.Context) (platform.EvaluatorResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(platform.EvaluatorResponse), args.Error(1)
}

func (m *Evaluator) AddDataToContext(ctx context.Context, d ...map[string]any) (context.Context, error) {
	args := m.Called(ctx, d)
	return args.Get(0).(context.Context), args.Error(1)
}
