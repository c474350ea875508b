package platform

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robbyt/go-ijmacro/macro"
	"github.com/robbyt/go-ijmacro/platform/constants"
)

// SessionFactory creates the macro session one evaluation runs against. input is the
// evaluation's data, as returned by the DataProvider.
type SessionFactory func(ctx context.Context, input map[string]any) (*macro.Session, error)

// NewSessionFactory returns a factory for sessions on a fresh in-memory host unless
// opts choose another. input["argument"] becomes the macro argument.
func NewSessionFactory(handler slog.Handler, opts ...macro.Option) SessionFactory {
	return func(_ context.Context, input map[string]any) (*macro.Session, error) {
		sessionOpts := make([]macro.Option, 0, len(opts)+2)
		if handler != nil {
			sessionOpts = append(sessionOpts, macro.WithLogHandler(handler))
		}
		if arg, ok := input[constants.Argument]; ok && arg != nil {
			s, isString := arg.(string)
			if !isString {
				s = fmt.Sprint(arg)
			}
			sessionOpts = append(sessionOpts, macro.WithArgument(s))
		}
		return macro.New(append(sessionOpts, opts...)...)
	}
}
