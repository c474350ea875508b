// Package internal converts between Go and Risor values and exposes the macro surface
// as Risor builtins.
package internal

import (
	"slices"

	risorLib "github.com/risor-io/risor"

	"github.com/robbyt/go-ijmacro/engines/bindings"
	"github.com/robbyt/go-ijmacro/platform/constants"
)

// Literals that cannot be bound as globals. Scripts use Risor's own true, false and nil.
var keywords = []string{"true", "false", "nil"}

// MacroGlobalNames returns the macro surface names Risor can bind, plus ctx.
func MacroGlobalNames() []string {
	names := slices.DeleteFunc(bindings.GlobalNames(), func(n string) bool {
		return slices.Contains(keywords, n)
	})
	return append(names, constants.Ctx)
}

// GlobalNames returns Risor's default globals merged with extra, without duplicates.
// Macro functions named like a Risor builtin (print, close, call) replace it.
func GlobalNames(extra []string) []string {
	names := append(risorLib.NewConfig().GlobalNames(), extra...)
	slices.Sort(names)
	return slices.Compact(names)
}
