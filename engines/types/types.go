// Package types names the script engines a macro can run on.
package types

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Type is a script engine name.
type Type string

const (
	// Starlark engine: https://github.com/google/starlark-go
	Starlark Type = "starlark"

	// Risor engine: https://github.com/risor-io/risor
	Risor Type = "risor"
)

func (t Type) String() string { return string(t) }

// Parse returns the engine named s, ignoring case.
func Parse(s string) (Type, error) {
	switch Type(strings.ToLower(strings.TrimSpace(s))) {
	case Starlark:
		return Starlark, nil
	case Risor:
		return Risor, nil
	}
	return "", fmt.Errorf("unknown engine %q", s)
}

// FromExtension picks the engine from a script file name: .star and .py run on
// Starlark, .risor and .rsr on Risor.
func FromExtension(path string) (Type, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".star", ".starlark", ".py":
		return Starlark, nil
	case ".risor", ".rsr":
		return Risor, nil
	}
	return "", fmt.Errorf("no engine for file extension %q", filepath.Ext(path))
}
