// Package internal converts between Go and Starlark values and exposes the macro
// surface as Starlark builtins.
package internal

import (
	"errors"
	"fmt"
	"math/big"
	"net/url"

	starlarkLib "go.starlark.net/starlark"

	"github.com/robbyt/go-ijmacro/engines/bindings"
	"github.com/robbyt/go-ijmacro/platform/constants"
)

// ConvertStarlarkValueToInterface converts a Starlark value to a Go value. Ints become
// int64, or float64 when they overflow; lists and tuples become []any.
func ConvertStarlarkValueToInterface(v starlarkLib.Value) (any, error) {
	if v == nil {
		return nil, nil
	}

	switch v := v.(type) {
	case starlarkLib.NoneType:
		return nil, nil
	case starlarkLib.Bool:
		return bool(v), nil
	case starlarkLib.Int:
		if i, ok := v.Int64(); ok {
			return i, nil
		}
		f, _ := new(big.Float).SetInt(v.BigInt()).Float64()
		return f, nil
	case starlarkLib.Float:
		return float64(v), nil
	case starlarkLib.String:
		return string(v), nil
	case *starlarkLib.List:
		return convertIterable(v, v.Len())
	case starlarkLib.Tuple:
		return convertIterable(v, v.Len())
	case *starlarkLib.Set:
		return convertIterable(v, v.Len())
	case *starlarkLib.Dict:
		dict := make(map[string]any, v.Len())
		for _, item := range v.Items() {
			k, val := item[0], item[1]
			kStr, ok := k.(starlarkLib.String)
			if !ok {
				kStr = starlarkLib.String(k.String())
			}
			vv, err := ConvertStarlarkValueToInterface(val)
			if err != nil {
				return nil, fmt.Errorf("failed to convert dict value: %w", err)
			}
			dict[string(kStr)] = vv
		}
		return dict, nil
	default:
		return nil, fmt.Errorf("unsupported Starlark type %T", v)
	}
}

func convertIterable(v starlarkLib.Iterable, n int) ([]any, error) {
	list := make([]any, 0, n)
	iter := v.Iterate()
	defer iter.Done()
	var elem starlarkLib.Value
	for iter.Next(&elem) {
		goVal, err := ConvertStarlarkValueToInterface(elem)
		if err != nil {
			return nil, fmt.Errorf("failed to convert list element: %w", err)
		}
		list = append(list, goVal)
	}
	return list, nil
}

// ConvertToStarlarkFormat wraps the input data in a ctx dict, the only global a script
// sees the evaluation data through.
func ConvertToStarlarkFormat(inputData map[string]any) (starlarkLib.StringDict, error) {
	ctxDict := starlarkLib.NewDict(len(inputData))

	var errz []error
	for k, v := range inputData {
		starlarkVal, err := ConvertToStarlarkValue(v)
		if err != nil {
			errz = append(errz, fmt.Errorf("failed to convert input value for key %q: %w", k, err))
			continue
		}
		if err := ctxDict.SetKey(starlarkLib.String(k), starlarkVal); err != nil {
			errz = append(errz, fmt.Errorf("failed to set ctx dict key %q: %w", k, err))
		}
	}
	if len(errz) > 0 {
		return nil, fmt.Errorf("failed to convert input data: %w", errors.Join(errz...))
	}

	return starlarkLib.StringDict{constants.Ctx: ctxDict}, nil
}

// ConvertToStarlarkValue converts a Go value to Starlark. bindings.Tuple becomes a
// tuple so scripts can unpack multi-value returns.
func ConvertToStarlarkValue(v any) (starlarkLib.Value, error) {
	if v == nil {
		return starlarkLib.None, nil
	}

	switch val := v.(type) {
	case starlarkLib.Value:
		return val, nil
	case bool:
		return starlarkLib.Bool(val), nil
	case int:
		return starlarkLib.MakeInt(val), nil
	case int64:
		return starlarkLib.MakeInt64(val), nil
	case float32:
		return starlarkLib.Float(val), nil
	case float64:
		return starlarkLib.Float(val), nil
	case string:
		return starlarkLib.String(val), nil
	case *url.URL:
		return starlarkLib.String(val.String()), nil
	case bindings.Tuple:
		elems, err := convertSlice(val)
		if err != nil {
			return nil, err
		}
		return starlarkLib.Tuple(elems), nil
	case []any:
		elems, err := convertSlice(val)
		if err != nil {
			return nil, err
		}
		return starlarkLib.NewList(elems), nil
	case []int:
		return listOf(val, func(i int) starlarkLib.Value { return starlarkLib.MakeInt(i) }), nil
	case []float64:
		return listOf(val, func(f float64) starlarkLib.Value { return starlarkLib.Float(f) }), nil
	case []string:
		return listOf(val, func(s string) starlarkLib.Value { return starlarkLib.String(s) }), nil
	case []bool:
		return listOf(val, func(b bool) starlarkLib.Value { return starlarkLib.Bool(b) }), nil
	case map[string]struct{}:
		set := starlarkLib.NewSet(len(val))
		for k := range val {
			if err := set.Insert(starlarkLib.String(k)); err != nil {
				return nil, fmt.Errorf("failed to insert set element: %w", err)
			}
		}
		return set, nil
	case map[string]any:
		dict := starlarkLib.NewDict(len(val))
		for k, v := range val {
			starlarkVal, err := ConvertToStarlarkValue(v)
			if err != nil {
				return nil, fmt.Errorf("failed to convert dict value: %w", err)
			}
			if err := dict.SetKey(starlarkLib.String(k), starlarkVal); err != nil {
				return nil, fmt.Errorf("failed to set dict key: %w", err)
			}
		}
		return dict, nil
	default:
		return nil, fmt.Errorf("unsupported type %T", v)
	}
}

func convertSlice(val []any) ([]starlarkLib.Value, error) {
	elems := make([]starlarkLib.Value, len(val))
	for i, elem := range val {
		var err error
		elems[i], err = ConvertToStarlarkValue(elem)
		if err != nil {
			return nil, fmt.Errorf("failed to convert list element: %w", err)
		}
	}
	return elems, nil
}

func listOf[T any](val []T, conv func(T) starlarkLib.Value) *starlarkLib.List {
	elems := make([]starlarkLib.Value, len(val))
	for i, v := range val {
		elems[i] = conv(v)
	}
	return starlarkLib.NewList(elems)
}
