package internal

import (
	"fmt"

	risorLib "github.com/risor-io/risor"
	"github.com/risor-io/risor/object"

	"github.com/robbyt/go-ijmacro/engines/bindings"
)

// ConvertToRisorOptions wraps the input data in a single ctx global, e.g.
// {"argument": "blobs.gif"} becomes ctx["argument"] inside the script.
func ConvertToRisorOptions(ctxKey string, inputData map[string]any) []risorLib.Option {
	return []risorLib.Option{
		risorLib.WithGlobal(ctxKey, inputData),
	}
}

// ToObject converts a Go value returned by the macro surface into a Risor object.
// Risor has no tuple type, so bindings.Tuple becomes a list.
func ToObject(v any) (object.Object, error) {
	switch val := v.(type) {
	case nil:
		return object.Nil, nil
	case object.Object:
		return val, nil
	case bool:
		return object.NewBool(val), nil
	case int:
		return object.NewInt(int64(val)), nil
	case int64:
		return object.NewInt(val), nil
	case float32:
		return object.NewFloat(float64(val)), nil
	case float64:
		return object.NewFloat(val), nil
	case string:
		return object.NewString(val), nil
	case bindings.Tuple:
		return listOf([]any(val))
	case []any:
		return listOf(val)
	case []int:
		return convertList(val, func(i int) object.Object { return object.NewInt(int64(i)) }), nil
	case []float64:
		return convertList(val, func(f float64) object.Object { return object.NewFloat(f) }), nil
	case []string:
		return convertList(val, func(s string) object.Object { return object.NewString(s) }), nil
	case []bool:
		return convertList(val, func(b bool) object.Object { return object.NewBool(b) }), nil
	case map[string]any:
		items := make(map[string]object.Object, len(val))
		for k, item := range val {
			o, err := ToObject(item)
			if err != nil {
				return nil, fmt.Errorf("failed to convert map value %q: %w", k, err)
			}
			items[k] = o
		}
		return object.NewMap(items), nil
	default:
		return nil, fmt.Errorf("unsupported type %T", v)
	}
}

func listOf(val []any) (object.Object, error) {
	items := make([]object.Object, len(val))
	for i, elem := range val {
		o, err := ToObject(elem)
		if err != nil {
			return nil, fmt.Errorf("failed to convert list element %d: %w", i, err)
		}
		items[i] = o
	}
	return object.NewList(items), nil
}

func convertList[T any](val []T, conv func(T) object.Object) object.Object {
	items := make([]object.Object, len(val))
	for i, v := range val {
		items[i] = conv(v)
	}
	return object.NewList(items)
}

// FromObject converts a Risor argument to the Go types the macro surface reads:
// int64, float64, string, bool, []any and map[string]any.
func FromObject(o object.Object) any {
	switch val := o.(type) {
	case nil, *object.NilType:
		return nil
	case *object.List:
		items := val.Value()
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = FromObject(item)
		}
		return out
	case *object.Map:
		items := val.Value()
		out := make(map[string]any, len(items))
		for k, item := range items {
			out[k] = FromObject(item)
		}
		return out
	default:
		return o.Interface()
	}
}
