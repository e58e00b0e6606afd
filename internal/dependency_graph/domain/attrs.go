package domain

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
)

// Attrs holds free-form metadata for nodes and edges. Values are restricted
// to a closed set: nil, string, bool, float64, map[string]any and []any of
// those. NormalizeAttrs converts any other numeric or container type into
// that set so equality and serialization stay well defined.
type Attrs map[string]any

// NormalizeAttrs returns a deep, normalized copy of in. A nil input yields an
// empty, non-nil map.
func NormalizeAttrs(in map[string]any) (Attrs, error) {
	out := make(Attrs, len(in))
	for k, v := range in {
		nv, err := NormalizeValue(v)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", k, err)
		}
		out[k] = nv
	}
	return out, nil
}

// NormalizeValue coerces v into the closed attribute value set.
func NormalizeValue(v any) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case string:
		return x, nil
	case bool:
		return x, nil
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int8:
		return float64(x), nil
	case int16:
		return float64(x), nil
	case int32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case uint:
		return float64(x), nil
	case uint8:
		return float64(x), nil
	case uint16:
		return float64(x), nil
	case uint32:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return nil, invalidf("number %q", x.String())
		}
		return f, nil
	case Attrs:
		m, err := NormalizeAttrs(x)
		if err != nil {
			return nil, err
		}
		return map[string]any(m), nil
	case map[string]any:
		m, err := NormalizeAttrs(x)
		if err != nil {
			return nil, err
		}
		return map[string]any(m), nil
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			ne, err := NormalizeValue(e)
			if err != nil {
				return nil, err
			}
			out[i] = ne
		}
		return out, nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			ne, err := NormalizeValue(rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			out[i] = ne
		}
		return out, nil
	case reflect.Map:
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			key, ok := iter.Key().Interface().(string)
			if !ok {
				return nil, invalidf("map key %v is not a string", iter.Key().Interface())
			}
			ne, err := NormalizeValue(iter.Value().Interface())
			if err != nil {
				return nil, err
			}
			out[key] = ne
		}
		return out, nil
	case reflect.Pointer:
		if rv.IsNil() {
			return nil, nil
		}
		return NormalizeValue(rv.Elem().Interface())
	}
	return nil, invalidf("unsupported attribute type %T", v)
}

// Clone returns a deep copy. Values are assumed to be normalized already.
func (a Attrs) Clone() Attrs {
	out := make(Attrs, len(a))
	for k, v := range a {
		out[k] = cloneValue(v)
	}
	return out
}

// Keys returns the attribute keys in sorted order.
func (a Attrs) Keys() []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = cloneValue(e)
		}
		return out
	case Attrs:
		return map[string]any(x.Clone())
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
