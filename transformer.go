package facet

import (
	"context"
	"maps"

	"github.com/iancoleman/strcase"
)

// Transformer rewrites an already-serialized mapping.
//
// Transform receives the wrapped resource and the working mapping and returns
// the next mapping. It must accept any well-formed mapping and must not
// mutate resource. Built-in transformers never mutate data in place.
type Transformer interface {
	Transform(ctx context.Context, resource any, data map[string]any) (map[string]any, error)
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, resource any, data map[string]any) (map[string]any, error)

// Transform executes the wrapped function. A nil function passes data through.
func (fn TransformerFunc) Transform(ctx context.Context, resource any, data map[string]any) (map[string]any, error) {
	if fn == nil {
		return data, nil
	}
	return fn(ctx, resource, data)
}

// Map adapts a function that cannot fail.
func Map(fn func(resource any, data map[string]any) map[string]any) Transformer {
	return TransformerFunc(func(_ context.Context, resource any, data map[string]any) (map[string]any, error) {
		return fn(resource, data), nil
	})
}

// Set writes value under key, overwriting any previous value.
func Set(key string, value any) Transformer {
	return Map(func(_ any, data map[string]any) map[string]any {
		out := maps.Clone(data)
		if out == nil {
			out = make(map[string]any, 1)
		}
		out[key] = value
		return out
	})
}

// Rename moves the value at from to to. Missing keys are left alone.
func Rename(from, to string) Transformer {
	return Map(func(_ any, data map[string]any) map[string]any {
		v, ok := data[from]
		if !ok {
			return data
		}
		out := maps.Clone(data)
		delete(out, from)
		out[to] = v
		return out
	})
}

// Only keeps the listed keys.
func Only(keys ...string) Transformer {
	return Map(func(_ any, data map[string]any) map[string]any {
		out := make(map[string]any, len(keys))
		for _, k := range keys {
			if v, ok := data[k]; ok {
				out[k] = v
			}
		}
		return out
	})
}

// Except drops the listed keys.
func Except(keys ...string) Transformer {
	return Map(func(_ any, data map[string]any) map[string]any {
		out := maps.Clone(data)
		for _, k := range keys {
			delete(out, k)
		}
		return out
	})
}

// KeyCase names a key rewriting style.
type KeyCase string

const (
	CaseSnake      KeyCase = "snake"       // first_name
	CaseCamel      KeyCase = "camel"       // FirstName
	CaseLowerCamel KeyCase = "lower_camel" // firstName
	CaseKebab      KeyCase = "kebab"       // first-name
)

var keyCasers = map[KeyCase]func(string) string{
	CaseSnake:      strcase.ToSnake,
	CaseCamel:      strcase.ToCamel,
	CaseLowerCamel: strcase.ToLowerCamel,
	CaseKebab:      strcase.ToKebab,
}

// CaseKeys rewrites top-level keys into the given case.
// Unknown cases leave keys untouched.
func CaseKeys(kc KeyCase) Transformer {
	caser, ok := keyCasers[kc]
	return Map(func(_ any, data map[string]any) map[string]any {
		if !ok {
			return data
		}
		out := make(map[string]any, len(data))
		for k, v := range data {
			out[caser(k)] = v
		}
		return out
	})
}

// applyTransformers folds data through ts in order.
func applyTransformers(ctx context.Context, ts []Transformer, resource any, data map[string]any) (map[string]any, error) {
	var err error
	for _, t := range ts {
		data, err = t.Transform(ctx, resource, data)
		if err != nil {
			return nil, err
		}
	}
	return data, nil
}
