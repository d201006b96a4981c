package facet

import (
	"context"
	"maps"
	"reflect"
	"strconv"
	"time"
)

// Serializer is anything that serializes itself into a mapping.
// Resource implements it; types embedding *Resource usually override ToArray
// to add their own fields on top of the embedded result.
type Serializer interface {
	ToArray(ctx context.Context) (map[string]any, error)
}

// Extendable is the capability a Collection looks for on its items: the item
// accepts the collection's policies and transformers before serializing.
type Extendable interface {
	Serializer

	// Inherit replaces the sequences inherited from an enclosing collection.
	// They run after the item's own policies and transformers.
	Inherit(policies []Policy, transformers []Transformer)
}

// Resource wraps a single value destined for serialization.
//
// The wrapped value may be nil, a Model, a slice of Models, a map[string]any,
// or any other Arrayable. Policies only act on models; transformers act on every
// kind. Resource is not safe for concurrent use: build it, then serialize it.
type Resource struct {
	value     any
	own       extensions
	inherited extensions
}

// NewResource wraps v.
func NewResource(v any) *Resource {
	return &Resource{value: v}
}

// Unwrap returns the wrapped value.
func (r *Resource) Unwrap() any {
	return r.value
}

// ApplyPolicy appends a policy. Returns the resource for chaining.
//
// Types embedding *Resource get this method promoted, so a chain returns the
// embedded *Resource and a chained ToArray skips the outer override. Keep the
// outer value and call ToArray on it.
func (r *Resource) ApplyPolicy(p Policy) *Resource {
	r.own.addPolicy(p)
	return r
}

// ApplyTransformer appends a transformer. Returns the resource for chaining.
// Like ApplyPolicy, a chain through an embedding type returns the embedded
// *Resource.
func (r *Resource) ApplyTransformer(t Transformer) *Resource {
	r.own.addTransformer(t)
	return r
}

// ApplyPipeline replaces the resource's policies and transformers with the
// pipeline's. Returns the resource for chaining, which for an embedding type
// is the embedded *Resource.
func (r *Resource) ApplyPipeline(p *Pipeline) *Resource {
	r.own.usePipeline(p)
	return r
}

// Policies returns the resource's own policies in attachment order.
func (r *Resource) Policies() []Policy {
	return r.own.policies
}

// Transformers returns the resource's own transformers in attachment order.
func (r *Resource) Transformers() []Transformer {
	return r.own.transformers
}

// Inherit implements Extendable.
func (r *Resource) Inherit(policies []Policy, transformers []Transformer) {
	r.inherited = extensions{policies: policies, transformers: transformers}
}

// ToArray resolves policies against the wrapped model, produces the base
// mapping and folds it through every transformer. Nothing is cached; each
// call re-resolves. A nil value always yields an empty mapping.
func (r *Resource) ToArray(ctx context.Context) (map[string]any, error) {
	if isNil(r.value) {
		return map[string]any{}, nil
	}

	policies := concat(r.own.policies, r.inherited.policies)
	transformers := concat(r.own.transformers, r.inherited.transformers)

	start := time.Now()
	var retErr error
	defer func() {
		emitResourceSerialized(ctx, typeName(r.value), len(policies), len(transformers), time.Since(start), retErr)
	}()

	r.resolvePolicies(policies)

	data, err := r.base()
	if err != nil {
		retErr = err
		return nil, retErr
	}

	data, err = applyTransformers(ctx, transformers, r.value, data)
	if err != nil {
		retErr = err
		return nil, retErr
	}
	return data, nil
}

// resolvePolicies applies each policy, in order, to every model reachable
// from the wrapped value.
func (r *Resource) resolvePolicies(policies []Policy) {
	if len(policies) == 0 {
		return
	}
	if m, ok := r.value.(Model); ok {
		for _, p := range policies {
			applyPolicy(p, m)
		}
		return
	}
	models, ok := modelSlice(r.value)
	if !ok {
		return
	}
	for _, p := range policies {
		for _, m := range models {
			if !isNil(m) {
				applyPolicy(p, m)
			}
		}
	}
}

// base produces the untransformed mapping.
func (r *Resource) base() (map[string]any, error) {
	switch v := r.value.(type) {
	case map[string]any:
		return maps.Clone(v), nil
	case Arrayable:
		return v.ToArray(), nil
	}

	models, ok := modelSlice(r.value)
	if !ok {
		return nil, newTypeError("Resource", r.value, "facet.Arrayable")
	}
	out := make(map[string]any, len(models))
	for i, m := range models {
		if isNil(m) {
			out[strconv.Itoa(i)] = nil
			continue
		}
		out[strconv.Itoa(i)] = m.ToArray()
	}
	return out, nil
}

var modelType = reflect.TypeFor[Model]()

// modelSlice views a slice or array of models as []Model. Element types that
// implement Model qualify, as do interface element types whose non-nil
// entries all implement it. Nil entries are kept as nil.
func modelSlice(v any) ([]Model, bool) {
	if ms, ok := v.([]Model); ok {
		return ms, true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	elem := rv.Type().Elem()
	if !elem.Implements(modelType) && elem.Kind() != reflect.Interface {
		return nil, false
	}

	out := make([]Model, rv.Len())
	for i := range out {
		item := rv.Index(i).Interface()
		if isNil(item) {
			continue
		}
		m, ok := item.(Model)
		if !ok {
			return nil, false
		}
		out[i] = m
	}
	return out, true
}

// As returns the wrapped value as T, or a *TypeError naming what was found.
func As[T any](r *Resource) (T, error) {
	var zero T
	if r == nil {
		return zero, newTypeError("Resource", nil, reflect.TypeFor[T]().String())
	}
	v, ok := r.value.(T)
	if !ok || isNil(r.value) {
		return zero, newTypeError("Resource", r.value, reflect.TypeFor[T]().String())
	}
	return v, nil
}

// isNil reports whether v is nil or a typed nil pointer, map, slice or func.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// concat joins two sequences without aliasing either.
func concat[T any](a, b []T) []T {
	if len(b) == 0 {
		return a
	}
	out := make([]T, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}
