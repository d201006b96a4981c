package facet

import (
	"reflect"
	"strings"
	"sync"

	"github.com/mitchellh/mapstructure"
	"github.com/zoobzio/sentinel"
)

func init() {
	// Register the tags struct models read with sentinel
	sentinel.Tag("json")
	sentinel.Tag("facet")
}

// structField maps one exported struct field to its serialized key.
type structField struct {
	key    string
	index  []int
	hidden bool
}

var (
	structPlans   = make(map[reflect.Type][]structField)
	structPlansMu sync.RWMutex
)

// Struct is a Model backed by a Go struct.
//
// Keys come from json tag names, falling back to the Go field name; fields
// tagged json:"-" are skipped. Fields tagged facet:"hidden" start hidden.
// Attributes assigned with Set overlay the struct's own fields.
type Struct[T any] struct {
	Visibility
	value  *T
	fields []structField
	extra  map[string]any
}

// FromStruct creates a model over v. The struct is read on every ToArray,
// so later changes to *v are observed.
func FromStruct[T any](v *T) *Struct[T] {
	s := &Struct[T]{value: v, fields: structPlan[T]()}
	var hidden []string
	for _, f := range s.fields {
		if f.hidden {
			hidden = append(hidden, f.key)
		}
	}
	if len(hidden) > 0 {
		s.SetHidden(hidden...)
	}
	return s
}

// structPlan scans T once and caches the field plan.
func structPlan[T any]() []structField {
	rt := reflect.TypeFor[T]()

	structPlansMu.RLock()
	if plan, ok := structPlans[rt]; ok {
		structPlansMu.RUnlock()
		return plan
	}
	structPlansMu.RUnlock()

	meta := sentinel.Scan[T]()
	plan := make([]structField, 0, len(meta.Fields))
	for _, field := range meta.Fields {
		tag, ok := field.Tags["json"]
		if !ok {
			tag = rt.FieldByIndex(field.Index).Tag.Get("json")
		}
		name, _, _ := strings.Cut(tag, ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = field.Name
		}

		marker, ok := field.Tags["facet"]
		if !ok {
			marker = rt.FieldByIndex(field.Index).Tag.Get("facet")
		}

		plan = append(plan, structField{
			key:    name,
			index:  field.Index,
			hidden: marker == "hidden",
		})
	}

	structPlansMu.Lock()
	structPlans[rt] = plan
	structPlansMu.Unlock()
	return plan
}

// Value returns the wrapped struct.
func (s *Struct[T]) Value() *T {
	return s.value
}

// Get returns the raw attribute, ignoring visibility.
func (s *Struct[T]) Get(key string) (any, bool) {
	if v, ok := s.extra[key]; ok {
		return v, true
	}
	if s.value == nil {
		return nil, false
	}
	rv := reflect.ValueOf(s.value).Elem()
	for _, f := range s.fields {
		if f.key == key {
			return rv.FieldByIndex(f.index).Interface(), true
		}
	}
	return nil, false
}

// Set overlays an attribute on top of the struct's fields.
func (s *Struct[T]) Set(key string, value any) {
	if s.extra == nil {
		s.extra = make(map[string]any)
	}
	s.extra[key] = value
}

// ToArray returns the visible attributes.
func (s *Struct[T]) ToArray() map[string]any {
	attrs := make(map[string]any, len(s.fields)+len(s.extra))
	if s.value != nil {
		rv := reflect.ValueOf(s.value).Elem()
		for _, f := range s.fields {
			attrs[f.key] = rv.FieldByIndex(f.index).Interface()
		}
	}
	for k, v := range s.extra {
		attrs[k] = v
	}
	return s.Filter(attrs)
}

// Decode decodes a raw mapping into T using json tag names.
func Decode[T any](raw map[string]any) (*T, error) {
	var out T
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           &out,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, err
	}
	return &out, nil
}

// StructFactory returns a factory, suitable for Register with arity 0, that
// wraps T values in resources. Raw mappings are decoded into T first.
func StructFactory[T any]() func(item any, args ...any) (*Resource, error) {
	return func(item any, _ ...any) (*Resource, error) {
		switch v := item.(type) {
		case *T:
			return NewResource(FromStruct(v)), nil
		case T:
			return NewResource(FromStruct(&v)), nil
		case map[string]any:
			decoded, err := Decode[T](v)
			if err != nil {
				return nil, err
			}
			return NewResource(FromStruct(decoded)), nil
		default:
			return nil, newTypeError("StructFactory", item, "map[string]any")
		}
	}
}
