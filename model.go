package facet

import (
	"maps"
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
)

// Arrayable is anything that can produce its own base serialization.
type Arrayable interface {
	// ToArray returns the value as a string-keyed mapping.
	ToArray() map[string]any
}

// Model is the visibility contract a policy acts upon.
// Implementations decide which attributes exist; policies only decide which
// of them appear in ToArray.
type Model interface {
	Arrayable

	// MakeHidden adds fields to the hidden set.
	MakeHidden(fields mapset.Set[string])

	// MakeVisible removes fields from the hidden set and, when the model
	// restricts output to an allow-list, adds them to it.
	MakeVisible(fields mapset.Set[string])
}

// Setter is implemented by models whose attributes can be assigned.
// Flagging requires it.
type Setter interface {
	Set(key string, value any)
}

// Getter is implemented by models whose raw attributes can be read
// regardless of visibility.
type Getter interface {
	Get(key string) (any, bool)
}

// Visibility holds the hidden set and the optional visible allow-list of a
// model. The zero value hides nothing and allows everything.
//
// Embed it in a model type to satisfy the visibility half of Model.
type Visibility struct {
	hidden  mapset.Set[string]
	visible mapset.Set[string]
}

func (v *Visibility) init() {
	if v.hidden == nil {
		v.hidden = mapset.NewThreadUnsafeSet[string]()
	}
	if v.visible == nil {
		v.visible = mapset.NewThreadUnsafeSet[string]()
	}
}

// MakeHidden adds fields to the hidden set.
func (v *Visibility) MakeHidden(fields mapset.Set[string]) {
	v.init()
	if fields == nil {
		return
	}
	v.hidden.Append(fields.ToSlice()...)
}

// MakeVisible un-hides fields. The allow-list only grows when one is in use,
// so an unrestricted model stays unrestricted.
func (v *Visibility) MakeVisible(fields mapset.Set[string]) {
	v.init()
	if fields == nil {
		return
	}
	names := fields.ToSlice()
	for _, name := range names {
		v.hidden.Remove(name)
	}
	if v.visible.Cardinality() > 0 {
		v.visible.Append(names...)
	}
}

// SetHidden replaces the hidden set.
func (v *Visibility) SetHidden(fields ...string) {
	v.init()
	v.hidden = mapset.NewThreadUnsafeSet(fields...)
}

// SetVisible replaces the visible allow-list. An empty list allows every field.
func (v *Visibility) SetVisible(fields ...string) {
	v.init()
	v.visible = mapset.NewThreadUnsafeSet(fields...)
}

// Hidden returns the hidden fields in sorted order.
func (v *Visibility) Hidden() []string {
	v.init()
	return sortedSet(v.hidden)
}

// Visible returns the allow-listed fields in sorted order.
func (v *Visibility) Visible() []string {
	v.init()
	return sortedSet(v.visible)
}

// IsHidden reports whether key would be dropped by Filter.
func (v *Visibility) IsHidden(key string) bool {
	v.init()
	if v.visible.Cardinality() > 0 && !v.visible.Contains(key) {
		return true
	}
	return v.hidden.Contains(key)
}

// Filter returns a copy of attrs holding only the fields currently visible.
func (v *Visibility) Filter(attrs map[string]any) map[string]any {
	out := make(map[string]any, len(attrs))
	for k, val := range attrs {
		if v.IsHidden(k) {
			continue
		}
		out[k] = val
	}
	return out
}

// Attributes is a map-backed Model.
type Attributes struct {
	Visibility
	attrs map[string]any
}

// NewAttributes creates a model over a copy of attrs.
func NewAttributes(attrs map[string]any) *Attributes {
	return &Attributes{attrs: maps.Clone(attrs)}
}

// Get returns the raw attribute, ignoring visibility.
func (a *Attributes) Get(key string) (any, bool) {
	v, ok := a.attrs[key]
	return v, ok
}

// Set assigns an attribute.
func (a *Attributes) Set(key string, value any) {
	if a.attrs == nil {
		a.attrs = make(map[string]any)
	}
	a.attrs[key] = value
}

// ToArray returns the visible attributes.
func (a *Attributes) ToArray() map[string]any {
	return a.Filter(a.attrs)
}

func sortedSet(s mapset.Set[string]) []string {
	out := s.ToSlice()
	slices.Sort(out)
	return out
}
