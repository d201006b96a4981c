package facet

import (
	mapset "github.com/deckarep/golang-set/v2"
)

// Policy decides which fields of a model are hidden and which are shown.
// Both methods must be pure for a given model snapshot. When a policy names
// a field in both sets, the field ends up visible: hidden fields are applied
// first, visible fields second.
type Policy interface {
	HiddenFields(m Model) mapset.Set[string]
	VisibleFields(m Model) mapset.Set[string]
}

// staticPolicy returns the same field sets for every model.
type staticPolicy struct {
	hidden  mapset.Set[string]
	visible mapset.Set[string]
}

// NewPolicy returns a policy with fixed hidden and visible fields.
func NewPolicy(hidden, visible []string) Policy {
	return &staticPolicy{
		hidden:  mapset.NewSet(hidden...),
		visible: mapset.NewSet(visible...),
	}
}

// Hide returns a policy that only hides fields.
func Hide(fields ...string) Policy {
	return NewPolicy(fields, nil)
}

// Show returns a policy that only shows fields.
func Show(fields ...string) Policy {
	return NewPolicy(nil, fields)
}

func (p *staticPolicy) HiddenFields(Model) mapset.Set[string] {
	return p.hidden.Clone()
}

func (p *staticPolicy) VisibleFields(Model) mapset.Set[string] {
	return p.visible.Clone()
}

// PolicyFuncs adapts a pair of functions to the Policy interface.
// A nil function yields an empty set.
type PolicyFuncs struct {
	Hidden  func(m Model) []string
	Visible func(m Model) []string
}

// HiddenFields calls the Hidden function.
func (p PolicyFuncs) HiddenFields(m Model) mapset.Set[string] {
	if p.Hidden == nil {
		return mapset.NewSet[string]()
	}
	return mapset.NewSet(p.Hidden(m)...)
}

// VisibleFields calls the Visible function.
func (p PolicyFuncs) VisibleFields(m Model) mapset.Set[string] {
	if p.Visible == nil {
		return mapset.NewSet[string]()
	}
	return mapset.NewSet(p.Visible(m)...)
}

// applyPolicy folds one policy into a model: hide, then show.
func applyPolicy(p Policy, m Model) {
	m.MakeHidden(p.HiddenFields(m))
	m.MakeVisible(p.VisibleFields(m))
}
