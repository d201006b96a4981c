package facet

import (
	"context"
	"errors"
	"maps"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestResource_Policies(t *testing.T) {
	model := newPerson()
	model.SetHidden("last_name")

	res := newCoinResource(model, newHeadsOrTails())
	res.ApplyPolicy(Hide("first_name")).ApplyPolicy(Show("last_name"))

	result, err := res.ToArray(context.Background())
	if err != nil {
		t.Fatalf("ToArray() error: %v", err)
	}

	for _, key := range []string{"last_name", "coin_side", "city"} {
		if _, ok := result[key]; !ok {
			t.Errorf("result missing %q: %v", key, result)
		}
	}
	if _, ok := result["first_name"]; ok {
		t.Errorf("first_name should be hidden: %v", result)
	}
}

func TestResource_Transformers(t *testing.T) {
	res := newCoinResource(newPerson(), newHeadsOrTails())
	res.ApplyTransformer(Set("test", "test")).ApplyTransformer(Set("test_2", "test_2"))

	result, err := res.ToArray(context.Background())
	if err != nil {
		t.Fatalf("ToArray() error: %v", err)
	}

	want := map[string]any{
		"first_name": "John",
		"last_name":  "Doe",
		"city":       "New Jersey",
		"coin_side":  "heads",
		"test":       "test",
		"test_2":     "test_2",
	}
	if diff := cmp.Diff(want, result); diff != "" {
		t.Errorf("ToArray() mismatch (-want +got):\n%s", diff)
	}
}

func TestResource_HideAndSetScenario(t *testing.T) {
	model := NewAttributes(map[string]any{"first_name": "John", "last_name": "Doe"})

	result, err := NewResource(model).
		ApplyPolicy(Hide("first_name")).
		ApplyTransformer(setTest("test")).
		ToArray(context.Background())
	if err != nil {
		t.Fatalf("ToArray() error: %v", err)
	}

	want := map[string]any{"last_name": "Doe", "test": "test"}
	if diff := cmp.Diff(want, result); diff != "" {
		t.Errorf("ToArray() mismatch (-want +got):\n%s", diff)
	}
}

func TestResource_PolicyOrderMatters(t *testing.T) {
	hide := Hide("first_name")
	show := Show("first_name")

	tests := []struct {
		name     string
		policies []Policy
		visible  bool
	}{
		{"hide then show", []Policy{hide, show}, true},
		{"show then hide", []Policy{show, hide}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResource(newPerson())
			for _, p := range tt.policies {
				r.ApplyPolicy(p)
			}
			result, err := r.ToArray(context.Background())
			if err != nil {
				t.Fatalf("ToArray() error: %v", err)
			}
			if _, ok := result["first_name"]; ok != tt.visible {
				t.Errorf("first_name visible = %v, want %v", ok, tt.visible)
			}
		})
	}
}

func TestResource_NonOverlappingPoliciesCommute(t *testing.T) {
	a := Hide("first_name")
	b := Hide("city")

	r1, _ := NewResource(newPerson()).ApplyPolicy(a).ApplyPolicy(b).ToArray(context.Background())
	r2, _ := NewResource(newPerson()).ApplyPolicy(b).ApplyPolicy(a).ToArray(context.Background())

	if diff := cmp.Diff(r1, r2); diff != "" {
		t.Errorf("non-overlapping policies should commute (-ab +ba):\n%s", diff)
	}
}

func TestResource_TransformerOrderMatters(t *testing.T) {
	t1 := setTest("test")
	t2 := setTest("test_2")

	r1, err := NewResource(newPerson()).ApplyTransformer(t1).ApplyTransformer(t2).ToArray(context.Background())
	if err != nil {
		t.Fatalf("ToArray() error: %v", err)
	}
	r2, err := NewResource(newPerson()).ApplyTransformer(t2).ApplyTransformer(t1).ToArray(context.Background())
	if err != nil {
		t.Fatalf("ToArray() error: %v", err)
	}

	if r1["test"] != "test_2" {
		t.Errorf("last transformer should win, got %v", r1["test"])
	}
	if maps.Equal(toStrings(r1), toStrings(r2)) {
		t.Error("reversed transformer order should change the result")
	}
}

func TestResource_Pipeline(t *testing.T) {
	model := newPerson()
	model.SetHidden("last_name")

	pipeline := NewPipeline().
		AddPolicy(Hide("first_name")).
		AddPolicy(Show("last_name")).
		AddTransformer(setTest("test")).
		AddTransformer(Set("test_2", "test_2"))

	res := newCoinResource(model, newHeadsOrTails())
	res.ApplyPipeline(pipeline)

	result, err := res.ToArray(context.Background())
	if err != nil {
		t.Fatalf("ToArray() error: %v", err)
	}

	want := map[string]any{
		"last_name": "Doe",
		"city":      "New Jersey",
		"coin_side": "heads",
		"test":      "test",
		"test_2":    "test_2",
	}
	if diff := cmp.Diff(want, result); diff != "" {
		t.Errorf("ToArray() mismatch (-want +got):\n%s", diff)
	}
}

func TestResource_PipelineMatchesIndividualApplication(t *testing.T) {
	policies := []Policy{Hide("first_name", "city"), Show("city"), Hide("last_name")}
	transformers := []Transformer{setTest("a"), Rename("test", "renamed"), Set("renamed", "b")}

	pipeline := NewPipeline()
	individual := NewResource(newPerson())
	for _, p := range policies {
		pipeline.AddPolicy(p)
		individual.ApplyPolicy(p)
	}
	for _, tr := range transformers {
		pipeline.AddTransformer(tr)
		individual.ApplyTransformer(tr)
	}

	viaPipeline, err := NewResource(newPerson()).ApplyPipeline(pipeline).ToArray(context.Background())
	if err != nil {
		t.Fatalf("pipeline ToArray() error: %v", err)
	}
	direct, err := individual.ToArray(context.Background())
	if err != nil {
		t.Fatalf("individual ToArray() error: %v", err)
	}

	if diff := cmp.Diff(direct, viaPipeline); diff != "" {
		t.Errorf("pipeline differs from individual application (-direct +pipeline):\n%s", diff)
	}
}

func TestResource_ApplyPipelineReplaces(t *testing.T) {
	r := NewResource(newPerson()).
		ApplyPolicy(Hide("city")).
		ApplyTransformer(setTest("old"))

	r.ApplyPipeline(NewPipeline().AddTransformer(Set("fresh", true)))

	if len(r.Policies()) != 0 {
		t.Errorf("Policies() = %d, want 0 after pipeline", len(r.Policies()))
	}
	result, err := r.ToArray(context.Background())
	if err != nil {
		t.Fatalf("ToArray() error: %v", err)
	}
	if _, ok := result["test"]; ok {
		t.Error("replaced transformer should not run")
	}
	if result["city"] != "New Jersey" {
		t.Error("replaced policy should not run")
	}
	if result["fresh"] != true {
		t.Error("pipeline transformer should run")
	}
}

func TestResource_ApplyPipelineDoesNotAliasPipeline(t *testing.T) {
	pipeline := NewPipeline().AddPolicy(Hide("city"))
	NewResource(newPerson()).ApplyPipeline(pipeline).ApplyPolicy(Hide("first_name"))

	if got := len(pipeline.Policies()); got != 1 {
		t.Errorf("pipeline Policies() = %d, want 1", got)
	}
}

func TestResource_ApplyNilPipeline(t *testing.T) {
	r := NewResource(newPerson()).ApplyPolicy(Hide("city")).ApplyPipeline(nil)
	if len(r.Policies()) != 1 {
		t.Errorf("nil pipeline should leave policies untouched, got %d", len(r.Policies()))
	}
}

func TestResource_NilSerializesEmpty(t *testing.T) {
	called := false
	spy := TransformerFunc(func(_ context.Context, _ any, data map[string]any) (map[string]any, error) {
		called = true
		return data, nil
	})

	for name, v := range map[string]any{
		"untyped nil": nil,
		"typed nil":   (*Attributes)(nil),
	} {
		t.Run(name, func(t *testing.T) {
			result, err := NewResource(v).
				ApplyPolicy(Hide("first_name")).
				ApplyTransformer(Set("test", "test")).
				ApplyTransformer(spy).
				ToArray(context.Background())
			if err != nil {
				t.Fatalf("ToArray() error: %v", err)
			}
			if len(result) != 0 {
				t.Errorf("ToArray() = %v, want empty", result)
			}
		})
	}
	if called {
		t.Error("transformers should not run for a nil resource")
	}
}

func TestResource_RepeatedToArray(t *testing.T) {
	r := NewResource(newPerson()).
		ApplyPolicy(Hide("first_name")).
		ApplyTransformer(setTest("test"))

	first, err := r.ToArray(context.Background())
	if err != nil {
		t.Fatalf("ToArray() error: %v", err)
	}
	second, err := r.ToArray(context.Background())
	if err != nil {
		t.Fatalf("ToArray() error: %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated ToArray() differs (-first +second):\n%s", diff)
	}
}

func TestResource_PolicyMutatesModel(t *testing.T) {
	model := newPerson()
	if _, err := NewResource(model).ApplyPolicy(Hide("city")).ToArray(context.Background()); err != nil {
		t.Fatalf("ToArray() error: %v", err)
	}
	if _, ok := model.ToArray()["city"]; ok {
		t.Error("policy should leave the model's city hidden after serialization")
	}
}

func TestResource_ModelSlice(t *testing.T) {
	john := newPerson()
	jane := NewAttributes(map[string]any{"first_name": "Jane", "last_name": "Doe"})

	result, err := NewResource([]Model{john, jane}).
		ApplyPolicy(Hide("first_name")).
		ToArray(context.Background())
	if err != nil {
		t.Fatalf("ToArray() error: %v", err)
	}

	want := map[string]any{
		"0": map[string]any{"last_name": "Doe", "city": "New Jersey"},
		"1": map[string]any{"last_name": "Doe"},
	}
	if diff := cmp.Diff(want, result); diff != "" {
		t.Errorf("ToArray() mismatch (-want +got):\n%s", diff)
	}
}

func TestResource_TypedModelSlices(t *testing.T) {
	tests := []struct {
		name  string
		value func(a, b *Attributes) any
	}{
		{"concrete elements", func(a, b *Attributes) any { return []*Attributes{a, b} }},
		{"interface elements", func(a, b *Attributes) any { return []any{a, b} }},
		{"array", func(a, b *Attributes) any { return [2]*Attributes{a, b} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			john := newPerson()
			jane := NewAttributes(map[string]any{"first_name": "Jane", "last_name": "Doe"})

			result, err := NewResource(tt.value(john, jane)).
				ApplyPolicy(Hide("first_name")).
				ToArray(context.Background())
			if err != nil {
				t.Fatalf("ToArray() error: %v", err)
			}

			want := map[string]any{
				"0": map[string]any{"last_name": "Doe", "city": "New Jersey"},
				"1": map[string]any{"last_name": "Doe"},
			}
			if diff := cmp.Diff(want, result); diff != "" {
				t.Errorf("ToArray() mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff([]string{"first_name"}, john.Hidden()); diff != "" {
				t.Errorf("Hidden() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResource_MixedSliceRejected(t *testing.T) {
	_, err := NewResource([]any{newPerson(), map[string]any{"id": 1}}).ToArray(context.Background())
	if !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("ToArray() error = %v, want ErrTypeMismatch", err)
	}
}

func TestResource_PlainMapSkipsPolicies(t *testing.T) {
	raw := map[string]any{"first_name": "John"}

	result, err := NewResource(raw).
		ApplyPolicy(Hide("first_name")).
		ApplyTransformer(setTest("test")).
		ToArray(context.Background())
	if err != nil {
		t.Fatalf("ToArray() error: %v", err)
	}

	want := map[string]any{"first_name": "John", "test": "test"}
	if diff := cmp.Diff(want, result); diff != "" {
		t.Errorf("ToArray() mismatch (-want +got):\n%s", diff)
	}
	if _, ok := raw["test"]; ok {
		t.Error("wrapped map should not be mutated")
	}
}

func TestResource_UnsupportedValue(t *testing.T) {
	_, err := NewResource(42).ToArray(context.Background())
	if !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("ToArray() error = %v, want ErrTypeMismatch", err)
	}

	var typeErr *TypeError
	if !errors.As(err, &typeErr) {
		t.Fatalf("error should be *TypeError, got %T", err)
	}
	if typeErr.Actual != "int" || typeErr.Context != "Resource" {
		t.Errorf("TypeError = %+v", typeErr)
	}
}

func TestResource_TransformerErrorStops(t *testing.T) {
	boom := errors.New("boom")
	ran := false

	_, err := NewResource(newPerson()).
		ApplyTransformer(TransformerFunc(func(context.Context, any, map[string]any) (map[string]any, error) {
			return nil, boom
		})).
		ApplyTransformer(Map(func(_ any, data map[string]any) map[string]any {
			ran = true
			return data
		})).
		ToArray(context.Background())

	if !errors.Is(err, boom) {
		t.Errorf("ToArray() error = %v, want %v", err, boom)
	}
	if ran {
		t.Error("transformers after a failure should not run")
	}
}

func TestResource_TransformerSeesResource(t *testing.T) {
	model := newPerson()
	var seen any

	_, err := NewResource(model).
		ApplyTransformer(Map(func(resource any, data map[string]any) map[string]any {
			seen = resource
			return data
		})).
		ToArray(context.Background())
	if err != nil {
		t.Fatalf("ToArray() error: %v", err)
	}
	if seen != model {
		t.Errorf("transformer received %v, want the wrapped model", seen)
	}
}

func TestAs(t *testing.T) {
	model := newPerson()

	got, err := As[*Attributes](NewResource(model))
	if err != nil {
		t.Fatalf("As() error: %v", err)
	}
	if got != model {
		t.Error("As() should return the wrapped model")
	}

	_, err = As[*Struct[struct{}]](NewResource(model))
	if !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("As() error = %v, want ErrTypeMismatch", err)
	}

	_, err = As[*Attributes](NewResource(nil))
	var typeErr *TypeError
	if !errors.As(err, &typeErr) || typeErr.Actual != "NULL" {
		t.Errorf("As() on nil = %v, want TypeError with NULL", err)
	}
}

func toStrings(m map[string]any) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}
