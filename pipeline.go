package facet

// Pipeline is an ordered, reusable bundle of policies and transformers.
// It is append-only; applying it to a resource or collection replaces that
// wrapper's own sequences with the pipeline's. The policies and transformers
// themselves are shared, not copied.
type Pipeline struct {
	policies     []Policy
	transformers []Transformer
}

// NewPipeline returns an empty pipeline.
func NewPipeline() *Pipeline {
	return &Pipeline{}
}

// AddPolicy appends a policy. Returns the pipeline for chaining.
func (p *Pipeline) AddPolicy(policy Policy) *Pipeline {
	if policy != nil {
		p.policies = append(p.policies, policy)
	}
	return p
}

// AddTransformer appends a transformer. Returns the pipeline for chaining.
func (p *Pipeline) AddTransformer(t Transformer) *Pipeline {
	if t != nil {
		p.transformers = append(p.transformers, t)
	}
	return p
}

// Policies returns the policies in insertion order.
func (p *Pipeline) Policies() []Policy {
	return p.policies
}

// Transformers returns the transformers in insertion order.
func (p *Pipeline) Transformers() []Transformer {
	return p.transformers
}

// extensions is the policy/transformer state shared by Resource and Collection.
type extensions struct {
	policies     []Policy
	transformers []Transformer
}

func (e *extensions) addPolicy(p Policy) {
	if p != nil {
		e.policies = append(e.policies, p)
	}
}

func (e *extensions) addTransformer(t Transformer) {
	if t != nil {
		e.transformers = append(e.transformers, t)
	}
}

// usePipeline replaces both sequences. The slices are copied so later appends
// on the wrapper never write into the pipeline's backing arrays.
func (e *extensions) usePipeline(p *Pipeline) {
	if p == nil {
		return
	}
	e.policies = append([]Policy(nil), p.policies...)
	e.transformers = append([]Transformer(nil), p.transformers...)
}
