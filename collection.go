package facet

import (
	"context"
	"maps"
	"reflect"
	"time"
)

// Paginator is a page of results whose items a Collection may replace.
type Paginator interface {
	Items() []any
	SetItems(items []any)
}

// Page is a minimal Paginator.
type Page struct {
	items       []any
	Total       int
	PerPage     int
	CurrentPage int
}

// NewPage creates a page holding items.
func NewPage(items []any, total, perPage, currentPage int) *Page {
	return &Page{items: items, Total: total, PerPage: perPage, CurrentPage: currentPage}
}

// Items returns the page's items.
func (p *Page) Items() []any { return p.items }

// SetItems replaces the page's items.
func (p *Page) SetItems(items []any) { p.items = items }

// LastPage returns the number of the last page, at least 1.
func (p *Page) LastPage() int {
	if p.PerPage <= 0 || p.Total <= 0 {
		return 1
	}
	return (p.Total + p.PerPage - 1) / p.PerPage
}

// Collection wraps an ordered set of items destined for serialization.
//
// When a collection declares the registered type it collects, raw items are
// remapped into that type on construction, forwarding the captured extra
// arguments the factory requires. Policies and transformers attached to the
// collection reach every item that implements Extendable.
type Collection struct {
	items     []any
	paginator Paginator
	args      []any
	collects  string
	own       extensions
}

// NewCollection wraps items and remaps them into the registered type name.
// An empty name leaves items untouched. args are captured for the factory.
func NewCollection(name string, items any, args ...any) (*Collection, error) {
	return Anonymous(items, args...).Collect(name)
}

// Anonymous wraps items without declaring the type it collects.
// Call Collect to remap later.
func Anonymous(items any, args ...any) *Collection {
	c := &Collection{args: args}
	c.items, c.paginator = normalizeItems(items)
	return c
}

// Collect declares the registered type name and remaps the items into it.
func (c *Collection) Collect(name string) (*Collection, error) {
	c.collects = name
	if err := c.collectResource(context.Background()); err != nil {
		return nil, err
	}
	return c, nil
}

// collectResource remaps raw items into the declared type.
func (c *Collection) collectResource(ctx context.Context) error {
	if c.collects == "" {
		c.syncPaginator()
		return nil
	}

	reg, ok := Lookup(c.collects)
	if !ok {
		return newMappingError(ErrUnknownType, c.collects, nil)
	}

	if len(c.items) > 0 && reg.Is(c.items[0]) {
		c.syncPaginator()
		return nil
	}

	start := time.Now()
	mapped, err := c.mapInto(reg)
	emitCollectionMapped(ctx, c.collects, len(c.items), reg.Arity, time.Since(start), err)
	if err != nil {
		return err
	}

	c.items = mapped
	c.syncPaginator()
	return nil
}

// mapInto builds one typed item per raw item. The extra arguments are taken
// off the front of the captured pool once and shared by every item. The pool
// is only consumed when every item maps.
func (c *Collection) mapInto(reg Registration) ([]any, error) {
	if reg.Arity > len(c.args) {
		return nil, newMappingError(ErrArity, reg.Name, nil)
	}

	ctorArgs := c.args[:reg.Arity:reg.Arity]
	mapped := make([]any, len(c.items))
	for i, item := range c.items {
		v, err := reg.New(item, ctorArgs...)
		if err != nil {
			return nil, newMappingError(ErrFactory, reg.Name, err)
		}
		mapped[i] = v
	}

	c.args = c.args[reg.Arity:]
	return mapped, nil
}

func (c *Collection) syncPaginator() {
	if c.paginator != nil {
		c.paginator.SetItems(c.items)
	}
}

// ApplyPolicy appends a policy. Returns the collection for chaining.
func (c *Collection) ApplyPolicy(p Policy) *Collection {
	c.own.addPolicy(p)
	return c
}

// ApplyTransformer appends a transformer. Returns the collection for chaining.
func (c *Collection) ApplyTransformer(t Transformer) *Collection {
	c.own.addTransformer(t)
	return c
}

// ApplyPipeline replaces the collection's policies and transformers with the
// pipeline's. Returns the collection for chaining.
func (c *Collection) ApplyPipeline(p *Pipeline) *Collection {
	c.own.usePipeline(p)
	return c
}

// Policies returns the collection's policies in attachment order.
func (c *Collection) Policies() []Policy { return c.own.policies }

// Transformers returns the collection's transformers in attachment order.
func (c *Collection) Transformers() []Transformer { return c.own.transformers }

// Items returns the held items.
func (c *Collection) Items() []any { return c.items }

// Len returns the number of held items.
func (c *Collection) Len() int { return len(c.items) }

// Args returns the captured arguments not yet consumed by remapping.
func (c *Collection) Args() []any { return c.args }

// Collects returns the declared type name.
func (c *Collection) Collects() string { return c.collects }

// Paginator returns the wrapped paginator, or nil.
func (c *Collection) Paginator() Paginator { return c.paginator }

// ToArray hands the collection's policies and transformers to every
// Extendable item, then serializes each item in order. Items without the
// capability pass through unchanged. Nil items are dropped.
func (c *Collection) ToArray(ctx context.Context) ([]map[string]any, error) {
	start := time.Now()
	var retErr error
	out := make([]map[string]any, 0, len(c.items))
	defer func() {
		emitCollectionSerialized(ctx, c.collects, len(out), len(c.own.policies), len(c.own.transformers), time.Since(start), retErr)
	}()

	for _, item := range c.items {
		if ext, ok := item.(Extendable); ok && !isNil(item) {
			ext.Inherit(c.own.policies, c.own.transformers)
		}
	}

	for _, item := range c.items {
		if isNil(item) {
			continue
		}
		data, err := serializeItem(ctx, item)
		if err != nil {
			retErr = err
			return nil, retErr
		}
		out = append(out, data)
	}
	return out, nil
}

// serializeItem produces one element of a collection's output.
func serializeItem(ctx context.Context, item any) (map[string]any, error) {
	switch v := item.(type) {
	case Serializer:
		return v.ToArray(ctx)
	case map[string]any:
		return maps.Clone(v), nil
	case Arrayable:
		return v.ToArray(), nil
	default:
		return nil, newTypeError("Collection", item, "facet.Serializer")
	}
}

// normalizeItems turns a slice, array, or Paginator into []any.
// Any other non-nil value becomes a single-item collection.
func normalizeItems(items any) ([]any, Paginator) {
	switch v := items.(type) {
	case nil:
		return nil, nil
	case Paginator:
		return append([]any(nil), v.Items()...), v
	case []any:
		return append([]any(nil), v...), nil
	}

	rv := reflect.ValueOf(items)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return nil, nil
		}
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = rv.Index(i).Interface()
		}
		return out, nil
	default:
		return []any{items}, nil
	}
}
