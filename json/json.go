// Package json provides a JSON codec for facet output.
package json

import (
	"bytes"
	"encoding/json"

	"github.com/zoobzio/facet"
)

// Option configures the JSON codec.
type Option func(*jsonCodec)

// WithIndent pretty-prints output using indent for each nesting level.
func WithIndent(indent string) Option {
	return func(c *jsonCodec) {
		c.indent = indent
	}
}

// WithoutHTMLEscape leaves <, > and & unescaped in strings.
func WithoutHTMLEscape() Option {
	return func(c *jsonCodec) {
		c.escapeHTML = false
	}
}

// jsonCodec implements facet.Codec for JSON.
type jsonCodec struct {
	indent     string
	escapeHTML bool
}

// New returns a JSON codec.
func New(opts ...Option) facet.Codec {
	c := &jsonCodec{escapeHTML: true}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ContentType returns the MIME type for JSON.
func (c *jsonCodec) ContentType() string {
	return "application/json"
}

// Marshal encodes v as JSON. Map keys are emitted in sorted order.
func (c *jsonCodec) Marshal(v any) ([]byte, error) {
	if c.indent == "" && c.escapeHTML {
		return json.Marshal(v)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(c.escapeHTML)
	if c.indent != "" {
		enc.SetIndent("", c.indent)
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Unmarshal decodes JSON data into v.
func (c *jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
