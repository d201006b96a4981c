// Package yaml provides a YAML codec for facet output.
package yaml

import (
	"bytes"

	"github.com/zoobzio/facet"
	"gopkg.in/yaml.v3"
)

// DefaultIndent is the number of spaces per nesting level.
const DefaultIndent = 2

// yamlCodec implements facet.Codec for YAML.
type yamlCodec struct {
	indent int
}

// New returns a YAML codec indenting by DefaultIndent.
func New() facet.Codec {
	return NewWithIndent(DefaultIndent)
}

// NewWithIndent returns a YAML codec indenting by spaces per level.
func NewWithIndent(spaces int) facet.Codec {
	if spaces <= 0 {
		spaces = DefaultIndent
	}
	return &yamlCodec{indent: spaces}
}

// ContentType returns the MIME type for YAML.
func (c *yamlCodec) ContentType() string {
	return "application/yaml"
}

// Marshal encodes v as YAML. Map keys are emitted in sorted order.
func (c *yamlCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(c.indent)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes YAML data into v.
func (c *yamlCodec) Unmarshal(data []byte, v any) error {
	return yaml.Unmarshal(data, v)
}
