// Package bson provides a BSON codec for facet output.
//
// BSON documents must be maps at the top level, so collections have to be
// marshaled with a wrap key.
package bson

import (
	"github.com/zoobzio/facet"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsonrw"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// bsonCodec implements facet.Codec for BSON.
type bsonCodec struct{}

// New returns a BSON codec.
func New() facet.Codec {
	return &bsonCodec{}
}

// ContentType returns the MIME type for BSON.
func (c *bsonCodec) ContentType() string {
	return "application/bson"
}

// Marshal encodes v as BSON.
func (c *bsonCodec) Marshal(v any) ([]byte, error) {
	return bson.Marshal(v)
}

// Unmarshal decodes BSON data into v. When v is a *map[string]any or *any,
// embedded documents and arrays come back as map[string]any and []any, the
// same shapes the other codecs produce.
func (c *bsonCodec) Unmarshal(data []byte, v any) error {
	dec, err := bson.NewDecoder(bsonrw.NewBSONDocumentReader(data))
	if err != nil {
		return err
	}
	dec.DefaultDocumentM()
	if err := dec.Decode(v); err != nil {
		return err
	}

	switch target := v.(type) {
	case *map[string]any:
		for k, val := range *target {
			(*target)[k] = plain(val)
		}
	case *any:
		*target = plain(*target)
	}
	return nil
}

// plain strips the driver's named document and array types.
func plain(v any) any {
	switch x := v.(type) {
	case primitive.M:
		return plainMap(x)
	case map[string]any:
		return plainMap(x)
	case primitive.D:
		out := make(map[string]any, len(x))
		for _, e := range x {
			out[e.Key] = plain(e.Value)
		}
		return out
	case primitive.A:
		return plainSlice(x)
	case []any:
		return plainSlice(x)
	default:
		return v
	}
}

func plainMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, val := range m {
		out[k] = plain(val)
	}
	return out
}

func plainSlice(s []any) []any {
	out := make([]any, len(s))
	for i, val := range s {
		out[i] = plain(val)
	}
	return out
}
