package facet

import (
	"context"
	"time"
)

// Codec provides content-type aware marshaling.
type Codec interface {
	// ContentType returns the MIME type for this codec (e.g., "application/json").
	ContentType() string

	// Marshal encodes v into bytes.
	Marshal(v any) ([]byte, error)

	// Unmarshal decodes data into v.
	Unmarshal(data []byte, v any) error
}

// DefaultWrap is the key serialized output is nested under.
const DefaultWrap = "data"

type marshalConfig struct {
	wrap string
}

// MarshalOption configures Marshal.
type MarshalOption func(*marshalConfig)

// WithWrap nests output under key.
func WithWrap(key string) MarshalOption {
	return func(c *marshalConfig) {
		c.wrap = key
	}
}

// WithoutWrapping encodes output at the top level.
func WithoutWrapping() MarshalOption {
	return func(c *marshalConfig) {
		c.wrap = ""
	}
}

// Marshal serializes v and encodes the result with codec.
//
// v is a Serializer (such as *Resource) or a *Collection. Output is nested
// under DefaultWrap unless configured otherwise; a single resource whose
// mapping already holds the wrap key is left as is.
func Marshal(ctx context.Context, codec Codec, v any, opts ...MarshalOption) ([]byte, error) {
	cfg := marshalConfig{wrap: DefaultWrap}
	for _, opt := range opts {
		opt(&cfg)
	}

	start := time.Now()
	var retErr error
	var retData []byte
	defer func() {
		emitMarshalComplete(ctx, codec.ContentType(), len(retData), time.Since(start), retErr)
	}()

	payload, err := Render(ctx, v, cfg.wrap)
	if err != nil {
		retErr = err
		return nil, retErr
	}

	data, err := codec.Marshal(payload)
	if err != nil {
		retErr = newCodecError(ErrMarshal, err)
		return nil, retErr
	}
	retData = data
	return retData, nil
}

// Render serializes v into the value Marshal would hand to a codec.
// An empty wrap disables wrapping.
func Render(ctx context.Context, v any, wrap string) (any, error) {
	switch s := v.(type) {
	case *Collection:
		items, err := s.ToArray(ctx)
		if err != nil {
			return nil, err
		}
		if wrap == "" {
			return items, nil
		}
		return map[string]any{wrap: items}, nil
	case Serializer:
		data, err := s.ToArray(ctx)
		if err != nil {
			return nil, err
		}
		if _, ok := data[wrap]; wrap == "" || ok {
			return data, nil
		}
		return map[string]any{wrap: data}, nil
	default:
		return nil, newTypeError("Marshal", v, "facet.Serializer")
	}
}

// Unmarshal decodes encoded output back into plain values, undoing the wrap
// when present. With an empty wrap the top level may be a mapping or a list,
// so unwrapped collections decode too.
func Unmarshal(codec Codec, data []byte, wrap string) (any, error) {
	if wrap == "" {
		var decoded any
		if err := codec.Unmarshal(data, &decoded); err != nil {
			return nil, newCodecError(ErrUnmarshal, err)
		}
		return decoded, nil
	}

	var decoded map[string]any
	if err := codec.Unmarshal(data, &decoded); err != nil {
		return nil, newCodecError(ErrUnmarshal, err)
	}
	if inner, ok := decoded[wrap]; ok {
		return inner, nil
	}
	return decoded, nil
}
