package facet

import (
	"context"
	"encoding/base64"
	"fmt"
	"maps"
)

// rewriteField builds a transformer that rewrites one string field.
// Absent and nil fields are left alone; []byte values are treated as strings.
func rewriteField(name, field string, fn func(string) (string, error)) Transformer {
	return TransformerFunc(func(_ context.Context, _ any, data map[string]any) (map[string]any, error) {
		v, ok := data[field]
		if !ok || v == nil {
			return data, nil
		}

		var s string
		switch val := v.(type) {
		case string:
			s = val
		case []byte:
			s = string(val)
		default:
			return nil, newTransformError(ErrTransform, name, field, fmt.Errorf("expected string, got %T", v))
		}

		rewritten, err := fn(s)
		if err != nil {
			return nil, newTransformError(ErrTransform, name, field, err)
		}

		out := maps.Clone(data)
		out[field] = rewritten
		return out, nil
	})
}

// Require fails serialization when field is absent.
func Require(fields ...string) Transformer {
	return TransformerFunc(func(_ context.Context, _ any, data map[string]any) (map[string]any, error) {
		for _, f := range fields {
			if _, ok := data[f]; !ok {
				return nil, newTransformError(ErrMissingField, "require", f, nil)
			}
		}
		return data, nil
	})
}

// rejectField builds a transformer that always fails for field.
// It stands in for a field transformer configured with an unknown builtin.
func rejectField(name, field string, cause error) Transformer {
	return TransformerFunc(func(context.Context, any, map[string]any) (map[string]any, error) {
		return nil, newTransformError(ErrTransform, name, field, cause)
	})
}

// Mask applies a builtin masker to field. An unknown mask type fails every
// serialization, whether or not field is present.
func Mask(field string, mt MaskType) Transformer {
	if !IsValidMaskType(mt) {
		return rejectField("mask", field, fmt.Errorf("unknown mask type %q", mt))
	}
	masker, _ := MaskerFor(mt)
	return MaskWith(field, masker)
}

// MaskWith applies a custom masker to field.
func MaskWith(field string, m Masker) Transformer {
	return rewriteField("mask", field, func(s string) (string, error) {
		return m.Mask(s), nil
	})
}

// Redact replaces the value of field with replacement.
func Redact(field, replacement string) Transformer {
	return rewriteField("redact", field, func(string) (string, error) {
		return replacement, nil
	})
}

// Hash replaces field with its digest under a builtin algorithm. An unknown
// algorithm fails every serialization, whether or not field is present.
func Hash(field string, algo HashAlgo) Transformer {
	if !IsValidHashAlgo(algo) {
		return rejectField("hash", field, fmt.Errorf("unknown hash algorithm %q", algo))
	}
	hasher, _ := HasherFor(algo)
	return HashWith(field, hasher)
}

// HashWith replaces field with its digest under h.
func HashWith(field string, h Hasher) Transformer {
	return rewriteField("hash", field, h.Hash)
}

// Encrypt replaces field with its base64-encoded ciphertext.
func Encrypt(field string, enc Encryptor) Transformer {
	return rewriteField("encrypt", field, func(s string) (string, error) {
		ciphertext, err := enc.Encrypt([]byte(s))
		if err != nil {
			return "", err
		}
		return base64.StdEncoding.EncodeToString(ciphertext), nil
	})
}

// Decrypt reverses Encrypt.
func Decrypt(field string, enc Encryptor) Transformer {
	return rewriteField("decrypt", field, func(s string) (string, error) {
		ciphertext, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return "", fmt.Errorf("base64 decode: %w", err)
		}
		plaintext, err := enc.Decrypt(ciphertext)
		if err != nil {
			return "", err
		}
		return string(plaintext), nil
	})
}
