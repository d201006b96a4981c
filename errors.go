package facet

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrTypeMismatch indicates a value does not satisfy the expected type or capability.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrArity indicates a factory needs more construction arguments than were captured.
	ErrArity = errors.New("invalid arguments count")

	// ErrUnknownType indicates the declared item type has no registered factory.
	ErrUnknownType = errors.New("unknown resource type")

	// ErrFactory indicates a registered factory rejected a raw item.
	ErrFactory = errors.New("factory failed")

	// ErrTransform indicates a transformer could not rewrite a field.
	ErrTransform = errors.New("transform failed")

	// ErrMissingField indicates a transformer required a field that was absent.
	ErrMissingField = errors.New("missing field")

	// ErrUnmarshal indicates the codec failed to unmarshal input data.
	ErrUnmarshal = errors.New("unmarshal failed")

	// ErrMarshal indicates the codec failed to marshal output data.
	ErrMarshal = errors.New("marshal failed")

	// ErrInvalidKeySize indicates an AES key that is not 16, 24 or 32 bytes.
	ErrInvalidKeySize = errors.New("invalid key size")

	// ErrCiphertextShort indicates ciphertext too short to hold its framing.
	ErrCiphertextShort = errors.New("ciphertext too short")

	// ErrDecryptionFailed indicates ciphertext that failed authentication.
	ErrDecryptionFailed = errors.New("decryption failed")
)

// TypeError reports a value of the wrong type passed into an operation.
type TypeError struct {
	Context  string // Operation or wrapper that received the value
	Actual   string // Observed type, "NULL" when absent
	Expected string // Type or capability that was required
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("invalid argument passed into %s: passed %s, but %s expected", e.Context, e.Actual, e.Expected)
}

func (e *TypeError) Unwrap() error {
	return ErrTypeMismatch
}

// MappingError represents a failure remapping raw items into typed resources.
type MappingError struct {
	Err   error  // Underlying sentinel error (ErrArity, ErrUnknownType)
	Type  string // Registered type name being collected
	Cause error  // Original error from the factory, if any
}

func (e *MappingError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("map into %s: %v", e.Type, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Type)
}

// Unwrap exposes both the sentinel and the factory cause to errors.Is.
func (e *MappingError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Err, e.Cause}
	}
	return []error{e.Err}
}

// TransformError represents an error during transformation of a serialized field.
type TransformError struct {
	Err         error  // Underlying sentinel error (ErrTransform, ErrMissingField)
	Transformer string // Transformer that failed (mask, hash, encrypt...)
	Field       string // Field name that failed
	Cause       error  // Original error from the underlying operation
}

func (e *TransformError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s field %s: %v", e.Transformer, e.Field, e.Cause)
	}
	return fmt.Sprintf("%s field %s: %s", e.Transformer, e.Field, e.Err.Error())
}

func (e *TransformError) Unwrap() error {
	return e.Err
}

// CodecError represents a marshal/unmarshal error.
type CodecError struct {
	Err   error // Underlying sentinel error (ErrMarshal, ErrUnmarshal)
	Cause error // Original error from the codec
}

func (e *CodecError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Err.Error(), e.Cause)
	}
	return e.Err.Error()
}

func (e *CodecError) Unwrap() error {
	return e.Err
}

// typeName renders the dynamic type of v, "NULL" when v is nil.
func typeName(v any) string {
	if v == nil {
		return "NULL"
	}
	return reflect.TypeOf(v).String()
}

// newTypeError creates a TypeError for the observed value.
func newTypeError(context string, actual any, expected string) error {
	return &TypeError{
		Context:  context,
		Actual:   typeName(actual),
		Expected: expected,
	}
}

// newMappingError creates a MappingError for remapping failures.
func newMappingError(sentinel error, typ string, cause error) error {
	return &MappingError{
		Err:   sentinel,
		Type:  typ,
		Cause: cause,
	}
}

// newTransformError creates a TransformError for field transformation failures.
func newTransformError(sentinel error, transformer, field string, cause error) error {
	return &TransformError{
		Err:         sentinel,
		Transformer: transformer,
		Field:       field,
		Cause:       cause,
	}
}

// newCodecError creates a CodecError for marshal/unmarshal failures.
func newCodecError(sentinel error, cause error) error {
	return &CodecError{
		Err:   sentinel,
		Cause: cause,
	}
}

// Expect returns a *TypeError unless v is assignable to one of the expected types.
// Interface types match when v implements them.
func Expect(context string, v any, expected ...reflect.Type) error {
	if v != nil {
		actual := reflect.TypeOf(v)
		for _, typ := range expected {
			if typ == nil {
				continue
			}
			if actual.AssignableTo(typ) {
				return nil
			}
		}
	}

	names := make([]string, 0, len(expected))
	for _, typ := range expected {
		if typ != nil {
			names = append(names, typ.String())
		}
	}
	return newTypeError(context, v, strings.Join(names, " nor "))
}
