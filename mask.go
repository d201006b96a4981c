package facet

import (
	"strings"
	"unicode"
)

// MaskType represents a known data format with masking rules.
type MaskType string

const (
	MaskSSN   MaskType = "ssn"   // 123-45-6789 -> ***-**-6789
	MaskEmail MaskType = "email" // alice@example.com -> a***@example.com
	MaskPhone MaskType = "phone" // (555) 123-4567 -> (***) ***-4567
	MaskCard  MaskType = "card"  // 4111111111111111 -> ************1111
	MaskName  MaskType = "name"  // John Smith -> J*** S****
)

// Masker applies content-aware masking.
type Masker interface {
	Mask(value string) string
}

// MaskerFunc adapts a function to the Masker interface.
type MaskerFunc func(value string) string

// Mask calls fn.
func (fn MaskerFunc) Mask(value string) string { return fn(value) }

// builtinMaskers returns the default masker registry.
func builtinMaskers() map[MaskType]Masker {
	return map[MaskType]Masker{
		MaskSSN:   MaskerFunc(maskSSN),
		MaskEmail: MaskerFunc(maskEmail),
		MaskPhone: MaskerFunc(maskPhone),
		MaskCard:  MaskerFunc(maskCard),
		MaskName:  MaskerFunc(maskName),
	}
}

// IsValidMaskType reports whether mt names a builtin masker.
func IsValidMaskType(mt MaskType) bool {
	_, ok := builtinMaskers()[mt]
	return ok
}

// MaskerFor returns the builtin masker for mt.
func MaskerFor(mt MaskType) (Masker, bool) {
	m, ok := builtinMaskers()[mt]
	return m, ok
}

func maskSSN(value string) string {
	digits := extractDigits(value)
	if len(digits) < 4 {
		return strings.Repeat("*", len(value))
	}
	return "***-**-" + digits[len(digits)-4:]
}

func maskEmail(value string) string {
	at := strings.LastIndex(value, "@")
	if at < 1 {
		return strings.Repeat("*", len(value))
	}
	return value[:1] + "***" + value[at:]
}

func maskPhone(value string) string {
	digits := extractDigits(value)
	if len(digits) < 4 {
		return strings.Repeat("*", len(value))
	}
	last4 := digits[len(digits)-4:]
	switch {
	case strings.HasPrefix(value, "(") && len(digits) >= 10:
		return "(***) ***-" + last4
	case len(digits) >= 10:
		return "***-***-" + last4
	default:
		return "***-" + last4
	}
}

func maskCard(value string) string {
	digits := extractDigits(value)
	if len(digits) < 4 {
		return strings.Repeat("*", len(value))
	}
	last4 := digits[len(digits)-4:]
	groups := (len(digits) - 4 + 3) / 4
	switch {
	case strings.Contains(value, " "):
		return strings.Repeat("**** ", groups) + last4
	case strings.Contains(value, "-"):
		return strings.Repeat("****-", groups) + last4
	default:
		return strings.Repeat("*", len(digits)-4) + last4
	}
}

// maskName keeps the first letter of each word.
func maskName(value string) string {
	words := strings.Fields(value)
	for i, w := range words {
		r := []rune(w)
		words[i] = string(r[0]) + strings.Repeat("*", len(r)-1)
	}
	return strings.Join(words, " ")
}

func extractDigits(s string) string {
	var digits strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			digits.WriteRune(r)
		}
	}
	return digits.String()
}
