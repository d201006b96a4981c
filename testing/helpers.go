// Package testing provides test utilities for facet.
package testing

import (
	"context"
	"reflect"
	"sync/atomic"
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/zoobzio/facet"
)

// TestKey returns a valid 32-byte AES key for testing.
func TestKey(tb testing.TB) []byte {
	tb.Helper()
	return []byte("32-byte-key-for-aes-256-encrypt!")
}

// TestEncryptor returns an AES encryptor configured for testing.
func TestEncryptor(tb testing.TB) facet.Encryptor {
	tb.Helper()
	enc, err := facet.AES(TestKey(tb))
	if err != nil {
		tb.Fatalf("AES() error: %v", err)
	}
	return enc
}

// Person returns a map-backed model with first_name, last_name and city.
func Person(first, last, city string) *facet.Attributes {
	return facet.NewAttributes(map[string]any{
		"first_name": first,
		"last_name":  last,
		"city":       city,
	})
}

// People returns two distinct Person models.
func People() []facet.Model {
	return []facet.Model{
		Person("John", "Doe", "New Jersey"),
		Person("Jane", "Roe", "Boston"),
	}
}

// SanitizedUser is a struct model with a field hidden by default.
type SanitizedUser struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Password string `json:"password" facet:"hidden"`
	SSN      string `json:"ssn"`
	Note     string `json:"note"`
}

// HeadsOrTails is the extra construction argument CoinResource requires.
type HeadsOrTails struct {
	Side string
}

// Head returns the side the coin landed on.
func (h *HeadsOrTails) Head() string { return h.Side }

// CoinResource is a resource that adds coin_side to the wrapped model's output.
type CoinResource struct {
	*facet.Resource
	Coin *HeadsOrTails
}

// NewCoinResource wraps v.
func NewCoinResource(v any, coin *HeadsOrTails) *CoinResource {
	return &CoinResource{Resource: facet.NewResource(v), Coin: coin}
}

// ToArray adds coin_side on top of the embedded resource output.
func (c *CoinResource) ToArray(ctx context.Context) (map[string]any, error) {
	data, err := c.Resource.ToArray(ctx)
	if err != nil {
		return nil, err
	}
	data["coin_side"] = c.Coin.Head()
	return data, nil
}

// RegisterCoin registers CoinResource under "coin" with arity 1 and clears
// the registry when the test ends.
func RegisterCoin(tb testing.TB) {
	tb.Helper()
	facet.Register("coin", 1, func(item any, args ...any) (*CoinResource, error) {
		if err := facet.Expect("coin", args[0], reflect.TypeFor[*HeadsOrTails]()); err != nil {
			return nil, err
		}
		return NewCoinResource(item, args[0].(*HeadsOrTails)), nil
	})
	tb.Cleanup(facet.Reset)
}

// PolicySpy is a fixed policy that counts how often it is consulted.
type PolicySpy struct {
	Hidden  []string
	Visible []string
	calls   atomic.Int64
}

// HiddenFields implements facet.Policy.
func (p *PolicySpy) HiddenFields(facet.Model) mapset.Set[string] {
	p.calls.Add(1)
	return mapset.NewSet(p.Hidden...)
}

// VisibleFields implements facet.Policy.
func (p *PolicySpy) VisibleFields(facet.Model) mapset.Set[string] {
	return mapset.NewSet(p.Visible...)
}

// Calls returns how many models the policy was applied to.
func (p *PolicySpy) Calls() int { return int(p.calls.Load()) }

// TransformerSpy passes data through unchanged and counts invocations.
type TransformerSpy struct {
	calls atomic.Int64
}

// Transform implements facet.Transformer.
func (s *TransformerSpy) Transform(_ context.Context, _ any, data map[string]any) (map[string]any, error) {
	s.calls.Add(1)
	return data, nil
}

// Calls returns how many times Transform ran.
func (s *TransformerSpy) Calls() int { return int(s.calls.Load()) }
