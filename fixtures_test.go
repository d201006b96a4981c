package facet

import (
	"context"
	"errors"
)

// headsOrTails is the extra construction argument of coinResource.
type headsOrTails struct {
	side string
}

func newHeadsOrTails() *headsOrTails { return &headsOrTails{side: "heads"} }

func (h *headsOrTails) Head() string { return h.side }

// coinResource adds coin_side on top of the embedded resource output.
type coinResource struct {
	*Resource
	coin *headsOrTails
}

func newCoinResource(v any, coin *headsOrTails) *coinResource {
	return &coinResource{Resource: NewResource(v), coin: coin}
}

func (c *coinResource) ToArray(ctx context.Context) (map[string]any, error) {
	data, err := c.Resource.ToArray(ctx)
	if err != nil {
		return nil, err
	}
	data["coin_side"] = c.coin.Head()
	return data, nil
}

// registerCoin registers coinResource under "coin" with arity 1.
func registerCoin() {
	Register("coin", 1, func(item any, args ...any) (*coinResource, error) {
		coin, ok := args[0].(*headsOrTails)
		if !ok {
			return nil, errors.New("coin argument must be *headsOrTails")
		}
		return newCoinResource(item, coin), nil
	})
}

// newPerson builds the John Doe model used across tests.
func newPerson() *Attributes {
	return NewAttributes(map[string]any{
		"first_name": "John",
		"last_name":  "Doe",
		"city":       "New Jersey",
	})
}

func setTest(value string) Transformer {
	return Set("test", value)
}
