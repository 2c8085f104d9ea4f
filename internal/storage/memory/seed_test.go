package memory

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeSeedAndApply(t *testing.T) {
	seed, err := DecodeSeed(strings.NewReader(`{
		"users": ["u-1"],
		"products": [
			{"id": "p-mug", "name": "Mug", "price": "9.90", "stock": 3},
			{"id": "p-tee", "name": "Tee", "price": "19.00", "variants": [{"variant": "M", "stock": 2}]},
			{"id": "p-old", "name": "Old", "price": "1", "active": false, "stock": 1}
		],
		"carts": {"u-1": [{"product_id": "p-mug", "quantity": 1}]}
	}`))
	require.NoError(t, err)

	s := NewStore()
	s.Apply(seed)
	ctx := context.Background()

	exists, err := s.Users().Exists(ctx, "u-1")
	require.NoError(t, err)
	assert.True(t, exists)

	tee, err := s.Inventory().Product(ctx, "p-tee")
	require.NoError(t, err)
	assert.True(t, tee.HasVariants())
	assert.True(t, tee.Active)
	assert.Equal(t, "19", tee.Price.String())

	old, err := s.Inventory().Product(ctx, "p-old")
	require.NoError(t, err)
	assert.False(t, old.Active)

	cart, err := s.Carts().Get(ctx, "u-1")
	require.NoError(t, err)
	assert.Len(t, cart, 1)
}

func TestDecodeSeed_RejectsInvalidStock(t *testing.T) {
	tests := map[string]string{
		"negative": `{"products":[{"id":"p","stock":-1}]}`,
		"both":     `{"products":[{"id":"p","stock":1,"variants":[{"variant":"M","stock":1}]}]}`,
		"no id":    `{"products":[{"stock":1}]}`,
		"unknown":  `{"catalog":[]}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeSeed(strings.NewReader(body))
			assert.Error(t, err)
		})
	}
}
