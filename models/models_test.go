package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestProduct_EffectivePrice(t *testing.T) {
	p := Product{Price: dec("120")}
	assert.Equal(t, "120.00", p.EffectivePrice().StringFixed(2))

	discount := dec("89.90")
	p.DiscountPrice = &discount
	assert.Equal(t, "89.90", p.EffectivePrice().StringFixed(2))
}

func TestProduct_VariantPrice(t *testing.T) {
	p := Product{
		Price: dec("50"),
		PriceModifiers: &PriceModifiers{
			Colors: map[string]decimal.Decimal{"gold": dec("15"), "clearance": dec("-80")},
			Sizes:  map[string]decimal.Decimal{"xl": dec("5")},
		},
	}

	tests := []struct {
		color, size string
		want        string
	}{
		{"", "", "50.00"},
		{"gold", "", "65.00"},
		{"gold", "xl", "70.00"},
		{"silver", "m", "50.00"},
		{"clearance", "xl", "0.00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, p.VariantPrice(tt.color, tt.size).StringFixed(2), "%s/%s", tt.color, tt.size)
	}

	plain := Product{Price: dec("10")}
	assert.True(t, plain.ColorDelta("gold").IsZero())
	assert.True(t, plain.SizeDelta("xl").IsZero())
	assert.Equal(t, "10.00", plain.VariantPrice("gold", "xl").StringFixed(2))
}

func TestProduct_Colors(t *testing.T) {
	p := Product{
		Colors:        []Color{{Id: "red"}, {Id: "blue"}},
		Images:        []string{"base.jpg"},
		ColorVariants: map[string][]string{"red": {"red-1.jpg", "red-2.jpg"}, "blue": {}},
	}

	assert.True(t, p.HasColor("red"))
	assert.False(t, p.HasColor("green"))
	assert.True(t, p.HasAnyColor([]string{"green", "blue"}))
	assert.False(t, p.HasAnyColor(nil))

	assert.Equal(t, []string{"red-1.jpg", "red-2.jpg"}, p.VariantImages("red"))
	assert.Equal(t, []string{"base.jpg"}, p.VariantImages("blue"))
	assert.Equal(t, []string{"base.jpg"}, p.VariantImages(""))
}

func TestProductDb_ToProduct(t *testing.T) {
	pct := int64(25)
	row := Product_db{
		Id:              "p1",
		Name:            "Linen Shirt",
		Price:           dec("80"),
		DiscountPrice:   decimal.NullDecimal{Decimal: dec("60"), Valid: true},
		DiscountPercent: &pct,
		Colors:          []byte(`[{"id":"red","name":"Red","hex":"#ff0000"}]`),
		PriceModifiers:  []byte(`{"colors":{"red":"4.50"}}`),
		Images:          []byte(`["/img/p1.jpg"]`),
		Sizes:           []byte("null"),
		InStock:         true,
	}

	p, err := row.ToProduct()
	require.NoError(t, err)
	assert.Equal(t, "60.00", p.EffectivePrice().StringFixed(2))
	require.NotNil(t, p.DiscountPercent)
	assert.Equal(t, 25, *p.DiscountPercent)
	assert.True(t, p.HasColor("red"))
	assert.Nil(t, p.Sizes)
	assert.Nil(t, p.ColorVariants)
	assert.Equal(t, "64.50", p.VariantPrice("red", "").StringFixed(2))

	row.Colors = []byte(`{broken`)
	_, err = row.ToProduct()
	assert.Error(t, err)
}
