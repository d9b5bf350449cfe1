package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/inventory"
)

func TestNormalizeSKU(t *testing.T) {
	cases := map[string]string{
		"  lap-001 ": "LAP-001",
		"abc":        "ABC",
		"señal-1":    "SEÑAL-1",
		"ÿ":          "Ÿ",
	}
	for in, want := range cases {
		assert.Equal(t, want, inventory.NormalizeSKU(in), in)
	}
}

func TestStockStatus(t *testing.T) {
	tests := []struct {
		qty, min int
		want     string
	}{
		{0, 5, entity.StockStatusOut},
		{0, 0, entity.StockStatusOut},
		{1, 5, entity.StockStatusLow},
		{5, 5, entity.StockStatusLow},
		{6, 5, entity.StockStatusIn},
		{1, 0, entity.StockStatusIn},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, inventory.StockStatus(tt.qty, tt.min), "qty=%d min=%d", tt.qty, tt.min)
	}
	assert.True(t, inventory.IsAlert(3, 5))
	assert.False(t, inventory.IsAlert(10, 5))
}

func TestMargin(t *testing.T) {
	d := decimal.RequireFromString
	assert.True(t, d("25").Equal(inventory.Margin(d("100"), d("75"))))
	assert.True(t, d("33.33").Equal(inventory.Margin(d("3"), d("2"))))
	assert.True(t, decimal.Zero.Equal(inventory.Margin(decimal.Zero, d("10"))))
	assert.True(t, d("-50").Equal(inventory.Margin(d("10"), d("15"))))
}

func TestStockValue(t *testing.T) {
	d := decimal.RequireFromString
	assert.True(t, d("37.5").Equal(inventory.StockValue(3, d("12.5"))))
	assert.True(t, d("0.33").Equal(inventory.StockValue(1, d("0.333"))))
	assert.True(t, decimal.Zero.Equal(inventory.StockValue(0, d("99.99"))))
}
