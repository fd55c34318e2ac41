package pricing

import (
	"testing"

	"github.com/andersondev17/AMMAE-sub000/internal/catalog"
	"github.com/stretchr/testify/assert"
)

func TestResolve_RegularPrice(t *testing.T) {
	p := &catalog.Product{Price: 89000}
	assert.Equal(t, 89000.0, Resolve(p))
}

func TestResolve_SalePrice(t *testing.T) {
	sale := 59000.0
	p := &catalog.Product{Price: 89000, OnSale: true, SalePrice: &sale}
	assert.Equal(t, 59000.0, Resolve(p))
}

func TestResolve_SaleFlagWithoutSalePrice(t *testing.T) {
	// A dangling sale flag falls back to the base price instead of failing.
	p := &catalog.Product{Price: 89000, OnSale: true}
	assert.Equal(t, 89000.0, Resolve(p))
}

func TestResolve_SalePriceIgnoredWhenNotOnSale(t *testing.T) {
	sale := 59000.0
	p := &catalog.Product{Price: 89000, OnSale: false, SalePrice: &sale}
	assert.Equal(t, 89000.0, Resolve(p))
}
