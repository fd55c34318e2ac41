// Package pricing owns the single rule for what a catalog unit costs right
// now. Every subtotal in the cart and checkout flows goes through Resolve
// instead of re-reading the sale fields.
package pricing

import "github.com/andersondev17/AMMAE-sub000/internal/catalog"

// Resolve returns the effective unit price for a product. A sale flag
// without a sale price is treated as not on sale rather than an error.
func Resolve(p *catalog.Product) float64 {
	if p.OnSale && p.SalePrice != nil {
		return *p.SalePrice
	}
	return p.Price
}
