package catalog

import "time"

// Product is a catalog entry as stored in MongoDB. Wire field names follow
// the storefront's existing collections, which are in Spanish.
type Product struct {
	ID        string    `bson:"_id,omitempty" json:"_id"`
	Name      string    `bson:"nombre" json:"nombre"`
	Category  string    `bson:"categoria" json:"categoria"`
	Price     float64   `bson:"precio" json:"precio"`
	OnSale    bool      `bson:"enOferta" json:"enOferta"`
	SalePrice *float64  `bson:"precioOferta,omitempty" json:"precioOferta,omitempty"`
	Stock     int       `bson:"stock" json:"stock"`
	Sizes     []string  `bson:"tallas" json:"tallas"`
	Colors    []string  `bson:"colores" json:"colores"`
	Images    []string  `bson:"imagenes" json:"imagenes"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// HasSize reports whether s is one of the product's valid sizes.
// A product without sizes accepts only the empty selection.
func (p *Product) HasSize(s string) bool {
	if len(p.Sizes) == 0 {
		return s == ""
	}
	for _, valid := range p.Sizes {
		if valid == s {
			return true
		}
	}
	return false
}

// HasColor reports whether c is one of the product's valid colors.
func (p *Product) HasColor(c string) bool {
	if len(p.Colors) == 0 {
		return c == ""
	}
	for _, valid := range p.Colors {
		if valid == c {
			return true
		}
	}
	return false
}
