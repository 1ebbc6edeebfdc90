package models

type Category string

const (
	CategoryMain Category = "MAIN"
	CategorySide Category = "SIDE"
)

type MenuItem struct {
	SKU        string   `json:"sku"`
	Name       string   `json:"name"`
	NameRomaji string   `json:"nameRomaji"`
	Category   Category `json:"category"`
	Active     bool     `json:"active"`
	// MAIN pricing
	PriceNormal           int `json:"price_normal"`
	PricePresale          int `json:"price_presale"`            // 0 means unset
	PresaleDiscountAmount int `json:"presale_discount_amount"`  // e.g. -100
	// SIDE pricing
	PriceSingle int `json:"price_single"`
	PriceAsSide int `json:"price_as_side"`
}

// PresalePrice resolves the presale unit price: an explicit presale price wins,
// otherwise the normal price plus the (negative) presale discount.
func (m MenuItem) PresalePrice() int {
	if m.PricePresale > 0 {
		return m.PricePresale
	}
	return m.PriceNormal + m.PresaleDiscountAmount
}
