package models

type OrderStatus string

const (
	OrderCreated   OrderStatus = "CREATED"
	OrderCancelled OrderStatus = "CANCELLED"
)

// LineItem is frozen at order time: menu edits never re-price existing orders.
type LineItem struct {
	SKU              string `json:"sku"`
	Name             string `json:"name"`
	Qty              int    `json:"qty"`
	UnitPrice        int    `json:"unitPrice"`
	UnitPriceApplied int    `json:"unitPriceApplied"`
	PriceMode        string `json:"priceMode,omitempty"` // "normal" | "presale" | ""
	Kind             string `json:"kind"`                // MAIN | SIDE_AS_SET | SIDE_SINGLE | MAIN_SINGLE | ADJUST
	DiscountName     string `json:"discountName,omitempty"`
	DiscountValue    int    `json:"discountValue,omitempty"`
}

// ResolvedUnitPrice picks the applied override first, then the list price.
func (li LineItem) ResolvedUnitPrice() int {
	if li.UnitPriceApplied != 0 {
		return li.UnitPriceApplied
	}
	return li.UnitPrice
}

func (li LineItem) LineTotal() int {
	qty := li.Qty
	if qty <= 0 {
		qty = 1
	}
	discount := li.DiscountValue
	if discount < 0 {
		discount = 0
	}
	return li.ResolvedUnitPrice()*qty - discount
}

type Order struct {
	OrderNo      string      `json:"orderNo"`
	Status       OrderStatus `json:"status"`
	TS           int64       `json:"ts"`
	Printed      bool        `json:"printed"`
	Cooked       bool        `json:"cooked"`
	PickupCalled bool        `json:"pickup_called"`
	PickedUp     bool        `json:"picked_up"`
	CancelReason string      `json:"cancelReason,omitempty"`
	Items        []LineItem  `json:"items"`
}

func (o Order) Total() int {
	total := 0
	for _, li := range o.Items {
		total += li.LineTotal()
	}
	return total
}

// ArchivedOrder is an Order after pickup, moved out of the live list.
type ArchivedOrder struct {
	Order
	SessionID  string `json:"sessionId"`
	ArchivedAt int64  `json:"archivedAt"`
}
