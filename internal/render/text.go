package render

import (
	"fmt"
	"strings"

	"order_kiosk/internal/models"
)

// TextTicket is the plain-text fallback printed when no raster path is
// available (missing font, printer stuck in text mode). ASCII only; the
// transport sanitizes anything wider.
func TextTicket(order models.Order, storeName string) string {
	sep := strings.Repeat("-", 24)
	var b strings.Builder
	if storeName != "" {
		b.WriteString(storeName)
		b.WriteByte('\n')
	}
	b.WriteString(sep)
	b.WriteByte('\n')
	fmt.Fprintf(&b, "Order No. %s\n", order.OrderNo)
	b.WriteString(sep)
	b.WriteByte('\n')
	for _, item := range order.Items {
		if item.Kind == "ADJUST" {
			continue
		}
		fmt.Fprintf(&b, "%s x%d  %d\n", item.Name, maxQty(item.Qty), item.LineTotal())
	}
	b.WriteString(sep)
	b.WriteByte('\n')
	fmt.Fprintf(&b, "TOTAL: %d YEN\n", order.Total())
	b.WriteString("Thank you!\n")
	return b.String()
}
