// Package export produces the end-of-day data files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"order_kiosk/internal/models"
	"order_kiosk/internal/store"
)

var csvHeader = []string{
	"ts", "sessionId", "orderNo", "lineNo", "sku", "name", "qty",
	"unitPriceApplied", "priceMode", "kind", "lineTotal", "status",
}

// OrdersCSV writes every order of the view, live and archived, one row
// per line item. UTF-8 BOM plus CRLF so spreadsheet tools open it
// without an import dialog.
func OrdersCSV(w io.Writer, v store.View) error {
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, o := range v.Orders {
		if err := writeOrder(cw, o, v.Session.SessionID); err != nil {
			return err
		}
	}
	for _, a := range v.ArchivedOrders {
		if err := writeOrder(cw, a.Order, a.SessionID); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeOrder(cw *csv.Writer, o models.Order, sessionID string) error {
	for i, item := range o.Items {
		row := []string{
			fmt.Sprintf("%d", o.TS),
			sessionID,
			o.OrderNo,
			fmt.Sprintf("%d", i+1),
			item.SKU,
			item.Name,
			fmt.Sprintf("%d", item.Qty),
			fmt.Sprintf("%d", item.ResolvedUnitPrice()),
			item.PriceMode,
			item.Kind,
			fmt.Sprintf("%d", item.LineTotal()),
			string(o.Status),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	return nil
}
