package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"order_kiosk/internal/models"
	"order_kiosk/internal/store"
)

func TestOrdersCSV(t *testing.T) {
	v := store.View{
		Session: models.Session{SessionID: "20260901-100000"},
		Orders: []models.Order{{
			OrderNo: "0001",
			Status:  models.OrderCreated,
			TS:      1756717200,
			Items: []models.LineItem{
				{SKU: "M001", Name: "Classic Burger", Qty: 2, UnitPriceApplied: 400, PriceMode: "presale", Kind: "MAIN"},
				{SKU: "S001", Name: "Cola", Qty: 2, UnitPriceApplied: 100, Kind: "SIDE_AS_SET"},
			},
		}},
		ArchivedOrders: []models.ArchivedOrder{{
			Order: models.Order{
				OrderNo: "0002",
				Status:  models.OrderCancelled,
				TS:      1756717300,
				Items:   []models.LineItem{{SKU: "S005", Name: "Fries", Qty: 1, UnitPriceApplied: 300, Kind: "SIDE_SINGLE"}},
			},
			SessionID: "20260831-090000",
		}},
	}

	var buf bytes.Buffer
	require.NoError(t, OrdersCSV(&buf, v))
	out := buf.Bytes()

	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, out[:3])
	body := string(out[3:])
	lines := strings.Split(strings.TrimRight(body, "\r\n"), "\r\n")
	require.Len(t, lines, 4, "header plus three item rows")
	assert.Equal(t, strings.Join(csvHeader, ","), lines[0])
	assert.Equal(t, "1756717200,20260901-100000,0001,1,M001,Classic Burger,2,400,presale,MAIN,800,CREATED", lines[1])
	assert.Equal(t, "1756717300,20260831-090000,0002,1,S005,Fries,1,300,,SIDE_SINGLE,300,CANCELLED", lines[3])
}
