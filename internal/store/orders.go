package store

import (
	"fmt"
	"log"

	"github.com/shopspring/decimal"

	"order_kiosk/internal/models"
)

// OrderLine is one entry of a client order request.
type OrderLine struct {
	Type                string   `json:"type"` // SET | MAIN_SINGLE | SIDE_SINGLE
	Qty                 int      `json:"qty"`
	MainSKU             string   `json:"mainSku,omitempty"`
	SideSKUs            []string `json:"sideSkus,omitempty"`
	PriceMode           string   `json:"priceMode,omitempty"`
	ChinchiroMultiplier *float64 `json:"chinchiroMultiplier,omitempty"`
	ChinchiroResult     string   `json:"chinchiroResult,omitempty"`
}

type OrderRequest struct {
	Lines []OrderLine `json:"lines"`
}

// BuildLines resolves a client request against the menu into priced line
// items. Unknown skus and category mismatches are skipped, not fatal; an
// empty result is a valid (zero-total) order.
func (s *Store) BuildLines(req OrderRequest) []models.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	var items []models.LineItem
	for _, line := range req.Lines {
		qty := line.Qty
		if qty <= 0 {
			qty = 1
		}
		switch line.Type {
		case "SET":
			main := s.findMenuLocked(line.MainSKU)
			if main == nil || main.Category != models.CategoryMain {
				log.Printf("[store] skipping SET line, bad main sku %q", line.MainSKU)
				continue
			}
			mode, base := resolveMainPrice(*main, line.PriceMode, s.settings.PresaleEnabled)
			items = append(items, models.LineItem{
				SKU: main.SKU, Name: main.Name, Qty: qty,
				UnitPrice: base, UnitPriceApplied: base,
				PriceMode: mode, Kind: "MAIN",
			})
			setSubtotal := base
			for _, sideSKU := range line.SideSKUs {
				side := s.findMenuLocked(sideSKU)
				if side == nil || side.Category != models.CategorySide {
					log.Printf("[store] skipping side sku %q", sideSKU)
					continue
				}
				items = append(items, models.LineItem{
					SKU: side.SKU, Name: side.Name, Qty: qty,
					UnitPrice: side.PriceAsSide, UnitPriceApplied: side.PriceAsSide,
					Kind: "SIDE_AS_SET",
				})
				setSubtotal += side.PriceAsSide
			}
			if adj := s.chinchiroLineLocked(line, setSubtotal, qty); adj != nil {
				items = append(items, *adj)
			}
		case "MAIN_SINGLE":
			main := s.findMenuLocked(line.MainSKU)
			if main == nil || main.Category != models.CategoryMain {
				log.Printf("[store] skipping MAIN_SINGLE line, bad sku %q", line.MainSKU)
				continue
			}
			mode, base := resolveMainPrice(*main, line.PriceMode, s.settings.PresaleEnabled)
			items = append(items, models.LineItem{
				SKU: main.SKU, Name: main.Name, Qty: qty,
				UnitPrice: base, UnitPriceApplied: base,
				PriceMode: mode, Kind: "MAIN_SINGLE",
			})
		case "SIDE_SINGLE":
			var sku string
			if len(line.SideSKUs) > 0 {
				sku = line.SideSKUs[0]
			} else {
				sku = line.MainSKU
			}
			side := s.findMenuLocked(sku)
			if side == nil || side.Category != models.CategorySide {
				log.Printf("[store] skipping SIDE_SINGLE line, bad sku %q", sku)
				continue
			}
			items = append(items, models.LineItem{
				SKU: side.SKU, Name: side.Name, Qty: qty,
				UnitPrice: side.PriceSingle, UnitPriceApplied: side.PriceSingle,
				Kind: "SIDE_SINGLE",
			})
		}
	}
	return items
}

func resolveMainPrice(m models.MenuItem, requestedMode string, presaleEnabled bool) (string, int) {
	if requestedMode == "presale" && presaleEnabled {
		return "presale", m.PresalePrice()
	}
	return "normal", m.PriceNormal
}

func (s *Store) chinchiroLineLocked(line OrderLine, setSubtotal, qty int) *models.LineItem {
	if !s.settings.Chinchiro.Enabled || line.ChinchiroMultiplier == nil {
		return nil
	}
	multiplier := *line.ChinchiroMultiplier
	if multiplier == 1.0 {
		return nil
	}
	adjustment := chinchiroAdjustment(setSubtotal, multiplier, s.settings.Chinchiro.Rounding)
	if adjustment == 0 {
		return nil
	}
	result := line.ChinchiroResult
	if result == "" {
		result = fmt.Sprintf("%.2fx", multiplier)
	}
	return &models.LineItem{
		SKU:  "CHINCHIRO_ADJUST",
		Name: fmt.Sprintf("Chinchiro (%s)", result),
		Qty:  qty, Kind: "ADJUST",
		UnitPrice: adjustment, UnitPriceApplied: adjustment,
	}
}

// chinchiroAdjustment computes subtotal*(multiplier-1) in exact decimal so
// half multipliers round deterministically under all three modes.
func chinchiroAdjustment(setSubtotal int, multiplier float64, rounding string) int {
	raw := decimal.NewFromInt(int64(setSubtotal)).
		Mul(decimal.NewFromFloat(multiplier).Sub(decimal.NewFromInt(1)))
	switch rounding {
	case "floor":
		return int(raw.Floor().IntPart())
	case "ceil":
		return int(raw.Ceil().IntPart())
	default:
		return int(raw.Round(0).IntPart())
	}
}

// CreateOrder assigns the next order number and appends the order. A
// syntactically valid line list never fails; an empty list yields a
// zero-total order on purpose.
func (s *Store) CreateOrder(lines []models.LineItem) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	order := models.Order{
		OrderNo: s.allocateOrderNoLocked(),
		Status:  models.OrderCreated,
		TS:      s.now().Unix(),
		Items:   lines,
	}
	s.orders = append(s.orders, order)
	s.applySaleLocked(order)

	rec := walRecord{Action: actionOrderCreate, OrderNo: order.OrderNo, Order: &order}
	return copyOrder(order), s.commitLocked(rec)
}

// allocateOrderNoLocked hands out the next zero-padded number, wrapping
// from numbering.max back to numbering.min and skipping numbers still held
// by a live or archived order.
func (s *Store) allocateOrderNoLocked() string {
	min, max := s.settings.Numbering.Min, s.settings.Numbering.Max
	if min <= 0 {
		min = 1
	}
	if max < min {
		max = 9999
	}
	width := len(fmt.Sprintf("%d", max))

	seq := s.session.NextOrderSeq
	if seq < min || seq > max {
		seq = min
	}
	for i := 0; i <= max-min; i++ {
		candidate := fmt.Sprintf("%0*d", width, seq)
		seq++
		if seq > max {
			seq = min
		}
		if s.findLiveLocked(candidate) == nil && s.findArchivedLocked(candidate) == nil {
			s.session.NextOrderSeq = seq
			return candidate
		}
	}
	// Every number in the range is taken; reuse is unavoidable.
	s.session.NextOrderSeq = seq
	return fmt.Sprintf("%0*d", width, max)
}

// CancelOrder marks a live or archived order CANCELLED and moves its amount
// from revenue to cancelledAmount.
func (s *Store) CancelOrder(orderNo, reason string) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	target := s.findLiveLocked(orderNo)
	archived := false
	if target == nil {
		if a := s.findArchivedLocked(orderNo); a != nil {
			target = &a.Order
			archived = true
		}
	}
	if target == nil {
		return models.Order{}, ErrOrderNotFound
	}
	if target.Status == models.OrderCancelled {
		return models.Order{}, ErrOrderCancelled
	}

	target.Status = models.OrderCancelled
	target.CancelReason = reason
	s.applyCancellationLocked(*target)

	rec := walRecord{Action: actionOrderCancel, OrderNo: orderNo, Reason: reason, Archived: archived}
	return copyOrder(*target), s.commitLocked(rec)
}

// UpdateOrderStatus applies a status change plus the pickup-flow flag
// mapping the call screens rely on. PICKED (and READY) archives the order.
func (s *Store) UpdateOrderStatus(orderNo, status string) (models.Order, error) {
	if orderNo == "" {
		return models.Order{}, fmt.Errorf("%w: missing orderNo", ErrValidation)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	target := s.findLiveLocked(orderNo)
	if target == nil {
		return models.Order{}, ErrOrderNotFound
	}
	switch status {
	case "DONE", "COOKED":
		target.Cooked = true
		target.PickupCalled = true
	case "READY", "PICKED":
		target.PickedUp = true
		target.PickupCalled = false
	case "PRINTED":
		target.Printed = true
	case string(models.OrderCancelled):
		target.Status = models.OrderCancelled
		s.applyCancellationLocked(*target)
	}

	updated := copyOrder(*target)
	rec := walRecord{Action: actionOrderUpdate, OrderNo: orderNo, Status: status, Order: &updated}
	err := s.commitLocked(rec)
	if updated.PickedUp {
		s.archiveLocked(orderNo)
	}
	return updated, err
}

// MarkCooked flags an order cooked and puts it on the pickup call list.
func (s *Store) MarkCooked(orderNo string) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	target := s.findLiveLocked(orderNo)
	if target == nil {
		return models.Order{}, ErrOrderNotFound
	}
	target.Cooked = true
	target.PickupCalled = true

	updated := copyOrder(*target)
	rec := walRecord{Action: actionOrderCooked, OrderNo: orderNo}
	return updated, s.commitLocked(rec)
}

// MarkPicked flags the handover complete and archives the order.
func (s *Store) MarkPicked(orderNo string) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	target := s.findLiveLocked(orderNo)
	if target == nil {
		return models.Order{}, ErrOrderNotFound
	}
	target.PickedUp = true
	target.PickupCalled = false

	updated := copyOrder(*target)
	rec := walRecord{Action: actionOrderPicked, OrderNo: orderNo}
	err := s.commitLocked(rec)
	s.archiveLocked(orderNo)
	return updated, err
}

// ArchiveOnPickup moves an order from the live list into the archive.
// The second call for the same number returns false and changes nothing.
func (s *Store) ArchiveOnPickup(orderNo string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.archiveLocked(orderNo)
}

func (s *Store) archiveLocked(orderNo string) bool {
	for i := range s.orders {
		if s.orders[i].OrderNo == orderNo {
			s.archived = append(s.archived, models.ArchivedOrder{
				Order:      copyOrder(s.orders[i]),
				SessionID:  s.session.SessionID,
				ArchivedAt: s.now().Unix(),
			})
			s.orders = append(s.orders[:i], s.orders[i+1:]...)
			s.snapshotSaveLocked()
			return true
		}
	}
	return false
}

// CallList returns orders currently being called for pickup.
func (s *Store) CallList() []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	var called []models.Order
	for _, o := range s.orders {
		if o.PickupCalled {
			called = append(called, copyOrder(o))
		}
	}
	return called
}
