package store

import "order_kiosk/internal/models"

func (s *Store) applySaleLocked(o models.Order) {
	s.sales.ConfirmedOrders++
	s.sales.Revenue += o.Total()
	s.sales.LastUpdated = s.now().Unix()
}

func (s *Store) applyCancellationLocked(o models.Order) {
	amount := o.Total()
	s.sales.ConfirmedOrders--
	if s.sales.ConfirmedOrders < 0 {
		s.sales.ConfirmedOrders = 0
	}
	s.sales.Revenue -= amount
	if s.sales.Revenue < 0 {
		s.sales.Revenue = 0
	}
	s.sales.CancelledOrders++
	s.sales.CancelledAmount += amount
	s.sales.LastUpdated = s.now().Unix()
}

// SalesSummary returns the running aggregates.
func (s *Store) SalesSummary() models.SalesSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sales
}

// RecalculateSalesSummary rebuilds the aggregates from the order lists of
// the current session. Safe to call any number of times; the result only
// depends on the orders, not on the previous summary.
func (s *Store) RecalculateSalesSummary() models.SalesSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum := models.SalesSummary{LastUpdated: s.now().Unix()}
	tally := func(o models.Order) {
		if o.Status == models.OrderCancelled {
			sum.CancelledOrders++
			sum.CancelledAmount += o.Total()
			return
		}
		sum.ConfirmedOrders++
		sum.Revenue += o.Total()
	}
	for _, o := range s.orders {
		tally(o)
	}
	for _, a := range s.archived {
		if a.SessionID == s.session.SessionID {
			tally(a.Order)
		}
	}
	s.sales = sum
	s.snapshotSaveLocked()
	return sum
}
