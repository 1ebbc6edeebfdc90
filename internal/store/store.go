package store

import (
	"fmt"
	"os"
	"sync"
	"time"

	"order_kiosk/internal/models"
)

// Store owns the authoritative in-memory state. Every mutating operation
// runs under one exclusive lock and, before releasing it, appends a WAL
// record and rewrites the snapshot, so concurrent readers only ever observe
// fully pre- or post-mutation state.
type Store struct {
	mu  sync.Mutex
	dir string
	now func() time.Time

	menu        []models.MenuItem
	orders      []models.Order
	archived    []models.ArchivedOrder
	settings    models.Settings
	session     models.Session
	printer     models.PrinterState
	sales       models.SalesSummary
	nextSKUMain int
	nextSKUSide int
}

// View is a deep copy of the state for readers and exporters.
type View struct {
	Menu           []models.MenuItem      `json:"menu"`
	Orders         []models.Order         `json:"orders"`
	ArchivedOrders []models.ArchivedOrder `json:"archivedOrders"`
	Settings       models.Settings        `json:"settings"`
	Session        models.Session         `json:"session"`
	Printer        models.PrinterState    `json:"printer"`
	Sales          models.SalesSummary    `json:"salesSummary"`
}

// Open prepares a store rooted at dir. State starts empty; call Recover to
// load the snapshot and replay the WAL, which also seeds the initial menu
// on a blank directory.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir: %w", err)
	}
	s := &Store{
		dir:         dir,
		now:         time.Now,
		settings:    models.DefaultSettings(),
		nextSKUMain: 1,
		nextSKUSide: 1,
	}
	s.session = s.freshSession()
	return s, nil
}

func (s *Store) freshSession() models.Session {
	min := s.settings.Numbering.Min
	if min <= 0 {
		min = 1
	}
	return models.Session{
		SessionID:    s.now().Format("20060102-150405"),
		StartedAt:    s.now().Unix(),
		NextOrderSeq: min,
	}
}

// View returns a deep copy of the whole state.
func (s *Store) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Store) viewLocked() View {
	v := View{
		Menu:           make([]models.MenuItem, len(s.menu)),
		Orders:         make([]models.Order, len(s.orders)),
		ArchivedOrders: make([]models.ArchivedOrder, len(s.archived)),
		Settings:       s.settings,
		Session:        s.session,
		Printer:        s.printer,
		Sales:          s.sales,
	}
	copy(v.Menu, s.menu)
	for i, o := range s.orders {
		v.Orders[i] = copyOrder(o)
	}
	for i, a := range s.archived {
		v.ArchivedOrders[i] = models.ArchivedOrder{Order: copyOrder(a.Order), SessionID: a.SessionID, ArchivedAt: a.ArchivedAt}
	}
	v.Settings.Chinchiro.Multipliers = append([]float64(nil), s.settings.Chinchiro.Multipliers...)
	return v
}

func copyOrder(o models.Order) models.Order {
	c := o
	c.Items = append([]models.LineItem(nil), o.Items...)
	return c
}

// FindOrder looks up a live or archived order by number.
func (s *Store) FindOrder(orderNo string) (models.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o := s.findLiveLocked(orderNo); o != nil {
		return copyOrder(*o), true
	}
	if a := s.findArchivedLocked(orderNo); a != nil {
		return copyOrder(a.Order), true
	}
	return models.Order{}, false
}

func (s *Store) findLiveLocked(orderNo string) *models.Order {
	for i := range s.orders {
		if s.orders[i].OrderNo == orderNo {
			return &s.orders[i]
		}
	}
	return nil
}

func (s *Store) findArchivedLocked(orderNo string) *models.ArchivedOrder {
	for i := range s.archived {
		if s.archived[i].OrderNo == orderNo {
			return &s.archived[i]
		}
	}
	return nil
}

func (s *Store) findMenuLocked(sku string) *models.MenuItem {
	for i := range s.menu {
		if s.menu[i].SKU == sku {
			return &s.menu[i]
		}
	}
	return nil
}

// PrinterState returns the operator-facing printer health flags.
func (s *Store) PrinterState() models.PrinterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.printer
}

// SetPaperOut flips the paper flag. Health flags are not WAL actions; only
// the snapshot keeps them.
func (s *Store) SetPaperOut(paperOut bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.printer.PaperOut = paperOut
	s.snapshotSaveLocked()
}

// SetHoldJobs records how many jobs the print pipeline is holding.
func (s *Store) SetHoldJobs(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.printer.HoldJobs = n
	s.snapshotSaveLocked()
}

// commitLocked appends the WAL record and rewrites the snapshot. The caller
// has already mutated in-memory state; a failure here degrades durability
// only and is reported, never rolled back.
func (s *Store) commitLocked(rec walRecord) error {
	rec.TS = s.now().Unix()
	if err := s.walAppendLocked(rec); err != nil {
		return &PersistenceError{Op: "wal append", Err: err}
	}
	if err := s.snapshotSaveLocked(); err != nil {
		return &PersistenceError{Op: "snapshot save", Err: err}
	}
	return nil
}
