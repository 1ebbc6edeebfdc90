package store

import (
	"encoding/json"
	"os"
	"path/filepath"

	"order_kiosk/internal/models"
)

// snapshotDoc is the whole-state artifact, overwritten on every mutation.
// SavedAt bounds WAL replay during recovery.
type snapshotDoc struct {
	SavedAt        int64                  `json:"savedAt"`
	Menu           []models.MenuItem      `json:"menu"`
	Orders         []models.Order         `json:"orders"`
	ArchivedOrders []models.ArchivedOrder `json:"archivedOrders"`
	Settings       models.Settings        `json:"settings"`
	Session        models.Session         `json:"session"`
	Printer        models.PrinterState    `json:"printer"`
	Sales          models.SalesSummary    `json:"salesSummary"`
	NextSKUMain    int                    `json:"nextSkuMain"`
	NextSKUSide    int                    `json:"nextSkuSide"`
}

func (s *Store) snapshotPath() string {
	return filepath.Join(s.dir, "snapshot.json")
}

func (s *Store) snapshotSaveLocked() error {
	doc := snapshotDoc{
		SavedAt:        s.now().Unix(),
		Menu:           s.menu,
		Orders:         s.orders,
		ArchivedOrders: s.archived,
		Settings:       s.settings,
		Session:        s.session,
		Printer:        s.printer,
		Sales:          s.sales,
		NextSKUMain:    s.nextSKUMain,
		NextSKUSide:    s.nextSKUSide,
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	// Write-then-rename so a power loss mid-write never corrupts the
	// previous snapshot.
	tmp := s.snapshotPath() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.snapshotPath())
}

func (s *Store) snapshotLoad() (*snapshotDoc, error) {
	data, err := os.ReadFile(s.snapshotPath())
	if err != nil {
		return nil, err
	}
	var doc snapshotDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// SnapshotBytes returns the persisted snapshot document as-is, for the
// export endpoint. ok is false when no snapshot has been written yet.
func (s *Store) SnapshotBytes() ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(s.snapshotPath())
	if err != nil {
		return nil, false
	}
	return data, true
}
