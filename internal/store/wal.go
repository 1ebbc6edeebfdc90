package store

import (
	"encoding/json"
	"os"
	"path/filepath"

	"order_kiosk/internal/models"
)

// WAL actions. One newline-delimited JSON record per mutation.
const (
	actionOrderCreate    = "ORDER_CREATE"
	actionOrderUpdate    = "ORDER_UPDATE"
	actionOrderCancel    = "ORDER_CANCEL"
	actionOrderCooked    = "ORDER_COOKED"
	actionOrderPicked    = "ORDER_PICKED"
	actionMainUpsert     = "MAIN_UPSERT"
	actionSideUpsert     = "SIDE_UPSERT"
	actionSettingsUpdate = "SETTINGS_UPDATE"
	actionSessionEnd     = "SESSION_END"
	actionSystemReset    = "SYSTEM_RESET"
)

type walRecord struct {
	TS     int64  `json:"ts"`
	Action string `json:"action"`

	OrderNo  string           `json:"orderNo,omitempty"`
	Status   string           `json:"status,omitempty"`
	Reason   string           `json:"cancelReason,omitempty"`
	Archived bool             `json:"archived,omitempty"`
	Order    *models.Order    `json:"order,omitempty"`
	Item     *models.MenuItem `json:"item,omitempty"`
	Settings *models.Settings `json:"settings,omitempty"`
	Session  *models.Session  `json:"session,omitempty"`
}

func (s *Store) walPath() string {
	return filepath.Join(s.dir, "wal.log")
}

func (s *Store) walAppendLocked(rec walRecord) error {
	line, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(s.walPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.Write(append(line, '\n')); err != nil {
		return err
	}
	return f.Sync()
}
