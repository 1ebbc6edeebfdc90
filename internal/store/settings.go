package store

import (
	"fmt"

	"order_kiosk/internal/models"
)

// UpdateChinchiro replaces the gamble-discount configuration.
func (s *Store) UpdateChinchiro(cfg models.ChinchiroSettings) (models.Settings, error) {
	switch cfg.Rounding {
	case "", "round", "floor", "ceil":
	default:
		return models.Settings{}, fmt.Errorf("%w: unknown rounding mode %q", ErrValidation, cfg.Rounding)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if cfg.Rounding == "" {
		cfg.Rounding = "round"
	}
	if len(cfg.Multipliers) == 0 {
		cfg.Multipliers = s.settings.Chinchiro.Multipliers
	}
	s.settings.Chinchiro = cfg
	s.settings.CatalogVersion++
	return s.commitSettingsLocked()
}

// UpdateQRPrint replaces the receipt QR trailer configuration.
func (s *Store) UpdateQRPrint(cfg models.QRPrintSettings) (models.Settings, error) {
	if cfg.Enabled && cfg.Content == "" {
		return models.Settings{}, fmt.Errorf("%w: qr content required when enabled", ErrValidation)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings.QRPrint = cfg
	s.settings.CatalogVersion++
	return s.commitSettingsLocked()
}

// SystemSettingsUpdate carries the fields of the admin settings form.
// Nil pointers mean "leave unchanged".
type SystemSettingsUpdate struct {
	StoreName      *string `json:"storeName,omitempty"`
	NameRomaji     *string `json:"nameRomaji,omitempty"`
	RegisterID     *string `json:"registerId,omitempty"`
	PresaleEnabled *bool   `json:"presaleEnabled,omitempty"`
	NumberingMin   *int    `json:"numberingMin,omitempty"`
	NumberingMax   *int    `json:"numberingMax,omitempty"`
}

func (s *Store) UpdateSystemSettings(u SystemSettingsUpdate) (models.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.StoreName != nil {
		s.settings.Store.Name = *u.StoreName
	}
	if u.NameRomaji != nil {
		s.settings.Store.NameRomaji = *u.NameRomaji
	}
	if u.RegisterID != nil {
		s.settings.Store.RegisterID = *u.RegisterID
	}
	if u.PresaleEnabled != nil {
		s.settings.PresaleEnabled = *u.PresaleEnabled
	}
	if u.NumberingMin != nil || u.NumberingMax != nil {
		min, max := s.settings.Numbering.Min, s.settings.Numbering.Max
		if u.NumberingMin != nil {
			min = *u.NumberingMin
		}
		if u.NumberingMax != nil {
			max = *u.NumberingMax
		}
		if min <= 0 || max < min {
			return models.Settings{}, fmt.Errorf("%w: numbering range %d..%d", ErrValidation, min, max)
		}
		s.settings.Numbering = models.NumberingSettings{Min: min, Max: max}
		if s.session.NextOrderSeq < min || s.session.NextOrderSeq > max {
			s.session.NextOrderSeq = min
		}
	}
	s.settings.CatalogVersion++
	return s.commitSettingsLocked()
}

func (s *Store) commitSettingsLocked() (models.Settings, error) {
	saved := s.settings
	saved.Chinchiro.Multipliers = append([]float64(nil), s.settings.Chinchiro.Multipliers...)
	rec := walRecord{Action: actionSettingsUpdate, Settings: &saved}
	return saved, s.commitLocked(rec)
}

// Settings returns a copy of the current settings.
func (s *Store) Settings() models.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	saved := s.settings
	saved.Chinchiro.Multipliers = append([]float64(nil), s.settings.Chinchiro.Multipliers...)
	return saved
}

// MarkExported flags the current session's data as exported.
func (s *Store) MarkExported() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session.Exported {
		return
	}
	s.session.Exported = true
	s.snapshotSaveLocked()
}

// EndSession closes the business day: live orders are dropped, the order
// counter rewinds, a fresh session id is minted and the sales summary
// starts over. Archived orders from past sessions stay on disk.
func (s *Store) EndSession() (models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ended := s.session.SessionID
	s.orders = nil
	s.printer = models.PrinterState{}
	s.sales = models.SalesSummary{LastUpdated: s.now().Unix()}
	s.session = s.freshSession()

	next := s.session
	rec := walRecord{Action: actionSessionEnd, Reason: ended, Session: &next}
	return s.session, s.commitLocked(rec)
}

// SystemReset wipes everything, archive included, and reseeds the
// opening-day catalog.
func (s *Store) SystemReset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders = nil
	s.archived = nil
	s.settings = models.DefaultSettings()
	s.printer = models.PrinterState{}
	s.sales = models.SalesSummary{LastUpdated: s.now().Unix()}
	s.seedInitialMenuLocked()
	s.session = s.freshSession()

	next := s.session
	rec := walRecord{Action: actionSystemReset, Session: &next}
	return s.commitLocked(rec)
}
