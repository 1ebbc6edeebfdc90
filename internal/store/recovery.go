package store

import (
	"bufio"
	"encoding/json"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"order_kiosk/internal/models"
)

// Recover rebuilds state from disk: load the snapshot, then replay WAL
// records written at or after the snapshot's savedAt. Replay actions are
// idempotent, so the one-second overlap at the boundary is harmless.
//
// A missing snapshot is a fresh boot and seeds the opening catalog. A
// corrupt snapshot leaves in-memory state untouched and returns a
// RecoveryError so the caller can keep serving what it has.
func (s *Store) Recover() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.snapshotLoad()
	if err != nil {
		if os.IsNotExist(err) {
			s.seedInitialMenuLocked()
			if err := s.snapshotSaveLocked(); err != nil {
				return "", &RecoveryError{Err: err}
			}
			return time.Unix(s.now().Unix(), 0).Format("2006-01-02 15:04:05"), nil
		}
		return "", &RecoveryError{Err: err}
	}

	s.menu = doc.Menu
	s.orders = doc.Orders
	s.archived = doc.ArchivedOrders
	s.settings = doc.Settings
	s.session = doc.Session
	s.printer = doc.Printer
	s.sales = doc.Sales
	s.nextSKUMain = doc.NextSKUMain
	s.nextSKUSide = doc.NextSKUSide
	s.repairCountersLocked()

	lastTS := doc.SavedAt
	if ts, n := s.replayWALLocked(doc.SavedAt); n > 0 {
		log.Printf("[store] replayed %d wal record(s) past snapshot", n)
		if ts > lastTS {
			lastTS = ts
		}
		s.snapshotSaveLocked()
	}
	return time.Unix(lastTS, 0).Format("2006-01-02 15:04:05"), nil
}

// replayWALLocked applies every parseable record with ts >= since and
// reports the newest ts seen plus the number applied. Malformed lines
// (torn tail writes) are skipped.
func (s *Store) replayWALLocked(since int64) (int64, int) {
	f, err := os.Open(s.walPath())
	if err != nil {
		return 0, 0
	}
	defer f.Close()

	var newest int64
	applied := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var rec walRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			log.Printf("[store] skipping malformed wal line: %v", err)
			continue
		}
		if rec.TS < since {
			continue
		}
		s.replayLocked(rec)
		applied++
		if rec.TS > newest {
			newest = rec.TS
		}
	}
	return newest, applied
}

func (s *Store) replayLocked(rec walRecord) {
	switch rec.Action {
	case actionOrderCreate:
		if rec.Order == nil {
			return
		}
		if s.findLiveLocked(rec.Order.OrderNo) != nil || s.findArchivedLocked(rec.Order.OrderNo) != nil {
			return
		}
		s.orders = append(s.orders, copyOrder(*rec.Order))
		s.applySaleLocked(*rec.Order)
		s.advanceSeqPastLocked(rec.Order.OrderNo)
	case actionOrderUpdate:
		target := s.findLiveLocked(rec.OrderNo)
		if target == nil {
			return
		}
		switch rec.Status {
		case "DONE", "COOKED":
			target.Cooked = true
			target.PickupCalled = true
		case "READY", "PICKED":
			target.PickedUp = true
			target.PickupCalled = false
			s.archiveLocked(rec.OrderNo)
		case "PRINTED":
			target.Printed = true
		case string(models.OrderCancelled):
			if target.Status != models.OrderCancelled {
				target.Status = models.OrderCancelled
				s.applyCancellationLocked(*target)
			}
		}
	case actionOrderCancel:
		target := s.findLiveLocked(rec.OrderNo)
		if target == nil {
			if a := s.findArchivedLocked(rec.OrderNo); a != nil {
				target = &a.Order
			}
		}
		if target == nil || target.Status == models.OrderCancelled {
			return
		}
		target.Status = models.OrderCancelled
		target.CancelReason = rec.Reason
		s.applyCancellationLocked(*target)
	case actionOrderCooked:
		if target := s.findLiveLocked(rec.OrderNo); target != nil {
			target.Cooked = true
			target.PickupCalled = true
		}
	case actionOrderPicked:
		if target := s.findLiveLocked(rec.OrderNo); target != nil {
			target.PickedUp = true
			target.PickupCalled = false
			s.archiveLocked(rec.OrderNo)
		}
	case actionMainUpsert, actionSideUpsert:
		if rec.Item == nil {
			return
		}
		if existing := s.findMenuLocked(rec.Item.SKU); existing != nil {
			*existing = *rec.Item
		} else {
			s.menu = append(s.menu, *rec.Item)
		}
		s.repairCountersLocked()
	case actionSettingsUpdate:
		if rec.Settings != nil {
			s.settings = *rec.Settings
		}
	case actionSessionEnd:
		// The snapshot written right after the session end already holds
		// the minted session; re-minting here would change the session id.
		if rec.Session != nil && s.session.SessionID == rec.Session.SessionID {
			return
		}
		s.orders = nil
		s.printer = models.PrinterState{}
		s.sales = models.SalesSummary{LastUpdated: s.now().Unix()}
		s.session = s.recordedSessionOrFresh(rec)
	case actionSystemReset:
		if rec.Session != nil && s.session.SessionID == rec.Session.SessionID {
			return
		}
		s.orders = nil
		s.archived = nil
		s.settings = models.DefaultSettings()
		s.printer = models.PrinterState{}
		s.sales = models.SalesSummary{LastUpdated: s.now().Unix()}
		s.seedInitialMenuLocked()
		s.session = s.recordedSessionOrFresh(rec)
	}
}

// recordedSessionOrFresh prefers the session stamped into the record so
// replay lands on the same session id regardless of the current clock.
func (s *Store) recordedSessionOrFresh(rec walRecord) models.Session {
	if rec.Session != nil {
		return *rec.Session
	}
	return s.freshSession()
}

func (s *Store) advanceSeqPastLocked(orderNo string) {
	n, err := strconv.Atoi(orderNo)
	if err != nil {
		return
	}
	if s.session.NextOrderSeq <= n && n < s.settings.Numbering.Max {
		s.session.NextOrderSeq = n + 1
	}
}

// repairCountersLocked re-derives the sku allocators from the catalog
// when a stale snapshot left them behind the highest assigned sku.
func (s *Store) repairCountersLocked() {
	maxSuffix := func(prefix string) int {
		highest := 0
		for _, m := range s.menu {
			if !strings.HasPrefix(m.SKU, prefix) {
				continue
			}
			if n, err := strconv.Atoi(m.SKU[len(prefix):]); err == nil && n > highest {
				highest = n
			}
		}
		return highest
	}
	if next := maxSuffix("M") + 1; s.nextSKUMain < next {
		s.nextSKUMain = next
	}
	if next := maxSuffix("S") + 1; s.nextSKUSide < next {
		s.nextSKUSide = next
	}
}
