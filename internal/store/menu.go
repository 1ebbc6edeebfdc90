package store

import (
	"fmt"

	"order_kiosk/internal/models"
)

// MenuUpsert is one row of a batched catalog update. A row with an empty
// sku creates a new item and gets a generated sku back.
type MenuUpsert struct {
	SKU                   string `json:"sku"`
	Name                  string `json:"name"`
	NameRomaji            string `json:"nameRomaji"`
	Active                *bool  `json:"active,omitempty"`
	PriceNormal           int    `json:"price_normal"`
	PricePresale          int    `json:"price_presale"`
	PresaleDiscountAmount int    `json:"presale_discount_amount"`
	PriceSingle           int    `json:"price_single"`
	PriceAsSide           int    `json:"price_as_side"`
}

// UpsertMainItems creates or updates main dishes and bumps the catalog
// version once for the whole batch.
func (s *Store) UpsertMainItems(rows []MenuUpsert) ([]models.MenuItem, error) {
	return s.upsertItems(rows, models.CategoryMain)
}

// UpsertSideItems does the same for sides.
func (s *Store) UpsertSideItems(rows []MenuUpsert) ([]models.MenuItem, error) {
	return s.upsertItems(rows, models.CategorySide)
}

func (s *Store) upsertItems(rows []MenuUpsert, category models.Category) ([]models.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.MenuItem
	var firstErr error
	for _, row := range rows {
		if row.Name == "" && row.SKU == "" {
			continue
		}
		item := s.findMenuLocked(row.SKU)
		action := actionMainUpsert
		if category == models.CategorySide {
			action = actionSideUpsert
		}
		if item == nil {
			s.menu = append(s.menu, models.MenuItem{
				SKU:      s.nextSKULocked(category),
				Category: category,
				Active:   true,
			})
			item = &s.menu[len(s.menu)-1]
		} else if item.Category != category {
			if firstErr == nil {
				firstErr = fmt.Errorf("%w: sku %s is not a %s item", ErrValidation, row.SKU, category)
			}
			continue
		}
		if row.Name != "" {
			item.Name = row.Name
		}
		if row.NameRomaji != "" {
			item.NameRomaji = row.NameRomaji
		}
		if row.Active != nil {
			item.Active = *row.Active
		}
		item.PriceNormal = row.PriceNormal
		item.PricePresale = row.PricePresale
		item.PresaleDiscountAmount = row.PresaleDiscountAmount
		item.PriceSingle = row.PriceSingle
		item.PriceAsSide = row.PriceAsSide

		saved := *item
		out = append(out, saved)
		rec := walRecord{Action: action, Item: &saved}
		if err := s.commitLocked(rec); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if len(out) > 0 {
		s.settings.CatalogVersion++
		s.snapshotSaveLocked()
	}
	return out, firstErr
}

func (s *Store) nextSKULocked(category models.Category) string {
	if category == models.CategoryMain {
		sku := fmt.Sprintf("M%03d", s.nextSKUMain)
		s.nextSKUMain++
		return sku
	}
	sku := fmt.Sprintf("S%03d", s.nextSKUSide)
	s.nextSKUSide++
	return sku
}

// MenuByCategory returns a copy of the catalog rows for one category.
func (s *Store) MenuByCategory(category models.Category) []models.MenuItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	var items []models.MenuItem
	for _, m := range s.menu {
		if m.Category == category {
			items = append(items, m)
		}
	}
	return items
}

// seedInitialMenuLocked installs the opening-day catalog used on first
// boot and after a full reset.
func (s *Store) seedInitialMenuLocked() {
	s.menu = []models.MenuItem{
		{SKU: "M001", Category: models.CategoryMain, Active: true, Name: "Classic Burger", PriceNormal: 500, PresaleDiscountAmount: -100},
		{SKU: "M002", Category: models.CategoryMain, Active: true, Name: "Cheese Burger", PriceNormal: 600, PresaleDiscountAmount: -100},
		{SKU: "M003", Category: models.CategoryMain, Active: true, Name: "Double Burger", PriceNormal: 700, PresaleDiscountAmount: -100},
		{SKU: "S001", Category: models.CategorySide, Active: true, Name: "Cola", PriceSingle: 200, PriceAsSide: 100},
		{SKU: "S002", Category: models.CategorySide, Active: true, Name: "Orange Juice", PriceSingle: 200, PriceAsSide: 100},
		{SKU: "S003", Category: models.CategorySide, Active: true, Name: "Tea", PriceSingle: 200, PriceAsSide: 100},
		{SKU: "S004", Category: models.CategorySide, Active: true, Name: "Water", PriceSingle: 100, PriceAsSide: 50},
		{SKU: "S005", Category: models.CategorySide, Active: true, Name: "Fries", PriceSingle: 300, PriceAsSide: 150},
	}
	s.nextSKUMain = 4
	s.nextSKUSide = 6
}
