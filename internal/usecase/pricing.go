package usecase

import (
	"strings"

	"github.com/polkiloo/orderflow/internal/domain/model"
)

// ResolveLineItem snapshots a requested item against the live menu.
// Lookup is by menu id, then by trimmed case-insensitive name. When neither
// matches the client price is used and matched is false.
func ResolveLineItem(req model.RequestedItem, menu []model.MenuItem) (item model.LineItem, matched bool) {
	if req.ItemID != 0 {
		for _, m := range menu {
			if m.ID == req.ItemID {
				return model.LineItem{MenuItemID: m.ID, Name: m.Name, Qty: req.Qty, UnitPrice: m.Price}, true
			}
		}
	}

	name := strings.TrimSpace(req.Name)
	if name != "" {
		for _, m := range menu {
			if strings.EqualFold(strings.TrimSpace(m.Name), name) {
				return model.LineItem{MenuItemID: m.ID, Name: m.Name, Qty: req.Qty, UnitPrice: m.Price}, true
			}
		}
	}

	return model.LineItem{Name: name, Qty: req.Qty, UnitPrice: req.Price}, false
}
