package domain

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultLowStockThreshold is the reorder level the desk highlights.
var DefaultLowStockThreshold = decimal.NewFromInt(5)

// StockLevel pairs an item with its on-hand quantity.
type StockLevel struct {
	Item     Item
	Quantity decimal.Decimal
}

// Inventory tracks the on-hand quantity per item identity. Quantities
// never go negative: decrements clamp at zero instead of underflowing.
// Entries are created by SetStock or DecreaseStock and never removed.
type Inventory struct {
	items map[uuid.UUID]Item
	stock map[uuid.UUID]decimal.Decimal
}

func NewInventory() *Inventory {
	return &Inventory{
		items: make(map[uuid.UUID]Item),
		stock: make(map[uuid.UUID]decimal.Decimal),
	}
}

// SetStock inserts or overwrites the stock entry for item.
func (inv *Inventory) SetStock(item Item, quantity decimal.Decimal) {
	inv.items[item.ID()] = item
	inv.stock[item.ID()] = quantity
}

// GetStock returns the stored quantity, or zero for items never stocked.
func (inv *Inventory) GetStock(item Item) decimal.Decimal {
	return inv.stock[item.ID()]
}

// DecreaseStock subtracts quantity from the item's stock, clamping at
// zero. Requesting more than is on hand is not an error: the stock
// saturates at zero and the oversell is absorbed silently.
func (inv *Inventory) DecreaseStock(item Item, quantity decimal.Decimal) {
	remaining := inv.stock[item.ID()].Sub(quantity)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	inv.items[item.ID()] = item
	inv.stock[item.ID()] = remaining
}

// LowStockItems lists every stocked entry strictly below threshold,
// sorted by item name (then ID) so callers see a stable order.
func (inv *Inventory) LowStockItems(threshold decimal.Decimal) []StockLevel {
	var low []StockLevel
	for id, qty := range inv.stock {
		if qty.LessThan(threshold) {
			low = append(low, StockLevel{Item: inv.items[id], Quantity: qty})
		}
	}
	sort.Slice(low, func(i, j int) bool {
		if low[i].Item.Name() != low[j].Item.Name() {
			return low[i].Item.Name() < low[j].Item.Name()
		}
		return low[i].Item.ID().String() < low[j].Item.ID().String()
	})
	return low
}
