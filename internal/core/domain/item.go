package domain

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceFormatter renders a monetary amount for display. The core never
// hardcodes a locale; presentation layers supply their own formatter.
type PriceFormatter func(amount decimal.Decimal) string

// FormatPrice is the default formatter used by the String methods.
func FormatPrice(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

// Item is a catalog entry describing a good that can be stocked and
// ordered. Identity is the assigned ID, not the name: two items with
// identical fields are still distinct catalog entries.
type Item interface {
	ID() uuid.UUID
	Name() string
	PricePerUnit() decimal.Decimal

	// Render produces the variant-specific description shown to users.
	Render(format PriceFormatter) string
}

// UnitItem is a discretely counted good with a per-piece weight.
type UnitItem struct {
	id    uuid.UUID
	name  string
	price decimal.Decimal

	Weight decimal.Decimal
}

func NewUnitItem(name string, pricePerUnit, weight decimal.Decimal) *UnitItem {
	return &UnitItem{
		id:     uuid.New(),
		name:   name,
		price:  pricePerUnit,
		Weight: weight,
	}
}

func (i *UnitItem) ID() uuid.UUID                 { return i.id }
func (i *UnitItem) Name() string                  { return i.name }
func (i *UnitItem) PricePerUnit() decimal.Decimal { return i.price }

func (i *UnitItem) Render(format PriceFormatter) string {
	return fmt.Sprintf("%s (%s kg/pc) @ %s", i.name, i.Weight.String(), format(i.price))
}

func (i *UnitItem) String() string { return i.Render(FormatPrice) }

// BulkItem is a continuously measured good priced per measurement unit.
type BulkItem struct {
	id    uuid.UUID
	name  string
	price decimal.Decimal

	MeasurementUnit string
}

func NewBulkItem(name string, pricePerUnit decimal.Decimal, measurementUnit string) *BulkItem {
	return &BulkItem{
		id:              uuid.New(),
		name:            name,
		price:           pricePerUnit,
		MeasurementUnit: measurementUnit,
	}
}

func (i *BulkItem) ID() uuid.UUID                 { return i.id }
func (i *BulkItem) Name() string                  { return i.name }
func (i *BulkItem) PricePerUnit() decimal.Decimal { return i.price }

func (i *BulkItem) Render(format PriceFormatter) string {
	return fmt.Sprintf("%s @ %s/%s", i.name, format(i.price), i.MeasurementUnit)
}

func (i *BulkItem) String() string { return i.Render(FormatPrice) }
