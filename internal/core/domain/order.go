package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderLine is one (item, quantity) entry within an order. LinePrice is
// recomputed on every call; nothing is cached, so a caller that mutates
// Quantity sees the new price immediately.
type OrderLine struct {
	Item     Item
	Quantity decimal.Decimal
}

func NewOrderLine(item Item, quantity decimal.Decimal) OrderLine {
	return OrderLine{Item: item, Quantity: quantity}
}

func (l OrderLine) LinePrice() decimal.Decimal {
	return l.Item.PricePerUnit().Mul(l.Quantity)
}

func (l OrderLine) Render(format PriceFormatter) string {
	return fmt.Sprintf("%s x %s -> %s", l.Item.Name(), l.Quantity.String(), format(l.LinePrice()))
}

func (l OrderLine) String() string { return l.Render(FormatPrice) }

// Order is a timestamped basket of order lines submitted together.
// Orders are shared by pointer between a customer's history and the
// order book; the book alone owns the queued-to-processed transition.
type Order struct {
	ID        uuid.UUID
	CreatedAt time.Time

	lines []OrderLine
}

func NewOrder() *Order {
	return &Order{
		ID:        uuid.New(),
		CreatedAt: time.Now(),
	}
}

// AddLine appends a line to the order. The book does not seal orders on
// enqueue; callers are expected to stop appending once an order has
// been submitted.
func (o *Order) AddLine(item Item, quantity decimal.Decimal) {
	o.lines = append(o.lines, NewOrderLine(item, quantity))
}

// Lines returns a copy of the line sequence in append order.
func (o *Order) Lines() []OrderLine {
	out := make([]OrderLine, len(o.lines))
	copy(out, o.lines)
	return out
}

// TotalPrice sums the line prices. Recomputed on every call.
func (o *Order) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, l := range o.lines {
		total = total.Add(l.LinePrice())
	}
	return total
}

func (o *Order) Render(format PriceFormatter) string {
	parts := make([]string, 0, len(o.lines))
	for _, l := range o.lines {
		parts = append(parts, fmt.Sprintf("%s x%s", l.Item.Name(), l.Quantity.String()))
	}
	return fmt.Sprintf("%s | %s | Total: %s",
		o.CreatedAt.Format("15:04:05"), strings.Join(parts, ", "), format(o.TotalPrice()))
}

func (o *Order) String() string { return o.Render(FormatPrice) }
