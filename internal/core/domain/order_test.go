package domain

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinePrice(t *testing.T) {
	item := NewUnitItem("Screws", decimal.RequireFromString("0.25"), decimal.RequireFromString("0.01"))

	tests := []struct {
		name     string
		quantity string
		want     string
	}{
		{"whole quantity", "100", "25"},
		{"fractional quantity", "2.5", "0.625"},
		{"zero quantity", "0", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := NewOrderLine(item, decimal.RequireFromString(tt.quantity))
			assert.True(t, line.LinePrice().Equal(decimal.RequireFromString(tt.want)),
				"got %s", line.LinePrice())
		})
	}
}

func TestLinePrice_NotCached(t *testing.T) {
	item := NewBulkItem("Oil", decimal.RequireFromString("3.5"), "kg")
	line := NewOrderLine(item, decimal.NewFromInt(10))
	require.True(t, line.LinePrice().Equal(decimal.NewFromInt(35)))

	line.Quantity = decimal.NewFromInt(20)
	assert.True(t, line.LinePrice().Equal(decimal.NewFromInt(70)),
		"a quantity change must be reflected on the next call")
}

func TestOrderTotalPrice_SumsLines(t *testing.T) {
	screws := NewUnitItem("Screws", decimal.RequireFromString("0.25"), decimal.RequireFromString("0.01"))
	oil := NewBulkItem("Oil", decimal.RequireFromString("3.5"), "kg")

	order := NewOrder()
	assert.True(t, order.TotalPrice().IsZero(), "empty order totals zero")

	order.AddLine(screws, decimal.NewFromInt(100))
	order.AddLine(oil, decimal.NewFromInt(20))

	assert.True(t, order.TotalPrice().Equal(decimal.NewFromInt(95)),
		"got %s", order.TotalPrice())
}

func TestOrderLines_PreservesAppendOrderAndCopies(t *testing.T) {
	screws := NewUnitItem("Screws", decimal.RequireFromString("0.25"), decimal.RequireFromString("0.01"))
	oil := NewBulkItem("Oil", decimal.RequireFromString("3.5"), "kg")

	order := NewOrder()
	order.AddLine(screws, decimal.NewFromInt(100))
	order.AddLine(oil, decimal.NewFromInt(20))

	lines := order.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "Screws", lines[0].Item.Name())
	assert.Equal(t, "Oil", lines[1].Item.Name())

	lines[0].Quantity = decimal.NewFromInt(1)
	assert.True(t, order.TotalPrice().Equal(decimal.NewFromInt(95)),
		"mutating the returned slice must not affect the order")
}

func TestOrderRender(t *testing.T) {
	screws := NewUnitItem("Screws", decimal.RequireFromString("0.25"), decimal.RequireFromString("0.01"))
	order := NewOrder()
	order.AddLine(screws, decimal.NewFromInt(100))

	rendered := order.String()
	assert.Contains(t, rendered, "Screws x100")
	assert.True(t, strings.HasSuffix(rendered, "Total: 25.00"), "got %q", rendered)
	assert.Equal(t, rendered, order.String(), "rendering is idempotent")
}
