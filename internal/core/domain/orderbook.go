package domain

import "github.com/shopspring/decimal"

// OrderBook owns the processing lifecycle of every order submitted to
// the shop: a FIFO queue of pending orders plus an append-only ledger
// of processed ones. An order lives in at most one of the two, and once
// moved to the ledger it never returns.
type OrderBook struct {
	queued    []*Order
	processed []*Order
}

func NewOrderBook() *OrderBook {
	return &OrderBook{}
}

// QueueOrder appends order to the tail of the queue. The queue is
// unbounded and performs no duplicate detection.
func (b *OrderBook) QueueOrder(order *Order) {
	b.queued = append(b.queued, order)
}

// ProcessNextOrder pops the head of the queue, moves it to the
// processed ledger and returns it. An empty queue yields nil; callers
// treat that as the normal end-of-work signal, not a failure.
func (b *OrderBook) ProcessNextOrder() *Order {
	if len(b.queued) == 0 {
		return nil
	}
	next := b.queued[0]
	b.queued = b.queued[1:]
	b.processed = append(b.processed, next)
	return next
}

// QueuedOrders returns a snapshot of the pending queue in FIFO order.
func (b *OrderBook) QueuedOrders() []*Order {
	out := make([]*Order, len(b.queued))
	copy(out, b.queued)
	return out
}

// ProcessedOrders returns a snapshot of the ledger in processing order.
func (b *OrderBook) ProcessedOrders() []*Order {
	out := make([]*Order, len(b.processed))
	copy(out, b.processed)
	return out
}

// TotalRevenue sums the total price of every processed order. It is
// recomputed on each call and always reflects the current ledger.
func (b *OrderBook) TotalRevenue() decimal.Decimal {
	total := decimal.Zero
	for _, o := range b.processed {
		total = total.Add(o.TotalPrice())
	}
	return total
}
