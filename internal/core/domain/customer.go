package domain

// Customer submits orders and keeps its own append-only history. The
// history holds the same *Order values the book queues and processes,
// never copies, so a processed order is still visible through the
// customer that placed it.
type Customer struct {
	Name string

	orders []*Order
}

func NewCustomer(name string) *Customer {
	return &Customer{Name: name}
}

// CreateOrder records the order under this customer and enqueues it
// into the book: one logical action with two observable effects.
func (c *Customer) CreateOrder(book *OrderBook, order *Order) {
	c.orders = append(c.orders, order)
	book.QueueOrder(order)
}

// Orders returns a snapshot of the customer's history in submit order.
func (c *Customer) Orders() []*Order {
	out := make([]*Order, len(c.orders))
	copy(out, c.orders)
	return out
}
