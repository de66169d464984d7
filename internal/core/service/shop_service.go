package service

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rl1809/shopdesk/internal/core/domain"
	"github.com/rl1809/shopdesk/internal/port"
)

var ErrUnknownItem = errors.New("unknown item")

// LineRequest names an item and quantity for a new order.
type LineRequest struct {
	ItemID   uuid.UUID
	Quantity decimal.Decimal
}

// ShopService is one shop session: catalog, inventory, order book and
// customer registry behind a single mutex. The domain types underneath
// are deliberately single-threaded; this is the only layer that locks,
// so it is the only safe entry point for concurrent callers.
type ShopService struct {
	mu        sync.Mutex
	catalog   map[uuid.UUID]domain.Item
	listing   []domain.Item // registration order, for stable catalog views
	inventory *domain.Inventory
	book      *domain.OrderBook
	customers map[string]*domain.Customer
	listeners []port.ChangeListener
}

func NewShopService() *ShopService {
	return &ShopService{
		catalog:   make(map[uuid.UUID]domain.Item),
		inventory: domain.NewInventory(),
		book:      domain.NewOrderBook(),
		customers: make(map[string]*domain.Customer),
	}
}

// AddListener registers a change listener. Listeners are invoked after
// a mutation completes and the lock has been released, so they may call
// back into the service for a snapshot.
func (s *ShopService) AddListener(l port.ChangeListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

func (s *ShopService) broadcast(kinds ...port.ChangeKind) {
	s.mu.Lock()
	ls := make([]port.ChangeListener, len(s.listeners))
	copy(ls, s.listeners)
	s.mu.Unlock()

	for _, l := range ls {
		for _, k := range kinds {
			l.ShopChanged(k)
		}
	}
}

// RegisterUnitItem adds a discretely counted good to the catalog.
func (s *ShopService) RegisterUnitItem(name string, pricePerUnit, weight decimal.Decimal) domain.Item {
	item := domain.NewUnitItem(name, pricePerUnit, weight)
	s.registerItem(item)
	return item
}

// RegisterBulkItem adds a continuously measured good to the catalog.
func (s *ShopService) RegisterBulkItem(name string, pricePerUnit decimal.Decimal, measurementUnit string) domain.Item {
	item := domain.NewBulkItem(name, pricePerUnit, measurementUnit)
	s.registerItem(item)
	return item
}

func (s *ShopService) registerItem(item domain.Item) {
	s.mu.Lock()
	s.catalog[item.ID()] = item
	s.listing = append(s.listing, item)
	s.mu.Unlock()

	s.broadcast(port.ChangeCatalog)
}

// Items returns the catalog in registration order.
func (s *ShopService) Items() []domain.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Item, len(s.listing))
	copy(out, s.listing)
	return out
}

// LookupItem resolves an item handle against the catalog.
func (s *ShopService) LookupItem(id uuid.UUID) (domain.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.catalog[id]
	if !ok {
		return nil, ErrUnknownItem
	}
	return item, nil
}

// SetStock inserts or overwrites the stock entry for a catalog item.
func (s *ShopService) SetStock(itemID uuid.UUID, quantity decimal.Decimal) error {
	s.mu.Lock()
	item, ok := s.catalog[itemID]
	if !ok {
		s.mu.Unlock()
		return ErrUnknownItem
	}
	s.inventory.SetStock(item, quantity)
	s.mu.Unlock()

	s.broadcast(port.ChangeStock)
	return nil
}

// GetStock reports the on-hand quantity. Items never stocked, including
// handles not present in the catalog at all, report zero; GetStock
// cannot fail.
func (s *ShopService) GetStock(itemID uuid.UUID) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.catalog[itemID]
	if !ok {
		return decimal.Zero
	}
	return s.inventory.GetStock(item)
}

// LowStock lists stocked entries strictly below threshold, sorted by
// item name.
func (s *ShopService) LowStock(threshold decimal.Decimal) []domain.StockLevel {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inventory.LowStockItems(threshold)
}

// PlaceOrder builds an order from the requested lines and submits it
// under customerName: the order is appended to the customer's history
// and enqueued into the book as one logical action. The customer is
// registered on first use. The only failure is an unknown item handle.
func (s *ShopService) PlaceOrder(customerName string, lines []LineRequest) (*domain.Order, error) {
	s.mu.Lock()
	order := domain.NewOrder()
	for _, l := range lines {
		item, ok := s.catalog[l.ItemID]
		if !ok {
			s.mu.Unlock()
			return nil, ErrUnknownItem
		}
		order.AddLine(item, l.Quantity)
	}

	customer, ok := s.customers[customerName]
	if !ok {
		customer = domain.NewCustomer(customerName)
		s.customers[customerName] = customer
	}
	customer.CreateOrder(s.book, order)
	s.mu.Unlock()

	s.broadcast(port.ChangeOrders)
	return order, nil
}

// ProcessNextOrder pops the next queued order, decrements inventory for
// each of its lines (clamped at zero) and reports the processed order.
// An empty queue returns (nil, false); that is the normal idle outcome,
// not an error.
func (s *ShopService) ProcessNextOrder() (*domain.Order, bool) {
	s.mu.Lock()
	order := s.book.ProcessNextOrder()
	if order == nil {
		s.mu.Unlock()
		return nil, false
	}
	for _, line := range order.Lines() {
		s.inventory.DecreaseStock(line.Item, line.Quantity)
	}
	s.mu.Unlock()

	s.broadcast(port.ChangeOrders, port.ChangeStock)
	return order, true
}

// QueuedOrders returns a snapshot of the pending queue in FIFO order.
func (s *ShopService) QueuedOrders() []*domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.book.QueuedOrders()
}

// ProcessedOrders returns a snapshot of the processed ledger.
func (s *ShopService) ProcessedOrders() []*domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.book.ProcessedOrders()
}

// TotalRevenue reports the revenue over all processed orders.
func (s *ShopService) TotalRevenue() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.book.TotalRevenue()
}

// CustomerOrders returns the submit-ordered history for customerName,
// or nil for customers that never placed an order.
func (s *ShopService) CustomerOrders(customerName string) []*domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	customer, ok := s.customers[customerName]
	if !ok {
		return nil
	}
	return customer.Orders()
}
