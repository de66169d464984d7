package port

// ChangeKind identifies which part of the shop state mutated.
type ChangeKind string

const (
	ChangeCatalog ChangeKind = "catalog"
	ChangeStock   ChangeKind = "stock"
	ChangeOrders  ChangeKind = "orders"
)

// ChangeListener receives a callback after every completed mutation of
// shop state. The service invokes listeners outside its lock, so a
// listener may query the service for a fresh snapshot. Callbacks carry
// refresh semantics only: when mutations race, kinds may arrive out of
// order relative to the mutations that produced them.
type ChangeListener interface {
	ShopChanged(kind ChangeKind)
}
