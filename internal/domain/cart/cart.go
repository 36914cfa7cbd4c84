package cart

// LineItem is one product variant entry held in a cart snapshot.
// Quantity is always >= 1; the remote service removes an item instead of
// keeping it at zero.
type LineItem struct {
	ID        string
	VariantID string
	Title     string
	Price     string
	Quantity  int
	SKU       string
}

// Variant identifies a purchasable product variant before it has a line
// item in the cart.
type Variant struct {
	ID           string
	ProductTitle string
	Price        string
}

// VariantAddition pairs a variant with the quantity being added.
type VariantAddition struct {
	Variant  Variant
	Quantity int
}

// Snapshot is the server truth for one cart at a point in time. It is
// replaced wholesale after every successful mutation, never patched.
type Snapshot struct {
	ID          string
	CheckoutURL string
	LineItems   []LineItem
}

// LineItem returns the first line item with the given id.
func (s *Snapshot) LineItem(id string) (LineItem, bool) {
	for _, item := range s.LineItems {
		if item.ID == id {
			return item, true
		}
	}
	return LineItem{}, false
}

// IsEmpty reports whether the snapshot holds no line items.
func (s *Snapshot) IsEmpty() bool {
	return len(s.LineItems) == 0
}
