package cartapi

import (
	"context"
	"sync"

	"github.com/google/uuid"

	domcart "example.com/cart-widget/internal/domain/cart"
)

// LocalBackend keeps carts in process memory. It stands in for the
// remote cart service during local development and in tests; the real
// service stays external.
type LocalBackend struct {
	mu           sync.Mutex
	carts        map[string]*domcart.Snapshot
	checkoutBase string
}

func NewLocalBackend(checkoutBase string) *LocalBackend {
	return &LocalBackend{
		carts:        map[string]*domcart.Snapshot{},
		checkoutBase: checkoutBase,
	}
}

func (b *LocalBackend) CreateCart(ctx context.Context) (*domcart.Snapshot, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := uuid.NewString()
	snapshot := &domcart.Snapshot{
		ID:          id,
		CheckoutURL: b.checkoutBase + "/" + id,
	}
	b.carts[id] = snapshot
	return clone(snapshot), nil
}

func (b *LocalBackend) FetchCart(ctx context.Context, id string) (*domcart.Snapshot, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	snapshot, ok := b.carts[id]
	if !ok {
		return nil, domcart.ErrCartNotFound
	}
	return clone(snapshot), nil
}

func (b *LocalBackend) AddVariants(ctx context.Context, cartID string, additions []domcart.VariantAddition) (*domcart.Snapshot, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	snapshot, ok := b.carts[cartID]
	if !ok {
		return nil, domcart.ErrCartNotFound
	}

	for _, add := range additions {
		quantity := add.Quantity
		if quantity < 1 {
			quantity = 1
		}
		found := false
		for i := range snapshot.LineItems {
			if snapshot.LineItems[i].VariantID == add.Variant.ID {
				snapshot.LineItems[i].Quantity += quantity
				found = true
				break
			}
		}
		if !found {
			snapshot.LineItems = append(snapshot.LineItems, domcart.LineItem{
				ID:        uuid.NewString(),
				VariantID: add.Variant.ID,
				Title:     add.Variant.ProductTitle,
				Price:     add.Variant.Price,
				Quantity:  quantity,
			})
		}
	}
	return clone(snapshot), nil
}

// UpdateLineItem follows the server-side removal convention: quantity
// zero or below drops the line item from the cart.
func (b *LocalBackend) UpdateLineItem(ctx context.Context, cartID, lineItemID string, quantity int) (*domcart.Snapshot, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	snapshot, ok := b.carts[cartID]
	if !ok {
		return nil, domcart.ErrCartNotFound
	}

	for i := range snapshot.LineItems {
		if snapshot.LineItems[i].ID != lineItemID {
			continue
		}
		if quantity <= 0 {
			snapshot.LineItems = append(snapshot.LineItems[:i], snapshot.LineItems[i+1:]...)
		} else {
			snapshot.LineItems[i].Quantity = quantity
		}
		return clone(snapshot), nil
	}
	return nil, domcart.ErrLineItemNotFound
}

func clone(snapshot *domcart.Snapshot) *domcart.Snapshot {
	copied := *snapshot
	copied.LineItems = make([]domcart.LineItem, len(snapshot.LineItems))
	copy(copied.LineItems, snapshot.LineItems)
	return &copied
}
