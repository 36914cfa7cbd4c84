package widget

import (
	"context"

	domcart "example.com/cart-widget/internal/domain/cart"
)

// RemoteClient performs cart operations against the remote cart service.
// Every mutation returns the full updated snapshot.
type RemoteClient interface {
	CreateCart(ctx context.Context) (*domcart.Snapshot, error)
	FetchCart(ctx context.Context, id string) (*domcart.Snapshot, error)
	AddVariants(ctx context.Context, cartID string, additions []domcart.VariantAddition) (*domcart.Snapshot, error)
	UpdateLineItem(ctx context.Context, cartID, lineItemID string, quantity int) (*domcart.Snapshot, error)
}

// IdentifierStorage persists the cart identifier between sessions.
// GetItem returns "" with a nil error when the key is absent.
type IdentifierStorage interface {
	GetItem(ctx context.Context, key string) (string, error)
	SetItem(ctx context.Context, key, value string) error
}

// LineItemRenderer turns one line item's data into markup.
type LineItemRenderer interface {
	Render(data any, wrapper func(string) string) (string, error)
}

// Toggle is the companion badge widget kept in sync with the cart.
type Toggle interface {
	Initialize(ctx context.Context, lineItems []domcart.LineItem) error
	Render(lineItems []domcart.LineItem)
	UpdateConfig(cfg Config)
	Teardown() error
}

// Tracker emits instrumentation events. Implementations must not block;
// events are fire-and-forget.
type Tracker interface {
	Track(event string, props map[string]any)
}

// CheckoutOpener hands the session off to the external checkout page.
type CheckoutOpener interface {
	Open(url string) error
}

// Lifecycle is the contract widget components share.
type Lifecycle interface {
	Initialize(ctx context.Context) error
	Render()
	UpdateConfig(cfg Config) error
	Teardown() error
}
