package widget

import (
	"context"
	"errors"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	domcart "example.com/cart-widget/internal/domain/cart"
	"example.com/cart-widget/internal/dom"
)

const (
	classActive = "is-active"
	classHidden = "is-hidden"

	EventCartAdd    = "CART_ADD"
	EventCartRemove = "CART_REMOVE"
)

// Controller orchestrates the cart widget: identity resolution, mutation
// dispatch against the remote cart service, the visibility state machine,
// and propagation to the companion toggle widget.
//
// The controller holds exactly one snapshot at a time and replaces it
// wholesale after every successful mutation. Remote calls run outside the
// lock, so mutations issued concurrently against the same line item race
// and the last response to land wins.
type Controller struct {
	mu         sync.Mutex
	cfg        Config
	snapshot   *domcart.Snapshot
	visibility Visibility
	node       dom.Node
	itemNodes  map[string]dom.Node
	torndown   bool

	identity    *IdentityStore
	client      RemoteClient
	renderer    LineItemRenderer
	toggle      Toggle
	tracker     Tracker
	checkout    CheckoutOpener
	doc         dom.Document
	transitions dom.Transitions
	validate    *validator.Validate
	log         logrus.FieldLogger
}

var _ Lifecycle = (*Controller)(nil)

// Dependencies collects everything the controller needs. Client, Storage,
// Renderer, and Document are required; the rest default to no-ops.
type Dependencies struct {
	Config      Config
	Client      RemoteClient
	Storage     IdentifierStorage
	Renderer    LineItemRenderer
	Toggle      Toggle
	Tracker     Tracker
	Checkout    CheckoutOpener
	Document    dom.Document
	Transitions dom.Transitions
	Logger      logrus.FieldLogger
}

func NewController(deps Dependencies) (*Controller, error) {
	switch {
	case deps.Client == nil:
		return nil, errors.New("widget: remote client is required")
	case deps.Storage == nil:
		return nil, errors.New("widget: identifier storage is required")
	case deps.Renderer == nil:
		return nil, errors.New("widget: line item renderer is required")
	case deps.Document == nil:
		return nil, errors.New("widget: document is required")
	}

	log := deps.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	toggle := deps.Toggle
	if toggle == nil {
		toggle = noopToggle{}
	}
	tracker := deps.Tracker
	if tracker == nil {
		tracker = noopTracker{}
	}
	checkout := deps.Checkout
	if checkout == nil {
		checkout = noopCheckout{}
	}

	validate := validator.New()
	if err := validate.Struct(deps.Config); err != nil {
		return nil, err
	}

	return &Controller{
		cfg:         deps.Config,
		itemNodes:   map[string]dom.Node{},
		identity:    NewIdentityStore(deps.Storage, deps.Client, deps.Config.StorageKey, log),
		client:      deps.Client,
		renderer:    deps.Renderer,
		toggle:      toggle,
		tracker:     tracker,
		checkout:    checkout,
		doc:         deps.Document,
		transitions: deps.Transitions,
		validate:    validate,
		log:         log,
	}, nil
}

// Initialize resolves the cart identity, holds the resulting snapshot,
// and seeds the companion toggle with the initial line items. Remote
// failures propagate to the caller without retries.
func (c *Controller) Initialize(ctx context.Context) error {
	snapshot, err := c.identity.ResolveOrCreate(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.snapshot = snapshot
	if c.node == nil {
		c.node = c.doc.CreateNode(c.cfg.Classes.Cart.Wrapper)
	}
	c.renderLocked()
	c.mu.Unlock()

	return c.toggle.Initialize(ctx, snapshot.LineItems)
}

// AddLineItem adds quantity units of variant to the cart. Visibility is
// forced open and rendered before the remote call is issued; a remote
// failure leaves that optimistic state in place.
func (c *Controller) AddLineItem(ctx context.Context, variant domcart.Variant, quantity int) (*domcart.Snapshot, error) {
	if quantity < 1 {
		quantity = 1
	}

	c.mu.Lock()
	if c.snapshot == nil {
		c.mu.Unlock()
		return nil, ErrNotInitialized
	}
	cartID := c.snapshot.ID
	c.visibility.Open()
	c.renderLocked()
	c.mu.Unlock()

	c.tracker.Track(EventCartAdd, variantProps(variant, quantity))

	snapshot, err := c.client.AddVariants(ctx, cartID, []domcart.VariantAddition{{Variant: variant, Quantity: quantity}})
	if err != nil {
		return nil, err
	}
	c.replaceSnapshot(snapshot)
	return snapshot, nil
}

// UpdateLineItem sets the given line item's quantity remotely, then
// replaces the held snapshot and re-renders self and the toggle.
func (c *Controller) UpdateLineItem(ctx context.Context, id string, quantity int) (*domcart.Snapshot, error) {
	c.mu.Lock()
	if c.snapshot == nil {
		c.mu.Unlock()
		return nil, ErrNotInitialized
	}
	cartID := c.snapshot.ID
	c.mu.Unlock()

	snapshot, err := c.client.UpdateLineItem(ctx, cartID, id, quantity)
	if err != nil {
		return nil, err
	}
	c.replaceSnapshot(snapshot)
	return snapshot, nil
}

// RemoveLineItem removes the line item via the server-side quantity-0
// convention and performs the two-phase visual removal of its element:
// hide immediately, detach either after the transition completes or
// synchronously when transitions are unavailable. It returns the
// element's handle.
func (c *Controller) RemoveLineItem(ctx context.Context, id string) (dom.Node, error) {
	c.mu.Lock()
	if c.snapshot == nil {
		c.mu.Unlock()
		return nil, ErrNotInitialized
	}
	cartID := c.snapshot.ID
	item, _ := c.snapshot.LineItem(id)
	node := c.itemNodes[id]
	c.mu.Unlock()

	c.tracker.Track(EventCartRemove, lineItemProps(item, 0))

	snapshot, err := c.client.UpdateLineItem(ctx, cartID, id, 0)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.snapshot = snapshot
	delete(c.itemNodes, id)
	c.mu.Unlock()
	c.toggle.Render(snapshot.LineItems)

	if node != nil {
		node.AddClass(classHidden)
		if node.Parent() != nil {
			if c.transitions == dom.TransitionsEnabled {
				node.OnTransitionEnd(func() {
					if node.Parent() != nil {
						node.Detach()
					}
				})
			} else {
				node.Detach()
			}
		}
	}
	return node, nil
}

// SetQuantity applies an absolute quantity to the line item. A target of
// zero or below is routed through removal, never sent as an update.
func (c *Controller) SetQuantity(ctx context.Context, id string, quantity int) (*domcart.Snapshot, error) {
	return c.resolveQuantity(ctx, id, func(int) int { return quantity })
}

// AdjustQuantity changes the line item's quantity by delta, routing
// results at or below zero through removal.
func (c *Controller) AdjustQuantity(ctx context.Context, id string, delta int) (*domcart.Snapshot, error) {
	return c.resolveQuantity(ctx, id, func(current int) int { return current + delta })
}

func (c *Controller) resolveQuantity(ctx context.Context, id string, fn func(current int) int) (*domcart.Snapshot, error) {
	c.mu.Lock()
	if c.snapshot == nil {
		c.mu.Unlock()
		return nil, ErrNotInitialized
	}
	item, ok := c.snapshot.LineItem(id)
	c.mu.Unlock()
	if !ok {
		return nil, domcart.ErrLineItemNotFound
	}

	if next := fn(item.Quantity); next > 0 {
		return c.UpdateLineItem(ctx, id, next)
	}
	if _, err := c.RemoveLineItem(ctx, id); err != nil {
		return nil, err
	}
	return c.Snapshot(), nil
}

// Checkout hands the session off to the external checkout page and
// returns the checkout URL.
func (c *Controller) Checkout() (string, error) {
	c.mu.Lock()
	if c.snapshot == nil {
		c.mu.Unlock()
		return "", ErrNotInitialized
	}
	url := c.snapshot.CheckoutURL
	c.mu.Unlock()

	if url == "" {
		return "", ErrNoCheckoutURL
	}
	if err := c.checkout.Open(url); err != nil {
		return "", err
	}
	return url, nil
}

func (c *Controller) Open() {
	c.mu.Lock()
	c.visibility.Open()
	c.renderLocked()
	c.mu.Unlock()
}

func (c *Controller) Close() {
	c.mu.Lock()
	c.visibility.Close()
	c.renderLocked()
	c.mu.Unlock()
}

func (c *Controller) ToggleVisibility() {
	c.mu.Lock()
	c.visibility.Toggle()
	c.renderLocked()
	c.mu.Unlock()
}

func (c *Controller) Visible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.visibility.Visible()
}

// Snapshot returns the currently held cart snapshot.
func (c *Controller) Snapshot() *domcart.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot
}

// Render applies the visibility state to the widget node and refreshes
// the per-line-item elements.
func (c *Controller) Render() {
	c.mu.Lock()
	c.renderLocked()
	c.mu.Unlock()
}

// UpdateConfig merges override into the current configuration and
// propagates the result to the companion toggle.
func (c *Controller) UpdateConfig(override Config) error {
	c.mu.Lock()
	merged, err := c.cfg.Merge(override)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	if err := c.validate.Struct(merged); err != nil {
		c.mu.Unlock()
		return err
	}
	c.cfg = merged
	c.renderLocked()
	c.mu.Unlock()

	c.toggle.UpdateConfig(merged)
	return nil
}

// Teardown releases the widget's node and tears down the companion
// toggle. It is safe to call more than once and after a failed
// initialization.
func (c *Controller) Teardown() error {
	c.mu.Lock()
	if c.torndown {
		c.mu.Unlock()
		return nil
	}
	c.torndown = true
	node := c.node
	c.node = nil
	c.itemNodes = map[string]dom.Node{}
	c.mu.Unlock()

	if node != nil && node.Parent() != nil {
		node.Detach()
	}
	return c.toggle.Teardown()
}

func (c *Controller) replaceSnapshot(snapshot *domcart.Snapshot) {
	c.mu.Lock()
	c.snapshot = snapshot
	c.renderLocked()
	c.mu.Unlock()
	c.toggle.Render(snapshot.LineItems)
}

func (c *Controller) renderLocked() {
	if c.node == nil || c.snapshot == nil {
		return
	}
	if c.visibility.Visible() {
		c.node.AddClass(classActive)
	} else {
		c.node.RemoveClass(classActive)
	}

	seen := make(map[string]bool, len(c.snapshot.LineItems))
	for _, item := range c.snapshot.LineItems {
		seen[item.ID] = true
		node, ok := c.itemNodes[item.ID]
		if !ok {
			node = c.node.AppendChild(c.cfg.Classes.LineItem.LineItem)
			c.itemNodes[item.ID] = node
		}
		markup, err := c.renderer.Render(lineItemView{LineItem: item, Classes: c.cfg.Classes}, nil)
		if err != nil {
			c.log.WithError(err).WithField("line_item_id", item.ID).Error("line item render failed")
			continue
		}
		node.SetHTML(markup)
	}
	for id, node := range c.itemNodes {
		if seen[id] {
			continue
		}
		if node.Parent() != nil {
			node.Detach()
		}
		delete(c.itemNodes, id)
	}
}

func variantProps(variant domcart.Variant, quantity int) map[string]any {
	return map[string]any{
		"id":       variant.ID,
		"title":    variant.ProductTitle,
		"price":    variant.Price,
		"sku":      nil,
		"quantity": quantity,
	}
}

func lineItemProps(item domcart.LineItem, quantity int) map[string]any {
	return map[string]any{
		"id":       item.VariantID,
		"title":    item.Title,
		"price":    item.Price,
		"sku":      nil,
		"quantity": quantity,
	}
}

type noopToggle struct{}

func (noopToggle) Initialize(context.Context, []domcart.LineItem) error { return nil }
func (noopToggle) Render([]domcart.LineItem)                            {}
func (noopToggle) UpdateConfig(Config)                                  {}
func (noopToggle) Teardown() error                                      { return nil }

type noopTracker struct{}

func (noopTracker) Track(string, map[string]any) {}

type noopCheckout struct{}

func (noopCheckout) Open(string) error { return nil }
