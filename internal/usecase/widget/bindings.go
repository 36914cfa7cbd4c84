package widget

import "context"

// Action names the user interactions a DOM-event-binding layer can route
// to the controller.
type Action string

const (
	ActionClose             Action = "close"
	ActionQuantityIncrement Action = "quantity-increment"
	ActionQuantityDecrement Action = "quantity-decrement"
	ActionCheckoutOpen      Action = "checkout-open"
	ActionQuantityBlur      Action = "quantity-blur"
)

// Dispatch routes a named action to its controller operation. value is
// only consulted by quantity-blur, where it carries the absolute quantity
// read from the input field.
func (c *Controller) Dispatch(ctx context.Context, action Action, lineItemID string, value int) error {
	switch action {
	case ActionClose:
		c.Close()
		return nil
	case ActionQuantityIncrement:
		_, err := c.AdjustQuantity(ctx, lineItemID, 1)
		return err
	case ActionQuantityDecrement:
		_, err := c.AdjustQuantity(ctx, lineItemID, -1)
		return err
	case ActionQuantityBlur:
		_, err := c.SetQuantity(ctx, lineItemID, value)
		return err
	case ActionCheckoutOpen:
		_, err := c.Checkout()
		return err
	default:
		return ErrUnknownAction
	}
}
