package widget

import "dario.cat/mergo"

type CartClasses struct {
	Wrapper string `validate:"required"`
	Title   string
	Close   string
	Button  string
}

type LineItemClasses struct {
	LineItem       string `validate:"required"`
	Title          string
	Price          string
	Quantity       string
	QuantityButton string
	QuantityInput  string
}

type ToggleClasses struct {
	Toggle string
	Count  string
}

type Classes struct {
	Cart     CartClasses
	LineItem LineItemClasses
	Toggle   ToggleClasses
}

type Text struct {
	Title  string `validate:"required"`
	Empty  string
	Button string `validate:"required"`
}

// LineItemConfig drives the external line-item renderer: template source
// per named section, an enable flag per section, and render order.
type LineItemConfig struct {
	Templates map[string]string
	Contents  map[string]bool
	Order     []string `validate:"min=1"`
}

// Config is the widget's display and behavior configuration.
type Config struct {
	StorageKey string `validate:"required"`
	Classes    Classes
	Text       Text
	LineItem   LineItemConfig
}

// Merge returns a copy of c with every non-zero field of override applied
// on top.
func (c Config) Merge(override Config) (Config, error) {
	merged := c
	if err := mergo.Merge(&merged, override, mergo.WithOverride); err != nil {
		return Config{}, err
	}
	return merged, nil
}

// DefaultConfig returns the stock widget configuration.
func DefaultConfig() Config {
	return Config{
		StorageKey: "lastCartId",
		Classes: Classes{
			Cart: CartClasses{
				Wrapper: "cart-widget-wrapper",
				Title:   "cart-widget__title",
				Close:   "cart-widget__close",
				Button:  "cart-widget__checkout",
			},
			LineItem: LineItemClasses{
				LineItem:       "cart-item",
				Title:          "cart-item__title",
				Price:          "cart-item__price",
				Quantity:       "cart-item__quantity",
				QuantityButton: "cart-item__quantity-button",
				QuantityInput:  "cart-item__quantity-input",
			},
			Toggle: ToggleClasses{
				Toggle: "cart-toggle",
				Count:  "cart-toggle__count",
			},
		},
		Text: Text{
			Title:  "Cart",
			Empty:  "Your cart is empty.",
			Button: "Checkout",
		},
		LineItem: LineItemConfig{
			Templates: map[string]string{
				"title": `<span class="{{.Classes.LineItem.Title}}">{{.Title}}</span>`,
				"price": `<span class="{{.Classes.LineItem.Price}}">{{.Price}}</span>`,
				"quantity": `<div class="{{.Classes.LineItem.Quantity}}">` +
					`<button class="{{.Classes.LineItem.QuantityButton}} quantity-decrement" data-line-item-id="{{.ID}}">-</button>` +
					`<input class="{{.Classes.LineItem.QuantityInput}}" value="{{.Quantity}}" data-line-item-id="{{.ID}}"/>` +
					`<button class="{{.Classes.LineItem.QuantityButton}} quantity-increment" data-line-item-id="{{.ID}}">+</button>` +
					`</div>`,
			},
			Contents: map[string]bool{
				"title":    true,
				"price":    true,
				"quantity": true,
			},
			Order: []string{"title", "price", "quantity"},
		},
	}
}
