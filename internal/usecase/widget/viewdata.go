package widget

import (
	domcart "example.com/cart-widget/internal/domain/cart"
)

// ViewData is the merged structure the external rendering engine
// consumes: current snapshot, presentation class for the visibility
// state, pre-rendered line-item markup, and the empty flag.
type ViewData struct {
	Snapshot      domcart.Snapshot
	WrapperClass  string
	Text          Text
	Classes       Classes
	LineItemsHTML string
	IsEmpty       bool
}

// lineItemView is what each line item's template sees: the item itself
// annotated with the shared class metadata.
type lineItemView struct {
	domcart.LineItem
	Classes Classes
}

// ViewData builds the current view data. The caller must have
// initialized the controller.
func (c *Controller) ViewData() (ViewData, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.snapshot == nil {
		return ViewData{}, ErrNotInitialized
	}

	html, err := c.lineItemsHTMLLocked()
	if err != nil {
		return ViewData{}, err
	}
	return ViewData{
		Snapshot:      *c.snapshot,
		WrapperClass:  c.visibility.WrapperClass(),
		Text:          c.cfg.Text,
		Classes:       c.cfg.Classes,
		LineItemsHTML: html,
		IsEmpty:       c.snapshot.IsEmpty(),
	}, nil
}

func (c *Controller) lineItemsHTMLLocked() (string, error) {
	wrapper := func(inner string) string {
		return `<div class="` + c.cfg.Classes.LineItem.LineItem + `">` + inner + `</div>`
	}

	var html string
	for _, item := range c.snapshot.LineItems {
		out, err := c.renderer.Render(lineItemView{LineItem: item, Classes: c.cfg.Classes}, wrapper)
		if err != nil {
			return "", err
		}
		html += out
	}
	return html, nil
}
