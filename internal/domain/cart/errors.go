package cart

import "errors"

var (
	ErrCartNotFound     = errors.New("cart not found")
	ErrLineItemNotFound = errors.New("line item not found")
)
