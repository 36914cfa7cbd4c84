package widget

import "errors"

var (
	ErrNotInitialized = errors.New("cart widget not initialized")
	ErrUnknownAction  = errors.New("unknown widget action")
	ErrNoCheckoutURL  = errors.New("cart has no checkout url")
)
