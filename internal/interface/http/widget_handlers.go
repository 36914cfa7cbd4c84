package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	domcart "example.com/cart-widget/internal/domain/cart"
	"example.com/cart-widget/internal/usecase/widget"
)

type addLineItemRequest struct {
	Variant struct {
		ID           string `json:"id" validate:"required"`
		ProductTitle string `json:"product_title"`
		Price        string `json:"price"`
	} `json:"variant" validate:"required"`
	Quantity int `json:"quantity" validate:"gte=0"`
}

type actionRequest struct {
	LineItemID string `json:"line_item_id"`
	Value      int    `json:"value" validate:"gte=0"`
}

func (a *API) handleViewData(w http.ResponseWriter, r *http.Request) {
	view, err := a.controller.ViewData()
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapViewData(view))
}

func (a *API) handleAddLineItem(w http.ResponseWriter, r *http.Request) {
	var req addLineItemRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	variant := domcart.Variant{
		ID:           req.Variant.ID,
		ProductTitle: req.Variant.ProductTitle,
		Price:        req.Variant.Price,
	}
	snapshot, err := a.controller.AddLineItem(r.Context(), variant, req.Quantity)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapSnapshot(snapshot))
}

func (a *API) handleAction(w http.ResponseWriter, r *http.Request) {
	action := widget.Action(chi.URLParam(r, "action"))

	var req actionRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	if err := a.controller.Dispatch(r.Context(), action, req.LineItemID, req.Value); err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapSnapshot(a.controller.Snapshot()))
}

func (a *API) handleOpen(w http.ResponseWriter, r *http.Request) {
	a.controller.Open()
	writeJSON(w, http.StatusOK, map[string]bool{"visible": a.controller.Visible()})
}

func (a *API) handleToggle(w http.ResponseWriter, r *http.Request) {
	a.controller.ToggleVisibility()
	writeJSON(w, http.StatusOK, map[string]bool{"visible": a.controller.Visible()})
}

func (a *API) handleCheckout(w http.ResponseWriter, r *http.Request) {
	url, err := a.controller.Checkout()
	if err != nil {
		handleDomainError(w, err)
		return
	}
	http.Redirect(w, r, url, http.StatusSeeOther)
}
