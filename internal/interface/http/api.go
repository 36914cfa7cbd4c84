package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	domcart "example.com/cart-widget/internal/domain/cart"
	"example.com/cart-widget/internal/usecase/widget"
)

// API exposes the widget's named action bindings over HTTP, standing in
// for the DOM-event-binding layer of a browser host.
type API struct {
	controller *widget.Controller
	validator  *validator.Validate
	log        logrus.FieldLogger
}

type Dependencies struct {
	Controller *widget.Controller
	Logger     logrus.FieldLogger
}

func NewAPI(deps Dependencies) *API {
	log := deps.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &API{
		controller: deps.Controller,
		validator:  validator.New(),
		log:        log,
	}
}

func (a *API) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1/widget", func(r chi.Router) {
		r.Get("/", a.handleViewData)
		r.Get("/checkout", a.handleCheckout)
		r.Post("/cart/items", a.handleAddLineItem)
		r.Post("/actions/{action}", a.handleAction)
		r.Post("/visibility/open", a.handleOpen)
		r.Post("/visibility/toggle", a.handleToggle)
	})

	return r
}

func (a *API) decodeAndValidate(r *http.Request, dst any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return err
	}
	return a.validator.Struct(dst)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type errorResponse struct {
	Error string `json:"error"`
}

func respondError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func handleDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domcart.ErrCartNotFound),
		errors.Is(err, domcart.ErrLineItemNotFound),
		errors.Is(err, widget.ErrUnknownAction):
		respondError(w, http.StatusNotFound, err)
	case errors.Is(err, widget.ErrNoCheckoutURL):
		respondError(w, http.StatusUnprocessableEntity, err)
	case errors.Is(err, widget.ErrNotInitialized):
		respondError(w, http.StatusServiceUnavailable, err)
	default:
		respondError(w, http.StatusInternalServerError, err)
	}
}

func mapSnapshot(snapshot *domcart.Snapshot) map[string]any {
	items := make([]map[string]any, 0, len(snapshot.LineItems))
	for _, item := range snapshot.LineItems {
		items = append(items, map[string]any{
			"id":         item.ID,
			"variant_id": item.VariantID,
			"title":      item.Title,
			"price":      item.Price,
			"quantity":   item.Quantity,
		})
	}
	return map[string]any{
		"id":           snapshot.ID,
		"checkout_url": snapshot.CheckoutURL,
		"line_items":   items,
	}
}

func mapViewData(view widget.ViewData) map[string]any {
	data := mapSnapshot(&view.Snapshot)
	data["wrapper_class"] = view.WrapperClass
	data["line_items_html"] = view.LineItemsHTML
	data["is_empty"] = view.IsEmpty
	return data
}
