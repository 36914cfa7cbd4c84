package cartapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"

	domcart "example.com/cart-widget/internal/domain/cart"
)

// Client talks JSON over HTTP to the remote cart service. Timeouts are
// the client's responsibility, not the controller's.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: baseURL, http: httpClient}
}

type lineItemPayload struct {
	ID        string `json:"id"`
	VariantID string `json:"variant_id"`
	Title     string `json:"title"`
	Price     string `json:"price"`
	Quantity  int    `json:"quantity"`
	SKU       string `json:"sku,omitempty"`
}

type snapshotPayload struct {
	ID          string            `json:"id"`
	CheckoutURL string            `json:"checkout_url"`
	LineItems   []lineItemPayload `json:"line_items"`
}

type additionPayload struct {
	VariantID    string `json:"variant_id"`
	ProductTitle string `json:"product_title"`
	Price        string `json:"price"`
	Quantity     int    `json:"quantity"`
}

type updatePayload struct {
	Quantity int `json:"quantity"`
}

func (c *Client) CreateCart(ctx context.Context) (*domcart.Snapshot, error) {
	return c.do(ctx, http.MethodPost, "/carts", nil, nil)
}

func (c *Client) FetchCart(ctx context.Context, id string) (*domcart.Snapshot, error) {
	return c.do(ctx, http.MethodGet, "/carts/"+url.PathEscape(id), nil, domcart.ErrCartNotFound)
}

func (c *Client) AddVariants(ctx context.Context, cartID string, additions []domcart.VariantAddition) (*domcart.Snapshot, error) {
	payload := make([]additionPayload, 0, len(additions))
	for _, add := range additions {
		payload = append(payload, additionPayload{
			VariantID:    add.Variant.ID,
			ProductTitle: add.Variant.ProductTitle,
			Price:        add.Variant.Price,
			Quantity:     add.Quantity,
		})
	}
	return c.do(ctx, http.MethodPost, "/carts/"+url.PathEscape(cartID)+"/line-items", payload, domcart.ErrCartNotFound)
}

func (c *Client) UpdateLineItem(ctx context.Context, cartID, lineItemID string, quantity int) (*domcart.Snapshot, error) {
	path := "/carts/" + url.PathEscape(cartID) + "/line-items/" + url.PathEscape(lineItemID)
	return c.do(ctx, http.MethodPut, path, updatePayload{Quantity: quantity}, domcart.ErrLineItemNotFound)
}

func (c *Client) do(ctx context.Context, method, path string, body any, notFound error) (*domcart.Snapshot, error) {
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "cart api: encode request")
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, errors.Wrap(err, "cart api: build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "cart api: %s %s", method, path)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound && notFound != nil {
		return nil, notFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.Errorf("cart api: unexpected status %d for %s %s", resp.StatusCode, method, path)
	}

	var payload snapshotPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, errors.Wrap(err, "cart api: decode snapshot")
	}
	return toDomain(payload), nil
}

func toDomain(payload snapshotPayload) *domcart.Snapshot {
	items := make([]domcart.LineItem, 0, len(payload.LineItems))
	for _, item := range payload.LineItems {
		items = append(items, domcart.LineItem{
			ID:        item.ID,
			VariantID: item.VariantID,
			Title:     item.Title,
			Price:     item.Price,
			Quantity:  item.Quantity,
			SKU:       item.SKU,
		})
	}
	return &domcart.Snapshot{
		ID:          payload.ID,
		CheckoutURL: payload.CheckoutURL,
		LineItems:   items,
	}
}
