package storeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/angelmondragon/gamestore-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/gamestore-storefront/pkg/errors"
)

const (
	DefaultBaseURL = "http://localhost:8001"

	OpListProducts   = "list_products"
	OpGetProduct     = "get_product"
	OpListCategories = "list_categories"
	OpGetCart        = "get_cart"
	OpAddToCart      = "add_to_cart"
	OpRemoveCartItem = "remove_cart_item"
	OpUpdateCartItem = "update_cart_item"
	OpPing           = "ping"

	errorBodyReadLimit int64 = 1024
)

var errBaseURLInvalid = errors.New("store backend base url must be an absolute http(s) url")

// Observer is notified after every backend call.
type Observer func(operation string, duration time.Duration, err error)

// StatusError carries a non-2xx backend answer.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("status %d", e.Status)
	}
	return fmt.Sprintf("status %d: %s", e.Status, e.Body)
}

// StatusCode exposes the upstream status to error dumps.
func (e *StatusError) StatusCode() int {
	return e.Status
}

// Client talks to the store backend REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	observer   Observer
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets a request timeout on the client. Zero keeps the http.Client default.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			clone := *c.httpClient
			clone.Timeout = timeout
			c.httpClient = &clone
		}
	}
}

// WithObserver registers a callback invoked after each call.
func WithObserver(observer Observer) Option {
	return func(c *Client) {
		c.observer = observer
	}
}

// NewClient builds a backend client for the given origin.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	parsed, err := url.Parse(trimmed)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, errBaseURLInvalid
	}

	client := &Client{
		baseURL:    trimmed,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// BaseURL returns the configured backend origin.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListProducts fetches the product list matching the optional filters.
func (c *Client) ListProducts(ctx context.Context, q ProductQuery) ([]Product, error) {
	query := url.Values{}
	if !q.Category.IsAll() {
		query.Set("category", q.Category.String())
	}
	if q.Search != "" {
		query.Set("search", q.Search)
	}

	var env productsEnvelope
	if err := c.do(ctx, OpListProducts, http.MethodGet, "/api/products", query, nil, &env); err != nil {
		return nil, err
	}
	if env.Products == nil {
		return []Product{}, nil
	}
	return env.Products, nil
}

// GetProduct fetches a single product by id.
func (c *Client) GetProduct(ctx context.Context, productID string) (*Product, error) {
	id := strings.TrimSpace(productID)
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	var product Product
	if err := c.do(ctx, OpGetProduct, http.MethodGet, "/api/products/"+url.PathEscape(id), nil, nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// ListCategories fetches the distinct category values known to the backend.
func (c *Client) ListCategories(ctx context.Context) ([]enums.ProductCategory, error) {
	var env categoriesEnvelope
	if err := c.do(ctx, OpListCategories, http.MethodGet, "/api/categories", nil, nil, &env); err != nil {
		return nil, err
	}
	if env.Categories == nil {
		return []enums.ProductCategory{}, nil
	}
	return env.Categories, nil
}

// GetCart fetches the authoritative cart snapshot.
func (c *Client) GetCart(ctx context.Context) (*Cart, error) {
	var cart Cart
	if err := c.do(ctx, OpGetCart, http.MethodGet, "/api/cart", nil, nil, &cart); err != nil {
		return nil, err
	}
	if cart.Items == nil {
		cart.Items = []CartItem{}
	}
	return &cart, nil
}

// AddToCart requests insertion of quantity units of the product. Only the status is consumed.
// The payload is sent both as JSON and as query parameters, which is what the backend binds.
func (c *Client) AddToCart(ctx context.Context, productID string, quantity int) error {
	id := strings.TrimSpace(productID)
	if id == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	query := url.Values{}
	query.Set("product_id", id)
	query.Set("quantity", strconv.Itoa(quantity))
	return c.do(ctx, OpAddToCart, http.MethodPost, "/api/cart/add", query, addToCartRequest{ProductID: id, Quantity: quantity}, nil)
}

// RemoveCartItem deletes a cart line.
func (c *Client) RemoveCartItem(ctx context.Context, itemID string) error {
	id := strings.TrimSpace(itemID)
	if id == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart item id is required")
	}
	return c.do(ctx, OpRemoveCartItem, http.MethodDelete, "/api/cart/"+url.PathEscape(id), nil, nil, nil)
}

// UpdateCartItem sets the quantity of a cart line. The value is forwarded as-is.
func (c *Client) UpdateCartItem(ctx context.Context, itemID string, quantity int) error {
	id := strings.TrimSpace(itemID)
	if id == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart item id is required")
	}
	query := url.Values{}
	query.Set("quantity", strconv.Itoa(quantity))
	return c.do(ctx, OpUpdateCartItem, http.MethodPut, "/api/cart/"+url.PathEscape(id), query, updateQuantityRequest{Quantity: quantity}, nil)
}

// Ping checks that the backend answers on its root route.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, OpPing, http.MethodGet, "/", nil, nil, nil)
}

func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body any, out any) (err error) {
	start := time.Now()
	defer func() {
		if c.observer != nil {
			c.observer(op, time.Since(start), err)
		}
	}()

	endpoint := c.buildURL(path)
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, marshalErr := json.Marshal(body)
		if marshalErr != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, marshalErr, "marshal "+op+" request")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build "+op+" request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute "+op+" request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		statusErr := &StatusError{Status: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
		code := pkgerrors.CodeDependency
		if resp.StatusCode == http.StatusNotFound {
			code = pkgerrors.CodeNotFound
		}
		return pkgerrors.Wrap(code, statusErr, op+" request failed").WithDetails(map[string]any{"status": resp.StatusCode})
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDecode, err, "decode "+op+" response")
	}
	return nil
}

func (c *Client) buildURL(path string) string {
	return fmt.Sprintf("%s/%s", c.baseURL, strings.TrimLeft(path, "/"))
}
