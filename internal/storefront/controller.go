package storefront

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/angelmondragon/gamestore-storefront/internal/catalog"
	"github.com/angelmondragon/gamestore-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/gamestore-storefront/pkg/errors"
	"github.com/angelmondragon/gamestore-storefront/pkg/logger"
	"github.com/angelmondragon/gamestore-storefront/pkg/storeapi"
	"golang.org/x/sync/errgroup"
)

const (
	OpLoadProducts   = "load_products"
	OpLoadCategories = "load_categories"
	OpLoadCart       = "load_cart"
	OpAddToCart      = "add_to_cart"
	OpRemoveFromCart = "remove_from_cart"
	OpUpdateQuantity = "update_quantity"
	OpOpenProduct    = "open_product"

	DefaultSearchDebounce = 300 * time.Millisecond
)

// Catalog reads products and categories.
type Catalog interface {
	ListProducts(ctx context.Context, q storeapi.ProductQuery) ([]storeapi.Product, error)
	ListCategories(ctx context.Context) ([]enums.ProductCategory, error)
	GetProduct(ctx context.Context, productID string) (*storeapi.Product, error)
}

// CartBackend performs cart reads and mutations against the backend.
type CartBackend interface {
	GetCart(ctx context.Context) (*storeapi.Cart, error)
	AddToCart(ctx context.Context, productID string, quantity int) error
	RemoveCartItem(ctx context.Context, itemID string) error
	UpdateCartItem(ctx context.Context, itemID string, quantity int) error
}

// Controller owns the storefront state and the operations that change it.
// Backend calls happen outside the state lock; product list responses are
// applied only when no newer list request was issued in the meantime.
type Controller struct {
	catalog Catalog
	cart    CartBackend
	logg    *logger.Logger
	search  *debouncer

	mu           sync.Mutex
	state        State
	productSeq   uint64
	pendingLoads int
}

// Option configures optional controller behavior.
type Option func(*controllerOptions)

type controllerOptions struct {
	logg     *logger.Logger
	debounce time.Duration
}

// WithLogger sets the logger used for failed operations.
func WithLogger(logg *logger.Logger) Option {
	return func(o *controllerOptions) {
		if logg != nil {
			o.logg = logg
		}
	}
}

// WithSearchDebounce sets the live search delay. Zero reloads on every keystroke.
func WithSearchDebounce(delay time.Duration) Option {
	return func(o *controllerOptions) {
		if delay >= 0 {
			o.debounce = delay
		}
	}
}

// NewController builds the state container.
func NewController(cat Catalog, cart CartBackend, opts ...Option) (*Controller, error) {
	if cat == nil {
		return nil, fmt.Errorf("catalog required")
	}
	if cart == nil {
		return nil, fmt.Errorf("cart backend required")
	}
	options := controllerOptions{debounce: DefaultSearchDebounce}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}
	if options.logg == nil {
		options.logg = logger.New(logger.Options{ServiceName: "storefront", Output: io.Discard})
	}
	return &Controller{
		catalog: cat,
		cart:    cart,
		logg:    options.logg,
		search:  newDebouncer(options.debounce),
		state: State{
			Products:   []storeapi.Product{},
			Categories: []enums.ProductCategory{},
			Category:   enums.ProductCategoryAll,
			Cart:       storeapi.Cart{Items: []storeapi.CartItem{}},
		},
	}, nil
}

// Bootstrap loads products, categories and cart concurrently. Each load keeps
// its own failure policy; the first error is returned.
func (c *Controller) Bootstrap(ctx context.Context) error {
	c.mu.Lock()
	category, search := c.state.Category, c.state.Search
	c.mu.Unlock()

	var g errgroup.Group
	g.Go(func() error { return c.LoadProducts(ctx, category, search) })
	g.Go(func() error { return c.LoadCategories(ctx) })
	g.Go(func() error { return c.LoadCart(ctx) })
	return g.Wait()
}

// LoadProducts fetches the list for the (category, search) pair and records the pair as the current filter.
func (c *Controller) LoadProducts(ctx context.Context, category enums.ProductCategory, search string) error {
	query := catalog.NormalizeQuery(category, search)

	c.mu.Lock()
	c.productSeq++
	seq := c.productSeq
	c.state.Category = query.Category
	c.state.Search = search
	c.pendingLoads++
	c.state.Loading = true
	c.mu.Unlock()

	products, err := c.catalog.ListProducts(ctx, query)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.pendingLoads--
	c.state.Loading = c.pendingLoads > 0
	if seq != c.productSeq {
		c.logg.Debug(c.logg.WithFields(ctx, map[string]any{
			"operation": OpLoadProducts,
			"sequence":  seq,
			"latest":    c.productSeq,
		}), "discarding superseded product list")
		return err
	}
	if err != nil {
		c.failLocked(ctx, OpLoadProducts, err, MessageProductsFailed)
		return err
	}
	if products == nil {
		products = []storeapi.Product{}
	}
	c.state.Products = products
	return nil
}

// LoadCategories replaces the category list with the backend's distinct values.
func (c *Controller) LoadCategories(ctx context.Context) error {
	categories, err := c.catalog.ListCategories(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.failLocked(ctx, OpLoadCategories, err, MessageCategoriesFailed)
		return err
	}
	if categories == nil {
		categories = []enums.ProductCategory{}
	}
	c.state.Categories = categories
	return nil
}

// LoadCart replaces the cart wholesale with the backend snapshot.
func (c *Controller) LoadCart(ctx context.Context) error {
	cart, err := c.cart.GetCart(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.failLocked(ctx, OpLoadCart, err, MessageCartFailed)
		return err
	}
	snapshot := *cart
	if snapshot.Items == nil {
		snapshot.Items = []storeapi.CartItem{}
	}
	c.state.Cart = snapshot
	return nil
}

// AddToCart adds one unit of the product and re-fetches the cart. Products
// known to be out of stock are rejected without a backend call.
func (c *Controller) AddToCart(ctx context.Context, productID string) error {
	id := strings.TrimSpace(productID)
	if id == "" {
		return c.reject(ctx, OpAddToCart, pkgerrors.New(pkgerrors.CodeValidation, "product id is required"), MessageAddFailed)
	}

	c.mu.Lock()
	product, known := c.state.findProduct(id)
	c.mu.Unlock()
	if known && !product.InStock() {
		err := pkgerrors.New(pkgerrors.CodeValidation, "product is out of stock").WithDetails(map[string]any{"product_id": id})
		return c.reject(ctx, OpAddToCart, err, MessageOutOfStock)
	}

	if err := c.cart.AddToCart(ctx, id, 1); err != nil {
		return c.reject(ctx, OpAddToCart, err, MessageAddFailed)
	}
	if err := c.LoadCart(ctx); err != nil {
		return err
	}

	c.mu.Lock()
	c.state.Notice = successNotice(MessageAddedToCart)
	c.mu.Unlock()
	return nil
}

// RemoveFromCart deletes the cart line and re-fetches the cart.
func (c *Controller) RemoveFromCart(ctx context.Context, itemID string) error {
	id := strings.TrimSpace(itemID)
	if id == "" {
		return c.reject(ctx, OpRemoveFromCart, pkgerrors.New(pkgerrors.CodeValidation, "cart item id is required"), MessageRemoveFailed)
	}
	if err := c.cart.RemoveCartItem(ctx, id); err != nil {
		return c.reject(ctx, OpRemoveFromCart, err, MessageRemoveFailed)
	}
	return c.LoadCart(ctx)
}

// UpdateQuantity sets the line quantity and re-fetches the cart. A quantity
// below one removes the line.
func (c *Controller) UpdateQuantity(ctx context.Context, itemID string, quantity int) error {
	if quantity < 1 {
		return c.RemoveFromCart(ctx, itemID)
	}
	id := strings.TrimSpace(itemID)
	if id == "" {
		return c.reject(ctx, OpUpdateQuantity, pkgerrors.New(pkgerrors.CodeValidation, "cart item id is required"), MessageQuantityFailed)
	}
	if err := c.cart.UpdateCartItem(ctx, id, quantity); err != nil {
		return c.reject(ctx, OpUpdateQuantity, err, MessageQuantityFailed)
	}
	return c.LoadCart(ctx)
}

// IncrementQuantity adds one unit to the displayed line quantity.
func (c *Controller) IncrementQuantity(ctx context.Context, itemID string) error {
	return c.adjustQuantity(ctx, itemID, 1)
}

// DecrementQuantity removes one unit; the line is deleted when it reaches zero.
func (c *Controller) DecrementQuantity(ctx context.Context, itemID string) error {
	return c.adjustQuantity(ctx, itemID, -1)
}

func (c *Controller) adjustQuantity(ctx context.Context, itemID string, delta int) error {
	c.mu.Lock()
	item, ok := c.state.Cart.Item(strings.TrimSpace(itemID))
	c.mu.Unlock()
	if !ok {
		err := pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found").WithDetails(map[string]any{"item_id": itemID})
		return c.reject(ctx, OpUpdateQuantity, err, MessageCartItemNotFound)
	}
	return c.UpdateQuantity(ctx, item.ID, item.Quantity+delta)
}

// SelectCategory reloads the list for the category, keeping the current search.
func (c *Controller) SelectCategory(ctx context.Context, category enums.ProductCategory) error {
	c.search.Stop()
	c.mu.Lock()
	search := c.state.Search
	c.mu.Unlock()
	return c.LoadProducts(ctx, category, search)
}

// ApplyFilters reloads the list for an explicitly submitted filter pair.
func (c *Controller) ApplyFilters(ctx context.Context, category enums.ProductCategory, search string) error {
	c.search.Stop()
	return c.LoadProducts(ctx, category, search)
}

// SetSearch records the typed term and schedules a debounced reload.
func (c *Controller) SetSearch(ctx context.Context, term string) {
	c.mu.Lock()
	c.state.Search = term
	c.mu.Unlock()

	loadCtx := context.WithoutCancel(ctx)
	c.search.Trigger(func() {
		c.mu.Lock()
		category, search := c.state.Category, c.state.Search
		c.mu.Unlock()
		_ = c.LoadProducts(loadCtx, category, search)
	})
}

// OpenProduct shows the detail overlay. Products outside the current list are fetched.
func (c *Controller) OpenProduct(ctx context.Context, productID string) error {
	id := strings.TrimSpace(productID)
	c.mu.Lock()
	product, ok := c.state.findProduct(id)
	if ok {
		c.state.SelectedProduct = &product
		c.mu.Unlock()
		return nil
	}
	c.mu.Unlock()

	if id == "" {
		return c.reject(ctx, OpOpenProduct, pkgerrors.New(pkgerrors.CodeValidation, "product id is required"), MessageProductNotFound)
	}
	fetched, err := c.catalog.GetProduct(ctx, id)
	if err != nil {
		return c.reject(ctx, OpOpenProduct, err, MessageProductNotFound)
	}
	c.mu.Lock()
	c.state.SelectedProduct = fetched
	c.mu.Unlock()
	return nil
}

// CloseProduct hides the detail overlay.
func (c *Controller) CloseProduct() {
	c.mu.Lock()
	c.state.SelectedProduct = nil
	c.mu.Unlock()
}

// OpenCart shows the cart overlay.
func (c *Controller) OpenCart() {
	c.mu.Lock()
	c.state.CartOpen = true
	c.mu.Unlock()
}

// CloseCart hides the cart overlay.
func (c *Controller) CloseCart() {
	c.mu.Lock()
	c.state.CartOpen = false
	c.mu.Unlock()
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// ConsumeNotice returns the pending notice and clears it.
func (c *Controller) ConsumeNotice() *Notice {
	c.mu.Lock()
	defer c.mu.Unlock()
	notice := c.state.Notice
	c.state.Notice = nil
	return notice
}

// Close cancels any pending debounced search.
func (c *Controller) Close() {
	c.search.Stop()
}

func (c *Controller) reject(ctx context.Context, op string, err error, message string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failLocked(ctx, op, err, message)
	return err
}

func (c *Controller) failLocked(ctx context.Context, op string, err error, message string) {
	logCtx := c.logg.WithOperation(ctx, op)
	if typed := pkgerrors.As(err); typed != nil {
		logCtx = c.logg.WithField(logCtx, "error_code", typed.Code())
	}
	if pkgerrors.IsCode(err, pkgerrors.CodeValidation) || pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		c.logg.Warn(logCtx, err.Error())
	} else {
		c.logg.Error(logCtx, "storefront operation failed", err)
	}
	c.state.Notice = errorNotice(message)
}
