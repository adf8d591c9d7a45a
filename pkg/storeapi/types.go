package storeapi

import (
	"github.com/angelmondragon/gamestore-storefront/pkg/enums"
	"github.com/shopspring/decimal"
)

// Product mirrors the backend product document. The storefront never mutates it.
type Product struct {
	ID          string                `json:"id"`
	Name        string                `json:"name"`
	Category    enums.ProductCategory `json:"category"`
	Price       decimal.Decimal       `json:"price"`
	Description string                `json:"description"`
	ImageURL    string                `json:"image_url"`
	Condition   string                `json:"condition"`
	Console     *string               `json:"console,omitempty"`
	Brand       *string               `json:"brand,omitempty"`
	Stock       int                   `json:"stock"`
	CreatedAt   string                `json:"created_at,omitempty"`
}

// InStock reports whether the product can be added to the cart.
func (p Product) InStock() bool {
	return p.Stock > 0
}

// CartItem is one cart line with the product snapshot joined by the backend.
type CartItem struct {
	ID        string  `json:"id"`
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	AddedAt   string  `json:"added_at,omitempty"`
	Product   Product `json:"product"`
}

// Cart is the authoritative cart snapshot. Total and Count are computed by the backend.
type Cart struct {
	Items []CartItem      `json:"items"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// Item returns the cart line with the given id.
func (c Cart) Item(itemID string) (CartItem, bool) {
	for _, item := range c.Items {
		if item.ID == itemID {
			return item, true
		}
	}
	return CartItem{}, false
}

// ProductQuery holds the optional list filters. An "all" or empty category and
// an empty search are omitted from the request.
type ProductQuery struct {
	Category enums.ProductCategory
	Search   string
}

type productsEnvelope struct {
	Products []Product `json:"products"`
}

type categoriesEnvelope struct {
	Categories []enums.ProductCategory `json:"categories"`
}

type addToCartRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}
