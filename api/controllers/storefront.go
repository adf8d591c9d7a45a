package controllers

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/gamestore-storefront/api/responses"
	"github.com/angelmondragon/gamestore-storefront/api/validators"
	"github.com/angelmondragon/gamestore-storefront/internal/catalog"
	"github.com/angelmondragon/gamestore-storefront/internal/storefront"
	"github.com/angelmondragon/gamestore-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/gamestore-storefront/pkg/errors"
	"github.com/angelmondragon/gamestore-storefront/pkg/logger"
)

const (
	maxSearchLength   = 200
	maxCategoryLength = 64
	maxIDLength       = 64
)

// Storefront is the state container surface the HTTP layer drives.
type Storefront interface {
	Snapshot() storefront.State
	ConsumeNotice() *storefront.Notice
	ApplyFilters(ctx context.Context, category enums.ProductCategory, search string) error
	SelectCategory(ctx context.Context, category enums.ProductCategory) error
	SetSearch(ctx context.Context, term string)
	OpenProduct(ctx context.Context, productID string) error
	CloseProduct()
	OpenCart()
	CloseCart()
	AddToCart(ctx context.Context, productID string) error
	RemoveFromCart(ctx context.Context, itemID string) error
	UpdateQuantity(ctx context.Context, itemID string, quantity int) error
	IncrementQuantity(ctx context.Context, itemID string) error
	DecrementQuantity(ctx context.Context, itemID string) error
}

// PageRenderer writes the HTML page for a snapshot.
type PageRenderer interface {
	Page(w io.Writer, state storefront.State, notice *storefront.Notice) error
}

type filtersForm struct {
	Category string `json:"category" validate:"max=64"`
	Search   string `json:"search" validate:"max=200"`
}

type addToCartForm struct {
	ProductID string `json:"product_id" validate:"required,max=64"`
}

type quantityForm struct {
	Quantity *int `json:"quantity" validate:"required_without=Delta,omitempty,min=0,max=999"`
	Delta    *int `json:"delta" validate:"required_without=Quantity,omitempty,oneof=-1 1"`
}

// StorefrontPage renders the storefront from the latest state and consumes the pending notice.
func StorefrontPage(sf Storefront, page PageRenderer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := sf.Snapshot()
		notice := sf.ConsumeNotice()

		var buf bytes.Buffer
		if err := page.Page(&buf, state, notice); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render storefront page"))
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(http.StatusOK)
		_, _ = buf.WriteTo(w)
	}
}

// StorefrontApplyFilters reloads products for a submitted (category, search) pair.
func StorefrontApplyFilters(sf Storefront, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form := filtersForm{
			Category: validators.FormString(r, "category", 0),
			Search:   validators.FormString(r, "search", maxSearchLength),
		}
		if err := validators.ValidateStruct(&form); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		_ = sf.ApplyFilters(r.Context(), catalog.NormalizeCategory(form.Category), form.Search)
		responses.SeeOther(w, r, "/")
	}
}

// StorefrontSelectCategory reloads products for the category in the path.
func StorefrontSelectCategory(sf Storefront, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := chi.URLParam(r, "category")
		if len(raw) > maxCategoryLength {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "category is too long"))
			return
		}
		_ = sf.SelectCategory(r.Context(), catalog.NormalizeCategory(raw))
		responses.SeeOther(w, r, "/")
	}
}

// StorefrontOpenProduct shows the detail overlay for the product in the path.
func StorefrontOpenProduct(sf Storefront, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := pathID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		_ = sf.OpenProduct(r.Context(), productID)
		responses.SeeOther(w, r, "/")
	}
}

// StorefrontCloseProduct hides the detail overlay.
func StorefrontCloseProduct(sf Storefront) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sf.CloseProduct()
		responses.SeeOther(w, r, "/")
	}
}

// StorefrontOpenCart shows the cart overlay.
func StorefrontOpenCart(sf Storefront) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sf.OpenCart()
		responses.SeeOther(w, r, "/")
	}
}

// StorefrontCloseCart hides the cart overlay.
func StorefrontCloseCart(sf Storefront) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sf.CloseCart()
		responses.SeeOther(w, r, "/")
	}
}

// StorefrontAddToCart adds one unit of the posted product.
func StorefrontAddToCart(sf Storefront, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form := addToCartForm{ProductID: validators.FormString(r, "product_id", 0)}
		if err := validators.ValidateStruct(&form); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		_ = sf.AddToCart(r.Context(), form.ProductID)
		responses.SeeOther(w, r, "/")
	}
}

// StorefrontRemoveCartItem deletes the cart line in the path.
func StorefrontRemoveCartItem(sf Storefront, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := pathID(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		_ = sf.RemoveFromCart(r.Context(), itemID)
		responses.SeeOther(w, r, "/")
	}
}

// StorefrontUpdateQuantity sets the line quantity, or applies a +1/-1 delta.
func StorefrontUpdateQuantity(sf Storefront, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		itemID, err := pathID(r, "itemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var form quantityForm
		if form.Quantity, err = validators.FormInt(r, "quantity"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if form.Delta, err = validators.FormInt(r, "delta"); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := validators.ValidateStruct(&form); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		switch {
		case form.Quantity != nil:
			_ = sf.UpdateQuantity(r.Context(), itemID, *form.Quantity)
		case *form.Delta > 0:
			_ = sf.IncrementQuantity(r.Context(), itemID)
		default:
			_ = sf.DecrementQuantity(r.Context(), itemID)
		}
		responses.SeeOther(w, r, "/")
	}
}

func pathID(r *http.Request, param string) (string, error) {
	id := validators.SanitizeString(chi.URLParam(r, param), 0)
	if id == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, param+" is required")
	}
	if len(id) > maxIDLength {
		return "", pkgerrors.New(pkgerrors.CodeValidation, param+" is too long")
	}
	return id, nil
}
