package storefront

import (
	"github.com/angelmondragon/gamestore-storefront/pkg/enums"
	"github.com/angelmondragon/gamestore-storefront/pkg/storeapi"
)

const (
	MessageAddedToCart      = "Produit ajouté au panier !"
	MessageOutOfStock       = "Produit en rupture de stock"
	MessageProductsFailed   = "Impossible de charger les produits"
	MessageCategoriesFailed = "Impossible de charger les catégories"
	MessageCartFailed       = "Impossible de charger le panier"
	MessageAddFailed        = "Impossible d'ajouter le produit au panier"
	MessageRemoveFailed     = "Impossible de retirer l'article du panier"
	MessageQuantityFailed   = "Impossible de modifier la quantité"
	MessageProductNotFound  = "Produit introuvable"
	MessageCartItemNotFound = "Article introuvable dans le panier"
)

// Notice is the user-facing outcome of the last operation.
type Notice struct {
	Kind    enums.NoticeKind `json:"kind"`
	Message string           `json:"message"`
}

// IsError reports whether the notice describes a failure.
func (n Notice) IsError() bool {
	return n.Kind == enums.NoticeKindError
}

func successNotice(message string) *Notice {
	return &Notice{Kind: enums.NoticeKindSuccess, Message: message}
}

func errorNotice(message string) *Notice {
	return &Notice{Kind: enums.NoticeKindError, Message: message}
}

// State is the storefront UI state. Values handed out by the controller are copies.
type State struct {
	Products        []storeapi.Product      `json:"products"`
	Categories      []enums.ProductCategory `json:"categories"`
	Category        enums.ProductCategory   `json:"category"`
	Search          string                  `json:"search"`
	Cart            storeapi.Cart           `json:"cart"`
	SelectedProduct *storeapi.Product       `json:"selected_product,omitempty"`
	CartOpen        bool                    `json:"cart_open"`
	Loading         bool                    `json:"loading"`
	Notice          *Notice                 `json:"notice,omitempty"`
}

// ProductOpen reports whether the product detail overlay is shown.
func (s State) ProductOpen() bool {
	return s.SelectedProduct != nil
}

func (s State) findProduct(productID string) (storeapi.Product, bool) {
	for _, product := range s.Products {
		if product.ID == productID {
			return product, true
		}
	}
	if s.SelectedProduct != nil && s.SelectedProduct.ID == productID {
		return *s.SelectedProduct, true
	}
	return storeapi.Product{}, false
}

func (s State) clone() State {
	out := s
	out.Products = append([]storeapi.Product{}, s.Products...)
	out.Categories = append([]enums.ProductCategory{}, s.Categories...)
	out.Cart.Items = append([]storeapi.CartItem{}, s.Cart.Items...)
	if s.SelectedProduct != nil {
		product := *s.SelectedProduct
		out.SelectedProduct = &product
	}
	if s.Notice != nil {
		notice := *s.Notice
		out.Notice = &notice
	}
	return out
}
