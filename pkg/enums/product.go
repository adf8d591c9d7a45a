package enums

import (
	"fmt"
	"strings"
)

// ProductCategory represents the catalog categories the storefront knows how to label.
type ProductCategory string

const (
	// ProductCategoryAll is the filter sentinel meaning "no category filter".
	ProductCategoryAll ProductCategory = "all"

	ProductCategoryGames       ProductCategory = "jeux"
	ProductCategoryConsoles    ProductCategory = "consoles"
	ProductCategoryControllers ProductCategory = "manettes"
	ProductCategoryHeadsets    ProductCategory = "casques"
	ProductCategoryKeyboards   ProductCategory = "claviers"
	ProductCategoryMice        ProductCategory = "souris"
)

var validProductCategories = []ProductCategory{
	ProductCategoryGames,
	ProductCategoryConsoles,
	ProductCategoryControllers,
	ProductCategoryHeadsets,
	ProductCategoryKeyboards,
	ProductCategoryMice,
}

var productCategoryLabels = map[ProductCategory]string{
	ProductCategoryAll:         "Tous",
	ProductCategoryGames:       "Jeux Vidéo",
	ProductCategoryConsoles:    "Consoles",
	ProductCategoryControllers: "Manettes",
	ProductCategoryHeadsets:    "Casques",
	ProductCategoryKeyboards:   "Claviers",
	ProductCategoryMice:        "Souris",
}

// String implements fmt.Stringer.
func (c ProductCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ProductCategory. The "all"
// sentinel is not a category.
func (c ProductCategory) IsValid() bool {
	for _, candidate := range validProductCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// IsAll reports whether the value selects every category. Empty counts as all.
func (c ProductCategory) IsAll() bool {
	return c == "" || c == ProductCategoryAll
}

// DisplayName returns the French label for the category, or the raw value
// when the backend reports a category this build does not know.
func (c ProductCategory) DisplayName() string {
	if label, ok := productCategoryLabels[c]; ok {
		return label
	}
	return string(c)
}

// ParseProductCategory converts raw input into a ProductCategory, accepting the "all" sentinel.
func ParseProductCategory(value string) (ProductCategory, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" || trimmed == string(ProductCategoryAll) {
		return ProductCategoryAll, nil
	}
	for _, candidate := range validProductCategories {
		if string(candidate) == trimmed {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product category %q", value)
}
