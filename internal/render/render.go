package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/angelmondragon/gamestore-storefront/internal/storefront"
	"github.com/angelmondragon/gamestore-storefront/pkg/enums"
	"github.com/shopspring/decimal"
)

const (
	HeadingAll   = "Tous les produits"
	currencySign = "€"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// FilterButton is one entry of the category filter bar.
type FilterButton struct {
	Value  enums.ProductCategory
	Label  string
	Active bool
}

// View is everything the page template needs, derived from one state snapshot.
type View struct {
	State   storefront.State
	Notice  *storefront.Notice
	Filters []FilterButton
	Heading string
}

// Renderer renders storefront pages.
type Renderer struct {
	page *template.Template
}

// New parses the embedded page templates.
func New() (*Renderer, error) {
	tmpl, err := template.New("storefront").Funcs(template.FuncMap{
		"price":         FormatPrice,
		"countLabel":    CountLabel,
		"categoryLabel": CategoryLabel,
	}).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{page: tmpl}, nil
}

// Page writes the full storefront page for the snapshot. The notice is passed
// separately because handlers consume it once per render.
func (r *Renderer) Page(w io.Writer, state storefront.State, notice *storefront.Notice) error {
	return r.page.ExecuteTemplate(w, "page", NewView(state, notice))
}

// NewView derives the page view from a snapshot.
func NewView(state storefront.State, notice *storefront.Notice) View {
	return View{
		State:   state,
		Notice:  notice,
		Filters: Filters(state.Categories, state.Category),
		Heading: Heading(state.Category),
	}
}

// Filters returns the "Tous" button followed by one button per category.
func Filters(categories []enums.ProductCategory, selected enums.ProductCategory) []FilterButton {
	buttons := make([]FilterButton, 0, len(categories)+1)
	buttons = append(buttons, FilterButton{
		Value:  enums.ProductCategoryAll,
		Label:  enums.ProductCategoryAll.DisplayName(),
		Active: selected.IsAll(),
	})
	for _, category := range categories {
		buttons = append(buttons, FilterButton{
			Value:  category,
			Label:  CategoryLabel(category),
			Active: !selected.IsAll() && category == selected,
		})
	}
	return buttons
}

// Heading is the result title for the selected category.
func Heading(category enums.ProductCategory) string {
	if category.IsAll() {
		return HeadingAll
	}
	return CategoryLabel(category)
}

// CategoryLabel returns the French display name, or the raw value for unknown categories.
func CategoryLabel(category enums.ProductCategory) string {
	return category.DisplayName()
}

// CountLabel formats the result count line.
func CountLabel(n int) string {
	return fmt.Sprintf("%d produit(s) trouvé(s)", n)
}

// FormatPrice renders a price with two decimals and the euro sign, e.g. "450.00€".
func FormatPrice(price decimal.Decimal) string {
	return price.StringFixed(2) + currencySign
}
