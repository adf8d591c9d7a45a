package storefront

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/angelmondragon/gamestore-storefront/internal/catalog"
	"github.com/angelmondragon/gamestore-storefront/pkg/enums"
	"github.com/angelmondragon/gamestore-storefront/pkg/storeapi"
	"github.com/shopspring/decimal"
)

type recordedRequest struct {
	Method string
	Path   string
	Query  string
}

// fakeStore is an in-memory stand-in for the store backend REST API.
type fakeStore struct {
	mu         sync.Mutex
	products   []storeapi.Product
	categories []string
	items      []storeapi.CartItem
	nextItem   int
	requests   []recordedRequest

	failProducts bool
	failAdd      bool
	failCart     bool
}

func newFakeStore() *fakeStore {
	sony := "Sony"
	ps5 := "PlayStation 5"
	return &fakeStore{
		products: []storeapi.Product{
			{ID: "p-1", Name: "PlayStation 5", Category: enums.ProductCategoryConsoles, Price: decimal.RequireFromString("450.00"), Brand: &sony, Condition: "Excellent état", Stock: 3},
			{ID: "p-2", Name: "God of War Ragnarök", Category: enums.ProductCategoryGames, Price: decimal.RequireFromString("45.00"), Console: &ps5, Condition: "Comme neuf", Stock: 5},
			{ID: "p-3", Name: "Manette DualSense", Category: enums.ProductCategoryControllers, Price: decimal.RequireFromString("55.00"), Brand: &sony, Condition: "Bon état", Stock: 0},
		},
		categories: []string{"jeux", "consoles"},
	}
}

func (f *fakeStore) server(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/products", f.listProducts)
	mux.HandleFunc("GET /api/products/{id}", f.getProduct)
	mux.HandleFunc("GET /api/categories", f.listCategories)
	mux.HandleFunc("GET /api/cart", f.getCart)
	mux.HandleFunc("POST /api/cart/add", f.addToCart)
	mux.HandleFunc("DELETE /api/cart/{id}", f.removeItem)
	mux.HandleFunc("PUT /api/cart/{id}", f.updateItem)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.requests = append(f.requests, recordedRequest{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery})
		f.mu.Unlock()
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func (f *fakeStore) recorded() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest{}, f.requests...)
}

func (f *fakeStore) count(method, path string) int {
	n := 0
	for _, req := range f.recorded() {
		if req.Method == method && req.Path == path {
			n++
		}
	}
	return n
}

func (f *fakeStore) reset() {
	f.mu.Lock()
	f.requests = nil
	f.mu.Unlock()
}

func (f *fakeStore) listProducts(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failProducts {
		http.Error(w, `{"detail":"boom"}`, http.StatusInternalServerError)
		return
	}
	category := r.URL.Query().Get("category")
	search := strings.ToLower(r.URL.Query().Get("search"))
	out := []storeapi.Product{}
	for _, p := range f.products {
		if category != "" && p.Category.String() != category {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		out = append(out, p)
	}
	writeJSON(w, map[string]any{"products": out})
}

func (f *fakeStore) getProduct(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.products {
		if p.ID == r.PathValue("id") {
			writeJSON(w, p)
			return
		}
	}
	http.Error(w, `{"detail":"Product not found"}`, http.StatusNotFound)
}

func (f *fakeStore) listCategories(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	writeJSON(w, map[string]any{"categories": f.categories})
}

func (f *fakeStore) getCart(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCart {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
		return
	}
	total := decimal.Zero
	for _, item := range f.items {
		total = total.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	writeJSON(w, map[string]any{"items": f.items, "total": total, "count": len(f.items)})
}

func (f *fakeStore) addToCart(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAdd {
		http.Error(w, "nope", http.StatusInternalServerError)
		return
	}
	productID := r.URL.Query().Get("product_id")
	quantity, _ := strconv.Atoi(r.URL.Query().Get("quantity"))
	for i, item := range f.items {
		if item.ProductID == productID {
			f.items[i].Quantity += quantity
			writeJSON(w, map[string]any{"message": "Cart updated"})
			return
		}
	}
	for _, p := range f.products {
		if p.ID == productID {
			f.nextItem++
			f.items = append(f.items, storeapi.CartItem{
				ID:        "c-" + strconv.Itoa(f.nextItem),
				ProductID: productID,
				Quantity:  quantity,
				AddedAt:   time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC).Format("2006-01-02T15:04:05"),
				Product:   p,
			})
			writeJSON(w, map[string]any{"message": "Added to cart"})
			return
		}
	}
	http.Error(w, `{"detail":"Product not found"}`, http.StatusNotFound)
}

func (f *fakeStore) removeItem(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := r.PathValue("id")
	for i, item := range f.items {
		if item.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			writeJSON(w, map[string]any{"message": "Item removed"})
			return
		}
	}
	http.Error(w, `{"detail":"Item not found"}`, http.StatusNotFound)
}

func (f *fakeStore) updateItem(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := r.PathValue("id")
	quantity, _ := strconv.Atoi(r.URL.Query().Get("quantity"))
	for i, item := range f.items {
		if item.ID == id {
			f.items[i].Quantity = quantity
			writeJSON(w, map[string]any{"message": "Cart updated"})
			return
		}
	}
	http.Error(w, `{"detail":"Item not found"}`, http.StatusNotFound)
}

func writeJSON(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}

func newTestController(t *testing.T, store *fakeStore, opts ...Option) *Controller {
	t.Helper()
	srv := store.server(t)
	client, err := storeapi.NewClient(srv.URL)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	cat, err := catalog.NewService(client)
	if err != nil {
		t.Fatalf("new catalog: %v", err)
	}
	ctrl, err := NewController(cat, client, opts...)
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	t.Cleanup(ctrl.Close)
	return ctrl
}
