package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/angelmondragon/gamestore-storefront/pkg/enums"
	"github.com/angelmondragon/gamestore-storefront/pkg/logger"
	"github.com/angelmondragon/gamestore-storefront/pkg/redis"
	"github.com/angelmondragon/gamestore-storefront/pkg/storeapi"
)

const (
	kindProducts   = "products"
	kindCategories = "categories"
)

// Backend is the slice of the store API the catalog reads from.
type Backend interface {
	ListProducts(ctx context.Context, q storeapi.ProductQuery) ([]storeapi.Product, error)
	GetProduct(ctx context.Context, productID string) (*storeapi.Product, error)
	ListCategories(ctx context.Context) ([]enums.ProductCategory, error)
}

// Cache stores serialized catalog responses.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	CatalogKey(kind string, parts ...string) string
}

// Recorder counts cache lookups.
type Recorder interface {
	CacheHit(kind string)
	CacheMiss(kind string)
}

// Service exposes catalog reads with an optional read-through cache.
type Service struct {
	backend  Backend
	cache    Cache
	ttl      time.Duration
	recorder Recorder
	logg     *logger.Logger
}

// Option configures optional service behavior.
type Option func(*Service)

// WithCache enables the read-through cache. A nil cache or a non-positive ttl disables it.
func WithCache(cache Cache, ttl time.Duration) Option {
	return func(s *Service) {
		if cache == nil || ttl <= 0 {
			return
		}
		s.cache = cache
		s.ttl = ttl
	}
}

// WithRecorder registers cache hit/miss accounting.
func WithRecorder(recorder Recorder) Option {
	return func(s *Service) {
		s.recorder = recorder
	}
}

// WithLogger sets the logger used for cache warnings.
func WithLogger(logg *logger.Logger) Option {
	return func(s *Service) {
		if logg != nil {
			s.logg = logg
		}
	}
}

// NewService builds a catalog service over the provided backend.
func NewService(backend Backend, opts ...Option) (*Service, error) {
	if backend == nil {
		return nil, fmt.Errorf("catalog backend required")
	}
	svc := &Service{
		backend: backend,
		logg:    logger.New(logger.Options{ServiceName: "catalog", Output: io.Discard}),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}
	return svc, nil
}

// NormalizeCategory maps raw filter input onto a category. Empty input and the
// "all" sentinel select every category; any other value is kept verbatim so
// categories unknown to this build still filter.
func NormalizeCategory(raw string) enums.ProductCategory {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || strings.EqualFold(trimmed, enums.ProductCategoryAll.String()) {
		return enums.ProductCategoryAll
	}
	return enums.ProductCategory(trimmed)
}

// NormalizeQuery builds the backend query for a (category, search) pair.
func NormalizeQuery(category enums.ProductCategory, search string) storeapi.ProductQuery {
	return storeapi.ProductQuery{
		Category: NormalizeCategory(category.String()),
		Search:   strings.TrimSpace(search),
	}
}

// ListProducts returns the products matching the filter pair.
func (s *Service) ListProducts(ctx context.Context, q storeapi.ProductQuery) ([]storeapi.Product, error) {
	q = NormalizeQuery(q.Category, q.Search)
	var key string
	if s.cache != nil {
		key = s.cache.CatalogKey(kindProducts, q.Category.String(), q.Search)
		var cached []storeapi.Product
		if s.lookup(ctx, kindProducts, key, &cached) {
			return cached, nil
		}
	}

	products, err := s.backend.ListProducts(ctx, q)
	if err != nil {
		return nil, err
	}
	s.store(ctx, key, products)
	return products, nil
}

// ListCategories returns the distinct categories reported by the backend.
func (s *Service) ListCategories(ctx context.Context) ([]enums.ProductCategory, error) {
	var key string
	if s.cache != nil {
		key = s.cache.CatalogKey(kindCategories)
		var cached []enums.ProductCategory
		if s.lookup(ctx, kindCategories, key, &cached) {
			return cached, nil
		}
	}

	categories, err := s.backend.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	s.store(ctx, key, categories)
	return categories, nil
}

// GetProduct fetches a single product. Product details are never cached so the
// stock shown in the detail overlay is current.
func (s *Service) GetProduct(ctx context.Context, productID string) (*storeapi.Product, error) {
	return s.backend.GetProduct(ctx, productID)
}

func (s *Service) lookup(ctx context.Context, kind, key string, out any) bool {
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !redis.IsMiss(err) {
			s.logg.Warn(s.logg.WithFields(ctx, map[string]any{"cache_key": key, "error": err.Error()}), "catalog cache read failed")
		}
		s.miss(kind)
		return false
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{"cache_key": key, "error": err.Error()}), "catalog cache entry unreadable")
		s.miss(kind)
		return false
	}
	if s.recorder != nil {
		s.recorder.CacheHit(kind)
	}
	return true
}

func (s *Service) miss(kind string) {
	if s.recorder != nil {
		s.recorder.CacheMiss(kind)
	}
}

func (s *Service) store(ctx context.Context, key string, value any) {
	if s.cache == nil || key == "" {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, string(payload), s.ttl); err != nil {
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{"cache_key": key, "error": err.Error()}), "catalog cache write failed")
	}
}
