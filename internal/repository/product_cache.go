package repository

import (
	"context"
	"encoding/json"
	"time"

	"storefront-api/internal/model"

	"go.uber.org/zap"
)

const productListKey = "products:list"

type Cache interface {
	GetString(ctx context.Context, key string) (string, error)
	SetString(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// cachedProductRepo serves the catalog listing from the cache and drops the
// cached listing whenever the catalog changes. Cache failures fall through to
// the database.
type cachedProductRepo struct {
	ProductRepository
	cache  Cache
	ttl    time.Duration
	logger *zap.Logger
}

func NewCachedProductRepository(base ProductRepository, cache Cache, ttl time.Duration, logger *zap.Logger) ProductRepository {
	return &cachedProductRepo{
		ProductRepository: base,
		cache:             cache,
		ttl:               ttl,
		logger:            logger,
	}
}

func (r *cachedProductRepo) FindAll(ctx context.Context) ([]*model.Product, error) {
	// 1) cache
	if s, err := r.cache.GetString(ctx, productListKey); err == nil {
		var products []*model.Product
		if err := json.Unmarshal([]byte(s), &products); err == nil {
			return products, nil
		}
	}

	// 2) database
	products, err := r.ProductRepository.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	// 3) backfill
	if b, err := json.Marshal(products); err == nil {
		if err := r.cache.SetString(ctx, productListKey, string(b), r.ttl); err != nil {
			r.logger.Warn("backfill product cache", zap.Error(err))
		}
	}
	return products, nil
}

func (r *cachedProductRepo) Create(ctx context.Context, product *model.Product) error {
	if err := r.ProductRepository.Create(ctx, product); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *cachedProductRepo) Delete(ctx context.Context, productID string) (*model.Product, error) {
	product, err := r.ProductRepository.Delete(ctx, productID)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx)
	return product, nil
}

func (r *cachedProductRepo) invalidate(ctx context.Context) {
	if err := r.cache.Delete(ctx, productListKey); err != nil {
		r.logger.Warn("invalidate product cache", zap.Error(err))
	}
}
