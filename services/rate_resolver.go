package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/courtia/courtia_backend/models"
	"github.com/courtia/courtia_backend/utils"
)

// ProductStore loads product documents scoped to one organization.
type ProductStore interface {
	FindProduct(ctx context.Context, organizationID, productID primitive.ObjectID) (*models.Product, error)
}

// RateResolver resolves the commission-rate configuration of a product.
// Configurations are cached in Redis per organization+product with a short
// TTL; Redis being down only costs the cache, never the lookup.
type RateResolver struct {
	products ProductStore
	cache    *redis.Client
	cacheTTL time.Duration
}

func NewRateResolver(products ProductStore, cache *redis.Client) *RateResolver {
	return &RateResolver{
		products: products,
		cache:    cache,
		cacheTTL: 5 * time.Minute,
	}
}

func (r *RateResolver) Resolve(ctx context.Context, organizationID primitive.ObjectID, productID string) (*models.RateConfiguration, error) {
	productOID, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return nil, utils.NewValidationError("invalid product ID format")
	}

	cacheKey := "rateconfig:" + organizationID.Hex() + ":" + productID
	if r.cache != nil {
		if cached, err := r.cache.Get(ctx, cacheKey).Result(); err == nil {
			var rates models.RateConfiguration
			if err := json.Unmarshal([]byte(cached), &rates); err == nil {
				return &rates, nil
			}
		}
	}

	product, err := r.products.FindProduct(ctx, organizationID, productOID)
	if err != nil {
		return nil, err
	}
	if !product.Active {
		return nil, utils.NewNotFoundError("product not found")
	}
	if err := validateRates(product.Rates); err != nil {
		return nil, err
	}

	if r.cache != nil {
		if encoded, err := json.Marshal(product.Rates); err == nil {
			if err := r.cache.Set(ctx, cacheKey, encoded, r.cacheTTL).Err(); err != nil {
				log.Printf("Failed to cache rate configuration: %v", err)
			}
		}
	}

	rates := product.Rates
	return &rates, nil
}
