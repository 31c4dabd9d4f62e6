package retailer

import (
	"context"
	"strings"

	"github.com/pricescout/backend/internal/domain"
)

// CatalogPredicate reports whether a retailer plausibly carries the product.
// It is a stand-in for a real catalog-availability lookup.
type CatalogPredicate func(productName string) bool

// groceryKeywords is sample assortment data for the grocery-only retailer,
// not an authoritative catalog.
var groceryKeywords = []string{
	"rice", "dal", "oil", "flour", "sugar", "salt", "spices", "tea", "coffee",
	"milk", "bread", "eggs", "vegetables", "fruits", "snacks", "biscuits",
	"soap", "shampoo", "detergent", "toothpaste", "tissue", "cleaning",
}

// GroceryCatalog returns a predicate matching grocery and household goods
// by keyword.
func GroceryCatalog() CatalogPredicate {
	return func(productName string) bool {
		name := strings.ToLower(productName)
		for _, keyword := range groceryKeywords {
			if strings.Contains(name, keyword) {
				return true
			}
		}
		return false
	}
}

// CatalogFilter wraps a provider and short-circuits queries the retailer
// does not carry. An out-of-assortment product is reported as unavailable
// with no error: "not carried" is a normal answer, not a failure.
type CatalogFilter struct {
	inner   domain.PriceProvider
	carries CatalogPredicate
}

// NewCatalogFilter decorates a provider with an assortment check.
func NewCatalogFilter(inner domain.PriceProvider, carries CatalogPredicate) *CatalogFilter {
	return &CatalogFilter{inner: inner, carries: carries}
}

// Platform returns the wrapped provider's platform.
func (f *CatalogFilter) Platform() domain.Platform {
	return f.inner.Platform()
}

// Quote delegates to the wrapped provider for carried products.
func (f *CatalogFilter) Quote(ctx context.Context, productName string) domain.PriceQuote {
	if productName != "" && !f.carries(productName) {
		return domain.PriceQuote{
			Platform:  f.inner.Platform(),
			Available: false,
		}
	}
	return f.inner.Quote(ctx, productName)
}
