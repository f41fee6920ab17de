package catalog

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/Veraticus/salesflow/internal/model"
	"github.com/Veraticus/salesflow/internal/service"
)

// Mapping indexes catalog products by numeric id.
type Mapping map[int]model.Product

// Source describes where a Mapping came from.
type Source string

// Mapping sources.
const (
	SourceRemote Source = "remote"
	SourceCache  Source = "cache"
	SourceNone   Source = "none"
)

// NewMapping builds an id → product index. Later duplicates win.
func NewMapping(products []model.Product) Mapping {
	m := make(Mapping, len(products))
	for _, p := range products {
		m[p.ID] = p
	}
	return m
}

// NumericID extracts the integer part of a product id such as "P101".
func NumericID(productID string) (int, bool) {
	trimmed := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(productID), "P"))
	id, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, false
	}
	return id, true
}

// Enrich returns copies of txns augmented with catalog metadata.
// Transactions whose product is not in the mapping get nil metadata.
func Enrich(txns []model.Transaction, mapping Mapping) []model.EnrichedTransaction {
	enriched := make([]model.EnrichedTransaction, 0, len(txns))

	for _, tx := range txns {
		et := model.EnrichedTransaction{Transaction: tx}

		if id, ok := NumericID(tx.ProductID); ok {
			if p, found := mapping[id]; found {
				et.Category = optional(p.Category)
				et.Brand = optional(p.Brand)
				if p.Rating != nil {
					rating := *p.Rating
					et.Rating = &rating
				}
				et.Match = true
			}
		}

		enriched = append(enriched, et)
	}

	return enriched
}

// MatchCount returns the number of enriched transactions with a catalog match.
func MatchCount(enriched []model.EnrichedTransaction) int {
	n := 0
	for _, et := range enriched {
		if et.Match {
			n++
		}
	}
	return n
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Resolver loads a Mapping on a best-effort basis: the remote catalog first,
// then the local cache, then an empty mapping. It never fails.
type Resolver struct {
	fetcher service.CatalogFetcher
	cache   service.CatalogCache
	logger  *slog.Logger
}

// NewResolver creates a Resolver. Either dependency may be nil.
func NewResolver(fetcher service.CatalogFetcher, cache service.CatalogCache, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{fetcher: fetcher, cache: cache, logger: logger}
}

// Resolve returns the best available mapping and where it came from.
func (r *Resolver) Resolve(ctx context.Context) (Mapping, Source) {
	if r.fetcher != nil {
		products, err := r.fetcher.FetchProducts(ctx)
		if err == nil {
			if r.cache != nil && len(products) > 0 {
				if saveErr := r.cache.SaveProducts(ctx, products); saveErr != nil {
					r.logger.Warn("Failed to cache product catalog", "error", saveErr)
				}
			}
			return NewMapping(products), SourceRemote
		}
		r.logger.Warn("Product catalog unavailable, falling back", "error", err)
	}

	if r.cache != nil {
		products, err := r.cache.GetProducts(ctx)
		switch {
		case err != nil:
			r.logger.Warn("Failed to load cached catalog", "error", err)
		case len(products) > 0:
			r.logger.Info("Using cached product catalog", "products", len(products))
			return NewMapping(products), SourceCache
		}
	}

	r.logger.Warn("No product catalog available, enrichment will report zero matches")
	return Mapping{}, SourceNone
}
