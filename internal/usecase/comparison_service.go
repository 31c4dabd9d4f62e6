package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/pricescout/backend/internal/domain"
	"github.com/pricescout/backend/internal/metrics"
	"go.uber.org/zap"
)

// Package-level compiled regex patterns for performance
var (
	nonAlphanumericRegex = regexp.MustCompile(`[^a-z0-9\s]`)
	multipleSpacesRegex  = regexp.MustCompile(`\s+`)
)

// ComparisonServiceConfig holds configuration for the comparison service
type ComparisonServiceConfig struct {
	CacheTTL       time.Duration
	OverallTimeout time.Duration
}

// ComparisonService fans a product query out to every configured provider,
// joins their quotes, and reduces them to a single comparison result.
type ComparisonService struct {
	providers      []domain.PriceProvider
	cache          domain.CacheRepository
	logger         *zap.Logger
	cacheTTL       time.Duration
	overallTimeout time.Duration
}

// NewComparisonService creates a new comparison service with dependencies.
// Providers are dispatched and reported in the order given, which also
// breaks price ties.
func NewComparisonService(
	providers []domain.PriceProvider,
	cache domain.CacheRepository,
	logger *zap.Logger,
	config ComparisonServiceConfig,
) *ComparisonService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 5 * time.Minute
	}

	overallTimeout := config.OverallTimeout
	if overallTimeout == 0 {
		overallTimeout = 15 * time.Second
	}

	return &ComparisonService{
		providers:      providers,
		cache:          cache,
		logger:         logger,
		cacheTTL:       cacheTTL,
		overallTimeout: overallTimeout,
	}
}

// cachedComparison is the cacheable slice of a result. Only the provider
// quotes and their ranking survive between requests; the per-request echo
// fields and timestamp are rebuilt for every caller.
type cachedComparison struct {
	Prices   map[domain.Platform]domain.PriceQuote
	BestDeal *domain.BestDeal
}

// Compare answers one product query.
// Flow: check cache -> fan out to all providers -> rank quotes -> cache -> return.
// Zero available offers is a success with a nil best deal, never an error.
func (s *ComparisonService) Compare(ctx context.Context, query *domain.ProductQuery) (*domain.ComparisonResult, error) {
	if query == nil || strings.TrimSpace(query.ProductName) == "" {
		return nil, domain.ErrInvalidRequest
	}

	cacheKey := s.generateCacheKey(query.ProductName)

	// Repeat lookups inside the freshness window skip the fan-out entirely
	if cached := s.getFromCache(ctx, cacheKey); cached != nil {
		metrics.CacheLookups.WithLabelValues("hit").Inc()
		return buildResult(query, cached), nil
	}
	metrics.CacheLookups.WithLabelValues("miss").Inc()

	start := time.Now()
	quotes := s.fanOut(ctx, query.ProductName)
	metrics.ComparisonDuration.Observe(time.Since(start).Seconds())

	prices := make(map[domain.Platform]domain.PriceQuote, len(quotes))
	for _, quote := range quotes {
		prices[quote.Platform] = quote
	}

	comparison := &cachedComparison{
		Prices:   prices,
		BestDeal: selectBestDeal(quotes),
	}

	if err := s.cache.Set(ctx, cacheKey, comparison, s.cacheTTL); err != nil {
		// A broken cache must not fail the comparison
		s.logger.Warn("failed to cache comparison result", zap.Error(err))
	}

	return buildResult(query, comparison), nil
}

// buildResult wraps the quotes in a fresh per-request envelope so echo
// fields always describe the current caller, cached quotes included.
func buildResult(query *domain.ProductQuery, comparison *cachedComparison) *domain.ComparisonResult {
	currentPlatform := query.CurrentPlatform
	if currentPlatform == "" {
		currentPlatform = domain.PlatformUnknown
	}
	currentPrice := query.CurrentPrice
	if currentPrice == "" {
		currentPrice = "Unknown"
	}

	return &domain.ComparisonResult{
		ProductName:     query.ProductName,
		CurrentPlatform: currentPlatform,
		CurrentPrice:    currentPrice,
		Timestamp:       time.Now().UTC(),
		Prices:          comparison.Prices,
		BestDeal:        comparison.BestDeal,
	}
}

// fanOut dispatches all providers concurrently and joins on completion or
// on the overall deadline, whichever comes first. Quotes come back in
// provider order regardless of which finishes first, and no provider
// failure can reject the whole comparison. A provider that ignores
// cancellation is abandoned at the deadline and reported as timed out; its
// goroutine drains into a buffered channel when it eventually returns.
func (s *ComparisonService) fanOut(ctx context.Context, productName string) []domain.PriceQuote {
	ctx, cancel := context.WithTimeout(ctx, s.overallTimeout)
	defer cancel()

	results := make([]chan domain.PriceQuote, len(s.providers))
	for i, provider := range s.providers {
		ch := make(chan domain.PriceQuote, 1)
		results[i] = ch
		go func(p domain.PriceProvider, ch chan<- domain.PriceQuote) {
			ch <- s.safeQuote(ctx, p, productName)
		}(provider, ch)
	}

	quotes := make([]domain.PriceQuote, len(s.providers))
	for i, ch := range results {
		select {
		case quotes[i] = <-ch:
		case <-ctx.Done():
			// Deadline hit: take a result that raced in, otherwise mark
			// the slot timed out and move on.
			select {
			case quotes[i] = <-ch:
			default:
				s.logger.Warn("provider did not respond before the overall deadline",
					zap.String("platform", string(s.providers[i].Platform())))
				quotes[i] = domain.UnavailableQuote(s.providers[i].Platform(),
					"provider did not respond before the deadline", domain.ErrCodeTimeout)
			}
		}
	}

	return quotes
}

// safeQuote calls one provider and contains any failure, panics included,
// inside the returned quote.
func (s *ComparisonService) safeQuote(ctx context.Context, provider domain.PriceProvider, productName string) (quote domain.PriceQuote) {
	platform := provider.Platform()

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("provider panicked",
				zap.String("platform", string(platform)),
				zap.Any("panic", r))
			quote = domain.UnavailableQuote(platform, fmt.Sprintf("provider failure: %v", r), domain.ErrCodeUpstream)
		}
		metrics.ProviderQuotes.WithLabelValues(string(platform), quoteOutcome(quote)).Inc()
	}()

	quote = provider.Quote(ctx, productName)
	quote = normalizeQuote(platform, quote)
	return quote
}

// normalizeQuote enforces quote invariants the ranking step relies on:
// the platform field is always set and an available quote with a display
// price carries its derived numeric price.
func normalizeQuote(platform domain.Platform, quote domain.PriceQuote) domain.PriceQuote {
	if quote.Platform == "" {
		quote.Platform = platform
	}

	if quote.Available && quote.Price != nil && quote.NumericPrice == nil {
		if numeric, ok := domain.NormalizePrice(*quote.Price); ok {
			quote.NumericPrice = &numeric
		}
	}

	return quote
}

// selectBestDeal picks the minimum-priced usable quote. A quote is usable
// when it is available and its numeric price parsed to a positive number.
// Ties keep the earlier platform in the fixed dispatch order.
func selectBestDeal(quotes []domain.PriceQuote) *domain.BestDeal {
	var best *domain.PriceQuote
	for i := range quotes {
		quote := &quotes[i]
		if !quote.Available || quote.Price == nil || quote.NumericPrice == nil {
			continue
		}
		if *quote.NumericPrice <= 0 {
			continue
		}
		if best == nil || *quote.NumericPrice < *best.NumericPrice {
			best = quote
		}
	}

	if best == nil {
		return nil
	}

	return &domain.BestDeal{
		Platform:     best.Platform,
		Price:        *best.NumericPrice,
		DisplayPrice: *best.Price,
	}
}

func quoteOutcome(quote domain.PriceQuote) string {
	switch {
	case quote.Available:
		return "available"
	case quote.Error != "":
		return "error"
	default:
		return "not_carried"
	}
}

// generateCacheKey creates a normalized cache key from the product name.
// Format: "prices:{normalized_product_name}"
func (s *ComparisonService) generateCacheKey(productName string) string {
	normalized := strings.ToLower(productName)
	normalized = nonAlphanumericRegex.ReplaceAllString(normalized, "")
	normalized = multipleSpacesRegex.ReplaceAllString(normalized, " ")
	return fmt.Sprintf("prices:%s", strings.TrimSpace(normalized))
}

// getFromCache retrieves prior quotes for the product, or nil on any miss
func (s *ComparisonService) getFromCache(ctx context.Context, key string) *cachedComparison {
	value, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil
	}

	comparison, ok := value.(*cachedComparison)
	if !ok {
		return nil
	}
	return comparison
}
