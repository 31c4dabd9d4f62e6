package retailer

import (
	"github.com/pricescout/backend/config"
	"github.com/pricescout/backend/internal/domain"
	"go.uber.org/zap"
)

// BuildProviders assembles one provider per supported platform, in the fixed
// dispatch order. Each platform runs live against its API when credentials
// are configured and on the stub otherwise; the choice is made once here,
// not per call. BigBasket carries groceries only, so its provider is gated
// by the catalog filter.
func BuildProviders(cfg *config.Config, logger *zap.Logger) []domain.PriceProvider {
	amazon := selectProvider(domain.PlatformAmazon, cfg.Retailer.Amazon, AmazonBand, amazonSearchURL, logger)
	flipkart := selectProvider(domain.PlatformFlipkart, cfg.Retailer.Flipkart, FlipkartBand, flipkartSearchURL, logger)

	bigbasket := selectProvider(domain.PlatformBigBasket, cfg.Retailer.BigBasket, BigBasketBand, bigbasketSearchURL, logger)
	gated := NewCatalogFilter(bigbasket, GroceryCatalog())

	return []domain.PriceProvider{amazon, flipkart, gated}
}

func selectProvider(platform domain.Platform, cfg config.ProviderConfig, band PriceBand, searchURL string, logger *zap.Logger) domain.PriceProvider {
	if cfg.APIKey != "" {
		logger.Info("using live provider", zap.String("platform", string(platform)))
		return NewLiveProvider(platform, cfg.BaseURL, cfg.APIKey, cfg.Timeout, logger)
	}

	logger.Info("no API key configured, using stub provider", zap.String("platform", string(platform)))
	return NewStubProvider(platform, band, searchURL)
}
