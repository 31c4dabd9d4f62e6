package retailer

import (
	"context"
	"fmt"
	"math/rand"
	"net/url"
	"sync"
	"time"

	"github.com/pricescout/backend/internal/domain"
)

// PriceBand bounds the prices a StubProvider fabricates, so each platform's
// fake quotes stay in a plausible range for its assortment.
type PriceBand struct {
	Min    int64 // lowest base price
	Spread int64 // random base is drawn from [Min, Min+Spread)
	Jitter int64 // half-width of random variation applied to the base
	Floor  int64 // final price never drops below this
}

// Price bands mirroring each platform's typical assortment: electronics-heavy
// marketplaces quote in the thousands, the grocery platform in the tens.
var (
	AmazonBand    = PriceBand{Min: 1000, Spread: 50000, Jitter: 1000, Floor: 500}
	FlipkartBand  = PriceBand{Min: 1200, Spread: 48000, Jitter: 750, Floor: 600}
	BigBasketBand = PriceBand{Min: 50, Spread: 2000, Jitter: 100, Floor: 25}
)

// Search page templates used to build deep links for fabricated quotes.
const (
	amazonSearchURL    = "https://www.amazon.in/s?k=%s"
	flipkartSearchURL  = "https://www.flipkart.com/search?q=%s"
	bigbasketSearchURL = "https://www.bigbasket.com/ps/?q=%s"
)

// StubProvider fabricates pseudo-random quotes without touching the network.
// It is selected at startup for platforms with no API credentials configured.
type StubProvider struct {
	platform  domain.Platform
	band      PriceBand
	searchURL string

	mu  sync.Mutex
	rng *rand.Rand
}

// NewStubProvider creates a stub provider seeded from the clock.
func NewStubProvider(platform domain.Platform, band PriceBand, searchURL string) *StubProvider {
	return NewSeededStubProvider(platform, band, searchURL, time.Now().UnixNano())
}

// NewSeededStubProvider creates a stub provider with a fixed seed so tests
// get reproducible prices.
func NewSeededStubProvider(platform domain.Platform, band PriceBand, searchURL string, seed int64) *StubProvider {
	return &StubProvider{
		platform:  platform,
		band:      band,
		searchURL: searchURL,
		rng:       rand.New(rand.NewSource(seed)),
	}
}

// Platform returns the retailer this provider quotes for.
func (p *StubProvider) Platform() domain.Platform {
	return p.platform
}

// Quote fabricates an available quote inside the provider's price band.
// Invalid input yields an unavailable quote rather than an error.
func (p *StubProvider) Quote(ctx context.Context, productName string) domain.PriceQuote {
	if productName == "" {
		return domain.UnavailableQuote(p.platform, "product name is required", "")
	}

	amount := p.randomPrice()
	display := domain.FormatPrice(amount)
	numeric := float64(amount)
	link := fmt.Sprintf(p.searchURL, url.QueryEscape(productName))

	return domain.PriceQuote{
		Platform:     p.platform,
		Price:        &display,
		NumericPrice: &numeric,
		URL:          &link,
		Available:    true,
	}
}

func (p *StubProvider) randomPrice() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	base := p.band.Min + p.rng.Int63n(p.band.Spread)
	variation := p.rng.Int63n(2*p.band.Jitter) - p.band.Jitter

	price := base + variation
	if price < p.band.Floor {
		price = p.band.Floor
	}
	return price
}
