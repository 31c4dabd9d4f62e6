package domain

import "time"

// Platform identifies a supported retailer.
type Platform string

const (
	PlatformAmazon    Platform = "amazon"
	PlatformFlipkart  Platform = "flipkart"
	PlatformBigBasket Platform = "bigbasket"
	PlatformUnknown   Platform = "unknown"
)

// Platforms lists the supported retailers in the order they are dispatched,
// reported, and used to break price ties.
var Platforms = []Platform{PlatformAmazon, PlatformFlipkart, PlatformBigBasket}

// ParsePlatform maps free-form platform text from the extension to a known
// Platform, falling back to PlatformUnknown.
func ParsePlatform(s string) Platform {
	switch Platform(s) {
	case PlatformAmazon, PlatformFlipkart, PlatformBigBasket:
		return Platform(s)
	default:
		return PlatformUnknown
	}
}

// ProductQuery represents one incoming comparison request from the extension.
type ProductQuery struct {
	ProductName     string   `json:"productName" binding:"required"`
	CurrentPrice    string   `json:"currentPrice,omitempty"`
	CurrentPlatform Platform `json:"platform,omitempty"`
}

// PriceQuote is a single retailer's answer for one query. A quote is
// immutable once produced; failures live inside it rather than as errors.
type PriceQuote struct {
	Platform     Platform `json:"platform"`
	Price        *string  `json:"price"`
	NumericPrice *float64 `json:"numericPrice,omitempty"`
	URL          *string  `json:"url"`
	Available    bool     `json:"available"`
	Error        string   `json:"error,omitempty"`
	ErrorCode    string   `json:"errorCode,omitempty"`
}

// BestDeal points at the cheapest available, numerically-parseable quote.
type BestDeal struct {
	Platform     Platform `json:"platform"`
	Price        float64  `json:"price"`
	DisplayPrice string   `json:"displayPrice"`
}

// ComparisonResult is the aggregate answer for one ProductQuery. Prices
// always carries an entry for every supported platform.
type ComparisonResult struct {
	ProductName     string                  `json:"productName"`
	CurrentPlatform Platform                `json:"currentPlatform"`
	CurrentPrice    string                  `json:"currentPrice"`
	Timestamp       time.Time               `json:"timestamp"`
	Prices          map[Platform]PriceQuote `json:"prices"`
	BestDeal        *BestDeal               `json:"bestDeal"`
}

// UnavailableQuote builds a failed quote for the given platform with the
// failure captured as data.
func UnavailableQuote(platform Platform, errMsg, errCode string) PriceQuote {
	return PriceQuote{
		Platform:  platform,
		Available: false,
		Error:     errMsg,
		ErrorCode: errCode,
	}
}
