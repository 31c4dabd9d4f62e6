package retailer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/pricescout/backend/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const defaultQuoteTimeout = 10 * time.Second

// searchResponse is the minimal shape expected from a retailer search API.
type searchResponse struct {
	Products []searchProduct `json:"products"`
}

type searchProduct struct {
	Title string `json:"title"`
	Price string `json:"price"`
	URL   string `json:"url"`
}

// LiveProvider quotes prices by calling a retailer search API over HTTP.
// It is selected at startup for platforms with API credentials configured.
type LiveProvider struct {
	platform    domain.Platform
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	rateLimiter *rate.Limiter
	logger      *zap.Logger
}

// NewLiveProvider creates a provider backed by a real retailer API.
// A non-positive timeout falls back to 10s.
func NewLiveProvider(platform domain.Platform, baseURL, apiKey string, timeout time.Duration, logger *zap.Logger) *LiveProvider {
	if timeout <= 0 {
		timeout = defaultQuoteTimeout
	}

	// Courtesy limit so a burst of comparisons cannot hammer one retailer.
	limiter := rate.NewLimiter(rate.Limit(5), 10)

	return &LiveProvider{
		platform: platform,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:     baseURL,
		apiKey:      apiKey,
		rateLimiter: limiter,
		logger:      logger.With(zap.String("platform", string(platform))),
	}
}

// Platform returns the retailer this provider quotes for.
func (p *LiveProvider) Platform() domain.Platform {
	return p.platform
}

// Quote searches the retailer for the product and returns its cheapest hit.
// All failures are converted to unavailable quotes; nothing escapes as an
// error or panic.
func (p *LiveProvider) Quote(ctx context.Context, productName string) domain.PriceQuote {
	if productName == "" {
		return domain.UnavailableQuote(p.platform, "product name is required", "")
	}

	result, err := p.search(ctx, productName)
	if err != nil {
		p.logger.Warn("retailer search failed",
			zap.String("product", productName),
			zap.Error(err))
		return domain.UnavailableQuote(p.platform, err.Error(), classifyError(err))
	}

	if len(result.Products) == 0 {
		return domain.PriceQuote{
			Platform:  p.platform,
			Available: false,
			Error:     fmt.Sprintf("no results for %q", productName),
		}
	}

	product := result.Products[0]
	quote := domain.PriceQuote{
		Platform:  p.platform,
		Price:     &product.Price,
		Available: true,
	}
	if product.URL != "" {
		quote.URL = &product.URL
	}
	if numeric, ok := domain.NormalizePrice(product.Price); ok {
		quote.NumericPrice = &numeric
	}

	return quote
}

// search executes the retailer search with one retry on transient failure.
func (p *LiveProvider) search(ctx context.Context, query string) (*searchResponse, error) {
	endpoint := fmt.Sprintf("%s/search", p.baseURL)
	params := url.Values{}
	params.Add("query", query)
	params.Add("api_key", p.apiKey)
	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())

	var lastErr error
	for attempt := 1; attempt <= 2; attempt++ {
		if err := p.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		resp, err := p.doRequest(ctx, reqURL)
		if err != nil {
			lastErr = err
			if !sleepBeforeRetry(ctx, attempt) {
				break
			}
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			return nil, domain.ErrProductNotFound
		}
		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("%w: status %d", domain.ErrUpstreamFailure, resp.StatusCode)
			if !sleepBeforeRetry(ctx, attempt) {
				break
			}
			continue
		}

		var searchResp searchResponse
		if err := json.Unmarshal(body, &searchResp); err != nil {
			return nil, fmt.Errorf("%w: decoding response: %v", domain.ErrUpstreamFailure, err)
		}
		return &searchResp, nil
	}

	return nil, lastErr
}

func (p *LiveProvider) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "PriceScout/1.0")
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		// Keep the transport error in the chain so timeouts stay classifiable.
		return nil, fmt.Errorf("%w: %w", domain.ErrUpstreamFailure, err)
	}
	return resp, nil
}

// sleepBeforeRetry waits out a short backoff between attempts. It returns
// false when the context was cancelled or attempts are exhausted.
func sleepBeforeRetry(ctx context.Context, attempt int) bool {
	if attempt >= 2 {
		return false
	}
	select {
	case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
		return true
	case <-ctx.Done():
		return false
	}
}

// classifyError maps a quote failure to an error code the client can act on.
func classifyError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.ErrCodeTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return domain.ErrCodeTimeout
	}
	return domain.ErrCodeUpstream
}
