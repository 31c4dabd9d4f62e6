package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pricescout/backend/config"
	"github.com/pricescout/backend/internal/domain"
	"github.com/pricescout/backend/internal/infrastructure/cache"
	"github.com/pricescout/backend/internal/infrastructure/retailer"
	"github.com/pricescout/backend/internal/usecase"
	"go.uber.org/zap"
)

// TestMain sets up test environment before running tests
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// stubComparer is a scriptable PriceComparer for handler tests
type stubComparer struct {
	result *domain.ComparisonResult
	err    error
	calls  int
}

func (s *stubComparer) Compare(ctx context.Context, query *domain.ProductQuery) (*domain.ComparisonResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

// setupTestRouter creates a test router wired to the given comparer
func setupTestRouter(comparer PriceComparer) *gin.Engine {
	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:           "5000",
			Environment:    "test",
			AllowedOrigins: []string{"chrome-extension://*", "http://localhost*"},
		},
	}

	handler := NewHandler(comparer, zap.NewNop(), cfg.Server.Environment)
	return SetupRouter(cfg, handler, zap.NewNop())
}

func TestHealthCheckEndpoint(t *testing.T) {
	router := setupTestRouter(&stubComparer{})

	req, _ := http.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if response["status"] != "OK" {
		t.Errorf("status = %v, want OK", response["status"])
	}
	message, ok := response["message"].(string)
	if !ok || message == "" {
		t.Errorf("message = %v, want non-empty string", response["message"])
	}
	timestamp, ok := response["timestamp"].(string)
	if !ok {
		t.Fatalf("timestamp = %v, want string", response["timestamp"])
	}
	if _, err := time.Parse(time.RFC3339, timestamp); err != nil {
		t.Errorf("timestamp %q is not RFC3339: %v", timestamp, err)
	}
}

func TestComparePricesEndpoint(t *testing.T) {
	t.Run("returns the comparison result", func(t *testing.T) {
		display := "₹1,800"
		numeric := 1800.0
		comparer := &stubComparer{
			result: &domain.ComparisonResult{
				ProductName:     "wireless mouse",
				CurrentPlatform: domain.PlatformUnknown,
				CurrentPrice:    "Unknown",
				Timestamp:       time.Now().UTC(),
				Prices: map[domain.Platform]domain.PriceQuote{
					domain.PlatformAmazon: {
						Platform:     domain.PlatformAmazon,
						Price:        &display,
						NumericPrice: &numeric,
						Available:    true,
					},
				},
				BestDeal: &domain.BestDeal{
					Platform:     domain.PlatformAmazon,
					Price:        1800,
					DisplayPrice: "₹1,800",
				},
			},
		}
		router := setupTestRouter(comparer)

		payload := `{"productName":"wireless mouse"}`
		req, _ := http.NewRequest(http.MethodPost, "/api/prices", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200, body: %s", w.Code, w.Body.String())
		}

		var response map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
		if response["productName"] != "wireless mouse" {
			t.Errorf("productName = %v, want wireless mouse", response["productName"])
		}
		bestDeal, ok := response["bestDeal"].(map[string]interface{})
		if !ok {
			t.Fatalf("bestDeal = %v, want object", response["bestDeal"])
		}
		if bestDeal["platform"] != "amazon" {
			t.Errorf("bestDeal.platform = %v, want amazon", bestDeal["platform"])
		}
	})

	t.Run("missing product name is a 400 with no dispatch", func(t *testing.T) {
		comparer := &stubComparer{}
		router := setupTestRouter(comparer)

		payload := `{"currentPrice":"₹2,199"}`
		req, _ := http.NewRequest(http.MethodPost, "/api/prices", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}

		var response map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
		if response["error"] == "" || response["error"] == nil {
			t.Error("response missing error field")
		}
		if comparer.calls != 0 {
			t.Errorf("comparer called %d times, want 0", comparer.calls)
		}
	})

	t.Run("blank product name is a 400", func(t *testing.T) {
		router := setupTestRouter(&stubComparer{})

		payload := `{"productName":"   "}`
		req, _ := http.NewRequest(http.MethodPost, "/api/prices", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("malformed body is a 400", func(t *testing.T) {
		router := setupTestRouter(&stubComparer{})

		req, _ := http.NewRequest(http.MethodPost, "/api/prices", strings.NewReader(`{not json`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})

	t.Run("internal failure is a 500 with generic message", func(t *testing.T) {
		comparer := &stubComparer{err: errors.New("wiring blew up: secret detail")}
		router := setupTestRouter(comparer)

		payload := `{"productName":"wireless mouse"}`
		req, _ := http.NewRequest(http.MethodPost, "/api/prices", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d, want 500", w.Code)
		}

		var response map[string]interface{}
		if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
		if response["error"] != "Failed to compare prices" {
			t.Errorf("error = %v, want Failed to compare prices", response["error"])
		}
		message, _ := response["message"].(string)
		if strings.Contains(message, "secret detail") {
			t.Errorf("message %q leaks internals outside development", message)
		}
	})
}

func TestUnmatchedRoute(t *testing.T) {
	router := setupTestRouter(&stubComparer{})

	req, _ := http.NewRequest(http.MethodGet, "/api/nothing-here", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}

	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if response["error"] != "Route not found" {
		t.Errorf("error = %v, want Route not found", response["error"])
	}
}

// setupFullStack wires the real aggregator over seeded stub providers
func setupFullStack(t *testing.T) *gin.Engine {
	t.Helper()

	providers := []domain.PriceProvider{
		retailer.NewSeededStubProvider(domain.PlatformAmazon, retailer.AmazonBand, "https://www.amazon.in/s?k=%s", 11),
		retailer.NewSeededStubProvider(domain.PlatformFlipkart, retailer.FlipkartBand, "https://www.flipkart.com/search?q=%s", 12),
		retailer.NewCatalogFilter(
			retailer.NewSeededStubProvider(domain.PlatformBigBasket, retailer.BigBasketBand, "https://www.bigbasket.com/ps/?q=%s", 13),
			retailer.GroceryCatalog(),
		),
	}

	service := usecase.NewComparisonService(providers, cache.NewMemoryCache(), zap.NewNop(), usecase.ComparisonServiceConfig{})
	return setupTestRouter(service)
}

func postPrices(t *testing.T, router *gin.Engine, payload string) map[string]interface{} {
	t.Helper()

	req, _ := http.NewRequest(http.MethodPost, "/api/prices", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", w.Code, w.Body.String())
	}

	var response map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	return response
}

func TestComparePricesFullStack(t *testing.T) {
	t.Run("grocery product gets quotes from all three platforms", func(t *testing.T) {
		router := setupFullStack(t)
		response := postPrices(t, router, `{"productName":"basmati rice"}`)

		prices, ok := response["prices"].(map[string]interface{})
		if !ok {
			t.Fatalf("prices = %v, want object", response["prices"])
		}

		lowest := ""
		lowestPrice := 0.0
		for _, platform := range []string{"amazon", "flipkart", "bigbasket"} {
			entry, ok := prices[platform].(map[string]interface{})
			if !ok {
				t.Fatalf("prices missing %s", platform)
			}
			if entry["available"] != true {
				t.Errorf("%s not available, want available", platform)
				continue
			}
			numeric, ok := entry["numericPrice"].(float64)
			if !ok || numeric <= 0 {
				t.Errorf("%s numericPrice = %v, want positive number", platform, entry["numericPrice"])
				continue
			}
			if lowest == "" || numeric < lowestPrice {
				lowest = platform
				lowestPrice = numeric
			}
		}

		bestDeal, ok := response["bestDeal"].(map[string]interface{})
		if !ok {
			t.Fatalf("bestDeal = %v, want object", response["bestDeal"])
		}
		if bestDeal["platform"] != lowest {
			t.Errorf("bestDeal.platform = %v, want %s (the cheapest quote)", bestDeal["platform"], lowest)
		}
		if bestDeal["price"] != lowestPrice {
			t.Errorf("bestDeal.price = %v, want %v", bestDeal["price"], lowestPrice)
		}
	})

	t.Run("non-grocery product is not carried by bigbasket", func(t *testing.T) {
		router := setupFullStack(t)
		response := postPrices(t, router, `{"productName":"gaming laptop","platform":"amazon"}`)

		prices := response["prices"].(map[string]interface{})
		bigbasket := prices["bigbasket"].(map[string]interface{})

		if bigbasket["available"] != false {
			t.Error("bigbasket available = true, want not carried")
		}
		if _, hasError := bigbasket["error"]; hasError {
			t.Errorf("bigbasket.error = %v, want absent: not carried is not an error", bigbasket["error"])
		}

		bestDeal, ok := response["bestDeal"].(map[string]interface{})
		if !ok {
			t.Fatalf("bestDeal = %v, want object from the two marketplaces", response["bestDeal"])
		}
		if p := bestDeal["platform"]; p != "amazon" && p != "flipkart" {
			t.Errorf("bestDeal.platform = %v, want amazon or flipkart", p)
		}
	})
}
