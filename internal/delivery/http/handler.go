package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pricescout/backend/internal/domain"
	"github.com/pricescout/backend/internal/metrics"
	"go.uber.org/zap"
)

// PriceComparer is the slice of the comparison service the handler needs.
type PriceComparer interface {
	Compare(ctx context.Context, query *domain.ProductQuery) (*domain.ComparisonResult, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	comparison  PriceComparer
	logger      *zap.Logger
	environment string
}

// NewHandler creates a new HTTP handler
func NewHandler(comparison PriceComparer, logger *zap.Logger, environment string) *Handler {
	return &Handler{
		comparison:  comparison,
		logger:      logger,
		environment: environment,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"message":   "Price Checker API is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// ComparePrices handles a price comparison request. Validation failures get
// a 400 before any provider is dispatched; provider failures never surface
// here because the aggregator converts them to unavailable quotes.
func (h *Handler) ComparePrices(c *gin.Context) {
	var query domain.ProductQuery
	if err := c.ShouldBindJSON(&query); err != nil || strings.TrimSpace(query.ProductName) == "" {
		metrics.ComparisonRequests.WithLabelValues("bad_request").Inc()
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Product name is required",
		})
		return
	}

	query.CurrentPlatform = domain.ParsePlatform(string(query.CurrentPlatform))

	h.logger.Info("price comparison request",
		zap.String("product", query.ProductName),
		zap.String("platform", string(query.CurrentPlatform)))

	result, err := h.comparison.Compare(c.Request.Context(), &query)
	if err != nil {
		// Full detail stays in the logs; the caller gets a generic message
		// unless running in development.
		h.logger.Error("price comparison failed",
			zap.String("product", query.ProductName),
			zap.Error(err))
		metrics.ComparisonRequests.WithLabelValues("error").Inc()

		message := "Something went wrong"
		if h.environment == "development" {
			message = err.Error()
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to compare prices",
			"message": message,
		})
		return
	}

	metrics.ComparisonRequests.WithLabelValues("ok").Inc()
	c.JSON(http.StatusOK, result)
}
