package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrUpstreamFailure is returned when a retailer API request fails
	ErrUpstreamFailure = errors.New("retailer API request failed")

	// ErrProductNotFound is returned when the retailer search yields no results
	ErrProductNotFound = errors.New("product not found on retailer")
)

// Quote error codes. Providers classify failures into one of these so the
// client can distinguish a slow retailer from a broken one.
const (
	ErrCodeTimeout  = "timeout"
	ErrCodeUpstream = "upstream_error"
)
