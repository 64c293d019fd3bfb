// Copyright 2026 The Hotmap Authors
//
// SPDX-License-Identifier: Apache-2.0

package complaints

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// GeocodingError represents reverse geocoding failures.
type GeocodingError struct {
	Type    ErrorType
	Message string
	Err     error
}

// ErrorType classifies geocoding errors.
type ErrorType int

const (
	// ErrorTypeUnknown unknown error.
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeRateLimit rate limit reached.
	ErrorTypeRateLimit
	// ErrorTypeQuotaExceeded quota exceeded.
	ErrorTypeQuotaExceeded
	// ErrorTypeTimeout connection timeout.
	ErrorTypeTimeout
	// ErrorTypeNotFound no address for the location.
	ErrorTypeNotFound
	// ErrorTypeInvalidRequest invalid request.
	ErrorTypeInvalidRequest
	// ErrorTypeNetworkError network or upstream error.
	ErrorTypeNetworkError
	// ErrorTypeDenied request denied, usually a bad or restricted key.
	ErrorTypeDenied
)

func (t ErrorType) String() string {
	switch t {
	case ErrorTypeRateLimit:
		return "rate_limit"
	case ErrorTypeQuotaExceeded:
		return "quota_exceeded"
	case ErrorTypeTimeout:
		return "timeout"
	case ErrorTypeNotFound:
		return "not_found"
	case ErrorTypeInvalidRequest:
		return "invalid_request"
	case ErrorTypeNetworkError:
		return "network"
	case ErrorTypeDenied:
		return "denied"
	default:
		return "unknown"
	}
}

func (e *GeocodingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *GeocodingError) Unwrap() error {
	return e.Err
}

func errorTypeOf(err error) (ErrorType, bool) {
	var geoErr *GeocodingError
	if errors.As(err, &geoErr) {
		return geoErr.Type, true
	}

	return ErrorTypeUnknown, false
}

// IsRateLimitError reports whether err is caused by rate limiting.
func IsRateLimitError(err error) bool {
	if err == nil {
		return false
	}

	if t, ok := errorTypeOf(err); ok {
		return t == ErrorTypeRateLimit
	}

	errStr := strings.ToLower(err.Error())

	return strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "too many requests") ||
		strings.Contains(errStr, "429")
}

// IsQuotaExceededError reports whether err is caused by an exhausted quota.
func IsQuotaExceededError(err error) bool {
	if err == nil {
		return false
	}

	if t, ok := errorTypeOf(err); ok {
		return t == ErrorTypeQuotaExceeded
	}

	errStr := strings.ToLower(err.Error())

	return strings.Contains(errStr, "over_query_limit") ||
		strings.Contains(errStr, "over_daily_limit") ||
		strings.Contains(errStr, "quota exceeded")
}

// IsTimeoutError reports whether err is a timeout.
func IsTimeoutError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	if t, ok := errorTypeOf(err); ok {
		return t == ErrorTypeTimeout
	}

	errStr := strings.ToLower(err.Error())

	return strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded")
}

// IsNotFoundError reports whether the geocoder found no address.
func IsNotFoundError(err error) bool {
	t, ok := errorTypeOf(err)

	return ok && t == ErrorTypeNotFound
}

// IsFatalError reports whether retrying other locations is pointless.
func IsFatalError(err error) bool {
	t, ok := errorTypeOf(err)

	return ok && (t == ErrorTypeQuotaExceeded || t == ErrorTypeDenied)
}

// ClassifyMapsError converts an error returned by the Google Maps client into
// a GeocodingError. The client reports API statuses as "maps: STATUS - message".
func ClassifyMapsError(err error) *GeocodingError {
	if err == nil {
		return nil
	}

	var geoErr *GeocodingError
	if errors.As(err, &geoErr) {
		return geoErr
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &GeocodingError{Type: ErrorTypeTimeout, Message: "geocoding timed out", Err: err}
	}

	msg := err.Error()

	switch {
	case strings.Contains(msg, "OVER_QUERY_LIMIT"):
		return &GeocodingError{Type: ErrorTypeRateLimit, Message: "rate limit reached", Err: err}
	case strings.Contains(msg, "OVER_DAILY_LIMIT"):
		return &GeocodingError{Type: ErrorTypeQuotaExceeded, Message: "quota exceeded", Err: err}
	case strings.Contains(msg, "REQUEST_DENIED"):
		return &GeocodingError{Type: ErrorTypeDenied, Message: "request denied", Err: err}
	case strings.Contains(msg, "INVALID_REQUEST"):
		return &GeocodingError{Type: ErrorTypeInvalidRequest, Message: "invalid request", Err: err}
	case strings.Contains(msg, "ZERO_RESULTS"), strings.Contains(msg, "NOT_FOUND"):
		return &GeocodingError{Type: ErrorTypeNotFound, Message: "no address found", Err: err}
	case strings.Contains(msg, "UNKNOWN_ERROR"):
		return &GeocodingError{Type: ErrorTypeNetworkError, Message: "upstream error", Err: err}
	case IsTimeoutError(err):
		return &GeocodingError{Type: ErrorTypeTimeout, Message: "geocoding timed out", Err: err}
	default:
		return &GeocodingError{Type: ErrorTypeUnknown, Message: "geocoding failed", Err: err}
	}
}
