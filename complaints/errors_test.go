// Copyright 2026 The Hotmap Authors
//
// SPDX-License-Identifier: Apache-2.0

package complaints

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type errorCheckTestCase struct {
	name string
	err  error
	want bool
}

func runErrorCheckTest(t *testing.T, tests []errorCheckTestCase, checkFunc func(error) bool) {
	t.Helper()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, checkFunc(tt.err))
		})
	}
}

func TestIsRateLimitError(t *testing.T) {
	runErrorCheckTest(t, []errorCheckTestCase{
		{"rate limit error type", &GeocodingError{Type: ErrorTypeRateLimit, Message: "rate limit"}, true},
		{"wrapped rate limit", fmt.Errorf("geocoding: %w", &GeocodingError{Type: ErrorTypeRateLimit}), true},
		{"message contains rate limit", errors.New("rate limit exceeded"), true},
		{"message contains too many requests", errors.New("too many requests"), true},
		{"message contains 429", errors.New("server returned status 429"), true},
		{"other error type", &GeocodingError{Type: ErrorTypeNotFound}, false},
		{"generic error", errors.New("boom"), false},
		{"nil", nil, false},
	}, IsRateLimitError)
}

func TestIsQuotaExceededError(t *testing.T) {
	runErrorCheckTest(t, []errorCheckTestCase{
		{"quota error type", &GeocodingError{Type: ErrorTypeQuotaExceeded}, true},
		{"over_query_limit message", errors.New("OVER_QUERY_LIMIT"), true},
		{"over_daily_limit message", errors.New("maps: OVER_DAILY_LIMIT - billing"), true},
		{"quota exceeded message", errors.New("Quota exceeded for project"), true},
		{"other error type", &GeocodingError{Type: ErrorTypeRateLimit}, false},
		{"nil", nil, false},
	}, IsQuotaExceededError)
}

func TestIsTimeoutError(t *testing.T) {
	runErrorCheckTest(t, []errorCheckTestCase{
		{"timeout error type", &GeocodingError{Type: ErrorTypeTimeout}, true},
		{"deadline exceeded", fmt.Errorf("get: %w", context.DeadlineExceeded), true},
		{"timeout message", errors.New("Client.Timeout exceeded while awaiting headers"), true},
		{"other error type", &GeocodingError{Type: ErrorTypeNotFound}, false},
		{"nil", nil, false},
	}, IsTimeoutError)
}

func TestIsNotFoundError(t *testing.T) {
	runErrorCheckTest(t, []errorCheckTestCase{
		{"not found type", &GeocodingError{Type: ErrorTypeNotFound}, true},
		{"wrapped not found", fmt.Errorf("x: %w", &GeocodingError{Type: ErrorTypeNotFound}), true},
		{"plain message", errors.New("not found"), false},
		{"nil", nil, false},
	}, IsNotFoundError)
}

func TestIsFatalError(t *testing.T) {
	runErrorCheckTest(t, []errorCheckTestCase{
		{"quota", &GeocodingError{Type: ErrorTypeQuotaExceeded}, true},
		{"denied", &GeocodingError{Type: ErrorTypeDenied}, true},
		{"rate limit", &GeocodingError{Type: ErrorTypeRateLimit}, false},
		{"plain", errors.New("REQUEST_DENIED"), false},
	}, IsFatalError)
}

func TestClassifyMapsError(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorType
	}{
		{errors.New("maps: OVER_QUERY_LIMIT - You have exceeded your rate-limit"), ErrorTypeRateLimit},
		{errors.New("maps: OVER_DAILY_LIMIT - "), ErrorTypeQuotaExceeded},
		{errors.New("maps: REQUEST_DENIED - The provided API key is invalid."), ErrorTypeDenied},
		{errors.New("maps: INVALID_REQUEST - "), ErrorTypeInvalidRequest},
		{errors.New("maps: NOT_FOUND - "), ErrorTypeNotFound},
		{errors.New("maps: UNKNOWN_ERROR - "), ErrorTypeNetworkError},
		{fmt.Errorf("get: %w", context.DeadlineExceeded), ErrorTypeTimeout},
		{errors.New("dial tcp: i/o timeout"), ErrorTypeTimeout},
		{errors.New("connection reset by peer"), ErrorTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			got := ClassifyMapsError(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Type, got.Type.String())
			assert.ErrorIs(t, got, tt.err)
		})
	}

	assert.Nil(t, ClassifyMapsError(nil))

	geoErr := &GeocodingError{Type: ErrorTypeNotFound}
	assert.Same(t, geoErr, ClassifyMapsError(fmt.Errorf("x: %w", geoErr)))
}

func TestGeocodingErrorMessage(t *testing.T) {
	inner := errors.New("boom")
	err := &GeocodingError{Type: ErrorTypeUnknown, Message: "geocoding failed", Err: inner}

	assert.Equal(t, "geocoding failed: boom", err.Error())
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "no address", (&GeocodingError{Message: "no address"}).Error())
	assert.Equal(t, "denied", ErrorTypeDenied.String())
}
