// Copyright 2026 The Hotmap Authors
//
// SPDX-License-Identifier: Apache-2.0

package complaints

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/jcodagnone/hotmap/spatial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const reverseGeocodeOK = `{
  "results": [
    {
      "address_components": [
        {"long_name": "560001", "short_name": "560001", "types": ["postal_code"]},
        {"long_name": "Shivaji Nagar", "short_name": "Shivaji Nagar", "types": ["political", "sublocality", "sublocality_level_1"]},
        {"long_name": "Bengaluru", "short_name": "Bengaluru", "types": ["locality", "political"]},
        {"long_name": "Bangalore Division", "short_name": "Bangalore Division", "types": ["administrative_area_level_2", "political"]},
        {"long_name": "Karnataka", "short_name": "KA", "types": ["administrative_area_level_1", "political"]}
      ],
      "formatted_address": "MG Road, Shivaji Nagar, Bengaluru, Karnataka 560001, India",
      "types": ["street_address"]
    },
    {
      "address_components": [
        {"long_name": "Bengaluru Urban", "short_name": "Bengaluru Urban", "types": ["administrative_area_level_3", "political"]}
      ],
      "formatted_address": "Bengaluru Urban, Karnataka, India",
      "types": ["administrative_area_level_3"]
    }
  ],
  "status": "OK"
}`

func newMapsServer(t *testing.T, body string, seen *url.Values) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/maps/api/geocode/json" {
			http.NotFound(w, r)

			return
		}

		if seen != nil {
			*seen = r.URL.Query()
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	return srv
}

func TestGoogleMapsReverseGeocode(t *testing.T) {
	var (
		query url.Values
		trace bytes.Buffer
	)

	srv := newMapsServer(t, reverseGeocodeOK, &query)

	geocoder, err := NewGoogleMapsGeocoder(GoogleMapsOptions{
		APIKey:   "secret-key",
		BaseURL:  srv.URL,
		Trace:    &trace,
		Language: "en",
	})
	require.NoError(t, err)

	address, err := geocoder.ReverseGeocode(context.Background(), spatial.Point{Lat: 12.9716, Lng: 77.5946})
	require.NoError(t, err)

	assert.Equal(t, &Address{
		District:         "Bengaluru Urban",
		City:             "Bengaluru",
		Locality:         "Shivaji Nagar",
		Pin:              "560001",
		FormattedAddress: "MG Road, Shivaji Nagar, Bengaluru, Karnataka 560001, India",
	}, address)

	assert.Equal(t, "12.9716,77.5946", query.Get("latlng"))
	assert.Equal(t, "secret-key", query.Get("key"))
	assert.Equal(t, "en", query.Get("language"))

	assert.Contains(t, trace.String(), "User-Agent: hotmap")
	assert.NotContains(t, trace.String(), "secret-key")
}

func TestGoogleMapsDistrictFallback(t *testing.T) {
	srv := newMapsServer(t, `{
	  "results": [{
	    "address_components": [
	      {"long_name": "Mysuru", "types": ["administrative_area_level_2", "political"]}
	    ],
	    "formatted_address": "Mysuru, Karnataka, India"
	  }],
	  "status": "OK"
	}`, nil)

	geocoder, err := NewGoogleMapsGeocoder(GoogleMapsOptions{APIKey: "k", BaseURL: srv.URL})
	require.NoError(t, err)

	address, err := geocoder.ReverseGeocode(context.Background(), spatial.Point{Lat: 12.2958, Lng: 76.6394})
	require.NoError(t, err)
	assert.Equal(t, "Mysuru", address.District)
	assert.Empty(t, address.City)
}

func TestGoogleMapsErrors(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		check func(error) bool
	}{
		{"zero results", `{"results": [], "status": "ZERO_RESULTS"}`, IsNotFoundError},
		{"over query limit", `{"results": [], "status": "OVER_QUERY_LIMIT", "error_message": "slow down"}`, IsRateLimitError},
		{"denied", `{"results": [], "status": "REQUEST_DENIED", "error_message": "bad key"}`, IsFatalError},
		{"daily limit", `{"results": [], "status": "OVER_DAILY_LIMIT"}`, IsQuotaExceededError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newMapsServer(t, tt.body, nil)

			geocoder, err := NewGoogleMapsGeocoder(GoogleMapsOptions{APIKey: "k", BaseURL: srv.URL})
			require.NoError(t, err)

			_, err = geocoder.ReverseGeocode(context.Background(), spatial.Point{Lat: 1, Lng: 2})
			require.Error(t, err)
			assert.True(t, tt.check(err), err.Error())
		})
	}
}

func TestNewGoogleMapsGeocoderRequiresKey(t *testing.T) {
	_, err := NewGoogleMapsGeocoder(GoogleMapsOptions{})
	assert.Error(t, err)
}

func TestResolveAPIKeyFromEnv(t *testing.T) {
	t.Setenv("GOOGLE_MAPS_API_KEY", "from-env")

	key, err := ResolveAPIKey(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "from-env", key)
}
