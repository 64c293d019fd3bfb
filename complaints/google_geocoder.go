// Copyright 2026 The Hotmap Authors
//
// SPDX-License-Identifier: Apache-2.0

package complaints

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"slices"
	"time"

	apikeys "cloud.google.com/go/apikeys/apiv2"
	"cloud.google.com/go/apikeys/apiv2/apikeyspb"
	"github.com/jcodagnone/hotmap/spatial"
	"github.com/jcodagnone/hotmap/utils/httputils"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/iterator"
	"googlemaps.github.io/maps"
)

// GoogleMapsOptions configures a GoogleMapsGeocoder.
type GoogleMapsOptions struct {
	APIKey string
	// BaseURL overrides the Maps API host, used by tests.
	BaseURL string
	// Trace receives a dump of every HTTP exchange when not nil.
	Trace     io.Writer
	UserAgent string
	Timeout   time.Duration
	// Language of the returned address components.
	Language string
}

// GoogleMapsGeocoder uses the Google Maps Geocoding API.
type GoogleMapsGeocoder struct {
	client   *maps.Client
	language string
}

// NewGoogleMapsGeocoder creates a new Google Maps geocoder.
func NewGoogleMapsGeocoder(opts GoogleMapsOptions) (*GoogleMapsGeocoder, error) {
	if opts.APIKey == "" {
		return nil, errors.New("google maps api key is required")
	}

	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}

	if opts.UserAgent == "" {
		opts.UserAgent = "hotmap"
	}

	httpClient := &http.Client{
		Timeout: opts.Timeout,
		Transport: &httputils.AppendRequestHeadersRoundTripper{
			Transport: &httputils.LoggingRoundTripper{
				Transport: http.DefaultTransport,
				Writer:    opts.Trace,
				DumpBody:  true,
			},
			Headers: map[string]string{"User-Agent": opts.UserAgent},
		},
	}

	clientOpts := []maps.ClientOption{
		maps.WithAPIKey(opts.APIKey),
		maps.WithHTTPClient(httpClient),
		// requests are paced by the caller
		maps.WithRateLimit(0),
	}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, maps.WithBaseURL(opts.BaseURL))
	}

	client, err := maps.NewClient(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating maps client: %w", err)
	}

	return &GoogleMapsGeocoder{client: client, language: opts.Language}, nil
}

// ReverseGeocode returns the address of p.
func (g *GoogleMapsGeocoder) ReverseGeocode(ctx context.Context, p spatial.Point) (*Address, error) {
	results, err := g.client.ReverseGeocode(ctx, &maps.GeocodingRequest{
		LatLng:   &maps.LatLng{Lat: p.Lat, Lng: p.Lng},
		Language: g.language,
	})
	if err != nil {
		return nil, ClassifyMapsError(err)
	}

	if len(results) == 0 {
		return nil, &GeocodingError{
			Type:    ErrorTypeNotFound,
			Message: fmt.Sprintf("no address found for %s", p),
		}
	}

	return addressFromResults(results), nil
}

// component returns the long name of the first component of any of the
// given types, searched in order of preference across all results.
func component(results []maps.GeocodingResult, types ...string) string {
	for _, t := range types {
		for _, r := range results {
			for _, c := range r.AddressComponents {
				if slices.Contains(c.Types, t) {
					return c.LongName
				}
			}
		}
	}

	return ""
}

func addressFromResults(results []maps.GeocodingResult) *Address {
	return &Address{
		District:         component(results, "administrative_area_level_3", "administrative_area_level_2"),
		City:             component(results, "locality"),
		Locality:         component(results, "sublocality_level_1", "sublocality", "neighborhood"),
		Pin:              component(results, "postal_code"),
		FormattedAddress: results[0].FormattedAddress,
	}
}

// APIKeyDisplayName is the display name of the Maps API key looked up through
// Application Default Credentials.
const APIKeyDisplayName = "Hotmap Geocoding Key"

// APIKeyFromADC retrieves the Maps API key from the API Keys service of the
// project found in the Application Default Credentials.
func APIKeyFromADC(ctx context.Context) (string, error) {
	creds, err := google.FindDefaultCredentials(ctx, "https://www.googleapis.com/auth/cloud-platform")
	if err != nil {
		return "", fmt.Errorf("finding default credentials: %w", err)
	}

	projectID := creds.ProjectID
	if projectID == "" {
		projectID = os.Getenv("GOOGLE_CLOUD_PROJECT")
		if projectID == "" {
			return "", errors.New("no project id in credentials and GOOGLE_CLOUD_PROJECT is not set")
		}

		log.Printf("⚠️ No Project ID found in credentials. Using GOOGLE_CLOUD_PROJECT: %s", projectID)
	}

	client, err := apikeys.NewClient(ctx)
	if err != nil {
		return "", fmt.Errorf("creating apikeys client: %w", err)
	}
	defer client.Close()

	it := client.ListKeys(ctx, &apikeyspb.ListKeysRequest{
		Parent: fmt.Sprintf("projects/%s/locations/global", projectID),
	})

	for {
		key, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}

		if err != nil {
			return "", fmt.Errorf("listing keys: %w", err)
		}

		if key.DisplayName != APIKeyDisplayName {
			continue
		}

		// ListKeys redacts the key string.
		log.Printf("Found key resource '%s', retrieving secret...", key.Name)

		resp, err := client.GetKeyString(ctx, &apikeyspb.GetKeyStringRequest{Name: key.Name})
		if err != nil {
			return "", fmt.Errorf("getting key string: %w", err)
		}

		if resp.KeyString == "" {
			return "", fmt.Errorf("key '%s' found but KeyString is empty", APIKeyDisplayName)
		}

		return resp.KeyString, nil
	}

	return "", fmt.Errorf("key with display name '%s' not found in project %s", APIKeyDisplayName, projectID)
}

// ResolveAPIKey returns GOOGLE_MAPS_API_KEY or, when unset, the key found
// through Application Default Credentials.
func ResolveAPIKey(ctx context.Context) (string, error) {
	if apiKey := os.Getenv("GOOGLE_MAPS_API_KEY"); apiKey != "" {
		return apiKey, nil
	}

	log.Println("GOOGLE_MAPS_API_KEY is not set. Attempting to retrieve via ADC...")

	apiKey, err := APIKeyFromADC(ctx)
	if err != nil {
		return "", fmt.Errorf("retrieving api key via ADC: %w", err)
	}

	log.Println("✅ Successfully retrieved Google Maps API Key via ADC")

	return apiKey, nil
}
