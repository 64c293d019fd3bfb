// Copyright 2026 The Hotmap Authors
//
// SPDX-License-Identifier: Apache-2.0

package complaints

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/jcodagnone/hotmap/hotspot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateComplaint(t *testing.T) {
	valid := newComplaint("c1", 1, 12.9716, 77.5946, strPtr("Bengaluru Urban"))

	tests := []struct {
		name    string
		mutate  func(c *hotspot.GeoPoint)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(*hotspot.GeoPoint) {},
		},
		{
			name:    "missing id",
			mutate:  func(c *hotspot.GeoPoint) { c.ID = "" },
			wantErr: "id can't be empty",
		},
		{
			name:    "latitude out of range",
			mutate:  func(c *hotspot.GeoPoint) { c.Latitude = 91 },
			wantErr: "invalid coordinates",
		},
		{
			name:    "longitude out of range",
			mutate:  func(c *hotspot.GeoPoint) { c.Longitude = -181 },
			wantErr: "invalid coordinates",
		},
		{
			name:    "NaN latitude",
			mutate:  func(c *hotspot.GeoPoint) { c.Latitude = math.NaN() },
			wantErr: "invalid coordinates",
		},
		{
			name:    "infinite longitude",
			mutate:  func(c *hotspot.GeoPoint) { c.Longitude = math.Inf(1) },
			wantErr: "invalid coordinates",
		},
		{
			name:    "description too long",
			mutate:  func(c *hotspot.GeoPoint) { c.Description = strings.Repeat("x", maxDescription+1) },
			wantErr: "description too long",
		},
		{
			name:    "missing status",
			mutate:  func(c *hotspot.GeoPoint) { c.Status = "" },
			wantErr: "status can't be empty",
		},
		{
			name:    "unknown urgency",
			mutate:  func(c *hotspot.GeoPoint) { c.Urgency = "WHENEVER" },
			wantErr: "invalid urgency",
		},
		{
			name:   "empty urgency",
			mutate: func(c *hotspot.GeoPoint) { c.Urgency = "" },
		},
		{
			name:    "missing submission date",
			mutate:  func(c *hotspot.GeoPoint) { c.SubmissionDate = time.Time{} },
			wantErr: "submissionDate can't be empty",
		},
		{
			name:    "pin too long",
			mutate:  func(c *hotspot.GeoPoint) { c.Pin = strPtr(strings.Repeat("1", maxField+1)) },
			wantErr: "pin too long",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)

			err := validateComplaint(&c)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}

	assert.Error(t, validateComplaint(nil))
}

func TestSanitizeComplaint(t *testing.T) {
	c := hotspot.GeoPoint{
		ID:          "  c1 ",
		Description: " broken streetlight ",
		Category:    "  ",
		Status:      " registered",
		Urgency:     "high ",
		District:    strPtr("  "),
		City:        strPtr(" Bengaluru "),
		Locality:    nil,
		SubmissionDate: time.Date(2025, 11, 3, 15, 30, 0, 0,
			time.FixedZone("IST", 5*3600+1800)),
	}

	got := sanitizeComplaint(c)

	assert.Equal(t, "c1", got.ID)
	assert.Equal(t, "broken streetlight", got.Description)
	assert.Equal(t, "Unknown", got.Category)
	assert.Equal(t, "REGISTERED", got.Status)
	assert.Equal(t, "HIGH", got.Urgency)
	assert.Nil(t, got.District)
	require.NotNil(t, got.City)
	assert.Equal(t, "Bengaluru", *got.City)
	assert.Nil(t, got.Locality)
	assert.Equal(t, time.Date(2025, 11, 3, 10, 0, 0, 0, time.UTC), got.SubmissionDate)

	// the input is not modified
	assert.Equal(t, " Bengaluru ", *c.City)
}

func TestFilterValid(t *testing.T) {
	input := []hotspot.GeoPoint{
		newComplaint("ok1", 1, 12.97, 77.59, nil),
		newComplaint("bad", 2, math.NaN(), 77.59, nil),
		newComplaint("ok2", 3, -33.86, 151.2, nil),
		newComplaint("", 4, 12.97, 77.59, nil),
	}

	valid, rejected := FilterValid(input)

	assert.Equal(t, []string{"ok1", "ok2"}, ids(valid))
	require.Len(t, rejected, 2)
	assert.Equal(t, 1, rejected[0].Index)
	assert.Equal(t, "bad", rejected[0].ID)
	assert.Contains(t, rejected[0].Reason, "invalid coordinates")
	assert.Equal(t, 3, rejected[1].Index)
	assert.Equal(t, "complaint #3: id can't be empty", rejected[1].Error())

	valid, rejected = FilterValid(nil)
	assert.Empty(t, valid)
	assert.Empty(t, rejected)
}
