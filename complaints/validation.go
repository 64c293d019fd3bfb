// Copyright 2026 The Hotmap Authors
//
// SPDX-License-Identifier: Apache-2.0

package complaints

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jcodagnone/hotmap/hotspot"
)

// validUrgency contains the accepted urgency levels.
var validUrgency = map[string]bool{
	"LOW":      true,
	"MEDIUM":   true,
	"HIGH":     true,
	"CRITICAL": true,
}

const (
	unknownCategory = "Unknown"
	maxDescription  = 5000
	maxField        = 200
)

// ValidationError describes why a record of a batch was rejected.
type ValidationError struct {
	Index  int    `json:"index"`
	ID     string `json:"id,omitempty"`
	Reason string `json:"reason"`
}

func (e *ValidationError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("complaint #%d (%s): %s", e.Index, e.ID, e.Reason)
	}

	return fmt.Sprintf("complaint #%d: %s", e.Index, e.Reason)
}

// validateComplaint checks that a sanitized complaint can be stored and clustered.
func validateComplaint(c *hotspot.GeoPoint) error {
	if c == nil {
		return errors.New("complaint can't be nil")
	}

	if c.ID == "" {
		return errors.New("id can't be empty")
	}

	if err := c.Point().Validate(); err != nil {
		return fmt.Errorf("invalid coordinates: %w", err)
	}

	if len(c.Description) > maxDescription {
		return fmt.Errorf("description too long (max %d characters)", maxDescription)
	}

	if c.Status == "" {
		return errors.New("status can't be empty")
	}

	if c.Urgency != "" && !validUrgency[c.Urgency] {
		return fmt.Errorf("invalid urgency: %s", c.Urgency)
	}

	if c.SubmissionDate.IsZero() {
		return errors.New("submissionDate can't be empty")
	}

	for name, v := range map[string]*string{
		"district": c.District,
		"city":     c.City,
		"locality": c.Locality,
		"pin":      c.Pin,
	} {
		if v != nil && len(*v) > maxField {
			return fmt.Errorf("%s too long (max %d characters)", name, maxField)
		}
	}

	return nil
}

func sanitizeOptional(s *string) *string {
	if s == nil {
		return nil
	}

	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}

	return &v
}

// sanitizeComplaint trims text fields, maps empty optional fields to nil and
// defaults the category.
func sanitizeComplaint(c hotspot.GeoPoint) hotspot.GeoPoint {
	c.ID = strings.TrimSpace(c.ID)
	c.Description = strings.TrimSpace(c.Description)
	c.Category = strings.TrimSpace(c.Category)
	c.SubCategory = strings.TrimSpace(c.SubCategory)
	c.Status = strings.ToUpper(strings.TrimSpace(c.Status))
	c.Urgency = strings.ToUpper(strings.TrimSpace(c.Urgency))

	if c.Category == "" {
		c.Category = unknownCategory
	}

	c.District = sanitizeOptional(c.District)
	c.City = sanitizeOptional(c.City)
	c.Locality = sanitizeOptional(c.Locality)
	c.Pin = sanitizeOptional(c.Pin)
	c.SubmissionDate = c.SubmissionDate.UTC()

	return c
}

// FilterValid sanitizes complaints and splits them into the ones that can be
// clustered and the rejected ones.
func FilterValid(complaints []hotspot.GeoPoint) ([]hotspot.GeoPoint, []ValidationError) {
	valid := make([]hotspot.GeoPoint, 0, len(complaints))

	var rejected []ValidationError

	for i, c := range complaints {
		c = sanitizeComplaint(c)
		if err := validateComplaint(&c); err != nil {
			rejected = append(rejected, ValidationError{Index: i, ID: c.ID, Reason: err.Error()})

			continue
		}

		valid = append(valid, c)
	}

	return valid, rejected
}
