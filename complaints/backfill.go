// Copyright 2026 The Hotmap Authors
//
// SPDX-License-Identifier: Apache-2.0

package complaints

import (
	"context"
	"fmt"
	"log"

	"github.com/jcodagnone/hotmap/utils/textutils"
	"golang.org/x/time/rate"
)

// BackfillOptions configures BackfillDistricts.
type BackfillOptions struct {
	// QPS caps geocoding requests per second. Zero or less means unlimited.
	QPS float64
	// Limit caps the number of complaints processed. Zero means all.
	Limit int
}

// BackfillMetrics reports the outcome of a backfill run.
type BackfillMetrics struct {
	Processed  int
	Updated    int
	NotFound   int
	NoDistrict int
	Failed     int
}

func (m *BackfillMetrics) String() string {
	return fmt.Sprintf("%s processed, %s updated, %s not found, %s without district, %s failed",
		textutils.FormatInt(int64(m.Processed)),
		textutils.FormatInt(int64(m.Updated)),
		textutils.FormatInt(int64(m.NotFound)),
		textutils.FormatInt(int64(m.NoDistrict)),
		textutils.FormatInt(int64(m.Failed)),
	)
}

// BackfillDistricts reverse geocodes complaints that have no district and
// stores the resolved address. It stops on quota or authorization errors,
// counts locations without address and keeps going on any other geocoding
// error.
func BackfillDistricts(ctx context.Context, repo ComplaintRepository, geocoder Geocoder, opts BackfillOptions) (*BackfillMetrics, error) {
	pending, err := repo.ListMissingDistrict(ctx, opts.Limit)
	if err != nil {
		return nil, fmt.Errorf("listing complaints without district: %w", err)
	}

	metrics := &BackfillMetrics{}
	if len(pending) == 0 {
		return metrics, nil
	}

	limit := rate.Inf
	if opts.QPS > 0 {
		limit = rate.Limit(opts.QPS)
	}

	limiter := rate.NewLimiter(limit, 1)

	bar := newProgress(len(pending), "Backfilling districts")
	defer bar.Finish()

	for _, c := range pending {
		if err := limiter.Wait(ctx); err != nil {
			return metrics, err
		}

		metrics.Processed++

		address, err := geocoder.ReverseGeocode(ctx, c.Point())

		switch {
		case err == nil:
		case IsFatalError(err):
			return metrics, fmt.Errorf("geocoding %s: %w", c.ID, err)
		case IsNotFoundError(err):
			metrics.NotFound++

			bar.Add(1)

			continue
		default:
			if ctx.Err() != nil {
				return metrics, ctx.Err()
			}

			log.Printf("⚠️ geocoding %s failed: %v", c.ID, err)

			metrics.Failed++

			bar.Add(1)

			continue
		}

		if address.District == "" {
			metrics.NoDistrict++
		}

		if err := repo.UpdateAddress(ctx, c.ID, address); err != nil {
			return metrics, err
		}

		if address.District != "" {
			metrics.Updated++
		}

		bar.Add(1)
	}

	return metrics, nil
}
