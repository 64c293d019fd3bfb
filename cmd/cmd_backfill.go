// Copyright 2026 The Hotmap Authors
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/jcodagnone/hotmap/complaints"
	"github.com/spf13/cobra"
)

type backfillOptions struct {
	complaints.BackfillOptions
	EnableHTTPTrace bool
	Language        string
}

var backfillOpts = &backfillOptions{}

var backfillCmd = &cobra.Command{
	Use:   "backfill-districts",
	Short: "Fill missing complaint districts through reverse geocoding",
	Long: `Reverse geocodes, with the Google Maps Geocoding API, every complaint
that has no district and stores the district, city, locality and pin found.

The API key is read from GOOGLE_MAPS_API_KEY or, when unset, retrieved from the
API Keys service of the Application Default Credentials project.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		apiKey, err := complaints.ResolveAPIKey(cmd.Context())
		if err != nil {
			return err
		}

		var trace io.Writer
		if backfillOpts.EnableHTTPTrace {
			trace = os.Stderr
		}

		geocoder, err := complaints.NewGoogleMapsGeocoder(complaints.GoogleMapsOptions{
			APIKey:    apiKey,
			Trace:     trace,
			UserAgent: fmt.Sprintf("hotmap/%s", Version),
			Language:  backfillOpts.Language,
		})
		if err != nil {
			return err
		}

		db, repo, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		metrics, err := complaints.BackfillDistricts(cmd.Context(), repo, geocoder, backfillOpts.BackfillOptions)
		if metrics != nil {
			log.Printf("Backfill: %s", metrics)
		}

		if err != nil {
			log.Printf("🛑 Backfill stopped: %v", err)

			return err
		}

		progress, err := repo.Progress(cmd.Context())
		if err != nil {
			return err
		}

		log.Printf("✅ %.1f%% of complaints have a district", progress.DistrictPercentage)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(backfillCmd)
	backfillCmd.Flags().Float64Var(
		&backfillOpts.QPS,
		"qps",
		10,
		"Maximum geocoding requests per second (0 means unlimited)",
	)
	backfillCmd.Flags().IntVar(
		&backfillOpts.Limit,
		"limit",
		0,
		"Maximum complaints to geocode (0 means all)",
	)
	backfillCmd.Flags().BoolVar(
		&backfillOpts.EnableHTTPTrace,
		"trace-http",
		false,
		"Display HTTP requests-responses",
	)
	backfillCmd.Flags().StringVar(
		&backfillOpts.Language,
		"language",
		"en",
		"Language of the returned address components",
	)
}
