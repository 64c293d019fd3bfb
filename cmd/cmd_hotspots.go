// Copyright 2026 The Hotmap Authors
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/jcodagnone/hotmap/complaints"
	"github.com/jcodagnone/hotmap/server"
	"github.com/jcodagnone/hotmap/spatial"
	"github.com/jcodagnone/hotmap/utils/textutils"
	"github.com/spf13/cobra"
)

type hotspotsOptions struct {
	FromFile string
	JSON     bool
	District string
	Status   string
	Since    string
	Until    string
	BBox     string
	Limit    int
}

var hotspotsOpts = &hotspotsOptions{}

func (o *hotspotsOptions) filter() (complaints.LocationFilter, error) {
	filter := complaints.LocationFilter{
		District: o.District,
		Status:   o.Status,
		Limit:    o.Limit,
	}

	var err error

	if o.Since != "" {
		if filter.Since, err = time.Parse(time.RFC3339, o.Since); err != nil {
			return filter, fmt.Errorf("invalid --since: %w", err)
		}
	}

	if o.Until != "" {
		if filter.Until, err = time.Parse(time.RFC3339, o.Until); err != nil {
			return filter, fmt.Errorf("invalid --until: %w", err)
		}
	}

	if o.BBox != "" {
		if filter.Viewport, err = spatial.ParseViewport(o.BBox); err != nil {
			return filter, fmt.Errorf("invalid --bbox: %w", err)
		}
	}

	return filter, nil
}

// openHotspotsSource returns the store to cluster: the database, or an
// in-memory copy of a seed file.
func openHotspotsSource(ctx context.Context, fromFile string) (*sql.DB, complaints.ComplaintRepository, error) {
	if fromFile == "" {
		return openStore()
	}

	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, nil, fmt.Errorf("opening in-memory database: %w", err)
	}

	repo := complaints.NewComplaintRepository(db)
	if err := repo.CreateSchema(); err != nil {
		_ = db.Close()

		return nil, nil, fmt.Errorf("creating schema: %w", err)
	}

	if _, err := complaints.ImportFromJSON(ctx, repo, fromFile); err != nil {
		_ = db.Close()

		return nil, nil, fmt.Errorf("loading %s: %w", fromFile, err)
	}

	return db, repo, nil
}

func writeHotspotsJSON(w io.Writer, resp server.HotspotsResponse) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(resp)
}

func writeHotspotsTable(w io.Writer, resp server.HotspotsResponse) error {
	if _, err := fmt.Fprintf(w, "%-4s %7s %-7s %9s %-22s %s\n", "#", "COUNT", "TIER", "RADIUS_M", "CENTER", "DISTRICT"); err != nil {
		return err
	}

	for i, c := range resp.Clusters {
		center := fmt.Sprintf("%.5f,%.5f", c.Center.Lat, c.Center.Lng)

		_, err := fmt.Fprintf(w, "%-4d %7s %-7s %9.0f %-22s %s\n",
			i+1, textutils.FormatInt(int64(c.Count)), c.Tier, c.Radius, center, c.District)
		if err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(w, "\n%s %s in %s %s, focus %.5f,%.5f zoom %d\n",
		textutils.FormatInt(int64(resp.Total)), textutils.Plural(resp.Total, "complaint", "complaints"),
		textutils.FormatInt(int64(len(resp.Clusters))), textutils.Plural(len(resp.Clusters), "hotspot", "hotspots"),
		resp.Focus.Center.Lat, resp.Focus.Center.Lng, resp.Focus.Zoom,
	)

	return err
}

var hotspotsCmd = &cobra.Command{
	Use:   "hotspots",
	Short: "Print the complaint hotspots",
	Long: `Clusters the stored complaints, or the complaints of a seed file, and
prints the hotspots with the initial map focus.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		filter, err := hotspotsOpts.filter()
		if err != nil {
			return err
		}

		clusterer, err := rootOpts.clusterer()
		if err != nil {
			return err
		}

		db, repo, err := openHotspotsSource(cmd.Context(), hotspotsOpts.FromFile)
		if err != nil {
			return err
		}
		defer db.Close()

		locations, err := repo.ListLocations(cmd.Context(), filter)
		if err != nil {
			return fmt.Errorf("listing complaints: %w", err)
		}

		resp := server.NewHotspotsResponse(clusterer, locations, hotspotsOpts.JSON)
		if hotspotsOpts.JSON {
			return writeHotspotsJSON(cmd.OutOrStdout(), resp)
		}

		return writeHotspotsTable(cmd.OutOrStdout(), resp)
	},
}

func init() {
	rootCmd.AddCommand(hotspotsCmd)
	hotspotsCmd.Flags().StringVar(&hotspotsOpts.FromFile, "from-file", "", "Cluster the complaints of a seed file instead of the database")
	hotspotsCmd.Flags().BoolVar(&hotspotsOpts.JSON, "json", false, "Print the hotspots, with their complaints, as JSON")
	hotspotsCmd.Flags().StringVar(&hotspotsOpts.District, "district", "", "Only complaints of this district")
	hotspotsCmd.Flags().StringVar(&hotspotsOpts.Status, "status", "", "Only complaints with this status")
	hotspotsCmd.Flags().StringVar(&hotspotsOpts.Since, "since", "", "Only complaints submitted at or after this RFC 3339 time")
	hotspotsCmd.Flags().StringVar(&hotspotsOpts.Until, "until", "", "Only complaints submitted before this RFC 3339 time")
	hotspotsCmd.Flags().StringVar(&hotspotsOpts.BBox, "bbox", "", "Only complaints inside south,west,north,east")
	hotspotsCmd.Flags().IntVar(&hotspotsOpts.Limit, "limit", server.DefaultMaxPoints, "Maximum complaints clustered, most recent first (0 means all)")
}
