// Copyright 2026 The Hotmap Authors
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"log"

	"github.com/jcodagnone/hotmap/complaints"
	"github.com/jcodagnone/hotmap/server"
	"github.com/jcodagnone/hotmap/utils/textutils"
	"github.com/spf13/cobra"
)

type serveOptions struct {
	Addr      string
	MaxPoints int
	SeedFile  string
}

var serveOpts = &serveOptions{}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the hotspots HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		db, repo, err := openStore()
		if err != nil {
			return err
		}
		defer db.Close()

		seeded, n, err := complaints.SeedIfEmpty(cmd.Context(), repo, serveOpts.SeedFile)
		if err != nil {
			return fmt.Errorf("seeding database: %w", err)
		}

		if seeded {
			log.Printf("✅ Seeded database with %s %s from %s",
				textutils.FormatInt(int64(n)), textutils.Plural(n, "complaint", "complaints"), serveOpts.SeedFile)
		} else {
			log.Printf("Database has %s %s", textutils.FormatInt(int64(n)), textutils.Plural(n, "complaint", "complaints"))
		}

		clusterer, err := rootOpts.clusterer()
		if err != nil {
			return err
		}

		s, err := server.NewServer(repo, clusterer, serveOpts.MaxPoints)
		if err != nil {
			return err
		}

		return s.Run(serveOpts.Addr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(
		&serveOpts.Addr,
		"addr",
		"localhost:8080",
		"Address to listen on",
	)
	serveCmd.Flags().IntVar(
		&serveOpts.MaxPoints,
		"max-points",
		server.DefaultMaxPoints,
		"Maximum complaints loaded per request",
	)
	serveCmd.Flags().StringVar(
		&serveOpts.SeedFile,
		"seed-file",
		"",
		"Seed file imported when the database is empty",
	)
}
